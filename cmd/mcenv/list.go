package main

import (
	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mcenv/mcenv"
)

func newListCmd(a *app) *cobra.Command {
	var (
		channel   string
		limit     int
		all       bool
		installed bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available versions, or installed instances with --installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if installed {
				return listInstances(cmd, a)
			}

			ch, err := parseChannel(channel)
			if err != nil {
				return err
			}
			versions, err := a.mgr.Versions(cmd.Context(), mcenv.Filter{Channel: ch})
			if err != nil {
				return err
			}

			data := pterm.TableData{{"VERSION", "CHANNEL", "RELEASED"}}
			n := 0
			for v := range versions {
				if !all && n >= limit {
					break
				}
				data = append(data, []string{v.ID, v.Channel.String(), humanize.Time(v.ReleaseTime)})
				n++
			}
			if n == 0 {
				pterm.Info.Println("No versions match.")
				return nil
			}
			if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
				return err
			}
			if !all {
				pterm.Info.Printfln("Showing the newest %d versions; use --all for the full list.", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&channel, "channel", "c", "", "only versions on this channel (release, snapshot, beta, alpha)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of versions to show")
	cmd.Flags().BoolVar(&all, "all", false, "show every version")
	cmd.Flags().BoolVar(&installed, "installed", false, "list installed instances instead of available versions")
	return cmd
}

func listInstances(cmd *cobra.Command, a *app) error {
	instances, err := a.mgr.Instances(cmd.Context())
	if err != nil {
		return err
	}
	if len(instances) == 0 {
		pterm.Info.Println("No instances installed.")
		return nil
	}

	data := pterm.TableData{{"ID", "NAME", "VERSION", "CREATED", "LAST RUN"}}
	for _, in := range instances {
		lastRun := "never"
		if !in.LastLaunch.IsZero() {
			lastRun = humanize.Time(in.LastLaunch)
		}
		data = append(data, []string{in.ID, in.Name, in.Version, humanize.Time(in.CreatedAt), lastRun})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
