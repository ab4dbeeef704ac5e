package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mcenv/mcenv"
)

func newInstallCmd(a *app) *cobra.Command {
	var (
		channel   string
		id        string
		reinstall bool
	)

	cmd := &cobra.Command{
		Use:   "install <name> [version]",
		Short: "Install a server instance",
		Long: "Install a server instance: the server jar and a matching Java runtime are\n" +
			"downloaded and verified, and the instance is registered under an ID derived\n" +
			"from its name. Without a version argument the latest release is installed.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			ch, err := parseChannel(channel)
			if err != nil {
				return err
			}
			sel := mcenv.Selector{Channel: ch}
			if len(args) == 2 {
				sel.ID = args[1]
			}
			if sel.ID == "" && sel.Channel == mcenv.ChannelAny {
				sel.Channel = mcenv.ChannelRelease
			}

			spinner, _ := pterm.DefaultSpinner.Start("Resolving version...")
			ver, err := a.mgr.ResolveVersion(ctx, sel)
			if err != nil {
				spinner.Fail("Could not resolve version")
				return err
			}
			spinner.Success(fmt.Sprintf("Resolved %s (%s, released %s, server jar %s)",
				ver.ID, ver.Channel, humanize.Time(ver.ReleaseTime), humanize.Bytes(uint64(ver.ServerSize))))

			// The resolved metadata is cached, so installing by exact ID does
			// not refetch it.
			var (
				bar  *pterm.ProgressbarPrinter
				prev int64
			)
			progress := func(written, total int64) {
				if bar == nil {
					t := int(total)
					if t <= 0 {
						t = int(ver.ServerSize)
					}
					bar, _ = pterm.DefaultProgressbar.WithTitle("Downloading server jar").WithTotal(t).Start()
				}
				if delta := written - prev; delta > 0 {
					bar.Add(int(delta))
				}
				prev = written
			}

			inst, err := a.mgr.Install(ctx, name, mcenv.Selector{ID: ver.ID}, mcenv.InstallOptions{
				ID:        id,
				Reinstall: reinstall,
				Progress:  progress,
			})
			if bar != nil {
				_, _ = bar.Stop()
			}
			if err != nil {
				return err
			}

			pterm.Success.Printfln("Installed %s (Minecraft %s) into %s", inst.ID, inst.Version, inst.Dir)
			pterm.Info.Printfln("Launch settings: %s", inst.ConfigPath)
			pterm.Info.Printfln("Start it with: mcenv run %s", inst.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&channel, "channel", "c", "", "resolve the latest version on this channel")
	cmd.Flags().StringVar(&id, "id", "", "instance ID (default derived from the name)")
	cmd.Flags().BoolVar(&reinstall, "reinstall", false, "replace an existing instance with the same ID")
	return cmd
}
