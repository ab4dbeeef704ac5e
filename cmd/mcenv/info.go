package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <id>",
		Short: "Show details of an installed instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := a.mgr.Instance(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			lastRun := "never"
			if !inst.LastLaunch.IsZero() {
				lastRun = fmt.Sprintf("%s (%s)", inst.LastLaunch.Format("2006-01-02 15:04"), humanize.Time(inst.LastLaunch))
			}
			runtime := inst.RuntimeDir
			if runtime == "" {
				runtime = "system default"
			}

			return pterm.DefaultTable.WithData(pterm.TableData{
				{"ID", inst.ID},
				{"Name", inst.Name},
				{"Minecraft", inst.Version},
				{"Directory", inst.Dir},
				{"Launch settings", inst.ConfigPath},
				{"Java runtime", runtime},
				{"Installed", fmt.Sprintf("%s (%s)", inst.CreatedAt.Format("2006-01-02 15:04"), humanize.Time(inst.CreatedAt))},
				{"Last run", lastRun},
			}).Render()
		},
	}
}

func newLocateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "locate <id>",
		Short: "Print the directory of an installed instance",
		Long: "Print the directory of an installed instance on stdout with no styling,\n" +
			"for use in shell substitutions like cd \"$(mcenv locate myserver)\".",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := a.mgr.Instance(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), inst.Dir)
			return nil
		},
	}
}
