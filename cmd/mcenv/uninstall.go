package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newUninstallCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "uninstall <id>",
		Short: "Remove an installed instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			inst, err := a.mgr.Instance(ctx, id)
			if err != nil {
				return err
			}

			if !yes {
				ok, err := pterm.DefaultInteractiveConfirm.
					WithDefaultText(fmt.Sprintf("Remove %s (Minecraft %s) and everything in %s?", inst.ID, inst.Version, inst.Dir)).
					WithDefaultValue(false).
					Show()
				if err != nil {
					return err
				}
				if !ok {
					pterm.Info.Println("Keeping the instance.")
					return nil
				}
			}

			if err := a.mgr.Uninstall(ctx, id); err != nil {
				return err
			}
			pterm.Success.Printfln("Uninstalled %s", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
