package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mcenv/mcenv"
)

// terminateTimeout bounds how long the CLI waits for a graceful stop before
// giving up on the supervisor (which itself escalates to SIGKILL).
const terminateTimeout = 2 * time.Minute

func newRunCmd(a *app) *cobra.Command {
	var upload bool

	cmd := &cobra.Command{
		Use:   "run <id>",
		Short: "Run an installed instance in the foreground",
		Long: "Run an installed instance in the foreground: server output streams to\n" +
			"stdout and stdin is forwarded to the server console. Ctrl-C stops the\n" +
			"server gracefully, giving it time to save the world.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			srv, err := a.mgr.Launch(ctx, id, mcenv.LaunchOptions{Stdin: cmd.InOrStdin()})
			if err != nil {
				return err
			}
			pterm.Info.Printfln("Server %s running (pid %d); Ctrl-C to stop", id, srv.PID())

			drained := make(chan struct{})
			go func() {
				defer close(drained)
				out := cmd.OutOrStdout()
				for line := range srv.Lines() {
					fmt.Fprintln(out, line)
				}
			}()

			select {
			case <-ctx.Done():
				pterm.Println()
				pterm.Info.Println("Stopping server...")
				stopCtx, cancel := context.WithTimeout(context.Background(), terminateTimeout)
				err := srv.Terminate(stopCtx)
				cancel()
				if err != nil {
					return fmt.Errorf("stopping server: %w", err)
				}
			case <-srv.Exited():
			}

			<-srv.Exited()
			<-drained
			res, _ := srv.Result()

			switch srv.State() {
			case mcenv.StateCrashed:
				pterm.Error.Printfln("Server crashed (exit code %d)", res.ExitCode)
				return handleCrash(a, res, upload)
			default:
				pterm.Success.Printfln("Server stopped (exit code %d)", res.ExitCode)
				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&upload, "upload-crash", false, "upload the crash report without asking")
	return cmd
}

// handleCrash offers to share the crash report and prints the paste URL.
// The command still fails so scripts observe the crash.
func handleCrash(a *app, res mcenv.Result, upload bool) error {
	if res.Crash == nil {
		return fmt.Errorf("server crashed with exit code %d", res.ExitCode)
	}
	pterm.Info.Printfln("Crash report: %s", res.Crash.Path)

	if !upload {
		answer, err := pterm.DefaultInteractiveConfirm.
			WithDefaultText("Upload the crash report to mclo.gs for sharing?").
			WithDefaultValue(false).
			Show()
		if err != nil || !answer {
			return fmt.Errorf("server crashed with exit code %d", res.ExitCode)
		}
	}

	// The run context may already be canceled (Ctrl-C); upload with its own.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	url, err := a.mgr.UploadCrashReport(ctx, res.Crash.Path)
	if err != nil {
		pterm.Warning.Printfln("Upload failed: %v", err)
	} else {
		pterm.Success.Printfln("Crash report uploaded: %s", url)
	}
	return fmt.Errorf("server crashed with exit code %d", res.ExitCode)
}
