package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kelseyhightower/envconfig"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mcenv/mcenv"
)

var version = "dev"

// settings are the environment-provided defaults. Flags override them.
type settings struct {
	Root         string `envconfig:"ROOT"`
	ManifestURL  string `envconfig:"MANIFEST_URL"`
	RuntimeAPI   string `envconfig:"RUNTIME_API"`
	UploadURL    string `envconfig:"UPLOAD_URL"`
	MaxDownloads int    `envconfig:"MAX_DOWNLOADS"`
}

// app carries the CLI-wide state shared by all subcommands.
type app struct {
	set     settings
	root    string
	verbose bool
	noColor bool

	mgr mcenv.Manager
}

// options translates the effective settings into manager options.
func (a *app) options() []mcenv.Option {
	var opts []mcenv.Option
	if a.root != "" {
		opts = append(opts, mcenv.WithRootDir(a.root))
	}
	if a.set.ManifestURL != "" {
		opts = append(opts, mcenv.WithManifestURL(a.set.ManifestURL))
	}
	if a.set.RuntimeAPI != "" {
		opts = append(opts, mcenv.WithRuntimeAPIURL(a.set.RuntimeAPI))
	}
	if a.set.UploadURL != "" {
		opts = append(opts, mcenv.WithUploadURL(a.set.UploadURL))
	}
	if a.set.MaxDownloads > 0 {
		opts = append(opts, mcenv.WithMaxConcurrentDownloads(a.set.MaxDownloads))
	}
	return opts
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:     "mcenv",
		Short:   "Manage Minecraft server instances",
		Long:    "mcenv installs Minecraft server instances with matching Java runtimes and runs them under supervision.",
		Version: version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.noColor {
				pterm.DisableStyling()
			}

			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
				pterm.EnableDebugMessages()
			}
			mcenv.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

			if err := envconfig.Process("mcenv", &a.set); err != nil {
				return err
			}
			if a.root == "" {
				a.root = a.set.Root
			}
			a.mgr = mcenv.NewManager(a.options()...)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.root, "root", "", "root directory for instances and runtimes (default $MCENV_ROOT or ~/.mcenv)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-colours", false, "do not display console/terminal colours")

	cmd.AddCommand(
		newListCmd(a),
		newInstallCmd(a),
		newUninstallCmd(a),
		newRunCmd(a),
		newInfoCmd(a),
		newLocateCmd(a),
	)
	return cmd
}

// parseChannel maps a --channel flag value to a catalog channel.
func parseChannel(s string) (mcenv.Channel, error) {
	if s == "" || s == "any" {
		return mcenv.ChannelAny, nil
	}
	ch := mcenv.Channel(s)
	if !ch.IsValid() {
		return mcenv.ChannelAny, fmt.Errorf("unknown channel %q (want release, snapshot, beta, alpha or any)", s)
	}
	return ch, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
