package cli

import (
	"github.com/spf13/cobra"

	"github.com/doeshing/readerstate/internal/app"
	"github.com/doeshing/readerstate/internal/infrastructure/cli/commands"
	"github.com/doeshing/readerstate/internal/pkg/clock"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
	// DisableOpenLog runs without the SQLite statistics log.
	DisableOpenLog bool
	Clock          clock.Clock
}

// NewRootCmd wires the cobra root command. The container is wired once flags
// are parsed, so --data-dir and --mode apply to every store.
func NewRootCmd(opts Options) *cobra.Command {
	container := app.New()

	var (
		dataDir string
		mode    string
		verbose = opts.Verbose
	)

	root := &cobra.Command{
		Use:   "readerstate",
		Short: "Manage PDF reader settings and document history",
		Long: "readerstate inspects and edits the settings (config.json) and recently opened\n" +
			"documents (pdf-history.json) kept by the PDF reader.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return container.Wire(app.Options{
				Verbose:        verbose,
				DataDir:        dataDir,
				Mode:           mode,
				DisableOpenLog: opts.DisableOpenLog,
				Clock:          opts.Clock,
				LogOutput:      cmd.ErrOrStderr(),
			})
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return container.Close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding config.json and pdf-history.json (env READERSTATE_HOME)")
	root.PersistentFlags().StringVar(&mode, "mode", "", "Location strategy: dev|portable|user (env READERSTATE_MODE)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", verbose, "Enable verbose logging (env READERSTATE_DEBUG)")

	root.AddCommand(
		commands.NewConfigCommand(container),
		commands.NewHistoryCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewVersionCommand(),
	)
	return root
}
