// Package cli implements the spectro command-line interface: the
// presentation layer over the session, catalog, draft, and analyses stores.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/spectro/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir   string
	dataDir     string
	apiURL      string
	language    string
	jsonMode    bool
	verbose     bool
	metricsFile string
}

var flags rootFlags

// NewRootCmd creates the top-level "spectro" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "spectro",
		Short: "Pigment catalog and spectrum-analysis client",
		Long: "Spectro browses the pigment catalog, collects pigments into a draft\n" +
			"spectrum-analysis request, and submits it to the analysis service.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: .spectro-db)")
	root.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "backend API base URL (default: "+types.DefaultAPIURL+")")
	root.PersistentFlags().StringVar(&flags.language, "lang", "", "message language: ru or en")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log backend requests")
	root.PersistentFlags().StringVar(&flags.metricsFile, "metrics-file", "", "write request metrics in Prometheus text format to this file")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newLoginCmd())
	root.AddCommand(newRegisterCmd())
	root.AddCommand(newLogoutCmd())
	root.AddCommand(newRefreshCmd())
	root.AddCommand(newWhoamiCmd())
	root.AddCommand(newProfileCmd())
	root.AddCommand(newPigmentsCmd())
	root.AddCommand(newFiltersCmd())
	root.AddCommand(newCartCmd())
	root.AddCommand(newDraftCmd())
	root.AddCommand(newAnalysesCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	// A .env file in the working directory may supply SPECTRO_* settings.
	_ = godotenv.Load()

	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// sysError marks failures of the local environment rather than of the
// user's request.
type sysError struct{ err error }

func (e *sysError) Error() string { return e.err.Error() }
func (e *sysError) Unwrap() error { return e.err }

func systemError(format string, args ...any) error {
	return &sysError{err: fmt.Errorf(format, args...)}
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	var se *sysError
	if errors.As(err, &se) {
		return exitSysError
	}
	return exitUserError
}
