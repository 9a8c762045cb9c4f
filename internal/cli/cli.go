package cli

import (
	"flag"
	"fmt"
	"io"

	"github.com/specialistvlad/ginflatgo/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("ginflatgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
ginflatgo - Flattens gin configuration fragments into one resolved mapping.

Usage:
  ginflatgo [options] [ENTRY_FRAGMENT]

Arguments:
  ENTRY_FRAGMENT
    Path to the entry .gin fragment, relative to the search root.

Options:
`)
		flagSet.PrintDefaults()
	}

	fileFlag := flagSet.String("f", "", "Path to the entry fragment (alternative to the positional argument).")
	rootFlag := flagSet.String("root", "", "Search root for fragment paths. Defaults to the current directory.")
	outputFlag := flagSet.String("output", "", "Output format: 'gin', 'json' or 'yaml'. Defaults to 'gin'.")
	strictFlag := flagSet.Bool("strict", false, "Fail when a key is re-bound at a different type across fragments.")
	maxDepthFlag := flagSet.Int("max-depth", 0, "Maximum include nesting. 0 disables the bound.")
	checkFlag := flagSet.Bool("check", false, "Parse every fragment under the search root and report per-file results.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format: 'text' or 'json'. Defaults to 'text'.")
	logLevelFlag := flagSet.String("log-level", "", "Logging level: 'debug', 'info', 'warn' or 'error'. Defaults to 'warn'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := *fileFlag
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" && !*checkFlag {
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(app.Config{
		EntryPath: path,
		Root:      *rootFlag,
		Output:    *outputFlag,
		Strict:    *strictFlag,
		MaxDepth:  *maxDepthFlag,
		Check:     *checkFlag,
		LogFormat: *logFormatFlag,
		LogLevel:  *logLevelFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
