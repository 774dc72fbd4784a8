package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/typeboot/internal/app"
	"github.com/vk/typeboot/internal/mapping"
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

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("typeboot", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
typeboot - Resolve a domain manifest into a type registry and report it.

Usage:
  typeboot [options] [MANIFEST_PATH]

Arguments:
  MANIFEST_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	manifestFlag := flagSet.String("manifest", "", "Path to the manifest file or directory.")
	mFlag := flagSet.String("m", "", "Path to the manifest file or directory (shorthand).")
	styleFlag := flagSet.String("mapping-style", "field", "Property mapping style. Options: 'field' or 'accessor'.")
	typeSafeFlag := flagSet.Bool("type-safe-values", false, "Emit type-tagged JSON envelopes.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *manifestFlag != "" {
		path = *manifestFlag
	} else if *mFlag != "" {
		path = *mFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Manifest path determined.", "path", path)

	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	if _, err := mapping.Parse(*styleFlag); err != nil {
		return nil, false, &ExitError{Code: 2, Message: "invalid mapping-style: must be 'field' or 'accessor'"}
	}

	config, err := app.NewConfig(app.Config{
		ManifestPath:   path,
		MappingStyle:   strings.ToLower(*styleFlag),
		TypeSafeValues: *typeSafeFlag,
		LogFormat:      *logFormatFlag,
		LogLevel:       *logLevelFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
