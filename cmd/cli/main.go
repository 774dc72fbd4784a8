package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/typeboot/internal/app"
	"github.com/vk/typeboot/internal/cli"
	"github.com/vk/typeboot/internal/manifest"
	"github.com/vk/typeboot/internal/sample"
)

// main is the entrypoint for the typeboot application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run loads the manifest, boots the registry against the sample catalog and
// writes the report to outW. Logs go to logW.
func run(outW, logW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	builder, err := app.New(logW, cfg)
	if err != nil {
		return err
	}
	ctx := builder.Context()

	m, err := manifest.Load(ctx, cfg.ManifestPath)
	if err != nil {
		return err
	}
	if err := manifest.Apply(ctx, m, sample.Catalog(), builder); err != nil {
		return err
	}

	sys, err := builder.Build()
	if err != nil {
		return err
	}

	data, err := sys.Converter().Marshal(newReport(sys))
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = fmt.Fprintln(outW, string(data))
	return err
}
