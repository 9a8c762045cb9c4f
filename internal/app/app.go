package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/ginflatgo/internal/ctxlog"
	"github.com/specialistvlad/ginflatgo/internal/encode"
	"github.com/specialistvlad/ginflatgo/internal/fragment"
	"github.com/specialistvlad/ginflatgo/internal/gin"
	"github.com/specialistvlad/ginflatgo/internal/resolver"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	errW     io.Writer
	logger   *slog.Logger
	config   *Config
	loader   *gin.Loader
	resolver *resolver.Resolver
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger. The resolved
// configuration is written to outW; logs and diagnostics go to errW.
func NewApp(outW, errW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, errW)
	loader := gin.NewLoader(config.Root)

	return &App{
		outW:   outW,
		errW:   errW,
		logger: logger,
		config: config,
		loader: loader,
		resolver: resolver.New(loader, resolver.Options{
			Strict:   config.Strict,
			MaxDepth: config.MaxDepth,
		}),
	}
}

// Run executes the main application logic based on the App's configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.Check {
		return a.check(ctx)
	}

	resolvedCfg, err := a.resolver.Resolve(ctx, a.config.EntryPath)
	if err != nil {
		a.renderDiagnostics(err)
		return fmt.Errorf("failed to resolve %q: %w", a.config.EntryPath, err)
	}
	a.logger.Debug("Resolution complete.", "entry", a.config.EntryPath, "keys", resolvedCfg.Len())

	if err := encode.Write(a.outW, a.config.Output, resolvedCfg); err != nil {
		return fmt.Errorf("failed to encode resolved configuration: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// check parses every fragment under the search root and reports per-file
// results, without resolving includes.
func (a *App) check(ctx context.Context) error {
	paths, err := a.loader.Fragments()
	if err != nil {
		return fmt.Errorf("failed to scan search root: %w", err)
	}
	a.logger.Debug("Check pass started.", "fragments", len(paths))

	failed := 0
	for _, path := range paths {
		if _, err := a.loader.Load(ctx, path); err != nil {
			failed++
			fmt.Fprintf(a.outW, "%s: FAIL\n", path)
			a.renderDiagnostics(err)
			continue
		}
		fmt.Fprintf(a.outW, "%s: ok\n", path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d fragments failed to parse", failed, len(paths))
	}
	return nil
}

// renderDiagnostics pretty-prints parse diagnostics with source snippets.
// Other error kinds carry their context in the error message itself.
func (a *App) renderDiagnostics(err error) {
	var parseErr *fragment.ParseError
	if !errors.As(err, &parseErr) {
		return
	}
	writer := hcl.NewDiagnosticTextWriter(a.errW, a.loader.Sources(), 78, false)
	if writeErr := writer.WriteDiagnostics(parseErr.Diags); writeErr != nil {
		a.logger.Error("Failed to render diagnostics.", "error", writeErr)
	}
}
