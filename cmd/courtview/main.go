// Command courtview edits a diagram file in the terminal.
//
//	courtview [diagram.json]
//
// Commits are written back to the file. Templates come from TEMPLATE_DIR,
// falling back to the builtin set.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/drillboard/drillboard/backend-go/internal/config"
	"github.com/drillboard/drillboard/backend-go/internal/courtview"
	"github.com/drillboard/drillboard/backend-go/internal/symbol"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "courtview:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	level, _ := cfg.Level()

	// stderr belongs to the alt screen
	if level <= slog.LevelDebug {
		f, err := tea.LogToFile("courtview.log", "courtview")
		if err != nil {
			return err
		}
		defer f.Close()
		slog.SetLogLoggerLevel(level)
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	provider := symbol.Chain{symbol.NewCatalog(cfg.TemplateDir), symbol.Builtin()}
	court, err := provider.Template(cfg.CourtTemplate)
	if err != nil {
		return fmt.Errorf("load court template: %w", err)
	}

	var path string
	var doc []byte
	if len(args) > 0 {
		path = args[0]
		doc, err = os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	m, errs := courtview.New(courtview.Options{Path: path, Doc: doc, Provider: provider, Court: court})
	for _, e := range errs {
		slog.Warn("skipped element", "error", e)
	}

	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		return err
	}
	return nil
}
