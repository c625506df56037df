package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	adapter_bubbletea "github.com/ionut-t/hue/adapter-bubbletea"
	adapter_tcell "github.com/ionut-t/hue/adapter-tcell"
	"github.com/ionut-t/hue/config"
	"github.com/ionut-t/hue/core"
	"github.com/ionut-t/hue/highlighter"
	"github.com/ionut-t/hue/render"
)

var errUsage = errors.New("usage: hue <file>")

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "hue: %v\n", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	path := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	closeLog, err := setupLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	storage := core.FileStorage{}
	buffer, err := core.Open(storage, path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal")
	}

	h := highlighter.New(path, cfg.Language, buffer.Save())
	renderer := render.New(cfg.TabWidth)
	log.Printf("hue: editing %s as %s with the %s frontend", path, h.Language(), cfg.Frontend)

	switch cfg.Frontend {
	case config.FrontendBubbletea:
		return runBubbletea(core.New(buffer, path, storage, 0), h, renderer)
	default:
		return runTcell(core.New(buffer, path, storage, 0), h, renderer)
	}
}

func runTcell(editor *core.Editor, h *highlighter.Highlighter, renderer *render.Renderer) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	return adapter_tcell.New(screen, editor, h, renderer).Run()
}

func runBubbletea(editor *core.Editor, h *highlighter.Highlighter, renderer *render.Renderer) error {
	p := tea.NewProgram(adapter_bubbletea.New(editor, h, renderer), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// setupLog points the standard logger at path. The terminal belongs to the
// frontend, so without a path logs are dropped.
func setupLog(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	log.SetOutput(f)
	return func() { _ = f.Close() }, nil
}
