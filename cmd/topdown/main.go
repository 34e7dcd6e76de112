// Topdown is a small 2D top-down exploration game: walk between maps,
// collect coins and parts, talk to villagers, shop and craft.
// Usage: topdown [--version] [--plain] [--script <file>] [--trace] [--sound] [--spots] [content_dir]
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/nathoo/topdown/audio/beep"
	"github.com/nathoo/topdown/cli"
	"github.com/nathoo/topdown/config"
	"github.com/nathoo/topdown/engine"
	"github.com/nathoo/topdown/engine/catalog"
	"github.com/nathoo/topdown/loader"
	"github.com/nathoo/topdown/logger"
	"github.com/nathoo/topdown/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cfg := config.Load()

	plain := false
	trace := false
	spots := false
	sound := cfg.Sound
	contentDir := ""
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("topdown %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--sound":
			sound = true
		case "--spots":
			spots = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		default:
			if contentDir == "" {
				contentDir = args[i]
			}
		}
	}
	if contentDir == "" {
		contentDir = cfg.ContentDir
	}

	fullscreen := scriptFile == "" && !plain && isTerminal()
	out, closeLog, err := logger.Output(cfg, fullscreen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	log := logger.Setup(cfg, out)

	// Load and compile Lua game content.
	defs, err := loader.Load(contentDir, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading game: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := catalog.NewSource(loader.Catalog(contentDir), log)
	src.Start(ctx)

	opts := []engine.Option{engine.WithLogger(log), engine.WithCatalog(src)}
	if sound {
		if b, err := beep.New(); err != nil {
			logger.WithError(log, err).Warn("sound disabled")
		} else {
			defer b.Close()
			opts = append(opts, engine.WithAudio(b))
		}
	}

	eng := engine.New(defs, opts...)
	eng.SetDebugOverlayVisible(spots)
	log.Info("session started", "session", eng.SessionID(), "content", contentDir, "mode", mode(scriptFile, fullscreen))

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		c := newCLI(eng, defs.Game.Title, trace)
		c.In = f
		c.EchoInput = true
		c.Run()
		return
	}

	if !fullscreen {
		newCLI(eng, defs.Game.Title, trace).Run()
		return
	}

	if err := tui.Run(eng, defs); err != nil {
		log.Error("tui failed", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newCLI(eng *engine.Engine, title string, trace bool) *cli.CLI {
	fmt.Printf("%s\n\n", title)
	c := cli.New(eng, eng.Defs)
	c.Trace = trace
	return c
}

func mode(script string, fullscreen bool) string {
	switch {
	case script != "":
		return "script"
	case fullscreen:
		return "tui"
	default:
		return "plain"
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
