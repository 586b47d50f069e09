package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/gdext/extension"
	"github.com/wippyai/gdext/internal/hostsim"
	"github.com/wippyai/gdext/obj"
)

func main() {
	var (
		list        = flag.Bool("list", false, "List host classes and their methods and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
		pages       = flag.Uint("pages", 1, "Object arena size in 64KiB pages")
	)
	flag.Parse()

	log := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log = l
	}
	defer log.Sync()
	obj.SetLogger(log.Named("obj"))
	extension.SetLogger(log.Named("extension"))

	ctx := context.Background()
	engine, err := hostsim.New(ctx,
		hostsim.WithArenaPages(uint32(*pages)),
		hostsim.WithLogger(log.Named("host")))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close(ctx)

	if err := load(engine); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer engine.Shutdown()

	switch {
	case *list:
		listClasses(os.Stdout, engine)
	case *interactive:
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(engine); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		if err := runDemo(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// load hands the demo library to the host and brings every level up.
func load(engine *hostsim.Engine) error {
	if err := engine.LoadExtension("gdext-demo", extension.EntryPoint(demoLibrary{})); err != nil {
		return fmt.Errorf("load extension: %w", err)
	}
	engine.Startup()
	if level, ok := engine.InitializedLevel(); !ok || extension.LevelFromSys(level) != extension.LevelEditor {
		return fmt.Errorf("startup stopped early")
	}
	return nil
}

func listClasses(w io.Writer, engine *hostsim.Engine) {
	for _, c := range engine.Classes() {
		var tags []string
		if c.RefCounted {
			tags = append(tags, "refcounted")
		}
		if c.Extension {
			tags = append(tags, "extension")
		}
		header := c.Name
		if c.Parent != "" {
			header += " : " + c.Parent
		}
		if len(tags) > 0 {
			header += " [" + strings.Join(tags, ", ") + "]"
		}
		fmt.Fprintln(w, header)
		for _, m := range engine.Methods(c.Name) {
			if m.Class != c.Name {
				continue
			}
			fmt.Fprintf(w, "  %s\n", formatSignature(methodOf(m)))
		}
	}
}
