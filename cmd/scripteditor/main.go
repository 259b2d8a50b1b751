// Package main is a small host for the script editor plugin. It lists
// what the plugin offers, prints its manifest and opens files through it.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dshills/scripteditor/internal/app"
	"github.com/dshills/scripteditor/internal/scripteditor"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	app      app.Options
	window   string
	list     bool
	manifest bool
	save     bool
	diff     bool
	files    []string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	application, err := app.New(opts.app)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	if opts.list {
		fmt.Print(renderRegistry(application))
	}
	if opts.manifest {
		data, err := application.Plugin().Metadata().Manifest()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(string(data))
	}
	if len(opts.files) == 0 {
		return 0
	}

	if err := application.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	status := 0
	for _, path := range opts.files {
		if _, _, err := application.Open(path, opts.window); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = 1
		}
	}

	if opts.diff {
		for _, id := range application.Plugin().InstanceIDs() {
			inst, ok := application.Plugin().Instance(id)
			if !ok {
				continue
			}
			ed, ok := inst.Entity().(*scripteditor.Editor)
			if !ok {
				continue
			}
			d, err := ed.DiskDiff()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				status = 1
				continue
			}
			if !d.Empty() {
				fmt.Printf("%s (%s)\n%s", inst.FilePath(), d.Stat(), d)
			}
		}
	}

	if opts.save {
		saved, err := application.SaveAll(opts.window)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = 1
		}
		fmt.Printf("saved %d file(s)\n", len(saved))
	}

	fmt.Print(renderInstances(application.Plugin()))

	n := application.Shutdown()
	fmt.Printf("unloaded, %d instance(s) closed\n", n)
	return status
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.app.ConfigPath, "config", "", "Path to configuration file (toml, yaml or json)")
	flag.StringVar(&opts.app.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.window, "window", "main", "Host window the editors are created in")
	flag.BoolVar(&opts.list, "list", false, "List file types and editor kinds")
	flag.BoolVar(&opts.list, "l", false, "List file types and editor kinds (shorthand)")
	flag.BoolVar(&opts.manifest, "manifest", false, "Print the plugin manifest as JSON")
	flag.BoolVar(&opts.save, "save", false, "Save opened files before unloading")
	flag.BoolVar(&opts.diff, "diff", false, "Show differences between opened buffers and disk")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "scripteditor - script editor plugin host\n\n")
		fmt.Fprintf(os.Stderr, "Usage: scripteditor [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  scripteditor -list              Show file types and editors\n")
		fmt.Fprintf(os.Stderr, "  scripteditor -manifest          Print the plugin manifest\n")
		fmt.Fprintf(os.Stderr, "  scripteditor -save new.py       Create new.py from its template\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("scripteditor %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	opts.files = flag.Args()
	return opts
}

