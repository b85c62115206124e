// Package main is the entry point for the tilestorm tile editor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/tilestorm/internal/app"
	"github.com/dshills/tilestorm/internal/config"
	"github.com/dshills/tilestorm/internal/renderer/backend"
	"github.com/dshills/tilestorm/internal/tile"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// defaultConfigFile is read from the working directory when -config is not given.
const defaultConfigFile = "tilestorm.toml"

// cliOptions holds the parsed command line.
type cliOptions struct {
	configPath   string
	catalog      string
	scripts      string
	logLevel     string
	logFile      string
	rows         int
	cols         int
	showVersion  bool
	printCatalog bool

	// set records which flags were given explicitly.
	set map[string]bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.showVersion {
		fmt.Printf("tilestorm %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.printCatalog {
		if err := printCatalog(cfg.Catalog.Path, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	logFile, err := app.OpenLogFile(cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logFile.Close()

	logCfg := app.LoggerConfig{Level: app.ParseLogLevel(cfg.Logging.Level)}
	if cfg.Logging.File != "" {
		logCfg.Output = logFile
	}
	logger := app.NewLogger(logCfg)

	application, err := app.New(app.Options{Config: cfg, Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(term); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		sig, ok := <-signals
		if !ok {
			return
		}
		logger.Info("signal received", "signal", sig.String())
		application.Shutdown()
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		logger.Error("application stopped", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags(args []string, stderr io.Writer) (cliOptions, error) {
	opts := cliOptions{set: make(map[string]bool)}
	fs := flag.NewFlagSet("tilestorm", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (default ./"+defaultConfigFile+" if present)")
	fs.StringVar(&opts.catalog, "catalog", "", "Path to the material catalog (JSON)")
	fs.StringVar(&opts.scripts, "scripts", "", "Directory of Lua tool scripts")
	fs.IntVar(&opts.rows, "rows", 0, "Initial grid rows")
	fs.IntVar(&opts.cols, "cols", 0, "Initial grid columns")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.printCatalog, "print-catalog", false, "Print the normalized catalog as JSON and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "tilestorm - terminal tile map editor\n\n")
		fmt.Fprintf(stderr, "Usage: tilestorm [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  tilestorm -catalog tiles.json        Edit with the given materials\n")
		fmt.Fprintf(stderr, "  tilestorm -rows 20 -cols 30          Start with a 20x30 grid\n")
		fmt.Fprintf(stderr, "  tilestorm -scripts ./tools           Load Lua tools\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	fs.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})
	return opts, nil
}

// loadConfig layers defaults, the config file, the environment and then
// explicitly given flags, and validates the result.
func loadConfig(opts cliOptions) (*config.Config, error) {
	fileOpt := config.WithFile(defaultConfigFile)
	if opts.configPath != "" {
		fileOpt = config.WithRequiredFile(opts.configPath)
	}

	cfg, err := config.Load(fileOpt)
	if err != nil {
		return nil, err
	}

	if opts.set["catalog"] {
		cfg.Catalog.Path = opts.catalog
	}
	if opts.set["scripts"] {
		cfg.Scripts.Dir = opts.scripts
	}
	if opts.set["rows"] {
		cfg.Grid.Rows = opts.rows
	}
	if opts.set["cols"] {
		cfg.Grid.Cols = opts.cols
	}
	if opts.set["log-level"] {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.set["log-file"] {
		cfg.Logging.File = opts.logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// printCatalog writes the catalog at path in its normalized JSON form.
func printCatalog(path string, w io.Writer) error {
	c, err := tile.LoadCatalog(path)
	if err != nil {
		return err
	}
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}
