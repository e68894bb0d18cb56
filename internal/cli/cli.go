// Package cli implements the ppt2pdf, pdfwatermark and ppt2pdf-watermark
// command lines.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/alexflint/go-arg"

	"github.com/franklee83/ppt2pdf-plus/internal/config"
	"github.com/franklee83/ppt2pdf-plus/internal/converter"
	"github.com/franklee83/ppt2pdf-plus/internal/fonts"
	"github.com/franklee83/ppt2pdf-plus/internal/logger"
	"github.com/franklee83/ppt2pdf-plus/internal/watermark"
	"github.com/franklee83/ppt2pdf-plus/internal/workflow"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
)

// IO holds the streams a command writes to.
type IO struct {
	Stdout io.Writer
	Stderr io.Writer
}

// StdIO returns the process streams.
func StdIO() IO {
	return IO{Stdout: os.Stdout, Stderr: os.Stderr}
}

// parse fills dest from argv. It returns done=true with an exit code when
// the command should stop (help requested or a usage error).
func parse(program string, dest interface{}, argv []string, streams IO) (code int, done bool) {
	p, err := arg.NewParser(arg.Config{Program: program}, dest)
	if err != nil {
		fmt.Fprintf(streams.Stderr, "Error: %s\n", err)
		return ExitError, true
	}
	switch err := p.Parse(argv); {
	case errors.Is(err, arg.ErrHelp):
		p.WriteHelp(streams.Stdout)
		return ExitOK, true
	case err != nil:
		p.WriteUsage(streams.Stderr)
		fmt.Fprintf(streams.Stderr, "Error: %s\n", err)
		return ExitError, true
	}
	return ExitOK, false
}

// fail prints err as a single "Error: ..." line.
func fail(streams IO, err error) int {
	logger.Error("command failed", err)
	fmt.Fprintf(streams.Stderr, "Error: %s\n", err)
	return ExitError
}

// env is the per-invocation state shared by the commands.
type env struct {
	cfg     *config.ConfigManager
	streams IO
}

// setup loads the config file and initialises the global logger.
func setup(common CommonArgs, streams IO) (*env, func(), error) {
	cfg, err := config.NewConfigManager(common.Config)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Load(); err != nil {
		return nil, nil, err
	}
	for _, w := range cfg.Warnings() {
		fmt.Fprintf(streams.Stderr, "Warning: %s\n", w)
	}

	level, ok := logger.ParseLevel(cfg.GetLogLevel())
	if !ok {
		fmt.Fprintf(streams.Stderr, "Warning: unknown log level %q in config, using warn\n", cfg.GetLogLevel())
	}
	if common.Verbose {
		level = logger.LevelDebug
	}
	logFile := common.LogFile
	if logFile == "" {
		logFile = cfg.GetLogFile()
	}

	logCfg := logger.Config{Path: logFile, Level: level}
	if common.Verbose {
		logCfg.Console = streams.Stderr
	}
	if err := logger.Init(logCfg); err != nil {
		return nil, nil, fmt.Errorf("failed to initialise logging: %w", err)
	}
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	logger.Debug("configuration ready",
		logger.String("config", cfg.GetConfigPath()),
		logger.String("engine", cfg.GetEngine()))
	return &env{cfg: cfg, streams: streams}, func() { logger.Close() }, nil
}

// resolver builds the font resolver from the platform defaults and config.
func (e *env) resolver() *fonts.Resolver {
	home, _ := os.UserHomeDir()
	platform := fonts.DefaultPlatform(runtime.GOOS, home, os.Getenv("WINDIR")).
		WithExtra(e.cfg.GetFontPaths(), e.cfg.GetFontDirs())
	return fonts.NewResolver(fonts.NewRegistry(), platform, e.streams.Stderr)
}

// converter builds the converter; flags override the config file.
func (e *env) converter(args ConversionArgs) (*converter.Converter, error) {
	name := args.Engine
	if name == "" {
		name = e.cfg.GetEngine()
	}
	engine, err := converter.ParseEngine(name)
	if err != nil {
		return nil, err
	}
	timeout := e.cfg.GetConversionTimeout()
	if args.Timeout != nil {
		if *args.Timeout <= 0 {
			return nil, fmt.Errorf("--timeout must be a positive number of seconds")
		}
		timeout = time.Duration(*args.Timeout) * time.Second
	}
	return converter.New(converter.Options{
		Engine:      engine,
		BinaryPath:  e.cfg.GetLibreOfficePath(),
		Timeout:     timeout,
		RenderWidth: e.cfg.GetRenderWidth(),
		FontDirs:    e.cfg.GetFontDirs(),
		Diag:        e.streams.Stderr,
	}), nil
}

func (e *env) workflow(conv *converter.Converter) *workflow.Workflow {
	return workflow.New(conv, watermark.NewRenderer(e.resolver()))
}

// signalContext is cancelled on Ctrl-C.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
