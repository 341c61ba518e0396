// Command agent-example runs a simulated heat pump whose state is held in
// agents and exposes it through an interactive shell.
//
// Usage:
//
//	agent-example [flags]
//
// Examples:
//
//	# Run with the built-in configuration
//	agent-example
//
//	# Load a configuration file and record a trace
//	agent-example -config heatpump.yaml -protocol-log heatpump.alog
//
//	# Print trace events on the console
//	agent-example -log-level debug
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mash-protocol/agent-go/cmd/agent-example/interactive"
	"github.com/mash-protocol/agent-go/pkg/examples"
	"github.com/mash-protocol/agent-go/pkg/log"
)

// Config holds the command configuration.
type Config struct {
	ConfigFile  string
	ProtocolLog string
	LogLevel    string
}

var config Config

func init() {
	flag.StringVar(&config.ConfigFile, "config", "", "Heat pump configuration file (YAML)")
	flag.StringVar(&config.ProtocolLog, "protocol-log", "", "Write agent trace events to this file (CBOR)")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	level, err := parseLevel(config.LogLevel)
	if err != nil {
		return err
	}

	cfg := examples.DefaultHeatPumpConfig()
	if config.ConfigFile != "" {
		if cfg, err = examples.LoadHeatPumpConfig(config.ConfigFile); err != nil {
			return err
		}
	}

	// The shell owns the terminal; loggers write through it so output does
	// not garble the prompt.
	out := &lazyWriter{}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	trace, closeTrace, err := buildTrace(logger, level)
	if err != nil {
		return err
	}
	defer closeTrace()

	hp := examples.NewHeatPump(cfg, trace)

	shell, err := interactive.New(hp)
	if err != nil {
		return err
	}
	out.w = shell.Stdout()

	logger.Info("heat pump started",
		slog.String("name", cfg.Name),
		slog.String("mode", string(cfg.Mode)),
		slog.Float64("setpoint", hp.Setpoint.Get()),
		slog.Bool("running", hp.Running.Get()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal", slog.String("signal", sig.String()))
			cancel()
			_ = shell.Close()
		case <-ctx.Done():
		}
	}()

	shell.Run(ctx, cancel)
	signal.Stop(sigCh)
	return nil
}

// buildTrace returns the trace logger selected by the flags and a function
// that closes any file it opened.
func buildTrace(logger *slog.Logger, level slog.Level) (log.Logger, func(), error) {
	var loggers []log.Logger
	closeFn := func() {}

	if level <= slog.LevelDebug {
		loggers = append(loggers, log.NewSlogAdapter(logger))
	}

	if config.ProtocolLog != "" {
		fl, err := log.NewFileLogger(config.ProtocolLog)
		if err != nil {
			return nil, nil, fmt.Errorf("open protocol log: %w", err)
		}
		loggers = append(loggers, fl)
		closeFn = func() {
			if n := fl.Dropped(); n > 0 {
				logger.Warn("trace events dropped", slog.Int("count", n))
			}
			_ = fl.Close()
		}
		logger.Info("protocol logging enabled", slog.String("path", config.ProtocolLog))
	}

	switch len(loggers) {
	case 0:
		return log.NoopLogger{}, closeFn, nil
	case 1:
		return loggers[0], closeFn, nil
	default:
		return log.NewMultiLogger(loggers...), closeFn, nil
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// lazyWriter writes to stderr until the shell provides its writer.
type lazyWriter struct {
	w io.Writer
}

func (l *lazyWriter) Write(p []byte) (int, error) {
	if l.w == nil {
		return os.Stderr.Write(p)
	}
	return l.w.Write(p)
}
