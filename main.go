package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soocke/deepin-screenshot-go/app"
	"github.com/soocke/deepin-screenshot-go/config"
	"github.com/soocke/deepin-screenshot-go/debug"
	"github.com/soocke/deepin-screenshot-go/domain/save"
	"github.com/soocke/deepin-screenshot-go/domain/session"
)

type flags struct {
	savePath       string
	fullscreen     bool
	topWindow      bool
	noNotification bool
	fromDesktop    bool
	delay          int
	configPath     string
	logLevel       string
	debug          bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:           "deepin-screenshot",
		Short:         "Take a screenshot of a region, the active window or the whole screen",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.savePath, "save-path", "s", "", "save the screenshot to the given file")
	fl.BoolVarP(&f.fullscreen, "fullscreen", "f", false, "capture the whole screen")
	fl.BoolVarP(&f.topWindow, "top-window", "w", false, "capture the active window")
	fl.BoolVarP(&f.noNotification, "no-notification", "n", false, "do not send a notification")
	fl.BoolVarP(&f.fromDesktop, "icon", "i", false, "started from the desktop icon")
	fl.IntVarP(&f.delay, "delay", "d", 0, "wait this many seconds before capturing")
	fl.StringVar(&f.configPath, "config", "", "settings file (default $XDG_CONFIG_HOME/deepin-screenshot/config.json)")
	fl.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (overrides the settings file)")
	fl.BoolVar(&f.debug, "debug", false, "log runtime statistics")
	cmd.MarkFlagsMutuallyExclusive("fullscreen", "top-window")
	return cmd
}

// sessionOptions maps the command line onto a capture session.
func sessionOptions(f *flags) session.Options {
	kind := save.KindRegion
	switch {
	case f.fullscreen:
		kind = save.KindFullscreen
	case f.topWindow:
		kind = save.KindActiveWindow
	}
	delay := time.Duration(f.delay) * time.Second
	if delay < 0 {
		delay = 0
	}
	return session.Options{
		ExplicitPath: f.savePath,
		Kind:         kind,
		FromDesktop:  f.fromDesktop,
		Delay:        delay,
	}
}

func run(ctx context.Context, f *flags) error {
	path := f.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, cfgErr := config.Load(path)

	level := cfg.LogLevel
	if f.logLevel != "" {
		level = f.logLevel
	}
	if f.debug || cfg.Debug {
		level = "debug"
	}
	logger := NewLogger(ParseLevel(level))
	if cfgErr != nil {
		logger.Warn("config.load", "path", path, "error", cfgErr)
	}

	if f.debug || cfg.Debug {
		dctx, cancel := context.WithCancel(ctx)
		defer cancel()
		debug.StartRuntimeLogger(dctx, 500*time.Millisecond, logger)
	}

	opts := app.Options{Session: sessionOptions(f), NoNotification: f.noNotification}
	logger.Info("start",
		"kind", opts.Session.Kind.String(),
		"save_path", opts.Session.ExplicitPath,
		"save_op", cfg.SaveOp(),
		"notifications", !opts.NoNotification,
	)
	return app.Run(ctx, cfg, logger, opts)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "deepin-screenshot:", err)
		stop()
		os.Exit(1)
	}
}
