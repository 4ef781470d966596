package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/soocke/deepin-screenshot-go/config"
	"github.com/soocke/deepin-screenshot-go/domain/capture"
	"github.com/soocke/deepin-screenshot-go/domain/save"
	"github.com/soocke/deepin-screenshot-go/domain/session"
	"github.com/soocke/deepin-screenshot-go/i18n"
	"github.com/soocke/deepin-screenshot-go/platform/clipboard"
	"github.com/soocke/deepin-screenshot-go/platform/desktop"
	"github.com/soocke/deepin-screenshot-go/platform/imagefile"
	"github.com/soocke/deepin-screenshot-go/platform/notify"
	"github.com/soocke/deepin-screenshot-go/ui/presenter"
	"github.com/soocke/deepin-screenshot-go/ui/view"
)

// Options are the command line choices for one run.
type Options struct {
	Session        session.Options
	NoNotification bool
	// Locale overrides the environment locale when set.
	Locale string
}

// Container assembles the resolver, sinks, views and presenters.
type Container struct {
	Config    *config.Config
	Logger    *slog.Logger
	Tr        func(string, ...any) string
	Grabber   *capture.Grabber
	Writer    *imagefile.Writer
	Clipboard *clipboard.Sink
	Resolver  *save.Resolver
	Region    *presenter.RegionPresenter
	Launcher  *desktop.Launcher

	closers []io.Closer
}

// BuildContainer constructs all components. Side effects are limited to
// connecting to the session bus for notifications.
func BuildContainer(cfg *config.Config, logger *slog.Logger, opts Options) *Container {
	c := &Container{Config: cfg, Logger: logger, Tr: fmt.Sprintf}

	locale := opts.Locale
	if locale == "" {
		locale = i18n.LocaleFromEnv(os.Getenv)
	}
	if tr, err := i18n.New(locale); err != nil {
		logger.Warn("i18n.load", "locale", locale, "error", err)
	} else {
		c.Tr = tr.Tr
		logger.Debug("i18n.load", "locale", locale, "tag", tr.Tag().String())
	}

	var notifier save.Notifier
	if !opts.NoNotification {
		notifier = notify.New(logger)
		if cl, ok := notifier.(io.Closer); ok {
			c.closers = append(c.closers, cl)
		}
	}

	c.Grabber = capture.NewGrabber(logger)
	c.Writer = imagefile.NewWriter(logger)
	c.Clipboard = clipboard.NewSink(logger)
	c.Launcher = desktop.NewLauncher(logger)
	c.Resolver = save.NewResolver(logger, cfg, save.Sinks{
		Locations: desktop.Locations{},
		Chooser:   view.NewSaveDialog(logger, c.Tr),
		Writer:    c.Writer,
		Clipboard: c.Clipboard,
		Notifier:  notifier,
	})
	c.Resolver.Tr = c.Tr
	c.Resolver.FileManagerAvailable = desktop.FileManagerAvailable
	c.Region = presenter.NewRegionPresenter(view.NewRegionWindow(logger, c.Tr), logger, c.Tr)
	return c
}

// Close releases the notification connection.
func (c *Container) Close() {
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil {
			c.Logger.Debug("container.close", "error", err)
		}
	}
}
