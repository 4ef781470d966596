package app

import (
	"context"
	"image"
	"log/slog"
	"time"

	tk "modernc.org/tk9.0"

	"github.com/soocke/deepin-screenshot-go/config"
	"github.com/soocke/deepin-screenshot-go/domain/session"
	"github.com/soocke/deepin-screenshot-go/ui/view"
)

// exitDelay lets the OSD callback of a closing window run before Tk exits.
const exitDelay = 10 * time.Millisecond

// clipboardHold bounds how long the process keeps serving a copied image
// after the UI is gone.
const clipboardHold = 10 * time.Minute

type app struct {
	c      *Container
	logger *slog.Logger

	session *session.Session
	looping bool
	done    bool
	osdUp   bool
}

// Run performs one capture session and returns its error, if any.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) error {
	c := BuildContainer(cfg, logger, opts)
	defer c.Close()
	defer cfg.RemoveTempFiles()

	a := &app{c: c, logger: logger}
	tk.WmWithdraw(tk.App)
	tk.WmProtocol(tk.App, "WM_DELETE_WINDOW", a.exitHandler)

	a.session = session.New(logger, opts.Session, session.Deps{
		Grabber:    c.Grabber,
		Resolver:   c.Resolver,
		Store:      cfg,
		TempWriter: c.Writer,
		Window:     c.Region,
	}, session.Hooks{
		Shutter:  a.guard("shutter", c.Launcher.PlayShutter),
		ShowOSD:  a.showOSD,
		Help:     c.Launcher.OpenManual,
		Finished: a.finished,
	})
	a.session.Start(ctx)

	if !a.session.Finished() || a.osdUp {
		a.looping = true
		tk.App.Wait()
	}
	if !a.session.Finished() {
		a.session.Cancel()
	}
	res := a.session.Result()
	if res.Outcome.CopiedToClipboard {
		c.Clipboard.Hold(ctx, clipboardHold)
	}
	return res.Err
}

func (a *app) finished(r session.Result) {
	a.done = true
	if r.Outcome.Err != nil {
		a.logger.Warn("app.outcome", "error", r.Outcome.Err)
	}
	if a.looping {
		tk.TclAfter(exitDelay, a.maybeExit)
	}
}

func (a *app) showOSD(area image.Rectangle) {
	a.osdUp = true
	view.ShowOSD(area, a.c.Tr("Press Enter to save, Esc to exit, F1 for help"), view.OSDDuration, func() {
		a.osdUp = false
		a.maybeExit()
	})
}

func (a *app) maybeExit() {
	if !a.done || a.osdUp || !a.looping {
		return
	}
	a.exitHandler()
}

func (a *app) exitHandler() {
	if !a.done {
		a.session.Cancel()
	}
	defer func() { _ = recover() }()
	tk.Destroy(tk.App)
}

// guard recovers panics in Tk driven callbacks.
func (a *app) guard(name string, fn func()) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				a.logger.Error("app.panic", "callback", name, "panic", r)
			}
		}()
		fn()
	}
}
