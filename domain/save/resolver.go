package save

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"
)

// Localized message keys.
const (
	msgTitle      = "Deepin Screenshot"
	msgFilePrefix = "DeepinScreenshot"
	msgView       = "View"
	msgSavedTo    = "Picture has been saved to %s"
	msgSaveFailed = "Failed to save the picture to %s"
	msgEmptyImage = "Failed to save the picture"
)

// Sinks groups the collaborators the resolver performs side effects through.
// A nil Notifier disables notifications.
type Sinks struct {
	Locations Locations
	Chooser   DirChooser
	Writer    ImageWriter
	Clipboard Clipboard
	Notifier  Notifier
}

// Resolver decides the destination of a capture and carries out the writes.
// It is used from the UI thread only.
type Resolver struct {
	settings Settings
	sinks    Sinks
	logger   *slog.Logger

	// Tr localizes a message key. Defaults to fmt.Sprintf.
	Tr func(key string, args ...any) string
	// Now is the wall clock used for default file names.
	Now func() time.Time
	// FileManagerAvailable selects the hint flavour of the view action.
	FileManagerAvailable func() bool
}

// NewResolver wires a resolver to its settings and sinks.
func NewResolver(logger *slog.Logger, settings Settings, sinks Sinks) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		settings:             settings,
		sinks:                sinks,
		logger:               logger,
		Tr:                   fmt.Sprintf,
		Now:                  time.Now,
		FileManagerAvailable: func() bool { return false },
	}
}

// destination is the result of the decision step, before any side effect.
type destination struct {
	path      string
	clipboard bool
	cancelled bool
}

// Resolve saves req according to the explicit path or the configured option.
// Failures are logged and reported through Outcome.Err; they never panic and
// never block the caller.
func (r *Resolver) Resolve(req Request) Outcome {
	if req.Image == nil || req.Image.Bounds().Empty() {
		r.logger.Error("save.resolve", "kind", req.Kind.String(), "error", ErrEmptyImage)
		r.notify(NotificationRequest{Title: r.Tr(msgTitle), Body: r.Tr(msgEmptyImage)})
		return Outcome{Err: ErrEmptyImage}
	}

	defaultName := DefaultFileName(r.Tr(msgFilePrefix), r.Now())
	dst, err := r.decide(req, defaultName)
	if err != nil {
		r.logger.Error("save.resolve", "kind", req.Kind.String(), "error", err)
		return Outcome{Err: err}
	}
	if dst.cancelled {
		r.logger.Info("save.cancelled", "kind", req.Kind.String())
		return Outcome{Cancelled: true}
	}

	var out Outcome
	if dst.clipboard {
		if err := r.copy(req); err != nil {
			out.Err = err
		} else {
			out.CopiedToClipboard = true
		}
	}
	if dst.path == "" {
		return out
	}

	if err := r.write(req, dst.path); err != nil {
		out.Err = errors.Join(out.Err, err)
		r.notify(NotificationRequest{Title: r.Tr(msgTitle), Body: r.Tr(msgSaveFailed, dst.path)})
		return out
	}
	out.Path = dst.path
	r.notify(NotificationRequest{
		Title:   r.Tr(msgTitle),
		Body:    r.Tr(msgSavedTo, dst.path),
		Actions: []Action{{ID: ViewActionID, Label: r.Tr(msgView)}},
		Hints:   ViewHints(dst.path, r.FileManagerAvailable()),
	})
	return out
}

func (r *Resolver) decide(req Request, defaultName string) (destination, error) {
	if req.ExplicitPath != "" {
		p, err := NormalizePath(req.ExplicitPath, defaultName)
		if err != nil {
			return destination{}, err
		}
		return destination{path: p}, nil
	}

	op := Option(r.settings.SaveOp())
	r.logger.Debug("save.option", "option", op.String(), "raw", int(op))
	switch op {
	case SaveToDesktop:
		return destination{path: filepath.Join(r.sinks.Locations.DesktopDir(), defaultName)}, nil
	case AutoSaveToPictures:
		return destination{path: filepath.Join(r.sinks.Locations.PicturesDir(), defaultName)}, nil
	case SaveToChosenDir:
		return r.choose(defaultName)
	case AutoSaveAndClipboard:
		return destination{
			path:      filepath.Join(r.sinks.Locations.PicturesDir(), defaultName),
			clipboard: true,
		}, nil
	default:
		return destination{clipboard: true}, nil
	}
}

// choose prompts for a path seeded with the last used folder and records the
// chosen folder for next time.
func (r *Resolver) choose(defaultName string) (destination, error) {
	last := r.settings.LastFolder()
	if r.sinks.Chooser == nil {
		r.logger.Warn("save.choose", "error", ErrNoChooser)
		return destination{cancelled: true}, nil
	}
	chosen := r.sinks.Chooser.ChooseSavePath(filepath.Join(last, defaultName))
	if chosen == "" {
		return destination{cancelled: true}, nil
	}
	p, err := NormalizePath(chosen, defaultName)
	if err != nil {
		return destination{}, err
	}
	folder := filepath.Dir(p)
	if folder == "" || folder == "." {
		folder = last
	}
	if err := r.settings.SetLastFolder(folder); err != nil {
		r.logger.Warn("save.folder", "folder", folder, "error", err)
	}
	return destination{path: p}, nil
}

func (r *Resolver) copy(req Request) error {
	if r.sinks.Clipboard == nil {
		r.logger.Error("save.clipboard", "kind", req.Kind.String(), "error", ErrNoClipboard)
		return ErrNoClipboard
	}
	if err := r.sinks.Clipboard.CopyImage(req.Image); err != nil {
		r.logger.Error("save.clipboard", "kind", req.Kind.String(), "error", err)
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	r.logger.Info("save.clipboard", "kind", req.Kind.String())
	return nil
}

func (r *Resolver) write(req Request, path string) error {
	if err := r.sinks.Writer.WriteImage(req.Image, path); err != nil {
		r.logger.Error("save.write", "path", path, "kind", req.Kind.String(), "error", err)
		return fmt.Errorf("write %s: %w", path, err)
	}
	r.logger.Info("save.write", "path", path, "kind", req.Kind.String())
	return nil
}

func (r *Resolver) notify(n NotificationRequest) {
	if r.sinks.Notifier == nil {
		return
	}
	if err := r.sinks.Notifier.Notify(n); err != nil {
		r.logger.Warn("save.notify", "error", err)
	}
}
