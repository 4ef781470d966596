// Package notify delivers save notifications to the desktop notification
// server.
package notify

import (
	"fmt"
	"log/slog"

	"github.com/gen2brain/beeep"
	"github.com/godbus/dbus/v5"

	"github.com/soocke/deepin-screenshot-go/domain/save"
)

const (
	busName    = "org.freedesktop.Notifications"
	objectPath = dbus.ObjectPath("/org/freedesktop/Notifications")
	method     = busName + ".Notify"
)

// AppName doubles as the notification icon name.
const AppName = "deepin-screenshot"

// DefaultTimeout lets the server pick the expiry.
const DefaultTimeout int32 = -1

// DBus sends notifications over the session bus.
type DBus struct {
	conn    *dbus.Conn
	obj     dbus.BusObject
	logger  *slog.Logger
	lastID  uint32
	timeout int32
}

// Connect opens the session bus connection.
func Connect(logger *slog.Logger) (*DBus, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("notify: session bus: %w", err)
	}
	return &DBus{
		conn:    conn,
		obj:     conn.Object(busName, objectPath),
		logger:  logger,
		timeout: DefaultTimeout,
	}, nil
}

// Notify implements save.Notifier.
func (n *DBus) Notify(req save.NotificationRequest) error {
	call := n.obj.Call(method, 0, notifyArgs(req, n.timeout)...)
	if call.Err != nil {
		return fmt.Errorf("notify: %w", call.Err)
	}
	if err := call.Store(&n.lastID); err != nil {
		return fmt.Errorf("notify: reply: %w", err)
	}
	n.logger.Debug("notify.sent", "id", n.lastID, "actions", len(req.Actions))
	return nil
}

// Close releases the bus connection.
func (n *DBus) Close() error { return n.conn.Close() }

// notifyArgs builds the argument list of org.freedesktop.Notifications.Notify:
// app_name, replaces_id, app_icon, summary, body, actions, hints, expire_timeout.
func notifyArgs(req save.NotificationRequest, timeout int32) []any {
	actions := make([]string, 0, 2*len(req.Actions))
	for _, a := range req.Actions {
		actions = append(actions, a.ID, a.Label)
	}
	hints := make(map[string]dbus.Variant, len(req.Hints))
	for k, v := range req.Hints {
		hints[k] = dbus.MakeVariant(v)
	}
	return []any{AppName, uint32(0), AppName, req.Title, req.Body, actions, hints, timeout}
}

// Fallback sends plain notifications without actions through beeep, which
// shells out to notify-send when the bus call fails.
type Fallback struct {
	logger *slog.Logger
	send   func(title, body string, icon any) error
}

// NewFallback returns a Fallback notifier.
func NewFallback(logger *slog.Logger) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{logger: logger, send: beeep.Notify}
}

// Notify implements save.Notifier. Actions and hints are dropped.
func (f *Fallback) Notify(req save.NotificationRequest) error {
	if len(req.Actions) > 0 {
		f.logger.Debug("notify.fallback", "dropped_actions", len(req.Actions))
	}
	return f.send(req.Title, req.Body, AppName)
}

// New prefers the session bus and falls back to beeep.
func New(logger *slog.Logger) save.Notifier {
	n, err := Connect(logger)
	if err != nil {
		if logger != nil {
			logger.Warn("notify.connect", "error", err)
		}
		return NewFallback(logger)
	}
	return n
}
