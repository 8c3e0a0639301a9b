// Package notify holds the in-memory notification state: a FIFO queue of
// auto-expiring toast messages and at most one pending confirmation dialog.
package notify

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/ahlulathar/ahlulathar-api/pkg/logger"
	"github.com/ahlulathar/ahlulathar-api/pkg/metrics"
	"go.uber.org/zap"
)

// DefaultToastTTL is how long a toast lives before auto-dismissal
const DefaultToastTTL = 5 * time.Second

// Severity classifies a toast message
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ValidSeverity reports whether s is a recognized toast severity
func ValidSeverity(s Severity) bool {
	switch s {
	case SeveritySuccess, SeverityError, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// ConfirmSeverity classifies a confirmation dialog
type ConfirmSeverity string

const (
	ConfirmDanger  ConfirmSeverity = "danger"
	ConfirmWarning ConfirmSeverity = "warning"
	ConfirmInfo    ConfirmSeverity = "info"
)

// Toast is a transient notification message
type Toast struct {
	ID       string   `json:"id"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Confirm is a pending confirmation dialog. At most one is live at a time;
// showing a new one silently replaces the prior dialog without firing its
// callbacks.
type Confirm struct {
	Message      string          `json:"message"`
	ConfirmLabel string          `json:"confirm_label"`
	CancelLabel  string          `json:"cancel_label"`
	Severity     ConfirmSeverity `json:"severity"`

	onConfirm func()
	onCancel  func()
}

// Center owns all toast and confirm state
type Center struct {
	mu      sync.Mutex
	toasts  []Toast
	timers  map[string]*time.Timer
	confirm *Confirm
	ttl     time.Duration
}

// Option configures a Center
type Option func(*Center)

// WithToastTTL overrides the toast auto-dismiss delay
func WithToastTTL(ttl time.Duration) Option {
	return func(c *Center) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewCenter creates an empty notification center
func NewCenter(opts ...Option) *Center {
	c := &Center{
		timers: make(map[string]*time.Timer),
		ttl:    DefaultToastTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// generateToastID creates a random toast id
func generateToastID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fall back to a time-based id; collisions are harmless for toasts
		return hex.EncodeToString([]byte(time.Now().String()))[:16]
	}
	return hex.EncodeToString(bytes)
}

// ShowMessage appends a toast and schedules its removal after the TTL.
// Toasts coexist in arrival order. Returns the generated toast id.
func (c *Center) ShowMessage(message string, severity Severity) string {
	id := generateToastID()

	c.mu.Lock()
	c.toasts = append(c.toasts, Toast{ID: id, Message: message, Severity: severity})
	c.timers[id] = time.AfterFunc(c.ttl, func() {
		c.Dismiss(id)
	})
	metrics.ToastsActive.Set(float64(len(c.toasts)))
	c.mu.Unlock()

	logger.Debug("Toast shown",
		zap.String("id", id),
		zap.String("severity", string(severity)))
	return id
}

// Dismiss removes a toast by id. Removing an already-removed id is a no-op.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}

	for i, toast := range c.toasts {
		if toast.ID == id {
			c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
			break
		}
	}
	metrics.ToastsActive.Set(float64(len(c.toasts)))
}

// Toasts returns a snapshot of pending toasts in arrival order
func (c *Center) Toasts() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Toast, len(c.toasts))
	copy(out, c.toasts)
	return out
}

// ShowConfirm installs a pending confirmation dialog, replacing any existing
// one. The replaced dialog's callbacks can never fire afterwards.
func (c *Center) ShowConfirm(message string, onConfirm func(), onCancel func(), confirmLabel, cancelLabel string, severity ConfirmSeverity) {
	if confirmLabel == "" {
		confirmLabel = "تأكيد"
	}
	if cancelLabel == "" {
		cancelLabel = "إلغاء"
	}
	if severity == "" {
		severity = ConfirmInfo
	}

	c.mu.Lock()
	replaced := c.confirm != nil
	c.confirm = &Confirm{
		Message:      message,
		ConfirmLabel: confirmLabel,
		CancelLabel:  cancelLabel,
		Severity:     severity,
		onConfirm:    onConfirm,
		onCancel:     onCancel,
	}
	c.mu.Unlock()

	if replaced {
		logger.Debug("Pending confirm dialog replaced")
	}
}

// PendingConfirm returns the current dialog, or nil if none is pending
func (c *Center) PendingConfirm() *Confirm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirm
}

// ResolveConfirm resolves the pending dialog. Accepting invokes onConfirm and
// declining invokes onCancel, each only if provided. At most one callback
// fires per shown dialog. Returns false if no dialog was pending.
func (c *Center) ResolveConfirm(accepted bool) bool {
	c.mu.Lock()
	dialog := c.confirm
	c.confirm = nil
	c.mu.Unlock()

	if dialog == nil {
		return false
	}

	if accepted {
		if dialog.onConfirm != nil {
			dialog.onConfirm()
		}
	} else if dialog.onCancel != nil {
		dialog.onCancel()
	}
	return true
}

// Shutdown stops all pending toast timers
func (c *Center) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, timer := range c.timers {
		timer.Stop()
		delete(c.timers, id)
	}
	c.toasts = nil
	c.confirm = nil
	metrics.ToastsActive.Set(0)
}
