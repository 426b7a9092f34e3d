package auditlog

import (
	"context"
	"fmt"
	"time"

	"github.com/BlessingGianna7/rest-pms-system/pkg/db/models"
	"github.com/BlessingGianna7/rest-pms-system/pkg/logger"
)

const defaultWriteTimeout = 3 * time.Second

// Recorder appends audit entries. Implementations never fail the caller.
type Recorder interface {
	Record(ctx context.Context, actorID uint, action string)
}

// Writer is the database-backed Recorder.
type Writer struct {
	repo    Repository
	logg    *logger.Logger
	timeout time.Duration
}

func NewWriter(repo Repository, logg *logger.Logger) *Writer {
	return &Writer{repo: repo, logg: logg, timeout: defaultWriteTimeout}
}

// Record writes the entry on a context detached from the caller's
// cancellation. Failures are logged and dropped.
func (w *Writer) Record(ctx context.Context, actorID uint, action string) {
	if w == nil || w.repo == nil {
		return
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.timeout)
	defer cancel()

	entry := &models.AuditLog{Action: action}
	if actorID != 0 {
		id := actorID
		entry.UserID = &id
	}
	if err := w.repo.Create(writeCtx, entry); err != nil && w.logg != nil {
		logCtx := w.logg.WithFields(ctx, map[string]any{"audit_action": action})
		w.logg.Error(logCtx, "audit.write_failed", err)
	}
}

// Recordf formats the action before recording it.
func Recordf(ctx context.Context, rec Recorder, actorID uint, format string, args ...any) {
	if rec == nil {
		return
	}
	rec.Record(ctx, actorID, fmt.Sprintf(format, args...))
}

// Discard is a Recorder that drops every entry.
type Discard struct{}

func (Discard) Record(context.Context, uint, string) {}
