package reqlog

import (
	"context"
	"log/slog"

	"tinyserve/internal/storage"
)

// StoreSink appends entries to the SQLite request log.
type StoreSink struct {
	db     *storage.DB
	logger *slog.Logger
}

// NewStoreSink creates a sink backed by db.
func NewStoreSink(db *storage.DB, logger *slog.Logger) *StoreSink {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &StoreSink{db: db, logger: logger}
}

// Record implements Recorder. Insert failures are logged and dropped.
func (s *StoreSink) Record(ctx context.Context, e Entry) {
	// The request context may already be cancelled once the response is out.
	ctx = context.WithoutCancel(ctx)

	_, err := s.db.InsertRequest(ctx, storage.RequestRecord{
		Method:    e.Method,
		Path:      e.Path,
		Status:    e.Status,
		RequestID: e.RequestID,
		Duration:  e.Duration,
		CreatedAt: e.Time,
	})
	if err != nil {
		s.logger.Warn("Failed to store request",
			"error", err.Error(),
			"path", e.Path,
			"requestID", e.RequestID,
		)
	}
}
