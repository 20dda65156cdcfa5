package trace

import (
	"context"
	"log/slog"
)

// SlogRecorder writes events to an slog.Logger at debug level.
type SlogRecorder struct {
	logger *slog.Logger
}

// NewSlogRecorder returns a recorder backed by logger.
func NewSlogRecorder(logger *slog.Logger) *SlogRecorder {
	return &SlogRecorder{logger: logger}
}

// Record logs ev.
func (r *SlogRecorder) Record(ev Event) {
	attrs := []slog.Attr{
		slog.String("session", ev.SessionID),
		slog.String("phase", ev.Phase.String()),
	}
	if ev.Op != "" {
		attrs = append(attrs, slog.String("op", ev.Op))
	}

	if ev.Phase == PhaseCall {
		attrs = append(attrs,
			slog.Uint64("selector", uint64(ev.Selector)),
			slog.Uint64("sub_op", uint64(ev.SubOp)),
			slog.String("key", ev.Key),
			slog.Uint64("size", uint64(ev.Size)),
			slog.Uint64("result", uint64(ev.Result)),
			slog.Duration("elapsed", ev.Duration),
		)
	}
	if ev.Err != "" {
		attrs = append(attrs, slog.String("error", ev.Err))
	}

	r.logger.LogAttrs(context.Background(), slog.LevelDebug, "smc exchange", attrs...)
}

var _ Recorder = (*SlogRecorder)(nil)
