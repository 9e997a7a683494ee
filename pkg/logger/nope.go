package logger

import "log/slog"

// NewNope returns a logger that is disabled at every level. Components use it
// when no logger was configured.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
