package logging

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferedHandler() *PGHandler {
	return &PGHandler{sink: &logSink{}, once: &sync.Once{}}
}

func TestPGHandler_OnlyErrors(t *testing.T) {
	h := bufferedHandler()
	assert.False(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestPGHandler_MapsKnownAttrs(t *testing.T) {
	h := bufferedHandler()
	logger := slog.New(h).With("user_id", "u-1")

	logger.Error("report change not broadcast",
		"report_id", "r-1",
		"action", "updated",
		"error", "publisher closed",
		"latency_ms", int64(12),
		"topic", "reports.changed",
	)

	require.Len(t, h.sink.buffer, 1)
	entry := h.sink.buffer[0]
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "report change not broadcast", entry.Message)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "u-1", *entry.UserID)
	require.NotNil(t, entry.ReportID)
	assert.Equal(t, "r-1", *entry.ReportID)
	assert.Equal(t, "updated", entry.Action)
	assert.Equal(t, "publisher closed", entry.Error)
	assert.Equal(t, 12, entry.LatencyMs)
	assert.JSONEq(t, `{"topic":"reports.changed"}`, string(entry.Extra))
}

func TestPurgeOlderThan(t *testing.T) {
	db, mock := testutils.SetupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "system_logs"`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	deleted, err := PurgeOlderThan(db, time.Now().Add(-720*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
