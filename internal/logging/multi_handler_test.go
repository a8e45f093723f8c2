package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	var info, errs bytes.Buffer
	logger := slog.New(NewMultiHandler(
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	))

	logger.Info("report added", "report_id", "r1")
	logger.Error("write refused", "report_id", "r2")

	assert.Contains(t, info.String(), "report added")
	assert.Contains(t, info.String(), "write refused")
	assert.NotContains(t, errs.String(), "report added")
	assert.Contains(t, errs.String(), "write refused")

	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}

func TestMultiHandler_WithAttrsPropagates(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewMultiHandler(slog.NewTextHandler(&buf, nil))).With("component", "broker")

	logger.Info("started")
	assert.Contains(t, buf.String(), "component=broker")
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }

func TestMultiHandler_FailingSinkDoesNotStarveOthers(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(
		failingHandler{slog.NewTextHandler(&bytes.Buffer{}, nil)},
		nil,
		slog.NewTextHandler(&buf, nil),
	)

	err := slog.New(h).Handler().Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "status update failed", 0))

	assert.EqualError(t, err, "sink down")
	assert.Contains(t, buf.String(), "status update failed")
}
