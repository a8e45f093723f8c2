package handlers

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReportsEvent_Framing(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	require.NoError(t, writeReportsEvent(w, []models.Report{{Location: "Library", Status: models.StatusPending}}))

	out := buf.String()
	assert.Contains(t, out, "event: reports\ndata: [")
	assert.Contains(t, out, `"location":"Library"`)
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n\n")))
}

func TestWriteErrorEvent_Framing(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	require.NoError(t, writeErrorEvent(w))

	assert.Equal(t, "event: error\ndata: {\"error\":true,\"message\":\"Could not refresh reports\"}\n\n", buf.String())
}
