package services

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name        string
		from, to    models.ReportStatus
		forwardOnly bool
		want        bool
	}{
		{"pending to in progress", models.StatusPending, models.StatusInProgress, true, true},
		{"in progress to cleaned", models.StatusInProgress, models.StatusCleaned, true, true},
		{"pending straight to cleaned", models.StatusPending, models.StatusCleaned, true, true},
		{"cleaned back to pending blocked", models.StatusCleaned, models.StatusPending, true, false},
		{"in progress back to pending blocked", models.StatusInProgress, models.StatusPending, true, false},
		{"same status always allowed", models.StatusCleaned, models.StatusCleaned, true, true},
		{"backwards allowed when not forward-only", models.StatusCleaned, models.StatusPending, false, true},
		{"unknown target rejected", models.StatusPending, models.ReportStatus("Done"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to, tt.forwardOnly))
		})
	}
}
