package engine

import (
	"testing"

	"github.com/vayustack/vayu-intel/internal/models"
)

func TestActiveSubjectPriority(t *testing.T) {
	focused := &models.Threat{ID: "focused"}
	hovered := &models.Threat{ID: "hovered"}
	snapshot := []models.Threat{{ID: "head"}, {ID: "older"}}

	tests := []struct {
		name     string
		focused  *models.Threat
		hovered  *models.Threat
		snapshot []models.Threat
		want     string
	}{
		{"focus wins over everything", focused, hovered, snapshot, "focused"},
		{"hover wins over head", nil, hovered, snapshot, "hovered"},
		{"head when nothing selected", nil, nil, snapshot, "head"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ActiveSubject(tt.focused, tt.hovered, tt.snapshot)
			if got == nil || got.ID != tt.want {
				t.Fatalf("expected %s, got %+v", tt.want, got)
			}
		})
	}
}

func TestActiveSubjectEmpty(t *testing.T) {
	if got := ActiveSubject(nil, nil, nil); got != nil {
		t.Fatalf("expected nil for empty state, got %+v", got)
	}
}
