package engine

import "github.com/vayustack/vayu-intel/internal/models"

// ActiveSubject resolves the entity currently eligible for detail display.
// Priority: explicit focus, then transient hover, then the newest buffer
// entry; nil only when the buffer is empty and nothing is selected. Pure
// derivation: recomputed on every input change, never stored.
func ActiveSubject(focused, hovered *models.Threat, snapshot []models.Threat) *models.Threat {
	if focused != nil {
		return focused
	}
	if hovered != nil {
		return hovered
	}
	if len(snapshot) > 0 {
		head := snapshot[0]
		return &head
	}
	return nil
}
