package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/recallhub/recall-service/internal/models"
)

func approvedQuestion(submitterID uint) *models.Question {
	return &models.Question{ID: 1, Status: models.StatusApproved, SubmittedBy: submitterID}
}

func TestAccessGate_Entitlement(t *testing.T) {
	gate := NewAccessGate(2)

	tests := []struct {
		name          string
		contributions int
		want          int
	}{
		{"no contributions", 0, 0},
		{"one contribution", 1, 2},
		{"three contributions", 3, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viewer := &models.User{ID: 1, Contributions: tt.contributions}
			assert.Equal(t, tt.want, gate.Entitlement(viewer))
		})
	}

	t.Run("fractional ratio floors", func(t *testing.T) {
		halfGate := NewAccessGate(0.5)
		viewer := &models.User{ID: 1, Contributions: 3}
		assert.Equal(t, 1, halfGate.Entitlement(viewer))
	})

	t.Run("nil viewer has no entitlement", func(t *testing.T) {
		assert.Equal(t, 0, gate.Entitlement(nil))
	})

	t.Run("non-positive ratio falls back to the default", func(t *testing.T) {
		fallback := NewAccessGate(0)
		viewer := &models.User{ID: 1, Contributions: 2}
		assert.Equal(t, 4, fallback.Entitlement(viewer))
	})
}

func TestAccessGate_CanView(t *testing.T) {
	gate := NewAccessGate(2)

	t.Run("rank inside entitlement unlocks", func(t *testing.T) {
		viewer := &models.User{ID: 2, Role: models.RoleContributor, Contributions: 3}
		assert.True(t, gate.CanView(approvedQuestion(9), viewer, 5))
	})

	t.Run("rank at the entitlement boundary stays locked", func(t *testing.T) {
		viewer := &models.User{ID: 2, Role: models.RoleContributor, Contributions: 3}
		assert.False(t, gate.CanView(approvedQuestion(9), viewer, 6))
	})

	t.Run("admin sees everything", func(t *testing.T) {
		admin := &models.User{ID: 2, Role: models.RoleAdmin}
		assert.True(t, gate.CanView(approvedQuestion(9), admin, 1_000_000))
		pending := &models.Question{Status: models.StatusPending, SubmittedBy: 9}
		assert.True(t, gate.CanView(pending, admin, 0))
	})

	t.Run("moderator sees everything", func(t *testing.T) {
		mod := &models.User{ID: 2, Role: models.RoleModerator}
		assert.True(t, gate.CanView(approvedQuestion(9), mod, 1_000_000))
	})

	t.Run("submitter always sees their own question", func(t *testing.T) {
		viewer := &models.User{ID: 9, Role: models.RoleContributor, Contributions: 0}
		assert.True(t, gate.CanView(approvedQuestion(9), viewer, 50))
		rejected := &models.Question{Status: models.StatusRejected, SubmittedBy: 9}
		assert.True(t, gate.CanView(rejected, viewer, 0))
	})

	t.Run("active subscription bypasses the entitlement", func(t *testing.T) {
		until := time.Now().Add(24 * time.Hour)
		viewer := &models.User{ID: 2, Role: models.RoleContributor, SubscribedUntil: &until}
		assert.True(t, gate.CanView(approvedQuestion(9), viewer, 50))
	})

	t.Run("expired subscription does not", func(t *testing.T) {
		until := time.Now().Add(-time.Hour)
		viewer := &models.User{ID: 2, Role: models.RoleContributor, SubscribedUntil: &until}
		assert.False(t, gate.CanView(approvedQuestion(9), viewer, 50))
	})

	t.Run("nil viewer never unlocks approved content", func(t *testing.T) {
		assert.False(t, gate.CanView(approvedQuestion(9), nil, 0))
	})

	t.Run("non-approved questions are hidden from other viewers", func(t *testing.T) {
		viewer := &models.User{ID: 2, Role: models.RoleContributor, Contributions: 100}
		pending := &models.Question{Status: models.StatusPending, SubmittedBy: 9}
		assert.False(t, gate.CanView(pending, viewer, 0))
	})
}
