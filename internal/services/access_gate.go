package services

import (
	"math"
	"time"

	"github.com/recallhub/recall-service/internal/models"
)

// DefaultUnlockRatio is the number of approved questions a contributor may
// view per question they have submitted.
const DefaultUnlockRatio = 2.0

// AccessGate decides whether a viewer may see a question's full content.
// It is a pure predicate over current state; callers render a locked
// placeholder when it returns false.
type AccessGate struct {
	ratio float64
	now   func() time.Time
}

func NewAccessGate(ratio float64) *AccessGate {
	if ratio <= 0 {
		ratio = DefaultUnlockRatio
	}
	return &AccessGate{ratio: ratio, now: time.Now}
}

// Entitlement is the number of approved questions the viewer has unlocked
// through their own contributions.
func (g *AccessGate) Entitlement(viewer *models.User) int {
	if viewer == nil {
		return 0
	}
	return int(math.Floor(float64(viewer.Contributions) * g.ratio))
}

// CanView reports whether the viewer may see the question's full content.
// rank is the question's zero-based position among approved questions in
// creation order; it only matters for the entitlement check.
//
// Non-approved questions are visible only to their submitter and to
// moderators/admins. Approved questions are unlocked when they fall within
// the viewer's entitlement, the viewer holds an active subscription, or the
// viewer moderates.
func (g *AccessGate) CanView(q *models.Question, viewer *models.User, rank int) bool {
	if viewer != nil {
		if viewer.Role.CanModerate() {
			return true
		}
		if q.SubmittedBy == viewer.ID {
			return true
		}
	}

	if q.Status != models.StatusApproved {
		return false
	}

	if viewer == nil {
		return false
	}
	if viewer.HasActiveSubscription(g.now()) {
		return true
	}
	return rank < g.Entitlement(viewer)
}
