package claim

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusDelivered Status = "DELIVERED"
)

// Claim is one user's reward claim against one completed level. The
// composite unique index is the real guard against double claims; the
// coordinator's pre-check only exists to fail fast.
type Claim struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	UserID    uint   `gorm:"uniqueIndex:idx_claims_user_level" json:"user_id"`
	Level     int    `gorm:"uniqueIndex:idx_claims_user_level" json:"level"`
	Reward    string `json:"reward"`
	Status    Status `json:"status"`
	AdminNote string `json:"admin_note,omitempty"`

	ClaimedAt   time.Time  `json:"claimed_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

// Rewards per level. Only the odd levels pay out.
var Rewards = map[int]string{
	1: "Celsius gift voucher",
	3: "Celsius smartwatch",
	5: "International trip for two",
	7: "7th Heaven grand prize car",
}

// ErrDuplicate is returned by Repo.Create when the (user, level) pair
// already has a claim row.
var ErrDuplicate = errors.New("claim already exists for this user and level")

// Repo is the persistence port for claims.
type Repo interface {
	// Find returns the claim for (userID, level), or nil when none exists.
	Find(ctx context.Context, userID uint, level int) (*Claim, error)
	// Create persists a new claim, failing with ErrDuplicate when the
	// uniqueness constraint rejects it.
	Create(ctx context.Context, c *Claim) error
}

// Notifier delivers the claim-created notification. Fire-and-forget:
// failures never roll back the claim.
type Notifier interface {
	ClaimCreated(c Claim) error
}

var ErrInvalidLevel = errors.New("rewards can only be claimed for levels 1, 3, 5 and 7")

// DuplicateError rejects a second claim for an already-claimed level,
// carrying the existing claim's status for the user-facing message.
type DuplicateError struct {
	Status Status
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("level already claimed, current status %s", e.Status)
}

// TargetNotMetError rejects a claim whose level is not complete yet.
type TargetNotMetError struct {
	Level  int
	Count  int
	Target int
}

func (e *TargetNotMetError) Error() string {
	return fmt.Sprintf("level %d not complete: %d of %d active members", e.Level, e.Count, e.Target)
}
