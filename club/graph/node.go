package graph

import (
	"context"
	"errors"
	"time"
)

// MaxDepth is the program ceiling for the referral tree. Claim verification
// must always load the full 7 levels; shallower depths are only for
// lightweight views.
const MaxDepth = 7

// UserNode is one participant in the referral forest, with its direct
// referrals attached down to the depth the loader was asked for. Children
// beyond the loaded depth are omitted, not empty.
type UserNode struct {
	ID           uint
	Name         string
	ReferralCode string
	ActiveMember bool
	JoinedAt     time.Time
	Children     []*UserNode
}

// Loader materializes a user's referral subtree down to maxDepth levels.
// Implementations are read-only.
type Loader interface {
	LoadSubtree(ctx context.Context, rootID uint, maxDepth int) (*UserNode, error)
}

var ErrNotFound = errors.New("user not found")

// LoadError wraps storage failures while loading a subtree. Callers may
// retry at their discretion.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return "failed to load referral subtree: " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
