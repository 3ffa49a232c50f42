package claim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"celsius/club/graph"
	"celsius/club/network"

	"go.uber.org/zap"
)

// Coordinator gates the creation of reward claims. It only ever performs the
// NONE → PENDING transition; approval and delivery are admin actions.
type Coordinator struct {
	loader   graph.Loader
	claims   Repo
	notifier Notifier
	logger   *zap.Logger
}

func NewCoordinator(loader graph.Loader, claims Repo, notifier Notifier, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		loader:   loader,
		claims:   claims,
		notifier: notifier,
		logger:   logger,
	}
}

// ClaimLevel re-verifies level completion server-side and creates a PENDING
// claim. Client-asserted completion is never trusted.
func (co *Coordinator) ClaimLevel(ctx context.Context, userID uint, level int) (*Claim, error) {
	if !network.IsRewardLevel(level) {
		return nil, ErrInvalidLevel
	}

	existing, err := co.claims.Find(ctx, userID, level)
	if err != nil {
		return nil, fmt.Errorf("checking existing claim: %w", err)
	}
	if existing != nil {
		return nil, &DuplicateError{Status: existing.Status}
	}

	// always the full depth here: a shallower subtree would silently break
	// level-7 verification
	root, err := co.loader.LoadSubtree(ctx, userID, graph.MaxDepth)
	if err != nil {
		return nil, err
	}

	counts, err := network.ComputeLevelCounts(root)
	if err != nil {
		co.logger.Error("referral graph corrupted during claim verification",
			zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	count := counts[level-1]
	target := network.TargetForLevel(level)
	if count < target {
		return nil, &TargetNotMetError{Level: level, Count: count, Target: target}
	}

	c := &Claim{
		UserID:    userID,
		Level:     level,
		Reward:    Rewards[level],
		Status:    StatusPending,
		ClaimedAt: time.Now(),
	}

	// the unique (user, level) index is the real race guard: a concurrent
	// claim that slipped past the pre-check fails here
	if err := co.claims.Create(ctx, c); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// the racing winner just created it, so it is still pending
			return nil, &DuplicateError{Status: StatusPending}
		}
		return nil, fmt.Errorf("creating claim: %w", err)
	}

	go func() {
		if err := co.notifier.ClaimCreated(*c); err != nil {
			co.logger.Warn("claim notification failed",
				zap.Uint("user_id", c.UserID), zap.Int("level", c.Level), zap.Error(err))
		}
	}()

	return c, nil
}
