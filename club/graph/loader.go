package graph

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// GormLoader loads referral subtrees from the users table with one batched
// query per level, instead of the nested per-user queries the handlers used
// to unroll by hand.
type GormLoader struct {
	db *gorm.DB
}

func NewGormLoader(db *gorm.DB) *GormLoader {
	return &GormLoader{db: db}
}

// userRow selects only the columns the tree needs.
type userRow struct {
	ID             uint
	Name           string
	ReferralCode   *string
	ReferrerID     *uint
	IsActiveMember bool
	CreatedAt      time.Time
}

func (r userRow) node() *UserNode {
	node := &UserNode{
		ID:           r.ID,
		Name:         r.Name,
		ActiveMember: r.IsActiveMember,
		JoinedAt:     r.CreatedAt,
	}
	if r.ReferralCode != nil {
		node.ReferralCode = *r.ReferralCode
	}
	return node
}

func (l *GormLoader) LoadSubtree(ctx context.Context, rootID uint, maxDepth int) (*UserNode, error) {
	if maxDepth < 1 || maxDepth > MaxDepth {
		maxDepth = MaxDepth
	}

	var rootRow userRow
	err := l.db.WithContext(ctx).Table("users").
		Select("id", "name", "referral_code", "referrer_id", "is_active_member", "created_at").
		Where("id = ? AND deleted_at IS NULL", rootID).
		Take(&rootRow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &LoadError{Err: err}
	}

	root := rootRow.node()

	// one query per level: fetch the children of the whole frontier at once
	frontier := map[uint]*UserNode{root.ID: root}
	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		parentIDs := make([]uint, 0, len(frontier))
		for id := range frontier {
			parentIDs = append(parentIDs, id)
		}

		var rows []userRow
		err := l.db.WithContext(ctx).Table("users").
			Select("id", "name", "referral_code", "referrer_id", "is_active_member", "created_at").
			Where("referrer_id IN ? AND deleted_at IS NULL", parentIDs).
			Find(&rows).Error
		if err != nil {
			return nil, &LoadError{Err: err}
		}

		next := make(map[uint]*UserNode, len(rows))
		for _, row := range rows {
			node := row.node()
			parent := frontier[*row.ReferrerID]
			parent.Children = append(parent.Children, node)
			next[node.ID] = node
		}
		frontier = next
	}

	return root, nil
}
