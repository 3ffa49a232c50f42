package claim

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// GormRepo persists claims through gorm. Requires a connection opened with
// TranslateError so uniqueness violations arrive as gorm.ErrDuplicatedKey.
type GormRepo struct {
	db *gorm.DB
}

func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{db: db}
}

func (r *GormRepo) Find(ctx context.Context, userID uint, level int) (*Claim, error) {
	var c Claim
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND level = ?", userID, level).
		Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) Create(ctx context.Context, c *Claim) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// ListByUser returns all of a user's claims, newest first.
func (r *GormRepo) ListByUser(ctx context.Context, userID uint) ([]Claim, error) {
	var claims []Claim
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("claimed_at DESC").
		Find(&claims).Error
	return claims, err
}
