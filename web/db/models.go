package db

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string `gorm:"unique"`
	Password string
	Name     string

	// ReferrerID points at the user whose referral code was used at signup.
	// Nil for unreferred users, so the referral graph is a forest.
	ReferrerID *uint

	// ReferralCode is issued on activation and stays nil before that.
	ReferralCode *string `gorm:"uniqueIndex"`

	// IsActiveMember flips to true on the first qualifying purchase and is
	// never demoted afterwards.
	IsActiveMember bool

	Balance int // in cents

	IsVerified  bool
	VerifyToken string
	TokenExpiry time.Time
}

type Product struct {
	gorm.Model
	Name        string
	Description string
	Price       int // in cents
	Stock       int

	Qualifying bool // qualifying purchases activate club membership
}

type Order struct {
	gorm.Model
	UserID    uint
	ProductID uint
	Quantity  int
	Total     int    // in cents
	Status    string // "paid" or "cancelled"
}
