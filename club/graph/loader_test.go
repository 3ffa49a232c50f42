package graph_test

import (
	"context"
	"errors"
	"testing"

	"celsius/club/graph"
	"celsius/web/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal("Failed to open sqlite:", err)
	}
	if err := conn.AutoMigrate(&db.User{}); err != nil {
		t.Fatal("Failed to migrate:", err)
	}
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB, name string, referrerID *uint, active bool) uint {
	t.Helper()

	user := db.User{
		Email:          name + "@example.com",
		Name:           name,
		ReferrerID:     referrerID,
		IsActiveMember: active,
	}
	if active {
		code := "7H-" + name
		user.ReferralCode = &code
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatal("Failed to seed user:", err)
	}
	return user.ID
}

func TestLoadSubtree(t *testing.T) {
	conn := openTestDB(t)
	loader := graph.NewGormLoader(conn)

	rootID := seedUser(t, conn, "root", nil, true)
	childA := seedUser(t, conn, "childA", &rootID, true)
	seedUser(t, conn, "childB", &rootID, false)
	grandchild := seedUser(t, conn, "grandchild", &childA, true)
	seedUser(t, conn, "greatgrandchild", &grandchild, true)

	root, err := loader.LoadSubtree(context.Background(), rootID, 7)
	if err != nil {
		t.Fatal("Expected no error, got", err)
	}

	if root.ID != rootID {
		t.Error("Expected root", rootID, ", got", root.ID)
	}
	if root.ReferralCode != "7H-root" {
		t.Error("Expected referral code 7H-root, got", root.ReferralCode)
	}
	if len(root.Children) != 2 {
		t.Fatal("Expected 2 direct referrals, got", len(root.Children))
	}

	var a *graph.UserNode
	for _, child := range root.Children {
		if child.ID == childA {
			a = child
		}
	}
	if a == nil {
		t.Fatal("Expected childA in the tree")
	}
	if len(a.Children) != 1 || len(a.Children[0].Children) != 1 {
		t.Error("Expected the chain below childA to be fully loaded")
	}
}

func TestLoadSubtreeDepthBound(t *testing.T) {
	conn := openTestDB(t)
	loader := graph.NewGormLoader(conn)

	rootID := seedUser(t, conn, "root", nil, true)
	child := seedUser(t, conn, "child", &rootID, true)
	seedUser(t, conn, "grandchild", &child, true)

	root, err := loader.LoadSubtree(context.Background(), rootID, 1)
	if err != nil {
		t.Fatal("Expected no error, got", err)
	}

	if len(root.Children) != 1 {
		t.Fatal("Expected 1 direct referral, got", len(root.Children))
	}
	// beyond maxDepth nothing is attached, even though data exists
	if len(root.Children[0].Children) != 0 {
		t.Error("Expected grandchildren to be omitted at depth 1")
	}
}

func TestLoadSubtreeNotFound(t *testing.T) {
	loader := graph.NewGormLoader(openTestDB(t))

	_, err := loader.LoadSubtree(context.Background(), 12345, 7)
	if !errors.Is(err, graph.ErrNotFound) {
		t.Error("Expected ErrNotFound, got", err)
	}
}

func TestLoadSubtreeSkipsDeleted(t *testing.T) {
	conn := openTestDB(t)
	loader := graph.NewGormLoader(conn)

	rootID := seedUser(t, conn, "root", nil, true)
	gone := seedUser(t, conn, "gone", &rootID, true)
	if err := conn.Delete(&db.User{}, gone).Error; err != nil {
		t.Fatal("Failed to soft-delete:", err)
	}

	root, err := loader.LoadSubtree(context.Background(), rootID, 7)
	if err != nil {
		t.Fatal("Expected no error, got", err)
	}
	if len(root.Children) != 0 {
		t.Error("Expected soft-deleted referrals to be skipped, got", len(root.Children))
	}
}
