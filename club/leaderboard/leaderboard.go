// In-memory ranking of referrers by club team size, kept in a B-tree so the
// top-N read stays cheap while a background job rebuilds it from the users
// table.

package leaderboard

import (
	"sync"
	"time"

	"celsius/club/graph"

	"github.com/google/btree"
	"gorm.io/gorm"
)

type Entry struct {
	UserID   uint   `json:"user_id"`
	Name     string `json:"name"`
	TeamSize int    `json:"team_size"`
}

func (a Entry) Less(b btree.Item) bool {
	o := b.(Entry)
	if a.TeamSize != o.TeamSize {
		return a.TeamSize < o.TeamSize
	}
	return a.UserID > o.UserID // earlier signups rank first on ties
}

type Board struct {
	tree *btree.BTree
	mu   sync.RWMutex
}

func New() *Board {
	return &Board{
		tree: btree.New(2),
	}
}

// Replace swaps in a freshly computed ranking.
func (b *Board) Replace(entries []Entry) {
	tree := btree.New(2)
	for _, e := range entries {
		tree.ReplaceOrInsert(e)
	}

	b.mu.Lock()
	b.tree = tree
	b.mu.Unlock()
}

// Top returns the n largest teams in descending order.
func (b *Board) Top(n int) []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	entries := []Entry{}
	b.tree.Descend(func(it btree.Item) bool {
		entries = append(entries, it.(Entry))
		return len(entries) < n
	})
	return entries
}

type memberRow struct {
	ID             uint
	Name           string
	ReferrerID     *uint
	IsActiveMember bool
}

// Collect computes every referrer's team size in one pass over the users
// table: each active member credits its ancestors up to 7 levels above it,
// mirroring the per-user level counts without loading a subtree per user.
func Collect(db *gorm.DB) ([]Entry, error) {
	var rows []memberRow
	err := db.Table("users").
		Select("id", "name", "referrer_id", "is_active_member").
		Where("deleted_at IS NULL").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	parents := make(map[uint]*uint, len(rows))
	names := make(map[uint]string, len(rows))
	for _, row := range rows {
		parents[row.ID] = row.ReferrerID
		names[row.ID] = row.Name
	}

	teamSizes := make(map[uint]int)
	for _, row := range rows {
		if !row.IsActiveMember {
			continue
		}
		ancestor := row.ReferrerID
		for hop := 1; hop <= graph.MaxDepth && ancestor != nil; hop++ {
			teamSizes[*ancestor]++
			ancestor = parents[*ancestor]
		}
	}

	entries := make([]Entry, 0, len(teamSizes))
	for id, size := range teamSizes {
		entries = append(entries, Entry{UserID: id, Name: names[id], TeamSize: size})
	}
	return entries, nil
}

// StartMonitor rebuilds the board from the database on an interval.
func (b *Board) StartMonitor(db *gorm.DB, interval time.Duration) {
	go func() {
		for {
			if entries, err := Collect(db); err == nil {
				b.Replace(entries)
			}
			time.Sleep(interval)
		}
	}()
}
