// Level accounting for the 7th Heaven Club referral program. All counting
// runs over an already-materialized subtree, so the functions here are pure
// and safe to call from any number of requests at once.

package network

import (
	"context"
	"fmt"

	"celsius/club/graph"
)

// IntegrityError means the loaded subtree contains a cycle, which can only
// come from corrupted referrer edges upstream. Not retryable.
type IntegrityError struct {
	NodeID uint
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("referral graph integrity violation: user %d appears more than once in its own subtree", e.NodeID)
}

// TargetForLevel returns the active-member count needed to complete a level,
// exactly 5^level. Level 1 target is 5.
func TargetForLevel(level int) int {
	target := 1
	for i := 0; i < level; i++ {
		target *= 5
	}
	return target
}

// IsRewardLevel reports whether a level carries a reward. Only the odd
// levels do; even levels are informational.
func IsRewardLevel(level int) bool {
	return level == 1 || level == 3 || level == 5 || level == 7
}

// ComputeLevelCounts walks the subtree breadth-first and returns exactly 7
// counts of active members at depth 1 through 7 relative to the root.
//
// Inactive users are pass-through: they are not counted at their own level,
// but their referrals still count at the levels below, matching the "team
// size" semantics shown on the dashboard.
func ComputeLevelCounts(root *graph.UserNode) ([]int, error) {
	counts := make([]int, graph.MaxDepth)
	if root == nil {
		return counts, nil
	}

	visited := map[uint]bool{root.ID: true}
	frontier := root.Children

	for depth := 1; depth <= graph.MaxDepth && len(frontier) > 0; depth++ {
		var next []*graph.UserNode
		for _, node := range frontier {
			if visited[node.ID] {
				return nil, &IntegrityError{NodeID: node.ID}
			}
			visited[node.ID] = true

			if node.ActiveMember {
				counts[depth-1]++
			}
			next = append(next, node.Children...)
		}
		frontier = next
	}

	return counts, nil
}

type LevelSnapshot struct {
	Level       int     `json:"level"`
	ActiveCount int     `json:"active_count"`
	Target      int     `json:"target"`
	Completed   bool    `json:"completed"`
	Progress    float64 `json:"progress"` // percentage, capped at 100
	Rewardable  bool    `json:"rewardable"`
}

// EvaluateTargets pairs each of the 7 level counts with its 5^level target.
func EvaluateTargets(counts []int) []LevelSnapshot {
	snapshots := make([]LevelSnapshot, graph.MaxDepth)
	for i := range snapshots {
		level := i + 1
		count := 0
		if i < len(counts) {
			count = counts[i]
		}
		target := TargetForLevel(level)

		progress := 100 * float64(count) / float64(target)
		if progress > 100 {
			progress = 100
		}

		snapshots[i] = LevelSnapshot{
			Level:       level,
			ActiveCount: count,
			Target:      target,
			Completed:   count >= target,
			Progress:    progress,
			Rewardable:  IsRewardLevel(level),
		}
	}
	return snapshots
}

type Summary struct {
	Levels        []LevelSnapshot `json:"levels"`
	TotalTeamSize int             `json:"total_team_size"`
	ReferralCode  string          `json:"referral_code"`
}

// Analyzer ties the loader to the pure level computations.
type Analyzer struct {
	loader graph.Loader
}

func NewAnalyzer(loader graph.Loader) *Analyzer {
	return &Analyzer{loader: loader}
}

// Summary recomputes the level snapshots from the live graph. Always loads
// the full 7 levels so the completion flags are trustworthy.
func (a *Analyzer) Summary(ctx context.Context, userID uint) (*Summary, error) {
	root, err := a.loader.LoadSubtree(ctx, userID, graph.MaxDepth)
	if err != nil {
		return nil, err
	}

	counts, err := ComputeLevelCounts(root)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, count := range counts {
		total += count
	}

	return &Summary{
		Levels:        EvaluateTargets(counts),
		TotalTeamSize: total,
		ReferralCode:  root.ReferralCode,
	}, nil
}

// VisualizationTree loads the subtree at the requested depth and converts it
// for the front-end graph. Depth is clamped to 1..7 and defaults to 5, which
// keeps the dashboard light; claim verification never comes through here.
func (a *Analyzer) VisualizationTree(ctx context.Context, userID uint, depth int) (*VisNode, error) {
	if depth < 1 || depth > graph.MaxDepth {
		depth = 5
	}

	root, err := a.loader.LoadSubtree(ctx, userID, depth)
	if err != nil {
		return nil, err
	}

	return BuildVisualizationTree(root)
}
