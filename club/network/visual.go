package network

import (
	"time"

	"celsius/club/graph"
)

// VisNode is the renderable shape of one subtree node for the network graph
// on the dashboard.
type VisNode struct {
	ID         uint       `json:"id"`
	Name       string     `json:"name"`
	Status     string     `json:"status"` // "active" or "inactive"
	Joined     time.Time  `json:"joined"`
	TeamSize   int        `json:"team_size"`   // active members anywhere below this node
	NextTarget int        `json:"next_target"` // target of the node's first incomplete reward level, 0 when all done
	Children   []*VisNode `json:"children"`
}

// BuildVisualizationTree converts a loaded subtree into renderable nodes.
// Level counts are folded leaves-first: each child hands its per-level
// active counts up one level, so every node gets its own team size and next
// target in a single pass.
func BuildVisualizationTree(root *graph.UserNode) (*VisNode, error) {
	if root == nil {
		return nil, nil
	}
	node, _, err := buildVisNode(root, make(map[uint]bool))
	return node, err
}

// buildVisNode returns the converted node together with the active-member
// counts per depth relative to it (index 0 is the node itself).
func buildVisNode(node *graph.UserNode, visited map[uint]bool) (*VisNode, []int, error) {
	if visited[node.ID] {
		return nil, nil, &IntegrityError{NodeID: node.ID}
	}
	visited[node.ID] = true

	status := "inactive"
	levels := make([]int, graph.MaxDepth+1)
	if node.ActiveMember {
		status = "active"
		levels[0] = 1
	}

	vis := &VisNode{
		ID:     node.ID,
		Name:   node.Name,
		Status: status,
		Joined: node.JoinedAt,
	}

	for _, child := range node.Children {
		childVis, childLevels, err := buildVisNode(child, visited)
		if err != nil {
			return nil, nil, err
		}
		vis.Children = append(vis.Children, childVis)

		// the child's depth d is this node's depth d+1
		for d := 0; d < graph.MaxDepth; d++ {
			levels[d+1] += childLevels[d]
		}
	}

	for _, count := range levels[1:] {
		vis.TeamSize += count
	}
	vis.NextTarget = nextIncompleteTarget(levels[1:])

	return vis, levels, nil
}

func nextIncompleteTarget(counts []int) int {
	for i, count := range counts {
		level := i + 1
		if !IsRewardLevel(level) {
			continue
		}
		if target := TargetForLevel(level); count < target {
			return target
		}
	}
	return 0
}
