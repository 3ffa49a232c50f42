package claim_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"celsius/club/claim"
	"celsius/club/graph"
)

type stubLoader struct {
	root   *graph.UserNode
	err    error
	depths []int
}

func (s *stubLoader) LoadSubtree(ctx context.Context, rootID uint, maxDepth int) (*graph.UserNode, error) {
	s.depths = append(s.depths, maxDepth)
	if s.err != nil {
		return nil, s.err
	}
	return s.root, nil
}

type memRepo struct {
	mu        sync.Mutex
	claims    map[[2]uint]*claim.Claim
	createErr error
}

func newMemRepo() *memRepo {
	return &memRepo{claims: make(map[[2]uint]*claim.Claim)}
}

func (r *memRepo) key(userID uint, level int) [2]uint {
	return [2]uint{userID, uint(level)}
}

func (r *memRepo) Find(ctx context.Context, userID uint, level int) (*claim.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.claims[r.key(userID, level)]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (r *memRepo) Create(ctx context.Context, c *claim.Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	key := r.key(c.UserID, c.Level)
	if _, ok := r.claims[key]; ok {
		return claim.ErrDuplicate
	}
	copied := *c
	r.claims[key] = &copied
	return nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.claims)
}

type recordingNotifier struct {
	created chan claim.Claim
}

func (n *recordingNotifier) ClaimCreated(c claim.Claim) error {
	n.created <- c
	return nil
}

// fiveActiveChildren builds a tree whose level 1 is exactly complete.
func fiveActiveChildren() *graph.UserNode {
	root := &graph.UserNode{ID: 1, ActiveMember: true}
	for i := uint(2); i <= 6; i++ {
		root.Children = append(root.Children, &graph.UserNode{ID: i, ActiveMember: true})
	}
	return root
}

func newTestCoordinator(root *graph.UserNode) (*claim.Coordinator, *stubLoader, *memRepo, *recordingNotifier) {
	loader := &stubLoader{root: root}
	repo := newMemRepo()
	notifier := &recordingNotifier{created: make(chan claim.Claim, 1)}
	return claim.NewCoordinator(loader, repo, notifier, nil), loader, repo, notifier
}

func TestClaimInvalidLevel(t *testing.T) {
	co, _, repo, _ := newTestCoordinator(fiveActiveChildren())

	for _, level := range []int{0, 2, 4, 6, 8, -1} {
		_, err := co.ClaimLevel(context.Background(), 1, level)
		if !errors.Is(err, claim.ErrInvalidLevel) {
			t.Error("Expected ErrInvalidLevel for level", level, ", got", err)
		}
	}
	if repo.count() != 0 {
		t.Error("Expected no claims created, got", repo.count())
	}
}

func TestClaimDuplicate(t *testing.T) {
	co, _, repo, _ := newTestCoordinator(fiveActiveChildren())

	existing := &claim.Claim{UserID: 1, Level: 1, Status: claim.StatusApproved}
	if err := repo.Create(context.Background(), existing); err != nil {
		t.Fatal(err)
	}

	_, err := co.ClaimLevel(context.Background(), 1, 1)

	var duplicate *claim.DuplicateError
	if !errors.As(err, &duplicate) {
		t.Fatal("Expected DuplicateError, got", err)
	}
	if duplicate.Status != claim.StatusApproved {
		t.Error("Expected existing status APPROVED, got", duplicate.Status)
	}
	if repo.count() != 1 {
		t.Error("Expected no second row, got", repo.count())
	}
}

func TestClaimTargetNotMet(t *testing.T) {
	root := &graph.UserNode{ID: 1, ActiveMember: true}
	for i := uint(2); i <= 4; i++ { // only 3 of 5
		root.Children = append(root.Children, &graph.UserNode{ID: i, ActiveMember: true})
	}
	co, _, repo, _ := newTestCoordinator(root)

	_, err := co.ClaimLevel(context.Background(), 1, 1)

	var notMet *claim.TargetNotMetError
	if !errors.As(err, &notMet) {
		t.Fatal("Expected TargetNotMetError, got", err)
	}
	if notMet.Count != 3 || notMet.Target != 5 {
		t.Error("Expected count 3 of target 5, got", notMet.Count, "of", notMet.Target)
	}
	if repo.count() != 0 {
		t.Error("Expected no claim row, got", repo.count())
	}
}

func TestClaimHappyPath(t *testing.T) {
	co, _, repo, notifier := newTestCoordinator(fiveActiveChildren())

	created, err := co.ClaimLevel(context.Background(), 1, 1)
	if err != nil {
		t.Fatal("Expected no error, got", err)
	}

	if created.Status != claim.StatusPending {
		t.Error("Expected PENDING status, got", created.Status)
	}
	if created.Reward != claim.Rewards[1] {
		t.Error("Expected reward", claim.Rewards[1], ", got", created.Reward)
	}
	if repo.count() != 1 {
		t.Error("Expected 1 claim row, got", repo.count())
	}

	select {
	case notified := <-notifier.created:
		if notified.Level != 1 {
			t.Error("Expected notification for level 1, got", notified.Level)
		}
	case <-time.After(time.Second):
		t.Error("Expected a claim-created notification")
	}

	// second identical claim conflicts
	_, err = co.ClaimLevel(context.Background(), 1, 1)
	var duplicate *claim.DuplicateError
	if !errors.As(err, &duplicate) {
		t.Fatal("Expected DuplicateError on second claim, got", err)
	}
	if duplicate.Status != claim.StatusPending {
		t.Error("Expected PENDING status on duplicate, got", duplicate.Status)
	}
}

func TestClaimAlwaysLoadsFullDepth(t *testing.T) {
	co, loader, _, _ := newTestCoordinator(fiveActiveChildren())

	if _, err := co.ClaimLevel(context.Background(), 1, 1); err != nil {
		t.Fatal("Expected no error, got", err)
	}

	if len(loader.depths) != 1 || loader.depths[0] != graph.MaxDepth {
		t.Error("Expected claim verification to load depth 7, got", loader.depths)
	}
}

func TestClaimRaceLosesToUniqueConstraint(t *testing.T) {
	// the pre-check sees nothing, but the storage constraint rejects the
	// insert, as in two concurrent claims
	co, _, repo, _ := newTestCoordinator(fiveActiveChildren())
	repo.createErr = claim.ErrDuplicate

	_, err := co.ClaimLevel(context.Background(), 1, 1)

	var duplicate *claim.DuplicateError
	if !errors.As(err, &duplicate) {
		t.Fatal("Expected DuplicateError, got", err)
	}
}

func TestClaimPropagatesLoadFailure(t *testing.T) {
	loader := &stubLoader{err: &graph.LoadError{Err: errors.New("connection refused")}}
	repo := newMemRepo()
	co := claim.NewCoordinator(loader, repo, &recordingNotifier{created: make(chan claim.Claim, 1)}, nil)

	_, err := co.ClaimLevel(context.Background(), 1, 1)

	var loadErr *graph.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatal("Expected LoadError to propagate, got", err)
	}
	if repo.count() != 0 {
		t.Error("Expected no claim row, got", repo.count())
	}
}
