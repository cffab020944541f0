package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"foreman/contexts/project-management/project-service/domain/entities"
	domainerrors "foreman/contexts/project-management/project-service/domain/errors"
)

func TestConcurrentAssignSamePairYieldsOneConflict(t *testing.T) {
	store := NewStore()
	if err := store.CreateProject(context.Background(), entities.Project{ID: "p1", TenantID: "t1", Name: "P"}); err != nil {
		t.Fatalf("seed project: %v", err)
	}

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results <- store.CreateMembership(context.Background(), entities.Membership{
				ID:        "m" + string(rune('a'+i)),
				ProjectID: "p1",
				UserID:    "u1",
				Role:      entities.RoleViewer,
				CreatedAt: time.Now(),
			})
		}(i)
	}
	wg.Wait()
	close(results)

	var ok, conflicts int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domainerrors.ErrAlreadyAssigned):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != attempts-1 {
		t.Fatalf("expected exactly one success, got ok=%d conflicts=%d", ok, conflicts)
	}
}

func TestDeleteProjectCascadesMemberships(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	if err := store.CreateProject(ctx, entities.Project{ID: "p1", TenantID: "t1", Name: "P"}); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	for _, userID := range []string{"u1", "u2"} {
		if err := store.CreateMembership(ctx, entities.Membership{ID: "m-" + userID, ProjectID: "p1", UserID: userID, Role: entities.RoleViewer}); err != nil {
			t.Fatalf("seed membership: %v", err)
		}
	}

	if err := store.DeleteProject(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, userID := range []string{"u1", "u2"} {
		if _, err := store.GetMembership(ctx, "p1", userID); !errors.Is(err, domainerrors.ErrMembershipNotFound) {
			t.Fatalf("expected cascade to remove %s, got %v", userID, err)
		}
	}
	if err := store.DeleteProject(ctx, "p1"); !errors.Is(err, domainerrors.ErrProjectNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestHasOwnerMembershipScopesByTenant(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	if err := store.CreateProject(ctx, entities.Project{ID: "p1", TenantID: "t1", Name: "P1"}); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	if err := store.CreateProject(ctx, entities.Project{ID: "p2", TenantID: "t2", Name: "P2"}); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	if err := store.CreateMembership(ctx, entities.Membership{ID: "m1", ProjectID: "p2", UserID: "u1", Role: entities.RoleOwner}); err != nil {
		t.Fatalf("seed membership: %v", err)
	}

	owns, err := store.HasOwnerMembership(ctx, "t1", "u1")
	if err != nil || owns {
		t.Fatalf("expected no ownership in t1, got owns=%v err=%v", owns, err)
	}
	owns, err = store.HasOwnerMembership(ctx, "t2", "u1")
	if err != nil || !owns {
		t.Fatalf("expected ownership in t2, got owns=%v err=%v", owns, err)
	}
}

func TestOwnerCacheEntriesExpire(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.Set(ctx, "t1", "u1", true, time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	_, found, err := store.Get(ctx, "t1", "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatalf("expected expired entry to be a miss")
	}
}
