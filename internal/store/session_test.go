package store

import (
	"errors"
	"testing"
	"time"
)

func TestSessionRepository_CreateFinish(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	c, err := repo.Create(1280, 720)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if c.ID == "" {
		t.Fatal("expected generated ID")
	}
	if !c.Active() {
		t.Error("new session should be active")
	}

	got, err := repo.GetByID(c.ID)
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if got.Width != 1280 || got.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", got.Width, got.Height)
	}
	if !got.Active() {
		t.Error("stored session should be active before Finish")
	}

	stats := Stats{Strokes: 4, Undos: 2, Redos: 1, Clears: 1}
	if err := repo.Finish(c.ID, stats); err != nil {
		t.Fatalf("failed to finish session: %v", err)
	}

	got, err = repo.GetByID(c.ID)
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if got.Active() {
		t.Error("finished session should not be active")
	}
	if got.Stats != stats {
		t.Errorf("expected stats %+v, got %+v", stats, got.Stats)
	}
	if got.EndedAt.Before(got.StartedAt) {
		t.Errorf("ended %v before started %v", got.EndedAt, got.StartedAt)
	}
}

func TestSessionRepository_FinishTwice(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	c, _ := repo.Create(640, 480)
	if err := repo.Finish(c.ID, Stats{}); err != nil {
		t.Fatalf("failed to finish session: %v", err)
	}
	if err := repo.Finish(c.ID, Stats{Strokes: 9}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second finish, got %v", err)
	}
}

func TestSessionRepository_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Sessions().GetByID("non-existent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.Sessions().Finish("non-existent", Stats{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	var ids []string
	for i := 0; i < 3; i++ {
		c, err := repo.Create(100, 100)
		if err != nil {
			t.Fatalf("failed to create session: %v", err)
		}
		ids = append(ids, c.ID)
		time.Sleep(5 * time.Millisecond)
	}

	all, err := repo.List(0)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}
	if all[0].ID != ids[2] {
		t.Errorf("expected newest session first, got %s", all[0].ID)
	}

	limited, err := repo.List(2)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(limited))
	}
}
