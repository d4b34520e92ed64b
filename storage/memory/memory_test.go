package memory

import (
	"errors"
	"testing"
	"time"

	"github.com/dialforge/dialtone/storage"
)

func TestMemoryStore(t *testing.T) {
	s := NewStore()

	t.Run("LoadEmpty", func(t *testing.T) {
		_, err := s.Load()
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		checked := time.Now()
		if err := s.Save(storage.AuthState{Authenticated: true, CheckedAt: checked}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		got, err := s.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if !got.Authenticated {
			t.Error("expected authenticated state")
		}
		if !got.CheckedAt.Equal(checked) {
			t.Errorf("expected CheckedAt %v, got %v", checked, got.CheckedAt)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		if err := s.Save(storage.AuthState{Authenticated: false}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		got, err := s.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if got.Authenticated {
			t.Error("expected overwritten state to be unauthenticated")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		if err := s.Clear(); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		if _, err := s.Load(); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after Clear, got %v", err)
		}
	})

	t.Run("ClearEmptyIsNoop", func(t *testing.T) {
		if err := s.Clear(); err != nil {
			t.Fatalf("Clear on empty store failed: %v", err)
		}
	})
}
