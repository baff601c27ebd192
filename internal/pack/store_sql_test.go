package pack

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/packsmith/packsmith/internal/db"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })
	return NewSQLStore(dbh, "sqlite")
}

func TestSQLStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.LoadCurrent(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty store: err = %v, want ErrNotFound", err)
	}

	p := Pack{Author: "Ada", Name: "Quiz", Rounds: []Round{{Name: "R1", Themes: []Theme{}}}}
	if err := store.SaveCurrent(ctx, p, "editor"); err != nil {
		t.Fatalf("SaveCurrent: %v", err)
	}

	got, err := store.LoadCurrent(ctx)
	if err != nil {
		t.Fatalf("LoadCurrent: %v", err)
	}
	if got.Author != "Ada" || got.Name != "Quiz" || len(got.Rounds) != 1 {
		t.Fatalf("loaded = %+v", got)
	}

	// Saving again overwrites the slot and appends a revision.
	p.Name = "Quiz v2"
	if err := store.SaveCurrent(ctx, p, "editor"); err != nil {
		t.Fatalf("SaveCurrent: %v", err)
	}
	got, _ = store.LoadCurrent(ctx)
	if got.Name != "Quiz v2" {
		t.Fatalf("slot not overwritten: %q", got.Name)
	}

	revs, err := store.ListRevisions(ctx, 10)
	if err != nil {
		t.Fatalf("ListRevisions: %v", err)
	}
	if len(revs) != 2 {
		t.Fatalf("revisions = %d, want 2", len(revs))
	}
	if revs[0].SavedBy != "editor" {
		t.Fatalf("revision saved_by = %q, want %q", revs[0].SavedBy, "editor")
	}
	rp, err := store.GetRevision(ctx, revs[0].ID)
	if err != nil {
		t.Fatalf("GetRevision: %v", err)
	}
	if rp.Author != "Ada" {
		t.Fatalf("revision pack = %+v", rp)
	}
}

func TestSQLStoreClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveCurrent(ctx, Pack{Author: "A", Name: "N"}, ""); err != nil {
		t.Fatalf("SaveCurrent: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := store.LoadCurrent(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("after clear: err = %v, want ErrNotFound", err)
	}
	revs, _ := store.ListRevisions(ctx, 10)
	if len(revs) != 0 {
		t.Fatalf("revisions after clear = %d, want 0", len(revs))
	}
}

func TestSQLStoreGetRevisionMissing(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.GetRevision(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
