package storage

import (
	"context"
	"testing"

	"github.com/JKrag/punnett-simulator/internal/genetics"
	"github.com/JKrag/punnett-simulator/internal/model"
)

func testPairing(id, createdAt string) model.Pairing {
	return model.Pairing{
		VersionedRecord: CurrentVersion(),
		ID:              id,
		Name:            "pairing " + id,
		Parent1:         genetics.MustParseGenotype("BB Aa DD ss LL"),
		Parent2:         genetics.MustParseGenotype("bb' aa Dd Ss Ll"),
		CreatedAtUTC:    createdAt,
	}
}

// exerciseStore runs the behavior every backend must share.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	if _, ok, err := store.GetPairing(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing pairing, got ok=%t err=%v", ok, err)
	}

	older := testPairing("p-1", "2026-01-01T00:00:00Z")
	newer := testPairing("p-2", "2026-01-02T00:00:00Z")
	tied := testPairing("p-3", "2026-01-02T00:00:00Z")
	for _, p := range []model.Pairing{older, newer, tied} {
		if err := store.SavePairing(ctx, p); err != nil {
			t.Fatalf("save pairing %s: %v", p.ID, err)
		}
	}

	loaded, ok, err := store.GetPairing(ctx, "p-1")
	if err != nil {
		t.Fatalf("get pairing: %v", err)
	}
	if !ok {
		t.Fatal("expected pairing p-1")
	}
	if loaded.Name != older.Name || loaded.Parent1 != older.Parent1 || loaded.Parent2 != older.Parent2 {
		t.Fatalf("unexpected pairing loaded: %+v", loaded)
	}

	list, err := store.ListPairings(ctx)
	if err != nil {
		t.Fatalf("list pairings: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 pairings, got %d", len(list))
	}
	if list[0].ID != "p-3" || list[1].ID != "p-2" || list[2].ID != "p-1" {
		t.Fatalf("unexpected pairing order: %s %s %s", list[0].ID, list[1].ID, list[2].ID)
	}

	renamed := older
	renamed.Name = "renamed"
	if err := store.SavePairing(ctx, renamed); err != nil {
		t.Fatalf("overwrite pairing: %v", err)
	}
	loaded, _, err = store.GetPairing(ctx, "p-1")
	if err != nil {
		t.Fatalf("get overwritten pairing: %v", err)
	}
	if loaded.Name != "renamed" {
		t.Fatalf("expected overwritten name, got %q", loaded.Name)
	}

	removed, err := store.DeletePairing(ctx, "p-2")
	if err != nil {
		t.Fatalf("delete pairing: %v", err)
	}
	if !removed {
		t.Fatal("expected p-2 to be removed")
	}
	removed, err = store.DeletePairing(ctx, "p-2")
	if err != nil {
		t.Fatalf("delete pairing twice: %v", err)
	}
	if removed {
		t.Fatal("expected second delete to report nothing removed")
	}

	list, err = store.ListPairings(ctx)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 pairings after delete, got %d", len(list))
	}

	if err := store.SavePairing(ctx, model.Pairing{}); err == nil {
		t.Fatal("expected save without id to fail")
	}
}
