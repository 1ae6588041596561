package memory

import (
	"context"
	"testing"
	"time"
)

func TestSummaryStore_InsertAndRecent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ss := NewSQLiteSummaryStore(db, nil)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	for i, rec := range []SummaryRecord{
		{UserID: "alice", SessionID: "s1", Summary: "first session", SessionDate: base, MessageCount: 4},
		{UserID: "alice", SessionID: "s2", Summary: "second session", Embedding: []float32{0.1, 0.2}, SessionDate: base.Add(24 * time.Hour), MessageCount: 6},
		{UserID: "alice", SessionID: "s3", Summary: "third session", SessionDate: base.Add(48 * time.Hour), MessageCount: 2},
		{UserID: "bob", SessionID: "s9", Summary: "other user", SessionDate: base, MessageCount: 1},
	} {
		if err := ss.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert(#%d) error: %v", i, err)
		}
	}

	got, err := ss.Recent(ctx, "alice", 2)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}
	// Newest session date first.
	if got[0].SessionID != "s3" || got[1].SessionID != "s2" {
		t.Errorf("expected order s3, s2; got %s, %s", got[0].SessionID, got[1].SessionID)
	}
	if got[1].Embedding == nil || len(got[1].Embedding) != 2 {
		t.Errorf("expected embedding round-trip for s2, got %v", got[1].Embedding)
	}
	if got[1].MessageCount != 6 {
		t.Errorf("expected message_count 6, got %d", got[1].MessageCount)
	}
}

func TestSummaryStore_RecentZeroLimit(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ss := NewSQLiteSummaryStore(db, nil)
	got, err := ss.Recent(context.Background(), "alice", 0)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for zero limit, got %v", got)
	}
}

func TestSummaryStore_ExistsAndDelete(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ss := NewSQLiteSummaryStore(db, nil)
	ctx := context.Background()

	ok, err := ss.Exists(ctx, "alice", "s1")
	if err != nil {
		t.Fatalf("Exists() error: %v", err)
	}
	if ok {
		t.Fatal("expected no summary before insert")
	}

	rec := SummaryRecord{UserID: "alice", SessionID: "s1", Summary: "x", SessionDate: time.Now().UTC(), MessageCount: 1}
	if err := ss.Insert(ctx, rec); err != nil {
		t.Fatal(err)
	}
	// No uniqueness constraint: closing a session twice yields two rows.
	if err := ss.Insert(ctx, rec); err != nil {
		t.Fatalf("second insert should succeed, got %v", err)
	}

	ok, err = ss.Exists(ctx, "alice", "s1")
	if err != nil || !ok {
		t.Fatalf("expected summary to exist, got %v (err %v)", ok, err)
	}

	if err := ss.DeleteForSession(ctx, "alice", "s1"); err != nil {
		t.Fatalf("DeleteForSession() error: %v", err)
	}
	ok, err = ss.Exists(ctx, "alice", "s1")
	if err != nil || ok {
		t.Fatalf("expected summaries gone after delete, got %v (err %v)", ok, err)
	}
}
