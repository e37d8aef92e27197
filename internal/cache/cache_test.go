package cache

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/johnathamoeda-glitch/MotoDash/internal/domain"
	"github.com/johnathamoeda-glitch/MotoDash/internal/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), logger.NewWithWriter(os.Stderr))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStore(t)

	want := []domain.Transaction{
		{ID: "t1", Type: domain.TypeEarning, Date: "2024-01-05", App: domain.PlatformUber, Amount: 100, KMTraveled: 50, HoursWorked: 2},
		{ID: "t2", Type: domain.TypeExpense, Date: "2024-01-06", Category: domain.CategoryFuel, Amount: 30, Description: "posto"},
	}

	if err := s.Put(CollectionTransactions, want); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	var got []domain.Transaction
	if !s.Get(CollectionTransactions, &got) {
		t.Fatal("Get returned absent for a written snapshot")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestGetNeverWritten(t *testing.T) {
	s := newTestStore(t)

	var got []domain.Goal
	if s.Get(CollectionGoals, &got) {
		t.Error("Get reported a snapshot for a never-written slot")
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %+v", got)
	}
}

func TestGetCorruptedSnapshot(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, logger.NewWithWriter(os.Stderr))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Simulate a snapshot truncated mid-write by an older version.
	path := filepath.Join(dir, "motodash_transactions.json")
	if err := os.WriteFile(path, []byte(`[{"id":"t1","ty`), 0o644); err != nil {
		t.Fatalf("write corrupt snapshot: %v", err)
	}

	var got []domain.Transaction
	if s.Get(CollectionTransactions, &got) {
		t.Error("Get reported a corrupted snapshot as present")
	}
	if len(got) != 0 {
		t.Errorf("expected empty result from corrupted snapshot, got %+v", got)
	}
}

func TestPutOverwrites(t *testing.T) {
	s := newTestStore(t)

	first := []domain.Goal{{ID: "g1", Name: "Pneu novo", TargetAmount: 400, CreatedAt: "2024-01-01T00:00:00Z"}}
	second := []domain.Goal{{ID: "g2", Name: "Conta de luz", TargetAmount: 180, CreatedAt: "2024-02-01T00:00:00Z"}}

	if err := s.Put(CollectionGoals, first); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Put(CollectionGoals, second); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	var got []domain.Goal
	if !s.Get(CollectionGoals, &got) {
		t.Fatal("Get returned absent")
	}
	if !reflect.DeepEqual(got, second) {
		t.Errorf("expected snapshot to be replaced wholesale, got %+v", got)
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)

	if err := s.Put(CollectionTransactions, []domain.Transaction{{ID: "t1", Type: domain.TypeExpense, Date: "2024-01-05", Category: domain.CategoryOther, Amount: 5}}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	var got []domain.Transaction
	if s.Get(CollectionTransactions, &got) {
		t.Error("Get reported a snapshot after Clear")
	}

	// Clearing an already-empty store is fine.
	if err := s.Clear(); err != nil {
		t.Errorf("Clear on empty store failed: %v", err)
	}
}
