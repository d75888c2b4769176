package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ppiankov/pressflag/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testResult(runID string, at time.Time, dies ...int64) *model.Result {
	meta := model.BatchMeta{Date: "2024-03-01", MachineType: "P1 Press", Operator: "Ravi", Supervisor: "Anil"}
	result := &model.Result{
		RunID:      runID,
		Source:     "week.xlsx",
		SheetName:  "PressProd",
		AnalyzedAt: at,
		Meta:       meta,
		Warnings:   []model.Warning{{Kind: model.WarningMappingSheetMissing, Message: "no mapping"}},
	}
	for _, die := range dies {
		result.Flagged = append(result.Flagged, model.FlaggedRow{
			Date:           meta.Date,
			MachineType:    meta.MachineType,
			DieNumber:      die,
			DieName:        "Handle",
			FlagReason:     "Speed less than 4.7 mm",
			Operator:       meta.Operator,
			Supervisor:     meta.Supervisor,
			Remark:         "die polish",
			DepartmentName: "Tool Room",
		})
	}
	result.Diagnostics.Records = len(dies) + 2
	result.Diagnostics.RejectedRows = 1
	return result
}

func TestStore_SaveAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	result := testResult("run-1", at, 101, 102)
	if err := store.Save(ctx, result); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	run, flagged, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if run.Records != 4 || run.RejectedRows != 1 || run.Flagged != 2 || run.Warnings != 1 {
		t.Errorf("Unexpected counts: %+v", run)
	}
	if !run.AnalyzedAt.Equal(at) {
		t.Errorf("Expected analyzed_at %v, got %v", at, run.AnalyzedAt)
	}
	if diff := cmp.Diff(result.Meta, run.Meta); diff != "" {
		t.Errorf("Meta mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(result.Flagged, flagged); diff != "" {
		t.Errorf("Flagged rows mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_GetUnknownRun(t *testing.T) {
	store := openTestStore(t)

	_, _, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound, got %v", err)
	}
}

func TestStore_SaveDuplicateRunFails(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := store.Save(ctx, testResult("run-1", at, 101)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, testResult("run-1", at, 102)); err == nil {
		t.Error("Expected error for duplicate run id, got nil")
	}

	// Rolled back: the first run's rows are intact
	_, flagged, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(flagged) != 1 || flagged[0].DieNumber != 101 {
		t.Errorf("Expected original flagged row, got %+v", flagged)
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	runs := []struct {
		id string
		at time.Time
	}{
		{"run-a", base},
		{"run-b", base.Add(500 * time.Millisecond)},
		{"run-c", base.Add(2 * time.Hour)},
	}
	for _, r := range runs {
		if err := store.Save(ctx, testResult(r.id, r.at)); err != nil {
			t.Fatalf("Save %s failed: %v", r.id, err)
		}
	}

	listed, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	var ids []string
	for _, run := range listed {
		ids = append(ids, run.RunID)
	}
	if diff := cmp.Diff([]string{"run-c", "run-b"}, ids); diff != "" {
		t.Errorf("List order mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_DieHistory(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := store.Save(ctx, testResult("run-1", at, 101, 102)); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, testResult("run-2", at.Add(time.Hour), 101)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		die      int64
		expected int
	}{
		{101, 2},
		{102, 1},
		{999, 0},
	}
	for _, tt := range tests {
		got, err := store.DieHistory(ctx, tt.die)
		if err != nil {
			t.Fatalf("DieHistory(%d) failed: %v", tt.die, err)
		}
		if got != tt.expected {
			t.Errorf("DieHistory(%d): expected %d, got %d", tt.die, tt.expected, got)
		}
	}
}
