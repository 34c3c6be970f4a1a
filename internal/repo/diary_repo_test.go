package repo

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tbourn/headache-tracker/internal/domain"
)

func TestCreateDiaryEntry_Error_NoTable(t *testing.T) {
	db := newRepoDB(t /* no migrations */)
	err := CreateDiaryEntry(context.Background(), db, &domain.DiaryEntry{Date: "2025-07-01", Score: 3})
	if err == nil || errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected generic error without table, got %v", err)
	}
}

func TestCreateGetDiaryEntry_RoundTrip(t *testing.T) {
	db := newRepoDB(t, &domain.DiaryEntry{})
	ctx := context.Background()

	in := &domain.DiaryEntry{Date: "2025-07-01", Score: 7, Limited: true, Cluster: true, Notes: []string{"aura"}}
	if err := CreateDiaryEntry(ctx, db, in); err != nil {
		t.Fatalf("CreateDiaryEntry: %v", err)
	}
	if in.CreatedAt.IsZero() || in.UpdatedAt.IsZero() {
		t.Fatalf("timestamps should be set on create: %+v", in)
	}

	got, err := GetDiaryEntry(ctx, db, "2025-07-01")
	if err != nil {
		t.Fatalf("GetDiaryEntry: %v", err)
	}
	if got.Score != 7 || !got.Limited || !got.Cluster || !reflect.DeepEqual(got.Notes, []string{"aura"}) {
		t.Fatalf("round-trip mismatch: %+v", got)
	}

	if _, err := GetDiaryEntry(ctx, db, "2025-07-02"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateDiaryEntry_Duplicate(t *testing.T) {
	db := newRepoDB(t, &domain.DiaryEntry{})
	ctx := context.Background()

	if err := CreateDiaryEntry(ctx, db, &domain.DiaryEntry{Date: "2025-07-01", Score: 2}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := CreateDiaryEntry(ctx, db, &domain.DiaryEntry{Date: "2025-07-01", Score: 9})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	got, _ := GetDiaryEntry(ctx, db, "2025-07-01")
	if got.Score != 2 {
		t.Fatalf("duplicate create must not overwrite; score=%d", got.Score)
	}
}

func TestUpdateDiaryEntry_ReplacesAllFields(t *testing.T) {
	db := newRepoDB(t, &domain.DiaryEntry{})
	ctx := context.Background()

	orig := &domain.DiaryEntry{Date: "2025-07-01", Score: 8, Limited: true, Cluster: true, Notes: []string{"a", "b"}}
	if err := CreateDiaryEntry(ctx, db, orig); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Zero values must overwrite, not be skipped.
	upd := &domain.DiaryEntry{Date: "2025-07-01", Score: 1, Limited: false, Cluster: false, Notes: []string{}}
	if err := UpdateDiaryEntry(ctx, db, upd); err != nil {
		t.Fatalf("UpdateDiaryEntry: %v", err)
	}
	got, err := GetDiaryEntry(ctx, db, "2025-07-01")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Score != 1 || got.Limited || got.Cluster || len(got.Notes) != 0 {
		t.Fatalf("update did not replace fields: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("CreatedAt should be preserved, got zero")
	}
}

func TestUpdateDiaryEntry_Missing(t *testing.T) {
	db := newRepoDB(t, &domain.DiaryEntry{})
	err := UpdateDiaryEntry(context.Background(), db, &domain.DiaryEntry{Date: "2025-01-01", Score: 5})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteDiaryEntry(t *testing.T) {
	db := newRepoDB(t, &domain.DiaryEntry{})
	ctx := context.Background()

	if err := CreateDiaryEntry(ctx, db, &domain.DiaryEntry{Date: "2025-07-04", Score: 6, Notes: []string{"x"}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	removed, err := DeleteDiaryEntry(ctx, db, "2025-07-04")
	if err != nil {
		t.Fatalf("DeleteDiaryEntry: %v", err)
	}
	if removed.Date != "2025-07-04" || removed.Score != 6 {
		t.Fatalf("unexpected removed entry: %+v", removed)
	}
	if _, err := GetDiaryEntry(ctx, db, "2025-07-04"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("entry should be gone, got %v", err)
	}
	if _, err := DeleteDiaryEntry(ctx, db, "2025-07-04"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}
}

func TestListDiaryEntries_OrderedAndBetween(t *testing.T) {
	db := newRepoDB(t, &domain.DiaryEntry{})
	ctx := context.Background()

	for _, d := range []string{"2025-08-01", "2025-06-30", "2025-07-31", "2025-07-01", "2025-07-15"} {
		if err := CreateDiaryEntry(ctx, db, &domain.DiaryEntry{Date: d, Score: 5}); err != nil {
			t.Fatalf("seed %s: %v", d, err)
		}
	}

	all, err := ListDiaryEntries(ctx, db)
	if err != nil {
		t.Fatalf("ListDiaryEntries: %v", err)
	}
	want := []string{"2025-06-30", "2025-07-01", "2025-07-15", "2025-07-31", "2025-08-01"}
	if got := dates(all); !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v; want %v", got, want)
	}

	july, err := ListDiaryEntriesBetween(ctx, db, "2025-07-01", "2025-07-31")
	if err != nil {
		t.Fatalf("ListDiaryEntriesBetween: %v", err)
	}
	if got := dates(july); !reflect.DeepEqual(got, []string{"2025-07-01", "2025-07-15", "2025-07-31"}) {
		t.Fatalf("july = %v", got)
	}

	none, err := ListDiaryEntriesBetween(ctx, db, "2024-01-01", "2024-01-31")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty result, got %v err=%v", none, err)
	}
}

func TestLatestDiaryEntry(t *testing.T) {
	db := newRepoDB(t, &domain.DiaryEntry{})
	ctx := context.Background()

	if _, err := LatestDiaryEntry(ctx, db); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty diary should be ErrNotFound, got %v", err)
	}
	for _, d := range []string{"2025-07-02", "2025-07-09", "2025-07-05"} {
		if err := CreateDiaryEntry(ctx, db, &domain.DiaryEntry{Date: d, Score: 3}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	got, err := LatestDiaryEntry(ctx, db)
	if err != nil || got.Date != "2025-07-09" {
		t.Fatalf("latest = %+v err=%v", got, err)
	}
}

func dates(entries []domain.DiaryEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Date
	}
	return out
}
