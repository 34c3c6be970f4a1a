package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tbourn/headache-tracker/internal/domain"
)

func newDiarySvc(r *fakeDiaryRepo) *DiaryService {
	s := NewDiaryService(nil, r)
	s.Now = fixedClock(2025, 7, 20)
	return s
}

func TestDiary_CreateGet_RoundTripAllScores(t *testing.T) {
	r := newFakeDiaryRepo()
	s := newDiarySvc(r)
	ctx := context.Background()

	for score := 1; score <= 10; score++ {
		date := domain.FormatDate(mustDate(t, "2025-07-01").AddDate(0, 0, score))
		in := domain.DiaryEntry{Date: date, Score: score, Limited: score%2 == 0, Cluster: score > 5, Notes: []string{"n"}}
		if _, err := s.Create(ctx, in); err != nil {
			t.Fatalf("Create score %d: %v", score, err)
		}
		got, found, err := s.Get(ctx, date)
		if err != nil || !found {
			t.Fatalf("Get(%s) = found %v err %v", date, found, err)
		}
		if !reflect.DeepEqual(*got, in) {
			t.Fatalf("round-trip mismatch: got %+v want %+v", *got, in)
		}
	}
}

func TestDiary_Create_InvalidScore_NoMutation(t *testing.T) {
	r := newFakeDiaryRepo()
	s := newDiarySvc(r)

	for _, score := range []int{0, 11, -3} {
		_, err := s.Create(context.Background(), domain.DiaryEntry{Date: "2025-07-01", Score: score})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("score %d: expected ErrValidation, got %v", score, err)
		}
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Fields["score"] == "" {
			t.Fatalf("expected score field error, got %v", err)
		}
	}
	if r.creates != 0 || len(r.rows) != 0 {
		t.Fatalf("store must not be touched on validation failure")
	}
}

func TestDiary_Create_MissingDate(t *testing.T) {
	s := newDiarySvc(newFakeDiaryRepo())
	_, err := s.Create(context.Background(), domain.DiaryEntry{Score: 5})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Fields["date"] != "date is required" {
		t.Fatalf("expected date required, got %v", err)
	}
}

func TestDiary_Create_DuplicateIsConflict(t *testing.T) {
	r := newFakeDiaryRepo(domain.DiaryEntry{Date: "2025-07-01", Score: 3})
	s := newDiarySvc(r)

	_, err := s.Create(context.Background(), domain.DiaryEntry{Date: "2025-07-01", Score: 9})
	if !errors.Is(err, ErrDiaryEntryExists) || !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrDiaryEntryExists/ErrConflict, got %v", err)
	}
	if r.rows["2025-07-01"].Score != 3 {
		t.Fatalf("existing entry must be unchanged")
	}
}

func TestDiary_Create_FiltersBlankNotes(t *testing.T) {
	r := newFakeDiaryRepo()
	s := newDiarySvc(r)

	out, err := s.Create(context.Background(), domain.DiaryEntry{Date: " 2025-07-01 ", Score: 4, Notes: []string{"aura", "", "  ", "nausea"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out.Date != "2025-07-01" {
		t.Fatalf("date should be trimmed, got %q", out.Date)
	}
	if !reflect.DeepEqual(r.rows["2025-07-01"].Notes, []string{"aura", "nausea"}) {
		t.Fatalf("notes = %#v", r.rows["2025-07-01"].Notes)
	}

	out, _ = s.Create(context.Background(), domain.DiaryEntry{Date: "2025-07-02", Score: 4})
	if out.Notes == nil {
		t.Fatalf("notes should be an empty slice, not nil")
	}
}

func TestDiary_Create_NotesKeptByteForByte(t *testing.T) {
	r := newFakeDiaryRepo()
	s := newDiarySvc(r)
	ctx := context.Background()

	decomposed := "ce\u0301phale\u0301e  on waking"
	if _, err := s.Create(ctx, domain.DiaryEntry{Date: "2025-07-01", Score: 5, Notes: []string{decomposed}}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, _, err := s.Get(ctx, "2025-07-01")
	if err != nil || got == nil || !reflect.DeepEqual(got.Notes, []string{decomposed}) {
		t.Fatalf("notes changed on the way in: %#v, %v", got, err)
	}

	// Search still matches the composed spelling.
	hits, err := s.SearchNotes(ctx, "c\u00e9phal\u00e9e", 0)
	if err != nil || len(hits) != 1 || hits[0].Date != "2025-07-01" {
		t.Fatalf("SearchNotes = %+v, %v", hits, err)
	}
}

func TestDiary_Get_AbsentIsNotAnError(t *testing.T) {
	s := newDiarySvc(newFakeDiaryRepo())
	e, found, err := s.Get(context.Background(), "2025-01-01")
	if e != nil || found || err != nil {
		t.Fatalf("Get absent = (%v, %v, %v)", e, found, err)
	}
}

func TestDiary_Get_StoreErrorPropagates(t *testing.T) {
	r := newFakeDiaryRepo()
	r.getErr = errors.New("disk on fire")
	s := newDiarySvc(r)
	if _, _, err := s.Get(context.Background(), "2025-01-01"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestDiary_Update(t *testing.T) {
	r := newFakeDiaryRepo(domain.DiaryEntry{Date: "2025-07-01", Score: 3, Notes: []string{"a"}})
	s := newDiarySvc(r)
	ctx := context.Background()

	if _, err := s.Update(ctx, domain.DiaryEntry{Date: "2025-07-01", Score: 8, Cluster: true}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got := r.rows["2025-07-01"]
	if got.Score != 8 || !got.Cluster || len(got.Notes) != 0 {
		t.Fatalf("update should fully replace: %+v", got)
	}

	if _, err := s.Update(ctx, domain.DiaryEntry{Date: "2025-07-02", Score: 8}); !errors.Is(err, ErrDiaryEntryNotFound) {
		t.Fatalf("expected ErrDiaryEntryNotFound, got %v", err)
	}
	if _, err := s.Update(ctx, domain.DiaryEntry{Date: "2025-07-01", Score: 0}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestDiary_Upsert(t *testing.T) {
	r := newFakeDiaryRepo()
	s := newDiarySvc(r)
	ctx := context.Background()

	_, created, err := s.Upsert(ctx, domain.DiaryEntry{Date: "2025-07-01", Score: 2})
	if err != nil || !created {
		t.Fatalf("first upsert: created=%v err=%v", created, err)
	}
	out, created, err := s.Upsert(ctx, domain.DiaryEntry{Date: "2025-07-01", Score: 6})
	if err != nil || created || out.Score != 6 {
		t.Fatalf("second upsert: out=%+v created=%v err=%v", out, created, err)
	}
	if r.creates != 1 || r.updates != 1 {
		t.Fatalf("creates=%d updates=%d", r.creates, r.updates)
	}
	if _, _, err := s.Upsert(ctx, domain.DiaryEntry{Date: "bad", Score: 6}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestDiary_Delete(t *testing.T) {
	r := newFakeDiaryRepo(domain.DiaryEntry{Date: "2025-07-01", Score: 3})
	s := newDiarySvc(r)
	ctx := context.Background()

	removed, err := s.Delete(ctx, "2025-07-01")
	if err != nil || removed.Score != 3 {
		t.Fatalf("Delete = %+v, %v", removed, err)
	}
	if _, found, _ := s.Get(ctx, "2025-07-01"); found {
		t.Fatalf("entry should be gone")
	}
	if _, err := s.Delete(ctx, "2025-07-01"); !errors.Is(err, ErrDiaryEntryNotFound) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrDiaryEntryNotFound, got %v", err)
	}
}

func TestDiary_ListByMonth_Boundaries(t *testing.T) {
	r := newFakeDiaryRepo(
		domain.DiaryEntry{Date: "2025-06-30", Score: 1},
		domain.DiaryEntry{Date: "2025-07-01", Score: 2},
		domain.DiaryEntry{Date: "2025-07-31", Score: 3},
		domain.DiaryEntry{Date: "2025-08-01", Score: 4},
	)
	s := newDiarySvc(r)

	got, err := s.ListByMonth(context.Background(), 2025, 7)
	if err != nil {
		t.Fatalf("ListByMonth: %v", err)
	}
	if len(got) != 2 || got[0].Date != "2025-07-01" || got[1].Date != "2025-07-31" {
		t.Fatalf("unexpected month entries: %+v", got)
	}
	if r.betweenFrom != "2025-07-01" || r.betweenTo != "2025-07-31" {
		t.Fatalf("month bounds = %s..%s", r.betweenFrom, r.betweenTo)
	}

	empty, err := s.ListByMonth(context.Background(), 2025, 9)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("empty month = %#v, %v", empty, err)
	}
}

func TestDiary_ListByMonth_Validation(t *testing.T) {
	s := newDiarySvc(newFakeDiaryRepo())
	_, err := s.ListByMonth(context.Background(), 1899, 13)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Fields["year"] == "" || ve.Fields["month"] == "" {
		t.Fatalf("expected year and month errors, got %v", err)
	}
	// Clock is 2025, so 2030 is the last valid year.
	if _, err := s.ListByMonth(context.Background(), 2031, 1); !errors.Is(err, ErrValidation) {
		t.Fatalf("2031 should be out of range, got %v", err)
	}
	if _, err := s.ListByMonth(context.Background(), 2030, 12); err != nil {
		t.Fatalf("2030 should be valid, got %v", err)
	}
}

func TestDiary_ListByRange(t *testing.T) {
	r := newFakeDiaryRepo(
		domain.DiaryEntry{Date: "2025-07-01", Score: 2},
		domain.DiaryEntry{Date: "2025-07-05", Score: 3},
		domain.DiaryEntry{Date: "2025-07-10", Score: 4},
	)
	s := newDiarySvc(r)
	ctx := context.Background()

	got, err := s.ListByRange(ctx, "2025-07-01", "2025-07-05")
	if err != nil || len(got) != 2 {
		t.Fatalf("inclusive range = %+v, %v", got, err)
	}

	rev, err := s.ListByRange(ctx, "2025-07-10", "2025-07-01")
	if err != nil || rev == nil || len(rev) != 0 {
		t.Fatalf("reversed range should be empty, got %#v, %v", rev, err)
	}

	_, err = s.ListByRange(ctx, "July", "")
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Fields["start"] == "" || ve.Fields["end"] == "" {
		t.Fatalf("expected start and end errors, got %v", err)
	}
}

func TestDiary_MonthStats(t *testing.T) {
	r := newFakeDiaryRepo(
		domain.DiaryEntry{Date: "2025-07-01", Score: 7, Cluster: true},
		domain.DiaryEntry{Date: "2025-07-02", Score: 3},
	)
	s := newDiarySvc(r)

	got, err := s.MonthStats(context.Background(), 2025, 7)
	if err != nil {
		t.Fatalf("MonthStats: %v", err)
	}
	if got.AveragePainScore == nil || *got.AveragePainScore != 5 || got.NumberOfClusterDays != 1 {
		t.Fatalf("unexpected stats %+v", got)
	}

	empty, err := s.MonthStats(context.Background(), 2025, 8)
	if !errors.Is(err, ErrNoEntriesForMonth) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNoEntriesForMonth, got %v", err)
	}
	if empty.AveragePainScore != nil || empty.NumberOfClusterDays != 0 {
		t.Fatalf("empty month stats = %+v", empty)
	}

	if _, err := s.MonthStats(context.Background(), 2025, 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestDiary_Latest(t *testing.T) {
	s := newDiarySvc(newFakeDiaryRepo())
	if _, found, err := s.Latest(context.Background()); found || err != nil {
		t.Fatalf("empty diary latest = found %v err %v", found, err)
	}
	s = newDiarySvc(newFakeDiaryRepo(
		domain.DiaryEntry{Date: "2025-07-09", Score: 2},
		domain.DiaryEntry{Date: "2025-07-03", Score: 2},
	))
	e, found, err := s.Latest(context.Background())
	if err != nil || !found || e.Date != "2025-07-09" {
		t.Fatalf("latest = %+v %v %v", e, found, err)
	}
}

func TestDiary_SearchNotes(t *testing.T) {
	s := newDiarySvc(newFakeDiaryRepo(
		domain.DiaryEntry{Date: "2025-07-01", Score: 6, Notes: []string{"throbbing pain behind the left eye", "nausea"}},
		domain.DiaryEntry{Date: "2025-07-02", Score: 4, Notes: []string{"mild pressure"}},
		domain.DiaryEntry{Date: "2025-07-03", Score: 8, Notes: []string{"left eye watering"}},
	))

	hits, err := s.SearchNotes(context.Background(), "left eye", 0)
	if err != nil {
		t.Fatalf("SearchNotes: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %+v", hits)
	}
	if hits[0].Date != "2025-07-03" || hits[0].Note != "left eye watering" {
		t.Fatalf("unexpected top hit: %+v", hits[0])
	}

	none, err := s.SearchNotes(context.Background(), "   ", 5)
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("blank query = %#v, %v", none, err)
	}
}

func TestDiary_List_StoreError(t *testing.T) {
	r := newFakeDiaryRepo()
	r.listErr = errors.New("boom")
	s := newDiarySvc(r)
	if _, err := s.List(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := s.SearchNotes(context.Background(), "x", 1); err == nil {
		t.Fatalf("expected error")
	}
}
