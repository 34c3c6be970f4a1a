// Diary HTTP handlers.
//
// This file exposes REST endpoints for headache diary entries:
//   - GET    /diary                            (list, ETag support)
//   - GET    /diary/latest                     (most recent entry)
//   - GET    /diary/range?start=&end=          (inclusive date range)
//   - GET    /diary/search?q=&k=               (note search)
//   - GET    /diary/month/{year}/{month}       (entries in a month)
//   - GET    /diary/stats/month/{year}/{month} (monthly summary)
//   - GET    /diary/{date}                     (single entry)
//   - POST   /diary                            (create, Idempotency-Key aware)
//   - PUT    /diary                            (full replace)
//   - POST   /diary/upsert                     (create or replace)
//   - DELETE /diary/{date}                     (delete)
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/headache-tracker/internal/domain"
	"github.com/tbourn/headache-tracker/internal/repo"
	"github.com/tbourn/headache-tracker/internal/utils"
)

// maxSearchHits caps the k query parameter of note search.
const maxSearchHits = 100

//
// DTOs
//

// DiaryEntryRequest is the JSON payload for creating or replacing an entry.
type DiaryEntryRequest struct {
	// Date is the ISO calendar date (YYYY-MM-DD) the entry describes.
	Date string `json:"date" example:"2025-07-15"`
	// Score is the pain score, 1 to 10.
	Score int `json:"score" example:"6"`
	// Limited is true when the headache limited normal activity.
	Limited bool `json:"limited" example:"true"`
	// Cluster is true on cluster-headache days.
	Cluster bool `json:"cluster" example:"false"`
	// Notes are free-text notes; blank notes are dropped.
	Notes []string `json:"notes" example:"woke up with it,better after lunch"`
}

func (r DiaryEntryRequest) toDomain() domain.DiaryEntry {
	return domain.DiaryEntry{
		Date:    r.Date,
		Score:   r.Score,
		Limited: r.Limited,
		Cluster: r.Cluster,
		Notes:   r.Notes,
	}
}

// NoteSearchResponse wraps note search hits.
type NoteSearchResponse struct {
	Query string             `json:"query"`
	Hits  []domain.NoteMatch `json:"hits"`
}

//
// Helpers
//

// yearMonth parses the :year and :month path params. It writes a 400 and
// returns false when either is not an integer.
func yearMonth(c *gin.Context) (year, month int, valid bool) {
	y, err1 := strconv.Atoi(c.Param("year"))
	m, err2 := strconv.Atoi(c.Param("month"))
	if err1 != nil || err2 != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "year and month must be integers")
		return 0, 0, false
	}
	return y, m, true
}

func (h *Handlers) fetchDiaryEntry(ctx context.Context, date string) (any, bool, error) {
	e, found, err := h.diarySvc.Get(ctx, date)
	return e, found, err
}

//
// Handlers
//

// ListDiaryEntries godoc
// @ID          listDiaryEntries
// @Summary     List diary entries
// @Description Returns every diary entry ordered by date. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Diary
// @Produce     json
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Success     200  {array}   domain.DiaryEntry
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /diary [get]
func (h *Handlers) ListDiaryEntries(c *gin.Context) {
	if h.checkETag(c, "diary", repo.DiaryStats) {
		return
	}
	items, err := h.diarySvc.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, items)
}

// LatestDiaryEntry godoc
// @ID          latestDiaryEntry
// @Summary     Most recent diary entry
// @Tags        Diary
// @Produce     json
// @Success     200  {object}  domain.DiaryEntry
// @Failure     404  {object}  handlers.ErrorResponse "Diary is empty"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /diary/latest [get]
func (h *Handlers) LatestDiaryEntry(c *gin.Context) {
	e, found, err := h.diarySvc.Latest(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, ErrCodeInternal)
		return
	}
	if !found {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "no diary entries")
		return
	}
	ok(c, http.StatusOK, e)
}

// GetDiaryEntry godoc
// @ID          getDiaryEntry
// @Summary     Get the entry for a date
// @Tags        Diary
// @Produce     json
// @Param       date  path  string  true  "ISO date"  example(2025-07-15)
// @Success     200  {object}  domain.DiaryEntry
// @Failure     404  {object}  handlers.ErrorResponse "Entry not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /diary/{date} [get]
func (h *Handlers) GetDiaryEntry(c *gin.Context) {
	e, found, err := h.diarySvc.Get(c.Request.Context(), c.Param("date"))
	if err != nil {
		writeServiceError(c, err, ErrCodeInternal)
		return
	}
	if !found {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "diary entry not found")
		return
	}
	ok(c, http.StatusOK, e)
}

// CreateDiaryEntry godoc
// @ID          createDiaryEntry
// @Summary     Create a diary entry
// @Description Creates the entry for a date that has none. With an Idempotency-Key, a retried request returns the original entry and sets Idempotency-Replayed.
// @Tags        Diary
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string  false "Idempotency key"
// @Param       body  body  handlers.DiaryEntryRequest  true  "Diary entry"
// @Success     201  {object}  domain.DiaryEntry
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse "Entry exists"
// @Failure     422  {object}  handlers.ErrorResponse "Validation failed"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /diary [post]
func (h *Handlers) CreateDiaryEntry(c *gin.Context) {
	if h.idempotentReplay(c, h.fetchDiaryEntry) {
		return
	}
	var req DiaryEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	e, err := h.diarySvc.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		writeServiceError(c, err, ErrCodeCreateFailed)
		return
	}
	h.rememberIdempotent(c, e.Date, http.StatusCreated)
	ok(c, http.StatusCreated, e)
}

// UpdateDiaryEntry godoc
// @ID          updateDiaryEntry
// @Summary     Replace a diary entry
// @Description Fully replaces the entry keyed by the body's date. The entry must exist.
// @Tags        Diary
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.DiaryEntryRequest  true  "Diary entry"
// @Success     200  {object}  domain.DiaryEntry
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Entry not found"
// @Failure     422  {object}  handlers.ErrorResponse "Validation failed"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /diary [put]
func (h *Handlers) UpdateDiaryEntry(c *gin.Context) {
	var req DiaryEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	e, err := h.diarySvc.Update(c.Request.Context(), req.toDomain())
	if err != nil {
		writeServiceError(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, e)
}

// UpsertDiaryEntry godoc
// @ID          upsertDiaryEntry
// @Summary     Create or replace a diary entry
// @Tags        Diary
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.DiaryEntryRequest  true  "Diary entry"
// @Success     200  {object}  domain.DiaryEntry "Replaced"
// @Success     201  {object}  domain.DiaryEntry "Created"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     422  {object}  handlers.ErrorResponse "Validation failed"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /diary/upsert [post]
func (h *Handlers) UpsertDiaryEntry(c *gin.Context) {
	var req DiaryEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	e, created, err := h.diarySvc.Upsert(c.Request.Context(), req.toDomain())
	if err != nil {
		writeServiceError(c, err, ErrCodeUpdateFailed)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ok(c, status, e)
}

// DeleteDiaryEntry godoc
// @ID          deleteDiaryEntry
// @Summary     Delete a diary entry
// @Tags        Diary
// @Produce     json
// @Param       date  path  string  true  "ISO date"  example(2025-07-15)
// @Success     200  {object}  domain.DiaryEntry "The deleted entry"
// @Failure     404  {object}  handlers.ErrorResponse "Entry not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /diary/{date} [delete]
func (h *Handlers) DeleteDiaryEntry(c *gin.Context) {
	e, err := h.diarySvc.Delete(c.Request.Context(), c.Param("date"))
	if err != nil {
		writeServiceError(c, err, ErrCodeDeleteFailed)
		return
	}
	ok(c, http.StatusOK, e)
}

// ListDiaryMonth godoc
// @ID          listDiaryMonth
// @Summary     Entries in a month
// @Tags        Diary
// @Produce     json
// @Param       year   path  int  true  "Year"   example(2025)
// @Param       month  path  int  true  "Month"  minimum(1) maximum(12) example(7)
// @Success     200  {array}   domain.DiaryEntry
// @Failure     400  {object}  handlers.ErrorResponse "Non-integer year or month"
// @Failure     422  {object}  handlers.ErrorResponse "Year or month out of range"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /diary/month/{year}/{month} [get]
func (h *Handlers) ListDiaryMonth(c *gin.Context) {
	year, month, valid := yearMonth(c)
	if !valid {
		return
	}
	items, err := h.diarySvc.ListByMonth(c.Request.Context(), year, month)
	if err != nil {
		writeServiceError(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, items)
}

// ListDiaryRange godoc
// @ID          listDiaryRange
// @Summary     Entries in a date range
// @Description Returns entries with start <= date <= end. A start after end yields an empty list.
// @Tags        Diary
// @Produce     json
// @Param       start  query  string  true  "ISO start date"  example(2025-07-01)
// @Param       end    query  string  true  "ISO end date"    example(2025-07-31)
// @Success     200  {array}   domain.DiaryEntry
// @Failure     422  {object}  handlers.ErrorResponse "Malformed dates"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /diary/range [get]
func (h *Handlers) ListDiaryRange(c *gin.Context) {
	items, err := h.diarySvc.ListByRange(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		writeServiceError(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, items)
}

// DiaryMonthStats godoc
// @ID          diaryMonthStats
// @Summary     Monthly summary
// @Description Average pain score (full precision) and number of cluster days for a month.
// @Tags        Diary
// @Produce     json
// @Param       year   path  int  true  "Year"   example(2025)
// @Param       month  path  int  true  "Month"  minimum(1) maximum(12) example(7)
// @Success     200  {object}  domain.MonthStats
// @Failure     400  {object}  handlers.ErrorResponse "Non-integer year or month"
// @Failure     404  {object}  handlers.ErrorResponse "No entries for the month"
// @Failure     422  {object}  handlers.ErrorResponse "Year or month out of range"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /diary/stats/month/{year}/{month} [get]
func (h *Handlers) DiaryMonthStats(c *gin.Context) {
	year, month, valid := yearMonth(c)
	if !valid {
		return
	}
	st, err := h.diarySvc.MonthStats(c.Request.Context(), year, month)
	if err != nil {
		writeServiceError(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, st)
}

// SearchDiaryNotes godoc
// @ID          searchDiaryNotes
// @Summary     Search diary notes
// @Description Ranks individual notes by token overlap with q.
// @Tags        Diary
// @Produce     json
// @Param       q  query  string  true   "Search text"  example(left eye)
// @Param       k  query  int     false  "Max hits"     minimum(1) maximum(100)
// @Success     200  {object}  handlers.NoteSearchResponse
// @Failure     400  {object}  handlers.ErrorResponse "Missing query"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /diary/search [get]
func (h *Handlers) SearchDiaryNotes(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "q is required")
		return
	}
	// 0 lets the service apply its configured limit.
	k := utils.ClampInt(utils.AtoiDefault(c.Query("k"), 0), 0, maxSearchHits)
	hits, err := h.diarySvc.SearchNotes(c.Request.Context(), q, k)
	if err != nil {
		writeServiceError(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, NoteSearchResponse{Query: q, Hits: hits})
}
