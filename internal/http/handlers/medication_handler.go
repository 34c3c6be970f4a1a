// Medication HTTP handlers.
//
// This file exposes REST endpoints for medication regimens:
//   - GET    /medications                   (list, ETag support)
//   - GET    /medications/active            (active only)
//   - GET    /medications/side-effects      (with recorded side effects)
//   - GET    /medications/{name}            (single, with total_daily_dose)
//   - POST   /medications                   (create, Idempotency-Key aware)
//   - PUT    /medications                   (full replace)
//   - POST   /medications/upsert            (create or replace)
//   - DELETE /medications/{name}            (delete)
//   - POST   /medications/{name}/deactivate (stop today)
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/headache-tracker/internal/domain"
	"github.com/tbourn/headache-tracker/internal/repo"
)

//
// DTOs
//

// DoseInput accepts each slot as a number, a numeric string, or anything else
// (which counts as 0). Negative and non-finite amounts are clamped to 0.
type DoseInput struct {
	Morning   any `json:"morning" swaggertype:"number" example:"200"`
	Afternoon any `json:"afternoon" swaggertype:"number" example:"0"`
	Evening   any `json:"evening" swaggertype:"number" example:"200"`
}

// MedicationRequest is the JSON payload for creating or replacing a
// medication.
type MedicationRequest struct {
	Name string    `json:"name" example:"Ibuprofen"`
	Dose DoseInput `json:"dose"`
	// Active defaults to true when omitted.
	Active      *bool    `json:"active" example:"true"`
	StartDate   string   `json:"start_date" example:"2025-01-01"`
	EndDate     *string  `json:"end_date" example:"2025-03-01"`
	SideEffects []string `json:"side_effects" example:"nausea"`
	Notes       []string `json:"notes" example:"take with food"`
}

func (r MedicationRequest) toDomain() domain.Medication {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return domain.Medication{
		Name:        r.Name,
		Dose:        domain.CreateDose(r.Dose.Morning, r.Dose.Afternoon, r.Dose.Evening),
		Active:      active,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		SideEffects: r.SideEffects,
		Notes:       r.Notes,
	}
}

// MedicationResponse is a single medication with its derived daily total.
type MedicationResponse struct {
	domain.Medication
	TotalDailyDose float64 `json:"total_daily_dose" example:"400"`
}

func (h *Handlers) fetchMedication(ctx context.Context, name string) (any, bool, error) {
	m, found, err := h.medSvc.Get(ctx, name)
	return m, found, err
}

//
// Handlers
//

// ListMedications godoc
// @ID          listMedications
// @Summary     List medications
// @Description Returns every medication ordered by name. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Medications
// @Produce     json
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Success     200  {array}   domain.Medication
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /medications [get]
func (h *Handlers) ListMedications(c *gin.Context) {
	if h.checkETag(c, "medications", repo.MedicationStats) {
		return
	}
	items, err := h.medSvc.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, items)
}

// ListActiveMedications godoc
// @ID          listActiveMedications
// @Summary     List active medications
// @Tags        Medications
// @Produce     json
// @Success     200  {array}   domain.Medication
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /medications/active [get]
func (h *Handlers) ListActiveMedications(c *gin.Context) {
	items, err := h.medSvc.ListActive(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, items)
}

// ListMedicationsWithSideEffects godoc
// @ID          listMedicationsWithSideEffects
// @Summary     List medications with side effects
// @Tags        Medications
// @Produce     json
// @Success     200  {array}   domain.Medication
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /medications/side-effects [get]
func (h *Handlers) ListMedicationsWithSideEffects(c *gin.Context) {
	items, err := h.medSvc.ListWithSideEffects(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, items)
}

// GetMedication godoc
// @ID          getMedication
// @Summary     Get a medication
// @Tags        Medications
// @Produce     json
// @Param       name  path  string  true  "Exact, case-sensitive name"  example(Ibuprofen)
// @Success     200  {object}  handlers.MedicationResponse
// @Failure     404  {object}  handlers.ErrorResponse "Medication not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /medications/{name} [get]
func (h *Handlers) GetMedication(c *gin.Context) {
	m, found, err := h.medSvc.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeServiceError(c, err, ErrCodeInternal)
		return
	}
	if !found {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "medication not found")
		return
	}
	ok(c, http.StatusOK, MedicationResponse{Medication: *m, TotalDailyDose: domain.TotalDailyDose(*m)})
}

// CreateMedication godoc
// @ID          createMedication
// @Summary     Create a medication
// @Description Creates a medication with a new name. With an Idempotency-Key, a retried request returns the original medication and sets Idempotency-Replayed.
// @Tags        Medications
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string  false "Idempotency key"
// @Param       body  body  handlers.MedicationRequest  true  "Medication"
// @Success     201  {object}  domain.Medication
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse "Name exists"
// @Failure     422  {object}  handlers.ErrorResponse "Validation failed"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /medications [post]
func (h *Handlers) CreateMedication(c *gin.Context) {
	if h.idempotentReplay(c, h.fetchMedication) {
		return
	}
	var req MedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	m, err := h.medSvc.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		writeServiceError(c, err, ErrCodeCreateFailed)
		return
	}
	h.rememberIdempotent(c, m.Name, http.StatusCreated)
	ok(c, http.StatusCreated, m)
}

// UpdateMedication godoc
// @ID          updateMedication
// @Summary     Replace a medication
// @Description Fully replaces the medication keyed by the body's name. The medication must exist.
// @Tags        Medications
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.MedicationRequest  true  "Medication"
// @Success     200  {object}  domain.Medication
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Medication not found"
// @Failure     422  {object}  handlers.ErrorResponse "Validation failed"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /medications [put]
func (h *Handlers) UpdateMedication(c *gin.Context) {
	var req MedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	m, err := h.medSvc.Update(c.Request.Context(), req.toDomain())
	if err != nil {
		writeServiceError(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, m)
}

// UpsertMedication godoc
// @ID          upsertMedication
// @Summary     Create or replace a medication
// @Tags        Medications
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.MedicationRequest  true  "Medication"
// @Success     200  {object}  domain.Medication "Replaced"
// @Success     201  {object}  domain.Medication "Created"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     422  {object}  handlers.ErrorResponse "Validation failed"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /medications/upsert [post]
func (h *Handlers) UpsertMedication(c *gin.Context) {
	var req MedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	m, created, err := h.medSvc.Upsert(c.Request.Context(), req.toDomain())
	if err != nil {
		writeServiceError(c, err, ErrCodeUpdateFailed)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ok(c, status, m)
}

// DeleteMedication godoc
// @ID          deleteMedication
// @Summary     Delete a medication
// @Tags        Medications
// @Produce     json
// @Param       name  path  string  true  "Exact, case-sensitive name"  example(Ibuprofen)
// @Success     200  {object}  domain.Medication "The deleted medication"
// @Failure     404  {object}  handlers.ErrorResponse "Medication not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /medications/{name} [delete]
func (h *Handlers) DeleteMedication(c *gin.Context) {
	m, err := h.medSvc.Delete(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeServiceError(c, err, ErrCodeDeleteFailed)
		return
	}
	ok(c, http.StatusOK, m)
}

// DeactivateMedication godoc
// @ID          deactivateMedication
// @Summary     Stop a medication today
// @Description Sets active=false and end_date to today's date, leaving other fields unchanged.
// @Tags        Medications
// @Produce     json
// @Param       name  path  string  true  "Exact, case-sensitive name"  example(Ibuprofen)
// @Success     200  {object}  domain.Medication
// @Failure     404  {object}  handlers.ErrorResponse "Medication not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /medications/{name}/deactivate [post]
func (h *Handlers) DeactivateMedication(c *gin.Context) {
	m, err := h.medSvc.Deactivate(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeServiceError(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, m)
}
