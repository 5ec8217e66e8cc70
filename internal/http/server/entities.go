package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/nido/internal/domain/repository"
)

// familyID saca la familia del header. La autenticación real vive en el
// gateway; acá solo se exige el scoping.
func familyID(r *http.Request) string {
	return r.Header.Get("X-Family-ID")
}

func writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, repository.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "conflict"})
	case errors.Is(err, repository.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid input"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
	}
}

type budgetHandler struct {
	repo repository.BudgetRepository
}

func (h *budgetHandler) create(w http.ResponseWriter, r *http.Request) {
	fam := familyID(r)
	if fam == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "falta X-Family-ID"})
		return
	}
	var body struct {
		MemberID    string    `json:"member_id"`
		Category    string    `json:"category"`
		Name        string    `json:"name"`
		LimitCents  int64     `json:"limit_cents"`
		Currency    string    `json:"currency"`
		PeriodStart time.Time `json:"period_start"`
		PeriodEnd   time.Time `json:"period_end"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON inválido"})
		return
	}
	b, err := h.repo.Create(r.Context(), repository.CreateBudgetInput{
		FamilyID:    fam,
		MemberID:    body.MemberID,
		Category:    body.Category,
		Name:        body.Name,
		LimitCents:  body.LimitCents,
		Currency:    body.Currency,
		PeriodStart: body.PeriodStart,
		PeriodEnd:   body.PeriodEnd,
	})
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *budgetHandler) list(w http.ResponseWriter, r *http.Request) {
	fam := familyID(r)
	if fam == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "falta X-Family-ID"})
		return
	}
	out, err := h.repo.ListByFamily(r.Context(), fam)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *budgetHandler) get(w http.ResponseWriter, r *http.Request) {
	b, err := h.repo.GetByID(r.Context(), familyID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *budgetHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), familyID(r), chi.URLParam(r, "id")); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type taskHandler struct {
	repo repository.TaskRepository
}

func (h *taskHandler) create(w http.ResponseWriter, r *http.Request) {
	fam := familyID(r)
	if fam == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "falta X-Family-ID"})
		return
	}
	var body struct {
		AssigneeID string     `json:"assignee_id"`
		Title      string     `json:"title"`
		Notes      string     `json:"notes"`
		DueAt      *time.Time `json:"due_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON inválido"})
		return
	}
	t, err := h.repo.Create(r.Context(), repository.CreateTaskInput{
		FamilyID:   fam,
		AssigneeID: body.AssigneeID,
		Title:      body.Title,
		Notes:      body.Notes,
		DueAt:      body.DueAt,
	})
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *taskHandler) list(w http.ResponseWriter, r *http.Request) {
	fam := familyID(r)
	if fam == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "falta X-Family-ID"})
		return
	}
	includeDone := r.URL.Query().Get("include_done") == "true"
	out, err := h.repo.ListByFamily(r.Context(), fam, includeDone)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *taskHandler) complete(w http.ResponseWriter, r *http.Request) {
	t, err := h.repo.Complete(r.Context(), familyID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
