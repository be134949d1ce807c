package goal

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/finsight-app/finsight-api/internal/config"
	"github.com/finsight-app/finsight-api/internal/user"
)

type Handler struct {
	service     GoalService
	userService user.Service
}

func NewHandler(service GoalService, userService user.Service) *Handler {
	return &Handler{service: service, userService: userService}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto CreateGoalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.service.Create(r.Context(), dto)
	if err != nil {
		writeError(w, log, err, response)
		return
	}

	config.JSON(w, http.StatusCreated, response)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	organized, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, log, err, nil)
		return
	}

	config.JSON(w, http.StatusOK, organized)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	response, err := h.service.Get(r.Context(), goalName(r))
	if err != nil {
		writeError(w, log, err, nil)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto UpdateGoalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.service.Update(r.Context(), goalName(r), dto)
	if err != nil {
		writeError(w, log, err, response)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	if err := h.service.Delete(r.Context(), goalName(r)); err != nil {
		writeError(w, log, err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Backfill reconciles legacy name-only goal lists into ledger records.
// With an empty body it falls back to the caller's profile selections.
func (h *Handler) Backfill(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var req BackfillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	names := req.Goals
	if len(names) == 0 {
		profile, err := h.userService.GetMe(r.Context())
		if err != nil {
			writeError(w, log, err, nil)
			return
		}
		names = map[Bucket][]string{
			BucketShortTerm:  profile.FinancialGoals.ShortTerm,
			BucketMediumTerm: profile.FinancialGoals.MediumTerm,
			BucketLongTerm:   profile.FinancialGoals.LongTerm,
		}
	}

	result, err := h.service.Backfill(r.Context(), names)
	if err != nil {
		writeError(w, log, err, result)
		return
	}

	config.JSON(w, http.StatusOK, result)
}

func (h *Handler) Repair(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	if err := h.service.Repair(r.Context()); err != nil {
		writeError(w, log, err, nil)
		return
	}

	config.JSON(w, http.StatusOK, map[string]string{"message": "goal index rebuilt"})
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	summary, err := h.service.Summary(r.Context())
	if err != nil {
		writeError(w, log, err, nil)
		return
	}

	config.JSON(w, http.StatusOK, summary)
}

func goalName(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

type errorBody struct {
	Error      string           `json:"error"`
	Violations []FieldViolation `json:"violations,omitempty"`
	Retriable  bool             `json:"retriable,omitempty"`
	Goal       interface{}      `json:"goal,omitempty"`
}

// writeError maps service errors to HTTP. Index-sync failures carry
// the committed record so clients know the ledger write stuck.
func writeError(w http.ResponseWriter, log *logrus.Entry, err error, partial interface{}) {
	var vErr *ValidationError
	var isErr *IndexSyncError

	switch {
	case errors.As(err, &vErr):
		config.JSON(w, http.StatusBadRequest, errorBody{Error: vErr.Error(), Violations: vErr.Violations})
	case errors.Is(err, ErrDuplicateGoalName):
		config.JSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, ErrGoalNotFound):
		config.JSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.As(err, &isErr):
		config.JSON(w, http.StatusBadGateway, errorBody{Error: isErr.Error(), Retriable: true, Goal: partial})
	case errors.Is(err, ErrStoreUnavailable):
		config.JSON(w, http.StatusServiceUnavailable, errorBody{Error: err.Error(), Retriable: true})
	case errors.Is(err, ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	default:
		log.WithError(err).Error("Unhandled goal service error")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
