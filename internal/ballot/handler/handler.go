// Package handler exposes the ballot service over HTTP. Handlers stay
// thin: decode, call the service, translate sentinel errors to status
// codes. Conversation rendering lives upstream of this API.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ballotguide/internal/ballot/models"
	"ballotguide/internal/ballot/service"
)

// Service is the slice of the ballot service the handlers need.
type Service interface {
	SetAddress(ctx context.Context, userID, address, lang string) (*models.Election, error)
	ClearAddress(ctx context.Context, userID string) error
	Election(ctx context.Context, userID string) (*models.Election, error)
	VotingLocations(ctx context.Context, userID string) ([]models.VotingLocation, error)
	Contests(ctx context.Context, userID string) ([]models.Contest, error)
	Ask(ctx context.Context, userID, text string, hints models.Hints) (*service.Answer, error)
	Choose(ctx context.Context, userID string, selection service.Selection) (*service.Answer, error)
}

// Handler wires ballot endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the handler logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New constructs the ballot HTTP handler.
func New(svc Service, opts ...Option) *Handler {
	h := &Handler{
		service: svc,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the ballot endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Route("/users/{userID}", func(r chi.Router) {
		r.Put("/address", h.handleSetAddress)
		r.Delete("/address", h.handleClearAddress)
		r.Get("/election", h.handleElection)
		r.Get("/election/voting-locations", h.handleVotingLocations)
		r.Get("/election/contests", h.handleContests)
		r.Post("/ask", h.handleAsk)
		r.Post("/choice", h.handleChoice)
	})
}

type setAddressRequest struct {
	Address string `json:"address"`
	Lang    string `json:"lang,omitempty"`
}

func (h *Handler) handleSetAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	req, ok := decode[setAddressRequest](w, r, h.logger)
	if !ok {
		return
	}
	if req.Address == "" {
		writeErrorMessage(w, http.StatusBadRequest, "address is required")
		return
	}
	if req.Lang == "" {
		req.Lang = "en"
	}

	election, err := h.service.SetAddress(ctx, userID, req.Address, req.Lang)
	if err != nil {
		h.logger.ErrorContext(ctx, "set address failed", "user_id", userID, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, election)
}

func (h *Handler) handleClearAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	if err := h.service.ClearAddress(ctx, userID); err != nil {
		h.logger.ErrorContext(ctx, "clear address failed", "user_id", userID, "error", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleElection(w http.ResponseWriter, r *http.Request) {
	election, err := h.service.Election(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, election)
}

func (h *Handler) handleVotingLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.service.VotingLocations(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"votingLocations": locations})
}

func (h *Handler) handleContests(w http.ResponseWriter, r *http.Request) {
	contests, err := h.service.Contests(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"contests": contests})
}

type askRequest struct {
	Text  string       `json:"text"`
	Hints hintsPayload `json:"hints"`
}

func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	req, ok := decode[askRequest](w, r, h.logger)
	if !ok {
		return
	}
	if req.Text == "" {
		writeErrorMessage(w, http.StatusBadRequest, "text is required")
		return
	}

	answer, err := h.service.Ask(ctx, userID, req.Text, req.Hints.toModel())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

type choiceRequest struct {
	Ordinal flexInt `json:"ordinal,omitempty"`
	Party   string  `json:"party,omitempty"`
	Confirm bool    `json:"confirm,omitempty"`
}

func (h *Handler) handleChoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	req, ok := decode[choiceRequest](w, r, h.logger)
	if !ok {
		return
	}

	answer, err := h.service.Choose(ctx, userID, service.Selection{
		Ordinal: int(req.Ordinal),
		Party:   req.Party,
		Confirm: req.Confirm,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}
