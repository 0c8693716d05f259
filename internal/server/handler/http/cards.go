package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Erespul/flashcards.github.io/internal/models"
	"github.com/Erespul/flashcards.github.io/internal/service"
)

// CardService defines the flashcard operations required by the HTTP
// handlers.
type CardService interface {
	ListForUser(ctx context.Context, email string) ([]models.Flashcard, error)
	Collections(ctx context.Context, email string) ([]string, error)
	Create(ctx context.Context, email string, card service.NewCard) (int, error)
	Update(ctx context.Context, id int, email string, upd service.CardUpdate) error
	Delete(ctx context.Context, id int, email string) error
	DeleteCollection(ctx context.Context, name, email string) error
	GetByID(ctx context.Context, id int, email string) (models.Flashcard, error)
}

// CardHandler handles the flashcard and collection endpoints. All of
// them run behind RequireSession, so the current user is always in the
// request context.
type CardHandler struct {
	Cards  CardService
	Logger *zap.Logger
}

// CardRequest is the JSON payload for creating or updating a flashcard.
// On update, a missing image field preserves the stored image while an
// explicit empty string clears it.
type CardRequest struct {
	Name          string  `json:"name"`
	Question      string  `json:"question"`
	Answer        string  `json:"answer"`
	Collection    string  `json:"collection"`
	ImageQuestion *string `json:"image_question"`
	ImageAnswer   *string `json:"image_answer"`
}

// trim normalizes the fields the storage contract expects trimmed.
// Question and answer are stored verbatim.
func (req *CardRequest) trim() {
	req.Name = strings.TrimSpace(req.Name)
	req.Collection = strings.TrimSpace(req.Collection)
	if req.ImageQuestion != nil {
		trimmed := strings.TrimSpace(*req.ImageQuestion)
		req.ImageQuestion = &trimmed
	}
	if req.ImageAnswer != nil {
		trimmed := strings.TrimSpace(*req.ImageAnswer)
		req.ImageAnswer = &trimmed
	}
}

// List handles GET /api/cards.
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "please log in")
		return
	}
	cards, err := h.Cards.ListForUser(r.Context(), user.Email)
	if err != nil {
		h.writeServiceError(w, "list cards", err)
		return
	}
	if cards == nil {
		cards = []models.Flashcard{}
	}
	writeJSON(w, http.StatusOK, cards)
}

// Create handles POST /api/cards and returns the new card's id.
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "please log in")
		return
	}
	var req CardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req.trim()

	card := service.NewCard{
		Name:       req.Name,
		Question:   req.Question,
		Answer:     req.Answer,
		Collection: req.Collection,
	}
	if req.ImageQuestion != nil {
		card.ImageQuestion = *req.ImageQuestion
	}
	if req.ImageAnswer != nil {
		card.ImageAnswer = *req.ImageAnswer
	}

	id, err := h.Cards.Create(r.Context(), user.Email, card)
	if err != nil {
		h.writeServiceError(w, "create card", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"id": id})
}

// Get handles GET /api/cards/{id}.
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "please log in")
		return
	}
	id, err := cardID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}
	card, err := h.Cards.GetByID(r.Context(), id, user.Email)
	if err != nil {
		h.writeServiceError(w, "get card", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// Update handles PUT /api/cards/{id}.
func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "please log in")
		return
	}
	id, err := cardID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}
	var req CardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req.trim()

	upd := service.CardUpdate{
		Name:          req.Name,
		Question:      req.Question,
		Answer:        req.Answer,
		Collection:    req.Collection,
		ImageQuestion: req.ImageQuestion,
		ImageAnswer:   req.ImageAnswer,
	}
	if err := h.Cards.Update(r.Context(), id, user.Email, upd); err != nil {
		h.writeServiceError(w, "update card", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Delete handles DELETE /api/cards/{id}.
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "please log in")
		return
	}
	id, err := cardID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}
	if err := h.Cards.Delete(r.Context(), id, user.Email); err != nil {
		h.writeServiceError(w, "delete card", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListCollections handles GET /api/collections.
func (h *CardHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "please log in")
		return
	}
	names, err := h.Cards.Collections(r.Context(), user.Email)
	if err != nil {
		h.writeServiceError(w, "list collections", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

// DeleteCollection handles DELETE /api/collections/{name}, removing
// every card of the current user in that collection.
func (h *CardHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "please log in")
		return
	}
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	if name == "" {
		writeError(w, http.StatusBadRequest, "invalid collection name")
		return
	}
	if err := h.Cards.DeleteCollection(r.Context(), name, user.Email); err != nil {
		h.writeServiceError(w, "delete collection", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func cardID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}
