package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Erespul/flashcards.github.io/internal/models"
	"github.com/Erespul/flashcards.github.io/internal/service"
	"github.com/Erespul/flashcards.github.io/internal/session"
)

// fakeCardService implements CardService for testing.
type fakeCardService struct {
	cards       []models.Flashcard
	collections []string
	err         error

	createdFor  string
	created     service.NewCard
	updatedID   int
	updated     service.CardUpdate
	deletedID   int
	deletedColl string
}

func (f *fakeCardService) ListForUser(ctx context.Context, email string) ([]models.Flashcard, error) {
	return f.cards, f.err
}

func (f *fakeCardService) Collections(ctx context.Context, email string) ([]string, error) {
	return f.collections, f.err
}

func (f *fakeCardService) Create(ctx context.Context, email string, card service.NewCard) (int, error) {
	f.createdFor = email
	f.created = card
	return 42, f.err
}

func (f *fakeCardService) Update(ctx context.Context, id int, email string, upd service.CardUpdate) error {
	f.updatedID = id
	f.updated = upd
	return f.err
}

func (f *fakeCardService) Delete(ctx context.Context, id int, email string) error {
	f.deletedID = id
	return f.err
}

func (f *fakeCardService) DeleteCollection(ctx context.Context, name, email string) error {
	f.deletedColl = name
	return f.err
}

func (f *fakeCardService) GetByID(ctx context.Context, id int, email string) (models.Flashcard, error) {
	if f.err != nil {
		return models.Flashcard{}, f.err
	}
	return f.cards[0], nil
}

// fakeSessions backs both the middleware lookup and the auth handlers.
type fakeSessions struct {
	token string
	user  models.SessionUser
}

func (f *fakeSessions) Get(token string) (models.SessionUser, bool) {
	if token == f.token {
		return f.user, true
	}
	return models.SessionUser{}, false
}

func (f *fakeSessions) Create(user models.SessionUser) string { return f.token }
func (f *fakeSessions) Delete(token string)                   {}

// newTestRouter mounts the full router over fake services and returns
// it with a logged-in request factory.
func newTestRouter(cards *fakeCardService) (http.Handler, func(method, target, body string) *http.Request) {
	sessions := &fakeSessions{
		token: "tok-1",
		user:  models.SessionUser{Name: "Ann", Email: "a@x.com"},
	}
	authHandler := &AuthHandler{Users: &fakeUserService{}, Sessions: sessions, Logger: zap.NewNop()}
	cardHandler := &CardHandler{Cards: cards, Logger: zap.NewNop()}
	router := NewRouter(authHandler, cardHandler, sessions, zap.NewNop())

	newRequest := func(method, target, body string) *http.Request {
		var reader *strings.Reader
		if body == "" {
			reader = strings.NewReader("")
		} else {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, target, reader)
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "tok-1"})
		return req
	}
	return router, newRequest
}

func TestCardRoutes_RequireSession(t *testing.T) {
	router, _ := newTestRouter(&fakeCardService{})

	for _, target := range []struct{ method, path string }{
		{http.MethodGet, "/api/cards"},
		{http.MethodPost, "/api/cards"},
		{http.MethodGet, "/api/cards/1"},
		{http.MethodDelete, "/api/cards/1"},
		{http.MethodGet, "/api/collections"},
		{http.MethodDelete, "/api/collections/Math"},
		{http.MethodGet, "/api/me"},
	} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(target.method, target.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s without session", target.method, target.path)
	}
}

func TestCardHandler_List(t *testing.T) {
	cards := &fakeCardService{cards: []models.Flashcard{
		{ID: 1, UserEmail: "a@x.com", Question: "2+2?", Answer: "4", Collection: "Math"},
	}}
	router, newRequest := newTestRouter(cards)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, newRequest(http.MethodGet, "/api/cards", ""))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"question":"2+2?"`)
}

func TestCardHandler_List_EmptyIsJSONArray(t *testing.T) {
	router, newRequest := newTestRouter(&fakeCardService{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, newRequest(http.MethodGet, "/api/cards", ""))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]\n", rr.Body.String())
}

func TestCardHandler_Create(t *testing.T) {
	cards := &fakeCardService{}
	router, newRequest := newTestRouter(cards)

	body := `{"name":" My card ","question":"  2+2? ","answer":"4","collection":" Math "}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, newRequest(http.MethodPost, "/api/cards", body))

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":42`)
	assert.Equal(t, "a@x.com", cards.createdFor)
	// Name and collection are trimmed; question is stored verbatim.
	assert.Equal(t, "My card", cards.created.Name)
	assert.Equal(t, "Math", cards.created.Collection)
	assert.Equal(t, "  2+2? ", cards.created.Question)
}

func TestCardHandler_Create_Incomplete(t *testing.T) {
	cards := &fakeCardService{err: service.ErrCardIncomplete}
	router, newRequest := newTestRouter(cards)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, newRequest(http.MethodPost, "/api/cards", `{"question":"","answer":"4"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "question and answer are required")
}

func TestCardHandler_Update_ImageFields(t *testing.T) {
	t.Run("absent image fields stay nil", func(t *testing.T) {
		cards := &fakeCardService{}
		router, newRequest := newTestRouter(cards)

		body := `{"question":"q","answer":"a"}`
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, newRequest(http.MethodPut, "/api/cards/7", body))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 7, cards.updatedID)
		assert.Nil(t, cards.updated.ImageQuestion)
		assert.Nil(t, cards.updated.ImageAnswer)
	})

	t.Run("explicit empty string is passed through", func(t *testing.T) {
		cards := &fakeCardService{}
		router, newRequest := newTestRouter(cards)

		body := `{"question":"q","answer":"a","image_question":"","image_answer":"ZZ"}`
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, newRequest(http.MethodPut, "/api/cards/7", body))

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, cards.updated.ImageQuestion)
		assert.Equal(t, "", *cards.updated.ImageQuestion)
		require.NotNil(t, cards.updated.ImageAnswer)
		assert.Equal(t, "ZZ", *cards.updated.ImageAnswer)
	})
}

func TestCardHandler_InvalidID(t *testing.T) {
	router, newRequest := newTestRouter(&fakeCardService{})

	for _, target := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/cards/abc", ""},
		{http.MethodPut, "/api/cards/abc", `{"question":"q","answer":"a"}`},
		{http.MethodDelete, "/api/cards/abc", ""},
	} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, newRequest(target.method, target.path, target.body))
		assert.Equal(t, http.StatusBadRequest, rr.Code, "%s %s", target.method, target.path)
		assert.Contains(t, rr.Body.String(), "invalid card id")
	}
}

func TestCardHandler_NotFoundOrNotPermitted(t *testing.T) {
	cards := &fakeCardService{err: service.ErrNotFound}
	router, newRequest := newTestRouter(cards)

	for _, target := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/cards/9", ""},
		{http.MethodPut, "/api/cards/9", `{"question":"q","answer":"a"}`},
		{http.MethodDelete, "/api/cards/9", ""},
		{http.MethodDelete, "/api/collections/Ghost", ""},
	} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, newRequest(target.method, target.path, target.body))
		assert.Equal(t, http.StatusNotFound, rr.Code, "%s %s", target.method, target.path)
		assert.Contains(t, rr.Body.String(), "not found or not permitted")
	}
}

func TestCardHandler_StorageFailureStaysVague(t *testing.T) {
	cards := &fakeCardService{err: errors.New("read flashcards: input/output error")}
	router, newRequest := newTestRouter(cards)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, newRequest(http.MethodGet, "/api/cards", ""))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "an error occurred")
	assert.NotContains(t, rr.Body.String(), "input/output")
}

func TestCardHandler_DeleteCollection_EscapedName(t *testing.T) {
	cards := &fakeCardService{}
	router, newRequest := newTestRouter(cards)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, newRequest(http.MethodDelete, "/api/collections/Linear%20Algebra", ""))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Linear Algebra", cards.deletedColl)
}

func TestMe(t *testing.T) {
	router, newRequest := newTestRouter(&fakeCardService{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, newRequest(http.MethodGet, "/api/me", ""))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"email":"a@x.com"`)
}
