package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackroomapp/stackroom-server/internal/service"
	"github.com/stackroomapp/stackroom-server/internal/store"
)

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api     humatest.TestAPI
	cleanup func()
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "api-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	st, err := store.New(dbPath, nil)
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)

	books := service.NewBookService(st, logger)
	services := &Services{
		Books:        books,
		Authors:      service.NewAuthorService(st, logger),
		Categories:   service.NewCategoryService(st, logger),
		Members:      service.NewMemberService(st, logger),
		Loans:        service.NewLoanService(st, books, logger),
		Reservations: service.NewReservationService(st, logger),
		Catalog:      service.NewCatalogService(st, logger),
	}

	router := chi.NewRouter()
	humaConfig := huma.DefaultConfig("Stackroom API Test", "1.0.0")
	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:    st,
		services: services,
		router:   router,
		api:      api,
		logger:   logger,
	}

	s.registerHealthRoutes()
	s.registerBookRoutes()
	s.registerAuthorRoutes()
	s.registerCategoryRoutes()
	s.registerMemberRoutes()
	s.registerLoanRoutes()
	s.registerReservationRoutes()

	cleanup := func() {
		_ = st.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return &testServer{
		Server:  s,
		api:     humatest.Wrap(t, api),
		cleanup: cleanup,
	}
}

func (ts *testServer) createTestBook(t *testing.T, title, isbn string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/books", map[string]any{
		"title": title,
		"isbn":  isbn,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var book BookResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &book))
	return book.ID
}

func TestBookHandlers_CreateAndGet(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/books", map[string]any{
		"title":            "The Dispossessed",
		"isbn":             "9780060512750",
		"publication_year": 1974,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var created BookResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, "AVAILABLE", created.Status)
	assert.True(t, created.Borrowable)

	resp = ts.api.Get("/api/v1/books/" + created.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/books/isbn/9780060512750")
	require.Equal(t, http.StatusOK, resp.Code)

	var byISBN BookResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &byISBN))
	assert.Equal(t, created.ID, byISBN.ID)
}

func TestBookHandlers_DuplicateISBNConflict(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestBook(t, "First Copy", "9780060512750")

	resp := ts.api.Post("/api/v1/books", map[string]any{
		"title": "Second Copy",
		"isbn":  "9780060512750",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &apiErr))
	assert.Equal(t, "ALREADY_EXISTS", apiErr.Code)
}

func TestBookHandlers_GetMissingBook(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/api/v1/books/book-missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &apiErr))
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
}

func TestBookHandlers_RangeQueriesRequireBounds(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTestBook(t, "Priced Book", "isbn-api-1")

	// Omitting the bounds is a validation error, not an implicit
	// zero-to-zero range.
	resp := ts.api.Get("/api/v1/books/price-range")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	resp = ts.api.Get("/api/v1/books/year-range")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	// With both bounds supplied the query goes through.
	resp = ts.api.Get("/api/v1/books/price-range?min_price=0&max_price=100")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestBookHandlers_StatusTransitions(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	bookID := ts.createTestBook(t, "Status Machine", "isbn-api-1")

	resp := ts.api.Post("/api/v1/books/" + bookID + "/mark-lost")
	require.Equal(t, http.StatusOK, resp.Code)

	var book BookResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &book))
	assert.Equal(t, "LOST", book.Status)
	assert.False(t, book.Borrowable)
	assert.False(t, book.Reservable)

	resp = ts.api.Post("/api/v1/books/" + bookID + "/make-available")
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &book))
	assert.Equal(t, "AVAILABLE", book.Status)
}

func TestBookHandlers_StatusStatistics(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	bookID := ts.createTestBook(t, "Counted", "isbn-api-1")
	ts.createTestBook(t, "Also Counted", "isbn-api-2")

	resp := ts.api.Post("/api/v1/books/" + bookID + "/mark-borrowed")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/books/statistics/status")
	require.Equal(t, http.StatusOK, resp.Code)

	var stats map[string]int
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &stats))
	assert.Len(t, stats, 6)
	assert.Equal(t, 1, stats["AVAILABLE"])
	assert.Equal(t, 1, stats["BORROWED"])
	assert.Equal(t, 0, stats["LOST"])
}

func TestLoanHandlers_CheckoutAndReturn(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	bookID := ts.createTestBook(t, "Circulating", "isbn-api-1")

	resp := ts.api.Post("/api/v1/members", map[string]any{
		"first_name":        "Ada",
		"last_name":         "Lovelace",
		"email":             "ada@example.com",
		"membership_number": "M-0001",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var member MemberResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &member))

	resp = ts.api.Post("/api/v1/loans/checkout", map[string]any{
		"book_id":   bookID,
		"member_id": member.ID,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var loan LoanResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &loan))
	assert.False(t, loan.Returned)

	// The copy is out, a second checkout conflicts.
	resp = ts.api.Post("/api/v1/loans/checkout", map[string]any{
		"book_id":   bookID,
		"member_id": member.ID,
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = ts.api.Post("/api/v1/loans/" + loan.ID + "/return")
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &loan))
	assert.True(t, loan.Returned)

	resp = ts.api.Get("/api/v1/books/" + bookID)
	require.Equal(t, http.StatusOK, resp.Code)

	var book BookResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &book))
	assert.Equal(t, "AVAILABLE", book.Status)
}

func TestHealthHandlers_Healthy(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Components["database"].Status)
}
