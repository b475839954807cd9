package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/bookapi"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/viewstate"
)

type uiFixture struct {
	router *gin.Engine
	view   *viewstate.Controller
	repo   *books.Repository
}

// setupUI wires the UI to a real backend served over HTTP, the way the two
// commands run side by side.
func setupUI(t *testing.T) *uiFixture {
	t.Helper()
	db := setupTestDB(t)
	repo := books.NewRepository(db.DB)

	backend := httptest.NewServer(NewAPIRouter(RouterConfig{
		BookStore:         repo,
		Database:          db,
		CORSAllowedOrigin: testOrigin,
	}))
	t.Cleanup(backend.Close)

	view := viewstate.NewController(bookapi.NewClient(backend.URL+"/api", 0))
	view.Init(context.Background())

	return &uiFixture{
		router: NewUIRouter(RouterConfig{View: view}),
		view:   view,
		repo:   repo,
	}
}

func (f *uiFixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func (f *uiFixture) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *uiFixture) addBook(t *testing.T, title, author, category string, status entities.ReadingStatus) {
	t.Helper()
	w := f.post(t, "/ui/books/save", url.Values{
		"title": {title}, "author": {author}, "category_new": {category}, "status": {string(status)},
	})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
}

func TestUIController_Index(t *testing.T) {
	f := setupUI(t)

	w := f.get(t, "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No books found.")
	assert.Contains(t, w.Body.String(), "Registered (newest first)")
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))

	ping := f.get(t, "/ping")
	assert.JSONEq(t, `{"message":"pong"}`, ping.Body.String())
}

func TestUIController_SaveBook(t *testing.T) {
	t.Run("new category shows up after creation", func(t *testing.T) {
		f := setupUI(t)
		f.get(t, "/ui/books/new")
		assert.True(t, f.view.Snapshot().FormOpen)

		w := f.post(t, "/ui/books/save", url.Values{
			"title": {"Kindred"}, "author": {"Octavia Butler"},
			"category": {""}, "category_new": {"Speculative"},
			"status": {"UNREAD"}, "memo": {"book club"},
		})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		s := f.view.Snapshot()
		assert.False(t, s.FormOpen)
		assert.Equal(t, []string{"Speculative"}, s.Categories)
		require.Len(t, s.Books, 1)
		assert.Equal(t, "book club", s.Books[0].Memo)

		page := f.get(t, "/").Body.String()
		assert.Contains(t, page, "Kindred")
		assert.Contains(t, page, `<option value="Speculative">Speculative</option>`)
	})

	t.Run("typed category wins over the select", func(t *testing.T) {
		assert.Equal(t, "Horror", resolveCategory("SF", " Horror "))
		assert.Equal(t, "SF", resolveCategory("SF", "  "))
	})

	t.Run("invalid form renders inline errors and sends nothing", func(t *testing.T) {
		f := setupUI(t)
		f.get(t, "/ui/books/new")

		w := f.post(t, "/ui/books/save", url.Values{"title": {""}, "author": {"Anon"}, "status": {"UNREAD"}})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Title is required")
		assert.Contains(t, w.Body.String(), "Category is required")
		assert.NotContains(t, w.Body.String(), `role="alert"`)
		list, err := f.repo.List()
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("editing keeps the form populated", func(t *testing.T) {
		f := setupUI(t)
		f.addBook(t, "Dune", "Frank Herbert", "SF", entities.StatusReading)
		id := f.view.Snapshot().Books[0].ID

		w := f.get(t, "/ui/books/"+itoa(id)+"/edit")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Edit book")
		assert.Contains(t, w.Body.String(), `value="Frank Herbert"`)

		w = f.post(t, "/ui/books/save", url.Values{
			"title": {"Dune"}, "author": {"Frank Herbert"}, "category": {"SF"}, "status": {"COMPLETED"},
		})
		assert.Equal(t, http.StatusSeeOther, w.Code)
		book, err := f.repo.GetByID(id)
		require.NoError(t, err)
		assert.Equal(t, entities.StatusCompleted, book.Status)
		assert.NotEmpty(t, book.CompletedAt)

		assert.Equal(t, http.StatusNotFound, f.get(t, "/ui/books/9999/edit").Code)
	})
}

func TestUIController_SaveFailure(t *testing.T) {
	view := viewstate.NewController(bookapi.NewClient("http://127.0.0.1:1/api", 0))
	router := NewUIRouter(RouterConfig{View: view})
	f := &uiFixture{router: router, view: view}
	f.get(t, "/ui/books/new")

	w := f.post(t, "/ui/books/save", url.Values{
		"title": {"Dune"}, "author": {"Frank Herbert"}, "category_new": {"SF"}, "status": {"UNREAD"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), viewstate.MsgSaveFailed)
	assert.Contains(t, w.Body.String(), `value="Frank Herbert"`)
	assert.True(t, view.Snapshot().FormOpen)

	f.post(t, "/ui/error/dismiss", url.Values{})
	assert.Empty(t, view.Snapshot().Error)
}

func TestUIController_FiltersAndSort(t *testing.T) {
	f := setupUI(t)
	f.addBook(t, "Dune", "Frank Herbert", "SF", entities.StatusUnread)
	f.addBook(t, "Emma", "Jane Austen", "Classics", entities.StatusUnread)
	f.addBook(t, "Solaris", "Stanislaw Lem", "SF", entities.StatusUnread)

	t.Run("filters narrow the list and show chips", func(t *testing.T) {
		w := f.post(t, "/ui/filters", url.Values{"title": {"Dune"}})
		assert.Equal(t, http.StatusSeeOther, w.Code)

		s := f.view.Snapshot()
		require.Len(t, s.Books, 1)
		assert.Equal(t, "Dune", s.Books[0].Title)
		assert.ElementsMatch(t, []string{"Classics", "SF"}, s.Categories)
		assert.Contains(t, f.get(t, "/").Body.String(), "Title: Dune")

		f.post(t, "/ui/filters/clear", url.Values{})
		assert.Len(t, f.view.Snapshot().Books, 3)
	})

	t.Run("status filter outside the enumeration is rejected", func(t *testing.T) {
		w := f.post(t, "/ui/filters", url.Values{"status": {"bogus"}})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		s := f.view.Snapshot()
		assert.True(t, s.Filters.IsEmpty())
		assert.Empty(t, s.Error)
		assert.Len(t, s.Books, 3)
	})

	t.Run("chip removes only its own filter", func(t *testing.T) {
		f.post(t, "/ui/filters", url.Values{"title": {"Dune"}, "category": {"SF"}})
		require.Len(t, f.view.Snapshot().Books, 1)
		page := f.get(t, "/").Body.String()
		assert.Contains(t, page, `name="field" value="title"`)
		assert.Contains(t, page, `name="field" value="category"`)

		w := f.post(t, "/ui/filters/remove", url.Values{"field": {"title"}})
		assert.Equal(t, http.StatusSeeOther, w.Code)

		s := f.view.Snapshot()
		assert.Equal(t, entities.SearchFilters{Category: "SF"}, s.Filters)
		assert.Len(t, s.Books, 2)

		w = f.post(t, "/ui/filters/remove", url.Values{"field": {"isbn"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		f.post(t, "/ui/filters/remove", url.Values{"field": {"category"}})
		assert.Len(t, f.view.Snapshot().Books, 3)
	})

	t.Run("completion order puts unfinished books last", func(t *testing.T) {
		emma := findByTitle(t, f.view.Snapshot().Books, "Emma")
		dune := findByTitle(t, f.view.Snapshot().Books, "Dune")
		f.post(t, "/ui/books/"+itoa(emma.ID)+"/status", url.Values{"status": {"COMPLETED"}})
		f.post(t, "/ui/books/"+itoa(dune.ID)+"/status", url.Values{"status": {"COMPLETED"}})

		w := f.post(t, "/ui/sort", url.Values{"sortBy": {"completed_asc"}})
		assert.Equal(t, http.StatusSeeOther, w.Code)

		s := f.view.Snapshot()
		assert.Equal(t, entities.SortCompletedAsc, s.SortBy)
		require.Len(t, s.Books, 3)
		assert.NotEmpty(t, s.Books[0].CompletedAt)
		assert.NotEmpty(t, s.Books[1].CompletedAt)
		assert.Equal(t, "Solaris", s.Books[2].Title)
	})

	t.Run("unknown sort is rejected", func(t *testing.T) {
		w := f.post(t, "/ui/sort", url.Values{"sortBy": {"rating"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, entities.SortCompletedAsc, f.view.Snapshot().SortBy)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		w := f.post(t, "/ui/books/1/status", url.Values{"status": {"LOST"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUIController_Delete(t *testing.T) {
	f := setupUI(t)
	f.addBook(t, "Dune", "Frank Herbert", "SF", entities.StatusUnread)
	id := f.view.Snapshot().Books[0].ID
	path := "/ui/books/" + itoa(id) + "/delete"

	w := f.get(t, path)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "This cannot be undone")

	f.post(t, path, url.Values{})
	assert.Len(t, f.view.Snapshot().Books, 1, "no confirmation, nothing deleted")

	w = f.post(t, path, url.Values{"confirm": {"yes"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Empty(t, f.view.Snapshot().Books)
	assert.Empty(t, f.view.Snapshot().Categories)
}

func TestUIRouter_CSRF(t *testing.T) {
	view := viewstate.NewController(bookapi.NewClient("http://127.0.0.1:1/api", 0))
	router := NewUIRouter(RouterConfig{View: view, CSRFSecret: []byte("test-secret-key-32-bytes-long!!!")})

	req := httptest.NewRequest(http.MethodPost, "/ui/form/close", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	page := httptest.NewRecorder()
	router.ServeHTTP(page, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, page.Body.String(), `name="gorilla.csrf.Token"`)
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "", formatTimestamp(""))
	assert.Equal(t, "yesterday", formatTimestamp("yesterday"))
	assert.NotEqual(t, "2024-03-01T09:00:00Z", formatTimestamp("2024-03-01T09:00:00Z"))
}

func findByTitle(t *testing.T, list []entities.Book, title string) entities.Book {
	t.Helper()
	for _, b := range list {
		if b.Title == title {
			return b
		}
	}
	t.Fatalf("book %q not in list", title)
	return entities.Book{}
}
