// Package viewstate owns the state behind the book list screen and decides which
// backend call to issue whenever filters, sort order or the data itself change.
package viewstate

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// User-facing messages. The technical cause is logged, never shown.
const (
	MsgLoadFailed         = "Failed to load books"
	MsgSaveFailed         = "Failed to save the book"
	MsgDeleteFailed       = "Failed to delete the book"
	MsgStatusUpdateFailed = "Failed to update the reading status"
)

// Gateway is the subset of the REST client the controller relies on.
type Gateway interface {
	Create(ctx context.Context, form entities.BookFormData) (*entities.Book, error)
	Update(ctx context.Context, id int64, form entities.BookFormData) (*entities.Book, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, filters entities.SearchFilters) ([]entities.Book, error)
	SortedList(ctx context.Context, sortBy entities.SortOption) ([]entities.Book, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// State is everything the presentation layer renders.
type State struct {
	Books       []entities.Book
	Categories  []string
	Filters     entities.SearchFilters
	SortBy      entities.SortOption
	Loading     bool
	Error       string
	EditingBook *entities.Book
	FormOpen    bool
}

// Controller is the single owner of State. All mutation goes through its methods;
// gateway calls are made without holding the lock.
type Controller struct {
	gateway Gateway

	mu         sync.Mutex
	state      State
	generation uint64
}

func NewController(gateway Gateway) *Controller {
	return &Controller{
		gateway: gateway,
		state: State{
			Books:      []entities.Book{},
			Categories: []string{},
			SortBy:     entities.DefaultSortOption,
		},
	}
}

// Snapshot returns a copy that is safe to read while the controller keeps working.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Books = append([]entities.Book(nil), c.state.Books...)
	s.Categories = append([]string(nil), c.state.Categories...)
	if c.state.EditingBook != nil {
		b := *c.state.EditingBook
		s.EditingBook = &b
	}
	return s
}

// Init performs the first load of books and categories.
func (c *Controller) Init(ctx context.Context) {
	c.Reload(ctx)
	c.RefreshCategories(ctx)
}

// Reload fetches the list for the current filters and sort order.
// Any non-empty filter means a search, which takes precedence over the sort;
// otherwise the backend returns the full list in the active order.
// Only the most recently issued reload may replace the list.
func (c *Controller) Reload(ctx context.Context) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	filters := c.state.Filters
	sortBy := c.state.SortBy
	c.state.Loading = true
	c.state.Error = ""
	c.mu.Unlock()

	var books []entities.Book
	var err error
	if !filters.IsEmpty() {
		books, err = c.gateway.Search(ctx, filters)
	} else {
		books, err = c.gateway.SortedList(ctx, sortBy)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		log.Printf("[VIEW] Discarding stale book list (generation %d, latest %d)", gen, c.generation)
		return
	}

	c.state.Loading = false
	if err != nil {
		log.Printf("[VIEW] Error loading books: %v", err)
		c.state.Error = MsgLoadFailed
		return
	}
	if books == nil {
		books = []entities.Book{}
	}
	c.state.Books = books
}

// RefreshCategories re-reads categories from the backend. The local list may be
// filtered, so categories are never derived from it. Failures are only logged.
func (c *Controller) RefreshCategories(ctx context.Context) {
	categories, err := c.gateway.ListCategories(ctx)
	if err != nil {
		log.Printf("[VIEW] Error loading categories: %v", err)
		return
	}
	if categories == nil {
		categories = []string{}
	}

	c.mu.Lock()
	c.state.Categories = categories
	c.mu.Unlock()
}

// SetFilters replaces all filters and reloads. A status outside the enumeration
// is rejected with entities.ErrInvalidStatus and leaves the filters untouched.
func (c *Controller) SetFilters(ctx context.Context, filters entities.SearchFilters) error {
	if err := filters.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	c.state.Filters = filters
	c.mu.Unlock()

	c.Reload(ctx)
	return nil
}

// SetFilter changes one filter field and reloads. An empty value removes that filter.
func (c *Controller) SetFilter(ctx context.Context, field, value string) error {
	c.mu.Lock()
	filters, err := c.state.Filters.With(field, value)
	if err == nil {
		err = filters.Validate()
	}
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.state.Filters = filters
	c.mu.Unlock()

	c.Reload(ctx)
	return nil
}

// ClearFilters resets every filter to the unset sentinel and reloads.
func (c *Controller) ClearFilters(ctx context.Context) {
	c.mu.Lock()
	c.state.Filters = entities.SearchFilters{}
	c.mu.Unlock()

	c.Reload(ctx)
}

// SetSort switches the active sort option and reloads. Unknown options are rejected.
func (c *Controller) SetSort(ctx context.Context, sortBy entities.SortOption) error {
	if !sortBy.Valid() {
		return fmt.Errorf("%w: %q", entities.ErrInvalidSortOption, sortBy)
	}

	c.mu.Lock()
	c.state.SortBy = sortBy
	c.mu.Unlock()

	c.Reload(ctx)
	return nil
}

// OpenForm opens the form for a new book (nil) or for editing an existing one.
func (c *Controller) OpenForm(book *entities.Book) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if book != nil {
		b := *book
		c.state.EditingBook = &b
	} else {
		c.state.EditingBook = nil
	}
	c.state.FormOpen = true
}

func (c *Controller) CloseForm() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.FormOpen = false
	c.state.EditingBook = nil
}

// DismissError clears the banner.
func (c *Controller) DismissError() {
	c.mu.Lock()
	c.state.Error = ""
	c.mu.Unlock()
}

// FindBook looks a book up in the currently displayed list.
func (c *Controller) FindBook(id int64) (*entities.Book, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, b := range c.state.Books {
		if b.ID == id {
			book := b
			return &book, true
		}
	}
	return nil, false
}

// Save creates a book, or updates the one being edited. Invalid forms are
// rejected with entities.ValidationErrors before any backend call. On failure the
// form stays open so the user can retry.
func (c *Controller) Save(ctx context.Context, form entities.BookFormData) error {
	if errs := form.Validate(); errs != nil {
		return errs
	}

	c.mu.Lock()
	editing := c.state.EditingBook
	c.mu.Unlock()

	var err error
	if editing != nil {
		_, err = c.gateway.Update(ctx, editing.ID, form)
	} else {
		_, err = c.gateway.Create(ctx, form)
	}
	if err != nil {
		log.Printf("[VIEW] Error saving book: %v", err)
		c.setError(MsgSaveFailed)
		return err
	}

	c.CloseForm()
	c.afterMutation(ctx)
	return nil
}

// Delete removes a book. The caller must already have the user's confirmation.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if err := c.gateway.Delete(ctx, id); err != nil {
		log.Printf("[VIEW] Error deleting book %d: %v", id, err)
		c.setError(MsgDeleteFailed)
		return err
	}

	c.afterMutation(ctx)
	return nil
}

// ChangeStatus sends a full update that differs from the listed book only in
// its status. A book missing from the local list is skipped without a backend call.
func (c *Controller) ChangeStatus(ctx context.Context, id int64, status entities.ReadingStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", entities.ErrInvalidStatus, status)
	}

	book, ok := c.FindBook(id)
	if !ok {
		log.Printf("[VIEW] Status change skipped: book %d is not in the current list", id)
		return nil
	}

	form := entities.FormFromBook(*book)
	form.Status = status

	if _, err := c.gateway.Update(ctx, id, form); err != nil {
		log.Printf("[VIEW] Error updating status of book %d: %v", id, err)
		c.setError(MsgStatusUpdateFailed)
		return err
	}

	c.afterMutation(ctx)
	return nil
}

func (c *Controller) afterMutation(ctx context.Context) {
	c.Reload(ctx)
	c.RefreshCategories(ctx)
}

func (c *Controller) setError(msg string) {
	c.mu.Lock()
	c.state.Error = msg
	c.mu.Unlock()
}
