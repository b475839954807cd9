package http

import (
	"context"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/viewstate"
)

// BookStore is everything the REST backend needs from persistence.
type BookStore interface {
	List() ([]entities.Book, error)
	GetByID(id int64) (*entities.Book, error)
	Create(form entities.BookFormData) (*entities.Book, error)
	Update(id int64, form entities.BookFormData) (*entities.Book, error)
	Delete(id int64) error
	Search(filters entities.SearchFilters) ([]entities.Book, error)
	Sorted(sortBy entities.SortOption) ([]entities.Book, error)
	Categories() ([]string, error)
	Count() (int64, error)
}

// ViewController is the state owner behind the UI pages.
type ViewController interface {
	Snapshot() viewstate.State
	Init(ctx context.Context)
	Reload(ctx context.Context)
	SetFilters(ctx context.Context, filters entities.SearchFilters) error
	SetFilter(ctx context.Context, field, value string) error
	ClearFilters(ctx context.Context)
	SetSort(ctx context.Context, sortBy entities.SortOption) error
	OpenForm(book *entities.Book)
	CloseForm()
	DismissError()
	FindBook(id int64) (*entities.Book, bool)
	Save(ctx context.Context, form entities.BookFormData) error
	Delete(ctx context.Context, id int64) error
	ChangeStatus(ctx context.Context, id int64, status entities.ReadingStatus) error
}
