// Package books provides database operations for the book collection served by
// the REST backend.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetByID(123)
package books

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// ErrBookNotFound is returned when no row matches the requested id.
var ErrBookNotFound = errors.New("book not found")

// Record is the persisted shape of a book. Timestamps are kept as real times in
// UTC and only turned into strings at the edge.
type Record struct {
	ID           int64     `gorm:"primaryKey"`
	Title        string    `gorm:"not null"`
	Author       string    `gorm:"not null"`
	Category     string    `gorm:"not null;index"`
	Status       string    `gorm:"not null;index"`
	Memo         string
	RegisteredAt time.Time `gorm:"not null"`
	CompletedAt  *time.Time

	// Lowercased copies of title and author. SQLite's LOWER only folds ASCII,
	// so searches compare against these instead.
	TitleFold  string `gorm:"not null;default:''"`
	AuthorFold string `gorm:"not null;default:''"`
}

// BeforeSave keeps the search columns in step with title and author.
func (rec *Record) BeforeSave(tx *gorm.DB) error {
	rec.TitleFold = foldCase(rec.Title)
	rec.AuthorFold = foldCase(rec.Author)
	return nil
}

func (Record) TableName() string {
	return "books"
}

// Repository handles all book database operations.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// List returns every book in insertion order.
func (r *Repository) List() ([]entities.Book, error) {
	var records []Record
	if err := r.db.Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return toEntities(records), nil
}

// GetByID retrieves a single book.
func (r *Repository) GetByID(id int64) (*entities.Book, error) {
	record, err := r.find(id)
	if err != nil {
		return nil, err
	}
	book := record.toEntity()
	return &book, nil
}

// Create stores a new book, stamping the registration time and, for books that
// are already finished, the completion time.
func (r *Repository) Create(form entities.BookFormData) (*entities.Book, error) {
	now := r.timestamp()
	record := Record{
		Title:        form.Title,
		Author:       form.Author,
		Category:     form.Category,
		Status:       string(form.Status),
		Memo:         form.Memo,
		RegisteredAt: now,
	}
	if form.Status == entities.StatusCompleted {
		record.CompletedAt = &now
	}

	if err := r.db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	book := record.toEntity()
	return &book, nil
}

// Update replaces every mutable field. Moving into COMPLETED stamps the completion
// time unless one is already set; any other status clears it.
func (r *Repository) Update(id int64, form entities.BookFormData) (*entities.Book, error) {
	record, err := r.find(id)
	if err != nil {
		return nil, err
	}

	record.Title = form.Title
	record.Author = form.Author
	record.Category = form.Category
	record.Status = string(form.Status)
	record.Memo = form.Memo

	if form.Status == entities.StatusCompleted {
		if record.CompletedAt == nil {
			now := r.timestamp()
			record.CompletedAt = &now
		}
	} else {
		record.CompletedAt = nil
	}

	if err := r.db.Save(record).Error; err != nil {
		return nil, fmt.Errorf("failed to update book %d: %w", id, err)
	}
	book := record.toEntity()
	return &book, nil
}

// Delete removes a book permanently.
func (r *Repository) Delete(id int64) error {
	result := r.db.Delete(&Record{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete book %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// Search matches title and author as case-insensitive substrings and category and
// status exactly. Empty fields do not constrain the result.
func (r *Repository) Search(filters entities.SearchFilters) ([]entities.Book, error) {
	query := r.db.Model(&Record{})
	if filters.Title != "" {
		query = query.Where("title_fold LIKE ? ESCAPE '\\'", containsPattern(filters.Title))
	}
	if filters.Author != "" {
		query = query.Where("author_fold LIKE ? ESCAPE '\\'", containsPattern(filters.Author))
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	var records []Record
	if err := query.Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return toEntities(records), nil
}

// Sorted returns every book in the requested order. Books without a completion
// time sort after finished ones in both completion orders. Ties fall back to id.
func (r *Repository) Sorted(sortBy entities.SortOption) ([]entities.Book, error) {
	order, ok := sortOrders[sortBy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", entities.ErrInvalidSortOption, sortBy)
	}

	var records []Record
	if err := r.db.Order(order).Find(&records).Error; err != nil {
		return nil, err
	}
	return toEntities(records), nil
}

// Count returns how many books are stored.
func (r *Repository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&Record{}).Count(&n).Error
	return n, err
}

// Categories returns the distinct categories across all books, ascending.
func (r *Repository) Categories() ([]string, error) {
	categories := []string{}
	err := r.db.Model(&Record{}).Distinct().Order("category ASC").Pluck("category", &categories).Error
	return categories, err
}

var sortOrders = map[entities.SortOption]string{
	entities.SortRegisteredDesc: "registered_at DESC, id ASC",
	entities.SortRegisteredAsc:  "registered_at ASC, id ASC",
	entities.SortCompletedDesc:  "completed_at IS NULL, completed_at DESC, id ASC",
	entities.SortCompletedAsc:   "completed_at IS NULL, completed_at ASC, id ASC",
	entities.SortTitle:          "title ASC, id ASC",
	entities.SortAuthor:         "author ASC, id ASC",
}

func (r *Repository) find(id int64) (*Record, error) {
	var record Record
	err := r.db.First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// timestamp is truncated to whole seconds so stored values match their RFC 3339 form.
func (r *Repository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Second)
}

func (rec Record) toEntity() entities.Book {
	book := entities.Book{
		ID:           rec.ID,
		Title:        rec.Title,
		Author:       rec.Author,
		Category:     rec.Category,
		Status:       entities.ReadingStatus(rec.Status),
		Memo:         rec.Memo,
		RegisteredAt: rec.RegisteredAt.UTC().Format(time.RFC3339),
	}
	if rec.CompletedAt != nil {
		book.CompletedAt = rec.CompletedAt.UTC().Format(time.RFC3339)
	}
	return book
}

func toEntities(records []Record) []entities.Book {
	books := make([]entities.Book, 0, len(records))
	for _, rec := range records {
		books = append(books, rec.toEntity())
	}
	return books
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func foldCase(s string) string {
	return strings.ToLower(s)
}

// containsPattern folds s the same way the stored search columns are folded.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(foldCase(s)) + "%"
}

// BackfillSearchColumns fills the folded columns of rows written before they existed.
func BackfillSearchColumns(db *gorm.DB) error {
	var records []Record
	err := db.Where("(title_fold = '' AND title <> '') OR (author_fold = '' AND author <> '')").Find(&records).Error
	if err != nil {
		return fmt.Errorf("failed to load books for backfill: %w", err)
	}
	for i := range records {
		if err := db.Save(&records[i]).Error; err != nil {
			return fmt.Errorf("failed to backfill book %d: %w", records[i].ID, err)
		}
	}
	return nil
}
