package entities

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

type ReadingStatus string

const (
	StatusUnread    ReadingStatus = "UNREAD"
	StatusReading   ReadingStatus = "READING"
	StatusCompleted ReadingStatus = "COMPLETED"
)

// ReadingStatuses lists every status in display order.
var ReadingStatuses = []ReadingStatus{StatusUnread, StatusReading, StatusCompleted}

var statusLabels = map[ReadingStatus]string{
	StatusUnread:    "Unread",
	StatusReading:   "Reading",
	StatusCompleted: "Completed",
}

var ErrInvalidStatus = errors.New("invalid reading status")

// ParseReadingStatus accepts only the three enumeration values.
func ParseReadingStatus(s string) (ReadingStatus, error) {
	status := ReadingStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

func (s ReadingStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human-readable name of the status.
func (s ReadingStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Book is the client's read replica of a server-owned book.
// ID, RegisteredAt and CompletedAt are assigned by the backend; timestamps are
// kept as the strings the backend sent and are only ever formatted for display.
type Book struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	Author       string        `json:"author"`
	Category     string        `json:"category"`
	Status       ReadingStatus `json:"status"`
	Memo         string        `json:"memo,omitempty"`
	RegisteredAt string        `json:"registeredAt"`
	CompletedAt  string        `json:"completedAt,omitempty"`
}

// BookFormData is the mutable subset of a Book sent on create and update.
type BookFormData struct {
	Title    string        `json:"title"`
	Author   string        `json:"author"`
	Category string        `json:"category"`
	Status   ReadingStatus `json:"status"`
	Memo     string        `json:"memo"`
}

// NewBookForm returns an empty form with the default status.
func NewBookForm() BookFormData {
	return BookFormData{Status: StatusUnread}
}

// FormFromBook copies every mutable field so an update can be sent as a full replace.
func FormFromBook(b Book) BookFormData {
	return BookFormData{
		Title:    b.Title,
		Author:   b.Author,
		Category: b.Category,
		Status:   b.Status,
		Memo:     b.Memo,
	}
}

// ValidationErrors maps a form field name to its message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for _, name := range []string{"title", "author", "category", "status"} {
		if msg, ok := v[name]; ok {
			fields = append(fields, name+": "+msg)
		}
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// Validate checks required fields locally. It never talks to the backend.
func (f BookFormData) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if strings.TrimSpace(f.Title) == "" {
		errs["title"] = "Title is required"
	}
	if strings.TrimSpace(f.Author) == "" {
		errs["author"] = "Author is required"
	}
	if strings.TrimSpace(f.Category) == "" {
		errs["category"] = "Category is required"
	}
	if !f.Status.Valid() {
		errs["status"] = "Choose a reading status"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// SearchFilters narrows the book list. An empty string means "no constraint".
type SearchFilters struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

// IsEmpty reports whether no filter field is set.
func (f SearchFilters) IsEmpty() bool {
	return f.Title == "" && f.Author == "" && f.Category == "" && f.Status == ""
}

// QueryValues encodes only the non-empty fields.
func (f SearchFilters) QueryValues() url.Values {
	q := url.Values{}
	if f.Title != "" {
		q.Set("title", f.Title)
	}
	if f.Author != "" {
		q.Set("author", f.Author)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	return q
}

// Validate rejects a status filter outside the three reading statuses.
func (f SearchFilters) Validate() error {
	if f.Status == "" {
		return nil
	}
	_, err := ParseReadingStatus(f.Status)
	return err
}

// With returns a copy of the filters with one field replaced.
func (f SearchFilters) With(field, value string) (SearchFilters, error) {
	switch field {
	case "title":
		f.Title = value
	case "author":
		f.Author = value
	case "category":
		f.Category = value
	case "status":
		f.Status = value
	default:
		return f, fmt.Errorf("unknown filter field %q", field)
	}
	return f, nil
}
