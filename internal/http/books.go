package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// BooksController serves the REST backend under /api/books.
type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{
		store: store,
	}
}

func (controller *BooksController) ListBooks(c *gin.Context) {
	list, err := controller.store.List()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.store.GetByID(id)
	if err != nil {
		controller.respondStoreError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

func (controller *BooksController) CreateBook(c *gin.Context) {
	form, ok := bindBookForm(c)
	if !ok {
		return
	}

	book, err := controller.store.Create(form)
	if err != nil {
		respondInternalError(c, err, "create book")
		return
	}
	respondCreated(c, book)
}

func (controller *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	form, ok := bindBookForm(c)
	if !ok {
		return
	}

	book, err := controller.store.Update(id, form)
	if err != nil {
		controller.respondStoreError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, book)
}

func (controller *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.store.Delete(id); err != nil {
		controller.respondStoreError(c, err, "delete book")
		return
	}
	c.Status(http.StatusNoContent)
}

// SearchBooks treats every absent or empty parameter as unconstrained.
func (controller *BooksController) SearchBooks(c *gin.Context) {
	filters := entities.SearchFilters{
		Title:    c.Query("title"),
		Author:   c.Query("author"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
	}
	if filters.Status != "" {
		if _, err := entities.ParseReadingStatus(filters.Status); err != nil {
			respondBadRequest(c, "invalid status")
			return
		}
	}

	list, err := controller.store.Search(filters)
	if err != nil {
		respondInternalError(c, err, "search books")
		return
	}
	c.JSON(http.StatusOK, list)
}

// SortedBooks falls back to the default order when sortBy is absent.
func (controller *BooksController) SortedBooks(c *gin.Context) {
	sortBy, err := entities.ParseSortOption(c.DefaultQuery("sortBy", string(entities.DefaultSortOption)))
	if err != nil {
		respondBadRequest(c, "invalid sortBy")
		return
	}

	list, err := controller.store.Sorted(sortBy)
	if err != nil {
		respondInternalError(c, err, "sort books")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (controller *BooksController) Categories(c *gin.Context) {
	categories, err := controller.store.Categories()
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (controller *BooksController) respondStoreError(c *gin.Context, err error, context string) {
	if errors.Is(err, books.ErrBookNotFound) {
		respondNotFound(c, "book")
		return
	}
	respondInternalError(c, err, context)
}

func bindBookForm(c *gin.Context) (entities.BookFormData, bool) {
	var form entities.BookFormData
	if err := c.ShouldBindJSON(&form); err != nil {
		respondBadRequest(c, "invalid request body")
		return form, false
	}
	if errs := form.Validate(); errs != nil {
		respondValidationError(c, errs)
		return form, false
	}
	return form, true
}
