package http

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/middleware"
)

// UIController renders the bookshelf screen from the view controller's state.
// Every action changes state through the controller and redirects back to the list.
type UIController struct {
	view ViewController
}

func NewUIController(view ViewController) *UIController {
	return &UIController{
		view: view,
	}
}

// FormView is what the book form renders: current values plus inline errors.
type FormView struct {
	Data   entities.BookFormData
	Errors entities.ValidationErrors
	// NewCategory holds a category that is not among the known ones yet.
	NewCategory string
}

type filterChip struct {
	Field string
	Label string
	Value string
}

func (controller *UIController) Index(c *gin.Context) {
	controller.render(c, http.StatusOK, nil)
}

// Refresh reloads books and categories from the backend.
func (controller *UIController) Refresh(c *gin.Context) {
	controller.view.Init(c.Request.Context())
	redirectHome(c)
}

func (controller *UIController) ApplyFilters(c *gin.Context) {
	err := controller.view.SetFilters(c.Request.Context(), entities.SearchFilters{
		Title:    strings.TrimSpace(c.PostForm("title")),
		Author:   strings.TrimSpace(c.PostForm("author")),
		Category: c.PostForm("category"),
		Status:   c.PostForm("status"),
	})
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid status filter")
		return
	}
	redirectHome(c)
}

// RemoveFilter drops the single filter behind one chip.
func (controller *UIController) RemoveFilter(c *gin.Context) {
	if err := controller.view.SetFilter(c.Request.Context(), c.PostForm("field"), ""); err != nil {
		c.String(http.StatusBadRequest, "Unknown filter")
		return
	}
	redirectHome(c)
}

func (controller *UIController) ClearFilters(c *gin.Context) {
	controller.view.ClearFilters(c.Request.Context())
	redirectHome(c)
}

func (controller *UIController) ChangeSort(c *gin.Context) {
	sortBy, err := entities.ParseSortOption(c.PostForm("sortBy"))
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid sort option")
		return
	}
	if err := controller.view.SetSort(c.Request.Context(), sortBy); err != nil {
		c.String(http.StatusBadRequest, "Invalid sort option")
		return
	}
	redirectHome(c)
}

func (controller *UIController) NewBook(c *gin.Context) {
	controller.view.OpenForm(nil)
	controller.render(c, http.StatusOK, nil)
}

func (controller *UIController) EditBook(c *gin.Context) {
	book, ok := controller.findBook(c)
	if !ok {
		return
	}
	controller.view.OpenForm(book)
	controller.render(c, http.StatusOK, nil)
}

func (controller *UIController) CloseForm(c *gin.Context) {
	controller.view.CloseForm()
	redirectHome(c)
}

// SaveBook submits the form. Validation problems re-render the form with inline
// messages and never reach the backend; a backend failure keeps the form open
// with the submitted values and shows the banner.
func (controller *UIController) SaveBook(c *gin.Context) {
	form := entities.BookFormData{
		Title:    strings.TrimSpace(c.PostForm("title")),
		Author:   strings.TrimSpace(c.PostForm("author")),
		Category: resolveCategory(c.PostForm("category"), c.PostForm("category_new")),
		Status:   entities.ReadingStatus(c.PostForm("status")),
		Memo:     strings.TrimSpace(c.PostForm("memo")),
	}

	err := controller.view.Save(c.Request.Context(), form)
	if err == nil {
		redirectHome(c)
		return
	}

	var validationErrs entities.ValidationErrors
	if errors.As(err, &validationErrs) {
		controller.render(c, http.StatusUnprocessableEntity, &FormView{Data: form, Errors: validationErrs})
		return
	}
	controller.render(c, http.StatusOK, &FormView{Data: form})
}

// ConfirmDelete asks before anything is removed.
func (controller *UIController) ConfirmDelete(c *gin.Context) {
	book, ok := controller.findBook(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "confirm_delete", gin.H{
		"Book":      book,
		"CSRFField": middleware.CSRFField(c),
	})
}

// DeleteBook only deletes when the confirmation form was submitted with confirm=yes.
func (controller *UIController) DeleteBook(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		c.String(http.StatusBadRequest, "Invalid book ID")
		return
	}
	if c.PostForm("confirm") != "yes" {
		redirectHome(c)
		return
	}

	if err := controller.view.Delete(c.Request.Context(), id); err != nil {
		log.Printf("[VIEW] Delete of book %d failed", id)
	}
	redirectHome(c)
}

func (controller *UIController) ChangeStatus(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		c.String(http.StatusBadRequest, "Invalid book ID")
		return
	}
	status, err := entities.ParseReadingStatus(c.PostForm("status"))
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid status")
		return
	}

	if err := controller.view.ChangeStatus(c.Request.Context(), id, status); err != nil {
		log.Printf("[VIEW] Status change of book %d failed", id)
	}
	redirectHome(c)
}

func (controller *UIController) DismissError(c *gin.Context) {
	controller.view.DismissError()
	redirectHome(c)
}

func (controller *UIController) findBook(c *gin.Context) (*entities.Book, bool) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		c.String(http.StatusBadRequest, "Invalid book ID")
		return nil, false
	}
	book, found := controller.view.FindBook(id)
	if !found {
		c.String(http.StatusNotFound, "Book not found")
		return nil, false
	}
	return book, true
}

// render draws the whole screen. A nil form means "derive it from the state".
func (controller *UIController) render(c *gin.Context, status int, form *FormView) {
	state := controller.view.Snapshot()

	if state.FormOpen && form == nil {
		form = &FormView{Data: entities.NewBookForm()}
		if state.EditingBook != nil {
			form.Data = entities.FormFromBook(*state.EditingBook)
		}
	}
	if form != nil && !containsString(state.Categories, form.Data.Category) {
		form.NewCategory = form.Data.Category
	}

	c.HTML(status, "index", gin.H{
		"State":       state,
		"Form":        form,
		"Chips":       filterChips(state.Filters),
		"Statuses":    entities.ReadingStatuses,
		"SortOptions": entities.SortOptions(),
		"CSRFField":   middleware.CSRFField(c),
	})
}

// resolveCategory lets a freshly typed category win over the select.
func resolveCategory(selected, typed string) string {
	if t := strings.TrimSpace(typed); t != "" {
		return t
	}
	return strings.TrimSpace(selected)
}

func filterChips(f entities.SearchFilters) []filterChip {
	var chips []filterChip
	if f.Title != "" {
		chips = append(chips, filterChip{Field: "title", Label: "Title", Value: f.Title})
	}
	if f.Author != "" {
		chips = append(chips, filterChip{Field: "author", Label: "Author", Value: f.Author})
	}
	if f.Category != "" {
		chips = append(chips, filterChip{Field: "category", Label: "Category", Value: f.Category})
	}
	if f.Status != "" {
		chips = append(chips, filterChip{Field: "status", Label: "Status", Value: entities.ReadingStatus(f.Status).Label()})
	}
	return chips
}

func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// formatTimestamp renders backend timestamps for display; unparsable values are shown as is.
func formatTimestamp(s string) string {
	if s == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Local().Format("2006-01-02 15:04")
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatTimestamp": formatTimestamp,
		"directionMarker": func(direction string) string {
			switch direction {
			case "desc":
				return "↓"
			case "asc":
				return "↑"
			}
			return ""
		},
	}
}
