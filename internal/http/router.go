package http

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

// NewAPIRouter creates the REST backend router mounted under /api.
func NewAPIRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(middleware.AccessLog(nil))
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigin))

	health := NewAPIHealthController(cfg.Database, cfg.BookStore, cfg.Version)
	booksController := NewBooksController(cfg.BookStore)

	router.GET("/health", health.Status)

	api := router.Group("/api")
	api.GET("/health", health.Status)
	api.GET("/books", booksController.ListBooks)
	api.POST("/books", booksController.CreateBook)
	api.GET("/books/search", booksController.SearchBooks)
	api.GET("/books/sorted", booksController.SortedBooks)
	api.GET("/books/categories", booksController.Categories)
	api.GET("/books/:id", booksController.GetBook)
	api.PUT("/books/:id", booksController.UpdateBook)
	api.DELETE("/books/:id", booksController.DeleteBook)

	return router
}

// NewUIRouter creates the server-rendered bookshelf UI.
func NewUIRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(middleware.SecurityHeaders())

	if len(cfg.CSRFSecret) > 0 {
		router.Use(middleware.CSRF(cfg.CSRFSecret, cfg.SecureCookies))
	}

	tmpl := template.Must(template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, "templates/*.html"))
	router.SetHTMLTemplate(tmpl)

	ui := NewUIController(cfg.View)
	health := NewUIHealthController(cfg.Backend, cfg.Version)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	router.GET("/health", health.Status)

	router.GET("/", ui.Index)
	router.POST("/ui/refresh", ui.Refresh)
	router.POST("/ui/filters", ui.ApplyFilters)
	router.POST("/ui/filters/clear", ui.ClearFilters)
	router.POST("/ui/filters/remove", ui.RemoveFilter)
	router.POST("/ui/sort", ui.ChangeSort)
	router.GET("/ui/books/new", ui.NewBook)
	router.GET("/ui/books/:id/edit", ui.EditBook)
	router.POST("/ui/form/close", ui.CloseForm)
	router.POST("/ui/books/save", ui.SaveBook)
	router.GET("/ui/books/:id/delete", ui.ConfirmDelete)
	router.POST("/ui/books/:id/delete", ui.DeleteBook)
	router.POST("/ui/books/:id/status", ui.ChangeStatus)
	router.POST("/ui/error/dismiss", ui.DismissError)

	return router
}
