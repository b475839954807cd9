// Package database owns the SQLite connection used by the REST backend.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and migrations
//	└── books/           # Book CRUD, search, sorting and categories
//
// # Usage
//
//	db, err := database.NewDatabase("./bookshelf.db")
//	repo := books.NewRepository(db.DB)
//	found, err := repo.Search(entities.SearchFilters{Title: "dune"})
//
// Domain repositories live in sub-packages, each holding a *gorm.DB and exposing
// a NewRepository constructor. Compile-time checks for the interfaces they
// satisfy are collected in internal/interfaces.
package database
