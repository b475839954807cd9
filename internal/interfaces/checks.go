package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookshelf/internal/bookapi"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/viewstate"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// BookStore implementations
var _ http.BookStore = (*books.Repository)(nil)

// Health checks
var _ http.Pinger = (*database.Database)(nil)

var _ http.BackendPinger = (*bookapi.Client)(nil)

// =============================================================================
// Remote Data Gateway
// =============================================================================

var _ viewstate.Gateway = (*bookapi.Client)(nil)

// =============================================================================
// Presentation
// =============================================================================

var _ http.ViewController = (*viewstate.Controller)(nil)

// Periodic refresh
var _ scheduler.Refresher = (*viewstate.Controller)(nil)
