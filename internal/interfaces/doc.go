// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - BookStore: persistence behind the REST backend (internal/http/stores.go)
//   - Pinger: database liveness for /health (internal/http/health.go)
//
// ## Remote Data Gateway
//
//   - Gateway: the subset of the REST client the view controller calls
//     (internal/viewstate/controller.go), implemented by bookapi.Client
//
// ## Presentation
//
//   - ViewController: the state owner the UI pages render from
//     (internal/http/stores.go), implemented by viewstate.Controller
//
// # Adding a New Sort Order
//
//  1. Add the SortOption constant and its label in internal/entities/sort.go
//  2. Add the ORDER BY clause to sortOrders in internal/database/books/repository.go
//
// Both the UI sort panel and the list command pick the new option up from
// entities.SortOptions().
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
