package config

const (
	// DefaultDatabasePath is the default path for the backend's SQLite database
	DefaultDatabasePath = "./bookshelf.db"

	// DefaultAPIBaseURL is where the UI expects the REST backend
	DefaultAPIBaseURL = "http://localhost:8080/api"
)
