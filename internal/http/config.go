package http

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP routers.
type RouterConfig struct {
	// REST backend
	BookStore BookStore
	Database  Pinger

	// CORS (REST backend only)
	CORSAllowedOrigin string

	// UI
	View    ViewController
	Backend BackendPinger

	// CSRF protection for UI forms; disabled when empty
	CSRFSecret    []byte
	SecureCookies bool

	// Application info
	Version string
}
