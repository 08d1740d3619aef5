// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, CORS, request limits); AppConfig is everything specific
// to ReelHub itself.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: reelhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Movie metadata service (OMDb)
	OMDbAPIKey  string // API key for the OMDb service
	OMDbBaseURL string // OMDb endpoint; override for testing

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// BaseURL is where this API is reachable (used for OAuth callbacks).
	BaseURL string // e.g., "https://api.reelhub.app"

	// FrontendURL is where the browser lands after redirect flows.
	FrontendURL string // e.g., "https://reelhub.app"
}
