package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for limits.
type Config struct {
    Env                string // application environment (e.g. "dev", "prod")
    Port               string // HTTP port to listen on
    DBUser             string // database username
    DBPass             string // database password (optional)
    DBHost             string // database host address
    DBPort             string // database port number
    DBName             string // database name
    JWTSecret          string // secret used to verify identity-provider JWTs
    TMDBAPIKey         string // bearer token for the TMDB API
    TMDBBaseURL        string // TMDB API base URL (overridable for tests)
    IdentityAPIURL     string // base URL of the identity provider's backend API
    IdentityAPIKey     string // secret key for the identity provider's backend API
    WebhookSecret      string // shared secret for verifying identity webhooks
    MaxSeatsPerBooking int    // upper bound on seats reserved in one booking
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Optional values
// fall back to sensible defaults.
func Load() Config {
    return Config{
        Env:                must("APP_ENV"),      // environment (dev/test/prod)
        Port:               must("APP_PORT"),     // port to bind the HTTP server
        DBUser:             must("DB_USER"),      // database user
        DBPass:             os.Getenv("DB_PASS"), // database password (empty allowed)
        DBHost:             must("DB_HOST"),      // database host
        DBPort:             must("DB_PORT"),      // database port
        DBName:             must("DB_NAME"),      // database name
        JWTSecret:          must("JWT_SECRET"),   // secret used for verifying JWTs
        TMDBAPIKey:         must("TMDB_API_KEY"), // TMDB bearer token
        TMDBBaseURL:        orDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
        IdentityAPIURL:     os.Getenv("IDENTITY_API_URL"), // empty disables favorites lookups
        IdentityAPIKey:     os.Getenv("IDENTITY_API_KEY"),
        WebhookSecret:      os.Getenv("IDENTITY_WEBHOOK_SECRET"),
        MaxSeatsPerBooking: intOrDefault("MAX_SEATS_PER_BOOKING", 5),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// orDefault returns the value of an optional environment variable, or the
// provided default when it is unset or empty.
func orDefault(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

// intOrDefault is like orDefault but converts the retrieved string into an
// integer.  Invalid values cause a fatal log message so misconfiguration is
// caught at startup rather than at request time.
func intOrDefault(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, v)
    }
    return n
}
