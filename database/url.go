package database

import (
	"strings"
)

// ConstructDatabaseURL joins the server URL from DATABASE_URL with an
// optional DATABASE_NAME and defaults sslmode to disable, which is what the
// local compose and CI Postgres instances run with. A URL that already
// names a database or picks an sslmode passes through untouched.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	url := baseURL

	if databaseName != "" {
		trimmed := strings.TrimRight(baseURL, "/")
		if i := strings.Index(trimmed, "?"); i >= 0 {
			url = trimmed[:i] + "/" + databaseName + "?" + trimmed[i+1:]
		} else {
			url = trimmed + "/" + databaseName
		}
	}

	if !strings.Contains(url, "sslmode=") {
		if strings.Contains(url, "?") {
			url += "&sslmode=disable"
		} else {
			url += "?sslmode=disable"
		}
	}

	return url
}
