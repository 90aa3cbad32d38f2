package db

import "strings"

// SQLiteDSN enables foreign keys so cascades and restricts behave like Postgres.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=1&_busy_timeout=5000"
	}
	return path + "?_foreign_keys=1&_busy_timeout=5000"
}
