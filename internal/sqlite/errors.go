package sqlite

import "strings"

// isUniqueViolation reports whether err came from a UNIQUE or PRIMARY KEY
// constraint, which is how a duplicate session id surfaces.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed")
}
