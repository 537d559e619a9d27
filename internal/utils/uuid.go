package utils

import "github.com/google/uuid"

// IsUUID validates path/query identifiers before they reach the database.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
