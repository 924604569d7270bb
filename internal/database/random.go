package database

import "github.com/google/uuid"

// randomSuffix makes each in-memory database name unique so tests do not
// share state through sqlite's shared cache.
func randomSuffix() string {
	return uuid.NewString()
}
