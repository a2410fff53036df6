package models

import "github.com/google/uuid"

// ensureID assigns a fresh UUID before insert so rows get identifiers on every dialect.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
