package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Driver messages for errors gorm does not translate on every dialect,
// in postgres, mysql, sqlite order.
var (
	duplicateKeyMarkers = []string{
		"duplicate key value violates unique constraint",
		"Error 1062",
		"UNIQUE constraint failed",
	}
	foreignKeyMarkers = []string{
		"violates foreign key constraint",
		"Error 1451",
		"Error 1452",
		"FOREIGN KEY constraint failed",
	}
)

// IsDuplicateKeyErr reports a unique constraint violation.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return containsAny(err.Error(), duplicateKeyMarkers)
}

// IsForeignKeyErr reports a foreign key violation, for example deleting an
// expense type that lines still reference.
func IsForeignKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return containsAny(err.Error(), foreignKeyMarkers)
}

func containsAny(msg string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
