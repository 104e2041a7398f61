package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/goliatone/go-client-store/client"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const pqUniqueViolation = "23505"

// mapError translates driver errors into the client.Store sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return client.ErrNoRecord
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", client.ErrEmailTaken, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
