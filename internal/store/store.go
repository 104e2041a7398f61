// Package store implements client.Store on top of bun, for SQLite and Postgres.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/goliatone/go-client-store/client"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Driver names accepted by Open. They match the database/sql driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Interface assertion
var _ client.Store = (*BunStore)(nil)

// Open connects to dsn and returns a bun.DB with the dialect for driver.
func Open(driver, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	switch driver {
	case DriverSQLite:
		// SQLite serializes writers; a single connection avoids SQLITE_BUSY
		// and keeps in-memory databases alive.
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	case DriverPostgres:
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		_ = sqldb.Close()
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}
}

// Migrate creates the clients table and the case-insensitive unique email index.
func Migrate(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewCreateTable().
		Model((*clientRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("store: create clients table: %w", err)
	}

	if _, err := db.NewCreateIndex().
		Model((*clientRow)(nil)).
		Index("clients_email_lower_uq").
		Unique().
		IfNotExists().
		ColumnExpr("lower(email)").
		Exec(ctx); err != nil {
		return fmt.Errorf("store: create email index: %w", err)
	}

	if _, err := db.NewCreateIndex().
		Model((*clientRow)(nil)).
		Index("clients_created_at_idx").
		IfNotExists().
		Column("created_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("store: create created_at index: %w", err)
	}
	return nil
}

// BunStore is the SQL backed client.Store.
type BunStore struct {
	db bun.IDB
}

// New returns a store over db. db may be a *bun.DB or a bun.Tx.
func New(db bun.IDB) *BunStore {
	return &BunStore{db: db}
}

// Insert writes record as is.
func (s *BunStore) Insert(ctx context.Context, record client.Client) (client.Client, error) {
	row := toRow(record)
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return client.Client{}, mapError(err)
	}
	return row.toClient(), nil
}

// Update is a compare-and-swap on the version column. id, created_at and the
// version value itself are never taken from record.
func (s *BunStore) Update(ctx context.Context, record client.Client) (client.Client, error) {
	row := toRow(record)

	res, err := s.db.NewUpdate().
		Model((*clientRow)(nil)).
		Set("name = ?", row.Name).
		Set("email = ?", row.Email).
		Set("phone = ?", row.Phone).
		Set("active = ?", row.Active).
		Set("deleted_at = ?", row.DeletedAt).
		Set("updated_at = ?", row.UpdatedAt).
		Set("version = version + 1").
		Where("id = ?", row.ID).
		Where("version = ?", row.Version).
		Exec(ctx)
	if err != nil {
		return client.Client{}, mapError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return client.Client{}, err
	}
	if n == 0 {
		exists, err := s.db.NewSelect().
			Model((*clientRow)(nil)).
			Where("id = ?", row.ID).
			Exists(ctx)
		if err != nil {
			return client.Client{}, mapError(err)
		}
		if !exists {
			return client.Client{}, client.ErrNoRecord
		}
		return client.Client{}, client.ErrStaleVersion
	}

	out := row.toClient()
	out.Version = record.Version + 1
	return out, nil
}

// FindByID loads the row for id, deleted or not.
func (s *BunStore) FindByID(ctx context.Context, id uuid.UUID) (client.Client, error) {
	var row clientRow
	err := s.db.NewSelect().
		Model(&row).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return client.Client{}, mapError(err)
	}
	return row.toClient(), nil
}

// FindFiltered returns one ordered page of rows matching query.Filter.
func (s *BunStore) FindFiltered(ctx context.Context, query client.ListQuery) ([]client.Client, error) {
	var rows []clientRow
	q := s.db.NewSelect().Model(&rows)
	q = applyCriteria(q, filterCriteria(query.Filter)...)
	q = applyCriteria(q, pageCriteria(query)...)
	if err := q.Scan(ctx); err != nil {
		return nil, mapError(err)
	}

	out := make([]client.Client, len(rows))
	for i, row := range rows {
		out[i] = row.toClient()
	}
	return out, nil
}

// CountFiltered counts every row matching filter, ignoring paging.
func (s *BunStore) CountFiltered(ctx context.Context, filter client.Filter) (int, error) {
	q := s.db.NewSelect().Model((*clientRow)(nil))
	q = applyCriteria(q, filterCriteria(filter)...)
	n, err := q.Count(ctx)
	if err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

// ExistsByEmail reports whether any row, deleted or not, uses email.
func (s *BunStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.emailExists(ctx, email, uuid.Nil)
}

// ExistsByEmailExcluding is ExistsByEmail ignoring the row with id.
func (s *BunStore) ExistsByEmailExcluding(ctx context.Context, email string, id uuid.UUID) (bool, error) {
	return s.emailExists(ctx, email, id)
}

func (s *BunStore) emailExists(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	q := s.db.NewSelect().
		Model((*clientRow)(nil)).
		Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email)))
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	exists, err := q.Exists(ctx)
	if err != nil {
		return false, mapError(err)
	}
	return exists, nil
}
