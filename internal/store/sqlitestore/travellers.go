package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gyaneshwarpardhi/tripplanner/internal/graph"
	"github.com/gyaneshwarpardhi/tripplanner/internal/traveller"
)

// Seed never touches this table, so saved travellers survive a reseed.
const usersSchema = `
CREATE TABLE IF NOT EXISTS users(
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL,
    start_city TEXT NOT NULL,
    budget INTEGER NOT NULL,
    days INTEGER NOT NULL,
    preference TEXT NOT NULL,
    result TEXT NOT NULL DEFAULT ''
);
`

const userColumns = "id, username, start_city, budget, days, preference, result"

// TravellerStore implements traveller.Store on the users table of a Store's
// database. It shares the connection pool and is closed with the Store.
type TravellerStore struct {
	db *sql.DB
}

var _ traveller.Store = (*TravellerStore)(nil)

// Travellers creates the users table if needed and returns a store over it.
func (s *Store) Travellers(ctx context.Context) (*TravellerStore, error) {
	if _, err := s.db.ExecContext(ctx, usersSchema); err != nil {
		return nil, fmt.Errorf("create users table: %w", err)
	}
	return &TravellerStore{db: s.db}, nil
}

func (s *TravellerStore) Add(ctx context.Context, t traveller.Traveller) (traveller.Traveller, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users(username, start_city, budget, days, preference, result) VALUES (?,?,?,?,?,?)",
		t.Username, t.StartCity, t.Budget, t.Days, string(t.Preference), t.Result)
	if err != nil {
		return traveller.Traveller{}, fmt.Errorf("add traveller %s: %w", t.Username, err)
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return traveller.Traveller{}, fmt.Errorf("add traveller %s: %w", t.Username, err)
	}
	return t, nil
}

func (s *TravellerStore) Get(ctx context.Context, id int64) (traveller.Traveller, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	t, err := scanTraveller(row)
	if errors.Is(err, sql.ErrNoRows) {
		return traveller.Traveller{}, fmt.Errorf("%w: id %d", traveller.ErrNotFound, id)
	}
	if err != nil {
		return traveller.Traveller{}, fmt.Errorf("traveller %d: %w", id, err)
	}
	return t, nil
}

func (s *TravellerStore) List(ctx context.Context) ([]traveller.Traveller, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list travellers: %w", err)
	}
	defer rows.Close()

	out := []traveller.Traveller{}
	for rows.Next() {
		t, err := scanTraveller(rows)
		if err != nil {
			return nil, fmt.Errorf("list travellers: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *TravellerStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete traveller %d: %w", id, err)
	}
	return expectOne(res, id)
}

func (s *TravellerStore) SaveResult(ctx context.Context, id int64, result string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE users SET result = ? WHERE id = ?", result, id)
	if err != nil {
		return fmt.Errorf("save result for traveller %d: %w", id, err)
	}
	return expectOne(res, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTraveller(sc scanner) (traveller.Traveller, error) {
	var (
		t    traveller.Traveller
		pref string
	)
	if err := sc.Scan(&t.ID, &t.Username, &t.StartCity, &t.Budget, &t.Days, &pref, &t.Result); err != nil {
		return traveller.Traveller{}, err
	}
	t.Preference = graph.Category(pref)
	return t, nil
}

func expectOne(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", traveller.ErrNotFound, id)
	}
	return nil
}
