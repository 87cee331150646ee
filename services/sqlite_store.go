package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rsvp_server/models"

	"github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS parties (
	party_id     TEXT PRIMARY KEY,
	company_name TEXT NOT NULL,
	event_title  TEXT NOT NULL,
	date         TEXT NOT NULL,
	location     TEXT NOT NULL,
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS responses (
	party_id         TEXT NOT NULL REFERENCES parties(party_id),
	response_id      TEXT NOT NULL,
	employee_id      TEXT NOT NULL,
	name             TEXT NOT NULL,
	work_email       TEXT NOT NULL DEFAULT '',
	attendance       TEXT NOT NULL,
	drinker          TEXT NOT NULL,
	drink_preference TEXT NOT NULL,
	submitted_at     TEXT NOT NULL,
	PRIMARY KEY (party_id, response_id)
);

CREATE UNIQUE INDEX IF NOT EXISTS responses_party_employee ON responses(party_id, employee_id);
`

// SQLiteStore keeps parties and responses in a local SQLite file. The unique
// index on (party_id, employee_id) rejects a second concurrent insert for the
// same employee, so the upsert race cannot leave duplicates here.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore creates or opens the database at path and applies the schema.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// single writer avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) PutParty(ctx context.Context, party models.Party) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO parties (party_id, company_name, event_title, date, location, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(party_id) DO UPDATE SET
			company_name = excluded.company_name,
			event_title  = excluded.event_title,
			date         = excluded.date,
			location     = excluded.location,
			created_at   = excluded.created_at`,
		party.PartyID, party.CompanyName, party.EventTitle, party.Date, party.Location,
		formatTime(party.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to write party: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetParty(ctx context.Context, partyID string) (*models.Party, error) {
	var (
		party     models.Party
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT party_id, company_name, event_title, date, location, created_at
		FROM parties WHERE party_id = ?`, partyID,
	).Scan(&party.PartyID, &party.CompanyName, &party.EventTitle, &party.Date, &party.Location, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read party: %w", err)
	}

	if party.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &party, nil
}

func (s *SQLiteStore) FindResponsesByEmployeeID(ctx context.Context, partyID, employeeID string) ([]models.Response, error) {
	return s.queryResponses(ctx, `
		SELECT party_id, response_id, employee_id, name, work_email, attendance, drinker, drink_preference, submitted_at
		FROM responses WHERE party_id = ? AND employee_id = ? ORDER BY rowid`, partyID, employeeID)
}

func (s *SQLiteStore) InsertResponse(ctx context.Context, resp models.Response) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO responses (party_id, response_id, employee_id, name, work_email, attendance, drinker, drink_preference, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		resp.PartyID, resp.ResponseID, resp.EmployeeID, resp.Name, resp.WorkEmail,
		resp.Attendance, resp.Drinker, resp.DrinkPreference, formatTime(resp.SubmittedAt),
	)
	if isUniqueViolation(err) {
		return models.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to insert response: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateResponse(ctx context.Context, resp models.Response) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE responses SET
			employee_id = ?, name = ?, work_email = ?, attendance = ?,
			drinker = ?, drink_preference = ?, submitted_at = ?
		WHERE party_id = ? AND response_id = ?`,
		resp.EmployeeID, resp.Name, resp.WorkEmail, resp.Attendance,
		resp.Drinker, resp.DrinkPreference, formatTime(resp.SubmittedAt),
		resp.PartyID, resp.ResponseID,
	)
	if err != nil {
		return fmt.Errorf("failed to update response: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update response: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListResponses(ctx context.Context, partyID string) ([]models.Response, error) {
	return s.queryResponses(ctx, `
		SELECT party_id, response_id, employee_id, name, work_email, attendance, drinker, drink_preference, submitted_at
		FROM responses WHERE party_id = ? ORDER BY rowid`, partyID)
}

func (s *SQLiteStore) queryResponses(ctx context.Context, query string, args ...interface{}) ([]models.Response, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	responses := []models.Response{}
	for rows.Next() {
		var (
			r           models.Response
			submittedAt string
		)
		if err := rows.Scan(&r.PartyID, &r.ResponseID, &r.EmployeeID, &r.Name, &r.WorkEmail,
			&r.Attendance, &r.Drinker, &r.DrinkPreference, &submittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		if r.SubmittedAt, err = parseTime(submittedAt); err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate responses: %w", err)
	}
	return responses, nil
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}
