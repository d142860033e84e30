package sheets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq" // PostgreSQL driver

	"egunkari/internal/config"
)

// PostgresStore emulates a spreadsheet on Postgres for self-hosted deployments:
// one row in sheet_rows per sheet row, cells kept as a TEXT[].
type PostgresStore struct {
	db *sqlx.DB
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS sheet_rows (
	sheet   TEXT    NOT NULL,
	row_num INTEGER NOT NULL,
	cells   TEXT[]  NOT NULL DEFAULT '{}',
	PRIMARY KEY (sheet, row_num)
)`

// Connect opens the database and makes sure the backing table exists.
func Connect(cfg *config.Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Connected to database successfully")
	return db, nil
}

// NewPostgresStore creates the sheet_rows table if needed.
func NewPostgresStore(ctx context.Context, db *sqlx.DB) (*PostgresStore, error) {
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("create sheet_rows: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

type sheetRow struct {
	RowNum int            `db:"row_num"`
	Cells  pq.StringArray `db:"cells"`
}

func (s *PostgresStore) EnsureSheet(ctx context.Context, title string, headers []string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sheet_rows (sheet, row_num, cells)
		VALUES ($1, 1, $2)
		ON CONFLICT (sheet, row_num) DO NOTHING
	`, title, pq.Array(headers))
	if err != nil {
		return fmt.Errorf("ensure sheet %s: %w", title, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, rng string) ([][]string, error) {
	r, err := ParseRange(rng)
	if err != nil {
		return nil, err
	}
	if err := s.checkSheet(ctx, s.db, r.Sheet); err != nil {
		return nil, err
	}

	query := `SELECT row_num, cells FROM sheet_rows WHERE sheet = $1 AND row_num >= $2`
	args := []interface{}{r.Sheet, r.StartRow}
	if r.EndRow != 0 {
		query += ` AND row_num <= $3`
		args = append(args, r.EndRow)
	}
	query += ` ORDER BY row_num`

	var rows []sheetRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get %s: %w", rng, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// Rebuild a dense block so result index i is sheet row StartRow+i.
	data := make([][]string, rows[len(rows)-1].RowNum)
	for _, row := range rows {
		data[row.RowNum-1] = []string(row.Cells)
	}
	return sliceRange(data, r), nil
}

func (s *PostgresStore) Append(ctx context.Context, rng string, rows [][]string) error {
	r, err := ParseRange(rng)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.checkSheet(ctx, tx, r.Sheet); err != nil {
		return err
	}

	// Appends to one sheet are serialized until commit; without this two
	// writers would both pick the same next row and the later upsert would
	// overwrite the earlier one.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, r.Sheet); err != nil {
		return fmt.Errorf("lock sheet %s: %w", r.Sheet, err)
	}

	var last sql.NullInt64
	err = tx.GetContext(ctx, &last, `
		SELECT MAX(row_num) FROM sheet_rows
		WHERE sheet = $1 AND row_num >= $2 AND cells <> '{}'
	`, r.Sheet, r.StartRow)
	if err != nil {
		return fmt.Errorf("find last row: %w", err)
	}

	next := r.StartRow
	if last.Valid {
		next = int(last.Int64) + 1
	}
	if err := writeRows(ctx, tx, r.Sheet, next, r.StartCol, rows); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *PostgresStore) Update(ctx context.Context, rng string, rows [][]string) error {
	r, err := ParseRange(rng)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.checkSheet(ctx, tx, r.Sheet); err != nil {
		return err
	}
	if err := writeRows(ctx, tx, r.Sheet, r.StartRow, r.StartCol, rows); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *PostgresStore) checkSheet(ctx context.Context, q sqlx.QueryerContext, sheet string) error {
	var exists bool
	err := sqlx.GetContext(ctx, q, &exists, `SELECT EXISTS(SELECT 1 FROM sheet_rows WHERE sheet = $1)`, sheet)
	if err != nil {
		return fmt.Errorf("check sheet %s: %w", sheet, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	return nil
}

// writeRows merges values into existing rows cell by cell, creating rows as needed.
func writeRows(ctx context.Context, tx *sqlx.Tx, sheet string, startRow, startCol int, rows [][]string) error {
	for i, values := range rows {
		rowNum := startRow + i

		var existing pq.StringArray
		err := tx.GetContext(ctx, &existing, `
			SELECT cells FROM sheet_rows WHERE sheet = $1 AND row_num = $2 FOR UPDATE
		`, sheet, rowNum)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("read row %d: %w", rowNum, err)
		}

		cells := writeCells([][]string{[]string(existing)}, 1, startCol, [][]string{values})[0]

		_, err = tx.ExecContext(ctx, `
			INSERT INTO sheet_rows (sheet, row_num, cells)
			VALUES ($1, $2, $3)
			ON CONFLICT (sheet, row_num) DO UPDATE SET cells = EXCLUDED.cells
		`, sheet, rowNum, pq.Array(cells))
		if err != nil {
			return fmt.Errorf("write row %d: %w", rowNum, err)
		}
	}
	return nil
}
