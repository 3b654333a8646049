package journal

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
)

// SQLiteJournal stores order records in a local SQLite database.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the journal database at path and applies
// the schema.
func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

// RecordOrder inserts one placed leg. A missing ID or timestamp is filled
// in; ULIDs keep records time-sortable by primary key.
func (j *SQLiteJournal) RecordOrder(ctx context.Context, record OrderRecord) error {
	if record.ID == "" {
		record.ID = ulid.Make().String()
	}
	if record.PlacedAt.IsZero() {
		record.PlacedAt = time.Now().UTC()
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO orders
		(id, placed_at, symbol, order_type, volume, entry_price, stop_loss, take_profit, result_code, order_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.PlacedAt, record.Symbol, record.OrderType, record.Volume,
		record.Entry, record.StopLoss, record.TakeProfit, record.ResultCode, record.OrderID,
	)
	return err
}

// ListOrders returns the legs placed within [from, to], oldest first. A
// zero bound leaves that side of the range open.
func (j *SQLiteJournal) ListOrders(ctx context.Context, from, to time.Time) ([]OrderRecord, error) {
	query := `
		SELECT id, placed_at, symbol, order_type, volume, entry_price, stop_loss, take_profit, result_code, order_id
		FROM orders`
	var conditions []string
	var args []any
	if !from.IsZero() {
		conditions = append(conditions, "placed_at >= ?")
		args = append(args, from)
	}
	if !to.IsZero() {
		conditions = append(conditions, "placed_at <= ?")
		args = append(args, to)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY placed_at ASC, id ASC"

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []OrderRecord
	for rows.Next() {
		var r OrderRecord
		if err := rows.Scan(&r.ID, &r.PlacedAt, &r.Symbol, &r.OrderType, &r.Volume,
			&r.Entry, &r.StopLoss, &r.TakeProfit, &r.ResultCode, &r.OrderID); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
