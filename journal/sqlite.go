package journal

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordFill(f Fill) error {
	_, err := j.db.Exec(`
		INSERT INTO fills (fill_id, time, symbol, side, quantity, price)
		VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID, f.Time.Format(time.RFC3339), f.Symbol, f.Side, f.Quantity, f.Price,
	)
	return err
}

func (j *SQLiteJournal) RecordPnl(r PnlRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO pnl (label, pnl) VALUES (?, ?)`,
		r.Label, r.PnL,
	)
	return err
}

// ListFills returns all recorded fills in insertion order.
func (j *SQLiteJournal) ListFills() ([]Fill, error) {
	rows, err := j.db.Query(`
		SELECT fill_id, time, symbol, side, quantity, price
		FROM fills ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fills []Fill
	for rows.Next() {
		var f Fill
		var ts string
		if err := rows.Scan(&f.ID, &ts, &f.Symbol, &f.Side, &f.Quantity, &f.Price); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			f.Time = t
		}
		fills = append(fills, f)
	}
	return fills, rows.Err()
}

// ListPnl returns all recorded PnL snapshots in insertion order.
func (j *SQLiteJournal) ListPnl() ([]PnlRecord, error) {
	rows, err := j.db.Query(`SELECT label, pnl FROM pnl ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []PnlRecord
	for rows.Next() {
		var r PnlRecord
		if err := rows.Scan(&r.Label, &r.PnL); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
