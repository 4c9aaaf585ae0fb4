package journal

// Schema creates the fills and pnl tables. Fill IDs are ULIDs, so the
// unique index doubles as a time-ordered index.
const Schema = `
CREATE TABLE IF NOT EXISTS fills (
	fill_id  TEXT NOT NULL UNIQUE,
	time     TEXT NOT NULL,
	symbol   TEXT NOT NULL,
	side     TEXT NOT NULL,
	quantity REAL NOT NULL,
	price    REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS pnl (
	label TEXT NOT NULL,
	pnl   REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fills_symbol ON fills(symbol);
`
