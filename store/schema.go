package store

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	trade_reference TEXT NOT NULL UNIQUE,
	trade_date TEXT NOT NULL,
	value_date TEXT NOT NULL,
	direction TEXT NOT NULL CHECK (direction IN ('BUY','SELL')),
	base_currency TEXT NOT NULL,
	quote_currency TEXT NOT NULL,
	base_amount TEXT NOT NULL,
	exchange_rate TEXT NOT NULL,
	quote_amount TEXT NOT NULL,
	counterparty TEXT NOT NULL DEFAULT '',
	trader TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL CHECK (status IN ('PENDING','CONFIRMED','SETTLED')),
	created_at DATETIME NOT NULL,
	created_by TEXT NOT NULL,
	updated_at DATETIME NOT NULL,
	updated_by TEXT NOT NULL,
	version INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_trades_trade_date ON trades(trade_date);
CREATE INDEX IF NOT EXISTS idx_trades_status ON trades(status);

CREATE TABLE IF NOT EXISTS trade_sequence (
	trade_date TEXT PRIMARY KEY,
	next_sequence INTEGER NOT NULL,
	last_updated DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS trade_audit (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	trade_id INTEGER NOT NULL REFERENCES trades(id),
	trade_reference TEXT NOT NULL,
	audit_timestamp DATETIME NOT NULL,
	audit_user TEXT NOT NULL,
	action TEXT NOT NULL CHECK (action IN ('CREATE','UPDATE')),
	correlation_id TEXT NOT NULL,
	before_snapshot TEXT,
	after_snapshot TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trade_audit_trade_id ON trade_audit(trade_id);
CREATE INDEX IF NOT EXISTS idx_trade_audit_timestamp ON trade_audit(audit_timestamp);
`
