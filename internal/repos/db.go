package repos

import (
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo campaigns if the DB is empty (idempotent; safe on every start)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Flash-sale campaigns
CREATE TABLE IF NOT EXISTS campaigns(
  id TEXT PRIMARY KEY,
  product_ref TEXT NOT NULL,
  original_price NUMERIC NOT NULL CHECK (original_price > 0),
  sale_price NUMERIC NOT NULL CHECK (sale_price >= 0),
  start_time TEXT NOT NULL,
  end_time TEXT NOT NULL,
  total_stock INTEGER NOT NULL CHECK (total_stock >= 0),
  sold INTEGER NOT NULL DEFAULT 0 CHECK (sold >= 0 AND sold <= total_stock),
  active INTEGER NOT NULL DEFAULT 1,
  featured INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_campaigns_window  ON campaigns(start_time, end_time);
CREATE INDEX IF NOT EXISTS idx_campaigns_active  ON campaigns(active);

-- Stock holds created at checkout start
CREATE TABLE IF NOT EXISTS reservations(
  id TEXT PRIMARY KEY,
  campaign_id TEXT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  unit_price NUMERIC NOT NULL,
  status TEXT NOT NULL CHECK (status IN ('PENDING','CONFIRMED','RELEASED')),
  requested_at TEXT NOT NULL,
  expires_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reservations_campaign ON reservations(campaign_id);
CREATE INDEX IF NOT EXISTS idx_reservations_pending  ON reservations(status, expires_at);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM campaigns`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo campaigns")

	now := time.Now().UTC()
	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO campaigns(id,product_ref,original_price,sale_price,start_time,end_time,total_stock,sold,active,featured,created_at) VALUES
	  ('fs-headphones','prod-anc-headphones',4999,2999,?,?,50,0,1,1,?),
	  ('fs-sneakers','prod-yx-sneakers',2599,1299,?,?,25,0,1,0,?),
	  ('fs-watch','prod-smart-watch',8999,6749,?,?,10,0,1,0,?)`,
		now.Add(-time.Hour).Format(time.RFC3339), now.Add(6*time.Hour).Format(time.RFC3339), now.Format(time.RFC3339),
		now.Add(-time.Hour).Format(time.RFC3339), now.Add(12*time.Hour).Format(time.RFC3339), now.Format(time.RFC3339),
		now.Add(24*time.Hour).Format(time.RFC3339), now.Add(36*time.Hour).Format(time.RFC3339), now.Format(time.RFC3339))

	return tx.Commit()
}
