package repos

import (
	"log"

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

	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo catalog if DB is empty (idempotent; safe to run every start)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func EnsureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Buyers (chat identities, created lazily on first interaction)
CREATE TABLE IF NOT EXISTS buyers(
  telegram_id INTEGER PRIMARY KEY,
  username TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Catalog items
CREATE TABLE IF NOT EXISTS items(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL CHECK (price >= 0),
  preview TEXT
);

-- Unlockable media, ordered within each kind
CREATE TABLE IF NOT EXISTS item_photos(
  item_id TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  path TEXT NOT NULL,
  PRIMARY KEY(item_id, position)
);
CREATE TABLE IF NOT EXISTS item_videos(
  item_id TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  path TEXT NOT NULL,
  PRIMARY KEY(item_id, position)
);

-- Orders (financial records; never deleted)
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  buyer_id INTEGER NOT NULL REFERENCES buyers(telegram_id),
  item_id TEXT NOT NULL REFERENCES items(id),
  amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','paid','rejected')),
  payment_proof TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_buyer_status ON orders(buyer_id, status);
CREATE INDEX IF NOT EXISTS idx_orders_created_at   ON orders(created_at);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM items`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo catalog items")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO items(id,name,description,price,preview) VALUES
	  ('aurora','Aurora','Exclusive photo and video set.',500,'previews/aurora.jpg'),
	  ('luna','Luna','Premium collection, fresh drops weekly.',750,'previews/luna.jpg')`)

	tx.MustExec(`INSERT INTO item_photos(item_id,position,path) VALUES
	  ('aurora',0,'photos/aurora/01.jpg'),
	  ('aurora',1,'photos/aurora/02.jpg'),
	  ('aurora',2,'photos/aurora/03.jpg'),
	  ('luna',0,'photos/luna/01.jpg'),
	  ('luna',1,'photos/luna/02.jpg')`)

	tx.MustExec(`INSERT INTO item_videos(item_id,position,path) VALUES
	  ('aurora',0,'videos/aurora/01.mp4'),
	  ('luna',0,'videos/luna/01.mp4')`)

	return tx.Commit()
}
