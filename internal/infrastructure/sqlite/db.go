// Package sqlite implementa el backend relacional embebido sobre modernc.org/sqlite.
// Mismo esquema y política de retención (historial) que el backend PostgreSQL; sirve para
// despliegues de un solo nodo sin servidor de base de datos.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Open abre la base SQLite y configura pragmas.
// Se usa una sola conexión: SQLite admite un escritor a la vez y así cada transacción
// queda serializada respecto de las demás (y ":memory:" ve siempre la misma base).
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("crear directorio de la base: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("abrir base de datos: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
    seq         INTEGER PRIMARY KEY AUTOINCREMENT,
    id          TEXT NOT NULL UNIQUE,
    payload     TEXT NOT NULL,
    received_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_submissions_received
    ON submissions (received_at DESC, seq DESC);

CREATE TABLE IF NOT EXISTS inventarios (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    hospital_key    TEXT NOT NULL,
    hospital_clave  TEXT NOT NULL DEFAULT '',
    hospital_nombre TEXT NOT NULL DEFAULT '',
    categoria       TEXT NOT NULL,
    items           TEXT NOT NULL,
    saved_at        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_inventarios_key_latest
    ON inventarios (hospital_key, categoria, saved_at DESC, id DESC);
`

// EnsureSchema crea las tablas si faltan.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("crear esquema: %w", err)
	}
	return nil
}
