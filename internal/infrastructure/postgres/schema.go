package postgres

import (
	"context"
	"fmt"
)

// schema crea las tablas si no existen. No hay herramienta de migraciones: el esquema es estable
// y solo se garantiza su existencia al arrancar.
//
// inventarios conserva historial: cada Upsert inserta una fila y la lectura toma la de saved_at
// máximo (id como desempate). hospital_key es la clave derivada (clave o nombre del hospital).
const schema = `
CREATE TABLE IF NOT EXISTS submissions (
    seq         BIGSERIAL,
    id          TEXT PRIMARY KEY,
    payload     JSONB NOT NULL,
    received_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_submissions_received
    ON submissions (received_at DESC, seq DESC);

CREATE TABLE IF NOT EXISTS inventarios (
    id              BIGSERIAL PRIMARY KEY,
    hospital_key    TEXT NOT NULL,
    hospital_clave  TEXT NOT NULL DEFAULT '',
    hospital_nombre TEXT NOT NULL DEFAULT '',
    categoria       TEXT NOT NULL,
    items           JSONB NOT NULL,
    saved_at        TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_inventarios_key_latest
    ON inventarios (hospital_key, categoria, saved_at DESC, id DESC);
`

// EnsureSchema crea las tablas e índices si faltan.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("crear esquema: %w", err)
	}
	return nil
}
