package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunForKey inicia una transacción, toma un advisory lock de transacción sobre
// (key, categoria), ejecuta fn con el repositorio atado a la tx y hace Commit o Rollback.
// El lock serializa upserts y borrados de la misma clave entre procesos; claves distintas
// no se bloquean entre sí.
//
// La transacción no se cancela si el cliente se desconecta: es preferible completar la
// escritura a dejar un snapshot a medias.
func (r *TxRunner) RunForKey(ctx context.Context, key, categoria string, fn func(ctx context.Context, repo *InventoryRepo) error) error {
	ctx = context.WithoutCancel(ctx)
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key+"\x1f"+categoria); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}
	if err := fn(ctx, NewInventoryRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
