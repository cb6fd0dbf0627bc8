package repository

import (
	"context"
	"time"

	"github.com/jhoicas/estomatologia-api/internal/domain/entity"
)

// InventoryRepository define el puerto para los snapshots de inventario por (clave, categoría).
// Cada implementación documenta su política de retención; el contrato de lectura es siempre
// "el snapshot con savedAt máximo".
type InventoryRepository interface {
	// Upsert asigna uid a los ítems que no lo traen y guarda la lista completa como snapshot
	// vigente de (snap.Key, snap.Categoria). Devuelve el nuevo savedAt.
	Upsert(ctx context.Context, snap *entity.InventorySnapshot) (time.Time, error)
	// Get devuelve el snapshot vigente, o nil sin error si no hay datos.
	Get(ctx context.Context, key, categoria string) (*entity.InventorySnapshot, error)
	// DeleteItems quita los ítems cuyo uid está en uids y guarda el snapshot reducido en el mismo
	// registro. domain.ErrNotFound si no existe snapshot para la clave.
	DeleteItems(ctx context.Context, key, categoria string, uids map[string]struct{}) (entity.DeleteResult, error)
}

// Storage es el backend completo elegido al arrancar el proceso.
type Storage interface {
	SubmissionRepository
	InventoryRepository
	// Driver nombre del backend ("postgres", "sqlite", "file").
	Driver() string
	Close() error
}
