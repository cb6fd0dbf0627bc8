package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estomatologia-api/internal/domain/entity"
	"github.com/jhoicas/estomatologia-api/internal/domain/repository"
	"github.com/jhoicas/estomatologia-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/estomatologia-api/internal/infrastructure/storagetest"
)

func newMemoryStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_Contrato(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) repository.Storage { return newMemoryStore(t) })
}

func TestSQLiteStore_ContratoEnArchivo(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) repository.Storage {
		s, err := sqlite.New(filepath.Join(t.TempDir(), "db", "inv.db"), nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

// La política de historial conserva cada upsert como fila; el borrado corrige la última
// sin insertar otra.
func TestSQLiteStore_HistorialYCorreccionEnSitio(t *testing.T) {
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, sqlite.EnsureSchema(db))
	t.Cleanup(func() { _ = db.Close() })
	s := sqlite.NewWithDB(db, nil)
	ctx := context.Background()

	_, err = s.Upsert(ctx, &entity.InventorySnapshot{Key: "K", Categoria: "c", Items: []entity.LineItem{{UID: "a"}, {UID: "b"}}})
	require.NoError(t, err)
	_, err = s.Upsert(ctx, &entity.InventorySnapshot{Key: "K", Categoria: "c", Items: []entity.LineItem{{UID: "c"}, {UID: "d"}}})
	require.NoError(t, err)

	countRows := func() int {
		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM inventarios WHERE hospital_key = 'K'`).Scan(&n))
		return n
	}
	assert.Equal(t, 2, countRows())

	res, err := s.DeleteItems(ctx, "K", "c", map[string]struct{}{"d": {}})
	require.NoError(t, err)
	assert.Equal(t, entity.DeleteResult{Modified: true, Remaining: 1}, res)
	assert.Equal(t, 2, countRows(), "la corrección no crea una fila nueva")

	var oldItems string
	require.NoError(t, db.QueryRow(`SELECT items FROM inventarios WHERE hospital_key = 'K' ORDER BY id ASC LIMIT 1`).Scan(&oldItems))
	assert.Contains(t, oldItems, `"a"`, "la fila anterior queda intacta en el historial")
}

func TestSQLiteStore_ItemsCorruptos(t *testing.T) {
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, sqlite.EnsureSchema(db))
	t.Cleanup(func() { _ = db.Close() })
	s := sqlite.NewWithDB(db, nil)

	_, err = db.Exec(`INSERT INTO inventarios (hospital_key, categoria, items, saved_at) VALUES ('K', 'c', '{roto', '2025-01-01T00:00:00.000000000Z')`)
	require.NoError(t, err)

	got, err := s.Get(context.Background(), "K", "c")
	require.NoError(t, err)
	assert.Nil(t, got)
}
