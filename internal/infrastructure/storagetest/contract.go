// Package storagetest contiene la batería de pruebas común a todos los backends de
// almacenamiento: cualquier implementación de repository.Storage debe pasarla.
package storagetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estomatologia-api/internal/domain"
	"github.com/jhoicas/estomatologia-api/internal/domain/entity"
	"github.com/jhoicas/estomatologia-api/internal/domain/repository"
)

// Factory crea un backend vacío para un subtest.
type Factory func(t *testing.T) repository.Storage

// Run ejecuta la batería completa contra el backend que crea newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("AppendYFind", func(t *testing.T) { testAppendAndFind(t, newStore(t)) })
	t.Run("ReceivedAtDelLlamador", func(t *testing.T) { testCallerReceivedAt(t, newStore(t)) })
	t.Run("FindInexistente", func(t *testing.T) { testFindMissing(t, newStore(t)) })
	t.Run("ListVacio", func(t *testing.T) { testListEmpty(t, newStore(t)) })
	t.Run("ListOrdenDescendente", func(t *testing.T) { testListOrder(t, newStore(t)) })
	t.Run("UpsertAsignaUID", func(t *testing.T) { testUpsertAssignsUIDs(t, newStore(t)) })
	t.Run("UpsertReemplaza", func(t *testing.T) { testUpsertReplaces(t, newStore(t)) })
	t.Run("GetSinDatos", func(t *testing.T) { testGetMissing(t, newStore(t)) })
	t.Run("ClavesIndependientes", func(t *testing.T) { testKeysIndependent(t, newStore(t)) })
	t.Run("DeleteItems", func(t *testing.T) { testDeleteItems(t, newStore(t)) })
	t.Run("DeleteSinSnapshot", func(t *testing.T) { testDeleteMissing(t, newStore(t)) })
	t.Run("UpsertsConcurrentes", func(t *testing.T) { testConcurrentUpserts(t, newStore(t)) })
	t.Run("DeleteYUpsertConcurrentes", func(t *testing.T) { testConcurrentDeleteAndUpsert(t, newStore(t)) })
}

func items(uids ...string) []entity.LineItem {
	out := make([]entity.LineItem, 0, len(uids))
	for _, u := range uids {
		out = append(out, entity.LineItem{UID: u, Clave: entity.Texto("C-" + u), Descripcion: "desc " + entity.Texto(u)})
	}
	return out
}

func uidsOf(list []entity.LineItem) []string {
	out := make([]string, 0, len(list))
	for _, it := range list {
		out = append(out, it.UID)
	}
	return out
}

func testAppendAndFind(t *testing.T, store repository.Storage) {
	ctx := context.Background()
	in := &entity.Submission{
		HospitalClave:  "VZIM002330",
		HospitalNombre: "Centro de Alta Especialidad DR.Rafael Lucio",
		Categoria:      "material",
		FechaEnvio:     "2025-01-10T12:00:00Z",
		Items: []entity.LineItem{
			{Clave: "A1", Descripcion: "Resina", Stock: "4", Manual: true},
			{UID: "fijo", Clave: "A2"},
		},
	}

	id, err := store.Append(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, id, in.ID, "Append completa el id en el registro")
	assert.False(t, in.ReceivedAt.IsZero(), "Append asigna receivedAt")

	got, err := store.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, in.HospitalClave, got.HospitalClave)
	assert.Equal(t, in.HospitalNombre, got.HospitalNombre)
	assert.Equal(t, in.Categoria, got.Categoria)
	assert.Equal(t, in.FechaEnvio, got.FechaEnvio)
	assert.True(t, in.ReceivedAt.Equal(got.ReceivedAt), "receivedAt se conserva")
	require.Len(t, got.Items, 2)
	assert.NotEmpty(t, got.Items[0].UID)
	assert.Equal(t, "fijo", got.Items[1].UID)
	assert.Equal(t, entity.Flag(true), got.Items[0].Manual)
	assert.Equal(t, entity.Texto("Resina"), got.Items[0].Descripcion)
}

func testCallerReceivedAt(t *testing.T, store repository.Storage) {
	ctx := context.Background()
	in := &entity.Submission{
		HospitalClave: "VZIM002330",
		ReceivedAt:    time.Date(2025, 6, 7, 14, 9, 10, 123456789, time.UTC),
	}

	id, err := store.Append(ctx, in)
	require.NoError(t, err)

	got, err := store.FindByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, in.ReceivedAt.Equal(got.ReceivedAt), "el registro en memoria coincide con el persistido: %s vs %s", in.ReceivedAt, got.ReceivedAt)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, in.ReceivedAt.Equal(list[0].ReceivedAt))
}

func testFindMissing(t *testing.T, store repository.Storage) {
	_, err := store.FindByID(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testListEmpty(t *testing.T, store repository.Storage) {
	list, err := store.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func testListOrder(t *testing.T, store repository.Storage) {
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	// Insertados fuera de orden; dos con la misma hora.
	offsets := []int{3, 1, 5, 1, 2}
	var ids []string
	for i, off := range offsets {
		sub := &entity.Submission{
			ID:         fmt.Sprintf("s%d", i),
			Categoria:  "c",
			Items:      items("x"),
			ReceivedAt: base.Add(time.Duration(off) * time.Hour),
		}
		id, err := store.Append(ctx, sub)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, len(offsets))

	got := make([]string, 0, len(list))
	for _, s := range list {
		got = append(got, s.ID)
	}
	// s3 se insertó después que s1 con la misma hora: va primero.
	assert.Equal(t, []string{"s2", "s0", "s4", "s3", "s1"}, got)

	sort.Strings(ids)
	sort.Strings(got)
	assert.Equal(t, ids, got, "sin duplicados ni omisiones")
}

func testUpsertAssignsUIDs(t *testing.T, store repository.Storage) {
	ctx := context.Background()
	snap := &entity.InventorySnapshot{
		Key:       "VZIM000691",
		Categoria: "instrumental",
		Items:     []entity.LineItem{{Clave: "nuevo"}, {UID: "conservado", Clave: "viejo"}},
	}
	savedAt, err := store.Upsert(ctx, snap)
	require.NoError(t, err)
	assert.False(t, savedAt.IsZero())

	got, err := store.Get(ctx, "VZIM000691", "instrumental")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 2)
	assert.NotEmpty(t, got.Items[0].UID)
	assert.Equal(t, "conservado", got.Items[1].UID)
	assert.Equal(t, entity.Texto("nuevo"), got.Items[0].Clave)
	assert.True(t, savedAt.Equal(got.SavedAt), "Get devuelve el savedAt de Upsert")
}

func testUpsertReplaces(t *testing.T, store repository.Storage) {
	ctx := context.Background()
	_, err := store.Upsert(ctx, &entity.InventorySnapshot{Key: "K", Categoria: "c", Items: items("a", "b")})
	require.NoError(t, err)
	_, err = store.Upsert(ctx, &entity.InventorySnapshot{Key: "K", Categoria: "c", Items: items("z")})
	require.NoError(t, err)

	got, err := store.Get(ctx, "K", "c")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"z"}, uidsOf(got.Items), "el segundo upsert reemplaza, no mezcla")
}

func testGetMissing(t *testing.T, store repository.Storage) {
	got, err := store.Get(context.Background(), "nadie", "c")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testKeysIndependent(t *testing.T, store repository.Storage) {
	ctx := context.Background()
	// "a/b" y "a_b" sanean igual en nombres de archivo; deben seguir siendo snapshots distintos.
	_, err := store.Upsert(ctx, &entity.InventorySnapshot{Key: "a/b", Categoria: "c", Items: items("1")})
	require.NoError(t, err)
	_, err = store.Upsert(ctx, &entity.InventorySnapshot{Key: "a_b", Categoria: "c", Items: items("2")})
	require.NoError(t, err)
	_, err = store.Upsert(ctx, &entity.InventorySnapshot{Key: "a/b", Categoria: "C", Items: items("3")})
	require.NoError(t, err)

	for key, want := range map[[2]string]string{{"a/b", "c"}: "1", {"a_b", "c"}: "2", {"a/b", "C"}: "3"} {
		got, err := store.Get(ctx, key[0], key[1])
		require.NoError(t, err)
		require.NotNil(t, got, "snapshot %v", key)
		assert.Equal(t, []string{want}, uidsOf(got.Items), "snapshot %v", key)
	}
}

func testDeleteItems(t *testing.T, store repository.Storage) {
	ctx := context.Background()
	_, err := store.Upsert(ctx, &entity.InventorySnapshot{Key: "K", Categoria: "c", Items: items("a", "b", "c")})
	require.NoError(t, err)

	res, err := store.DeleteItems(ctx, "K", "c", map[string]struct{}{"b": {}})
	require.NoError(t, err)
	assert.Equal(t, entity.DeleteResult{Modified: true, Remaining: 2}, res)

	got, err := store.Get(ctx, "K", "c")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"a", "c"}, uidsOf(got.Items))

	res, err = store.DeleteItems(ctx, "K", "c", map[string]struct{}{"b": {}})
	require.NoError(t, err)
	assert.Equal(t, entity.DeleteResult{Modified: false, Remaining: 2}, res)

	res, err = store.DeleteItems(ctx, "K", "c", map[string]struct{}{"a": {}, "c": {}})
	require.NoError(t, err)
	assert.Equal(t, entity.DeleteResult{Modified: true, Remaining: 0}, res)

	got, err = store.Get(ctx, "K", "c")
	require.NoError(t, err)
	require.NotNil(t, got, "un snapshot vaciado sigue presente")
	assert.Empty(t, got.Items)
}

func testDeleteMissing(t *testing.T, store repository.Storage) {
	_, err := store.DeleteItems(context.Background(), "nadie", "c", map[string]struct{}{"a": {}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testConcurrentUpserts(t *testing.T, store repository.Storage) {
	ctx := context.Background()
	inputs := [][]entity.LineItem{items("a1", "a2", "a3"), items("b1", "b2")}

	for round := 0; round < 10; round++ {
		var wg sync.WaitGroup
		for _, in := range inputs {
			wg.Add(1)
			go func(in []entity.LineItem) {
				defer wg.Done()
				_, err := store.Upsert(ctx, &entity.InventorySnapshot{Key: "K", Categoria: "c", Items: in})
				assert.NoError(t, err)
			}(in)
		}
		wg.Wait()

		got, err := store.Get(ctx, "K", "c")
		require.NoError(t, err)
		require.NotNil(t, got)
		uids := uidsOf(got.Items)
		assert.True(t,
			assert.ObjectsAreEqual(uidsOf(inputs[0]), uids) || assert.ObjectsAreEqual(uidsOf(inputs[1]), uids),
			"el snapshot debe ser exactamente una de las dos entradas, se obtuvo %v", uids)
	}
}

func testConcurrentDeleteAndUpsert(t *testing.T, store repository.Storage) {
	ctx := context.Background()
	for round := 0; round < 10; round++ {
		_, err := store.Upsert(ctx, &entity.InventorySnapshot{Key: "K", Categoria: "c", Items: items("a", "b", "c")})
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := store.DeleteItems(ctx, "K", "c", map[string]struct{}{"b": {}})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := store.Upsert(ctx, &entity.InventorySnapshot{Key: "K", Categoria: "c", Items: items("x", "b")})
			assert.NoError(t, err)
		}()
		wg.Wait()

		got, err := store.Get(ctx, "K", "c")
		require.NoError(t, err)
		require.NotNil(t, got)
		uids := uidsOf(got.Items)
		// Orden serial delete→upsert deja [x b]; upsert→delete deja [x].
		assert.True(t,
			assert.ObjectsAreEqual([]string{"x", "b"}, uids) || assert.ObjectsAreEqual([]string{"x"}, uids),
			"resultado que no corresponde a ningún orden serial: %v", uids)
	}
}
