package inventory_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estomatologia-api/internal/application/dto"
	"github.com/jhoicas/estomatologia-api/internal/application/inventory"
	"github.com/jhoicas/estomatologia-api/internal/domain"
	"github.com/jhoicas/estomatologia-api/internal/domain/entity"
	"github.com/jhoicas/estomatologia-api/internal/infrastructure/filestore"
	"github.com/jhoicas/estomatologia-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/estomatologia-api/pkg/logger"
)

func newFileManager(t *testing.T) *inventory.Manager {
	t.Helper()
	store, err := filestore.New(t.TempDir(), nil)
	require.NoError(t, err)
	return inventory.NewManager(store, logger.Nop())
}

func newSQLiteManager(t *testing.T) *inventory.Manager {
	t.Helper()
	store, err := sqlite.New(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return inventory.NewManager(store, logger.Nop())
}

func forEachBackend(t *testing.T, fn func(t *testing.T, m *inventory.Manager)) {
	t.Run("file", func(t *testing.T) { fn(t, newFileManager(t)) })
	t.Run("sqlite", func(t *testing.T) { fn(t, newSQLiteManager(t)) })
}

func TestSubmit_Validacion(t *testing.T) {
	m := newFileManager(t)
	ctx := context.Background()

	_, err := m.Submit(ctx, dto.SubmitRequest{Categoria: "  ", Items: []entity.LineItem{{Clave: "a"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = m.Submit(ctx, dto.SubmitRequest{Categoria: "material", Items: nil})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := m.ListSubmissions(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "una petición rechazada no deja rastro")
}

func TestSubmit_AsignaIDYFecha(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *inventory.Manager) {
		ctx := context.Background()
		res, err := m.Submit(ctx, dto.SubmitRequest{
			HospitalClave: "VZIM002330",
			Categoria:     "material",
			Items:         []entity.LineItem{{Clave: "R-1", Manual: true}},
		})
		require.NoError(t, err)
		assert.True(t, res.OK)
		assert.NotEmpty(t, res.ID)
		_, perr := time.Parse(time.RFC3339, res.SavedAt)
		assert.NoError(t, perr)

		got, err := m.GetSubmission(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, "VZIM002330", got.HospitalClave)
		assert.NotEmpty(t, got.FechaEnvio, "fechaEnvio toma la hora actual si falta")
		require.Len(t, got.Items, 1)
		assert.NotEmpty(t, got.Items[0].UID)
		assert.True(t, bool(got.Items[0].Manual))
	})
}

func TestGetSubmission_NoEncontrado(t *testing.T) {
	m := newFileManager(t)
	_, err := m.GetSubmission(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = m.GetSubmission(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveInventory_ClaveYReemplazo(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *inventory.Manager) {
		ctx := context.Background()
		res, err := m.SaveInventory(ctx, dto.SaveInventoryRequest{
			HospitalClave: " VZIM000254 ", HospitalNombre: "Alvarado", Categoria: "material",
			Items: []entity.LineItem{{Clave: "a"}, {Clave: "b"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "VZIM000254", res.Key)

		_, err = m.SaveInventory(ctx, dto.SaveInventoryRequest{
			HospitalClave: "VZIM000254", Categoria: "material",
			Items: []entity.LineItem{{UID: "keep", Clave: "c"}},
		})
		require.NoError(t, err)

		snap, err := m.GetInventory(ctx, dto.InventoryQuery{HospitalClave: "VZIM000254", Categoria: "material"})
		require.NoError(t, err)
		require.NotNil(t, snap)
		require.Len(t, snap.Items, 1)
		assert.Equal(t, "keep", snap.Items[0].UID)
		assert.Equal(t, entity.Texto("c"), snap.Items[0].Clave)
	})
}

func TestSaveInventory_PorNombreYRespaldo(t *testing.T) {
	m := newFileManager(t)
	ctx := context.Background()

	res, err := m.SaveInventory(ctx, dto.SaveInventoryRequest{HospitalNombre: "Hospital General Isla", Categoria: "c", Items: []entity.LineItem{{Clave: "x"}}})
	require.NoError(t, err)
	assert.Equal(t, "Hospital General Isla", res.Key)

	snap, err := m.GetInventory(ctx, dto.InventoryQuery{HospitalNombre: " Hospital General Isla ", Categoria: "c"})
	require.NoError(t, err)
	require.NotNil(t, snap)

	r1, err := m.SaveInventory(ctx, dto.SaveInventoryRequest{Categoria: "c", Items: []entity.LineItem{{Clave: "x"}}})
	require.NoError(t, err)
	r2, err := m.SaveInventory(ctx, dto.SaveInventoryRequest{Categoria: "c", Items: []entity.LineItem{{Clave: "y"}}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(r1.Key, "unknown-"))
	assert.NotEqual(t, r1.Key, r2.Key, "dos inventarios anónimos no se pisan")
}

func TestSaveInventory_ItemsVacios(t *testing.T) {
	m := newFileManager(t)
	_, err := m.SaveInventory(context.Background(), dto.SaveInventoryRequest{HospitalClave: "K", Categoria: "c", Items: []entity.LineItem{}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetInventory_SinParametrosOSinDatos(t *testing.T) {
	m := newFileManager(t)
	ctx := context.Background()

	snap, err := m.GetInventory(ctx, dto.InventoryQuery{Categoria: "c"})
	require.NoError(t, err)
	assert.Nil(t, snap)

	snap, err = m.GetInventory(ctx, dto.InventoryQuery{HospitalClave: "K"})
	require.NoError(t, err)
	assert.Nil(t, snap)

	snap, err = m.GetInventory(ctx, dto.InventoryQuery{HospitalClave: "K", Categoria: "c"})
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestDeleteInventoryItems(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *inventory.Manager) {
		ctx := context.Background()
		_, err := m.SaveInventory(ctx, dto.SaveInventoryRequest{
			HospitalClave: "K", Categoria: "c",
			Items: []entity.LineItem{{UID: "a"}, {UID: "b"}, {UID: "c"}},
		})
		require.NoError(t, err)

		res, err := m.DeleteInventoryItems(ctx, dto.DeleteItemsRequest{HospitalClave: "K", Categoria: "c", UIDs: []string{"b"}})
		require.NoError(t, err)
		assert.Equal(t, &dto.DeleteItemsResponse{OK: true, Modified: true, Remaining: 2}, res)

		res, err = m.DeleteInventoryItems(ctx, dto.DeleteItemsRequest{HospitalClave: "K", Categoria: "c", UIDs: []string{"b"}})
		require.NoError(t, err)
		assert.Equal(t, &dto.DeleteItemsResponse{OK: true, Modified: false, Remaining: 2}, res)

		_, err = m.DeleteInventoryItems(ctx, dto.DeleteItemsRequest{HospitalClave: "otro", Categoria: "c", UIDs: []string{"a"}})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestDeleteInventoryItems_UIDConEspacios(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *inventory.Manager) {
		ctx := context.Background()
		_, err := m.SaveInventory(ctx, dto.SaveInventoryRequest{
			HospitalClave: "K", Categoria: "c",
			Items: []entity.LineItem{{UID: " a "}, {UID: "b"}},
		})
		require.NoError(t, err)

		snap, err := m.GetInventory(ctx, dto.InventoryQuery{HospitalClave: "K", Categoria: "c"})
		require.NoError(t, err)
		require.Len(t, snap.Items, 2)
		assert.Equal(t, " a ", snap.Items[0].UID)

		res, err := m.DeleteInventoryItems(ctx, dto.DeleteItemsRequest{HospitalClave: "K", Categoria: "c", UIDs: []string{" a "}})
		require.NoError(t, err)
		assert.Equal(t, &dto.DeleteItemsResponse{OK: true, Modified: true, Remaining: 1}, res)

		snap, err = m.GetInventory(ctx, dto.InventoryQuery{HospitalClave: "K", Categoria: "c"})
		require.NoError(t, err)
		require.Len(t, snap.Items, 1)
		assert.Equal(t, "b", snap.Items[0].UID)
	})
}

func TestDeleteInventoryItems_Validacion(t *testing.T) {
	m := newFileManager(t)
	ctx := context.Background()
	cases := []dto.DeleteItemsRequest{
		{Categoria: "c", UIDs: []string{"a"}},
		{HospitalClave: "K", UIDs: []string{"a"}},
		{HospitalClave: "K", Categoria: "c", UIDs: []string{" "}},
	}
	for _, in := range cases {
		_, err := m.DeleteInventoryItems(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}
}

func TestReportRows_AplanaYRellena(t *testing.T) {
	m := newFileManager(t)
	ctx := context.Background()

	first, err := m.Submit(ctx, dto.SubmitRequest{
		HospitalClave: "VZIM002330", HospitalNombre: "Rafael Lucio", Categoria: "material", FechaEnvio: "2025-05-01",
		Items: []entity.LineItem{
			{Clave: "R-1", Descripcion: "Resina", Stock: "4", Manual: true},
			{Clave: "R-2", Color: "A2"},
		},
	})
	require.NoError(t, err)

	rows, err := m.ReportRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, first.ID, rows[0].SubmissionID)
	assert.Equal(t, "R-1", rows[0].Clave)
	assert.Equal(t, "true", rows[0].Manual)
	assert.Equal(t, "", rows[1].Manual)
	assert.Equal(t, "A2", rows[1].Color)
	assert.Equal(t, "2025-05-01", rows[1].FechaEnvio)
	assert.Equal(t, first.SavedAt, rows[1].ReceivedAt)
}

func TestReportRows_EnvioSinItemsDaFilaVacia(t *testing.T) {
	store, err := filestore.New(t.TempDir(), nil)
	require.NoError(t, err)
	// Los envíos sin ítems solo pueden venir de datos históricos: el Manager los rechaza.
	_, err = store.Append(context.Background(), &entity.Submission{HospitalClave: "K", Categoria: "c", FechaEnvio: "2024-01-01"})
	require.NoError(t, err)

	m := inventory.NewManager(store, nil)
	rows, err := m.ReportRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "K", rows[0].HospitalClave)
	assert.Equal(t, "", rows[0].Clave)
	assert.Equal(t, "", rows[0].Manual)
}

type stubRenderer struct{ calls int }

func (r *stubRenderer) Format() string      { return "txt" }
func (r *stubRenderer) ContentType() string { return "text/plain" }
func (r *stubRenderer) Extension() string   { return "txt" }
func (r *stubRenderer) Render(_ context.Context, rows []entity.ReportRow) ([]byte, error) {
	r.calls++
	return []byte(strings.Repeat("x", len(rows))), nil
}

func TestReportUseCase_Generate(t *testing.T) {
	m := newFileManager(t)
	renderer := &stubRenderer{}
	uc := inventory.NewReportUseCase(m, renderer)
	ctx := context.Background()

	_, err := uc.Generate(ctx, "txt")
	assert.True(t, errors.Is(err, inventory.ErrEmptyReport))
	assert.Zero(t, renderer.calls)

	_, err = m.Submit(ctx, dto.SubmitRequest{Categoria: "c", Items: []entity.LineItem{{Clave: "a"}, {Clave: "b"}}})
	require.NoError(t, err)

	rep, err := uc.Generate(ctx, " TXT ")
	require.NoError(t, err)
	assert.Equal(t, "xx", string(rep.Data))
	assert.Equal(t, "text/plain", rep.ContentType)
	assert.Regexp(t, `^report_submissions_\d{4}-\d{2}-\d{2}_\d{2}_\d{2}_\d{2}\.txt$`, rep.Filename)

	_, err = uc.Generate(ctx, "xml")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReportFilename(t *testing.T) {
	at := time.Date(2025, 6, 7, 8, 9, 10, 0, time.FixedZone("CST", -6*3600))
	assert.Equal(t, "report_submissions_2025-06-07_14_09_10.csv", inventory.ReportFilename(at, "csv"))
}
