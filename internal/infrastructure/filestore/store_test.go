package filestore_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estomatologia-api/internal/domain/entity"
	"github.com/jhoicas/estomatologia-api/internal/domain/repository"
	"github.com/jhoicas/estomatologia-api/internal/infrastructure/filestore"
	"github.com/jhoicas/estomatologia-api/internal/infrastructure/storagetest"
	"github.com/jhoicas/estomatologia-api/pkg/logger"
)

func newStore(t *testing.T) *filestore.Store {
	t.Helper()
	s, err := filestore.New(t.TempDir(), logger.Nop())
	require.NoError(t, err)
	return s
}

func TestFileStore_Contrato(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) repository.Storage { return newStore(t) })
}

func TestNew_CreaEstructura(t *testing.T) {
	root := filepath.Join(t.TempDir(), "data")
	_, err := filestore.New(root, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "submissions.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	info, err := os.Stat(filepath.Join(root, "inventories"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestUpsert_UnSoloArchivoPorClave(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Upsert(ctx, &entity.InventorySnapshot{Key: "VZIM002330", Categoria: "material", Items: []entity.LineItem{{Clave: "x"}}})
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(filepath.Join(s.Root(), "inventories"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "la política de sobrescritura deja un solo documento por clave")
	assert.Equal(t, filepath.Base(s.SnapshotPath("VZIM002330", "material")), entries[0].Name())
}

func TestSubmissionsCorrupto_SeReiniciaYSeRegistra(t *testing.T) {
	root := t.TempDir()
	var buf bytes.Buffer
	s, err := filestore.New(root, logger.New(logger.Config{Env: "production", Output: &buf}))
	require.NoError(t, err)

	path := filepath.Join(root, "submissions.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": "roto"`), 0o644))

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data), "el archivo queda vacío pero válido")
	assert.Contains(t, buf.String(), "corrupto")

	matches, _ := filepath.Glob(path + ".corrupt-*")
	assert.Len(t, matches, 1, "el contenido dañado se aparta, no se borra")

	_, err = s.Append(context.Background(), &entity.Submission{Categoria: "c", Items: []entity.LineItem{{Clave: "a"}}})
	require.NoError(t, err)
	list, err = s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSnapshotCorrupto_SeTrataComoAusente(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	path := s.SnapshotPath("K", "c")
	require.NoError(t, os.WriteFile(path, []byte("{no es json"), 0o644))

	got, err := s.Get(ctx, "K", "c")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = s.Upsert(ctx, &entity.InventorySnapshot{Key: "K", Categoria: "c", Items: []entity.LineItem{{UID: "a"}}})
	require.NoError(t, err)
	got, err = s.Get(ctx, "K", "c")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a", got.Items[0].UID)
}

func TestSnapshot_FormatoEnDisco(t *testing.T) {
	s := newStore(t)
	_, err := s.Upsert(context.Background(), &entity.InventorySnapshot{
		Key: "VZIM000254", HospitalClave: "VZIM000254", HospitalNombre: "Hospital de la Comunidad de Alvarado",
		Categoria: "material", Items: []entity.LineItem{{UID: "u1", Clave: "R-1", Manual: true}},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(s.SnapshotPath("VZIM000254", "material"))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "VZIM000254", doc["hospitalClave"])
	assert.Equal(t, "material", doc["categoria"])
	assert.NotEmpty(t, doc["savedAt"])
	items := doc["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, true, items[0].(map[string]any)["manual"])
	assert.NotContains(t, doc, "id")
}
