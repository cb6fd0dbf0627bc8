package metrics_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estomatologia-api/internal/domain/repository"
	"github.com/jhoicas/estomatologia-api/internal/infrastructure/filestore"
	"github.com/jhoicas/estomatologia-api/internal/infrastructure/metrics"
	"github.com/jhoicas/estomatologia-api/internal/infrastructure/storagetest"
)

func TestMiddleware_RutaYCodigo(t *testing.T) {
	m := metrics.New(metrics.Config{ServiceName: "test", Environment: "test"})
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/submissions/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })
	app.Get("/metrics", m.Handler())

	for _, id := range []string{"a", "b", "c"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/submissions/"+id, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	out := string(body)
	assert.Contains(t, out, `estomatologia_http_requests_total{env="test",method="GET",route="/submissions/:id",service="test",status_code="404"} 3`)
	assert.Contains(t, out, "go_goroutines")
}

func TestInstrumentStorage_Contrato(t *testing.T) {
	m := metrics.New(metrics.Config{})
	storagetest.Run(t, func(t *testing.T) repository.Storage {
		s, err := filestore.New(t.TempDir(), nil)
		require.NoError(t, err)
		return metrics.InstrumentStorage(s, m)
	})
}

func TestInstrumentStorage_CuentaResultados(t *testing.T) {
	m := metrics.New(metrics.Config{})
	s, err := filestore.New(t.TempDir(), nil)
	require.NoError(t, err)
	store := metrics.InstrumentStorage(s, m)
	assert.Equal(t, filestore.Driver, store.Driver())

	ctx := context.Background()
	_, _ = store.FindByID(ctx, "no-existe")
	_, _ = store.List(ctx)

	out := scrape(t, m)
	assert.Contains(t, out, `estomatologia_storage_operations_total{driver="file",env="unknown",op="find_submission",result="not_found",service="estomatologia-api"} 1`)
	assert.Contains(t, out, `estomatologia_storage_operations_total{driver="file",env="unknown",op="list_submissions",result="ok",service="estomatologia-api"} 1`)
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	app := fiber.New()
	app.Get("/metrics", m.Handler())
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestInstrumentStorage_SinMetricas(t *testing.T) {
	s, err := filestore.New(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Same(t, s, metrics.InstrumentStorage(s, nil))

	var m *metrics.Metrics
	assert.NotPanics(t, func() { m.ObserveStorage("file", "x", "ok", 0) })
}
