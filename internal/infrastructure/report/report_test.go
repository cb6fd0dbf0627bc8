package report_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estomatologia-api/internal/domain/entity"
	"github.com/jhoicas/estomatologia-api/internal/infrastructure/report"
)

var sampleRows = []entity.ReportRow{
	{
		SubmissionID: "s1", ReceivedAt: "2025-05-01T10:00:00.000Z", HospitalNombre: "Hospital General Isla",
		HospitalClave: "VZIM015411", Categoria: "material", FechaEnvio: "2025-05-01",
		Clave: "R-1", Descripcion: `Resina "A2", 4g`, Stock: "3", Manual: "true",
	},
	{
		SubmissionID: "s1", ReceivedAt: "2025-05-01T10:00:00.000Z", HospitalNombre: "Hospital General Isla",
		HospitalClave: "VZIM015411", Categoria: "material", FechaEnvio: "2025-05-01",
		Clave: "R-2", Observaciones: "caja\nabierta",
	},
}

func TestCSV_CabeceraYEscapado(t *testing.T) {
	data, err := report.NewCSVRenderer().Render(context.Background(), sampleRows)
	require.NoError(t, err)

	out := string(data)
	assert.False(t, strings.HasSuffix(out, "\r\n"))
	lines := strings.SplitN(out, "\r\n", 2)
	assert.Equal(t, strings.Join(entity.ReportColumns, ","), lines[0])
	assert.Contains(t, out, `"Resina ""A2"", 4g"`)
	assert.Contains(t, out, `"caja`+"\r\n"+`abierta"`)
	assert.Contains(t, out, ",R-1,")
	assert.True(t, strings.HasSuffix(strings.SplitN(lines[1], "\r\n", 2)[0], ",,true"))
}

func TestCSV_SoloCabecera(t *testing.T) {
	data, err := report.NewCSVRenderer().Render(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(entity.ReportColumns, ","), string(data))
}

func TestJSON_Indentado(t *testing.T) {
	data, err := report.NewJSONRenderer().Render(context.Background(), sampleRows)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n    \"submissionId\": \"s1\"")

	var back []map[string]string
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back, 2)
	assert.Len(t, back[0], len(entity.ReportColumns))
	assert.Equal(t, "true", back[0]["manual"])
}

func TestRenderers_Metadatos(t *testing.T) {
	csvR := report.NewCSVRenderer()
	assert.Equal(t, "csv", csvR.Format())
	assert.Equal(t, "text/csv; charset=utf-8", csvR.ContentType())
	jsonR := report.NewJSONRenderer()
	assert.Equal(t, "json", jsonR.Extension())
}

func TestRender_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := report.NewJSONRenderer().Render(ctx, sampleRows)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = report.NewCSVRenderer().Render(ctx, sampleRows)
	assert.ErrorIs(t, err, context.Canceled)
}
