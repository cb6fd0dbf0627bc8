// Package pdf genera la versión imprimible del reporte de envíos.
//
// Layout de la página A4 horizontal:
//
//	┌──────────────────────────────────────────────────────────────────────┐
//	│  TÍTULO + fecha de generación        │  total de envíos y de filas   │
//	│  ──────────────────────────────────────────────────────────────────  │
//	│  TABLA: Recibido | Hospital | Categoría | Clave | Descripción | ...  │
//	│  ──────────────────────────────────────────────────────────────────  │
//	│  PIE: leyenda                                                        │
//	└──────────────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/estomatologia-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
)

const gridSize = 24

// column una columna de la tabla: cabecera, ancho en la grilla de 24, tope de caracteres y valor.
type column struct {
	label string
	size  int
	max   int
	value func(r entity.ReportRow) string
}

var columns = []column{
	{"Recibido", 2, 10, func(r entity.ReportRow) string { return shortDate(r.ReceivedAt) }},
	{"Hospital", 4, 38, func(r entity.ReportRow) string { return nonEmpty(r.HospitalNombre, r.HospitalClave) }},
	{"Categoría", 2, 16, func(r entity.ReportRow) string { return r.Categoria }},
	{"Clave", 2, 14, func(r entity.ReportRow) string { return r.Clave }},
	{"Descripción", 4, 40, func(r entity.ReportRow) string { return r.Descripcion }},
	{"Stock", 1, 6, func(r entity.ReportRow) string { return r.Stock }},
	{"Mín.", 1, 6, func(r entity.ReportRow) string { return r.Minimo }},
	{"Fecha", 2, 12, func(r entity.ReportRow) string { return r.Fecha }},
	{"Días", 1, 5, func(r entity.ReportRow) string { return r.Dias }},
	{"Observaciones", 3, 30, func(r entity.ReportRow) string { return r.Observaciones }},
	{"Color", 1, 6, func(r entity.ReportRow) string { return r.Color }},
	{"Man.", 1, 4, func(r entity.ReportRow) string { return manualMark(r.Manual) }},
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa inventory.ReportRenderer usando Maroto v2.
type MarotoReportGenerator struct {
	now func() time.Time
}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator {
	return &MarotoReportGenerator{now: time.Now}
}

func (g *MarotoReportGenerator) Format() string      { return "pdf" }
func (g *MarotoReportGenerator) ContentType() string { return "application/pdf" }
func (g *MarotoReportGenerator) Extension() string   { return "pdf" }

// Render genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) Render(ctx context.Context, rows []entity.ReportRow) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithMaxGridSize(gridSize).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 7}).
		WithTitle("Reporte de envíos de inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(rows, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for i, r := range rows {
		if i%200 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		m.AddRows(tableDetailRow(r, i%2 == 1))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y fecha (izq), totales (der).
func headerRow(rows []entity.ReportRow, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(16).Add(
			text.New("REPORTE DE ENVÍOS DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(8).Add(
			text.New(fmt.Sprintf("Envíos: %d", countSubmissions(rows)), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
			}),
			text.New(fmt.Sprintf("Filas: %d", len(rows)), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla con fondo azul.
func tableHeaderRow() core.Row {
	cols := make([]core.Col, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 7, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(7).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRow: una fila por ítem; filas alternas sombreadas.
func tableDetailRow(r entity.ReportRow, striped bool) core.Row {
	cols := make([]core.Col, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, col.New(c.size).Add(text.New(clip(c.value(r), c.max), props.Text{
			Size: 6.5, Top: 1.5, Left: 1, Right: 1,
		})))
	}
	rw := row.New(6).Add(cols...)
	if striped {
		rw.WithStyle(&props.Cell{BackgroundColor: colorStripe})
	}
	return rw
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(gridSize).Add(
		text.New("Los textos largos se recortan; el reporte CSV o JSON contiene los valores completos.", props.Text{
			Size: 6.5, Color: colorGray, Top: 2,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func manualMark(v string) string {
	if v == "true" {
		return "Sí"
	}
	return ""
}

// shortDate deja solo la fecha de una marca ISO 8601.
func shortDate(s string) string {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.Format("2006-01-02")
	}
	return s
}

// clip recorta s a max runas, con "…" si hubo recorte.
func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func countSubmissions(rows []entity.ReportRow) int {
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		seen[r.SubmissionID] = struct{}{}
	}
	return len(seen)
}
