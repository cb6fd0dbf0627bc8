// Package report serializa las filas del reporte de envíos en CSV y JSON.
package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/jhoicas/estomatologia-api/internal/domain/entity"
)

// CSVRenderer una línea de cabecera y una por fila, separadas por CRLF y sin CRLF final.
// Los campos con coma, comillas o saltos de línea van entre comillas dobles.
type CSVRenderer struct{}

// NewCSVRenderer construye el renderer.
func NewCSVRenderer() *CSVRenderer { return &CSVRenderer{} }

func (CSVRenderer) Format() string      { return "csv" }
func (CSVRenderer) ContentType() string { return "text/csv; charset=utf-8" }
func (CSVRenderer) Extension() string   { return "csv" }

func (CSVRenderer) Render(ctx context.Context, rows []entity.ReportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	if err := w.Write(entity.ReportColumns); err != nil {
		return nil, fmt.Errorf("csv: cabecera: %w", err)
	}
	for i, r := range rows {
		if i%500 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if err := w.Write(r.Values()); err != nil {
			return nil, fmt.Errorf("csv: fila %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\r\n")), nil
}
