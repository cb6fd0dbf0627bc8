package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/estomatologia-api/internal/domain/entity"
)

// JSONRenderer arreglo de filas indentado con dos espacios.
type JSONRenderer struct{}

// NewJSONRenderer construye el renderer.
func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

func (JSONRenderer) Format() string      { return "json" }
func (JSONRenderer) ContentType() string { return "application/json; charset=utf-8" }
func (JSONRenderer) Extension() string   { return "json" }

func (JSONRenderer) Render(ctx context.Context, rows []entity.ReportRow) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []entity.ReportRow{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return data, nil
}
