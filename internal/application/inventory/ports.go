package inventory

import (
	"context"

	"github.com/jhoicas/estomatologia-api/internal/domain/entity"
)

// ReportRenderer serializa las filas del reporte de envíos en un formato descargable.
type ReportRenderer interface {
	// Format nombre usado en ?format= (csv, json, pdf).
	Format() string
	ContentType() string
	Extension() string
	Render(ctx context.Context, rows []entity.ReportRow) ([]byte, error)
}
