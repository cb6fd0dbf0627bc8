package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/estomatologia-api/internal/domain"
)

// ErrEmptyReport no hay envíos que reportar.
var ErrEmptyReport = errors.New("sin envíos para el reporte")

// DefaultReportFormat formato cuando la petición no indica uno.
const DefaultReportFormat = "csv"

// Report documento listo para descargar.
type Report struct {
	Data        []byte
	ContentType string
	Filename    string
}

// ReportUseCase genera el reporte de envíos en el formato pedido.
type ReportUseCase struct {
	manager   *Manager
	renderers map[string]ReportRenderer
	now       func() time.Time
}

// NewReportUseCase registra los renderers disponibles por su Format().
func NewReportUseCase(manager *Manager, renderers ...ReportRenderer) *ReportUseCase {
	byFormat := make(map[string]ReportRenderer, len(renderers))
	for _, r := range renderers {
		byFormat[r.Format()] = r
	}
	return &ReportUseCase{
		manager:   manager,
		renderers: byFormat,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Generate arma el reporte. Devuelve ErrEmptyReport si no hay envíos.
func (uc *ReportUseCase) Generate(ctx context.Context, format string) (*Report, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = DefaultReportFormat
	}
	renderer, ok := uc.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato de reporte no soportado %q", domain.ErrInvalidInput, format)
	}

	rows, err := uc.manager.ReportRows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyReport
	}

	data, err := renderer.Render(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("reporte %s: %w", format, err)
	}
	return &Report{
		Data:        data,
		ContentType: renderer.ContentType(),
		Filename:    ReportFilename(uc.now(), renderer.Extension()),
	}, nil
}

// ReportFilename report_submissions_<YYYY-MM-DD_HH_MM_SS>.<ext> en UTC.
func ReportFilename(at time.Time, ext string) string {
	return "report_submissions_" + at.UTC().Format("2006-01-02_15_04_05") + "." + ext
}
