package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/estomatologia-api/internal/application/dto"
	"github.com/jhoicas/estomatologia-api/internal/domain"
	"github.com/jhoicas/estomatologia-api/internal/domain/entity"
	"github.com/jhoicas/estomatologia-api/internal/domain/inventory"
	"github.com/jhoicas/estomatologia-api/internal/domain/repository"
	"github.com/jhoicas/estomatologia-api/pkg/logger"
)

// TimeLayout formato ISO 8601 en UTC con milisegundos usado en las respuestas y en fechaEnvio por defecto.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Manager casos de uso de envíos e inventarios sobre un backend de almacenamiento.
// El backend se elige una vez al arrancar; el Manager no sabe cuál es.
type Manager struct {
	store repository.Storage
	log   *logger.Logger
	now   func() time.Time
}

// NewManager construye el caso de uso.
func NewManager(store repository.Storage, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		store: store,
		log:   log.Component("inventory"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Driver nombre del backend activo.
func (m *Manager) Driver() string { return m.store.Driver() }

// Submit registra un envío histórico.
func (m *Manager) Submit(ctx context.Context, in dto.SubmitRequest) (*dto.SubmitResponse, error) {
	categoria, err := validateWrite(in.Categoria, in.Items)
	if err != nil {
		return nil, err
	}
	fecha := strings.TrimSpace(in.FechaEnvio)
	if fecha == "" {
		fecha = m.now().Format(TimeLayout)
	}
	sub := &entity.Submission{
		HospitalClave:  strings.TrimSpace(in.HospitalClave),
		HospitalNombre: strings.TrimSpace(in.HospitalNombre),
		Categoria:      categoria,
		FechaEnvio:     fecha,
		Items:          in.Items,
	}
	id, err := m.store.Append(ctx, sub)
	if err != nil {
		return nil, err
	}
	m.log.Info().Str("submission_id", id).Str("hospital", sub.HospitalClave).Str("categoria", categoria).
		Int("items", len(sub.Items)).Msg("envío registrado")
	return &dto.SubmitResponse{OK: true, ID: id, SavedAt: sub.ReceivedAt.UTC().Format(TimeLayout)}, nil
}

// ListSubmissions devuelve todos los envíos, del más reciente al más antiguo.
func (m *Manager) ListSubmissions(ctx context.Context) ([]*entity.Submission, error) {
	return m.store.List(ctx)
}

// GetSubmission busca un envío por id.
func (m *Manager) GetSubmission(ctx context.Context, id string) (*entity.Submission, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrNotFound
	}
	return m.store.FindByID(ctx, id)
}

// SaveInventory reemplaza el snapshot vigente de (hospital, categoría).
func (m *Manager) SaveInventory(ctx context.Context, in dto.SaveInventoryRequest) (*dto.SaveInventoryResponse, error) {
	categoria, err := validateWrite(in.Categoria, in.Items)
	if err != nil {
		return nil, err
	}
	key, generated := inventory.DeriveKey(in.HospitalClave, in.HospitalNombre)
	if generated {
		m.log.Warn().Str("key", key).Msg("inventario sin hospitalClave ni hospitalNombre; se usa clave generada")
	}
	snap := &entity.InventorySnapshot{
		Key:            key,
		HospitalClave:  strings.TrimSpace(in.HospitalClave),
		HospitalNombre: strings.TrimSpace(in.HospitalNombre),
		Categoria:      categoria,
		Items:          in.Items,
	}
	savedAt, err := m.store.Upsert(ctx, snap)
	if err != nil {
		return nil, err
	}
	return &dto.SaveInventoryResponse{OK: true, SavedAt: savedAt.UTC().Format(TimeLayout), Key: key}, nil
}

// GetInventory devuelve el snapshot vigente, o nil si no hay datos o faltan parámetros.
func (m *Manager) GetInventory(ctx context.Context, q dto.InventoryQuery) (*entity.InventorySnapshot, error) {
	key := inventory.LookupKey(q.HospitalClave, q.HospitalNombre)
	categoria := strings.TrimSpace(q.Categoria)
	if key == "" || categoria == "" {
		return nil, nil
	}
	return m.store.Get(ctx, key, categoria)
}

// DeleteInventoryItems quita ítems del snapshot vigente por uid. Es una corrección:
// no crea historial nuevo.
func (m *Manager) DeleteInventoryItems(ctx context.Context, in dto.DeleteItemsRequest) (*dto.DeleteItemsResponse, error) {
	key := inventory.LookupKey(in.HospitalClave, in.HospitalNombre)
	categoria := strings.TrimSpace(in.Categoria)
	if key == "" {
		return nil, fmt.Errorf("%w: hospitalClave u hospitalNombre requerido", domain.ErrInvalidInput)
	}
	if categoria == "" {
		return nil, fmt.Errorf("%w: categoria requerida", domain.ErrInvalidInput)
	}
	uids := inventory.UIDSet(in.UIDs)
	if len(uids) == 0 {
		return nil, fmt.Errorf("%w: uids requerido", domain.ErrInvalidInput)
	}
	res, err := m.store.DeleteItems(ctx, key, categoria, uids)
	if err != nil {
		return nil, err
	}
	if res.Modified {
		m.log.Info().Str("key", key).Str("categoria", categoria).Int("remaining", res.Remaining).
			Msg("ítems eliminados del inventario")
	}
	return &dto.DeleteItemsResponse{OK: true, Modified: res.Modified, Remaining: res.Remaining}, nil
}

// ReportRows aplana los envíos en una fila por ítem; un envío sin ítems produce una fila
// con los campos del ítem vacíos.
func (m *Manager) ReportRows(ctx context.Context) ([]entity.ReportRow, error) {
	list, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]entity.ReportRow, 0, len(list))
	for _, s := range list {
		base := entity.ReportRow{
			SubmissionID:   s.ID,
			ReceivedAt:     s.FechaEnvio,
			HospitalNombre: s.HospitalNombre,
			HospitalClave:  s.HospitalClave,
			Categoria:      s.Categoria,
			FechaEnvio:     s.FechaEnvio,
		}
		if !s.ReceivedAt.IsZero() {
			base.ReceivedAt = s.ReceivedAt.UTC().Format(TimeLayout)
		}
		if len(s.Items) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, it := range s.Items {
			r := base
			r.Clave = it.Clave.String()
			r.Descripcion = it.Descripcion.String()
			r.Stock = it.Stock.String()
			r.Minimo = it.Minimo.String()
			r.Fecha = it.Fecha.String()
			r.Dias = it.Dias.String()
			r.Observaciones = it.Observaciones.String()
			r.Color = it.Color.String()
			r.Manual = it.Manual.ReportValue()
			rows = append(rows, r)
		}
	}
	return rows, nil
}

func validateWrite(categoria string, items []entity.LineItem) (string, error) {
	categoria = strings.TrimSpace(categoria)
	if categoria == "" {
		return "", fmt.Errorf("%w: categoria requerida", domain.ErrInvalidInput)
	}
	if len(items) == 0 {
		return "", fmt.Errorf("%w: items no puede estar vacío", domain.ErrInvalidInput)
	}
	return categoria, nil
}
