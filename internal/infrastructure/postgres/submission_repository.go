package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/estomatologia-api/internal/domain"
	"github.com/jhoicas/estomatologia-api/internal/domain/entity"
	"github.com/jhoicas/estomatologia-api/internal/domain/inventory"
	"github.com/jhoicas/estomatologia-api/internal/domain/repository"
	"github.com/jhoicas/estomatologia-api/pkg/logger"
)

var _ repository.SubmissionRepository = (*SubmissionRepo)(nil)

// SubmissionRepo implementación de SubmissionRepository sobre PostgreSQL.
// El envío completo se guarda en payload (JSONB); id y received_at van además en columnas.
type SubmissionRepo struct {
	q   Querier
	log *logger.Logger
}

// NewSubmissionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSubmissionRepository(q Querier, log *logger.Logger) *SubmissionRepo {
	if log == nil {
		log = logger.Nop()
	}
	return &SubmissionRepo{q: q, log: log}
}

// Append inserta el envío. La escritura no se cancela si el cliente se desconecta.
func (r *SubmissionRepo) Append(ctx context.Context, s *entity.Submission) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rec := *s
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = dbNow()
	}
	rec.ReceivedAt = rec.ReceivedAt.UTC().Truncate(time.Microsecond)
	rec.Items = inventory.AssignUIDs(rec.Items)

	payload, err := json.Marshal(&rec)
	if err != nil {
		return "", fmt.Errorf("serializar submission: %w", err)
	}
	query := `
		INSERT INTO submissions (id, payload, received_at)
		VALUES ($1, $2::jsonb, $3)`
	if _, err := r.q.Exec(context.WithoutCancel(ctx), query, rec.ID, string(payload), rec.ReceivedAt); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%w: id de submission duplicado", domain.ErrInvalidInput)
		}
		return "", domain.StorageWriteError(fmt.Errorf("insert submission: %w", err))
	}
	*s = rec
	return rec.ID, nil
}

// List devuelve los envíos por received_at descendente; empate por orden de inserción inverso.
func (r *SubmissionRepo) List(ctx context.Context) ([]*entity.Submission, error) {
	query := `
		SELECT id, payload, received_at
		FROM submissions
		ORDER BY received_at DESC, seq DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, domain.StorageReadError(fmt.Errorf("list submissions: %w", err))
	}
	defer rows.Close()

	list := []*entity.Submission{}
	for rows.Next() {
		var (
			id         string
			payload    []byte
			receivedAt time.Time
		)
		if err := rows.Scan(&id, &payload, &receivedAt); err != nil {
			return nil, domain.StorageReadError(fmt.Errorf("scan submission: %w", err))
		}
		list = append(list, r.decode(id, payload, receivedAt))
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageReadError(err)
	}
	return list, nil
}

// FindByID busca un envío; domain.ErrNotFound si no existe.
func (r *SubmissionRepo) FindByID(ctx context.Context, id string) (*entity.Submission, error) {
	query := `SELECT id, payload, received_at FROM submissions WHERE id = $1 LIMIT 1`
	var (
		rowID      string
		payload    []byte
		receivedAt time.Time
	)
	err := r.q.QueryRow(ctx, query, id).Scan(&rowID, &payload, &receivedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.StorageReadError(fmt.Errorf("get submission: %w", err))
	}
	return r.decode(rowID, payload, receivedAt), nil
}

// decode arma el envío desde la fila. Si el payload no tiene la forma esperada se registra
// la pérdida y se devuelve el envío solo con id y receivedAt, sin truncar la lista.
func (r *SubmissionRepo) decode(id string, payload []byte, receivedAt time.Time) *entity.Submission {
	s := &entity.Submission{}
	if err := json.Unmarshal(payload, s); err != nil {
		r.log.Warn().Str("submission_id", id).AnErr("cause", errors.Join(domain.ErrMalformedData, err)).
			Msg("payload de submission ilegible; se devuelve vacío")
		s = &entity.Submission{}
	}
	s.ID = id
	s.ReceivedAt = receivedAt.UTC()
	if s.Items == nil {
		s.Items = []entity.LineItem{}
	}
	return s
}
