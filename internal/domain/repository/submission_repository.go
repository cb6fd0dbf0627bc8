package repository

import (
	"context"

	"github.com/jhoicas/estomatologia-api/internal/domain/entity"
)

// SubmissionRepository define el puerto para el registro histórico de envíos (solo anexar).
type SubmissionRepository interface {
	// Append asigna ID y ReceivedAt si faltan, asigna uid a los ítems y persiste el envío.
	// Nunca sobrescribe envíos previos.
	Append(ctx context.Context, s *entity.Submission) (string, error)
	// List devuelve todos los envíos, el más reciente primero. Lista vacía si no hay datos.
	List(ctx context.Context) ([]*entity.Submission, error)
	// FindByID devuelve domain.ErrNotFound si el id no existe.
	FindByID(ctx context.Context, id string) (*entity.Submission, error)
}
