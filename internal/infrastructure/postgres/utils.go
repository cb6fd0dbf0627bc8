package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// dbNow hora actual truncada a microsegundos (precisión de timestamptz), así el savedAt
// devuelto al llamador es idéntico al guardado.
func dbNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
