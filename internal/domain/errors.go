package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los adaptadores de almacenamiento envuelven la causa real y la unen al sentinel
// correspondiente, de modo que los llamadores solo usan errors.Is.
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrStorageWrite  = errors.New("error escribiendo en almacenamiento")
	ErrStorageRead   = errors.New("error leyendo almacenamiento")
	ErrMalformedData = errors.New("datos almacenados corruptos")
)

// StorageWriteError une la causa con ErrStorageWrite.
func StorageWriteError(cause error) error {
	if cause == nil {
		return nil
	}
	return errors.Join(ErrStorageWrite, cause)
}

// StorageReadError une la causa con ErrStorageRead.
func StorageReadError(cause error) error {
	if cause == nil {
		return nil
	}
	return errors.Join(ErrStorageRead, cause)
}
