package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// writeJSONAtomic escribe v indentado en un temporal del mismo directorio y lo renombra sobre path.
// Un lector nunca ve un archivo a medio escribir.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serializar %s: %w", filepath.Base(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("crear temporal: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("escribir temporal: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temporal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cerrar temporal: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renombrar %s: %w", filepath.Base(path), err)
	}
	return nil
}

// quarantine aparta un archivo corrupto con sufijo .corrupt-<unix> para no perder la evidencia.
func quarantine(path string, stamp int64) (string, error) {
	dst := fmt.Sprintf("%s.corrupt-%d", path, stamp)
	if err := os.Rename(path, dst); err != nil {
		return "", err
	}
	return dst, nil
}
