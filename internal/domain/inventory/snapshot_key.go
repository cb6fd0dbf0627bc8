// Package inventory contiene las reglas puras del inventario por hospital:
// derivación de la clave del snapshot, asignación de uid y borrado por conjunto de uid.
package inventory

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	fallbackKeyPrefix = "unknown-"
	maxSegmentLen     = 80
)

var unsafeSegmentChars = regexp.MustCompile(`[^A-Za-z0-9\-_]`)

// DeriveKey devuelve la clave del snapshot: hospitalClave recortada, si no hospitalNombre
// recortado, si no una clave generada única para la petición (generated = true).
func DeriveKey(hospitalClave, hospitalNombre string) (key string, generated bool) {
	if k := strings.TrimSpace(hospitalClave); k != "" {
		return k, false
	}
	if k := strings.TrimSpace(hospitalNombre); k != "" {
		return k, false
	}
	return fallbackKeyPrefix + uuid.New().String(), true
}

// LookupKey es la clave usada en lecturas y borrados: no genera claves de respaldo,
// devuelve "" si ningún campo viene informado.
func LookupKey(hospitalClave, hospitalNombre string) string {
	if k := strings.TrimSpace(hospitalClave); k != "" {
		return k
	}
	return strings.TrimSpace(hospitalNombre)
}

// SafeSegment convierte s en un segmento válido de nombre de archivo.
// No es inyectiva por sí sola; SnapshotFileName añade un hash para evitar colisiones.
func SafeSegment(s string) string {
	if s == "" {
		return "unknown"
	}
	seg := unsafeSegmentChars.ReplaceAllString(s, "_")
	if len(seg) > maxSegmentLen {
		seg = seg[:maxSegmentLen]
	}
	return seg
}

// SnapshotFileName nombre determinista del archivo de un snapshot (key, categoria).
// El sufijo es el SHA-256 truncado de ambos valores originales: dos pares distintos que
// sanean al mismo segmento ("a/b" y "a_b") producen archivos distintos.
func SnapshotFileName(key, categoria string) string {
	h := sha256.New()
	h.Write([]byte(key))
	h.Write([]byte{0})
	h.Write([]byte(categoria))
	sum := hex.EncodeToString(h.Sum(nil))[:16]
	return SafeSegment(key) + "--" + SafeSegment(categoria) + "--" + sum + ".json"
}
