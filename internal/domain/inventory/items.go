package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/estomatologia-api/internal/domain/entity"
)

// AssignUIDs devuelve una copia de items donde cada ítem sin uid recibe uno nuevo.
// Los uid existentes se conservan tal cual.
func AssignUIDs(items []entity.LineItem) []entity.LineItem {
	out := entity.CloneItems(items)
	for i := range out {
		if strings.TrimSpace(out[i].UID) == "" {
			out[i].UID = uuid.New().String()
		}
	}
	return out
}

// UIDSet construye el conjunto de uid a borrar ignorando los blancos. Los uid se comparan
// tal como se guardaron, sin recortar espacios.
func UIDSet(uids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(uids))
	for _, u := range uids {
		if strings.TrimSpace(u) != "" {
			set[u] = struct{}{}
		}
	}
	return set
}

// RemoveByUID quita los ítems cuyo uid pertenece a set, conservando el orden del resto.
// modified indica si al menos un ítem fue removido.
func RemoveByUID(items []entity.LineItem, set map[string]struct{}) (kept []entity.LineItem, modified bool) {
	kept = make([]entity.LineItem, 0, len(items))
	for _, it := range items {
		if _, ok := set[it.UID]; ok && it.UID != "" {
			modified = true
			continue
		}
		kept = append(kept, it)
	}
	return kept, modified
}
