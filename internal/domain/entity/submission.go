package entity

import (
	"sort"
	"time"
)

// Submission es un reporte histórico de inventario enviado por un hospital.
// Se crea una sola vez y nunca se modifica ni se borra.
type Submission struct {
	ID             string     `json:"id"`
	HospitalClave  string     `json:"hospitalClave"`
	HospitalNombre string     `json:"hospitalNombre"`
	Categoria      string     `json:"categoria"`
	FechaEnvio     string     `json:"fechaEnvio"`
	Items          []LineItem `json:"items"`
	ReceivedAt     time.Time  `json:"receivedAt"`
}

// EffectiveTime es receivedAt, o fechaEnvio si receivedAt no está asignado.
// Una fechaEnvio que no es RFC 3339 cuenta como la fecha cero.
func (s *Submission) EffectiveTime() time.Time {
	if !s.ReceivedAt.IsZero() {
		return s.ReceivedAt
	}
	if t, err := time.Parse(time.RFC3339Nano, s.FechaEnvio); err == nil {
		return t
	}
	return time.Time{}
}

// SortNewestFirst ordena in place una lista que viene en orden de inserción:
// descendente por EffectiveTime; en empate, el insertado después va primero.
func SortNewestFirst(list []*Submission) {
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].EffectiveTime().After(list[j].EffectiveTime())
	})
}
