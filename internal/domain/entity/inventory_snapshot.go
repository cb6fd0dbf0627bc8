package entity

import "time"

// InventorySnapshot es el último estado conocido de stock para un par (hospital, categoría).
// Key es la clave derivada del hospital; HospitalClave/HospitalNombre se guardan solo para mostrar.
type InventorySnapshot struct {
	ID             int64      `json:"id,omitempty"`
	Key            string     `json:"key"`
	HospitalClave  string     `json:"hospitalClave"`
	HospitalNombre string     `json:"hospitalNombre"`
	Categoria      string     `json:"categoria"`
	Items          []LineItem `json:"items"`
	SavedAt        time.Time  `json:"savedAt"`
}

// DeleteResult resultado de borrar ítems de un snapshot por uid.
type DeleteResult struct {
	Modified  bool `json:"modified"`
	Remaining int  `json:"remaining"`
}
