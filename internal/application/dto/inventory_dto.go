package dto

import "github.com/jhoicas/estomatologia-api/internal/domain/entity"

// SubmitRequest cuerpo de POST /submit. Token es la credencial opcional "_token" del formulario.
type SubmitRequest struct {
	HospitalClave  string            `json:"hospitalClave"`
	HospitalNombre string            `json:"hospitalNombre"`
	Categoria      string            `json:"categoria"`
	FechaEnvio     string            `json:"fechaEnvio"`
	Items          []entity.LineItem `json:"items"`
	Token          string            `json:"_token,omitempty"`
}

// SubmitResponse respuesta de POST /submit.
type SubmitResponse struct {
	OK      bool   `json:"ok"`
	ID      string `json:"id"`
	SavedAt string `json:"savedAt"`
}

// SaveInventoryRequest cuerpo de POST /inventory.
type SaveInventoryRequest struct {
	HospitalClave  string            `json:"hospitalClave"`
	HospitalNombre string            `json:"hospitalNombre"`
	Categoria      string            `json:"categoria"`
	Items          []entity.LineItem `json:"items"`
	Token          string            `json:"_token,omitempty"`
}

// SaveInventoryResponse respuesta de POST /inventory. Key es la clave con la que quedó guardado.
type SaveInventoryResponse struct {
	OK      bool   `json:"ok"`
	SavedAt string `json:"savedAt"`
	Key     string `json:"key"`
}

// InventoryQuery parámetros de GET /inventory.
type InventoryQuery struct {
	HospitalClave  string `query:"hospitalClave"`
	HospitalNombre string `query:"hospitalNombre"`
	Categoria      string `query:"categoria"`
}

// DeleteItemsRequest cuerpo de DELETE /inventory/items.
type DeleteItemsRequest struct {
	HospitalClave  string   `json:"hospitalClave"`
	HospitalNombre string   `json:"hospitalNombre"`
	Categoria      string   `json:"categoria"`
	UIDs           []string `json:"uids"`
	Token          string   `json:"_token,omitempty"`
}

// DeleteItemsResponse respuesta de DELETE /inventory/items.
type DeleteItemsResponse struct {
	OK        bool `json:"ok"`
	Modified  bool `json:"modified"`
	Remaining int  `json:"remaining"`
}
