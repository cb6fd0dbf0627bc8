package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse estado del servicio.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	TS      string `json:"ts"`
	Storage string `json:"storage"`
}
