package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"` // errores de validación por campo
}

// MessageResponse respuesta simple con mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}

// CountResponse conteo genérico (p. ej. productos reclasificados o importados).
type CountResponse struct {
	Count int `json:"count"`
}
