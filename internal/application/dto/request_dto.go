package dto

import "time"

// CreateRequestRequest body de POST /api/solicitudes.
type CreateRequestRequest struct {
	Kind                  string `json:"tipo_solicitud" validate:"required,oneof=Reabastecimiento Traslado Donación"`
	ProductID             string `json:"producto_id" validate:"required"`
	Quantity              int    `json:"cantidad_solicitada" validate:"required,gt=0"`
	Reason                string `json:"motivo" validate:"max=1000"`
	OriginSite            string `json:"sede_origen"`
	DestinationSite       string `json:"sede_destino"`
	ReceivingOrganization string `json:"organizacion_receptora"`
}

// ReviewRequest body de aprobar/rechazar/delegar.
type ReviewRequest struct {
	Notes string `json:"notas_revision" validate:"max=1000"`
}

// CoordinateTransferRequest body de POST /api/solicitudes/:id/traslado.
type CoordinateTransferRequest struct {
	OriginSite       string    `json:"sede_origen"`
	DestinationSite  string    `json:"sede_destino"`
	Date             time.Time `json:"fecha"`
	Reason           string    `json:"motivo"`
	ResponsibleParty string    `json:"encargado"`
}

// RequestResponse solicitud y su estado de revisión.
type RequestResponse struct {
	ID                    string     `json:"id"`
	Kind                  string     `json:"tipo_solicitud"`
	ProductID             string     `json:"producto_id"`
	ProductName           string     `json:"nombre_producto"`
	Quantity              int        `json:"cantidad_solicitada"`
	Reason                string     `json:"motivo,omitempty"`
	OriginSite            string     `json:"sede_origen,omitempty"`
	DestinationSite       string     `json:"sede_destino,omitempty"`
	ReceivingOrganization string     `json:"organizacion_receptora,omitempty"`
	State                 string     `json:"estado"`
	RequestedBy           string     `json:"solicitado_por"`
	ReviewedBy            string     `json:"revisado_por,omitempty"`
	RequestedAt           time.Time  `json:"fecha_solicitud"`
	ReviewedAt            *time.Time `json:"fecha_revision,omitempty"`
	ReviewNotes           string     `json:"notas_revision,omitempty"`
	DonationID            string     `json:"donacion_id,omitempty"`
	// RequiresTransferCoordination se activa al aprobar un Traslado: falta registrar la coordinación.
	RequiresTransferCoordination bool `json:"requiere_coordinacion_traslado,omitempty"`
}

// RequestListResponse listado de solicitudes.
type RequestListResponse struct {
	Items []RequestResponse `json:"items"`
	Total int               `json:"total"`
}

// RequestStatsResponse conteo de solicitudes por estado.
type RequestStatsResponse struct {
	Pending   int `json:"pendientes"`
	Delegated int `json:"delegadas"`
	Approved  int `json:"aprobadas"`
	Rejected  int `json:"rechazadas"`
	Total     int `json:"total"`
}

// TransferRecordResponse traslado coordinado.
type TransferRecordResponse struct {
	ID               string    `json:"id"`
	RequestID        string    `json:"solicitud_id"`
	ProductName      string    `json:"nombre_producto"`
	OriginSite       string    `json:"sede_origen"`
	DestinationSite  string    `json:"sede_destino"`
	Date             time.Time `json:"fecha"`
	Reason           string    `json:"motivo,omitempty"`
	ResponsibleParty string    `json:"encargado"`
}
