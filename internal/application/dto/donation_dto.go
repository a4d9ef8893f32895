package dto

import "time"

// DonationResponse registro de donación.
type DonationResponse struct {
	ID                    string    `json:"id"`
	RequestID             string    `json:"solicitud_id"`
	ProductID             string    `json:"producto_id"`
	ProductName           string    `json:"nombre_producto"`
	Quantity              int       `json:"cantidad_donada"`
	OriginSite            string    `json:"sede_salida"`
	ReceivingOrganization string    `json:"organizacion_receptora"`
	Date                  time.Time `json:"fecha"`
	RequestedBy           string    `json:"solicitado_por"`
	State                 string    `json:"estado"`
}

// DonationListResponse listado de donaciones.
type DonationListResponse struct {
	Items []DonationResponse `json:"items"`
	Total int                `json:"total"`
}
