package entity

import "time"

// DonationState estado del registro paralelo de donación (vocabulario propio del módulo de donaciones).
type DonationState string

const (
	DonationPending  DonationState = "Pendiente"
	DonationApproved DonationState = "Aprobado"
	DonationRejected DonationState = "Denegado"
)

// Donation es el registro de donación ligado a una solicitud de tipo Donación.
type Donation struct {
	ID                    string
	CompanyID             string
	RequestID             string
	ProductID             string
	ProductName           string
	Quantity              int
	OriginSite            string
	ReceivingOrganization string
	Date                  time.Time
	RequestedBy           string
	State                 DonationState
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
