package entity

import "time"

// RequestKind tipo de solicitud.
type RequestKind string

const (
	RequestReplenishment RequestKind = "Reabastecimiento"
	RequestTransfer      RequestKind = "Traslado"
	RequestDonation      RequestKind = "Donación"
)

// Valid indica si k es un tipo de solicitud conocido.
func (k RequestKind) Valid() bool {
	return k == RequestReplenishment || k == RequestTransfer || k == RequestDonation
}

// RequestState estado del flujo de revisión.
type RequestState string

const (
	RequestPending   RequestState = "Pendiente"
	RequestDelegated RequestState = "Delegada"
	RequestApproved  RequestState = "Aprobada"
	RequestRejected  RequestState = "Rechazada"
)

// Terminal indica si el estado ya no admite transiciones.
func (s RequestState) Terminal() bool {
	return s == RequestApproved || s == RequestRejected
}

// Actionable indica si una solicitud en este estado todavía puede revisarse.
func (s RequestState) Actionable() bool {
	return s == RequestPending || s == RequestDelegated
}

// Request es una solicitud de reabastecimiento, traslado o donación sujeta a revisión.
type Request struct {
	ID                    string
	CompanyID             string
	Kind                  RequestKind
	ProductID             string
	ProductName           string // desnormalizado al crear
	Quantity              int
	Reason                string
	OriginSite            string // Traslado y Donación (sede de salida)
	DestinationSite       string // Traslado
	ReceivingOrganization string // Donación
	State                 RequestState
	RequestedBy           string
	ReviewedBy            string
	RequestedAt           time.Time
	ReviewedAt            *time.Time
	ReviewNotes           string
	DonationID            string // Donación: registro paralelo en donaciones
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
