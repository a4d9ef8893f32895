package entity

import "time"

// Company representa una organización/tenant del sistema. Todo producto, usuario y solicitud pertenece a una.
type Company struct {
	ID                string
	Name              string
	DirectorGeneralID string // vacío hasta que se registra el director
	Status            string // active, suspended
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Estados de empresa.
const (
	CompanyStatusActive    = "active"
	CompanyStatusSuspended = "suspended"
)
