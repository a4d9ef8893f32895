package entity

import "time"

// TransferRecord coordinación de un traslado aprobado. Solo alimenta reportes; no mueve stock.
type TransferRecord struct {
	ID               string
	CompanyID        string
	RequestID        string
	ProductName      string
	OriginSite       string
	DestinationSite  string
	Date             time.Time
	Reason           string
	ResponsibleParty string
	CreatedBy        string
	CreatedAt        time.Time
}
