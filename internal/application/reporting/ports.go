package reporting

import "github.com/protrack/protrack-api/internal/application/dto"

// WorkbookRenderer genera los libros .xlsx de cada informe.
type WorkbookRenderer interface {
	Reception(r *dto.ReceptionReport) ([]byte, error)
	Transfers(r *dto.TransfersReport) ([]byte, error)
	Accounting(r *dto.AccountingReport) ([]byte, error)
	Inventory(r *dto.InventoryReport) ([]byte, error)
}

// InventoryPDFRenderer genera el informe de inventario en PDF.
type InventoryPDFRenderer interface {
	InventoryPDF(companyName string, r *dto.InventoryReport) ([]byte, error)
}

// File archivo exportado listo para enviar como descarga.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Informes exportables (segmento de ruta de /api/informes/:informe).
const (
	ReportReception  = "recepcion"
	ReportTransfers  = "traslados"
	ReportAccounting = "contabilidad"
	ReportInventory  = "inventario"
)

// Formatos de salida.
const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)
