// Package reporting agrega en modo solo lectura los datos del inventario para
// los informes de recepción, traslados, contabilidad e inventario y el tablero.
package reporting

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/protrack/protrack-api/internal/application/catalog"
	"github.com/protrack/protrack-api/internal/application/dto"
	"github.com/protrack/protrack-api/internal/application/workflow"
	"github.com/protrack/protrack-api/internal/domain"
	"github.com/protrack/protrack-api/internal/domain/access"
	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/internal/domain/repository"
)

// MonthLayout formato de la clave de agrupación mensual.
const MonthLayout = "2006-01"

// ExpirationWindow ventana para la alerta de producto próximo a vencer.
const ExpirationWindow = 30 * 24 * time.Hour

// Tipos de alerta del tablero.
const (
	AlertLowStock     = "Stock Bajo"
	AlertExcessStock  = "Exceso de Stock"
	AlertExpiringSoon = "Producto Próximo a Vencer"
)

// Repositories repositorios que consulta el agregador. Ninguno se usa para escribir.
type Repositories struct {
	Products   repository.ProductRepository
	Movements  repository.StockMovementRepository
	Accounting repository.AccountingRepository
	Transfers  repository.TransferRepository
	Requests   repository.RequestRepository
	Donations  repository.DonationRepository
	Users      repository.UserRepository
	Companies  repository.CompanyRepository
}

// ReportUseCase informes y tablero. Nunca modifica las entidades que lee.
type ReportUseCase struct {
	repos     Repositories
	workbooks WorkbookRenderer
	pdf       InventoryPDFRenderer
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso. workbooks y pdf pueden ser nil si no se exporta.
func NewReportUseCase(repos Repositories, workbooks WorkbookRenderer, pdf InventoryPDFRenderer) *ReportUseCase {
	return &ReportUseCase{repos: repos, workbooks: workbooks, pdf: pdf, now: time.Now}
}

// Reception productos con su información de ingreso, del ingreso más reciente al más antiguo.
func (uc *ReportUseCase) Reception(ctx context.Context, actor access.Actor, month string) (*dto.ReceptionReport, error) {
	if err := canReadReports(actor); err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}
	products, err := uc.repos.Products.List(ctx, actor.CompanyID, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	rows := make([]dto.ReceptionRow, 0, len(products))
	for _, p := range products {
		if month != "" && monthKey(p.EntryDate) != month {
			continue
		}
		rows = append(rows, dto.ReceptionRow{
			ProductID:      p.ID,
			Name:           p.Name,
			Category:       string(p.Category),
			Location:       p.Location,
			EntryKind:      p.EntryKind,
			EntryDate:      p.EntryDate,
			LotCount:       p.LotCount,
			LotSize:        p.LotSize,
			UnitsAcquired:  p.UnitsAcquired(),
			UnitCost:       p.UnitCost,
			ExpirationDate: p.ExpirationDate,
			Supplier:       p.Supplier,
			Notes:          p.Notes,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].EntryDate.After(rows[j].EntryDate) })
	return &dto.ReceptionReport{Month: month, Rows: rows}, nil
}

// Transfers traslados coordinados agrupados por mes (YYYY-MM), del más reciente al más antiguo.
func (uc *ReportUseCase) Transfers(ctx context.Context, actor access.Actor, month string) (*dto.TransfersReport, error) {
	if err := canReadReports(actor); err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}
	records, err := uc.repos.Transfers.List(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date.After(records[j].Date) })

	out := &dto.TransfersReport{Months: []dto.TransferMonth{}}
	index := map[string]int{}
	for _, t := range records {
		key := monthKey(t.Date)
		if month != "" && key != month {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(out.Months)
			index[key] = i
			out.Months = append(out.Months, dto.TransferMonth{Month: key})
		}
		out.Months[i].Rows = append(out.Months[i].Rows, *workflow.ToTransferRecordResponse(t))
	}
	return out, nil
}

// Accounting une los asientos contables con las devoluciones y pérdidas del ledger.
// Ingresos: Σ precio × unidades de todo lo que no es devolución ni pérdida. Pérdidas: Σ de esas dos.
func (uc *ReportUseCase) Accounting(ctx context.Context, actor access.Actor, month string) (*dto.AccountingReport, error) {
	if err := canReadReports(actor); err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}
	entries, err := uc.repos.Accounting.List(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	movements, err := uc.repos.Movements.List(ctx, actor.CompanyID, repository.MovementFilter{
		Kinds: []entity.MovementKind{entity.MovementReturn, entity.MovementLoss},
	})
	if err != nil {
		return nil, err
	}
	names, err := uc.productNames(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.AccountingRow, 0, len(entries)+len(movements))
	for _, e := range entries {
		rows = append(rows, dto.AccountingRow{
			ID:           e.ID,
			ProductName:  e.ProductName,
			MovementKind: e.MovementKind,
			Date:         e.Date,
			SalePrice:    e.SalePrice,
			Units:        e.UnitsSold,
			Total:        e.Total(),
		})
	}
	for _, m := range movements {
		price := decimal.Zero
		if m.SalePrice != nil {
			price = *m.SalePrice
		}
		name := names[m.ProductID]
		if name == "" {
			name = "Producto"
		}
		rows = append(rows, dto.AccountingRow{
			ID:           m.ID,
			ProductName:  name,
			MovementKind: string(m.Kind),
			Date:         m.MovedAt,
			SalePrice:    price,
			Units:        m.Quantity,
			Total:        price.Mul(decimal.NewFromInt(int64(m.Quantity))),
			Reason:       m.Reason,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.After(rows[j].Date) })

	out := &dto.AccountingReport{Months: []dto.AccountingMonth{}}
	index := map[string]int{}
	for _, r := range rows {
		key := monthKey(r.Date)
		if month != "" && key != month {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(out.Months)
			index[key] = i
			out.Months = append(out.Months, dto.AccountingMonth{Month: key})
		}
		m := &out.Months[i]
		m.Rows = append(m.Rows, r)
		if isLoss(r.MovementKind) {
			m.TotalLosses = m.TotalLosses.Add(r.Total)
			out.TotalLosses = out.TotalLosses.Add(r.Total)
		} else {
			m.TotalIncome = m.TotalIncome.Add(r.Total)
			out.TotalIncome = out.TotalIncome.Add(r.Total)
		}
	}
	out.NetBalance = out.TotalIncome.Sub(out.TotalLosses)
	return out, nil
}

// Inventory productos ordenados A < B < C y luego por fecha de entrada ascendente.
// month filtra por el mes de entrada; AvailableMonths siempre lista todos los meses con ingresos.
func (uc *ReportUseCase) Inventory(ctx context.Context, actor access.Actor, month string) (*dto.InventoryReport, error) {
	if err := canReadReports(actor); err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}
	products, err := uc.repos.Products.List(ctx, actor.CompanyID, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	months := map[string]bool{}
	selected := make([]*entity.Product, 0, len(products))
	for _, p := range products {
		key := monthKey(p.EntryDate)
		months[key] = true
		if month == "" || key == month {
			selected = append(selected, p)
		}
	}
	SortForInventory(selected)

	out := &dto.InventoryReport{
		Month:           month,
		AvailableMonths: make([]string, 0, len(months)),
		Rows:            make([]dto.ProductResponse, 0, len(selected)),
	}
	for k := range months {
		out.AvailableMonths = append(out.AvailableMonths, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out.AvailableMonths)))
	for _, p := range selected {
		out.Rows = append(out.Rows, *catalog.ToProductResponse(p))
		out.TotalValue = out.TotalValue.Add(p.TotalPurchaseValue())
	}
	return out, nil
}

// SortForInventory ordena por categoría (A < B < C) y, dentro de cada una, por fecha de entrada ascendente.
func SortForInventory(products []*entity.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		ri, rj := products[i].Category.Rank(), products[j].Category.Rank()
		if ri != rj {
			return ri < rj
		}
		return products[i].EntryDate.Before(products[j].EntryDate)
	})
}

// Dashboard agregados del tablero principal. Disponible para cualquier rol.
//
// Las consultas son independientes y se lanzan en paralelo.
func (uc *ReportUseCase) Dashboard(ctx context.Context, actor access.Actor) (*dto.DashboardResponse, error) {
	type productsResult struct {
		items []*entity.Product
		err   error
	}
	type countsResult struct {
		counts map[entity.RequestState]int
		err    error
	}
	type sizeResult struct {
		n   int
		err error
	}

	productsCh := make(chan productsResult, 1)
	countsCh := make(chan countsResult, 1)
	donationsCh := make(chan sizeResult, 1)
	usersCh := make(chan sizeResult, 1)

	go func() {
		items, err := uc.repos.Products.List(ctx, actor.CompanyID, repository.ProductFilter{})
		productsCh <- productsResult{items, err}
	}()
	go func() {
		counts, err := uc.repos.Requests.CountByState(ctx, actor.CompanyID)
		countsCh <- countsResult{counts, err}
	}()
	go func() {
		items, err := uc.repos.Donations.List(ctx, actor.CompanyID, entity.DonationPending)
		donationsCh <- sizeResult{len(items), err}
	}()
	go func() {
		items, err := uc.repos.Users.ListByCompany(ctx, actor.CompanyID)
		usersCh <- sizeResult{len(items), err}
	}()

	products := <-productsCh
	counts := <-countsCh
	donations := <-donationsCh
	users := <-usersCh

	if products.err != nil {
		return nil, fmt.Errorf("dashboard productos: %w", products.err)
	}
	if counts.err != nil {
		return nil, fmt.Errorf("dashboard solicitudes: %w", counts.err)
	}
	if donations.err != nil {
		return nil, fmt.Errorf("dashboard donaciones: %w", donations.err)
	}
	if users.err != nil {
		return nil, fmt.Errorf("dashboard usuarios: %w", users.err)
	}

	out := &dto.DashboardResponse{
		TotalProducts:    len(products.items),
		Categories:       SummarizeCategories(products.items),
		Alerts:           StockAlerts(products.items, uc.now()),
		Requests:         *workflow.StatsFromCounts(counts.counts),
		PendingDonations: donations.n,
		TotalUsers:       users.n,
	}
	for _, c := range out.Categories {
		out.TotalInventoryValue = out.TotalInventoryValue.Add(c.Value)
	}
	return out, nil
}

// SummarizeCategories conteo y valor por categoría; siempre devuelve A, B y C en ese orden.
func SummarizeCategories(products []*entity.Product) []dto.CategorySummary {
	out := []dto.CategorySummary{
		{Category: string(entity.CategoryA)},
		{Category: string(entity.CategoryB)},
		{Category: string(entity.CategoryC)},
	}
	for _, p := range products {
		i := p.Category.Rank() - 1
		if i < 0 || i >= len(out) {
			continue
		}
		out[i].Count++
		out[i].Value = out[i].Value.Add(p.TotalPurchaseValue())
	}
	return out
}

// StockAlerts alertas de stock bajo, exceso y vencimiento cercano. Un producto puede generar dos.
func StockAlerts(products []*entity.Product, now time.Time) []dto.StockAlert {
	alerts := []dto.StockAlert{}
	for _, p := range products {
		switch p.StockStatus() {
		case entity.StockStatusLow:
			alerts = append(alerts, dto.StockAlert{
				ProductID: p.ID, ProductName: p.Name, Kind: AlertLowStock,
				Detail: fmt.Sprintf("Disponible %d, mínimo %d", p.AvailableQuantity, p.MinThreshold),
			})
		case entity.StockStatusExcess:
			alerts = append(alerts, dto.StockAlert{
				ProductID: p.ID, ProductName: p.Name, Kind: AlertExcessStock,
				Detail: fmt.Sprintf("Disponible %d, máximo %d", p.AvailableQuantity, p.MaxThreshold),
			})
		}
		if p.ExpiresWithin(now, ExpirationWindow) {
			alerts = append(alerts, dto.StockAlert{
				ProductID: p.ID, ProductName: p.Name, Kind: AlertExpiringSoon,
				Detail: "Vence el " + p.ExpirationDate.Format("2006-01-02"),
			})
		}
	}
	return alerts
}

// Export genera el archivo de un informe en el formato pedido. PDF solo existe para inventario.
func (uc *ReportUseCase) Export(ctx context.Context, actor access.Actor, report string, q dto.ReportQuery) (*File, error) {
	stamp := uc.now().Format("2006-01-02")
	suffix := stamp
	if q.Month != "" {
		suffix = q.Month + "_" + stamp
	}
	switch q.Format {
	case FormatXLSX:
		if uc.workbooks == nil {
			return nil, fmt.Errorf("exportación xlsx no configurada")
		}
		data, err := uc.workbook(ctx, actor, report, q.Month)
		if err != nil {
			return nil, err
		}
		return &File{Name: fmt.Sprintf("informe_%s_%s.xlsx", report, suffix), ContentType: contentTypeXLSX, Data: data}, nil
	case FormatPDF:
		if report != ReportInventory {
			return nil, fmt.Errorf("%w: solo el informe de inventario se exporta en PDF", domain.ErrInvalidInput)
		}
		if uc.pdf == nil {
			return nil, fmt.Errorf("exportación pdf no configurada")
		}
		r, err := uc.Inventory(ctx, actor, q.Month)
		if err != nil {
			return nil, err
		}
		company, err := uc.repos.Companies.GetByID(ctx, actor.CompanyID)
		if err != nil {
			return nil, err
		}
		name := ""
		if company != nil {
			name = company.Name
		}
		data, err := uc.pdf.InventoryPDF(name, r)
		if err != nil {
			return nil, err
		}
		return &File{Name: fmt.Sprintf("informe_inventario_%s.pdf", suffix), ContentType: contentTypePDF, Data: data}, nil
	default:
		return nil, fmt.Errorf("%w: formato %q no exportable", domain.ErrInvalidInput, q.Format)
	}
}

func (uc *ReportUseCase) workbook(ctx context.Context, actor access.Actor, report, month string) ([]byte, error) {
	switch report {
	case ReportReception:
		r, err := uc.Reception(ctx, actor, month)
		if err != nil {
			return nil, err
		}
		return uc.workbooks.Reception(r)
	case ReportTransfers:
		r, err := uc.Transfers(ctx, actor, month)
		if err != nil {
			return nil, err
		}
		return uc.workbooks.Transfers(r)
	case ReportAccounting:
		r, err := uc.Accounting(ctx, actor, month)
		if err != nil {
			return nil, err
		}
		return uc.workbooks.Accounting(r)
	case ReportInventory:
		r, err := uc.Inventory(ctx, actor, month)
		if err != nil {
			return nil, err
		}
		return uc.workbooks.Inventory(r)
	default:
		return nil, fmt.Errorf("%w: informe %q desconocido", domain.ErrNotFound, report)
	}
}

func (uc *ReportUseCase) productNames(ctx context.Context, companyID string) (map[string]string, error) {
	products, err := uc.repos.Products.List(ctx, companyID, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return names, nil
}

func canReadReports(actor access.Actor) error {
	if actor.IsDirector() || actor.IsAdministrator() {
		return nil
	}
	return domain.ErrForbidden
}

func validateMonth(month string) error {
	if month == "" {
		return nil
	}
	if _, err := time.Parse(MonthLayout, month); err != nil {
		return fmt.Errorf("%w: mes debe tener formato YYYY-MM", domain.ErrInvalidInput)
	}
	return nil
}

func monthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

func isLoss(kind string) bool {
	return strings.EqualFold(kind, string(entity.MovementReturn)) || strings.EqualFold(kind, string(entity.MovementLoss))
}
