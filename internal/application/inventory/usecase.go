package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/protrack/protrack-api/internal/application/dto"
	"github.com/protrack/protrack-api/internal/domain"
	"github.com/protrack/protrack-api/internal/domain/access"
	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/internal/domain/repository"
)

// RecordMovementUseCase registra movimientos en el ledger de stock de forma transaccional,
// con bloqueo de fila del producto (SELECT FOR UPDATE) y Commit/Rollback.
type RecordMovementUseCase struct {
	txRunner TxRunner
	movRepo  repository.StockMovementRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewRecordMovementUseCase construye el caso de uso.
func NewRecordMovementUseCase(txRunner TxRunner, movRepo repository.StockMovementRepository, userRepo repository.UserRepository) *RecordMovementUseCase {
	return &RecordMovementUseCase{txRunner: txRunner, movRepo: movRepo, userRepo: userRepo, now: time.Now}
}

// RecordMovement valida la entrada, verifica stock y persiste el movimiento.
// Solo Pérdida descuenta cantidad_disponible; el resto queda para auditoría y reportes.
// registrado_por debe ser el propio actor salvo que lo registre el Director General.
func (uc *RecordMovementUseCase) RecordMovement(ctx context.Context, actor access.Actor, in dto.RecordMovementRequest) (*dto.MovementResponse, error) {
	kind := entity.MovementKind(strings.TrimSpace(in.Kind))
	productID := strings.TrimSpace(in.ProductID)
	recordedBy := strings.TrimSpace(in.RecordedBy)
	if kind == "" || productID == "" || in.Quantity == nil || recordedBy == "" {
		return nil, domain.ErrMissingRequiredField
	}
	qty := *in.Quantity
	if qty <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor a 0", domain.ErrInvalidInput)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: tipo de movimiento desconocido", domain.ErrInvalidInput)
	}
	origin, destination := strings.TrimSpace(in.OriginSite), strings.TrimSpace(in.DestinationSite)
	if kind == entity.MovementTransfer && (origin == "" || destination == "") {
		return nil, domain.ErrTransferMissingLocations
	}
	if in.SalePrice != nil && in.SalePrice.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: el precio de venta no puede ser negativo", domain.ErrInvalidInput)
	}
	if recordedBy != actor.UserID {
		if !actor.IsDirector() {
			return nil, domain.ErrForbidden
		}
		u, err := uc.userRepo.GetByID(ctx, recordedBy)
		if err != nil {
			return nil, err
		}
		if u == nil || u.CompanyID != actor.CompanyID {
			return nil, domain.ErrUserNotFound
		}
	}

	now := uc.now()
	mov := &entity.StockMovement{
		ID:              uuid.New().String(),
		CompanyID:       actor.CompanyID,
		Kind:            kind,
		ProductID:       productID,
		Quantity:        qty,
		OriginSite:      origin,
		DestinationSite: destination,
		Reason:          strings.TrimSpace(in.Reason),
		SalePrice:       in.SalePrice,
		RecordedBy:      recordedBy,
		MovedAt:         now,
		CreatedAt:       now,
	}
	if kind != entity.MovementTransfer {
		mov.OriginSite, mov.DestinationSite = "", ""
	}

	err := uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
		product, err := productRepo.GetByIDForUpdate(ctx, actor.CompanyID, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		if qty > product.AvailableQuantity {
			return fmt.Errorf("%w. Disponible: %d", domain.ErrInsufficientStock, product.AvailableQuantity)
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		if kind.DecrementsStock() {
			return productRepo.DecrementAvailable(ctx, actor.CompanyID, productID, qty)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(mov), nil
}

// List consulta el ledger con filtros de tipo, producto y rango de fechas (YYYY-MM-DD, hasta inclusive).
func (uc *RecordMovementUseCase) List(ctx context.Context, actor access.Actor, in dto.MovementFilterRequest) ([]dto.MovementResponse, error) {
	filter := repository.MovementFilter{ProductID: strings.TrimSpace(in.ProductID)}
	if in.Kind != "" {
		k := entity.MovementKind(in.Kind)
		if !k.Valid() {
			return nil, fmt.Errorf("%w: tipo de movimiento desconocido", domain.ErrInvalidInput)
		}
		filter.Kinds = []entity.MovementKind{k}
	}
	if in.From != "" {
		from, err := time.Parse("2006-01-02", in.From)
		if err != nil {
			return nil, fmt.Errorf("%w: fecha desde inválida", domain.ErrInvalidInput)
		}
		filter.From = &from
	}
	if in.To != "" {
		to, err := time.Parse("2006-01-02", in.To)
		if err != nil {
			return nil, fmt.Errorf("%w: fecha hasta inválida", domain.ErrInvalidInput)
		}
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}
	list, err := uc.movRepo.List(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *ToMovementResponse(m))
	}
	return out, nil
}

// ToMovementResponse mapea la entidad a la salida HTTP.
func ToMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:              m.ID,
		Kind:            string(m.Kind),
		ProductID:       m.ProductID,
		Quantity:        m.Quantity,
		OriginSite:      m.OriginSite,
		DestinationSite: m.DestinationSite,
		Reason:          m.Reason,
		SalePrice:       m.SalePrice,
		RecordedBy:      m.RecordedBy,
		MovedAt:         m.MovedAt,
	}
}
