package workflow

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
	"github.com/protrack/protrack-api/pkg/logger"
)

// RequestUseCase máquina de estados de solicitudes: Pendiente → {Aprobada, Rechazada, Delegada}; Delegada → {Aprobada, Rechazada}.
type RequestUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	requestRepo repository.RequestRepository
	notifier    ChangeNotifier
	log         *logger.Logger
	now         func() time.Time
}

// NewRequestUseCase construye el caso de uso.
func NewRequestUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	requestRepo repository.RequestRepository,
	notifier ChangeNotifier,
	log *logger.Logger,
) *RequestUseCase {
	return &RequestUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		requestRepo: requestRepo,
		notifier:    notifier,
		log:         log,
		now:         time.Now,
	}
}

// Create registra una solicitud en estado Pendiente. Una Donación crea además su registro paralelo en donaciones.
func (uc *RequestUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateRequestRequest) (*dto.RequestResponse, error) {
	kind := entity.RequestKind(strings.TrimSpace(in.Kind))
	productID := strings.TrimSpace(in.ProductID)
	if kind == "" || productID == "" {
		return nil, domain.ErrMissingRequiredField
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: tipo de solicitud desconocido", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor a 0", domain.ErrInvalidInput)
	}
	origin := strings.TrimSpace(in.OriginSite)
	destination := strings.TrimSpace(in.DestinationSite)
	org := strings.TrimSpace(in.ReceivingOrganization)
	switch kind {
	case entity.RequestTransfer:
		if origin == "" || destination == "" {
			return nil, domain.ErrTransferMissingLocations
		}
	case entity.RequestDonation:
		if org == "" || origin == "" {
			return nil, fmt.Errorf("%w: organización receptora y sede de salida", domain.ErrMissingRequiredField)
		}
		destination = ""
	default:
		origin, destination = "", ""
	}

	product, err := uc.productRepo.GetByID(ctx, actor.CompanyID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	now := uc.now()
	req := &entity.Request{
		ID:                    uuid.New().String(),
		CompanyID:             actor.CompanyID,
		Kind:                  kind,
		ProductID:             product.ID,
		ProductName:           product.Name,
		Quantity:              in.Quantity,
		Reason:                strings.TrimSpace(in.Reason),
		OriginSite:            origin,
		DestinationSite:       destination,
		ReceivingOrganization: org,
		State:                 entity.RequestPending,
		RequestedBy:           actor.UserID,
		RequestedAt:           now,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	var donation *entity.Donation
	if kind == entity.RequestDonation {
		donation = &entity.Donation{
			ID:                    uuid.New().String(),
			CompanyID:             actor.CompanyID,
			RequestID:             req.ID,
			ProductID:             product.ID,
			ProductName:           product.Name,
			Quantity:              in.Quantity,
			OriginSite:            origin,
			ReceivingOrganization: org,
			Date:                  now,
			RequestedBy:           actor.UserID,
			State:                 entity.DonationPending,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		req.DonationID = donation.ID
	}

	err = uc.txRunner.RunWorkflow(ctx, func(
		reqRepo repository.RequestRepository,
		donationRepo repository.DonationRepository,
		_ repository.ProductRepository,
		_ repository.AccountingRepository,
		_ repository.TransferRepository,
	) error {
		if err := reqRepo.Create(ctx, req); err != nil {
			return err
		}
		if donation != nil {
			return donationRepo.Create(ctx, donation)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, TableRequests, "creada", req.CompanyID, req.ID)
	if donation != nil {
		uc.publish(ctx, TableDonations, "creada", donation.CompanyID, donation.ID)
	}
	return ToRequestResponse(req), nil
}

// Approve pasa la solicitud a Aprobada. En una Donación, en la misma transacción: donación → Aprobado,
// un asiento contable con precio 0 y el descuento de stock (nunca negativo).
func (uc *RequestUseCase) Approve(ctx context.Context, actor access.Actor, id, notes string) (*dto.RequestResponse, error) {
	var out *entity.Request
	err := uc.txRunner.RunWorkflow(ctx, func(
		reqRepo repository.RequestRepository,
		donationRepo repository.DonationRepository,
		productRepo repository.ProductRepository,
		accountingRepo repository.AccountingRepository,
		_ repository.TransferRepository,
	) error {
		req, err := loadForUpdate(ctx, reqRepo, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if err := checkReview(actor, req); err != nil {
			return err
		}
		now := uc.now()
		markReviewed(req, actor, entity.RequestApproved, notes, now)
		if err := reqRepo.Update(ctx, req); err != nil {
			return err
		}
		if req.Kind == entity.RequestDonation {
			if err := approveDonation(ctx, donationRepo, productRepo, accountingRepo, req, now); err != nil {
				return err
			}
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.publishReview(ctx, out, "aprobada")
	resp := ToRequestResponse(out)
	resp.RequiresTransferCoordination = out.Kind == entity.RequestTransfer
	return resp, nil
}

func approveDonation(
	ctx context.Context,
	donationRepo repository.DonationRepository,
	productRepo repository.ProductRepository,
	accountingRepo repository.AccountingRepository,
	req *entity.Request,
	now time.Time,
) error {
	product, err := productRepo.GetByIDForUpdate(ctx, req.CompanyID, req.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrProductNotFound
	}
	if req.Quantity > product.AvailableQuantity {
		return fmt.Errorf("%w. Disponible: %d", domain.ErrInsufficientStock, product.AvailableQuantity)
	}
	if req.DonationID != "" {
		if err := donationRepo.UpdateState(ctx, req.CompanyID, req.DonationID, entity.DonationApproved); err != nil {
			return err
		}
	}
	entry := &entity.AccountingEntry{
		ID:              uuid.New().String(),
		CompanyID:       req.CompanyID,
		ProductID:       req.ProductID,
		ProductName:     req.ProductName,
		MovementKind:    string(entity.RequestDonation),
		Date:            now,
		SalePrice:       decimal.Zero,
		UnitsSold:       req.Quantity,
		SourceRequestID: req.ID,
		CreatedAt:       now,
	}
	if err := accountingRepo.Create(ctx, entry); err != nil {
		return err
	}
	return productRepo.DecrementAvailable(ctx, req.CompanyID, req.ProductID, req.Quantity)
}

// Reject pasa la solicitud a Rechazada. Las notas de revisión son obligatorias.
func (uc *RequestUseCase) Reject(ctx context.Context, actor access.Actor, id, notes string) (*dto.RequestResponse, error) {
	var out *entity.Request
	err := uc.txRunner.RunWorkflow(ctx, func(
		reqRepo repository.RequestRepository,
		donationRepo repository.DonationRepository,
		_ repository.ProductRepository,
		_ repository.AccountingRepository,
		_ repository.TransferRepository,
	) error {
		req, err := loadForUpdate(ctx, reqRepo, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if err := checkReview(actor, req); err != nil {
			return err
		}
		// permisos y estado primero: sin notas solo responde quien podría rechazar
		if strings.TrimSpace(notes) == "" {
			return domain.ErrReviewNotesRequired
		}
		markReviewed(req, actor, entity.RequestRejected, notes, uc.now())
		if err := reqRepo.Update(ctx, req); err != nil {
			return err
		}
		if req.Kind == entity.RequestDonation && req.DonationID != "" {
			if err := donationRepo.UpdateState(ctx, req.CompanyID, req.DonationID, entity.DonationRejected); err != nil {
				return err
			}
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.publishReview(ctx, out, "rechazada")
	return ToRequestResponse(out), nil
}

// Delegate escala una solicitud Pendiente al Director General.
func (uc *RequestUseCase) Delegate(ctx context.Context, actor access.Actor, id, notes string) (*dto.RequestResponse, error) {
	var out *entity.Request
	err := uc.txRunner.RunWorkflow(ctx, func(
		reqRepo repository.RequestRepository,
		_ repository.DonationRepository,
		_ repository.ProductRepository,
		_ repository.AccountingRepository,
		_ repository.TransferRepository,
	) error {
		req, err := loadForUpdate(ctx, reqRepo, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if err := checkDelegate(actor, req); err != nil {
			return err
		}
		markReviewed(req, actor, entity.RequestDelegated, notes, uc.now())
		if err := reqRepo.Update(ctx, req); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, TableRequests, "delegada", out.CompanyID, out.ID)
	return ToRequestResponse(out), nil
}

// CoordinateTransfer registra la coordinación de un Traslado aprobado. No mueve stock; solo alimenta reportes.
func (uc *RequestUseCase) CoordinateTransfer(ctx context.Context, actor access.Actor, id string, in dto.CoordinateTransferRequest) (*dto.TransferRecordResponse, error) {
	if !actor.Can(entity.PermApproveRequests) {
		return nil, domain.ErrForbidden
	}
	origin := strings.TrimSpace(in.OriginSite)
	destination := strings.TrimSpace(in.DestinationSite)
	responsible := strings.TrimSpace(in.ResponsibleParty)
	if origin == "" || destination == "" {
		return nil, domain.ErrTransferMissingLocations
	}
	if responsible == "" || in.Date.IsZero() {
		return nil, fmt.Errorf("%w: fecha y encargado", domain.ErrMissingRequiredField)
	}
	var record *entity.TransferRecord
	err := uc.txRunner.RunWorkflow(ctx, func(
		reqRepo repository.RequestRepository,
		_ repository.DonationRepository,
		_ repository.ProductRepository,
		_ repository.AccountingRepository,
		transferRepo repository.TransferRepository,
	) error {
		req, err := loadForUpdate(ctx, reqRepo, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if req.Kind != entity.RequestTransfer || req.State != entity.RequestApproved {
			return domain.ErrInvalidTransition
		}
		existing, err := transferRepo.GetByRequestID(ctx, actor.CompanyID, req.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrConflict
		}
		reason := strings.TrimSpace(in.Reason)
		if reason == "" {
			reason = req.Reason
		}
		record = &entity.TransferRecord{
			ID:               uuid.New().String(),
			CompanyID:        actor.CompanyID,
			RequestID:        req.ID,
			ProductName:      req.ProductName,
			OriginSite:       origin,
			DestinationSite:  destination,
			Date:             in.Date,
			Reason:           reason,
			ResponsibleParty: responsible,
			CreatedBy:        actor.UserID,
			CreatedAt:        uc.now(),
		}
		return transferRepo.Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, TableRequests, "coordinada", record.CompanyID, record.RequestID)
	return ToTransferRecordResponse(record), nil
}

// ReviewQueue solicitudes que el actor puede revisar.
// Director General: Pendiente y Delegada. Administrador: Pendiente excluyendo las propias.
func (uc *RequestUseCase) ReviewQueue(ctx context.Context, actor access.Actor) (*dto.RequestListResponse, error) {
	var filter repository.RequestFilter
	switch {
	case actor.IsDirector():
		filter.States = []entity.RequestState{entity.RequestPending, entity.RequestDelegated}
	case actor.IsAdministrator() && actor.Can(entity.PermApproveRequests):
		filter.States = []entity.RequestState{entity.RequestPending}
		filter.ExcludeRequestedBy = actor.UserID
	default:
		return nil, domain.ErrForbidden
	}
	return uc.list(ctx, actor.CompanyID, filter)
}

// ListMine solicitudes creadas por el actor.
func (uc *RequestUseCase) ListMine(ctx context.Context, actor access.Actor) (*dto.RequestListResponse, error) {
	return uc.list(ctx, actor.CompanyID, repository.RequestFilter{RequestedBy: actor.UserID})
}

// List todas las solicitudes de la empresa (Director y Administradores), opcionalmente por estado.
func (uc *RequestUseCase) List(ctx context.Context, actor access.Actor, state string) (*dto.RequestListResponse, error) {
	if !actor.IsDirector() && !actor.IsAdministrator() {
		return nil, domain.ErrForbidden
	}
	var filter repository.RequestFilter
	if state != "" {
		s := entity.RequestState(state)
		if !s.Terminal() && !s.Actionable() {
			return nil, fmt.Errorf("%w: estado desconocido", domain.ErrInvalidInput)
		}
		filter.States = []entity.RequestState{s}
	}
	return uc.list(ctx, actor.CompanyID, filter)
}

// Stats conteo de solicitudes por estado.
func (uc *RequestUseCase) Stats(ctx context.Context, actor access.Actor) (*dto.RequestStatsResponse, error) {
	counts, err := uc.requestRepo.CountByState(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	return StatsFromCounts(counts), nil
}

// StatsFromCounts arma la respuesta de conteos.
func StatsFromCounts(counts map[entity.RequestState]int) *dto.RequestStatsResponse {
	s := &dto.RequestStatsResponse{
		Pending:   counts[entity.RequestPending],
		Delegated: counts[entity.RequestDelegated],
		Approved:  counts[entity.RequestApproved],
		Rejected:  counts[entity.RequestRejected],
	}
	s.Total = s.Pending + s.Delegated + s.Approved + s.Rejected
	return s
}

func (uc *RequestUseCase) list(ctx context.Context, companyID string, filter repository.RequestFilter) (*dto.RequestListResponse, error) {
	list, err := uc.requestRepo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RequestResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *ToRequestResponse(r))
	}
	return &dto.RequestListResponse{Items: items, Total: len(items)}, nil
}

func (uc *RequestUseCase) publishReview(ctx context.Context, req *entity.Request, action string) {
	uc.publish(ctx, TableRequests, action, req.CompanyID, req.ID)
	if req.Kind == entity.RequestDonation && req.DonationID != "" {
		uc.publish(ctx, TableDonations, action, req.CompanyID, req.DonationID)
	}
}

// publish avisa a los clientes; un fallo no revierte la operación ya confirmada.
func (uc *RequestUseCase) publish(ctx context.Context, table, action, companyID, id string) {
	if uc.notifier == nil {
		return
	}
	change := Change{Table: table, Action: action, CompanyID: companyID, ID: id}
	if err := uc.notifier.Publish(ctx, change); err != nil {
		uc.log.Warn().Err(err).Str("company_id", companyID).Str("request_id", id).Str("tabla", table).Msg("no se pudo publicar el cambio")
	}
}

func loadForUpdate(ctx context.Context, repo repository.RequestRepository, companyID, id string) (*entity.Request, error) {
	req, err := repo.GetByIDForUpdate(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	return req, nil
}

func markReviewed(req *entity.Request, actor access.Actor, state entity.RequestState, notes string, now time.Time) {
	req.State = state
	req.ReviewedBy = actor.UserID
	req.ReviewedAt = &now
	req.ReviewNotes = strings.TrimSpace(notes)
	req.UpdatedAt = now
}

// ToRequestResponse mapea la entidad a la salida HTTP.
func ToRequestResponse(r *entity.Request) *dto.RequestResponse {
	return &dto.RequestResponse{
		ID:                    r.ID,
		Kind:                  string(r.Kind),
		ProductID:             r.ProductID,
		ProductName:           r.ProductName,
		Quantity:              r.Quantity,
		Reason:                r.Reason,
		OriginSite:            r.OriginSite,
		DestinationSite:       r.DestinationSite,
		ReceivingOrganization: r.ReceivingOrganization,
		State:                 string(r.State),
		RequestedBy:           r.RequestedBy,
		ReviewedBy:            r.ReviewedBy,
		RequestedAt:           r.RequestedAt,
		ReviewedAt:            r.ReviewedAt,
		ReviewNotes:           r.ReviewNotes,
		DonationID:            r.DonationID,
	}
}

// ToTransferRecordResponse mapea el traslado coordinado.
func ToTransferRecordResponse(t *entity.TransferRecord) *dto.TransferRecordResponse {
	return &dto.TransferRecordResponse{
		ID:               t.ID,
		RequestID:        t.RequestID,
		ProductName:      t.ProductName,
		OriginSite:       t.OriginSite,
		DestinationSite:  t.DestinationSite,
		Date:             t.Date,
		Reason:           t.Reason,
		ResponsibleParty: t.ResponsibleParty,
	}
}
