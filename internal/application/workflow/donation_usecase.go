package workflow

import (
	"context"
	"fmt"

	"github.com/protrack/protrack-api/internal/application/dto"
	"github.com/protrack/protrack-api/internal/domain"
	"github.com/protrack/protrack-api/internal/domain/access"
	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/internal/domain/repository"
)

// DonationUseCase vista del módulo de donaciones. Aprobar o denegar delega en la solicitud ligada,
// de modo que la misma máquina de estados gobierna ambos registros.
type DonationUseCase struct {
	donationRepo repository.DonationRepository
	requests     *RequestUseCase
}

// NewDonationUseCase construye el caso de uso.
func NewDonationUseCase(donationRepo repository.DonationRepository, requests *RequestUseCase) *DonationUseCase {
	return &DonationUseCase{donationRepo: donationRepo, requests: requests}
}

// List donaciones de la empresa, opcionalmente por estado (Pendiente, Aprobado, Denegado).
func (uc *DonationUseCase) List(ctx context.Context, actor access.Actor, state string) (*dto.DonationListResponse, error) {
	if !actor.IsDirector() && !actor.IsAdministrator() {
		return nil, domain.ErrForbidden
	}
	s := entity.DonationState(state)
	switch s {
	case "", entity.DonationPending, entity.DonationApproved, entity.DonationRejected:
	default:
		return nil, fmt.Errorf("%w: estado desconocido", domain.ErrInvalidInput)
	}
	list, err := uc.donationRepo.List(ctx, actor.CompanyID, s)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DonationResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *ToDonationResponse(d))
	}
	return &dto.DonationListResponse{Items: items, Total: len(items)}, nil
}

// Approve aprueba la donación a través de su solicitud.
func (uc *DonationUseCase) Approve(ctx context.Context, actor access.Actor, id, notes string) (*dto.DonationResponse, error) {
	d, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if _, err := uc.requests.Approve(ctx, actor, d.RequestID, notes); err != nil {
		return nil, err
	}
	return uc.reload(ctx, actor, id)
}

// Reject deniega la donación a través de su solicitud (notas obligatorias).
func (uc *DonationUseCase) Reject(ctx context.Context, actor access.Actor, id, notes string) (*dto.DonationResponse, error) {
	d, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if _, err := uc.requests.Reject(ctx, actor, d.RequestID, notes); err != nil {
		return nil, err
	}
	return uc.reload(ctx, actor, id)
}

func (uc *DonationUseCase) get(ctx context.Context, actor access.Actor, id string) (*entity.Donation, error) {
	d, err := uc.donationRepo.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if d == nil || d.RequestID == "" {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (uc *DonationUseCase) reload(ctx context.Context, actor access.Actor, id string) (*dto.DonationResponse, error) {
	d, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return ToDonationResponse(d), nil
}

// ToDonationResponse mapea la entidad a la salida HTTP.
func ToDonationResponse(d *entity.Donation) *dto.DonationResponse {
	return &dto.DonationResponse{
		ID:                    d.ID,
		RequestID:             d.RequestID,
		ProductID:             d.ProductID,
		ProductName:           d.ProductName,
		Quantity:              d.Quantity,
		OriginSite:            d.OriginSite,
		ReceivingOrganization: d.ReceivingOrganization,
		Date:                  d.Date,
		RequestedBy:           d.RequestedBy,
		State:                 string(d.State),
	}
}
