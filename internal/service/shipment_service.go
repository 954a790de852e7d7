package service

import (
	"context"
	"errors"
	"time"

	"github.com/asif1001/wareopes1-sub002/internal/dto"
	"github.com/asif1001/wareopes1-sub002/internal/model"
	"github.com/asif1001/wareopes1-sub002/internal/repository"

	"github.com/google/uuid"
)

type ShipmentService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateShipmentRequest) (*dto.ShipmentResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ShipmentResponse, error)
	List(ctx context.Context, filter dto.ShipmentFilter) (*dto.ShipmentListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateShipmentRequest) (*dto.ShipmentResponse, error)
	// AddCases seeds the production cases a shipment manifest declares.
	// Cases start with zero consumed lines; allocation is the only mutation.
	AddCases(ctx context.Context, id uuid.UUID, req dto.CaseManifestRequest) (*dto.ShipmentResponse, error)
}

type shipmentService struct {
	repo  repository.ShipmentRepository
	cases repository.CaseRepository
}

func NewShipmentService(repo repository.ShipmentRepository, cases repository.CaseRepository) ShipmentService {
	return &shipmentService{repo: repo, cases: cases}
}

func (s *shipmentService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateShipmentRequest) (*dto.ShipmentResponse, error) {
	shipment := &model.Shipment{
		ShipmentNo: req.ShipmentNo,
		Origin:     req.Origin,
		Carrier:    req.Carrier,
		Status:     model.ShipmentExpected,
		Branch:     req.Branch,
		CreatedBy:  userID,
	}
	if req.ETA != nil {
		eta, err := time.Parse("2006-01-02", *req.ETA)
		if err != nil {
			return nil, errors.New("eta must be YYYY-MM-DD")
		}
		shipment.ETA = &eta
	}
	if err := s.repo.Create(ctx, shipment); err != nil {
		return nil, err
	}
	return shipmentToResponse(shipment), nil
}

func (s *shipmentService) Get(ctx context.Context, id uuid.UUID) (*dto.ShipmentResponse, error) {
	shipment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("shipment not found")
	}
	return shipmentToResponse(shipment), nil
}

func (s *shipmentService) List(ctx context.Context, filter dto.ShipmentFilter) (*dto.ShipmentListResponse, error) {
	shipments, total, err := s.repo.List(ctx, repository.ShipmentFilter{
		Status: filter.Status,
		Branch: filter.Branch,
		Page:   filter.Page,
		Limit:  filter.Limit,
	})
	if err != nil {
		return nil, err
	}
	data := make([]dto.ShipmentResponse, len(shipments))
	for i := range shipments {
		data[i] = *shipmentToResponse(&shipments[i])
	}
	return &dto.ShipmentListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *shipmentService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateShipmentRequest) (*dto.ShipmentResponse, error) {
	shipment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("shipment not found")
	}
	if req.Origin != "" {
		shipment.Origin = req.Origin
	}
	if req.Carrier != "" {
		shipment.Carrier = req.Carrier
	}
	if req.Status != "" && req.Status != shipment.Status {
		shipment.Status = req.Status
		if req.Status == model.ShipmentArrived && shipment.ArrivedAt == nil {
			now := time.Now()
			shipment.ArrivedAt = &now
		}
	}
	if req.ETA != nil {
		eta, err := time.Parse("2006-01-02", *req.ETA)
		if err != nil {
			return nil, errors.New("eta must be YYYY-MM-DD")
		}
		shipment.ETA = &eta
	}
	if err := s.repo.Update(ctx, shipment); err != nil {
		return nil, err
	}
	return shipmentToResponse(shipment), nil
}

func (s *shipmentService) AddCases(ctx context.Context, id uuid.UUID, req dto.CaseManifestRequest) (*dto.ShipmentResponse, error) {
	shipment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("shipment not found")
	}

	cases := make([]model.ProductionCase, len(req.Cases))
	for i, c := range req.Cases {
		cases[i] = model.ProductionCase{
			ShipmentID: shipment.ID,
			CaseNumber: c.CaseNumber,
			TotalLines: c.TotalLines,
		}
	}
	if err := s.cases.CreateBatch(ctx, cases); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func shipmentToResponse(sh *model.Shipment) *dto.ShipmentResponse {
	resp := &dto.ShipmentResponse{
		ID:         sh.ID.String(),
		ShipmentNo: sh.ShipmentNo,
		Origin:     sh.Origin,
		Carrier:    sh.Carrier,
		Status:     sh.Status,
		Branch:     sh.Branch,
		CreatedAt:  sh.CreatedAt.Format(time.RFC3339),
	}
	if sh.ETA != nil {
		eta := sh.ETA.Format("2006-01-02")
		resp.ETA = &eta
	}
	if sh.ArrivedAt != nil {
		a := sh.ArrivedAt.Format(time.RFC3339)
		resp.ArrivedAt = &a
	}
	for _, c := range sh.Cases {
		resp.Cases = append(resp.Cases, dto.ShipmentCaseResponse{
			CaseNumber:     c.CaseNumber,
			TotalLines:     c.TotalLines,
			ConsumedLines:  c.ConsumedLines,
			RemainingLines: c.RemainingLines(),
			FullySorted:    c.FullySorted(),
		})
	}
	return resp
}
