package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/clinica-labs/clinica/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  taxdomain.Repository
}

type service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  taxdomain.Repository
}

func NewService(p Params) taxdomain.Service {
	return &service{
		log:   p.Log.Named("tax.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *service) Create(ctx context.Context, req taxdomain.CreateRequest) (*taxdomain.Response, error) {
	kind := req.Kind
	if kind == "" {
		kind = taxdomain.TaxKindPercentage
	}

	now := time.Now().UTC()
	rate := taxdomain.TaxRate{
		ID:                 s.genID.Generate(),
		Code:               strings.TrimSpace(req.Code),
		Name:               strings.TrimSpace(req.Name),
		Category:           strings.TrimSpace(req.Category),
		Kind:               kind,
		Ratio:              req.Ratio,
		RegistrationNumber: req.RegistrationNumber,
		RegistrationDate:   req.RegistrationDate,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if req.IsDefault != nil {
		rate.IsDefault = *req.IsDefault
	}
	if req.IsRegisteredAuthority != nil {
		rate.IsRegisteredAuthority = *req.IsRegisteredAuthority
	}
	if req.IsActive != nil {
		rate.IsActive = *req.IsActive
	}

	if err := rate.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &rate); err != nil {
		return nil, err
	}

	s.log.Info("tax rate created",
		zap.String("code", rate.Code),
		zap.String("ratio", rate.Ratio.String()),
	)

	resp := toResponse(rate)
	return &resp, nil
}

func (s *service) List(ctx context.Context, req taxdomain.ListRequest) ([]taxdomain.Response, error) {
	rates, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, err
	}

	responses := make([]taxdomain.Response, 0, len(rates))
	for _, rate := range rates {
		responses = append(responses, toResponse(rate))
	}
	return responses, nil
}

func (s *service) Update(ctx context.Context, req taxdomain.UpdateRequest) (*taxdomain.Response, error) {
	rate, err := s.findByStringID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		rate.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		rate.Category = strings.TrimSpace(*req.Category)
	}
	if req.Kind != nil {
		rate.Kind = *req.Kind
	}
	if req.Ratio != nil {
		rate.Ratio = *req.Ratio
	}
	rate.UpdatedAt = time.Now().UTC()

	if err := rate.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, rate); err != nil {
		return nil, err
	}

	resp := toResponse(*rate)
	return &resp, nil
}

func (s *service) Disable(ctx context.Context, id string) (*taxdomain.Response, error) {
	rate, err := s.findByStringID(ctx, id)
	if err != nil {
		return nil, err
	}

	rate.IsActive = false
	rate.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, rate); err != nil {
		return nil, err
	}

	s.log.Info("tax rate disabled", zap.String("code", rate.Code))

	resp := toResponse(*rate)
	return &resp, nil
}

func (s *service) findByStringID(ctx context.Context, raw string) (*taxdomain.TaxRate, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, taxdomain.ErrInvalidID
	}
	rate, err := s.repo.FindByID(ctx, snowflake.ID(parsed))
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, taxdomain.ErrNotFound
	}
	return rate, nil
}

func toResponse(rate taxdomain.TaxRate) taxdomain.Response {
	return taxdomain.Response{
		ID:                    rate.ID.String(),
		Code:                  rate.Code,
		Name:                  rate.Name,
		Category:              rate.Category,
		Kind:                  rate.Kind,
		Ratio:                 rate.Ratio,
		IsDefault:             rate.IsDefault,
		IsRegisteredAuthority: rate.IsRegisteredAuthority,
		RegistrationNumber:    rate.RegistrationNumber,
		RegistrationDate:      rate.RegistrationDate,
		IsActive:              rate.IsActive,
		CreatedAt:             rate.CreatedAt,
		UpdatedAt:             rate.UpdatedAt,
	}
}
