package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/thq-service/internal/domain"
	"github.com/spec-kit/thq-service/internal/events"
	"github.com/spec-kit/thq-service/internal/repository"
	apperrors "github.com/spec-kit/thq-service/pkg/util/errorutil"
)

// NonsigInput carries the fields needed to create a customer account.
type NonsigInput struct {
	Code       string
	TradeStyle string
	Addr1      string
	Addr2      *string
	City       string
	State      string
	PostalCode string
	Country    string
	BrandKey   *string
	Type       string
}

// NonsigService manages customer account records.
type NonsigService struct {
	nonsigs    repository.NonsigRepository
	dispatcher events.Dispatcher
}

// NewNonsigService builds the service.
func NewNonsigService(nonsigs repository.NonsigRepository, dispatcher events.Dispatcher) *NonsigService {
	return &NonsigService{nonsigs: nonsigs, dispatcher: dispatcher}
}

// Create normalizes and validates a new nonsig, rejecting duplicates.
func (s *NonsigService) Create(ctx context.Context, input NonsigInput) (*domain.Nonsig, error) {
	code, err := domain.NormalizeNonsigCode(input.Code)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	missing := map[string]any{}
	for field, value := range map[string]string{
		"trade_style": input.TradeStyle,
		"addr1":       input.Addr1,
		"city":        input.City,
		"postal_code": input.PostalCode,
		"country":     input.Country,
		"type":        input.Type,
	} {
		if value == "" {
			missing[field] = "required"
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", missing)
	}

	if existing, err := s.nonsigs.GetByCode(ctx, code); err == nil {
		return nil, apperrors.NewConflict("nonsig already exists", map[string]any{"code": existing.Code})
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	nonsig := &domain.Nonsig{
		ID:          uuid.NewString(),
		Code:        code,
		TradeStyle:  input.TradeStyle,
		Addr1:       input.Addr1,
		Addr2:       input.Addr2,
		City:        input.City,
		State:       input.State,
		PostalCode:  input.PostalCode,
		Country:     input.Country,
		BrandKey:    input.BrandKey,
		IsActive:    true,
		IsActiveTHQ: true,
		Type:        input.Type,
	}
	if err := s.nonsigs.Create(ctx, nonsig); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventNonsigCreated,
			Timestamp: time.Now(),
			Payload: events.NonsigCreatedPayload{
				Code:       nonsig.Code,
				TradeStyle: nonsig.TradeStyle,
			},
		})
	}
	return nonsig, nil
}

// GetByCode fetches a nonsig after normalizing the lookup code.
func (s *NonsigService) GetByCode(ctx context.Context, code string) (*domain.Nonsig, error) {
	normalized, err := domain.NormalizeNonsigCode(code)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	nonsig, err := s.nonsigs.GetByCode(ctx, normalized)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("nonsig", map[string]any{"code": normalized})
		}
		return nil, err
	}
	return nonsig, nil
}

// List returns customer accounts, optionally including inactive ones.
func (s *NonsigService) List(ctx context.Context, includeInactive bool) ([]domain.Nonsig, error) {
	return s.nonsigs.List(ctx, includeInactive)
}

// ExistsAndIsActive reports whether a nonsig exists and both active flags
// hold. A missing nonsig is a false answer, not an error.
func (s *NonsigService) ExistsAndIsActive(ctx context.Context, code string) (bool, error) {
	normalized, err := domain.NormalizeNonsigCode(code)
	if err != nil {
		return false, apperrors.NewValidationError(err.Error(), nil)
	}
	nonsig, err := s.nonsigs.GetByCode(ctx, normalized)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return nonsig.Usable(), nil
}
