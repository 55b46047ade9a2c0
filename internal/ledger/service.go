package ledger

import (
	"context"
	"fmt"

	"github.com/angelmondragon/pharmaline-backend/pkg/config"
	"github.com/angelmondragon/pharmaline-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pharmaline-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service defines operations over the append-only inventory event ledger.
type Service interface {
	Append(ctx context.Context, input AppendEventInput) (*models.InventoryEvent, error)
	ListAll(ctx context.Context) ([]models.InventoryEvent, error)
	ListByName(ctx context.Context, name string) ([]models.InventoryEvent, error)
}

type service struct {
	repo Repository
	cfg  config.LedgerConfig
}

// AppendEventInput captures the immutable data an inventory event requires.
// DeltaQty is signed: positive for additions, negative for removals, zero for
// price-only events.
type AppendEventInput struct {
	ItemName string
	DeltaQty int
	Price    decimal.Decimal
	Expiry   string
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository, cfg config.LedgerConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo, cfg: cfg}, nil
}

func (s *service) Append(ctx context.Context, input AppendEventInput) (*models.InventoryEvent, error) {
	if input.ItemName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	event := &models.InventoryEvent{
		EventID:  uuid.New(),
		ItemName: input.ItemName,
		DeltaQty: input.DeltaQty,
		Price:    input.Price,
		Expiry:   input.Expiry,
	}

	appendCtx := ctx
	if s.cfg.AppendTimeout > 0 {
		var cancel context.CancelFunc
		appendCtx, cancel = context.WithTimeout(ctx, s.cfg.AppendTimeout)
		defer cancel()
	}

	if err := s.repo.Create(appendCtx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeLedger, err, "appending inventory event")
	}
	return event, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.InventoryEvent, error) {
	queryCtx, cancel := s.queryContext(ctx)
	defer cancel()

	events, err := s.repo.ListAll(queryCtx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeLedger, err, "listing inventory events")
	}
	return events, nil
}

func (s *service) ListByName(ctx context.Context, name string) ([]models.InventoryEvent, error) {
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}

	queryCtx, cancel := s.queryContext(ctx)
	defer cancel()

	events, err := s.repo.ListByName(queryCtx, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeLedger, err, "listing inventory events by name")
	}
	return events, nil
}

func (s *service) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.QueryTimeout > 0 {
		return context.WithTimeout(ctx, s.cfg.QueryTimeout)
	}
	return context.WithCancel(ctx)
}
