package ledger

import (
	"context"

	"github.com/angelmondragon/pharmaline-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository manages persistence for inventory events. The table is
// append-only; rows are never updated or deleted.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, event *models.InventoryEvent) error
	ListAll(ctx context.Context) ([]models.InventoryEvent, error)
	ListByName(ctx context.Context, name string) ([]models.InventoryEvent, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory event repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, event *models.InventoryEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) ListAll(ctx context.Context) ([]models.InventoryEvent, error) {
	var events []models.InventoryEvent
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) ListByName(ctx context.Context, name string) ([]models.InventoryEvent, error) {
	var events []models.InventoryEvent
	if err := r.db.WithContext(ctx).
		Where("item_name = ?", name).
		Order("id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
