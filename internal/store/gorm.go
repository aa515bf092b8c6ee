package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ispdesk_echo/internal/ledger"
	"ispdesk_echo/internal/models"
)

// GormStore is the database-backed CycleStore used in production
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a CycleStore over the given GORM connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) List(ctx context.Context) ([]models.BillingCycle, error) {
	var cycles []models.BillingCycle
	if err := s.db.WithContext(ctx).Preload("Installments").Find(&cycles).Error; err != nil {
		return nil, err
	}
	return cycles, nil
}

func (s *GormStore) Get(ctx context.Context, id uint) (*models.BillingCycle, error) {
	var cycle models.BillingCycle
	err := s.db.WithContext(ctx).Preload("Installments").First(&cycle, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrCycleNotFound
		}
		return nil, err
	}
	return &cycle, nil
}

func (s *GormStore) Add(ctx context.Context, cycle *models.BillingCycle) error {
	return s.db.WithContext(ctx).Create(cycle).Error
}

func (s *GormStore) Update(ctx context.Context, cycle *models.BillingCycle) error {
	// FullSaveAssociations so freshly appended installments are persisted
	// in the same call that updates the derived money fields.
	return s.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(cycle).Error
}

func (s *GormStore) ByCustomer(ctx context.Context, customerID uint) ([]models.BillingCycle, error) {
	var cycles []models.BillingCycle
	err := s.db.WithContext(ctx).
		Preload("Installments").
		Where("customer_id = ?", customerID).
		Find(&cycles).Error
	if err != nil {
		return nil, err
	}
	return cycles, nil
}

func (s *GormStore) DeleteByCustomer(ctx context.Context, customerID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cycleIDs []uint
		if err := tx.Model(&models.BillingCycle{}).
			Where("customer_id = ?", customerID).
			Pluck("id", &cycleIDs).Error; err != nil {
			return err
		}
		if len(cycleIDs) == 0 {
			return nil
		}
		if err := tx.Where("billing_cycle_id IN ?", cycleIDs).
			Delete(&models.Installment{}).Error; err != nil {
			return err
		}
		return tx.Where("customer_id = ?", customerID).
			Delete(&models.BillingCycle{}).Error
	})
}
