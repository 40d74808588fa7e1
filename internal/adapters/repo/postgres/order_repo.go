package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dejalu/gestion/internal/domain"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

// SaveBatch inserts every line under a single transaction. Any failure
// rolls back the whole batch; no partial commit is possible.
func (r *OrderRepo) SaveBatch(ctx context.Context, lines []domain.OrderLine) error {
	if len(lines) == 0 {
		return errors.New("aucune ligne à enregistrer")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range lines {
			if err := tx.Create(&lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *OrderRepo) ListByClient(ctx context.Context, clientID uint) ([]domain.OrderLine, error) {
	var list []domain.OrderLine
	if err := r.db.WithContext(ctx).Where("client_id = ?", clientID).Order("created_at asc, id asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *OrderRepo) ListAll(ctx context.Context) ([]domain.OrderLine, error) {
	var list []domain.OrderLine
	if err := r.db.WithContext(ctx).Order("created_at asc, id asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
