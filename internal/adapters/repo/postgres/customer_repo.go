package postgres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/dejalu/gestion/internal/domain"
)

type ClientRepo struct{ db *gorm.DB }

func NewClientRepo(db *gorm.DB) *ClientRepo { return &ClientRepo{db: db} }

func (r *ClientRepo) Create(ctx context.Context, c *domain.Client) error {
	c.Nom = strings.TrimSpace(c.Nom)
	c.Prenom = strings.TrimSpace(c.Prenom)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ClientRepo) FindByID(ctx context.Context, id uint) (*domain.Client, error) {
	var c domain.Client
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepo) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Client{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ClientRepo) Search(ctx context.Context, f domain.ClientFilter) ([]domain.Client, error) {
	q := r.db.WithContext(ctx).Model(&domain.Client{})
	if f.Nom != "" {
		q = q.Where("LOWER(nom) LIKE LOWER(?)", "%"+strings.TrimSpace(f.Nom)+"%")
	}
	if f.Prenom != "" {
		q = q.Where("LOWER(prenom) LIKE LOWER(?)", "%"+strings.TrimSpace(f.Prenom)+"%")
	}
	if f.Telephone != "" {
		q = q.Where("telephone LIKE ?", "%"+strings.TrimSpace(f.Telephone)+"%")
	}
	var list []domain.Client
	if err := q.Order("nom asc, prenom asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ClientRepo) List(ctx context.Context) ([]domain.Client, error) {
	var list []domain.Client
	if err := r.db.WithContext(ctx).Order("nom asc, prenom asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ClientRepo) Update(ctx context.Context, c *domain.Client) error {
	if c.ID == 0 {
		return errors.New("id client manquant")
	}
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	res := r.db.WithContext(ctx).Model(&domain.Client{}).Where("id = ?", c.ID).
		Updates(map[string]any{
			"nom":       strings.TrimSpace(c.Nom),
			"prenom":    strings.TrimSpace(c.Prenom),
			"age":       c.Age,
			"email":     c.Email,
			"telephone": c.Telephone,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ClientRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Client{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
