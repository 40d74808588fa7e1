package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dejalu/gestion/internal/domain"
)

// CustomerUC wraps the clients repo with field validation. Store errors
// are logged here and reduced to ErrPersistence; the root cause never
// reaches the presentation layer.
type CustomerUC struct {
	Clients domain.ClientRepo
}

func (uc *CustomerUC) Add(ctx context.Context, c *domain.Client) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := uc.Clients.Create(ctx, c); err != nil {
		log.Error().Err(err).Str("email", c.Email).Msg("ajout client")
		return fmt.Errorf("%w: ajout client", domain.ErrPersistence)
	}
	log.Info().Uint("id", c.ID).Str("client", c.FullName()).Msg("client ajouté")
	return nil
}

func (uc *CustomerUC) Get(ctx context.Context, id uint) (*domain.Client, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: id client manquant", domain.ErrInvalidArgument)
	}
	c, err := uc.Clients.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		log.Error().Err(err).Uint("id", id).Msg("lecture client")
		return nil, fmt.Errorf("%w: lecture client", domain.ErrPersistence)
	}
	return c, nil
}

func (uc *CustomerUC) Search(ctx context.Context, f domain.ClientFilter) ([]domain.Client, error) {
	list, err := uc.Clients.Search(ctx, f)
	if err != nil {
		log.Error().Err(err).Msg("recherche clients")
		return nil, fmt.Errorf("%w: recherche clients", domain.ErrPersistence)
	}
	return list, nil
}

func (uc *CustomerUC) List(ctx context.Context) ([]domain.Client, error) {
	list, err := uc.Clients.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("liste clients")
		return nil, fmt.Errorf("%w: liste clients", domain.ErrPersistence)
	}
	return list, nil
}

func (uc *CustomerUC) Update(ctx context.Context, c *domain.Client) error {
	if c.ID == 0 {
		return fmt.Errorf("%w: id client manquant", domain.ErrInvalidArgument)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if err := uc.Clients.Update(ctx, c); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		log.Error().Err(err).Uint("id", c.ID).Msg("modification client")
		return fmt.Errorf("%w: modification client", domain.ErrPersistence)
	}
	return nil
}

func (uc *CustomerUC) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return fmt.Errorf("%w: id client manquant", domain.ErrInvalidArgument)
	}
	if err := uc.Clients.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		log.Error().Err(err).Uint("id", id).Msg("suppression client")
		return fmt.Errorf("%w: suppression client", domain.ErrPersistence)
	}
	return nil
}
