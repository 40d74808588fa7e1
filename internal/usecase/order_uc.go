package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dejalu/gestion/internal/domain"
)

// Default bounds for synthesized prices, in euros.
const (
	DefaultPriceMin = 5.0
	DefaultPriceMax = 50.0
)

// OrderUC records a cart of books as commandes rows for one client.
// Policy on bad items: any invalid ISBN or out-of-range price rejects the
// whole order; nothing is ever silently dropped.
type OrderUC struct {
	Clients domain.ClientRepo
	Orders  domain.OrderRepo
	Notify  domain.Notifier

	// Synthesized-price bounds for items the catalog left unpriced.
	PriceMin float64
	PriceMax float64

	// randFloat is swappable in tests; defaults to rand.Float64.
	RandFloat func() float64
}

// Record validates the cart against the client and persists one row per
// book under a single transaction. On success it returns the persisted
// lines and sends a best-effort confirmation email; a notification
// failure never fails the order.
func (uc *OrderUC) Record(ctx context.Context, clientID uint, items []domain.Book) ([]domain.OrderLine, error) {
	if clientID == 0 {
		return nil, fmt.Errorf("%w: id client manquant", domain.ErrInvalidArgument)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: panier vide", domain.ErrInvalidArgument)
	}

	client, err := uc.Clients.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: client %d", domain.ErrNotFound, clientID)
		}
		log.Error().Err(err).Uint("client_id", clientID).Msg("vérification du client")
		return nil, fmt.Errorf("%w: vérification du client", domain.ErrPersistence)
	}

	min, max := uc.priceBounds()
	lines := make([]domain.OrderLine, 0, len(items))
	priced := make([]domain.Book, 0, len(items))
	for _, b := range items {
		if !domain.ValidISBN(b.ISBN) {
			return nil, fmt.Errorf("%w: isbn invalide pour %q", domain.ErrValidation, b.Title)
		}
		prix := uc.effectivePrice(b, min, max)
		if prix < 0 || prix > domain.MaxLinePrice {
			return nil, fmt.Errorf("%w: prix hors bornes pour %q: %.2f", domain.ErrValidation, b.Title, prix)
		}
		lines = append(lines, domain.OrderLine{
			ClientID:   clientID,
			LivreISBN:  b.ISBN,
			TitreLivre: b.Title,
			Prix:       prix,
		})
		b.Price = &prix
		priced = append(priced, b)
	}

	batch := uuid.New()
	if err := uc.Orders.SaveBatch(ctx, lines); err != nil {
		log.Error().Err(err).Str("batch", batch.String()).Uint("client_id", clientID).Msg("enregistrement de la commande")
		return nil, fmt.Errorf("%w: enregistrement de la commande", domain.ErrPersistence)
	}
	log.Info().Str("batch", batch.String()).Uint("client_id", clientID).Int("livres", len(lines)).Msg("commande enregistrée")

	if uc.Notify != nil {
		if err := uc.Notify.SendOrderConfirmation(client.Email, client.FullName(), priced); err != nil {
			log.Warn().Err(err).Uint("client_id", clientID).Msg("confirmation non envoyée, commande conservée")
		}
	}
	return lines, nil
}

func (uc *OrderUC) priceBounds() (float64, float64) {
	min, max := uc.PriceMin, uc.PriceMax
	if min == 0 && max == 0 {
		min, max = DefaultPriceMin, DefaultPriceMax
	}
	if max < min {
		max = min
	}
	return min, max
}

// effectivePrice rounds a carried price to 2 decimals, or synthesizes one
// uniformly from [min, max].
func (uc *OrderUC) effectivePrice(b domain.Book, min, max float64) float64 {
	if b.Price != nil {
		return round2(*b.Price)
	}
	r := uc.RandFloat
	if r == nil {
		r = rand.Float64
	}
	return round2(min + r()*(max-min))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
