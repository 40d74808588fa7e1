package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dejalu/gestion/internal/domain"
)

type stubClientRepo struct {
	clients  map[uint]domain.Client
	findErr  error
	findHits int
}

func (s *stubClientRepo) FindByID(_ context.Context, id uint) (*domain.Client, error) {
	s.findHits++
	if s.findErr != nil {
		return nil, s.findErr
	}
	c, ok := s.clients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (s *stubClientRepo) Exists(_ context.Context, id uint) (bool, error) {
	_, ok := s.clients[id]
	return ok, nil
}

func (s *stubClientRepo) Create(context.Context, *domain.Client) error        { return nil }
func (s *stubClientRepo) Update(context.Context, *domain.Client) error        { return nil }
func (s *stubClientRepo) Delete(context.Context, uint) error                  { return nil }
func (s *stubClientRepo) List(context.Context) ([]domain.Client, error)       { return nil, nil }
func (s *stubClientRepo) Search(context.Context, domain.ClientFilter) ([]domain.Client, error) {
	return nil, nil
}

type stubOrderRepo struct {
	saved   [][]domain.OrderLine
	saveErr error
}

func (s *stubOrderRepo) SaveBatch(_ context.Context, lines []domain.OrderLine) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, lines)
	return nil
}

func (s *stubOrderRepo) ListByClient(context.Context, uint) ([]domain.OrderLine, error) {
	return nil, nil
}
func (s *stubOrderRepo) ListAll(context.Context) ([]domain.OrderLine, error) { return nil, nil }

type stubNotifier struct {
	sent  int
	books []domain.Book
	err   error
}

func (s *stubNotifier) SendOrderConfirmation(_, _ string, books []domain.Book) error {
	s.sent++
	s.books = books
	return s.err
}

func ptr(v float64) *float64 { return &v }

func newUC(clients *stubClientRepo, orders *stubOrderRepo, n domain.Notifier) *OrderUC {
	return &OrderUC{Clients: clients, Orders: orders, Notify: n}
}

func existingClient() *stubClientRepo {
	return &stubClientRepo{clients: map[uint]domain.Client{
		1: {ID: 1, Nom: "Dupont", Prenom: "Jean", Email: "jean@example.org"},
	}}
}

func TestRecordPreconditions(t *testing.T) {
	clients := existingClient()
	orders := &stubOrderRepo{}
	uc := newUC(clients, orders, nil)

	_, err := uc.Record(context.Background(), 0, []domain.Book{{Title: "X", ISBN: "0131103628"}})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = uc.Record(context.Background(), 1, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	// no DB round-trip on failed preconditions
	assert.Zero(t, clients.findHits)
	assert.Empty(t, orders.saved)
}

func TestRecordUnknownClient(t *testing.T) {
	orders := &stubOrderRepo{}
	uc := newUC(existingClient(), orders, nil)

	_, err := uc.Record(context.Background(), 42, []domain.Book{{Title: "X", ISBN: "0131103628"}})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Empty(t, orders.saved, "rien ne doit être inséré")
}

func TestRecordPersistsOneLinePerBook(t *testing.T) {
	orders := &stubOrderRepo{}
	notify := &stubNotifier{}
	uc := newUC(existingClient(), orders, notify)

	items := []domain.Book{
		{Title: "A", Author: "AA", ISBN: "9781449355739", Price: ptr(19.999)},
		{Title: "B", Author: "BB", ISBN: "0131103628", Price: ptr(10)},
		{Title: "C", Author: "CC", ISBN: "978-3-16-148410-0"},
	}
	lines, err := uc.Record(context.Background(), 1, items)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	require.Len(t, orders.saved, 1)

	for i, l := range lines {
		assert.Equal(t, uint(1), l.ClientID)
		assert.Equal(t, items[i].ISBN, l.LivreISBN)
		assert.Equal(t, items[i].Title, l.TitreLivre)
		assert.InDelta(t, l.Prix, math.Round(l.Prix*100)/100, 1e-9, "prix à 2 décimales")
	}
	assert.InDelta(t, 20.0, lines[0].Prix, 0.001)

	// confirmation carries the materialized prices
	require.Equal(t, 1, notify.sent)
	require.Len(t, notify.books, 3)
	assert.NotNil(t, notify.books[2].Price)
}

func TestRecordInvalidISBNRejectsWholeOrder(t *testing.T) {
	orders := &stubOrderRepo{}
	uc := newUC(existingClient(), orders, nil)

	items := []domain.Book{
		{Title: "A", ISBN: "9781449355739", Price: ptr(12)},
		{Title: "B", ISBN: "12345", Price: ptr(8)},
	}
	_, err := uc.Record(context.Background(), 1, items)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Empty(t, orders.saved, "aucune insertion partielle")
}

func TestRecordPriceBounds(t *testing.T) {
	orders := &stubOrderRepo{}
	uc := newUC(existingClient(), orders, nil)

	_, err := uc.Record(context.Background(), 1, []domain.Book{
		{Title: "A", ISBN: "0131103628", Price: ptr(-1)},
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = uc.Record(context.Background(), 1, []domain.Book{
		{Title: "A", ISBN: "0131103628", Price: ptr(100000000.00)},
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Empty(t, orders.saved)

	// the ceiling itself passes
	_, err = uc.Record(context.Background(), 1, []domain.Book{
		{Title: "A", ISBN: "0131103628", Price: ptr(99999999.99)},
	})
	assert.NoError(t, err)
}

func TestRecordSynthesizedPriceWithinBounds(t *testing.T) {
	orders := &stubOrderRepo{}
	uc := newUC(existingClient(), orders, nil)
	uc.PriceMin, uc.PriceMax = 5, 50

	for _, r := range []float64{0, 0.25, 0.5, 0.999} {
		r := r
		uc.RandFloat = func() float64 { return r }
		lines, err := uc.Record(context.Background(), 1, []domain.Book{
			{Title: "Learning Python", ISBN: "9781449355739"},
		})
		require.NoError(t, err)
		require.Len(t, lines, 1)
		prix := lines[0].Prix
		assert.GreaterOrEqual(t, prix, 5.0)
		assert.LessOrEqual(t, prix, 50.0)
		assert.InDelta(t, prix, math.Round(prix*100)/100, 1e-9)
	}
}

func TestRecordPersistenceErrorAbortsBatch(t *testing.T) {
	orders := &stubOrderRepo{saveErr: errors.New("duplicate key")}
	uc := newUC(existingClient(), orders, nil)

	_, err := uc.Record(context.Background(), 1, []domain.Book{
		{Title: "A", ISBN: "0131103628", Price: ptr(9)},
	})
	assert.True(t, errors.Is(err, domain.ErrPersistence))
	assert.NotContains(t, err.Error(), "duplicate key", "cause racine réservée aux logs")
}

func TestRecordNotificationFailureKeepsOrder(t *testing.T) {
	orders := &stubOrderRepo{}
	notify := &stubNotifier{err: domain.ErrTransport}
	uc := newUC(existingClient(), orders, notify)

	lines, err := uc.Record(context.Background(), 1, []domain.Book{
		{Title: "A", ISBN: "0131103628", Price: ptr(9)},
	})
	assert.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, 1, notify.sent)
}
