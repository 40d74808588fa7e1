package domain

import "context"

type ClientRepo interface {
	Create(ctx context.Context, c *Client) error
	FindByID(ctx context.Context, id uint) (*Client, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Search(ctx context.Context, f ClientFilter) ([]Client, error)
	List(ctx context.Context) ([]Client, error)
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, id uint) error
}

type OrderRepo interface {
	// SaveBatch persists all lines in one transaction or none of them.
	SaveBatch(ctx context.Context, lines []OrderLine) error
	ListByClient(ctx context.Context, clientID uint) ([]OrderLine, error)
	ListAll(ctx context.Context) ([]OrderLine, error)
}

// BookQuery is the options struct for a catalog search. Absent fields
// apply no constraint; exactly one of Title or ISBN drives the query.
type BookQuery struct {
	Title      string
	ISBN       string
	Language   string
	PrintType  string
	Subject    string
	Publisher  string
	OrderBy    string
	MaxResults int
}

type BookFinder interface {
	Search(ctx context.Context, q BookQuery) ([]Book, error)
}

// Notifier receives the ordered books with prices already materialized.
type Notifier interface {
	SendOrderConfirmation(email, name string, books []Book) error
}
