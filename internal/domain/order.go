package domain

import "time"

// MaxLinePrice matches the DECIMAL(10,2) width of the commandes table.
const MaxLinePrice = 99999999.99

// OrderLine is one persisted row of the commandes table. There is no order
// header entity: an order is the batch of lines sharing a client id and
// insertion time.
type OrderLine struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ClientID   uint      `gorm:"column:client_id;index;not null" json:"client_id"`
	LivreISBN  string    `gorm:"column:livre_isbn;size:20;not null" json:"livre_isbn"`
	TitreLivre string    `gorm:"column:titre_livre;size:255;not null" json:"titre_livre"`
	Prix       float64   `gorm:"column:prix;type:decimal(10,2);not null" json:"prix"`
	CreatedAt  time.Time `json:"created_at"`
}

func (OrderLine) TableName() string { return "commandes" }
