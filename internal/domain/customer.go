package domain

import (
	"regexp"
	"strings"
)

// Client maps the legacy clients table, French column names included.
type Client struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Nom       string `gorm:"column:nom;size:140;not null" json:"nom"`
	Prenom    string `gorm:"column:prenom;size:140;not null" json:"prenom"`
	Age       int    `gorm:"column:age;not null" json:"age"`
	Email     string `gorm:"column:email;size:140;not null" json:"email"`
	Telephone string `gorm:"column:telephone;size:20" json:"telephone,omitempty"`
}

func (Client) TableName() string { return "clients" }

func (c Client) FullName() string {
	return strings.TrimSpace(c.Prenom + " " + c.Nom)
}

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
	phoneRe = regexp.MustCompile(`^\+?\d{10,15}$`)
)

func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidPhone accepts the empty string: the field is optional.
func ValidPhone(phone string) bool {
	if phone == "" {
		return true
	}
	return phoneRe.MatchString(phone)
}

// Validate checks required fields and formats before any statement runs.
func (c Client) Validate() error {
	if strings.TrimSpace(c.Nom) == "" || strings.TrimSpace(c.Prenom) == "" {
		return wrapf(ErrInvalidArgument, "nom et prénom requis")
	}
	if c.Age <= 0 {
		return wrapf(ErrValidation, "âge invalide: %d", c.Age)
	}
	if !ValidEmail(c.Email) {
		return wrapf(ErrValidation, "email invalide: %s", c.Email)
	}
	if !ValidPhone(c.Telephone) {
		return wrapf(ErrValidation, "téléphone invalide: %s", c.Telephone)
	}
	return nil
}

// ClientFilter carries optional substring filters for client search.
// An empty field applies no constraint.
type ClientFilter struct {
	Nom       string
	Prenom    string
	Telephone string
}

func (f ClientFilter) Empty() bool {
	return f.Nom == "" && f.Prenom == "" && f.Telephone == ""
}
