package domain

import (
	"fmt"
	"strings"
)

// Sentinel values applied when the catalog payload omits a field.
const (
	UnknownTitle     = "Titre inconnu"
	UnknownAuthor    = "Auteur inconnu"
	UnknownPublisher = "Éditeur inconnu"
	UnknownLanguage  = "Langue inconnue"
	UnknownFormat    = "Non spécifié"
)

// Book is one record parsed from a catalog API response. It is immutable
// once built; putting it in a cart takes a copy with the price materialized.
type Book struct {
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	CoverURL  string   `json:"cover_url,omitempty"`
	ISBN      string   `json:"isbn,omitempty"`
	Published string   `json:"published,omitempty"`
	Synopsis  string   `json:"synopsis,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	Format    string   `json:"format"`
	Publisher string   `json:"publisher"`
	Language  string   `json:"language"`
}

func NewBook(title, author string) Book {
	if strings.TrimSpace(title) == "" {
		title = UnknownTitle
	}
	if strings.TrimSpace(author) == "" {
		author = UnknownAuthor
	}
	return Book{
		Title:     title,
		Author:    author,
		Format:    UnknownFormat,
		Publisher: UnknownPublisher,
		Language:  UnknownLanguage,
	}
}

func (b Book) String() string {
	return b.Title + " de " + b.Author
}

// DisplayPrice renders the price with two decimals, or the unspecified
// sentinel when the catalog carried none.
func (b Book) DisplayPrice() string {
	if b.Price == nil {
		return UnknownFormat
	}
	return fmt.Sprintf("%.2f €", *b.Price)
}

// CleanISBN strips hyphens and spaces.
func CleanISBN(isbn string) string {
	isbn = strings.ReplaceAll(isbn, "-", "")
	return strings.ReplaceAll(isbn, " ", "")
}

// ValidISBN reports whether the ISBN is 10 or 13 digits after stripping
// hyphens and spaces. Empty input is invalid.
func ValidISBN(isbn string) bool {
	c := CleanISBN(isbn)
	if len(c) != 10 && len(c) != 13 {
		return false
	}
	for _, r := range c {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
