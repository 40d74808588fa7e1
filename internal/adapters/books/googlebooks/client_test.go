package googlebooks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dejalu/gestion/internal/domain"
)

const sampleVolumes = `{
  "items": [
    {
      "volumeInfo": {
        "title": "Learning Python",
        "authors": ["Mark Lutz", "David Ascher"],
        "publisher": "O'Reilly Media",
        "publishedDate": "2013-06-12",
        "description": "Un guide complet.",
        "printType": "BOOK",
        "language": "en",
        "industryIdentifiers": [
          {"type": "ISBN_10", "identifier": "1449355730"},
          {"type": "ISBN_13", "identifier": "9781449355739"}
        ],
        "imageLinks": {"thumbnail": "http://books.example/cover.jpg"}
      }
    },
    {
      "volumeInfo": {
        "title": "",
        "authors": []
      }
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-agent"), srv
}

func TestSearchByTitle(t *testing.T) {
	var got url.Values
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleVolumes))
	})

	books, err := c.Search(context.Background(), domain.BookQuery{
		Title:     "learning python",
		Subject:   "Science",
		Publisher: "O'Reilly",
		Language:  "EN",
		PrintType: "Books",
		OrderBy:   "newest",
	})
	require.NoError(t, err)
	require.Len(t, books, 2)

	assert.Equal(t, "intitle:learning python subject:Science inpublisher:O'Reilly", got.Get("q"))
	assert.Equal(t, "15", got.Get("maxResults"))
	assert.Equal(t, "newest", got.Get("orderBy"))
	assert.Equal(t, "en", got.Get("langRestrict"))
	assert.Equal(t, "books", got.Get("printType"))

	b := books[0]
	assert.Equal(t, "Learning Python", b.Title)
	assert.Equal(t, "Mark Lutz, David Ascher", b.Author)
	assert.Equal(t, "9781449355739", b.ISBN, "identifiant ISBN_13 retenu")
	assert.Equal(t, "O'Reilly Media", b.Publisher)
	assert.Equal(t, "http://books.example/cover.jpg", b.CoverURL)
	assert.Equal(t, "BOOK", b.Format)

	// missing fields fall back to the sentinels
	empty := books[1]
	assert.Equal(t, domain.UnknownTitle, empty.Title)
	assert.Equal(t, domain.UnknownAuthor, empty.Author)
	assert.Equal(t, domain.UnknownPublisher, empty.Publisher)
	assert.Empty(t, empty.ISBN)
}

func TestSearchByISBN(t *testing.T) {
	var got url.Values
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(`{}`))
	})

	books, err := c.Search(context.Background(), domain.BookQuery{ISBN: "978-3-16-148410-0", Subject: "ignored"})
	require.NoError(t, err)
	assert.Empty(t, books, "items absent => zéro résultat")
	assert.Equal(t, "isbn:9783161484100", got.Get("q"), "isbn nettoyé, sujet ignoré sans titre")
	assert.Equal(t, "1", got.Get("maxResults"))
	assert.Equal(t, "relevance", got.Get("orderBy"))
}

func TestSearchIdempotent(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleVolumes))
	})
	q := domain.BookQuery{Title: "learning python"}
	first, err := c.Search(context.Background(), q)
	require.NoError(t, err)
	second, err := c.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSearchRejectsLocally(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	_, err := c.Search(context.Background(), domain.BookQuery{})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = c.Search(context.Background(), domain.BookQuery{ISBN: "12345"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	assert.Zero(t, calls, "aucun appel réseau pour une requête refusée")
}

func TestSearchMaxResultsClamped(t *testing.T) {
	var got url.Values
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(`{}`))
	})
	_, err := c.Search(context.Background(), domain.BookQuery{Title: "go", MaxResults: 100})
	require.NoError(t, err)
	assert.Equal(t, "40", got.Get("maxResults"))
}

func TestSearchTransportFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	_, err := c.Search(context.Background(), domain.BookQuery{Title: "go"})
	assert.True(t, errors.Is(err, domain.ErrTransport))

	c2, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})
	_, err = c2.Search(context.Background(), domain.BookQuery{Title: "go"})
	assert.True(t, errors.Is(err, domain.ErrTransport))
}
