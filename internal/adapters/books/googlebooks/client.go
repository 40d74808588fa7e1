package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dejalu/gestion/internal/domain"
)

const defaultBaseURL = "https://www.googleapis.com/books/v1"

// Client queries the Google Books volumes endpoint. One GET per search,
// fixed timeout, no retries; a polite limiter keeps bursts off the API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

func NewClient(baseURL, userAgent string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if userAgent == "" {
		userAgent = "gestion-dejalu/1.0"
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(rate.Every(time.Second/4), 1),
	}
}

type volumesResponse struct {
	Items []struct {
		VolumeInfo struct {
			Title               string   `json:"title"`
			Authors             []string `json:"authors"`
			Publisher           string   `json:"publisher"`
			PublishedDate       string   `json:"publishedDate"`
			Description         string   `json:"description"`
			PrintType           string   `json:"printType"`
			Language            string   `json:"language"`
			IndustryIdentifiers []struct {
				Type       string `json:"type"`
				Identifier string `json:"identifier"`
			} `json:"industryIdentifiers"`
			ImageLinks struct {
				Thumbnail string `json:"thumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// Search runs one volumes query. Exactly one of q.Title or q.ISBN must be
// set; a malformed ISBN is refused locally without any network call.
// An absent items array yields an empty slice, not an error.
func (c *Client) Search(ctx context.Context, q domain.BookQuery) ([]domain.Book, error) {
	title := strings.TrimSpace(q.Title)
	isbn := domain.CleanISBN(q.ISBN)

	if title == "" && isbn == "" {
		return nil, fmt.Errorf("%w: titre ou isbn requis", domain.ErrInvalidArgument)
	}
	if isbn != "" && !domain.ValidISBN(isbn) {
		return nil, fmt.Errorf("%w: isbn invalide: %s", domain.ErrValidation, q.ISBN)
	}

	params := url.Values{}
	params.Set("q", buildQueryTerm(title, isbn, q))
	params.Set("maxResults", strconv.Itoa(clampResults(q, isbn)))
	params.Set("orderBy", orderBy(q.OrderBy))
	if q.Language != "" {
		params.Set("langRestrict", strings.ToLower(q.Language))
	}
	if q.PrintType != "" {
		params.Set("printType", strings.ToLower(q.PrintType))
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	reqURL := c.baseURL + "/volumes?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: catalogue status %d", domain.ErrTransport, res.StatusCode)
	}

	var payload volumesResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: réponse illisible: %v", domain.ErrTransport, err)
	}

	books := make([]domain.Book, 0, len(payload.Items))
	for _, item := range payload.Items {
		info := item.VolumeInfo
		b := domain.NewBook(info.Title, strings.Join(info.Authors, ", "))
		b.CoverURL = info.ImageLinks.Thumbnail
		for _, id := range info.IndustryIdentifiers {
			if id.Type == "ISBN_13" {
				b.ISBN = id.Identifier
				break
			}
		}
		b.Published = info.PublishedDate
		b.Synopsis = info.Description
		if info.PrintType != "" {
			b.Format = info.PrintType
		}
		if info.Publisher != "" {
			b.Publisher = info.Publisher
		}
		if info.Language != "" {
			b.Language = info.Language
		}
		books = append(books, b)
	}
	return books, nil
}

// buildQueryTerm composes the q parameter. ISBN wins over title; subject
// and publisher terms apply only to a title search.
func buildQueryTerm(title, isbn string, q domain.BookQuery) string {
	if isbn != "" {
		return "isbn:" + isbn
	}
	parts := []string{"intitle:" + title}
	if s := strings.TrimSpace(q.Subject); s != "" {
		parts = append(parts, "subject:"+s)
	}
	if p := strings.TrimSpace(q.Publisher); p != "" {
		parts = append(parts, "inpublisher:"+p)
	}
	return strings.Join(parts, " ")
}

func clampResults(q domain.BookQuery, isbn string) int {
	if isbn != "" {
		return 1
	}
	n := q.MaxResults
	if n <= 0 {
		n = 15
	}
	if n > 40 {
		n = 40
	}
	return n
}

func orderBy(s string) string {
	if s == "newest" {
		return "newest"
	}
	return "relevance"
}
