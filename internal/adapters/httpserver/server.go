package httpserver

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dejalu/gestion/internal/domain"
	"github.com/dejalu/gestion/internal/usecase"
)

type Server struct {
	mux       *http.ServeMux
	tmpl      *template.Template
	books     domain.BookFinder
	customers *usecase.CustomerUC
	orders    *usecase.OrderUC
}

func New(t *template.Template, books domain.BookFinder, customers *usecase.CustomerUC, orders *usecase.OrderUC) http.Handler {
	s := &Server{tmpl: t, books: books, customers: customers, orders: orders, mux: http.NewServeMux()}
	s.routes()
	return Chain(s.mux,
		RequestID,
		Recovery,
		Logging,
		Gzip,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleSearch)

	s.mux.HandleFunc("/cart", s.handleCart)
	s.mux.HandleFunc("/cart/add", s.handleCartAdd)
	s.mux.HandleFunc("/cart/remove", s.handleCartRemove)
	s.mux.HandleFunc("/cart/clear", s.handleCartClear)
	s.mux.HandleFunc("/cart/checkout", s.handleCheckout)

	s.mux.HandleFunc("/clients", s.handleClients)
	s.mux.HandleFunc("/clients/new", s.handleClientNew)
	s.mux.HandleFunc("/clients/update", s.handleClientUpdate)
	s.mux.HandleFunc("/clients/delete", s.handleClientDelete)

	s.mux.HandleFunc("/export/orders.xlsx", s.handleExportOrders)
	s.mux.HandleFunc("/export/clients.xlsx", s.handleExportClients)

	s.mux.HandleFunc("/api/books", s.apiBooks)
	s.mux.HandleFunc("/api/clients", s.apiClients)
	s.mux.HandleFunc("/api/orders", s.apiOrders)
}

type searchPage struct {
	Query   domain.BookQuery
	Results []domain.Book
	Did     bool
	CartLen int
	Notice  string
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	q := domain.BookQuery{
		Title:     strings.TrimSpace(r.URL.Query().Get("titre")),
		ISBN:      strings.TrimSpace(r.URL.Query().Get("isbn")),
		Language:  r.URL.Query().Get("langue"),
		PrintType: r.URL.Query().Get("type"),
		Subject:   r.URL.Query().Get("sujet"),
		Publisher: r.URL.Query().Get("editeur"),
		OrderBy:   r.URL.Query().Get("tri"),
	}
	cart := readCart(r)
	page := searchPage{Query: q, CartLen: cart.Len(), Notice: r.URL.Query().Get("msg")}
	if q.Title != "" || q.ISBN != "" {
		page.Did = true
		results, err := s.books.Search(r.Context(), q)
		if err != nil {
			log.Warn().Err(err).Msg("recherche catalogue")
			page.Notice = userMessage(err)
		}
		page.Results = results
	}
	s.render(w, "search.html", page)
}

type cartPage struct {
	Cart    domain.Cart
	Clients []domain.Client
	Notice  string
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	clients, err := s.customers.List(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("liste clients pour le panier")
	}
	s.render(w, "cart.html", cartPage{
		Cart:    readCart(r),
		Clients: clients,
		Notice:  r.URL.Query().Get("msg"),
	})
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	b := domain.NewBook(r.FormValue("titre"), r.FormValue("auteur"))
	b.ISBN = strings.TrimSpace(r.FormValue("isbn"))
	b.CoverURL = r.FormValue("couverture")
	b.Published = r.FormValue("date_publication")
	if p := strings.TrimSpace(r.FormValue("prix")); p != "" {
		if v, err := strconv.ParseFloat(p, 64); err == nil {
			b.Price = &v
		}
	}
	if v := r.FormValue("editeur"); v != "" {
		b.Publisher = v
	}
	if v := r.FormValue("langue"); v != "" {
		b.Language = v
	}
	if v := r.FormValue("format"); v != "" {
		b.Format = v
	}
	cart := readCart(r)
	cart.Add(b)
	writeCart(w, cart)
	redirectBack(w, r, "/", "Livre ajouté au panier.")
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	idx, err := strconv.Atoi(r.FormValue("idx"))
	if err != nil {
		http.Error(w, "idx", http.StatusBadRequest)
		return
	}
	cart := readCart(r)
	cart.RemoveAt(idx)
	writeCart(w, cart)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (s *Server) handleCartClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	writeCart(w, domain.Cart{})
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// handleCheckout records the cart as an order. The cart cookie is cleared
// only on success; on any failure it stays intact so the clerk can retry.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	clientID, _ := strconv.ParseUint(r.FormValue("client_id"), 10, 32)
	cart := readCart(r)
	lines, err := s.orders.Record(r.Context(), uint(clientID), cart.Items)
	if err != nil {
		redirectBack(w, r, "/cart", userMessage(err))
		return
	}
	writeCart(w, domain.Cart{})
	redirectBack(w, r, "/cart", "Commande enregistrée ("+strconv.Itoa(len(lines))+" livres).")
}

type clientsPage struct {
	Filter  domain.ClientFilter
	Clients []domain.Client
	Notice  string
}

func (s *Server) handleClients(w http.ResponseWriter, r *http.Request) {
	f := domain.ClientFilter{
		Nom:       strings.TrimSpace(r.URL.Query().Get("nom")),
		Prenom:    strings.TrimSpace(r.URL.Query().Get("prenom")),
		Telephone: strings.TrimSpace(r.URL.Query().Get("telephone")),
	}
	var (
		list []domain.Client
		err  error
	)
	if f.Empty() {
		list, err = s.customers.List(r.Context())
	} else {
		list, err = s.customers.Search(r.Context(), f)
	}
	notice := r.URL.Query().Get("msg")
	if err != nil {
		notice = userMessage(err)
	}
	s.render(w, "clients.html", clientsPage{Filter: f, Clients: list, Notice: notice})
}

func (s *Server) handleClientNew(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	c := clientFromForm(r)
	if err := s.customers.Add(r.Context(), &c); err != nil {
		redirectBack(w, r, "/clients", userMessage(err))
		return
	}
	redirectBack(w, r, "/clients", "Client "+c.FullName()+" ajouté.")
}

func (s *Server) handleClientUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	c := clientFromForm(r)
	id, _ := strconv.ParseUint(r.FormValue("id"), 10, 32)
	c.ID = uint(id)
	if err := s.customers.Update(r.Context(), &c); err != nil {
		redirectBack(w, r, "/clients", userMessage(err))
		return
	}
	redirectBack(w, r, "/clients", "Client modifié.")
}

func (s *Server) handleClientDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	id, _ := strconv.ParseUint(r.FormValue("id"), 10, 32)
	if err := s.customers.Delete(r.Context(), uint(id)); err != nil {
		redirectBack(w, r, "/clients", userMessage(err))
		return
	}
	redirectBack(w, r, "/clients", "Client supprimé.")
}

func (s *Server) apiBooks(w http.ResponseWriter, r *http.Request) {
	q := domain.BookQuery{
		Title:     r.URL.Query().Get("titre"),
		ISBN:      r.URL.Query().Get("isbn"),
		Language:  r.URL.Query().Get("langue"),
		PrintType: r.URL.Query().Get("type"),
		Subject:   r.URL.Query().Get("sujet"),
		Publisher: r.URL.Query().Get("editeur"),
		OrderBy:   r.URL.Query().Get("tri"),
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("max")); err == nil {
		q.MaxResults = n
	}
	results, err := s.books.Search(r.Context(), q)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": userMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) apiClients(w http.ResponseWriter, r *http.Request) {
	list, err := s.customers.Search(r.Context(), domain.ClientFilter{
		Nom:       r.URL.Query().Get("nom"),
		Prenom:    r.URL.Query().Get("prenom"),
		Telephone: r.URL.Query().Get("telephone"),
	})
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": userMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) apiOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		ClientID uint          `json:"client_id"`
		Items    []domain.Book `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "corps JSON invalide"})
		return
	}
	lines, err := s.orders.Record(r.Context(), req.ClientID, req.Items)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": userMessage(err)})
		return
	}
	writeJSON(w, http.StatusCreated, lines)
}

func clientFromForm(r *http.Request) domain.Client {
	age, _ := strconv.Atoi(r.FormValue("age"))
	return domain.Client{
		Nom:       strings.TrimSpace(r.FormValue("nom")),
		Prenom:    strings.TrimSpace(r.FormValue("prenom")),
		Age:       age,
		Email:     strings.TrimSpace(r.FormValue("email")),
		Telephone: strings.TrimSpace(r.FormValue("telephone")),
	}
}

// userMessage maps the error taxonomy to a blocking notice. Persistence
// and transport root causes stay in the logs; the operator only sees a
// generic failure.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "Client introuvable."
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidArgument):
		msg := err.Error()
		if i := strings.Index(msg, ": "); i >= 0 {
			msg = msg[i+2:]
		}
		return "Saisie invalide : " + msg + "."
	default:
		return "Une erreur est survenue. Réessayez plus tard."
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func redirectBack(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, path+"?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("tpl", name).Msg("render")
		http.Error(w, "tpl", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
