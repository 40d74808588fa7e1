package app

import (
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/dejalu/gestion/internal/adapters/books/googlebooks"
	"github.com/dejalu/gestion/internal/adapters/httpserver"
	"github.com/dejalu/gestion/internal/adapters/mailer"
	"github.com/dejalu/gestion/internal/adapters/repo/postgres"
	"github.com/dejalu/gestion/internal/domain"
	"github.com/dejalu/gestion/internal/usecase"
	"github.com/dejalu/gestion/internal/views"
)

type App struct {
	DB         *gorm.DB
	Tmpl       *template.Template
	CustomerUC *usecase.CustomerUC
	OrderUC    *usecase.OrderUC
	Books      domain.BookFinder
}

func New(db *gorm.DB) (*App, error) {
	clientRepo := postgres.NewClientRepo(db)
	orderRepo := postgres.NewOrderRepo(db)
	catalog := googlebooks.NewClient(os.Getenv("BOOKS_API_BASE_URL"), os.Getenv("BOOKS_USER_AGENT"))

	app := &App{DB: db, Books: catalog}
	app.CustomerUC = &usecase.CustomerUC{Clients: clientRepo}
	app.OrderUC = &usecase.OrderUC{
		Clients:  clientRepo,
		Orders:   orderRepo,
		Notify:   mailer.NewFromEnv(),
		PriceMin: envFloat("RANDOM_PRICE_MIN", usecase.DefaultPriceMin),
		PriceMax: envFloat("RANDOM_PRICE_MAX", usecase.DefaultPriceMax),
	}

	funcMap := template.FuncMap{
		"f2": func(v *float64) string {
			if v == nil {
				return ""
			}
			return fmt.Sprintf("%.2f", *v)
		},
	}

	appEnv := strings.ToLower(os.Getenv("APP_ENV"))
	isDev := appEnv == "" || appEnv == "development" || appEnv == "dev"

	var tmpl *template.Template
	var err error
	if isDev {
		tmpl, err = template.New("layout").Funcs(funcMap).ParseGlob("internal/views/*.html")
	} else {
		tmpl, err = template.New("layout").Funcs(funcMap).ParseFS(views.FS, "*.html")
	}
	if err != nil {
		return nil, err
	}
	app.Tmpl = tmpl

	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.Tmpl, a.Books, a.CustomerUC, a.OrderUC)
}

func (a *App) Migrate() error {
	if err := a.DB.AutoMigrate(&domain.Client{}, &domain.OrderLine{}); err != nil {
		return err
	}
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_commandes_client_id ON commandes(client_id)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_clients_nom ON clients(nom)").Error
	return nil
}

func envFloat(key string, def float64) float64 {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return def
}
