package controller

import (
	"encoding/json"
	"net/http"

	"github.com/beanstalk-farms/beanstalk-indexer/app/query/types"
	"github.com/beanstalk-farms/beanstalk-indexer/pkg/utils"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Controller struct {
	App *types.App

	// AdminToken is a static admin-equivalent bearer token, empty disables it.
	AdminToken string
	// JWTSecret signs admin session tokens.
	JWTSecret []byte
	// AdminUser / AdminHash gate /admin/login. AdminHash is a bcrypt hash.
	AdminUser string
	AdminHash []byte
}

// NewController returns a new controller.
func NewController(app *types.App) *Controller {
	adminHash, err := utils.HashOrRead(utils.Env("ADMIN_PASSWORD", "admin"))
	if err != nil {
		app.Logger.Fatal("Unable to prepare admin password hash", zap.Error(err))
	}

	return &Controller{
		App:        app,
		AdminToken: utils.Env("ADMIN_TOKEN", ""),
		JWTSecret:  []byte(utils.Env("JWT_SECRET", "beanstalk-dev-secret")),
		AdminUser:  utils.Env("ADMIN_USER", "admin"),
		AdminHash:  adminHash,
	}
}

// NewRouter returns a new router with all the routes defined in this file.
func (c *Controller) NewRouter() (*mux.Router, error) {
	r := mux.NewRouter()

	r.Handle("/health", http.HandlerFunc(c.HandleHealth)).Methods("GET")
	r.HandleFunc("/stats", c.HandleStats).Methods("GET")

	r.HandleFunc("/seasons/latest", c.SeasonLatest).Methods("GET")
	r.HandleFunc("/seasons/{season}", c.SeasonByNumber).Methods("GET")

	r.HandleFunc("/silo", c.ProtocolSilo).Methods("GET")
	r.HandleFunc("/silo/{account}", c.SiloByAccount).Methods("GET")
	r.HandleFunc("/silo/{account}/deposits", c.DepositsByAccount).Methods("GET")

	r.HandleFunc("/field", c.ProtocolField).Methods("GET")
	r.HandleFunc("/field/{account}", c.FieldByAccount).Methods("GET")
	r.HandleFunc("/field/{account}/plots", c.PlotsByAccount).Methods("GET")

	r.HandleFunc("/market", c.MarketOverview).Methods("GET")
	r.HandleFunc("/market/listings", c.ActiveListings).Methods("GET")
	r.HandleFunc("/market/orders", c.ActiveOrders).Methods("GET")

	r.HandleFunc("/yield/{season}", c.YieldsBySeason).Methods("GET")

	r.HandleFunc("/ws/seasons", c.HandleSeasonSocket)

	r.HandleFunc("/admin/login", c.HandleLogin).Methods("POST")
	r.Handle("/admin/stats/refresh", c.RequireAdmin(http.HandlerFunc(c.HandleStatsRefresh))).Methods("POST")
	r.Handle("/admin/info", c.RequireAdmin(http.HandlerFunc(c.HandleAdminInfo))).Methods("GET")

	return r, nil
}

// WithCORS wraps a handler with permissive CORS headers.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", http.MethodGet+", "+http.MethodPost+", "+http.MethodOptions)

		// Fast-path the preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
