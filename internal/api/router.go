package api

import (
	"net/http"

	"github.com/erazemk/ponovno/internal/auth"
	"github.com/erazemk/ponovno/internal/catalog"
	"github.com/erazemk/ponovno/internal/impact"
	"github.com/erazemk/ponovno/internal/users"
	"github.com/erazemk/ponovno/internal/workflow"
)

// Services are the domain services behind the API.
type Services struct {
	Auth     *auth.Gateway
	Catalog  *catalog.Catalog
	Users    *users.Directory
	Workflow *workflow.Workflow
	Impact   *impact.Aggregator
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(s *Services) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{Gateway: s.Auth}
	usersHandler := &UsersHandler{Users: s.Users}
	itemsHandler := &ItemsHandler{Catalog: s.Catalog, Users: s.Users}
	transactionsHandler := &TransactionsHandler{Workflow: s.Workflow}
	metricsHandler := &MetricsHandler{Impact: s.Impact}

	authMW := AuthMiddleware(s.Auth)

	// Public.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("GET /api/items/{id}/image", itemsHandler.GetImage)
	mux.HandleFunc("GET /api/users/{id}/photo", usersHandler.Photo)
	mux.HandleFunc("POST /api/reports", itemsHandler.Report)
	mux.HandleFunc("GET /api/metrics/environment", metricsHandler.Environment)

	// Session.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Profile.
	mux.Handle("GET /api/users/me", authMW(http.HandlerFunc(usersHandler.Me)))
	mux.Handle("PUT /api/users/me", authMW(http.HandlerFunc(usersHandler.UpdateMe)))
	mux.Handle("PUT /api/users/me/photo", authMW(http.HandlerFunc(usersHandler.UploadPhoto)))
	mux.Handle("GET /api/users/me/items", authMW(http.HandlerFunc(usersHandler.MyItems)))
	mux.Handle("GET /api/users/me/stats", authMW(http.HandlerFunc(usersHandler.MyStats)))
	mux.Handle("GET /api/users/me/favorites", authMW(http.HandlerFunc(usersHandler.MyFavorites)))

	// Items: owner-only writes are checked by the catalog.
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("PUT /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("PUT /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.UploadImage)))
	mux.Handle("POST /api/items/{id}/favorite", authMW(http.HandlerFunc(itemsHandler.ToggleFavorite)))

	// Transactions.
	mux.Handle("POST /api/transactions", authMW(http.HandlerFunc(transactionsHandler.Create)))
	mux.Handle("GET /api/transactions", authMW(http.HandlerFunc(transactionsHandler.List)))
	mux.Handle("GET /api/transactions/{id}", authMW(http.HandlerFunc(transactionsHandler.Get)))
	mux.Handle("POST /api/transactions/{id}/respond", authMW(http.HandlerFunc(transactionsHandler.Respond)))
	mux.Handle("POST /api/transactions/{id}/cancel", authMW(http.HandlerFunc(transactionsHandler.Cancel)))
	mux.Handle("POST /api/transactions/{id}/complete", authMW(http.HandlerFunc(transactionsHandler.Complete)))

	return LoggingMiddleware(mux)
}
