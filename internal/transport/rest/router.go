package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/betjuliano/sefa-dashboard/internal/model"
	"github.com/betjuliano/sefa-dashboard/internal/service"
	"github.com/betjuliano/sefa-dashboard/internal/transport/rest/handler"
	"github.com/betjuliano/sefa-dashboard/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	UploadService     *service.UploadService
	ProcessingService *service.ProcessingService
	Schemas           map[model.QuestionSet]*model.Schema
	MaxUploadBytes    int64
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	uploadHandler := handler.NewUploadHandler(c.UploadService, c.ProcessingService, c.MaxUploadBytes)
	resultHandler := handler.NewResultHandler(c.UploadService, c.ProcessingService)
	schemaHandler := handler.NewSchemaHandler(c.Schemas)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Authenticated routes
	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)

	userRoutes.HandleFunc("/uploads", uploadHandler.Create).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/uploads", uploadHandler.List).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/uploads/{uploadId}", uploadHandler.Delete).Methods("DELETE", "OPTIONS")
	userRoutes.HandleFunc("/uploads/{uploadId}/results", resultHandler.Get).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/schemas", schemaHandler.List).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/schemas/{set}", schemaHandler.Get).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
