package http

import (
	"net/http"

	"findmyclinic/internal/delivery/http/handler"
	"findmyclinic/internal/delivery/http/middleware"
	"findmyclinic/internal/delivery/ws"

	"github.com/gorilla/mux"
)

type Router struct {
	router          *mux.Router
	authHandler     *handler.AuthHandler
	clinicHandler   *handler.ClinicHandler
	doctorHandler   *handler.DoctorHandler
	bookingHandler  *handler.BookingHandler
	queueHandler    *handler.QueueHandler
	symptomHandler  *handler.SymptomHandler
	auditLogHandler *handler.AuditLogHandler
	queueFeed       *ws.QueueFeedHandler
	authMiddleware  *middleware.AuthMiddleware
	corsMiddleware  *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	clinicHandler *handler.ClinicHandler,
	doctorHandler *handler.DoctorHandler,
	bookingHandler *handler.BookingHandler,
	queueHandler *handler.QueueHandler,
	symptomHandler *handler.SymptomHandler,
	auditLogHandler *handler.AuditLogHandler,
	queueFeed *ws.QueueFeedHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:          mux.NewRouter(),
		authHandler:     authHandler,
		clinicHandler:   clinicHandler,
		doctorHandler:   doctorHandler,
		bookingHandler:  bookingHandler,
		queueHandler:    queueHandler,
		symptomHandler:  symptomHandler,
		auditLogHandler: auditLogHandler,
		queueFeed:       queueFeed,
		authMiddleware:  authMiddleware,
		corsMiddleware:  corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)
	authProtected.HandleFunc("/me/profile", r.authHandler.UpdateProfile).Methods(http.MethodPut)

	// Directory routes (public)
	api.HandleFunc("/clinics", r.clinicHandler.ListClinics).Methods(http.MethodGet)
	api.HandleFunc("/clinics/{id}", r.clinicHandler.GetClinic).Methods(http.MethodGet)
	api.HandleFunc("/doctors", r.doctorHandler.ListDoctors).Methods(http.MethodGet)
	api.HandleFunc("/specializations", r.doctorHandler.ListSpecializations).Methods(http.MethodGet)

	// Symptom analysis (public)
	api.HandleFunc("/symptoms/analyze", r.symptomHandler.Analyze).Methods(http.MethodPost)

	// Booking and queue routes work with or without credentials; malformed
	// auth degrades to anonymous rather than failing the request.
	booking := api.NewRoute().Subrouter()
	booking.Use(r.authMiddleware.OptionalAuthenticate)
	booking.HandleFunc("/tokens", r.bookingHandler.CreateToken).Methods(http.MethodPost)
	booking.HandleFunc("/tokens/{id}/cancel", r.bookingHandler.CancelToken).Methods(http.MethodPost)
	booking.HandleFunc("/queue/status", r.queueHandler.GetStatus).Methods(http.MethodPost)
	booking.HandleFunc("/queue/feed", r.queueFeed.Handle).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.ListLogs).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
