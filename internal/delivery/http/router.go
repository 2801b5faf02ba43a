package http

import (
	"net/http"

	"health-info-api/internal/delivery/http/handler"
	"health-info-api/internal/delivery/http/middleware"
	"health-info-api/pkg/response"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	programHandler      *handler.ProgramHandler
	enrollmentHandler   *handler.EnrollmentHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	loggingMiddleware   *middleware.LoggingMiddleware
	metricsMiddleware   *middleware.MetricsMiddleware
	rateLimitMiddleware *middleware.RateLimitMiddleware
	metricsHandler      http.Handler
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	programHandler *handler.ProgramHandler,
	enrollmentHandler *handler.EnrollmentHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	metricsMiddleware *middleware.MetricsMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	metricsHandler http.Handler,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		userHandler:         userHandler,
		programHandler:      programHandler,
		enrollmentHandler:   enrollmentHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		loggingMiddleware:   loggingMiddleware,
		metricsMiddleware:   metricsMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
		metricsHandler:      metricsHandler,
	}
}

func (r *Router) Setup() *mux.Router {
	api := r.router

	api.NotFoundHandler = http.HandlerFunc(r.notFound)
	api.MethodNotAllowedHandler = http.HandlerFunc(r.methodNotAllowed)

	// Health check and metrics
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	api.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)

	// Auth routes (public)
	api.HandleFunc("/verify", r.authHandler.VerifyAccount).Methods(http.MethodPost)
	api.HandleFunc("/reset-password", r.authHandler.ResetPassword).Methods(http.MethodPost)

	// Auth routes (public, rate limited)
	limited := api.NewRoute().Subrouter()
	limited.Use(r.rateLimitMiddleware.Handle)
	limited.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	limited.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	limited.HandleFunc("/resend-verification", r.authHandler.ResendVerification).Methods(http.MethodPost)
	limited.HandleFunc("/forgot-password", r.authHandler.ForgotPassword).Methods(http.MethodPost)

	// Program catalog (public reads)
	api.HandleFunc("/program", r.programHandler.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/program/active", r.programHandler.GetActive).Methods(http.MethodGet)
	api.HandleFunc("/program/difficulty/{difficulty}", r.programHandler.GetByDifficulty).Methods(http.MethodGet)
	api.HandleFunc("/program/{programId}", r.programHandler.Get).Methods(http.MethodGet)

	// Everything below requires a session
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)
	protected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)

	// User management (admin)
	protected.Handle("/users", middleware.RequireAdmin(http.HandlerFunc(r.userHandler.ListUsers))).Methods(http.MethodGet)
	protected.Handle("/users/search", middleware.RequireAdmin(http.HandlerFunc(r.userHandler.SearchUsers))).Methods(http.MethodGet)

	// User self service
	selfOrAdmin := middleware.RequireSelfOrAdmin("userId")
	protected.Handle("/users/{userId}", selfOrAdmin(http.HandlerFunc(r.userHandler.GetUser))).Methods(http.MethodGet)
	protected.Handle("/users/{userId}", selfOrAdmin(http.HandlerFunc(r.userHandler.UpdateUser))).Methods(http.MethodPut)
	protected.Handle("/users/{userId}/password", middleware.RequireSelf("userId")(http.HandlerFunc(r.userHandler.ChangePassword))).Methods(http.MethodPut)
	// Aliases used by the existing frontend
	protected.Handle("/v2/users", middleware.RequireAdmin(http.HandlerFunc(r.userHandler.ListUsers))).Methods(http.MethodGet)
	protected.Handle("/v2/users/search", middleware.RequireAdmin(http.HandlerFunc(r.userHandler.SearchUsers))).Methods(http.MethodGet)
	protected.Handle("/v2/users/{userId}", selfOrAdmin(http.HandlerFunc(r.userHandler.GetUser))).Methods(http.MethodGet)
	protected.Handle("/v2/users/{userId}", selfOrAdmin(http.HandlerFunc(r.userHandler.UpdateUser))).Methods(http.MethodPut)

	protected.Handle("/users/{userId}/upgrade-to-doctor", selfOrAdmin(http.HandlerFunc(r.userHandler.UpgradeToDoctor))).Methods(http.MethodPost)

	// Program management (admin)
	protected.Handle("/program", middleware.RequireAdmin(http.HandlerFunc(r.programHandler.Create))).Methods(http.MethodPost)
	protected.Handle("/program/{programId}", middleware.RequireAdmin(http.HandlerFunc(r.programHandler.Update))).Methods(http.MethodPut)
	protected.Handle("/program/{programId}", middleware.RequireAdmin(http.HandlerFunc(r.programHandler.Delete))).Methods(http.MethodDelete)
	protected.Handle("/program/{programId}/toggle", middleware.RequireAdmin(http.HandlerFunc(r.programHandler.ToggleStatus))).Methods(http.MethodPatch)

	// Enrollments
	protected.HandleFunc("/enrollment", r.enrollmentHandler.Create).Methods(http.MethodPost)
	protected.Handle("/enrollment", middleware.RequireAdmin(http.HandlerFunc(r.enrollmentHandler.GetAll))).Methods(http.MethodGet)
	protected.HandleFunc("/user/{userId}", r.enrollmentHandler.GetByUser).Methods(http.MethodGet)
	protected.Handle("/program/{programId}/enrollments", middleware.RequireAdminOrDoctor(http.HandlerFunc(r.enrollmentHandler.GetByProgram))).Methods(http.MethodGet)
	protected.HandleFunc("/{enrollmentId:[0-9]+}", r.enrollmentHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/{enrollmentId:[0-9]+}", r.enrollmentHandler.Update).Methods(http.MethodPatch)
	protected.HandleFunc("/{enrollmentId:[0-9]+}", r.enrollmentHandler.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/{enrollmentId:[0-9]+}/complete", r.enrollmentHandler.Complete).Methods(http.MethodPut)

	// Audit logs (admin)
	protected.Handle("/audit-logs", middleware.RequireAdmin(http.HandlerFunc(r.auditLogHandler.GetAllAuditLogs))).Methods(http.MethodGet)
	protected.Handle("/audit-logs/{id:[0-9]+}", middleware.RequireAdmin(http.HandlerFunc(r.auditLogHandler.GetAuditLog))).Methods(http.MethodGet)

	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.metricsMiddleware.Handle)

	return r.router
}

// Handler returns the routes wrapped in CORS handling. CORS sits outside
// the router so preflight requests are answered for every path.
func (r *Router) Handler() http.Handler {
	return r.corsMiddleware.Handle(r.Setup())
}

func (r *Router) notFound(w http.ResponseWriter, req *http.Request) {
	response.NotFound(w, "Route not found")
}

func (r *Router) methodNotAllowed(w http.ResponseWriter, req *http.Request) {
	response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
