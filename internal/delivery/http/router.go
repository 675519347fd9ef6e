package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventmanager/internal/delivery/http/controllers"
	"eventmanager/internal/delivery/http/middleware"
	"eventmanager/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Auth        *controllers.AuthController
	User        *controllers.UserController
	Event       *controllers.EventController
	Request     *controllers.RequestController
	Category    *controllers.CategoryController
	Compilation *controllers.CompilationController
	Comment     *controllers.CommentController
}

// NewRouter initializes the HTTP router with all application routes.
// Public reads go through limiter when it is non-nil; /users/me routes need a
// valid token and /admin routes additionally the admin role.
func NewRouter(c Controllers, verifier domain.TokenVerifier, limiter *middleware.RateLimiter, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier, logger)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	admin := func(h http.HandlerFunc) http.HandlerFunc { return auth(adminOnly(h)) }
	public := func(h http.HandlerFunc) http.Handler {
		if limiter == nil {
			return h
		}
		return limiter.Middleware(h)
	}

	// Public
	mux.Handle("GET /categories", public(c.Category.ListCategories))
	mux.Handle("GET /categories/{catID}", public(c.Category.GetCategory))
	mux.Handle("GET /events", public(c.Event.SearchEvents))
	mux.Handle("GET /events/{eventID}", public(c.Event.GetEvent))
	mux.Handle("GET /events/{eventID}/comments", public(c.Comment.ListEventComments))
	mux.Handle("GET /compilations", public(c.Compilation.ListCompilations))
	mux.Handle("GET /compilations/{compID}", public(c.Compilation.GetCompilation))

	// Auth
	mux.Handle("POST /auth/login-code", public(c.Auth.RequestLoginCode))
	mux.Handle("POST /auth/verify", public(c.Auth.VerifyLoginCode))

	// Private
	mux.HandleFunc("POST /users/me/events", auth(c.Event.CreateEvent))
	mux.HandleFunc("GET /users/me/events", auth(c.Event.ListMyEvents))
	mux.HandleFunc("GET /users/me/events/{eventID}", auth(c.Event.GetMyEvent))
	mux.HandleFunc("PATCH /users/me/events/{eventID}", auth(c.Event.UpdateMyEvent))
	mux.HandleFunc("GET /users/me/events/{eventID}/requests", auth(c.Request.ListEventRequests))
	mux.HandleFunc("PATCH /users/me/events/{eventID}/requests", auth(c.Request.UpdateRequestStatuses))
	mux.HandleFunc("POST /users/me/requests", auth(c.Request.CreateRequest))
	mux.HandleFunc("GET /users/me/requests", auth(c.Request.ListMyRequests))
	mux.HandleFunc("PATCH /users/me/requests/{requestID}/cancel", auth(c.Request.CancelRequest))
	mux.HandleFunc("POST /users/me/comments", auth(c.Comment.CreateComment))
	mux.HandleFunc("GET /users/me/comments", auth(c.Comment.ListMyComments))
	mux.HandleFunc("PATCH /users/me/comments/{commentID}", auth(c.Comment.UpdateMyComment))
	mux.HandleFunc("DELETE /users/me/comments/{commentID}", auth(c.Comment.DeleteMyComment))

	// Admin
	mux.HandleFunc("POST /admin/users", admin(c.User.CreateUser))
	mux.HandleFunc("GET /admin/users", admin(c.User.ListUsers))
	mux.HandleFunc("DELETE /admin/users/{userID}", admin(c.User.DeleteUser))
	mux.HandleFunc("POST /admin/categories", admin(c.Category.CreateCategory))
	mux.HandleFunc("PATCH /admin/categories/{catID}", admin(c.Category.UpdateCategory))
	mux.HandleFunc("DELETE /admin/categories/{catID}", admin(c.Category.DeleteCategory))
	mux.HandleFunc("GET /admin/events", admin(c.Event.AdminSearchEvents))
	mux.HandleFunc("PATCH /admin/events/{eventID}", admin(c.Event.AdminUpdateEvent))
	mux.HandleFunc("POST /admin/compilations", admin(c.Compilation.CreateCompilation))
	mux.HandleFunc("PATCH /admin/compilations/{compID}", admin(c.Compilation.UpdateCompilation))
	mux.HandleFunc("DELETE /admin/compilations/{compID}", admin(c.Compilation.DeleteCompilation))
	mux.HandleFunc("GET /admin/comments", admin(c.Comment.AdminListComments))
	mux.HandleFunc("DELETE /admin/comments/{commentID}", admin(c.Comment.AdminDeleteComment))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with request IDs, request logging and CORS.
func NewHandler(mux http.Handler, allowedOrigins []string, logger *slog.Logger) http.Handler {
	return middleware.RequestID(middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, mux)))
}
