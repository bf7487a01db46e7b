package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventful/internal/delivery/http/controllers"
	"eventful/internal/delivery/http/middleware"
	"eventful/internal/domain"
)

// Controllers bundles the handler set the router wires up.
type Controllers struct {
	Auth          *controllers.AuthController
	Events        *controllers.EventController
	Tickets       *controllers.TicketController
	Users         *controllers.UserController
	Notifications *controllers.NotificationController
	Categories    *controllers.CategoryController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, verifier domain.TokenVerifier) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier)
	creatorOnly := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(domain.RoleCreator)(next))
	}

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Events
	mux.HandleFunc("GET /events", c.Events.List)
	mux.HandleFunc("GET /events/{id}", c.Events.Get)
	mux.HandleFunc("POST /events", creatorOnly(c.Events.Create))
	mux.HandleFunc("PATCH /events/{id}", creatorOnly(c.Events.Update))
	mux.HandleFunc("DELETE /events/{id}", creatorOnly(c.Events.Delete))
	mux.HandleFunc("POST /events/{id}/attend", auth(c.Events.Attend))
	mux.HandleFunc("GET /events/{id}/tickets", creatorOnly(c.Events.ListTickets))

	// Tickets
	mux.HandleFunc("GET /tickets/{id}/verify", c.Tickets.Verify)
	mux.HandleFunc("POST /tickets/{id}/scan", auth(c.Tickets.Scan))
	mux.HandleFunc("POST /tickets/{id}/cancel", auth(c.Tickets.Cancel))

	// Users
	mux.HandleFunc("GET /users/me", auth(c.Users.Me))
	mux.HandleFunc("GET /users/me/events", auth(c.Users.RegisteredEvents))

	// Notifications
	mux.HandleFunc("GET /notifications", auth(c.Notifications.List))

	// Categories
	mux.HandleFunc("GET /categories", c.Categories.List)
	mux.HandleFunc("GET /categories/{id}", c.Categories.Get)
	mux.HandleFunc("POST /categories", creatorOnly(c.Categories.Create))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
