package httpserver

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"habitfree/internal/http/handler"
	"habitfree/internal/logger"
)

// Handlers groups the endpoint handlers wired by NewRouter.
type Handlers struct {
	Auth    *handler.AuthHandler
	Habit   *handler.HabitHandler
	Message *handler.MessageHandler
	Control *handler.ControlHandler
}

// NewRouter wires HTTP routes.
func NewRouter(h Handlers, l *log.Logger) http.Handler {
	l = logger.Named(l, "http")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  l.StandardLog(),
		NoColor: true,
	}))
	r.Use(handler.Recoverer(l))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Welcome to Habit Free API !"))
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/register", h.Auth.Register)
	r.Post("/login", h.Auth.Login)

	r.Get("/get_habits", h.Habit.List)
	r.Post("/add", h.Habit.Create)
	r.Delete("/delete/{id:[0-9]+}", h.Habit.Delete)

	r.Get("/get_messages", h.Message.List)
	r.Post("/inbox", h.Message.Create)
	r.Delete("/delete_message/{id:[0-9]+}", h.Message.Delete)
	r.Post("/toggle_message_mask/{id:[0-9]+}", h.Message.ToggleMask)
	r.Get("/delivered", h.Message.ListDelivered)

	r.Route("/control", func(r chi.Router) {
		r.Get("/status", h.Control.Status)
		r.Post("/start", h.Control.Start)
		r.Post("/stop", h.Control.Stop)
		r.Post("/run", h.Control.Run)
	})

	return r
}
