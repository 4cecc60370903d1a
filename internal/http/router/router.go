package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/http/handler"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/http/middleware"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/http/response"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/security"
)

// Dependencies carries everything the router needs; DI fills it in.
type Dependencies struct {
	AuthHandler     *handler.AuthHandler
	ProfileHandler  *handler.ProfileHandler
	NoteHandler     *handler.NoteHandler
	CategoryHandler *handler.CategoryHandler
	TagHandler      *handler.TagHandler

	Tokens *security.TokenManager

	// AuthLimiter guards the anonymous auth endpoints; APILimiter covers
	// the authenticated surface.
	AuthLimiter *middleware.RateLimiter
	APILimiter  *middleware.RateLimiter
}

func New(dep Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(middleware.Tracing())

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		response.JSON(w, req, http.StatusOK, map[string]string{"status": "ok"})
	})

	requireSession := middleware.RequireSession(dep.Tokens)

	r.Route("/api/auth", func(r chi.Router) {
		// Anonymous endpoints carry the stricter limiter.
		r.Group(func(r chi.Router) {
			if dep.AuthLimiter != nil {
				r.Use(dep.AuthLimiter.Middleware())
			}
			r.Post("/register", dep.AuthHandler.Register)
			r.Post("/login", dep.AuthHandler.Login)
			r.Post("/verify-email", dep.AuthHandler.VerifyEmail)
			r.Post("/resend-verification", dep.AuthHandler.ResendVerification)
			r.Post("/reset-password", dep.AuthHandler.ForgotPassword)
			r.Put("/reset-password", dep.AuthHandler.ResetPassword)
			r.Get("/oauth/{provider}", dep.AuthHandler.OAuthStart)
			r.Get("/oauth/{provider}/callback", dep.AuthHandler.OAuthCallback)
		})

		r.Post("/logout", dep.AuthHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(requireSession)
			if dep.APILimiter != nil {
				r.Use(dep.APILimiter.Middleware())
			}
			r.Get("/session", dep.AuthHandler.Session)
			r.Post("/session/refresh", dep.AuthHandler.RefreshSession)
			r.Get("/accounts", dep.ProfileHandler.ListAccounts)
			r.Delete("/accounts", dep.ProfileHandler.DisconnectAccount)
		})
	})

	r.Route("/api/user", func(r chi.Router) {
		r.Use(requireSession)
		if dep.APILimiter != nil {
			r.Use(dep.APILimiter.Middleware())
		}
		r.Get("/profile", dep.ProfileHandler.GetProfile)
		r.Put("/profile", dep.ProfileHandler.UpdateProfile)
		r.Post("/change-password", dep.ProfileHandler.ChangePassword)
		r.Post("/setup", dep.ProfileHandler.CompleteSetup)
		r.Post("/avatar", dep.ProfileHandler.UploadAvatar)
		r.Delete("/avatar", dep.ProfileHandler.DeleteAvatar)
	})

	r.Route("/api/notes", func(r chi.Router) {
		r.Use(requireSession)
		if dep.APILimiter != nil {
			r.Use(dep.APILimiter.Middleware())
		}
		r.Get("/", dep.NoteHandler.List)
		r.Post("/", dep.NoteHandler.Create)
		r.Get("/search", dep.NoteHandler.Search)
		r.Get("/{id}", dep.NoteHandler.Get)
		r.Put("/{id}", dep.NoteHandler.Update)
		r.Delete("/{id}", dep.NoteHandler.Delete)
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Use(requireSession)
		if dep.APILimiter != nil {
			r.Use(dep.APILimiter.Middleware())
		}
		r.Get("/", dep.CategoryHandler.List)
		r.Post("/", dep.CategoryHandler.Create)
		r.Put("/{id}", dep.CategoryHandler.Update)
		r.Delete("/{id}", dep.CategoryHandler.Delete)
	})

	r.Route("/api/tags", func(r chi.Router) {
		r.Use(requireSession)
		if dep.APILimiter != nil {
			r.Use(dep.APILimiter.Middleware())
		}
		r.Get("/", dep.TagHandler.List)
		r.Post("/", dep.TagHandler.Create)
		r.Delete("/{id}", dep.TagHandler.Delete)
	})

	return r
}
