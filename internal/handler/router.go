package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter wires the full HTTP surface. Protected routes resolve the
// acting identity first, then the target project and task, then apply the
// mutation; each resolution step can short-circuit the chain.
func NewRouter(
	mw *Middleware,
	authHandler *AuthHandler,
	projectHandler *ProjectHandler,
	taskHandler *TaskHandler,
	teamHandler *TeamHandler,
	uploadsDir string,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(mw.RequestLogger)
	r.Use(mw.CORS)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/create-account", authHandler.CreateAccount)
		r.Post("/confirm-account", authHandler.ConfirmAccount)
		r.Post("/login", authHandler.Login)
		r.Post("/request-code", authHandler.RequestConfirmationCode)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/validate-token", authHandler.ValidateToken)
		r.Post("/update-password/{token}", authHandler.UpdatePasswordWithToken)

		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate)
			r.Get("/user", authHandler.CurrentUser)
			r.Put("/profile", authHandler.UpdateProfile)
			r.Post("/profile-image", authHandler.UploadProfileImage)
			r.Delete("/profile-image", authHandler.DeleteProfileImage)
			r.Post("/update-password", authHandler.UpdateCurrentUserPassword)
			r.Post("/check-password", authHandler.CheckPassword)
		})
	})

	r.Route("/api/projects", func(r chi.Router) {
		r.Use(mw.Authenticate)

		r.Post("/", projectHandler.Create)
		r.Get("/", projectHandler.List)

		r.Route("/{projectID}", func(r chi.Router) {
			r.Use(mw.ProjectCtx)

			r.Get("/", projectHandler.Get)
			r.With(mw.RequireManager).Put("/", projectHandler.Update)
			r.With(mw.RequireManager).Delete("/", projectHandler.Delete)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.With(mw.RequireManager).Post("/", taskHandler.Create)

				r.Route("/{taskID}", func(r chi.Router) {
					r.Use(mw.TaskCtx)

					r.Get("/", taskHandler.Get)
					r.With(mw.RequireManager).Put("/", taskHandler.Update)
					r.With(mw.RequireManager).Delete("/", taskHandler.Delete)
					r.Post("/status", taskHandler.UpdateStatus)
				})
			})

			r.Route("/team", func(r chi.Router) {
				r.Use(mw.RequireManager)

				r.Post("/find", teamHandler.Find)
				r.Get("/", teamHandler.Get)
				r.Post("/", teamHandler.Add)
				r.Delete("/{userID}", teamHandler.Remove)
			})
		})
	})

	// Uploaded profile images are public.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir)))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	return r
}
