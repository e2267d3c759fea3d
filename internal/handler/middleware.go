package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/ptescayola/uptask-backend/internal/auth"
	"github.com/ptescayola/uptask-backend/internal/model"
	"github.com/ptescayola/uptask-backend/internal/repository"
)

type ctxKey int

const (
	userCtxKey ctxKey = iota
	projectCtxKey
	taskCtxKey
)

// UserFromContext returns the authenticated user resolved by Authenticate.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(userCtxKey).(*model.User)
	return user
}

// ProjectFromContext returns the authorized project resolved by ProjectCtx.
func ProjectFromContext(ctx context.Context) *model.Project {
	project, _ := ctx.Value(projectCtxKey).(*model.Project)
	return project
}

// TaskFromContext returns the project-scoped task resolved by TaskCtx.
func TaskFromContext(ctx context.Context) *model.Task {
	task, _ := ctx.Value(taskCtxKey).(*model.Task)
	return task
}

// Middleware resolves and authorizes the acting identity and the target
// entities before any handler logic runs.
type Middleware struct {
	jwtAuth     auth.JWTAuthenticator
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	frontendURL string
	logger      *zerolog.Logger
}

// NewMiddleware creates a new Middleware instance.
func NewMiddleware(
	jwtAuth auth.JWTAuthenticator,
	userRepo repository.UserRepository,
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	frontendURL string,
	logger *zerolog.Logger,
) *Middleware {
	return &Middleware{
		jwtAuth:     jwtAuth,
		userRepo:    userRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// Authenticate verifies the bearer credential and resolves it to a live
// user. A missing, malformed or expired credential, or one referencing a
// user that no longer exists, short-circuits with 401 before any other
// logic runs.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || tokenStr == "" {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		userID, err := m.jwtAuth.VerifySession(tokenStr)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, err := m.userRepo.GetUser(r.Context(), userID)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ProjectCtx resolves the {projectID} path parameter and checks that the
// acting user may access the project (manager or team member). Both an
// absent project and an unauthorized one answer 404: existence is not
// revealed to users without access.
func (m *Middleware) ProjectCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())

		project, err := m.projectRepo.GetProject(r.Context(), chi.URLParam(r, "projectID"))
		if err != nil {
			respondError(w, http.StatusNotFound, "project not found")
			return
		}

		if !project.CanAccess(user.ID) {
			respondError(w, http.StatusNotFound, "project not found")
			return
		}

		ctx := context.WithValue(r.Context(), projectCtxKey, project)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireManager restricts a route to the project manager. Team members
// get the same 404 an outsider would, so manager-only routes disclose
// nothing either.
func (m *Middleware) RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		project := ProjectFromContext(r.Context())

		if !project.IsManager(user.ID) {
			respondError(w, http.StatusNotFound, "project not found")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// TaskCtx resolves the {taskID} path parameter within the current project.
// A task whose stored project reference differs from the path's project is
// rejected as not found, closing off cross-project task enumeration.
func (m *Middleware) TaskCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		project := ProjectFromContext(r.Context())

		task, err := m.taskRepo.GetTask(r.Context(), chi.URLParam(r, "taskID"))
		if err != nil {
			respondError(w, http.StatusNotFound, "task not found")
			return
		}

		if task.Project != project.ID {
			respondError(w, http.StatusNotFound, "task not found")
			return
		}

		ctx := context.WithValue(r.Context(), taskCtxKey, task)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CORS allows cross-origin requests from the configured frontend origin
// only.
func (m *Middleware) CORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{m.frontendURL},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	})(next)
}

// RequestLogger logs one line per request.
func (m *Middleware) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		m.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
