package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sheking94/not-todo-api/internal/domain"
	"github.com/sheking94/not-todo-api/pkg/middleware"
	"github.com/sheking94/not-todo-api/pkg/validator"
)

type createTodoRequest struct {
	Description string `json:"description" validate:"required"`
}

type updateTodoRequest struct {
	Description string `json:"description" validate:"required"`
	Done        *bool  `json:"done" validate:"required"`
}

type todoResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTodoResponse(t *domain.Todo) todoResponse {
	return todoResponse{
		ID:          t.ID,
		Description: t.Description,
		Done:        t.Done,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// CreateTodo handles POST /api/v1/todos.
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req createTodoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	todo, err := h.svc.CreateTodo(r.Context(), userID, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Message string       `json:"message"`
		Todo    todoResponse `json:"todo"`
	}{
		Message: "ToDo created successfully.",
		Todo:    toTodoResponse(todo),
	})
}

// ListTodos handles GET /api/v1/todos.
func (h *Handler) ListTodos(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	todos, err := h.svc.ListTodos(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]todoResponse, 0, len(todos))
	for _, t := range todos {
		out = append(out, toTodoResponse(t))
	}

	writeJSON(w, http.StatusOK, struct {
		Todos []todoResponse `json:"todos"`
	}{Todos: out})
}

// GetTodo handles GET /api/v1/todos/{id}.
func (h *Handler) GetTodo(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	todo, err := h.svc.GetTodo(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Todo todoResponse `json:"todo"`
	}{Todo: toTodoResponse(todo)})
}

// UpdateTodo handles PUT /api/v1/todos/{id}.
func (h *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	var req updateTodoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	todo, err := h.svc.UpdateTodo(r.Context(), userID, chi.URLParam(r, "id"), req.Description, *req.Done)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Todo todoResponse `json:"todo"`
	}{Todo: toTodoResponse(todo)})
}

// DeleteTodo handles DELETE /api/v1/todos/{id}.
func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := h.svc.DeleteTodo(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
