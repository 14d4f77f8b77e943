package categories

import (
	"context"
	"errors"
	"net/http"

	"github.com/itechcomputers/storefront/app/httpx"
	"github.com/itechcomputers/storefront/apperr"
	"github.com/itechcomputers/storefront/models"
	"go.uber.org/zap"
)

type CategoryResponse struct {
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Required  bool   `json:"required"`
	SortOrder int    `json:"sortOrder"`
	InBuilder bool   `json:"inBuilder"`
}

type CreateRequest struct {
	Slug      string `json:"slug" validate:"required,max=64"`
	Name      string `json:"name" validate:"required,max=120"`
	Required  bool   `json:"required"`
	SortOrder int    `json:"sortOrder" validate:"gte=0"`
	InBuilder bool   `json:"inBuilder"`
}

type CategoryProvider interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
}

type CategoryHandler struct {
	repo   CategoryProvider
	logger *zap.Logger
}

func NewCategoryHandler(r CategoryProvider, logger *zap.Logger) *CategoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryHandler{repo: r, logger: logger}
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.GetAllCategories(r.Context())
	if err != nil {
		httpx.WriteAppError(w, r, h.logger, apperr.Wrap(err, "failed to fetch categories"))
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = toResponse(c)
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input CreateRequest
	if err := httpx.DecodeJSON(r, &input); err != nil {
		if ae, ok := apperr.As(err); ok && len(ae.Fields) > 0 {
			ae.PublicMsg = "Missing or invalid slug or name"
		}
		httpx.WriteAppError(w, r, h.logger, err)
		return
	}

	category := &models.Category{
		Slug:      input.Slug,
		Name:      input.Name,
		Required:  input.Required,
		SortOrder: input.SortOrder,
		InBuilder: input.InBuilder,
	}

	if err := h.repo.CreateCategory(r.Context(), category); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			httpx.WriteAppError(w, r, h.logger, apperr.ConflictErr("Category already exists"))
			return
		}
		httpx.WriteAppError(w, r, h.logger, apperr.Wrap(err, "Failed to create category"))
		return
	}
	h.logger.Info("category created", zap.String("slug", category.Slug))

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":  "Category created successfully",
		"category": toResponse(*category),
	})
}

func toResponse(c models.Category) CategoryResponse {
	return CategoryResponse{
		Slug:      c.Slug,
		Name:      c.Name,
		Required:  c.Required,
		SortOrder: c.SortOrder,
		InBuilder: c.InBuilder,
	}
}
