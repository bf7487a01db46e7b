package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"eventful/internal/delivery/http/helpers"
	"eventful/internal/domain"
)

type CategoryController struct {
	Logger     *slog.Logger
	Categories domain.CategoryService
}

func NewCategoryController(logger *slog.Logger, categories domain.CategoryService) *CategoryController {
	return &CategoryController{Logger: logger, Categories: categories}
}

// CreateCategoryRequest is the request body for POST /categories.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate implements helpers.Validator.
func (r *CreateCategoryRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

// Create godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateCategoryRequest true "Category details"
// @Success 201 {object} helpers.APIResponse
// @Router /categories [post]
func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	category, err := c.Categories.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, category)
}

// List godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Router /categories [get]
func (c *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	categories, err := c.Categories.List(r.Context())
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, categories)
}

// Get godoc
// @Summary Get a category by ID
// @Tags categories
// @Produce json
// @Param id path string true "Category ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /categories/{id} [get]
func (c *CategoryController) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !uuidRegex.MatchString(id) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid category id")
		return
	}
	category, err := c.Categories.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, category)
}
