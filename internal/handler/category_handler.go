package handler

import (
	"fmt"
	"net/http"

	"github.com/honeynil/kapitalist/internal/models"
)

type categoryRequest struct {
	Name  string  `json:"name"  validate:"required,max=64"`
	Color *string `json:"color" validate:"omitempty,max=32"`
}

type updateCategoryRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=1,max=64"`
	Color *string `json:"color" validate:"omitempty,max=32"`
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req categoryRequest
	if !h.decode(w, r, &req) {
		return
	}

	category, err := h.categories.Create(r.Context(), &models.Category{UserID: userID, Name: req.Name, Color: req.Color})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeCreated(w, fmt.Sprintf("/category/%d", category.ID), category)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	categories, err := h.categories.List(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	category, err := h.categories.Get(r.Context(), id, userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req updateCategoryRequest
	if !h.decode(w, r, &req) {
		return
	}

	category, err := h.categories.Update(r.Context(), id, userID, models.CategoryPatch{Name: req.Name, Color: req.Color})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.categories.Delete(r.Context(), id, userID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
