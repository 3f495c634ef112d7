package main

import (
	"net/http"
	"strings"

	"finanzas/db/store"

	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

// Category handler functions

// @Summary Get categories
// @Description Global default categories plus the user's own
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param type query string false "INCOME or EXPENSE"
// @Success 200 {array} Category "List of categories"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/categories [get]
func getCategories(c *gin.Context) {
	params := store.ListVisibleCategoriesParams{UserID: currentUserID(c)}
	if t := c.Query("type"); t != "" {
		typ, err := validateTransactionType(t)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		params.Type = typ
	}

	dbCategories, err := queries.ListVisibleCategories(c.Request.Context(), params)
	if err != nil {
		respondDatabaseError(c, "Error fetching categories", err)
		return
	}

	categories := make([]Category, 0, len(dbCategories))
	for _, dbCategory := range dbCategories {
		categories = append(categories, convertCategory(dbCategory))
	}
	c.JSON(http.StatusOK, categories)
}

// @Summary Create category
// @Description Create a category owned by the current user
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body categoryRequest true "Category data (name and type required)"
// @Success 201 {object} Category "Created category"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/categories [post]
func createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := validateName(req.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	typ, err := validateTransactionType(req.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Color != nil {
		if err := validateHexColor(*req.Color); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if *req.Color == "" {
			req.Color = nil
		}
	}

	userID := currentUserID(c)
	dbCategory, err := queries.CreateCategory(c.Request.Context(), store.CreateCategoryParams{
		Name:   strings.TrimSpace(req.Name),
		Type:   typ,
		Color:  req.Color,
		Icon:   req.Icon,
		UserID: &userID,
	})
	if err != nil {
		respondDatabaseError(c, "Error creating category", err)
		return
	}

	c.JSON(http.StatusCreated, convertCategory(dbCategory))
}

// @Summary Delete category
// @Description Delete one of the user's own categories; defaults cannot be deleted
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} map[string]interface{} "Category deleted successfully"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 403 {object} map[string]interface{} "Default or foreign category"
// @Failure 404 {object} map[string]interface{} "Category not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/categories/{id} [delete]
func deleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "category")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)
	category, err := queries.GetVisibleCategory(ctx, store.GetVisibleCategoryParams{ID: id, UserID: userID})
	if err != nil {
		respondDatabaseError(c, "Error fetching category", err)
		return
	}
	if category.IsDefault || category.UserID == nil || *category.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Default categories cannot be deleted"})
		return
	}

	affected, err := queries.DeleteCategory(ctx, store.DeleteCategoryParams{ID: id, UserID: userID})
	if err != nil {
		respondDatabaseError(c, "Error deleting category", err)
		return
	}
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
