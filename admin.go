package main

import (
	"net/http"

	"finanzas/db/store"

	"github.com/gin-gonic/gin"
)

type userStatusRequest struct {
	IsActive *bool `json:"is_active"`
}

// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} User
// @Failure 403 {object} map[string]interface{} "Admin access required"
// @Router /api/admin/users [get]
func listUsers(c *gin.Context) {
	dbUsers, err := queries.ListUsers(c.Request.Context())
	if err != nil {
		respondDatabaseError(c, "Error fetching users", err)
		return
	}

	users := make([]User, 0, len(dbUsers))
	for _, u := range dbUsers {
		users = append(users, convertUser(u))
	}
	c.JSON(http.StatusOK, users)
}

// @Summary Activate or deactivate a user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param status body userStatusRequest true "New status"
// @Success 200 {object} User
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 403 {object} map[string]interface{} "Admin access required"
// @Failure 404 {object} map[string]interface{} "User not found"
// @Router /api/admin/users/{id}/status [put]
func updateUserStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "user")
	if !ok {
		return
	}

	var req userStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_active is required"})
		return
	}
	if id == currentUserID(c) && !*req.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot deactivate your own account"})
		return
	}

	user, err := queries.SetUserActive(c.Request.Context(), store.SetUserActiveParams{ID: id, IsActive: *req.IsActive})
	if err != nil {
		respondDatabaseError(c, "Error updating user status", err)
		return
	}
	c.JSON(http.StatusOK, convertUser(user))
}
