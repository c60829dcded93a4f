package handlers

import (
	"net/http"

	"busbook/middleware"
	"busbook/models"
	"busbook/services/user"
	"busbook/utils"

	"github.com/gin-gonic/gin"
)

// RegisterHandler creates a user account and returns a session token.
func RegisterHandler(userSvc user.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}

		resp, err := userSvc.Register(c.Request.Context(), input)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, resp)
	}
}

// LoginHandler authenticates a user and returns a session token.
func LoginHandler(userSvc user.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}

		resp, err := userSvc.Login(c.Request.Context(), input)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// MeHandler returns the authenticated user's profile.
func MeHandler(userSvc user.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := userSvc.GetByID(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}
