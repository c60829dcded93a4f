package handlers

import (
	"net/http"
	"strconv"

	"busbook/middleware"
	"busbook/services/agent"
	"busbook/utils"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles one turn of the booking assistant conversation.
func ChatHandler(agentSvc agent.AgentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			SessionID string `json:"session_id"`
			Message   string `json:"message" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}

		result, err := agentSvc.Chat(c.Request.Context(), middleware.UserID(c), input.SessionID, input.Message)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// ListChatSessionsHandler lists the user's chat sessions, newest first.
func ListChatSessionsHandler(agentSvc agent.AgentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

		sessions, err := agentSvc.ListSessions(c.Request.Context(), middleware.UserID(c), limit)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessions": sessions})
	}
}

// ChatHistoryHandler serves the full message history of a session.
func ChatHistoryHandler(agentSvc agent.AgentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		messages, err := agentSvc.GetHistory(c.Request.Context(), middleware.UserID(c), c.Param("sessionID"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": messages})
	}
}

// EndChatSessionHandler closes a chat session.
func EndChatSessionHandler(agentSvc agent.AgentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := agentSvc.EndSession(c.Request.Context(), middleware.UserID(c), c.Param("sessionID")); err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ended"})
	}
}
