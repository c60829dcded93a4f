package handlers

import (
	"net/http"
	"strconv"

	"busbook/middleware"
	"busbook/models"
	"busbook/services/wallet"
	"busbook/utils"

	"github.com/gin-gonic/gin"
)

// GetWalletHandler serves the user's wallet, creating it on first access.
func GetWalletHandler(walletSvc wallet.WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		w, err := walletSvc.GetWallet(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":      w.ID,
			"balance": w.Balance.Rupees(),
		})
	}
}

// AddMoneyHandler credits the wallet.
func AddMoneyHandler(walletSvc wallet.WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.AddMoneyInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}

		result, err := walletSvc.AddMoney(c.Request.Context(), middleware.UserID(c), input)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		resp := gin.H{"balance": result.Wallet.Balance.Rupees()}
		if result.Intent != nil {
			resp["payment_intent"] = result.Intent
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ListTransactionsHandler serves the wallet ledger with limit/offset paging.
func ListTransactionsHandler(walletSvc wallet.WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		txns, total, err := walletSvc.ListTransactions(c.Request.Context(), middleware.UserID(c), limit, offset)
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		entries := make([]gin.H, 0, len(txns))
		for _, t := range txns {
			entries = append(entries, gin.H{
				"id":           t.ID,
				"type":         t.Type,
				"amount":       t.Amount.Rupees(),
				"description":  t.Description,
				"reference_id": t.ReferenceID,
				"created_at":   t.CreatedAt,
			})
		}
		c.JSON(http.StatusOK, gin.H{"transactions": entries, "total": total})
	}
}
