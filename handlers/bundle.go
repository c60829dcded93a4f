package handlers

import (
	"busbook/services/agent"
	"busbook/services/booking"
	"busbook/services/catalog"
	"busbook/services/user"
	"busbook/services/wallet"
)

// HandlerBundle groups the services every route group draws its handlers from.
type HandlerBundle struct {
	UserSvc    user.UserService
	CatalogSvc catalog.CatalogService
	BookingSvc booking.BookingService
	WalletSvc  wallet.WalletService
	AgentSvc   agent.AgentService
}
