package handlers

import (
	userRepoPkg "mayhouse/database/repository/user"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	UserRepo userRepoPkg.UserRepository

	Auth            *AuthHandler
	Profile         *ProfileHandler
	Experience      *ExperienceHandler
	EventRun        *EventRunHandler
	Booking         *BookingHandler
	Blockchain      *BlockchainHandler
	HostApplication *HostApplicationHandler
	Legal           *LegalHandler
	Design          *DesignHandler
	Explore         *ExploreHandler
	Routes          *RouteHandler
}
