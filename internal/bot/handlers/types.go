package handlers

import (
	"github.com/dosewise/dosewise/internal/interfaces"
)

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	UserService    interfaces.UserServiceInterface
	DoseService    interfaces.DoseServiceInterface
	ProfileService interfaces.ProfileServiceInterface
	RecommendSvc   interfaces.RecommendationServiceInterface
	AIService      interfaces.AIServiceInterface
}
