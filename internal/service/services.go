package service

import (
	"github.com/mdr/duck-rewards-website/internal/config"
	"github.com/mdr/duck-rewards-website/internal/repository"
)

type Services struct {
	Auth     *AuthService
	Profile  *ProfileService
	Business *BusinessService
	Admin    *AdminService
	Location *LocationService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	return &Services{
		Auth:     NewAuthService(repos.User, repos.Session, repos.Business, cfg),
		Profile:  NewProfileService(repos.User),
		Business: NewBusinessService(repos.Business),
		Admin:    NewAdminService(repos),
		Location: NewLocationService(repos.Location),
	}
}
