package service

import (
	"github.com/lauzhack/pictorial/internal/repository"
	"github.com/lauzhack/pictorial/internal/session"
)

type Services struct {
	Auth       *AuthService
	Generation *GenerationService
}

func NewServices(repos *repository.Repositories, codec session.Codec, generator ImageGenerator, store ImageStore) *Services {
	return &Services{
		Auth:       NewAuthService(repos.User, codec),
		Generation: NewGenerationService(repos.Generation, generator, store),
	}
}
