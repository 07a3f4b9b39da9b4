package ports

import (
	"context"

	"rideway/internal/auth-service/core/domain/dto"
	"rideway/internal/auth-service/core/domain/models"
)

type IUsersRepo interface {
	Create(ctx context.Context, user models.User) (string, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
}

type IAuthService interface {
	Register(ctx context.Context, req dto.RegistrationRequest) (dto.RegistrationResponse, error)
	Login(ctx context.Context, req dto.AuthRequest) (dto.AuthResponse, error)
}
