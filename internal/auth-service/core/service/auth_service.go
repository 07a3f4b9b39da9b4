package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rideway/internal/auth-service/core/domain/dto"
	"rideway/internal/auth-service/core/domain/models"
	"rideway/internal/auth-service/core/myerrors"
	"rideway/internal/auth-service/core/ports"
	"rideway/internal/config"
	"rideway/internal/mylogger"

	"github.com/golang-jwt/jwt"
)

type AuthService struct {
	ctx       context.Context
	cfg       *config.Config
	usersRepo ports.IUsersRepo
	mylog     mylogger.Logger
}

func NewAuthService(
	ctx context.Context,
	cfg *config.Config,
	usersRepo ports.IUsersRepo,
	mylog mylogger.Logger,
) ports.IAuthService {
	return &AuthService{
		ctx:       ctx,
		cfg:       cfg,
		usersRepo: usersRepo,
		mylog:     mylog,
	}
}

// ======================= Register =======================

func (as *AuthService) Register(ctx context.Context, req dto.RegistrationRequest) (dto.RegistrationResponse, error) {
	mylog := as.mylog.Action("Register")

	if req.Username == nil || req.Email == nil || req.Phone == nil || req.Password == nil || req.Role == nil {
		return dto.RegistrationResponse{}, ErrFieldIsEmpty
	}

	if err := validateRegistration(*req.Username, *req.Email, *req.Phone, *req.Password, *req.Role); err != nil {
		return dto.RegistrationResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hashedPassword, err := hashPassword(*req.Password)
	if err != nil {
		return dto.RegistrationResponse{}, fmt.Errorf("failed to hash password: %v", err)
	}

	user := models.User{
		Username:     *req.Username,
		Email:        *req.Email,
		Phone:        *req.Phone,
		PasswordHash: hashedPassword,
		Role:         *req.Role,
	}

	id, err := as.usersRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, myerrors.ErrEmailRegistered) || errors.Is(err, myerrors.ErrPhoneRegistered) {
			mylog.Warn("Failed to register", "reason", err.Error())
			return dto.RegistrationResponse{}, err
		}
		mylog.Error("Failed to save user in db", err)
		return dto.RegistrationResponse{}, fmt.Errorf("cannot save user in db: %w", err)
	}

	token, err := as.mintToken(id, *req.Role)
	if err != nil {
		mylog.Error("cannot create jwt token", err)
		return dto.RegistrationResponse{}, err
	}

	mylog.Info("User registered successfully", "user_id", id)
	return dto.RegistrationResponse{UserId: id, AccessToken: token}, nil
}

// ======================= Login =======================

func (as *AuthService) Login(ctx context.Context, req dto.AuthRequest) (dto.AuthResponse, error) {
	mylog := as.mylog.Action("Login")

	if req.Email == nil || req.Password == nil {
		return dto.AuthResponse{}, ErrFieldIsEmpty
	}

	if err := validateLogin(*req.Email, *req.Password); err != nil {
		return dto.AuthResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	user, err := as.usersRepo.GetByEmail(ctx, *req.Email)
	if err != nil {
		if errors.Is(err, myerrors.ErrUnknownEmail) {
			mylog.Warn("Failed to login, unknown email")
			return dto.AuthResponse{}, err
		}
		mylog.Error("Failed to load user from db", err)
		return dto.AuthResponse{}, fmt.Errorf("cannot load user from db: %w", err)
	}

	if !checkPassword(user.PasswordHash, *req.Password) {
		mylog.Debug("Failed to login, wrong password")
		return dto.AuthResponse{}, myerrors.ErrUnknownPassword
	}

	token, err := as.mintToken(user.UserId, user.Role)
	if err != nil {
		mylog.Error("cannot create jwt token", err)
		return dto.AuthResponse{}, err
	}

	mylog.Info("User login successfully", "user_id", user.UserId)
	return dto.AuthResponse{UserId: user.UserId, AccessToken: token}, nil
}

func (as *AuthService) mintToken(userId, role string) (string, error) {
	ttl := time.Duration(as.cfg.App.TokenTTLHours) * time.Hour

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userId,
		"role":    role,
		"exp":     time.Now().Add(ttl).Unix(),
	})

	return token.SignedString([]byte(as.cfg.App.JwtSecret))
}
