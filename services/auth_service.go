package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/andreicopos/UrbanEye/config"
	"github.com/andreicopos/UrbanEye/db"
	apiError "github.com/andreicopos/UrbanEye/errors"
	"github.com/andreicopos/UrbanEye/models"
	"github.com/andreicopos/UrbanEye/services/utils"
)

// AuthService registers users and checks their credentials. It issues no
// tokens; callers pass user ids explicitly.
type AuthService interface {
	SignupUser(ctx context.Context, request *models.RegisterRequest) (*models.User, error)
	LoginUser(ctx context.Context, request *models.LoginRequest) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

type authService struct {
	Config   *config.Config
	authRepo db.AuthRepository
	log      zerolog.Logger
}

func NewAuthService(authRepo db.AuthRepository, conf *config.Config, log zerolog.Logger) AuthService {
	return &authService{
		Config:   conf,
		authRepo: authRepo,
		log:      log.With().Str("component", "auth").Logger(),
	}
}

func (a *authService) SignupUser(ctx context.Context, request *models.RegisterRequest) (*models.User, error) {
	if errs := models.ValidateStruct(request); len(errs) > 0 {
		return nil, apiError.ValidationErrors(errs)
	}
	if err := models.ValidatePassword(request.Password); err != nil {
		return nil, apiError.NewValidationError("password", err.Error())
	}

	hashed, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, apiError.Internal(err)
	}

	user := &models.User{
		Name:           request.Name,
		Surname:        request.Surname,
		Age:            request.Age,
		City:           request.City,
		Phone:          request.Phone,
		Email:          request.Email,
		HashedPassword: hashed,
	}
	created, err := a.authRepo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, db.ErrDuplicateIdentity) {
			return nil, apiError.ErrDuplicateIdentity
		}
		return nil, apiError.Internal(err)
	}
	a.log.Info().Uint("user_id", created.ID).Msg("user registered")
	return created, nil
}

// LoginUser accepts an email or a phone number. Unknown contacts and wrong
// passwords produce the same error.
func (a *authService) LoginUser(ctx context.Context, request *models.LoginRequest) (*models.User, error) {
	if errs := models.ValidateStruct(request); len(errs) > 0 {
		return nil, apiError.ValidationErrors(errs)
	}
	if request.Contact() == "" {
		return nil, apiError.NewValidationError("email", "email or phone is required")
	}
	if strings.TrimSpace(request.Password) == "" {
		return nil, apiError.NewValidationError("password", "password is required")
	}

	var (
		user *models.User
		err  error
	)
	if request.Email != "" {
		user, err = a.authRepo.FindUserByEmail(ctx, request.Email)
	} else {
		user, err = a.authRepo.FindUserByContact(ctx, request.Phone)
	}
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return nil, apiError.ErrInvalidCredentials
		}
		return nil, apiError.Internal(err)
	}
	if !utils.CheckPasswordHash(request.Password, user.HashedPassword) {
		return nil, apiError.ErrInvalidCredentials
	}
	return user, nil
}

func (a *authService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := a.authRepo.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return nil, apiError.NewNotFoundError("user", id)
		}
		return nil, apiError.Internal(err)
	}
	return user, nil
}
