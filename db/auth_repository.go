package db

import (
	"context"
	"strings"

	"github.com/andreicopos/UrbanEye/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type AuthRepository interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	FindUserByContact(ctx context.Context, emailOrPhone string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	UserExists(ctx context.Context, id uint) (bool, error)
}

type authRepo struct {
	DB *gorm.DB
}

func NewAuthRepo(db *GormDB) AuthRepository {
	return &authRepo{db.DB}
}

// CreateUser relies on the unique indexes on phone and email; there is no
// lookup beforehand, so two concurrent signups cannot both succeed.
func (a *authRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := conn(ctx, a.DB).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateIdentity
		}
		return nil, errors.Wrap(err, "create user")
	}
	return user, nil
}

func (a *authRepo) FindUserByContact(ctx context.Context, emailOrPhone string) (*models.User, error) {
	contact := strings.TrimSpace(emailOrPhone)
	if contact == "" {
		return nil, ErrUserNotFound
	}
	var user models.User
	err := conn(ctx, a.DB).
		Where("email = ? OR phone = ?", strings.ToLower(contact), contact).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "find user by contact")
	}
	return &user, nil
}

func (a *authRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := conn(ctx, a.DB).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "find user by email")
	}
	return &user, nil
}

func (a *authRepo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := conn(ctx, a.DB).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "find user by id")
	}
	return &user, nil
}

func (a *authRepo) UserExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := conn(ctx, a.DB).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "check user exists")
	}
	return count > 0, nil
}
