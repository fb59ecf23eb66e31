package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	goval "github.com/go-passwd/validator"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/leebenson/conform"
)

// Model is embedded by tables that carry the usual gorm bookkeeping columns.
type Model struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// User is a registered reporter. Phone and email are unique across users.
type User struct {
	Model
	Name           string `json:"name" gorm:"not null"`
	Surname        string `json:"surname" gorm:"not null"`
	Age            int    `json:"age"`
	City           string `json:"city"`
	Phone          string `json:"phone" gorm:"uniqueIndex:idx_users_phone;not null"`
	Email          string `json:"email" gorm:"uniqueIndex:idx_users_email;not null"`
	HashedPassword string `json:"-" gorm:"not null"`
}

// FullName is the display name used on report listings.
func (u *User) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.Surname)
}

type RegisterRequest struct {
	Name     string `json:"name" form:"name" conform:"trim" validate:"required,max=100"`
	Surname  string `json:"surname" form:"surname" conform:"trim" validate:"required,max=100"`
	Age      int    `json:"age" form:"age" validate:"required,gte=1,lte=130"`
	City     string `json:"city" form:"city" conform:"trim" validate:"required,max=100"`
	Phone    string `json:"phone" form:"phone" conform:"trim" validate:"required,min=5,max=20"`
	Email    string `json:"email" form:"email" conform:"trim,lower" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginRequest accepts either an email or a phone number as the contact.
type LoginRequest struct {
	Email    string `json:"email" form:"email" conform:"trim,lower"`
	Phone    string `json:"phone" form:"phone" conform:"trim"`
	Password string `json:"password" form:"password"`
}

func (l *LoginRequest) Contact() string {
	if l.Email != "" {
		return l.Email
	}
	return l.Phone
}

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")

	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
}

// ValidateStruct trims string fields and runs the validate tags. Each
// returned error names the offending json field.
func ValidateStruct(req interface{}) []error {
	if err := validateWhiteSpaces(req); err != nil {
		return []error{err}
	}
	return translateError(validate.Struct(req), trans)
}

func ValidatePassword(password string) error {
	passwordValidator := goval.New(goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(64, errors.New("password cant be more than 64 characters")))
	return passwordValidator.Validate(password)
}

func validateWhiteSpaces(data interface{}) error {
	return conform.Strings(data)
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, fmt.Errorf("%s; ", e.Translate(trans)))
	}
	return errs
}
