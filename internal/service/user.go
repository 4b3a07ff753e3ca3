package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/recipe-api/backend/internal/apperrors"
	"github.com/pageza/recipe-api/backend/internal/models"
)

// MinPasswordLength is the shortest password accepted for an account.
const MinPasswordLength = 5

// AuthFailedMessage is returned for every failed credential check.
const AuthFailedMessage = "Unable to authenticate with provided credentials"

// UserUpdate holds the profile fields to change. Nil fields are left as is.
type UserUpdate struct {
	Email    *string
	Password *string
	Name     *string
}

type UserService struct {
	db       *gorm.DB
	log      *zap.Logger
	hashCost int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewUserService(db *gorm.DB, log *zap.Logger) *UserService {
	return &UserService{db: db, log: log, hashCost: bcrypt.DefaultCost}
}

// WithHashCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func (s *UserService) WithHashCost(cost int) *UserService {
	s.hashCost = cost
	return s
}

func (s *UserService) CreateUser(ctx context.Context, email, password, name string) (*models.User, error) {
	return s.create(ctx, email, password, name, false)
}

// CreateSuperuser creates an account with the staff and superuser flags set.
func (s *UserService) CreateSuperuser(ctx context.Context, email, password, name string) (*models.User, error) {
	return s.create(ctx, email, password, name, true)
}

func (s *UserService) create(ctx context.Context, email, password, name string, superuser bool) (*models.User, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.FieldError("email", "users must have an email address")
	}
	if err := checkPassword(password); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to create user")
	}
	if count > 0 {
		return nil, apperrors.ConflictField("email", "user with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to create user")
	}

	user := &models.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		IsActive:     true,
		IsStaff:      superuser,
		IsSuperuser:  superuser,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ConflictField("email", "user with this email already exists")
		}
		return nil, apperrors.Internal(err, "failed to create user")
	}

	s.log.Info("user created", zap.Uint("user_id", user.ID), zap.Bool("superuser", superuser))
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load user")
	}
	return &user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint, upd UserUpdate) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if upd.Email != nil {
		email := models.NormalizeEmail(*upd.Email)
		if email == "" {
			return nil, apperrors.FieldError("email", "this field may not be blank")
		}
		if email != user.Email {
			var count int64
			err := s.db.WithContext(ctx).Model(&models.User{}).
				Where("email = ? AND id <> ?", email, id).
				Count(&count).Error
			if err != nil {
				return nil, apperrors.Internal(err, "failed to update user")
			}
			if count > 0 {
				return nil, apperrors.ConflictField("email", "user with this email already exists")
			}
		}
		changes["email"] = email
	}
	if upd.Name != nil {
		changes["name"] = strings.TrimSpace(*upd.Name)
	}
	if upd.Password != nil {
		if err := checkPassword(*upd.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), s.hashCost)
		if err != nil {
			return nil, apperrors.Internal(err, "failed to update user")
		}
		changes["password_hash"] = string(hash)
	}
	if len(changes) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(changes).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ConflictField("email", "user with this email already exists")
		}
		return nil, apperrors.Internal(err, "failed to update user")
	}
	return s.GetUser(ctx, id)
}

// CheckCredentials returns the active user matching email and password.
// Every failure yields the same error so callers cannot tell an unknown
// email from a wrong password.
func (s *UserService) CheckCredentials(ctx context.Context, email, password string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.InvalidCredentials(AuthFailedMessage)
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Spend the same hashing time as a real check.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, apperrors.InvalidCredentials(AuthFailedMessage)
	}
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.InvalidCredentials(AuthFailedMessage)
	}
	if !user.IsActive {
		return nil, apperrors.InvalidCredentials(AuthFailedMessage)
	}
	return &user, nil
}

func (s *UserService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.hashCost)
	})
	return s.dummyHash
}

func checkPassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return apperrors.FieldError("password", "ensure this field has at least 5 characters")
	}
	return nil
}
