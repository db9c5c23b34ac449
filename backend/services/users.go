package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"courseplatform/backend/apperr"
	"courseplatform/backend/models"
	"courseplatform/backend/utils"

	"gorm.io/gorm"
)

// UserService manages accounts and credentials.
type UserService struct {
	db         *gorm.DB
	bcryptCost int
	now        func() time.Time
}

func NewUserService(db *gorm.DB, bcryptCost int) *UserService {
	return &UserService{db: db, bcryptCost: bcryptCost, now: time.Now}
}

// Login verifies the credentials and records the login. An unknown email and a
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password, ip string) (*models.User, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, apperr.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("Account is deactivated")
	}

	entry := models.LoginHistory{UserID: user.ID, LoginTime: s.now(), IP: ip}
	if err := db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	return &user, nil
}

// Active loads a user for an authenticated request. Missing and inactive
// users both fail authentication.
func (s *UserService) Active(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		return nil, apperr.ErrUnauthenticated
	}
	return &user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, user *models.User, current, next string) error {
	if user == nil {
		return apperr.ErrUnauthenticated
	}
	if !utils.CheckPassword(user.PasswordHash, current) {
		return apperr.BadRequest("Current password is incorrect")
	}
	return s.setPassword(ctx, user.ID, next)
}

func (s *UserService) setPassword(ctx context.Context, id uint, password string) error {
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		Name:         in.Name,
		Role:         in.Role,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("A user with this email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in UserUpdate) (*models.User, error) {
	db := s.db.WithContext(ctx)
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, notFoundAs(err, "User")
	}

	changes := map[string]interface{}{}
	if in.Name != nil {
		changes["name"] = *in.Name
	}
	if in.Role != nil {
		if user.IsSuperAdmin() {
			return nil, apperr.Forbidden("The super admin role cannot be changed")
		}
		changes["role"] = *in.Role
	}
	if in.IsActive != nil {
		changes["is_active"] = *in.IsActive
	}

	if len(changes) > 0 {
		if err := db.Model(&user).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		if err := db.First(&user, id).Error; err != nil {
			return nil, notFoundAs(err, "User")
		}
	}
	return &user, nil
}

func (s *UserService) ResetPassword(ctx context.Context, id uint, password string) error {
	return s.setPassword(ctx, id, password)
}

// Delete removes a user and, through cascades, their staff assignments.
// super_admin accounts are protected.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	db := s.db.WithContext(ctx)
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return notFoundAs(err, "User")
	}
	if user.IsSuperAdmin() {
		return apperr.Forbidden("The super admin cannot be deleted")
	}
	if err := db.Delete(&user).Error; err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// LoginHistory lists a user's logins in [start, end), newest first.
func (s *UserService) LoginHistory(ctx context.Context, id uint, start, end time.Time) ([]models.LoginHistory, error) {
	db := s.db.WithContext(ctx)
	if err := db.Select("id").First(&models.User{}, id).Error; err != nil {
		return nil, notFoundAs(err, "User")
	}

	logins := []models.LoginHistory{}
	err := db.Where("user_id = ? AND login_time >= ? AND login_time < ?", id, start, end).
		Order("login_time DESC").
		Find(&logins).Error
	if err != nil {
		return nil, fmt.Errorf("login history: %w", err)
	}
	return logins, nil
}
