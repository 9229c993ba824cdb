package service

import (
	"context"
	"errors"

	"github.com/support-chat/chat-service/internal/errs"
	"github.com/support-chat/chat-service/internal/model"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Create persists a new user. Duplicate username or email surfaces as
// ErrDuplicate.
func (s *UserService) Create(ctx context.Context, u *model.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errs.IsUniqueViolation(err) {
			return errs.ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *UserService) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// RecordLogin appends a login history row. Best-effort: callers ignore the
// error beyond logging since audit rows must not block authentication.
func (s *UserService) RecordLogin(ctx context.Context, userID *uint64, ip string, success bool) error {
	h := model.LoginHistory{
		UserID:    userID,
		IPAddress: ip,
		Success:   success,
	}
	return s.db.WithContext(ctx).Create(&h).Error
}
