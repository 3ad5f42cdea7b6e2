package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/verksted-as/workshop-api/internal/domain"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return GetDB(ctx, r.db).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := GetDB(ctx, r.db).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := GetDB(ctx, r.db).First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, activeOnly bool) ([]domain.User, error) {
	var users []domain.User
	query := GetDB(ctx, r.db).Model(&domain.User{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("name ASC").Find(&users).Error
	return users, err
}

// ListByRole returns active users carrying the given role.
func (r *UserRepository) ListByRole(ctx context.Context, role string) ([]domain.User, error) {
	var users []domain.User
	err := GetDB(ctx, r.db).
		Where("is_active = ? AND ? = ANY(roles)", true, role).
		Find(&users).Error
	return users, err
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return GetDB(ctx, r.db).Model(&domain.User{}).
		Where("id = ?", id).
		Update("last_login_at", now).Error
}
