package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-tracker/internal/model"
)

// UserRepository handles CRUD for users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Get(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByIDs fetches all users in the given id set. Order follows the id set.
func (r *UserRepository) ListByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return orderByIDs(users, ids, func(u model.User) string { return u.ID }), nil
}

func (r *UserRepository) Save(ctx context.Context, user *model.User) error {
	db := r.db.WithContext(ctx)
	if user.ID == "" {
		user.ID = uuid.NewString()
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	}
	if err := db.Save(user).Error; err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}
