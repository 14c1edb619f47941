package repository

import (
	"context"
	"errors"
	"time"

	"landshare/internal/domain"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Email     string    `gorm:"column:email;uniqueIndex"`
	Role      string    `gorm:"column:role"`
	Name      string    `gorm:"column:name"`
	Phone     *string   `gorm:"column:phone"`
	AvatarURL *string   `gorm:"column:avatar_url"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	var phone, avatar string
	if m.Phone != nil {
		phone = *m.Phone
	}
	if m.AvatarURL != nil {
		avatar = *m.AvatarURL
	}

	return &domain.User{
		ID:        m.ID,
		Email:     m.Email,
		Role:      domain.UserRole(m.Role),
		Name:      m.Name,
		Phone:     phone,
		AvatarURL: avatar,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := userModel{
		Email:     u.Email,
		Role:      string(u.Role),
		Name:      u.Name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if u.Phone != "" {
		m.Phone = &u.Phone
	}
	if u.AvatarURL != "" {
		m.AvatarURL = &u.AvatarURL
	}

	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

// HasStaffCapability implements the identity provider contract consumed by
// the dispute and booking modules. Unknown users simply have no staff
// capability.
func (r *UserRepository) HasStaffCapability(ctx context.Context, userID int64) (bool, error) {
	u, err := r.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.Role.IsStaff(), nil
}
