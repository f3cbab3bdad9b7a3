package data

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drivehub/drive-backend/internal/user/biz"
)

// UserPO represents the database model
type UserPO struct {
	ID        string    `gorm:"type:uuid;primarykey"`
	Subject   string    `gorm:"size:255;not null;uniqueIndex:idx_users_subject"`
	Name      string    `gorm:"size:255;not null"`
	Email     string    `gorm:"size:255;not null"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (UserPO) TableName() string {
	return "users"
}

// UserRepo implements biz.UserRepo
type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) biz.UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *biz.User) error {
	po := &UserPO{
		ID:        uuid.NewString(),
		Subject:   user.Subject,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return err
	}

	user.ID = po.ID
	return nil
}

func (r *UserRepo) GetBySubject(ctx context.Context, subject string) (*biz.User, error) {
	var po UserPO
	err := r.db.WithContext(ctx).Where("subject = ?", subject).First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, biz.ErrUserNotFound
		}
		return nil, err
	}

	return r.toUser(&po), nil
}

func (r *UserRepo) toUser(po *UserPO) *biz.User {
	return &biz.User{
		ID:        po.ID,
		Subject:   po.Subject,
		Name:      po.Name,
		Email:     po.Email,
		CreatedAt: po.CreatedAt,
	}
}
