package persistent

import (
	"errors"

	"community-portal/internal/identity/entity"
	"community-portal/internal/identity/model"
	"community-portal/pkg/models"

	"gorm.io/gorm"
)

// ErrStoreUnavailable is returned by every method when the portal runs
// without a configured database.
var ErrStoreUnavailable = errors.New("account store unavailable")

type UserRepository interface {
	Create(user *entity.User, passwordHash string) error
	// GetByEmail returns the account and its password hash.
	GetByEmail(email string) (*entity.User, string, error)
	GetByID(id string) (*entity.User, error)
	List() ([]*entity.User, error)
	UpdateRole(id string, role models.UserRole) error
	SetActive(id string, active bool) error
	UpdateAvatar(id, url string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *entity.User, passwordHash string) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}

	m := ToUserModel(user)
	m.PasswordHash = passwordHash
	if err := r.db.Create(m).Error; err != nil {
		return err
	}

	user.ID = m.ID
	user.CreatedAt = m.CreatedAt
	return nil
}

func (r *userRepository) GetByEmail(email string) (*entity.User, string, error) {
	if r.db == nil {
		return nil, "", ErrStoreUnavailable
	}

	var m model.UserModel
	if err := r.db.Where("email = ?", email).First(&m).Error; err != nil {
		return nil, "", err
	}
	return ToUserEntity(&m), m.PasswordHash, nil
}

func (r *userRepository) GetByID(id string) (*entity.User, error) {
	if r.db == nil {
		return nil, ErrStoreUnavailable
	}

	var m model.UserModel
	if err := r.db.First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return ToUserEntity(&m), nil
}

func (r *userRepository) List() ([]*entity.User, error) {
	if r.db == nil {
		return nil, ErrStoreUnavailable
	}

	var ms []model.UserModel
	if err := r.db.Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}

	users := make([]*entity.User, 0, len(ms))
	for i := range ms {
		users = append(users, ToUserEntity(&ms[i]))
	}
	return users, nil
}

func (r *userRepository) UpdateRole(id string, role models.UserRole) error {
	return r.patch(id, map[string]interface{}{"role": role})
}

func (r *userRepository) SetActive(id string, active bool) error {
	return r.patch(id, map[string]interface{}{"is_active": active})
}

func (r *userRepository) UpdateAvatar(id, url string) error {
	return r.patch(id, map[string]interface{}{"avatar_url": url})
}

func (r *userRepository) patch(id string, fields map[string]interface{}) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}

	result := r.db.Model(&model.UserModel{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
