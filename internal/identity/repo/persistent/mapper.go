package persistent

import (
	"community-portal/internal/identity/entity"
	"community-portal/internal/identity/model"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	return &entity.User{
		ID:        m.ID,
		Email:     m.Email,
		FullName:  m.FullName,
		Role:      m.Role,
		IsActive:  m.IsActive,
		AvatarURL: m.AvatarURL,
		CreatedAt: m.CreatedAt,
	}
}

func ToUserModel(u *entity.User) *model.UserModel {
	return &model.UserModel{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		AvatarURL: u.AvatarURL,
	}
}
