package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"community-portal/internal/identity/entity"
	"community-portal/internal/identity/repo/persistent"
	"community-portal/pkg/jwt"
	"community-portal/pkg/logger"
	"community-portal/pkg/models"
	"community-portal/pkg/s3"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	sessionTTL       = 24 * time.Hour
)

var ErrMediaUnavailable = errors.New("media storage unavailable")

// Session is what a successful sign-in hands back.
type Session struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

type IdentityUseCase interface {
	Login(email, password string) (*Session, error)
	Register(email, password, fullName string) (*Session, error)
	Logout(userID string) error
	// Resolve never fails: anything short of a valid session yields a
	// nil user and the guest role.
	Resolve(token string) (*entity.User, models.UserRole)
	HasPermission(role models.UserRole, permission string) bool
	UploadAvatar(userID string, file *multipart.FileHeader) (string, error)

	ListUsers() ([]*entity.User, error)
	UpdateRole(id string, role models.UserRole) error
	SetActive(id string, active bool) error
}

type identityUseCase struct {
	creds       CredentialStore
	users       persistent.UserRepository
	jwtService  *jwt.Service
	redisClient *redis.Client
	s3Client    *s3.Client
	logger      *logger.Logger
}

func NewIdentityUseCase(
	creds CredentialStore,
	users persistent.UserRepository,
	jwtService *jwt.Service,
	redisClient *redis.Client,
	s3Client *s3.Client,
	logger *logger.Logger,
) IdentityUseCase {
	return &identityUseCase{
		creds:       creds,
		users:       users,
		jwtService:  jwtService,
		redisClient: redisClient,
		s3Client:    s3Client,
		logger:      logger,
	}
}

func (uc *identityUseCase) Login(email, password string) (*Session, error) {
	user, err := uc.creds.Authenticate(email, password)
	if err != nil {
		return nil, err
	}

	return uc.openSession(user)
}

func (uc *identityUseCase) Register(email, password, fullName string) (*Session, error) {
	user, err := uc.creds.Register(email, password, fullName)
	if err != nil {
		return nil, err
	}

	return uc.openSession(user)
}

func (uc *identityUseCase) openSession(user *entity.User) (*Session, error) {
	token, err := uc.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	uc.cacheSession(user)
	return &Session{Token: token, User: user}, nil
}

func (uc *identityUseCase) Logout(userID string) error {
	if uc.redisClient == nil {
		return nil
	}
	return uc.redisClient.Del(context.Background(), sessionKeyPrefix+userID).Err()
}

func (uc *identityUseCase) Resolve(token string) (*entity.User, models.UserRole) {
	if token == "" {
		return nil, models.RoleGuest
	}

	claims, err := uc.jwtService.ValidateToken(token)
	if err != nil {
		return nil, models.RoleGuest
	}

	if user := uc.cachedSession(claims.UserID); user != nil {
		return user, user.Role
	}

	user, err := uc.creds.GetByID(claims.UserID)
	if err != nil || !user.IsActive {
		return nil, models.RoleGuest
	}

	uc.cacheSession(user)
	return user, user.Role
}

func (uc *identityUseCase) HasPermission(role models.UserRole, permission string) bool {
	return models.HasPermission(role, permission)
}

func (uc *identityUseCase) UploadAvatar(userID string, file *multipart.FileHeader) (string, error) {
	if uc.s3Client == nil {
		return "", ErrMediaUnavailable
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", fmt.Errorf("unsupported avatar type %q", ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	key := fmt.Sprintf("avatars/%s%s", uuid.New().String(), ext)
	url, err := uc.s3Client.UploadFile(key, src, contentTypeForExt(ext))
	if err != nil {
		return "", err
	}

	if err := uc.users.UpdateAvatar(userID, url); err != nil {
		uc.logger.Warn("Avatar uploaded but profile update failed for %s: %v", userID, err)
	}
	return url, nil
}

func (uc *identityUseCase) ListUsers() ([]*entity.User, error) {
	return uc.users.List()
}

func (uc *identityUseCase) UpdateRole(id string, role models.UserRole) error {
	if err := uc.users.UpdateRole(id, role); err != nil {
		return err
	}
	uc.dropSession(id)
	return nil
}

func (uc *identityUseCase) SetActive(id string, active bool) error {
	if err := uc.users.SetActive(id, active); err != nil {
		return err
	}
	if !active {
		uc.dropSession(id)
	}
	return nil
}

func (uc *identityUseCase) cacheSession(user *entity.User) {
	if uc.redisClient == nil {
		return
	}

	payload, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := uc.redisClient.Set(context.Background(), sessionKeyPrefix+user.ID, payload, sessionTTL).Err(); err != nil {
		uc.logger.Warn("Failed to cache session for %s: %v", user.ID, err)
	}
}

func (uc *identityUseCase) cachedSession(userID string) *entity.User {
	if uc.redisClient == nil {
		return nil
	}

	payload, err := uc.redisClient.Get(context.Background(), sessionKeyPrefix+userID).Bytes()
	if err != nil {
		return nil
	}

	var user entity.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil
	}
	return &user
}

func (uc *identityUseCase) dropSession(userID string) {
	if uc.redisClient == nil {
		return
	}
	uc.redisClient.Del(context.Background(), sessionKeyPrefix+userID)
}

func contentTypeForExt(ext string) string {
	if ext == ".png" {
		return "image/png"
	}
	return "image/jpeg"
}
