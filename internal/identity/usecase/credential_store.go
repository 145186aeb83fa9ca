package usecase

import (
	"errors"
	"strings"
	"sync"

	"community-portal/internal/identity/entity"
	"community-portal/internal/identity/repo/persistent"
	"community-portal/pkg/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both unknown accounts and wrong
// passwords so responses never reveal which one it was.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrAccountDisabled is returned for deactivated accounts.
var ErrAccountDisabled = errors.New("account is deactivated")

// CredentialStore authenticates accounts. Which implementation backs it
// is decided once at startup: the database store when a database is
// configured, the demo store otherwise. It is never re-probed per call.
type CredentialStore interface {
	Authenticate(email, password string) (*entity.User, error)
	Register(email, password, fullName string) (*entity.User, error)
	GetByID(id string) (*entity.User, error)
}

type dbCredentialStore struct {
	users persistent.UserRepository
}

func NewDBCredentialStore(users persistent.UserRepository) CredentialStore {
	return &dbCredentialStore{users: users}
}

func (s *dbCredentialStore) Authenticate(email, password string) (*entity.User, error) {
	user, hash, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

func (s *dbCredentialStore) Register(email, password, fullName string) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:    email,
		FullName: fullName,
		Role:     models.RoleUser,
		IsActive: true,
	}
	if err := s.users.Create(user, string(hash)); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *dbCredentialStore) GetByID(id string) (*entity.User, error) {
	return s.users.GetByID(id)
}

type demoAccount struct {
	password string
	user     *entity.User
}

// demoCredentialStore is the fallback sign-in path for installs without
// a database. Unrecognized credentials still yield a guest-tier account
// rather than an error, so nobody dead-ends at the sign-in form.
type demoCredentialStore struct {
	mu       sync.Mutex
	accounts map[string]*demoAccount
	byID     map[string]*entity.User
}

func NewDemoCredentialStore() CredentialStore {
	s := &demoCredentialStore{
		accounts: make(map[string]*demoAccount),
		byID:     make(map[string]*entity.User),
	}
	s.seed("admin@demo.local", "admin123", "Demo Admin", models.RoleAdmin)
	s.seed("moderator@demo.local", "moderator123", "Demo Moderator", models.RoleModerator)
	s.seed("user@demo.local", "user123", "Demo User", models.RoleUser)
	return s
}

func (s *demoCredentialStore) seed(email, password, fullName string, role models.UserRole) {
	user := &entity.User{
		ID:       uuid.New().String(),
		Email:    email,
		FullName: fullName,
		Role:     role,
		IsActive: true,
	}
	s.accounts[email] = &demoAccount{password: password, user: user}
	s.byID[user.ID] = user
}

func (s *demoCredentialStore) Authenticate(email, password string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if acc, ok := s.accounts[email]; ok && acc.password == password {
		return acc.user, nil
	}

	// Unknown credentials: hand out a guest account instead of failing
	user := &entity.User{
		ID:       "guest_" + uuid.New().String(),
		Email:    email,
		FullName: displayNameFromEmail(email),
		Role:     models.RoleGuest,
		IsActive: true,
	}
	s.byID[user.ID] = user
	return user, nil
}

func (s *demoCredentialStore) Register(email, password, fullName string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[email]; exists {
		return nil, errors.New("email already registered")
	}

	user := &entity.User{
		ID:       uuid.New().String(),
		Email:    email,
		FullName: fullName,
		Role:     models.RoleUser,
		IsActive: true,
	}
	s.accounts[email] = &demoAccount{password: password, user: user}
	s.byID[user.ID] = user
	return user, nil
}

func (s *demoCredentialStore) GetByID(id string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, errors.New("account not found")
}

func displayNameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
