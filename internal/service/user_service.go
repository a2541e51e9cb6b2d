package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"chatly/internal/domain"
	"chatly/internal/repository"
	"chatly/internal/storage"
)

// UserService coordina reglas de negocio para cuentas y perfiles.
type UserService struct {
	logger       *zap.Logger
	users        repository.UserRepository
	uploader     storage.Uploader
	loginLimiter LoginRateLimiter
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, uploader storage.Uploader, loginLimiter LoginRateLimiter) *UserService {
	return &UserService{
		logger:       logger,
		users:        users,
		uploader:     uploader,
		loginLimiter: loginLimiter,
	}
}

type SignupInput struct {
	FullName string
	Email    string
	Password string
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrEmailTaken         = errors.New("email already exists")
	ErrImageRequired      = errors.New("image required")
	ErrRateLimited        = errors.New("rate limited")
)

const minPasswordLength = 6

func (s *UserService) Signup(ctx context.Context, input SignupInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr := normalizeEmail(input.Email)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}
	if len(input.Password) < minPasswordLength {
		return domain.User{}, ErrPasswordTooShort
	}

	_, err := s.users.GetByEmail(ctx, emailAddr)
	if err == nil {
		return domain.User{}, ErrEmailTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	passwordHash, err := HashPassword(input.Password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		FullName:     strings.TrimSpace(input.FullName),
		Email:        emailAddr,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	// El indice unico de email es el arbitro final: dos signups concurrentes
	// pueden pasar ambos el chequeo previo y solo uno gana el insert.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	return user, nil
}

// Authenticate devuelve el mismo error para email desconocido y password
// incorrecto, para no revelar cual de los dos fallo.
func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	if s.loginLimiter != nil && !s.loginLimiter.Allow(emailAddr) {
		return domain.User{}, ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if !CheckPassword(password, user.PasswordHash) {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID carga el usuario para el guard de sesion, sin el hash.
func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// UpdateProfilePicture sube la imagen al blob store y persiste la URL.
func (s *UserService) UpdateProfilePicture(ctx context.Context, userID, image string) (domain.User, error) {
	if s.users == nil || s.uploader == nil {
		return domain.User{}, errors.New("user service not configured")
	}
	if strings.TrimSpace(image) == "" {
		return domain.User{}, ErrImageRequired
	}

	url, err := s.uploader.Upload(ctx, image)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("profile picture upload failed", zap.Error(err), zap.String("user_id", userID))
		}
		return domain.User{}, err
	}

	user, err := s.users.UpdateProfilePicture(ctx, userID, url)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// ListContacts devuelve todos los usuarios salvo el indicado, para el sidebar.
func (s *UserService) ListContacts(ctx context.Context, excludeID string) ([]domain.User, error) {
	if s.users == nil {
		return nil, errors.New("user service not configured")
	}
	return s.users.ListOthers(ctx, excludeID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
