package user

import (
	"context"
	"encoding/json"
	"time"

	"user_service/internal/apperror"
	"user_service/internal/auth"
	"user_service/internal/cache"

	"github.com/sirupsen/logrus"
)

const cacheTimeout = 2 * time.Second

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
}

type UserServiceInterface interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*User, error)
	GetUser(ctx context.Context, id int) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
}

type UserCacheInterface interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

type EventPublisherInterface interface {
	PublishUserCreated(ctx context.Context, userID int, email string) error
}

type UserService struct {
	repo      UserRepositoryInterface
	cache     UserCacheInterface
	publisher EventPublisherInterface
}

func NewUserService(repo UserRepositoryInterface, cache UserCacheInterface, publisher EventPublisherInterface) UserServiceInterface {
	return &UserService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
	}
}

// CreateUser registers a new account. The email existence check is an early exit
// only; two concurrent creates can both pass it, and the second insert is rejected
// by the database unique constraint and surfaced as a Conflict.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	existing, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflict("User with this email already exists", map[string]any{
			"field": "email",
			"value": input.Email,
		})
	}

	hashedPassword, err := auth.GeneratePasswordHash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashedPassword,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Best effort: a broker outage must not fail the request.
	if err := s.publisher.PublishUserCreated(ctx, user.ID, user.Email); err != nil {
		logrus.WithError(err).Warn("Failed to publish user.created event")
	}

	cctx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()
	if err := s.cache.Delete(cctx, cache.UserListKey()); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate user list cache")
	}

	return user, nil
}

// GetUser fetches a user by id through the read-through cache.
func (s *UserService) GetUser(ctx context.Context, id int) (*User, error) {
	if id <= 0 {
		return nil, apperror.NewBadRequest("Invalid user ID", nil)
	}

	cctx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()

	cacheKey := cache.UserKey(id)
	cachedData, err := s.cache.Get(cctx, cacheKey)
	if err == nil && cachedData != nil {
		var user User
		if json.Unmarshal(cachedData, &user) == nil {
			logrus.Debugf("cache hit for user %d", id)
			return &user, nil
		}
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFound("User not found", map[string]any{
			"field": "id",
			"value": id,
		})
	}

	if err := s.cache.Set(cctx, cacheKey, user); err != nil {
		logrus.WithError(err).Warn("Failed to set cache for user")
	}

	return user, nil
}

// ListUsers returns all users, possibly empty but never nil.
func (s *UserService) ListUsers(ctx context.Context) ([]*User, error) {
	cctx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()

	cacheKey := cache.UserListKey()
	cachedData, err := s.cache.Get(cctx, cacheKey)
	if err == nil && cachedData != nil {
		var users []*User
		if json.Unmarshal(cachedData, &users) == nil {
			logrus.Debug("cache hit for user list")
			return users, nil
		}
	}

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cctx, cacheKey, users); err != nil {
		logrus.WithError(err).Warn("Failed to set cache for user list")
	}

	return users, nil
}
