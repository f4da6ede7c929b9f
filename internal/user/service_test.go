package user

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"user_service/internal/apperror"
	"user_service/internal/auth"
	"user_service/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of UserRepositoryInterface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*User), args.Error(1)
}

// MockUserCache is a mock implementation of UserCacheInterface
type MockUserCache struct {
	mock.Mock
}

func (m *MockUserCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockUserCache) Set(ctx context.Context, key string, data interface{}) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

func (m *MockUserCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisherInterface
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishUserCreated(ctx context.Context, userID int, email string) error {
	args := m.Called(ctx, userID, email)
	return args.Error(0)
}

func newTestService() (*MockUserRepository, *MockUserCache, *MockEventPublisher, UserServiceInterface) {
	repo := new(MockUserRepository)
	userCache := new(MockUserCache)
	publisher := new(MockEventPublisher)
	return repo, userCache, publisher, NewUserService(repo, userCache, publisher)
}

func TestCreateUser_HashesPassword(t *testing.T) {
	repo, userCache, publisher, service := newTestService()

	repo.On("GetByEmail", mock.Anything, "test@example.com").Return(nil, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*user.User")).Return(nil).Run(func(args mock.Arguments) {
		user := args.Get(1).(*User)
		user.ID = 1 // Simulate DB assigning ID
	})
	publisher.On("PublishUserCreated", mock.Anything, 1, "test@example.com").Return(nil)
	userCache.On("Delete", mock.Anything, []string{cache.UserListKey()}).Return(nil)

	created, err := service.CreateUser(context.Background(), CreateUserInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "secret1",
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, 1, created.ID)

	// Stored value is a salted hash, never the plaintext
	assert.NotEqual(t, "secret1", created.Password)
	match, err := auth.ComparePasswordHash("secret1", created.Password)
	require.NoError(t, err)
	assert.True(t, match)

	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
	userCache.AssertExpectations(t)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	repo, _, _, service := newTestService()

	existing := &User{ID: 1, Email: "test@example.com"}
	repo.On("GetByEmail", mock.Anything, "test@example.com").Return(existing, nil)

	created, err := service.CreateUser(context.Background(), CreateUserInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "secret1",
	})

	assert.Nil(t, created)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.StatusCode)
	assert.Equal(t, "email", appErr.Details["field"])
	assert.Equal(t, "test@example.com", appErr.Details["value"])

	repo.AssertNotCalled(t, "Create")
}

func TestCreateUser_EmptyPassword(t *testing.T) {
	repo, _, _, service := newTestService()

	repo.On("GetByEmail", mock.Anything, "test@example.com").Return(nil, nil)

	created, err := service.CreateUser(context.Background(), CreateUserInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "",
	})

	assert.Nil(t, created)
	assert.ErrorIs(t, err, auth.ErrPasswordRequired)

	repo.AssertNotCalled(t, "Create")
}

func TestCreateUser_PublisherFailureDoesNotFailRequest(t *testing.T) {
	repo, userCache, publisher, service := newTestService()

	repo.On("GetByEmail", mock.Anything, "test@example.com").Return(nil, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*user.User")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*User).ID = 1
	})
	publisher.On("PublishUserCreated", mock.Anything, 1, "test@example.com").Return(errors.New("broker down"))
	userCache.On("Delete", mock.Anything, []string{cache.UserListKey()}).Return(nil)

	created, err := service.CreateUser(context.Background(), CreateUserInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "secret1",
	})

	require.NoError(t, err)
	require.NotNil(t, created)
}

func TestGetUser_InvalidID(t *testing.T) {
	repo, _, _, service := newTestService()

	for _, id := range []int{0, -1} {
		user, err := service.GetUser(context.Background(), id)

		assert.Nil(t, user)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.StatusCode)
		assert.Equal(t, "Invalid user ID", appErr.Message)
	}

	repo.AssertNotCalled(t, "GetByID")
}

func TestGetUser_CacheHit(t *testing.T) {
	repo, userCache, _, service := newTestService()

	cached, err := json.Marshal(&User{ID: 1, Name: "Test User", Email: "test@example.com"})
	require.NoError(t, err)
	userCache.On("Get", mock.Anything, cache.UserKey(1)).Return(cached, nil)

	user, err := service.GetUser(context.Background(), 1)

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "test@example.com", user.Email)

	repo.AssertNotCalled(t, "GetByID")
}

func TestGetUser_NotFound(t *testing.T) {
	repo, userCache, _, service := newTestService()

	userCache.On("Get", mock.Anything, cache.UserKey(999)).Return(nil, nil)
	repo.On("GetByID", mock.Anything, 999).Return(nil, nil)

	user, err := service.GetUser(context.Background(), 999)

	assert.Nil(t, user)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.StatusCode)
	assert.Equal(t, "User not found", appErr.Message)
	assert.Equal(t, 999, appErr.Details["value"])
}

func TestGetUser_CacheMissFallsThroughToRepo(t *testing.T) {
	repo, userCache, _, service := newTestService()

	stored := &User{ID: 1, Name: "Test User", Email: "test@example.com"}
	userCache.On("Get", mock.Anything, cache.UserKey(1)).Return(nil, nil)
	repo.On("GetByID", mock.Anything, 1).Return(stored, nil)
	userCache.On("Set", mock.Anything, cache.UserKey(1), stored).Return(nil)

	user, err := service.GetUser(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, stored, user)

	userCache.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestListUsers_Empty(t *testing.T) {
	repo, userCache, _, service := newTestService()

	userCache.On("Get", mock.Anything, cache.UserListKey()).Return(nil, nil)
	repo.On("List", mock.Anything).Return([]*User{}, nil)
	userCache.On("Set", mock.Anything, cache.UserListKey(), []*User{}).Return(nil)

	users, err := service.ListUsers(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Len(t, users, 0)
}

func TestListUsers_RepoError(t *testing.T) {
	repo, userCache, _, service := newTestService()

	userCache.On("Get", mock.Anything, cache.UserListKey()).Return(nil, nil)
	repo.On("List", mock.Anything).Return(nil, errors.New("connection refused"))

	users, err := service.ListUsers(context.Background())

	assert.Nil(t, users)
	assert.Error(t, err)
}
