package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/repositories"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByNickname(ctx context.Context, nickname string) (*models.User, error) {
	args := m.Called(ctx, nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func testSlog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuthService_Register(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Nickname == "alice" && u.PasswordHash != "secret123"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = 7
	}).Return(nil)

	svc := NewAuthService(repo, "test-secret", testSlog())
	resp, err := svc.Register(context.Background(), &RegisterRequest{Nickname: "  alice  ", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, UserOut{ID: 7, Nickname: "alice"}, resp.User)
	repo.AssertExpectations(t)
}

func TestAuthService_Register_Rejections(t *testing.T) {
	svc := NewAuthService(new(MockUserRepository), "test-secret", testSlog())

	_, err := svc.Register(context.Background(), &RegisterRequest{Nickname: " a ", Password: "secret123"})
	assert.ErrorIs(t, err, ErrNicknameTooShort)

	_, err = svc.Register(context.Background(), &RegisterRequest{Nickname: "alice", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestAuthService_Register_DuplicateNickname(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrDuplicateNickname)

	svc := NewAuthService(repo, "test-secret", testSlog())
	_, err := svc.Register(context.Background(), &RegisterRequest{Nickname: "alice", Password: "secret123"})
	assert.ErrorIs(t, err, ErrNicknameTaken)
}

func TestAuthService_LoginAndTokenRoundTrip(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAuthService(repo, "test-secret", testSlog())

	// Seed a registered user through Register to get a real bcrypt hash.
	var stored *models.User
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*models.User)
		stored.ID = 3
	}).Return(nil).Once()
	_, err := svc.Register(context.Background(), &RegisterRequest{Nickname: "bob", Password: "secret123"})
	require.NoError(t, err)

	repo.On("GetByNickname", mock.Anything, "bob").Return(stored, nil)
	repo.On("GetByID", mock.Anything, uint(3)).Return(stored, nil)

	resp, err := svc.Login(context.Background(), &LoginRequest{Nickname: "bob", Password: "secret123"})
	require.NoError(t, err)

	user, err := svc.UserFromToken(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, &UserOut{ID: 3, Nickname: "bob"}, user)

	_, err = svc.Login(context.Background(), &LoginRequest{Nickname: "bob", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetByNickname", mock.Anything, "ghost").Return(nil, repositories.ErrUserNotFound)

	svc := NewAuthService(repo, "test-secret", testSlog())
	_, err := svc.Login(context.Background(), &LoginRequest{Nickname: "ghost", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_UserFromToken_Invalid(t *testing.T) {
	svc := NewAuthService(new(MockUserRepository), "test-secret", testSlog())
	_, err := svc.UserFromToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(new(MockUserRepository), "other-secret", testSlog())
	repo := new(MockUserRepository)
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = 1
	}).Return(nil)
	issuer := NewAuthService(repo, "test-secret", testSlog())
	resp, err := issuer.Register(context.Background(), &RegisterRequest{Nickname: "eve", Password: "secret123"})
	require.NoError(t, err)

	_, err = other.UserFromToken(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_UnavailableWithoutDatabase(t *testing.T) {
	svc := NewAuthService(nil, "test-secret", testSlog())

	_, err := svc.Register(context.Background(), &RegisterRequest{Nickname: "alice", Password: "secret123"})
	assert.ErrorIs(t, err, ErrAuthUnavailable)

	_, err = svc.Login(context.Background(), &LoginRequest{Nickname: "alice", Password: "secret123"})
	assert.ErrorIs(t, err, ErrAuthUnavailable)
}
