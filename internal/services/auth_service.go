package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type UserOut struct {
	ID       uint   `json:"id"`
	Nickname string `json:"nickname"`
}

type TokenResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	User        UserOut `json:"user"`
}

type RegisterRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// AuthService issues and verifies the bearer tokens attached to generation
// calls. The engine itself treats tokens as opaque; only this service
// inspects them.
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*TokenResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error)
	UserFromToken(ctx context.Context, token string) (*UserOut, error)
}

type authService struct {
	users  repositories.UserRepository
	secret []byte
	logger *slog.Logger
	now    func() time.Time
}

func NewAuthService(users repositories.UserRepository, jwtSecret string, logger *slog.Logger) AuthService {
	return &authService{
		users:  users,
		secret: []byte(jwtSecret),
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*TokenResponse, error) {
	if s.users == nil {
		return nil, ErrAuthUnavailable
	}
	nickname := strings.TrimSpace(req.Nickname)
	if len(nickname) < 2 {
		return nil, ErrNicknameTooShort
	}
	if len(req.Password) < 6 {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Nickname: nickname, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateNickname) {
			return nil, ErrNicknameTaken
		}
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return s.tokenResponse(user)
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	if s.users == nil {
		return nil, ErrAuthUnavailable
	}
	nickname := strings.TrimSpace(req.Nickname)
	if len(req.Password) < 6 {
		return nil, ErrPasswordTooShort
	}

	user, err := s.users.GetByNickname(ctx, nickname)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.tokenResponse(user)
}

func (s *authService) UserFromToken(ctx context.Context, tokenString string) (*UserOut, error) {
	if s.users == nil {
		return nil, ErrAuthUnavailable
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrInvalidToken
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, uint(id))
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return &UserOut{ID: user.ID, Nickname: user.Nickname}, nil
}

func (s *authService) tokenResponse(user *models.User) (*TokenResponse, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(user.ID), 10),
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        UserOut{ID: user.ID, Nickname: user.Nickname},
	}, nil
}
