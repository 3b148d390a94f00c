package service

import (
	"context"
	"errors"
	"time"

	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"
	"tillpoint/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("user account is deactivated")
)

// AuthService handles login, session persistence and user management.
// Sessions are JWTs valid for the configured duration (8 hours by default);
// the identity of the active operator is also persisted so a restart can
// report who was logged in and expire stale sessions.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*dto.UserResponse, error)

	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, includeInactive bool) ([]dto.UserResponse, error)
	UpdateUser(ctx context.Context, id string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeactivateUser(ctx context.Context, id string) error
	ReactivateUser(ctx context.Context, id string) error
}

type authService struct {
	users      repository.UserRepository
	state      *store.State
	jwtSecret  []byte
	sessionTTL time.Duration
}

func NewAuthService(users repository.UserRepository, state *store.State, jwtSecret string, sessionTTL time.Duration) AuthService {
	return &authService{
		users:      users,
		state:      state,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		// Burn a comparison anyway so failures take the same time whether
		// the username exists or not.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$invalidinvalidinvalidinvalidinvalidinvalid"), []byte(req.Password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrUserInactive
	}

	now := time.Now()
	token, err := s.signToken(user, now)
	if err != nil {
		return nil, err
	}

	if err := s.users.RecordLogin(ctx, user.ID, now); err != nil {
		log.Warn().Str("user_id", user.ID).Err(err).Msg("auth: failed to record login time")
	}
	s.state.Update(func(d *store.Data) []string {
		d.CurrentUser = user.ID
		d.LoginTime = now
		return []string{store.KeyCurrentUser, store.KeyLoginTime}
	})
	if err := s.state.Flush(ctx); err != nil {
		log.Error().Err(err).Msg("auth: flush after login failed")
	}

	user.LastLogin = &now
	log.Info().Str("user_id", user.ID).Str("username", user.Username).Str("role", user.Role).Msg("login")
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.sessionTTL.Seconds()),
		User:        toUserResponse(user),
	}, nil
}

func (s *authService) signToken(user *model.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(s.sessionTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// Logout clears the persisted session. The JWT itself stays valid until it
// expires; there is no server-side token revocation list.
func (s *authService) Logout(ctx context.Context) error {
	s.state.Update(func(d *store.Data) []string {
		d.CurrentUser = ""
		d.LoginTime = time.Time{}
		return []string{store.KeyCurrentUser, store.KeyLoginTime}
	})
	return s.state.Flush(ctx)
}

// CurrentUser resolves the persisted session, expiring it when older than the
// session TTL.
func (s *authService) CurrentUser(ctx context.Context) (*dto.UserResponse, error) {
	var (
		userID  string
		loginAt time.Time
	)
	s.state.View(func(d *store.Data) {
		userID = d.CurrentUser
		loginAt = d.LoginTime
	})
	if userID == "" {
		return nil, repository.ErrUserNotFound
	}
	if time.Since(loginAt) > s.sessionTTL {
		if err := s.Logout(ctx); err != nil {
			log.Error().Err(err).Msg("auth: failed to clear expired session")
		}
		return nil, repository.ErrUserNotFound
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
		Email:        req.Email,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.flush(ctx)
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) ListUsers(ctx context.Context, includeInactive bool) ([]dto.UserResponse, error) {
	users, err := s.users.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out, nil
}

func (s *authService) UpdateUser(ctx context.Context, id string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.flush(ctx)
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) DeactivateUser(ctx context.Context, id string) error {
	if err := s.users.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.flush(ctx)
	return nil
}

func (s *authService) ReactivateUser(ctx context.Context, id string) error {
	if err := s.users.Reactivate(ctx, id); err != nil {
		return err
	}
	s.flush(ctx)
	return nil
}

func (s *authService) flush(ctx context.Context) {
	if err := s.state.Flush(ctx); err != nil {
		log.Error().Err(err).Msg("auth: flush failed")
	}
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Role:      u.Role,
		Email:     u.Email,
		Active:    u.Active,
		LastLogin: u.LastLogin,
	}
}
