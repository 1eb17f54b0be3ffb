// File: services/auth/auth.go
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"mendly/database/repository"
	userRepo "mendly/database/repository/user"
	"mendly/models"
	"mendly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// TokenPair is an access/refresh token set issued on login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is the login payload.
type AuthResponse struct {
	User   *models.User `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

// RegisterRequest creates a new account. Customers self-register without a
// store; staff and store admin accounts are created by admins and must name
// their store.
type RegisterRequest struct {
	Email      string            `json:"email"`
	Password   string            `json:"password"`
	Name       string            `json:"name"`
	Phone      string            `json:"phone"`
	Role       models.Role       `json:"role"`
	StoreID    string            `json:"storeId"`
	SkillLevel models.SkillLevel `json:"skillLevel"`
}

// AuthService issues credentials and creates accounts.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)
}

// DefaultAuthService is the production implementation.
type DefaultAuthService struct {
	Users userRepo.UserRepository
}

func (s *DefaultAuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	logger := utils.GetLogger()

	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same message as a bad password so probes learn nothing.
			return nil, utils.Unauthorizedf("invalid email or password")
		}
		logger.Error("login lookup failed", zap.Error(err))
		return nil, err
	}
	if !u.IsActive {
		return nil, utils.Unauthorizedf("account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, utils.Unauthorizedf("invalid email or password")
	}

	pair, err := issuePair(u)
	if err != nil {
		logger.Error("token generation failed", zap.String("userId", u.ID), zap.Error(err))
		return nil, err
	}

	logger.Info("user logged in", zap.String("userId", u.ID), zap.String("role", string(u.Role)))
	return &AuthResponse{User: u, Tokens: *pair}, nil
}

func (s *DefaultAuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	p, err := utils.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, utils.Unauthorizedf("invalid refresh token")
	}

	// Re-read the account so revoked or deactivated users cannot mint new
	// pairs from an old refresh token.
	u, err := s.Users.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.Unauthorizedf("invalid refresh token")
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, utils.Unauthorizedf("account is disabled")
	}
	return issuePair(u)
}

func (s *DefaultAuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	if err := validateRegistration(email, req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         req.Role,
		StoreID:      req.StoreID,
		SkillLevel:   req.SkillLevel,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.Conflictf("an account with this email already exists")
		}
		return nil, err
	}

	utils.GetLogger().Info("user registered",
		zap.String("userId", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

func validateRegistration(email string, req RegisterRequest) error {
	if email == "" || !strings.Contains(email, "@") {
		return utils.Invalidf("a valid email address is required")
	}
	if len(req.Password) < minPasswordLength {
		return utils.Invalidf("password must be at least %d characters", minPasswordLength)
	}
	if strings.TrimSpace(req.Name) == "" {
		return utils.Invalidf("name is required")
	}
	switch req.Role {
	case models.RoleCustomer:
		if req.StoreID != "" {
			return utils.Invalidf("customers cannot be assigned to a store")
		}
	case models.RoleStaff, models.RoleStoreAdmin:
		if req.StoreID == "" {
			return utils.Invalidf("%s accounts require a storeId", req.Role)
		}
	case models.RoleSuperAdmin:
		// created via operational tooling, never through the API
		return utils.Invalidf("cannot register a super_admin account")
	default:
		return utils.Invalidf("unknown role %q", req.Role)
	}
	if req.SkillLevel != "" && !models.ValidSkillLevel(req.SkillLevel) {
		return utils.Invalidf("unknown skillLevel %q", req.SkillLevel)
	}
	if req.SkillLevel != "" && req.Role != models.RoleStaff {
		return utils.Invalidf("skillLevel applies to staff accounts only")
	}
	return nil
}

func issuePair(u *models.User) (*TokenPair, error) {
	access, err := utils.GenerateAccessToken(u)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.GenerateRefreshToken(u)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
