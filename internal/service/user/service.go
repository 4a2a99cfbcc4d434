package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInactiveAccount is returned for deactivated users.
	ErrInactiveAccount = errors.New("account is deactivated")
)

// Service handles registration, login, JWT verification, profiles, password
// reset and the admin user operations.
type Service struct {
	repo        userRepo
	tokens      tokenRepo
	jwtSecret   []byte
	accessTTL   time.Duration
	resetTTL    time.Duration
	passwordMin int
}

type userRepo interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id string, in userrepo.UpdateInput) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	List(ctx context.Context, in userrepo.ListInput) ([]domain.User, int, error)
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
	SetRole(ctx context.Context, id, role string) (*domain.User, error)
}

type tokenRepo interface {
	Create(ctx context.Context, t tokenrepo.Token) error
	Get(ctx context.Context, token string) (*tokenrepo.Token, error)
	Delete(ctx context.Context, token string) error
}

// New creates a Service with sane defaults.
func New(repo userrepo.Repository, tokens tokenrepo.Repository, jwtSecret string, accessTTL time.Duration) *Service {
	return &Service{
		repo:        repo,
		tokens:      tokens,
		jwtSecret:   []byte(jwtSecret),
		accessTTL:   accessTTL,
		resetTTL:    time.Hour,
		passwordMin: 8,
	}
}

type accessClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// RegisterInput captures fields expected by the register endpoint.
type RegisterInput struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Name     string          `json:"name"`
	Address  *domain.Address `json:"address,omitempty"`
}

// Register creates a new active user with the default role.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, domain.Validation("email required")
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hashed),
		Name:         strings.TrimSpace(in.Name),
		Address:      in.Address,
		Role:         domain.RoleUser,
		IsActive:     true,
	})
}

// Login validates credentials and returns the user plus a signed access
// token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, "", ErrInactiveAccount
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// VerifyToken validates the signature and expiry and returns the bound user
// id and role.
func (s *Service) VerifyToken(tokenString string) (userID, role string, err error) {
	var claims accessClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", "", ErrInvalidToken
	}
	return claims.Subject, claims.Role, nil
}

// LookupByToken returns the active user bound to a valid access token.
func (s *Service) LookupByToken(ctx context.Context, tokenString string) (*domain.User, error) {
	id, _, err := s.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrInactiveAccount
	}
	return u, nil
}

// Profile returns the user record.
func (s *Service) Profile(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfileInput carries optional profile fields.
type UpdateProfileInput struct {
	Name    *string         `json:"name,omitempty"`
	Avatar  *string         `json:"avatar,omitempty"`
	Address *domain.Address `json:"address,omitempty"`
}

func (s *Service) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*domain.User, error) {
	return s.repo.Update(ctx, id, userrepo.UpdateInput{
		Name:    in.Name,
		Avatar:  in.Avatar,
		Address: in.Address,
	})
}

// ForgotPassword issues a single-use reset token for the account. The token
// is returned to the caller; delivering it is the mail layer's problem.
func (s *Service) ForgotPassword(ctx context.Context, email string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	if err := s.tokens.Create(ctx, tokenrepo.Token{
		Token:     token,
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(s.resetTTL),
	}); err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword consumes a reset token and replaces the password.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	t, err := s.tokens.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if time.Now().After(t.ExpiresAt) {
		_ = s.tokens.Delete(ctx, token)
		return ErrInvalidToken
	}

	password := strings.TrimSpace(newPassword)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, t.UserID, string(hashed)); err != nil {
		return err
	}
	return s.tokens.Delete(ctx, token)
}

// List is the admin user listing.
func (s *Service) List(ctx context.Context, in userrepo.ListInput) ([]domain.User, int, error) {
	return s.repo.List(ctx, in)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ToggleActive flips the account's active flag.
func (s *Service) ToggleActive(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.SetActive(ctx, id, !u.IsActive)
}

func (s *Service) ChangeRole(ctx context.Context, id, role string) (*domain.User, error) {
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, domain.Validation("invalid role")
	}
	return s.repo.SetRole(ctx, id, role)
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}

func (s *Service) issueToken(u *domain.User) (string, error) {
	now := time.Now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
		Role: u.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func validatePassword(p string, min int) error {
	trimmed := strings.TrimSpace(p)
	if len(trimmed) < min {
		return domain.Validation(fmt.Sprintf("password must be at least %d characters", min))
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return domain.Validation("password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number")
	}
	return nil
}
