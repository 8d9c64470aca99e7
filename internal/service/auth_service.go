package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
	"github.com/mohand-ashraf/velora-hotel/internal/dto"
	"github.com/mohand-ashraf/velora-hotel/internal/repository"
	"github.com/mohand-ashraf/velora-hotel/pkg/telemetry"
)

const minPasswordLength = 6

// AuthServiceConfig holds configuration for AuthService
type AuthServiceConfig struct {
	JWTSecret         string
	Issuer            string
	AccessTokenExpiry time.Duration
	BcryptCost        int
	Clock             func() time.Time
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Signup creates a user and returns an access token
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error)
	// Login authenticates a user
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// ValidateToken turns an access token into a session
	ValidateToken(ctx context.Context, token string) (*domain.Session, error)
}

type authService struct {
	users  repository.UserStore
	config AuthServiceConfig
}

// accessClaims are the claims carried by an access token
type accessClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// NewAuthService creates a new AuthService
func NewAuthService(users repository.UserStore, config *AuthServiceConfig) AuthService {
	cfg := AuthServiceConfig{}
	if config != nil {
		cfg = *config
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.AccessTokenExpiry == 0 {
		cfg.AccessTokenExpiry = 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "velora-hotel"
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &authService{users: users, config: cfg}
}

// Signup registers a new user
func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.signup")
	defer span.End()

	email := strings.TrimSpace(req.Email)
	span.SetAttributes(attribute.String("email", email))

	if !dto.ValidEmail(email) {
		span.SetStatus(codes.Error, "invalid email")
		return nil, domain.ErrInvalidEmail
	}
	if len(req.Password) < minPasswordLength {
		span.SetStatus(codes.Error, "weak password")
		return nil, domain.ErrWeakPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hashedPassword),
		CreatedAt:    s.config.Clock().UTC(),
	}

	// the store enforces email uniqueness
	if err := s.users.Create(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	resp, err := s.authResponse(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")
	return resp, nil
}

// Login authenticates a user. Unknown email and wrong password look the same.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.login")
	defer span.End()

	span.SetAttributes(attribute.String("email", req.Email))

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			span.SetStatus(codes.Error, "invalid credentials")
			return nil, domain.ErrInvalidCredentials
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, domain.ErrInvalidCredentials
	}

	resp, err := s.authResponse(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")
	return resp, nil
}

// ValidateToken validates an access token and returns the session
func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*domain.Session, error) {
	_, span := telemetry.StartSpan(ctx, "service.auth.validate_token")
	defer span.End()

	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return []byte(s.config.JWTSecret), nil
	},
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.config.Clock),
	)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, jwt.ErrTokenExpired) {
			span.SetStatus(codes.Error, "token expired")
			return nil, domain.ErrTokenExpired
		}
		span.SetStatus(codes.Error, "invalid token")
		return nil, domain.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		span.SetStatus(codes.Error, "invalid token")
		return nil, domain.ErrInvalidToken
	}

	span.SetAttributes(attribute.String("user_id", claims.UserID))
	span.SetStatus(codes.Ok, "")
	return &domain.Session{UserID: claims.UserID, Email: claims.Email}, nil
}

func (s *authService) authResponse(user *domain.User) (*dto.AuthResponse, error) {
	now := s.config.Clock()
	claims := accessClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.AccessTokenExpiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		User:        dto.UserFromDomain(user),
	}, nil
}
