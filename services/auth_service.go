package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"restaurant-pos/apperror"
	"restaurant-pos/models"
	"restaurant-pos/store"
)

// TokenTTL is how long a staff token stays valid
const TokenTTL = 24 * time.Hour

type Claims struct {
	StaffID uint             `json:"staff_id"`
	Email   string           `json:"email"`
	Role    models.StaffRole `json:"role"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateStaffRequest struct {
	Name     string           `json:"name" binding:"required"`
	Email    string           `json:"email" binding:"required,email"`
	Password string           `json:"password" binding:"required,min=6"`
	Role     models.StaffRole `json:"role" binding:"required"`
}

type AuthService struct {
	repo   store.Repository
	secret []byte
	log    *zap.Logger
}

func NewAuthService(repo store.Repository, secret []byte, log *zap.Logger) *AuthService {
	return &AuthService{repo: repo, secret: secret, log: log}
}

// GenerateToken creates a signed JWT for a staff member
func (s *AuthService) GenerateToken(user *models.StaffUser) (string, error) {
	now := time.Now()
	claims := Claims{
		StaffID: user.ID,
		Email:   user.Email,
		Role:    user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken validates a token and returns its claims
func (s *AuthService) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.Unauthorized("Invalid or expired token")
	}
	return claims, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, *models.StaffUser, error) {
	user, err := s.repo.GetStaffByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, store.ErrNotFound) {
		return "", nil, apperror.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, apperror.Unauthorized("Invalid email or password")
	}
	token, err := s.GenerateToken(user)
	if err != nil {
		return "", nil, apperror.Internal(err)
	}
	return token, user, nil
}

func (s *AuthService) CreateStaff(ctx context.Context, req CreateStaffRequest) (*models.StaffUser, error) {
	if req.Role != models.RoleCaptain && req.Role != models.RolePOS {
		return nil, apperror.Validation("Invalid role. Must be: captain or pos")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.GetStaffByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("Email already registered")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	user := &models.StaffUser{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := s.repo.CreateStaff(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("staff account created", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return user, nil
}

// EnsureAdmin creates the bootstrap POS account if it does not exist yet
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.CreateStaff(ctx, CreateStaffRequest{
		Name:     "POS Admin",
		Email:    email,
		Password: password,
		Role:     models.RolePOS,
	})
	if errors.Is(err, apperror.ErrConflict) {
		return nil
	}
	return err
}
