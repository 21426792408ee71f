package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/matboka/matboka-backend/internal/models"
	"github.com/matboka/matboka-backend/internal/types"
)

// ErrInvalidCredentials is returned for a bad email/password pair.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService authenticates editors and issues the capability tokens
// the persistence workflow demands.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
		tokenTTL:  24 * time.Hour,
	}
}

// Login verifies the password and returns a signed capability token
// together with the editor record.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.Editor, error) {
	var editor models.Editor
	if err := s.db.WithContext(ctx).First(&editor, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(editor.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.GenerateToken(&types.TokenClaims{
		EditorID: editor.ID,
		Email:    editor.Email,
		Role:     types.EditorRole,
	})
	if err != nil {
		return "", nil, err
	}
	return token, &editor, nil
}

// GenerateToken signs the claims into a bearer token.
func (s *AuthService) GenerateToken(claims *types.TokenClaims) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"editor_id": claims.EditorID.String(),
		"email":     claims.Email,
		"role":      claims.Role,
		"iat":       now.Unix(),
		"exp":       now.Add(s.tokenTTL).Unix(),
	})
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a bearer token and returns the
// capability it carries.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	idStr, _ := mapClaims["editor_id"].(string)
	editorID, err := uuid.Parse(idStr)
	if err != nil {
		return nil, errors.New("invalid editor id in token")
	}
	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)

	return &types.TokenClaims{EditorID: editorID, Email: email, Role: role}, nil
}
