package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/foodies-app/backend/internal/models"
	"github.com/foodies-app/backend/internal/types"
)

const tokenTTL = 24 * time.Hour

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string
	User  *models.User
}

// Register hashes the password and persists a new user, then issues and
// stores a session token. A duplicate email fails with a DuplicateError; the
// unique index on users.email is the authoritative guard.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, types.NewDuplicateError("Email already in use")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, types.NewDuplicateError("Email already in use")
		}
		return nil, err
	}

	return s.issueToken(ctx, &user)
}

// Login verifies credentials and issues a fresh session token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, types.NewValidationError("Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, types.NewValidationError("Invalid email or password")
	}

	return s.issueToken(ctx, &user)
}

// Logout clears the stored token so outstanding tokens fail validation
// before their expiry.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("token", "")
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return types.NewNotFoundError("User")
	}
	return nil
}

// GetUserByID returns the user record; the password hash never leaves the
// model's JSON projection.
func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFoundError("User")
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) issueToken(ctx context.Context, user *models.User) (*AuthResult, error) {
	now := time.Now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti keeps tokens issued within the same second distinct,
			// so the stored-token match always invalidates predecessors.
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	// Persisting the token makes logout and token rotation effective by
	// invalidation, not just expiry.
	if err := s.db.WithContext(ctx).Model(user).Update("token", token).Error; err != nil {
		return nil, err
	}
	user.Token = token

	return &AuthResult{Token: token, User: user}, nil
}

// ValidateToken accepts a token only if it is cryptographically valid,
// unexpired, and matches the token currently stored on the user record.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, types.NewUnauthorizedError("Invalid or expired token")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		return nil, types.NewUnauthorizedError("Invalid or expired token")
	}
	if user.Token != tokenString {
		return nil, types.NewUnauthorizedError("Invalid or expired token")
	}

	return claims, nil
}
