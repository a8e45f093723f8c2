package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/cache"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/config"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/mail"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/models"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	ErrInvalidResetToken  = errors.New("password reset link is invalid or has expired")
	ErrResetUnavailable   = errors.New("password reset is not available")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	db          *gorm.DB
	cfg         *config.Config
	validator   *Validator
	resetTokens *cache.ResetTokenStore
	mailer      mail.Mailer
}

// NewAuthService wires the auth flows. resetTokens may be nil, in which case
// password reset answers ErrResetUnavailable.
func NewAuthService(db *gorm.DB, cfg *config.Config, validator *Validator, resetTokens *cache.ResetTokenStore, mailer mail.Mailer) *AuthService {
	if mailer == nil {
		mailer = mail.LogMailer{}
	}
	return &AuthService{
		db:          db,
		cfg:         cfg,
		validator:   validator,
		resetTokens: resetTokens,
		mailer:      mailer,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the account and its person profile in one transaction.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperr.NewAuthError(ErrWeakPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := models.Account{
		ID:           uuid.New(),
		Email:        req.Email,
		Password:     string(hash),
		AuthProvider: "email",
	}
	var profile *models.UserProfile

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Unscoped().Model(&models.Account{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		if err := tx.Create(&account).Error; err != nil {
			// a concurrent sign-up can pass the count and lose on the unique index
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return err
		}
		var err error
		profile, err = repository.NewProfileRepository(tx).Create(ctx, account.ID, account.Email, models.RolePerson)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, apperr.NewAuthError(ErrEmailTaken)
		}
		if apperr.IsPersistence(err) {
			return nil, err
		}
		return nil, apperr.Persistence("register", err)
	}

	slog.Info("account registered", "user_id", account.ID.String(), "action", "register")
	return s.generateTokenPair(ctx, &account, profile.Role)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	var account models.Account
	if err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewAuthError(ErrInvalidCredentials)
		}
		return nil, apperr.Persistence("login", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		return nil, apperr.NewAuthError(ErrInvalidCredentials)
	}

	role, err := s.roleOf(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	return s.generateTokenPair(ctx, &account, role)
}

// Refresh rotates a refresh token: the presented one is revoked and a new pair issued.
func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	if err := db.Where("token_hash = ? AND revoked = ?", tokenHash, false).First(&stored).Error; err != nil {
		return nil, apperr.NewAuthError(ErrInvalidToken)
	}

	if err := db.Model(&stored).Update("revoked", true).Error; err != nil {
		return nil, apperr.Persistence("revoke refresh token", err)
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, apperr.NewAuthError(ErrInvalidToken)
	}

	var account models.Account
	if err := db.First(&account, "id = ?", stored.AccountID).Error; err != nil {
		return nil, apperr.NewAuthError(ErrUserNotFound)
	}

	role, err := s.roleOf(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	return s.generateTokenPair(ctx, &account, role)
}

func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", hashToken(req.RefreshToken)).
		Update("revoked", true).Error
	return apperr.Persistence("logout", err)
}

// Me returns the caller's identity together with its current role.
func (s *AuthService) Me(ctx context.Context, uid uuid.UUID) (*dto.UserResponse, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).First(&account, "id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Persistence("get account", err)
	}
	role, err := s.roleOf(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &dto.UserResponse{ID: account.ID, Email: account.Email, Role: role}, nil
}

// RequestPasswordReset mails a single-use reset link. Unknown emails succeed
// silently so the endpoint cannot be used to probe for accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req *dto.PasswordResetRequest) error {
	if s.resetTokens == nil {
		return ErrResetUnavailable
	}
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	var account models.Account
	if err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Info("password reset for unknown email", "action", "password_reset")
			return nil
		}
		return apperr.Persistence("password reset", err)
	}

	token, err := randomToken()
	if err != nil {
		return err
	}
	if err := s.resetTokens.Save(ctx, token, account.ID); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	link := s.cfg.PasswordResetURL + "?token=" + url.QueryEscape(token)
	msg := mail.Message{
		To:      account.Email,
		Subject: "Reset your CleanCampus password",
		Body: "We received a request to reset your password.\n\n" +
			"Open this link to choose a new one:\n" + link + "\n\n" +
			"The link expires in " + s.cfg.PasswordResetTTL.String() + ". If you did not ask for this, ignore this email.\n",
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return apperr.NewAuthError(fmt.Errorf("could not send reset email: %w", err))
	}
	slog.Info("password reset requested", "user_id", account.ID.String(), "action", "password_reset")
	return nil
}

// ResetPassword consumes a reset token, sets the new password and revokes
// every outstanding refresh token of the account.
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.PasswordResetConfirmRequest) error {
	if s.resetTokens == nil {
		return ErrResetUnavailable
	}
	req.Token = strings.TrimSpace(req.Token)
	if err := s.validator.Struct(req); err != nil {
		return err
	}
	if len(req.Password) < minPasswordLength {
		return apperr.NewAuthError(ErrWeakPassword)
	}

	accountID, err := s.resetTokens.Consume(ctx, req.Token)
	if err != nil {
		if errors.Is(err, cache.ErrTokenNotFound) {
			return apperr.NewAuthError(ErrInvalidResetToken)
		}
		return fmt.Errorf("consume reset token: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Account{}).Where("id = ?", accountID).Update("password", string(hash))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return tx.Model(&models.RefreshToken{}).
			Where("account_id = ? AND revoked = ?", accountID, false).
			Update("revoked", true).Error
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return apperr.NewAuthError(ErrInvalidResetToken)
		}
		return apperr.Persistence("reset password", err)
	}
	return nil
}

func (s *AuthService) roleOf(ctx context.Context, uid uuid.UUID) (models.Role, error) {
	profile, err := repository.NewProfileRepository(s.db).Get(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return models.RolePerson, nil
		}
		return "", err
	}
	return profile.Role, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, account *models.Account, role models.Role) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(account)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, account)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserResponse{
			ID:    account.ID,
			Email: account.Email,
			Role:  role,
		},
	}, nil
}

func (s *AuthService) generateAccessToken(account *models.Account) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   account.ID.String(),
		"email": account.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, account *models.Account) (string, error) {
	rawToken, err := randomToken()
	if err != nil {
		return "", err
	}

	record := models.RefreshToken{
		ID:        uuid.New(),
		AccountID: account.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", apperr.Persistence("store refresh token", err)
	}

	return rawToken, nil
}

func randomToken() (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(rawBytes), nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
