package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jewelen/marketplace-backend/internal/config"
	"github.com/jewelen/marketplace-backend/internal/dto"
	"github.com/jewelen/marketplace-backend/internal/models"
	"github.com/jewelen/marketplace-backend/internal/notify"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotVerified       = errors.New("account not verified")
	ErrNotApproved       = errors.New("account awaiting admin approval")
	ErrInvalidOTP        = errors.New("invalid or expired OTP")
	ErrInvalidResetToken = errors.New("reset token is invalid or has expired")
	ErrUserNotFound      = errors.New("user not found")
)

const otpTTL = 10 * time.Minute

type AuthService struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer notify.Mailer
}

func NewAuthService(db *gorm.DB, cfg *config.Config, mailer notify.Mailer) *AuthService {
	return &AuthService{db: db, cfg: cfg, mailer: mailer}
}

// Register creates an unverified account and mails an OTP. Suppliers
// start Pending and must also be approved by an admin; everyone else is
// approved as soon as the OTP check passes. Re-registering an unverified
// email refreshes the password and re-sends the OTP.
func (s *AuthService) Register(req *dto.RegisterRequest) (string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	otp, err := generateOTP()
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	expiry := time.Now().Add(otpTTL)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		if existing.IsVerified {
			return "", ErrEmailTaken
		}
		updates := map[string]interface{}{
			"name":       req.Name,
			"password":   string(hash),
			"otp":        otp,
			"otp_expiry": expiry,
		}
		if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
			return "", fmt.Errorf("failed to refresh registration: %w", err)
		}
		s.sendOTP(req.Name, email, otp)
		return fmt.Sprintf("An OTP has been re-sent to %s. Please verify.", email), nil
	}

	role := models.RoleBuyer
	if req.Role != "" {
		role = models.Role(req.Role)
	}

	status := models.AccountApproved
	if role == models.RoleSupplier {
		status = models.AccountPending
	}

	user := models.User{
		ID:         uuid.New(),
		Name:       req.Name,
		Email:      email,
		Password:   string(hash),
		Role:       role,
		Status:     status,
		IsVerified: false,
		OTP:        otp,
		OTPExpiry:  &expiry,

		CompanyName:    req.CompanyName,
		BusinessType:   req.BusinessType,
		CompanyCountry: req.CompanyCountry,
		CompanyWebsite: req.CompanyWebsite,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	s.sendOTP(req.Name, email, otp)

	if role == models.RoleSupplier {
		return fmt.Sprintf("Supplier account request sent! An OTP has been sent to %s.", email), nil
	}
	return fmt.Sprintf("Registration successful. An OTP has been sent to %s. Please verify.", email), nil
}

func (s *AuthService) sendOTP(name, email, otp string) {
	if err := s.mailer.Send(email, "Verify Your Email Address", notify.OTPEmail(name, otp)); err != nil {
		slog.Error("failed to send OTP mail", "error", err, "email", email)
	}
}

// VerifyOTP marks the account verified. Approved accounts get a token;
// pending suppliers do not and the second return is true.
func (s *AuthService) VerifyOTP(req *dto.VerifyOTPRequest) (*dto.AuthResponse, bool, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := s.db.Where("email = ? AND otp = ? AND otp_expiry > ?", email, req.OTP, time.Now()).
		First(&user).Error
	if err != nil {
		return nil, false, ErrInvalidOTP
	}

	updates := map[string]interface{}{
		"is_verified": true,
		"otp":         "",
		"otp_expiry":  nil,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, false, fmt.Errorf("failed to mark user verified: %w", err)
	}
	user.IsVerified = true

	if user.Role == models.RoleSupplier && user.Status != models.AccountApproved {
		return &dto.AuthResponse{User: dto.NewUserResponse(&user)}, true, nil
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return nil, false, err
	}
	return &dto.AuthResponse{Token: token, User: dto.NewUserResponse(&user)}, false, nil
}

// Login authenticates a verified, approved account.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, ErrNotVerified
	}
	if user.Status != models.AccountApproved {
		return nil, ErrNotApproved
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, User: dto.NewUserResponse(&user)}, nil
}

// ForgotPassword issues a reset token (stored hashed) and mails the link.
func (s *AuthService) ForgotPassword(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return ErrUserNotFound
	}

	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	expiry := time.Now().Add(otpTTL)
	updates := map[string]interface{}{
		"reset_token_hash":   hashToken(rawToken),
		"reset_token_expiry": expiry,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.cfg.FrontendURL, rawToken)
	if err := s.mailer.Send(user.Email, "Password Reset Request", notify.ResetEmail(resetURL)); err != nil {
		// Roll the token back so a failed mail cannot leave a live token
		// the user never received.
		s.db.Model(&user).Updates(map[string]interface{}{
			"reset_token_hash":   "",
			"reset_token_expiry": nil,
		})
		return fmt.Errorf("failed to send reset mail: %w", err)
	}
	return nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *AuthService) ResetPassword(rawToken, password string) (*dto.AuthResponse, error) {
	var user models.User
	err := s.db.Where("reset_token_hash = ? AND reset_token_expiry > ?", hashToken(rawToken), time.Now()).
		First(&user).Error
	if err != nil {
		return nil, ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	updates := map[string]interface{}{
		"password":           string(hash),
		"reset_token_hash":   "",
		"reset_token_expiry": nil,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to reset password: %w", err)
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, User: dto.NewUserResponse(&user)}, nil
}

func (s *AuthService) GetUser(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *AuthService) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListPendingSuppliers returns supplier accounts awaiting approval.
func (s *AuthService) ListPendingSuppliers() ([]models.User, error) {
	var users []models.User
	err := s.db.Where("role = ? AND status = ?", models.RoleSupplier, models.AccountPending).
		Order("created_at ASC").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending suppliers: %w", err)
	}
	return users, nil
}

// SetAccountStatus is the admin approve/reject operation.
func (s *AuthService) SetAccountStatus(id uuid.UUID, status models.AccountStatus) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, ErrUserNotFound
	}
	if err := s.db.Model(&user).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update account status: %w", err)
	}
	user.Status = status
	return &user, nil
}

func (s *AuthService) UpdateUser(id uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, ErrUserNotFound
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Role != "" {
		updates["role"] = req.Role
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *AuthService) DeleteUser(id uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return ErrUserNotFound
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		tx.Where("user_id = ?", id).Delete(&models.CartItem{})
		tx.Where("user_id = ?", id).Delete(&models.WishlistItem{})
		tx.Where("user_id = ?", id).Delete(&models.Notification{})
		return tx.Delete(&user).Error
	})
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// generateOTP returns a 6-digit numeric code from crypto/rand.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
