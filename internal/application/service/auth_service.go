package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/oauth"
	"github.com/sangkips/stewardpro-api/pkg/utils"
)

// ResetMailer delivers password reset links
type ResetMailer interface {
	SendPasswordResetEmail(toEmail, token string) error
}

// GoogleAuthenticator exchanges a Google authorization code for a profile
type GoogleAuthenticator interface {
	FetchUser(ctx context.Context, code string) (*oauth.GoogleUserInfo, error)
}

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo          repository.UserRepository
	passwordResetRepo repository.PasswordResetTokenRepository
	jwtManager        *utils.JWTManager
	mailer            ResetMailer
	google            GoogleAuthenticator
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	passwordResetRepo repository.PasswordResetTokenRepository,
	jwtManager *utils.JWTManager,
	mailer ResetMailer,
	google GoogleAuthenticator,
) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		passwordResetRepo: passwordResetRepo,
		jwtManager:        jwtManager,
		mailer:            mailer,
		google:            google,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(input.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || user.Password == "" {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user.ID)
}

// issueTokens loads the user's roles and signs a token pair. Disabled
// accounts get nothing, which also ends their refresh chain.
func (s *AuthService) issueTokens(ctx context.Context, userID uuid.UUID) (*LoginOutput, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	if !user.CanSignIn() {
		return nil, errAccountDisabled
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.RoleNames(), user.GetPermissions())
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.RecordLogin(ctx, user.ID, now()); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to record login")
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtManager.AccessExpiry().Seconds()),
	}, nil
}

// RegisterInput represents the registration input
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     *string
}

// Register creates a new user account with the viewer role
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	username, _, _ := strings.Cut(email, "@")
	user := &entity.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		Phone:     input.Phone,
		IsActive:  true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.userRepo.AssignRoleByName(ctx, user.ID, entity.RoleViewer); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to assign default role")
	}

	return user, nil
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}
	return s.issueTokens(ctx, userID)
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.ErrNotFound
	}

	if !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return apperror.NewFieldError("current_password", "Current password is incorrect")
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	return s.userRepo.Update(ctx, user)
}

// UpdateProfileInput represents the update profile input
type UpdateProfileInput struct {
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Username  string
	Photo     *string
	Phone     *string
}

// UpdateProfile updates the user's profile
func (s *AuthService) UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	if input.Username != "" && input.Username != user.Username {
		existingUser, err := s.userRepo.GetByUsername(ctx, input.Username)
		if err != nil {
			return nil, err
		}
		if existingUser != nil && existingUser.ID != user.ID {
			return nil, apperror.NewConflictError("Username already taken")
		}
		user.Username = input.Username
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Photo != nil {
		user.Photo = input.Photo
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ForgotPassword emails a reset link. Unknown addresses succeed silently.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("forgot password lookup failed")
		return nil
	}
	if user == nil {
		return nil
	}

	raw, token, err := entity.NewPasswordResetToken(email, now())
	if err != nil {
		return err
	}
	if err := s.passwordResetRepo.Replace(ctx, token); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordResetEmail(email, raw); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("email", email).Msg("failed to send password reset email")
		return err
	}
	return nil
}

// ResetPasswordInput represents the reset password input
type ResetPasswordInput struct {
	Email       string
	Token       string
	NewPassword string
}

var errAccountDisabled = apperror.NewForbiddenError("This account has been disabled")

var errInvalidReset = apperror.NewBadRequestError("Invalid or expired reset token")

// ResetPassword sets a new password using an emailed token
func (s *AuthService) ResetPassword(ctx context.Context, input *ResetPasswordInput) error {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return errInvalidReset
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	consumed, err := s.passwordResetRepo.Consume(ctx, entity.HashResetToken(input.Token), email)
	if err != nil {
		return err
	}
	if !consumed {
		return errInvalidReset
	}

	user.Password = hashedPassword
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	if err := s.passwordResetRepo.DeleteByEmail(ctx, email); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to clear reset tokens")
	}

	return nil
}

// GoogleLogin signs in with a Google authorization code, linking or
// creating the account by email.
func (s *AuthService) GoogleLogin(ctx context.Context, code string) (*LoginOutput, error) {
	info, err := s.google.FetchUser(ctx, code)
	if err != nil {
		if errors.Is(err, oauth.ErrOAuthNotConfigured) {
			return nil, apperror.NewBadRequestError("Google sign-in is not configured")
		}
		return nil, apperror.NewAppError(401, err.Error())
	}
	if !info.VerifiedEmail {
		return nil, apperror.NewForbiddenError("Google account email is not verified")
	}

	user, err := s.userRepo.GetByProviderID(ctx, "google", info.ID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		email := strings.ToLower(info.Email)
		user, err = s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}

		if user == nil {
			username, _, _ := strings.Cut(email, "@")
			user = &entity.User{
				FirstName: info.GivenName,
				LastName:  info.FamilyName,
				Username:  username,
				Email:     email,
				Provider:  "google",
				IsActive:  true,
			}
			if info.Picture != "" {
				user.Photo = &info.Picture
			}
		}

		user.ProviderID = &info.ID
		if user.ID == uuid.Nil {
			if err := s.userRepo.Create(ctx, user); err != nil {
				return nil, err
			}
			if err := s.userRepo.AssignRoleByName(ctx, user.ID, entity.RoleViewer); err != nil {
				log.Ctx(ctx).Warn().Err(err).Msg("failed to assign default role")
			}
		} else if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	return s.issueTokens(ctx, user.ID)
}
