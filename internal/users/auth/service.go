// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/wildoasis/internal/platform/apperr"
	"github.com/taibuivan/wildoasis/internal/platform/constants"
	"github.com/taibuivan/wildoasis/internal/platform/ctxutil"
	"github.com/taibuivan/wildoasis/internal/platform/dberr"
	"github.com/taibuivan/wildoasis/internal/platform/mailer"
	"github.com/taibuivan/wildoasis/internal/platform/sec"
	"github.com/taibuivan/wildoasis/internal/platform/upload"
	"github.com/taibuivan/wildoasis/internal/platform/validate"
	"github.com/taibuivan/wildoasis/internal/resource"
	"github.com/taibuivan/wildoasis/pkg/uuid"
)

// # Contracts & Types

// ImageStore persists uploaded avatars and returns their public URL.
type ImageStore interface {
	Save(ctx context.Context, bucket, name string, file *upload.File) (string, error)
}

// Options carries the account settings taken from configuration.
type Options struct {
	// AppURL is the admin portal base URL used in emailed links.
	AppURL string
	// DefaultAvatar is assigned to every new account.
	DefaultAvatar   string
	VerificationTTL time.Duration
	ResetTTL        time.Duration
}

// Session is a freshly issued session token and the user it belongs to.
type Session struct {
	Token string
	User  *User
}

// Service implements the account use cases.
//
// # Review Process
//
// Every credential change goes through this service. Changes to hashing,
// token handling or the stale-session check must be reviewed with care.
type Service struct {
	repository UserRepository
	tokens     *sec.TokenService
	notifier   mailer.Notifier
	images     ImageStore
	options    Options
	now        func() time.Time

	comparePassword func(plain, hash string) bool
}

// NewService constructs a new [Service] with its dependencies.
func NewService(repository UserRepository, tokens *sec.TokenService, notifier mailer.Notifier, images ImageStore, options Options) *Service {
	return &Service{
		repository: repository,
		tokens:     tokens,
		notifier:   notifier,
		images:     images,
		options:    options,
		now:        time.Now,

		comparePassword: sec.CheckPasswordHash,
	}
}

// WithClock replaces the time source. Used by tests.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// WithPasswordComparer replaces the password comparison. Used by tests.
func (service *Service) WithPasswordComparer(compare func(plain, hash string) bool) *Service {
	service.comparePassword = compare
	return service
}

// # Registration Flow

// SignupInput holds the data required to create a staff account.
type SignupInput struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

/*
Signup creates an inactive staff account and emails its activation link.

Description: The raw verification token only ever leaves the process inside
the email. When the email cannot be dispatched the account is removed again,
so the address stays free for a retry.

Parameters:
  - ctx: context.Context
  - input: SignupInput

Returns:
  - *User: The created, still inactive, account
  - error: validation, duplicate email, or a 500 when the email failed
*/
func (service *Service) Signup(ctx context.Context, input SignupInput) (*User, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = normalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldFullName, input.FullName).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email)
	checkPassword(validator, input.Password, input.PasswordConfirm)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	passwordHash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_hash_password_failed: %w", err)
	}

	rawToken, err := sec.GenerateSecureToken(constants.SecureTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("auth_generate_token_failed: %w", err)
	}

	now := service.now()
	user := &User{
		ID:           uuid.New(),
		FullName:     input.FullName,
		Email:        input.Email,
		Avatar:       service.options.DefaultAvatar,
		Role:         sec.RoleStaff,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	verification := Credentials{
		Hash:    sec.HashToken(rawToken),
		Expires: now.Add(service.options.VerificationTTL),
	}
	if err := service.repository.Insert(ctx, user, verification); err != nil {
		return nil, err
	}

	link := service.options.AppURL + verifyEmailPath + rawToken
	message := mailer.Welcome(user.Email, user.FullName, link, service.options.VerificationTTL)

	if err := service.notifier.Send(ctx, message); err != nil {
		logger := ctxutil.GetLogger(ctx)
		logger.WarnContext(ctx, "signup_mail_failed", slog.String("user_id", user.ID), slog.Any("error", err))

		if removeErr := service.repository.Remove(ctx, user.ID); removeErr != nil {
			logger.ErrorContext(ctx, "signup_rollback_failed", slog.String("user_id", user.ID), slog.Any("error", removeErr))
		}
		return nil, apperr.InternalMessage(MessageSignupMailFailed, err)
	}

	return user, nil
}

// VerifyEmail activates the account holding an unexpired verification token
// and signs it in.
func (service *Service) VerifyEmail(ctx context.Context, rawToken string) (*Session, error) {
	user, err := service.repository.FindByVerificationToken(ctx, sec.HashToken(rawToken), service.now())
	if dberr.IsNotFound(err) {
		return nil, apperr.BadRequest(MessageVerificationFailed)
	}
	if err != nil {
		return nil, err
	}

	activated, err := service.repository.Activate(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return service.issueSession(ctx, activated)
}

// # Sessions

/*
Login authenticates an active account by email and password.

Description: An unknown email and a wrong password produce the same 401 so
the response never reveals which addresses hold an account.

Returns:
  - *Session: The issued token and the signed-in user
  - error: 400 on missing fields, 401 on bad credentials
*/
func (service *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.BadRequest(MessageMissingCredentials)
	}

	user, err := service.repository.FindByEmail(ctx, email)
	if dberr.IsNotFound(err) {
		// Same bcrypt work as a wrong password, so response time does not
		// reveal which addresses hold an account.
		service.comparePassword(password, sec.PlaceholderHash())
		return nil, apperr.Unauthorized(MessageWrongCredentials)
	}
	if err != nil {
		return nil, err
	}

	if !service.comparePassword(password, user.PasswordHash) {
		return nil, apperr.Unauthorized(MessageWrongCredentials)
	}

	return service.issueSession(ctx, user)
}

/*
Resolve turns a session token into the caller identity.

Description: Implements the session resolver of the protect guard. The
account is reloaded on every request, so deactivated accounts and sessions
issued before a password change are refused immediately.

Returns:
  - *sec.Identity: The user ID and role
  - error: a 401 [apperr.AppError] describing why the session is refused
*/
func (service *Service) Resolve(ctx context.Context, token string) (*sec.Identity, error) {
	verification := service.tokens.Verify(token)
	switch verification.Status {
	case sec.TokenExpired:
		return nil, apperr.Unauthorized(MessageTokenExpired)
	case sec.TokenInvalid:
		return nil, apperr.Unauthorized(MessageTokenInvalid)
	}

	user, err := service.repository.FindByID(ctx, verification.Claims.UserID)
	if dberr.IsNotFound(err) {
		return nil, apperr.Unauthorized(MessageUserGone)
	}
	if err != nil {
		return nil, err
	}

	if changedAfter(user, verification.Claims.IssuedAtTime()) {
		return nil, apperr.Unauthorized(MessagePasswordChanged)
	}

	return &sec.Identity{UserID: user.ID, Role: user.Role}, nil
}

// issueSession signs a token for user and records the sign-in.
func (service *Service) issueSession(ctx context.Context, user *User) (*Session, error) {
	token, err := service.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_issue_token_failed: %w", err)
	}

	now := service.now()
	if err := service.repository.TouchSignIn(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastSignIn = &now

	return &Session{Token: token, User: user}, nil
}

// # Password Recovery

// ForgotPassword emails a short-lived reset link to an active account.
func (service *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := service.repository.FindByEmail(ctx, normalizeEmail(email))
	if dberr.IsNotFound(err) {
		return apperr.NotFound(MessageNoActiveUser)
	}
	if err != nil {
		return err
	}

	rawToken, err := sec.GenerateSecureToken(constants.SecureTokenBytes)
	if err != nil {
		return fmt.Errorf("auth_generate_token_failed: %w", err)
	}

	reset := &Credentials{
		Hash:    sec.HashToken(rawToken),
		Expires: service.now().Add(service.options.ResetTTL),
	}
	if err := service.repository.SetResetToken(ctx, user.ID, reset); err != nil {
		return err
	}

	link := service.options.AppURL + resetPasswordPath + rawToken
	message := mailer.PasswordReset(user.Email, user.FullName, link, service.options.ResetTTL)

	if err := service.notifier.Send(ctx, message); err != nil {
		logger := ctxutil.GetLogger(ctx)
		logger.WarnContext(ctx, "password_reset_mail_failed", slog.String("user_id", user.ID), slog.Any("error", err))

		if clearErr := service.repository.SetResetToken(ctx, user.ID, nil); clearErr != nil {
			logger.ErrorContext(ctx, "password_reset_rollback_failed", slog.String("user_id", user.ID), slog.Any("error", clearErr))
		}
		return apperr.InternalMessage(MessageResetMailFailed, err)
	}

	return nil
}

// PasswordInput is a new password and its confirmation.
type PasswordInput struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// ResetPassword sets a new password for the account holding an unexpired
// reset token and signs it in.
func (service *Service) ResetPassword(ctx context.Context, rawToken string, input PasswordInput) (*Session, error) {
	user, err := service.repository.FindByResetToken(ctx, sec.HashToken(rawToken), service.now())
	if dberr.IsNotFound(err) {
		return nil, apperr.BadRequest(MessageResetInvalid)
	}
	if err != nil {
		return nil, err
	}

	return service.changePassword(ctx, user, input)
}

// UpdateMyPassword replaces the password of a signed-in user after checking
// the current one.
func (service *Service) UpdateMyPassword(ctx context.Context, userID, currentPassword string, input PasswordInput) (*Session, error) {
	user, err := service.repository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !service.comparePassword(currentPassword, user.PasswordHash) {
		return nil, apperr.Unauthorized(MessageWrongCurrentPass)
	}

	return service.changePassword(ctx, user, input)
}

func (service *Service) changePassword(ctx context.Context, user *User, input PasswordInput) (*Session, error) {
	validator := &validate.Validator{}
	checkPassword(validator, input.Password, input.PasswordConfirm)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	passwordHash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_hash_password_failed: %w", err)
	}

	// Backdated so a token issued in the same second stays valid.
	changedAt := service.now().Add(-time.Second)
	if err := service.repository.UpdatePassword(ctx, user.ID, passwordHash, changedAt); err != nil {
		return nil, err
	}
	user.PasswordHash = passwordHash
	user.PasswordChangedAt = &changedAt

	return service.issueSession(ctx, user)
}

// # Profile

// Me returns the signed-in user.
func (service *Service) Me(ctx context.Context, userID string) (*User, error) {
	return service.repository.FindByID(ctx, userID)
}

// UpdateMe changes the profile fields of the signed-in user. A new avatar is
// stored under the user's current full name.
func (service *Service) UpdateMe(ctx context.Context, userID string, values resource.Values, avatar *upload.File) (*User, error) {
	user, err := service.repository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if avatar != nil {
		if values == nil {
			values = resource.Values{}
		}
		url, err := service.images.Save(ctx, constants.BucketAvatars, user.FullName, avatar)
		if err != nil {
			return nil, fmt.Errorf("auth_avatar_upload_failed: %w", err)
		}
		values[FieldAvatar] = url
	}

	if len(values) == 0 {
		return user, nil
	}
	return service.repository.UpdateProfile(ctx, userID, values)
}

// Deactivate soft-deletes an account. It disappears from every lookup and
// its sessions are refused.
func (service *Service) Deactivate(ctx context.Context, userID string) error {
	return service.repository.Deactivate(ctx, userID)
}

// # Helpers

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkPassword(validator *validate.Validator, password, confirm string) {
	validator.Required(FieldPassword, password).
		MinLen(FieldPassword, password, constants.PasswordMinLength).
		Custom(FieldPasswordConfirm, password != confirm, MessagePasswordMismatch)
}

// changedAfter reports whether the password changed after the token was
// issued. Both sides are compared at second precision.
func changedAfter(user *User, issuedAt time.Time) bool {
	if user.PasswordChangedAt == nil {
		return false
	}
	return user.PasswordChangedAt.Unix() > issuedAt.Unix()
}
