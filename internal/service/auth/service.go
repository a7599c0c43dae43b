package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/courtdesk/courtdesk/internal/domain"
	"github.com/courtdesk/courtdesk/internal/repository/jsonstore"
)

const minPasswordLen = 8

// Notifier sends the emails the auth flows depend on. Unlike booking
// notifications these are not best effort: a signup without a deliverable
// code cannot proceed.
type Notifier interface {
	VerificationOTP(ctx context.Context, to, firstName, otp string) error
	PasswordResetOTP(ctx context.Context, to, firstName, otp string) error
}

type Config struct {
	TokenSecret []byte
	// TokenTTL of zero issues non-expiring tokens.
	TokenTTL time.Duration
	OTPTTL   time.Duration
}

type Service struct {
	store  *jsonstore.Store
	notify Notifier
	otps   *otpStore
	cfg    Config
}

func New(store *jsonstore.Store, notify Notifier, cfg Config) *Service {
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 5 * time.Minute
	}
	return &Service{
		store:  store,
		notify: notify,
		otps:   newOTPStore(cfg.OTPTTL),
		cfg:    cfg,
	}
}

// RequestSignupOTP issues a verification code for a new address and mails
// it. The pending code is dropped again if the mail cannot be dispatched.
func (s *Service) RequestSignupOTP(ctx context.Context, emailAddr, firstName string) error {
	const op = "service.auth.RequestSignupOTP"

	emailAddr = normalizeEmail(emailAddr)

	taken := false
	err := s.store.View(ctx, func(doc *jsonstore.Document) error {
		_, taken = doc.UserByEmail(emailAddr)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	if taken {
		return fmt.Errorf("%s:%w", op, ErrEmailExists)
	}

	code, err := s.otps.issue(emailAddr, purposeSignup)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if err := s.notify.VerificationOTP(ctx, emailAddr, firstName, code); err != nil {
		s.otps.drop(emailAddr)
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	OTP       string
}

// Signup verifies the emailed code and creates the account. The email
// uniqueness check is repeated against fresh state at commit time.
func (s *Service) Signup(ctx context.Context, in SignupInput) (domain.User, error) {
	const op = "service.auth.Signup"

	in.Email = normalizeEmail(in.Email)

	if len(in.Password) < minPasswordLen {
		return domain.User{}, fmt.Errorf("%s:%w", op, ErrWeakPassword)
	}

	if err := s.otps.verify(in.Email, in.OTP, purposeSignup); err != nil {
		return domain.User{}, fmt.Errorf("%s:%w", op, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("%s:%w", op, err)
	}

	user := domain.User{
		ID:        uuid.New().String(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Password:  string(hash),
		Role:      domain.RoleUser,
	}

	err = s.store.Update(ctx, func(doc *jsonstore.Document, after func(jsonstore.AfterSave)) error {
		if _, ok := doc.UserByEmail(in.Email); ok {
			return ErrEmailExists
		}
		doc.Users = append(doc.Users, user)
		return nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("%s:%w", op, err)
	}

	return user, nil
}

// Login resolves credentials to a user and a signed session token. Unknown
// address and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (domain.User, string, error) {
	const op = "service.auth.Login"

	emailAddr = normalizeEmail(emailAddr)

	var user domain.User
	found := false

	err := s.store.View(ctx, func(doc *jsonstore.Document) error {
		if u, ok := doc.UserByEmail(emailAddr); ok {
			user = *u
			found = true
		}
		return nil
	})
	if err != nil {
		return domain.User{}, "", fmt.Errorf("%s:%w", op, err)
	}

	if !found || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return domain.User{}, "", fmt.Errorf("%s:%w", op, ErrInvalidCredentials)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("%s:%w", op, err)
	}

	return user, token, nil
}

// RequestPasswordResetOTP mails a reset code to an existing account.
func (s *Service) RequestPasswordResetOTP(ctx context.Context, emailAddr string) error {
	const op = "service.auth.RequestPasswordResetOTP"

	emailAddr = normalizeEmail(emailAddr)

	var firstName string
	found := false

	err := s.store.View(ctx, func(doc *jsonstore.Document) error {
		if u, ok := doc.UserByEmail(emailAddr); ok {
			firstName = u.FirstName
			found = true
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	if !found {
		return fmt.Errorf("%s:%w", op, ErrUserNotFound)
	}

	code, err := s.otps.issue(emailAddr, purposeReset)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if err := s.notify.PasswordResetOTP(ctx, emailAddr, firstName, code); err != nil {
		s.otps.drop(emailAddr)
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// ResetPassword verifies the reset code and replaces the stored hash.
func (s *Service) ResetPassword(ctx context.Context, emailAddr, otp, newPassword string) error {
	const op = "service.auth.ResetPassword"

	emailAddr = normalizeEmail(emailAddr)

	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("%s:%w", op, ErrWeakPassword)
	}

	if err := s.otps.verify(emailAddr, otp, purposeReset); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	err = s.store.Update(ctx, func(doc *jsonstore.Document, after func(jsonstore.AfterSave)) error {
		u, ok := doc.UserByEmail(emailAddr)
		if !ok {
			return ErrUserNotFound
		}
		u.Password = string(hash)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

type ProfileUpdate struct {
	FirstName string
	LastName  string
	Phone     string
}

// UpdateProfile overwrites the mutable profile fields of a user.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (domain.User, error) {
	const op = "service.auth.UpdateProfile"

	var updated domain.User

	err := s.store.Update(ctx, func(doc *jsonstore.Document, after func(jsonstore.AfterSave)) error {
		u, ok := doc.UserByID(userID)
		if !ok {
			return ErrUserNotFound
		}
		u.FirstName = upd.FirstName
		u.LastName = upd.LastName
		u.Phone = upd.Phone
		updated = *u
		return nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("%s:%w", op, err)
	}

	return updated, nil
}

// GetUser loads a user by id.
func (s *Service) GetUser(ctx context.Context, userID string) (domain.User, error) {
	const op = "service.auth.GetUser"

	var user domain.User
	found := false

	err := s.store.View(ctx, func(doc *jsonstore.Document) error {
		if u, ok := doc.UserByID(userID); ok {
			user = *u
			found = true
		}
		return nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("%s:%w", op, err)
	}
	if !found {
		return domain.User{}, fmt.Errorf("%s:%w", op, ErrUserNotFound)
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
