package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type otpPurpose string

const (
	purposeSignup otpPurpose = "signup"
	purposeReset  otpPurpose = "reset"
)

type otpEntry struct {
	hash    []byte
	purpose otpPurpose
	expires time.Time
}

// otpStore keeps pending verification codes in memory, hashed. Codes are
// single-use and expire; a restart simply forces the user to request a new
// one.
type otpStore struct {
	mu      sync.Mutex
	entries map[string]otpEntry
	ttl     time.Duration
	now     func() time.Time
}

func newOTPStore(ttl time.Duration) *otpStore {
	return &otpStore{
		entries: make(map[string]otpEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// issue generates a fresh 6-digit code for email, replacing any previous one.
func (s *otpStore) issue(email string, purpose otpPurpose) (string, error) {
	code, err := generateOTP()
	if err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.entries[email] = otpEntry{hash: hash, purpose: purpose, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()

	return code, nil
}

// verify consumes the pending code for email. A matching code can be used
// exactly once.
func (s *otpStore) verify(email, code string, purpose otpPurpose) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[email]
	if !ok || entry.purpose != purpose {
		return ErrInvalidOTP
	}
	if s.now().After(entry.expires) {
		delete(s.entries, email)
		return ErrOTPExpired
	}
	if bcrypt.CompareHashAndPassword(entry.hash, []byte(code)) != nil {
		return ErrInvalidOTP
	}

	delete(s.entries, email)
	return nil
}

func (s *otpStore) drop(email string) {
	s.mu.Lock()
	delete(s.entries, email)
	s.mu.Unlock()
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
