// Package auth provides the credential and session primitives the service
// layer builds on: argon2id password hashing and a signed codec for the
// persisted session value.
//
// WHY ARGON2ID (AND NOT A PLAIN SHA-256 DIGEST)?
// A fast, unsalted digest can be cracked offline with precomputed tables.
// argon2id is salted and memory-hard: every guess costs the attacker real
// memory and time, and identical passwords hash to different strings. The
// caller-facing contract stays the same — hash at registration, verify by
// re-deriving and comparing at login.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrPasswordMismatch is returned by Verify when the password does not match
// the stored hash.
var ErrPasswordMismatch = errors.New("auth: password does not match")

const (
	saltLen = 16
	keyLen  = 32
)

// PasswordService hashes and verifies passwords with argon2id.
//
// It's a struct (not free functions) so the cost parameters can be injected:
// production uses the configured profile, tests use a deliberately tiny one
// to stay fast.
type PasswordService struct {
	time   uint32 // iterations
	memory uint32 // KiB
	par    uint8  // parallelism
}

// NewPasswordService creates a PasswordService with the given argon2id
// parameters (typically from config.KDF).
func NewPasswordService(time, memoryKiB uint32, par uint8) (*PasswordService, error) {
	if time == 0 || memoryKiB == 0 || par == 0 {
		return nil, errors.New("auth: argon2 parameters must be positive")
	}
	return &PasswordService{time: time, memory: memoryKiB, par: par}, nil
}

// NewPasswordServiceForTest returns a PasswordService with minimal cost.
// Do NOT use in production — these parameters are far too weak.
func NewPasswordServiceForTest() *PasswordService {
	return &PasswordService{time: 1, memory: 8, par: 1}
}

// Hash derives an argon2id hash of the plaintext with a fresh random salt.
//
// The output is a self-contained PHC-format string:
//
//	$argon2id$v=19$m=65536,t=3,p=4$<b64 salt>$<b64 hash>
//
// Store it directly; Verify decodes the parameters and salt back out of it,
// so old hashes stay verifiable after the configured cost changes.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("auth: generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, p.time, p.memory, p.par, keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.par,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify re-derives the hash from plaintext using the parameters embedded in
// the stored string and compares in constant time.
//
// Returns nil on a match, ErrPasswordMismatch on a wrong password, and some
// other error if the stored string is malformed.
func (p *PasswordService) Verify(stored, plaintext string) error {
	memory, time, par, salt, key, err := decodeHash(stored)
	if err != nil {
		return err
	}

	derived := argon2.IDKey([]byte(plaintext), salt, time, memory, par, uint32(len(key)))

	if subtle.ConstantTimeCompare(derived, key) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

func decodeHash(stored string) (memory, time uint32, par uint8, salt, key []byte, err error) {
	parts := strings.Split(stored, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, errors.New("auth: stored hash is not argon2id PHC format")
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("auth: parsing hash version: %w", err)
	}
	if version != argon2.Version {
		return 0, 0, 0, nil, nil, fmt.Errorf("auth: unsupported argon2 version %d", version)
	}

	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &par); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("auth: parsing hash parameters: %w", err)
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("auth: decoding salt: %w", err)
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("auth: decoding hash: %w", err)
	}

	return memory, time, par, salt, key, nil
}
