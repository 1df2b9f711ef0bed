// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidSession  = errors.New("invalid session")
	ErrUserNotFound    = errors.New("user not found")
	// ErrPasswordTooLong is returned for passwords bcrypt cannot hash
	ErrPasswordTooLong = bcrypt.ErrPasswordTooLong
)

// MaxPasswordBytes is the longest password bcrypt accepts
const MaxPasswordBytes = 72

// HashPassword hashes plaintext using bcrypt (salted, one-way).
func HashPassword(plain string) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NewSessionToken creates a random opaque session identifier
func NewSessionToken() string {
	return uuid.NewString()
}

// SignToken appends an HMAC of token so the cookie cannot be forged
// without the server secret
func SignToken(token, secret string) string {
	return token + "." + signature(token, secret)
}

// VerifyToken checks a signed cookie value and returns the bare token
func VerifyToken(value, secret string) (string, error) {
	i := strings.LastIndexByte(value, '.')
	if i <= 0 || i == len(value)-1 {
		return "", ErrInvalidSession
	}
	token, sig := value[:i], value[i+1:]

	expected := signature(token, secret)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", ErrInvalidSession
	}
	return token, nil
}

func signature(token, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(token))
	sum := h.Sum(nil)
	// URL-safe base64 without padding keeps the cookie value clean
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}
