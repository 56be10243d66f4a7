// Package auth issues and verifies bearer tokens. A token is only honoured
// while it is the one recorded in the whitelist for its user, so revoking
// is a single delete.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hogwarts-artifacts/internal/apperr"
	"hogwarts-artifacts/internal/domain/users"

	"golang.org/x/crypto/bcrypt"
)

type Whitelist interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}

type UserLoader interface {
	LoadByUsername(ctx context.Context, username string) (*users.User, error)
}

type Service struct {
	users     UserLoader
	whitelist Whitelist
	secret    []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewService(loader UserLoader, whitelist Whitelist, secret string, ttl time.Duration) *Service {
	return &Service{
		users:     loader,
		whitelist: whitelist,
		secret:    []byte(secret),
		ttl:       ttl,
		now:       time.Now,
	}
}

func WhitelistKey(userID uint) string {
	return fmt.Sprintf("whitelist:%d", userID)
}

// LoginInfo is what a successful login hands back.
type LoginInfo struct {
	User  *users.User
	Token string
}

// Authenticate checks a username/password pair. Unknown users and wrong
// passwords are indistinguishable to the caller; disabled accounts are not.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*users.User, error) {
	u, err := s.users.LoadByUsername(ctx, username)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.BadCredentials(fmt.Sprintf("username %s is not found.", username))
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, apperr.BadCredentials("Bad credentials")
	}
	if !u.Enabled {
		return nil, apperr.AccountAbnormal("User is disabled")
	}
	return u, nil
}

// LoginInfo issues a fresh token for u, replacing any earlier one.
func (s *Service) LoginInfo(ctx context.Context, u *users.User) (*LoginInfo, error) {
	token, err := s.Issue(ctx, u)
	if err != nil {
		return nil, err
	}
	return &LoginInfo{User: u, Token: token}, nil
}

// Issue signs a token for u and records it in the whitelist for the token
// lifetime.
func (s *Service) Issue(ctx context.Context, u *users.User) (string, error) {
	token, err := sign(s.secret, u.ID, u.Username, u.Authorities(), s.now(), s.ttl)
	if err != nil {
		return "", apperr.Internal("issue token", err)
	}
	if err := s.whitelist.Set(ctx, WhitelistKey(u.ID), token, s.ttl); err != nil {
		return "", apperr.Internal("store token", err)
	}
	return token, nil
}

func (s *Service) Revoke(ctx context.Context, userID uint) error {
	return NewRevoker(s.whitelist).Revoke(ctx, userID)
}

// Revoker deletes whitelist entries without needing the rest of the
// service, so user management can revoke before auth is built.
type Revoker struct {
	whitelist Whitelist
}

func NewRevoker(whitelist Whitelist) Revoker {
	return Revoker{whitelist: whitelist}
}

func (r Revoker) Revoke(ctx context.Context, userID uint) error {
	if err := r.whitelist.Delete(ctx, WhitelistKey(userID)); err != nil {
		return apperr.Internal("revoke token", err)
	}
	return nil
}

// IsValid reports whether token is the current whitelisted token of userID.
func (s *Service) IsValid(ctx context.Context, userID uint, token string) (bool, error) {
	stored, ok, err := s.whitelist.Get(ctx, WhitelistKey(userID))
	if err != nil {
		return false, apperr.Internal("read token whitelist", err)
	}
	return ok && stored == token, nil
}

// Verify checks signature, expiry and whitelist membership and returns the
// caller. A well-formed token that is no longer whitelisted is reported as
// bad credentials.
func (s *Service) Verify(ctx context.Context, token string) (*Principal, error) {
	claims, err := verify(s.secret, token, s.now())
	if err != nil {
		return nil, apperr.InvalidToken(err.Error())
	}
	ok, err := s.IsValid(ctx, claims.UserID, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.BadCredentials("Invalid token")
	}
	return &Principal{
		UserID:      claims.UserID,
		Username:    claims.Subject,
		Authorities: strings.Fields(claims.Authorities),
		Token:       token,
	}, nil
}
