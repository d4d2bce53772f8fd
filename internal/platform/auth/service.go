package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"CHORUS-backend/internal/platform/apierr"
	"CHORUS-backend/internal/platform/clock"
)

const minPasswordLen = 8

var errAuthFailed = apierr.ErrUnauthorized("invalid id or password")

// Claims: sub = アカウント ID
type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	store  AccountStore
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
	log    *zap.Logger
}

func NewService(store AccountStore, secret []byte, ttl time.Duration, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{store: store, secret: secret, ttl: ttl, clock: clock.Real(), log: log}
}

func (s *Service) WithClock(c clock.Clock) *Service {
	s.clock = c
	return s
}

func (s *Service) Login(ctx context.Context, id, password string) (string, error) {
	acct, err := s.store.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if acct == nil {
		return "", errAuthFailed
	}
	if acct.IsDisabled {
		return "", apierr.ErrUnauthorized("account disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", errAuthFailed
	}

	now := s.clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: acct.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acct.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	s.log.Info("login", zap.String("account", acct.ID), zap.String("role", string(acct.Role)))
	return signed, nil
}

// Parse: 署名・期限を検証して Claims を返す
func (s *Service) Parse(tokenStr string) (*Claims, error) {
	return parseToken(tokenStr, s.secret, s.clock)
}

func parseToken(tokenStr string, secret []byte, c clock.Clock) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.Now))
	if err != nil || !token.Valid {
		return nil, apierr.ErrUnauthorized("invalid token")
	}
	if claims.Subject == "" {
		return nil, apierr.ErrUnauthorized("missing sub")
	}
	return &claims, nil
}

func (s *Service) Register(ctx context.Context, id, password string, role Role) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apierr.ErrInvalid("id is required")
	}
	if len(password) < minPasswordLen {
		return apierr.Invalidf("password must be at least %d characters", minPasswordLen)
	}
	if role == "" {
		role = RoleViewer
	}
	if !role.Valid() {
		return apierr.Invalidf("unknown role %q", role)
	}

	exists, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if exists != nil {
		return apierr.ErrConflict("id already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	err = s.store.Create(ctx, &Account{
		ID:           id,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.clock.Now().UTC(),
	})
	if err != nil {
		return apierr.FromDuplicate(err, "id already exists")
	}
	s.log.Info("account registered", zap.String("account", id), zap.String("role", string(role)))
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apierr.ErrNotFound("account not found")
	}
	return nil
}

func (s *Service) SetDisabled(ctx context.Context, id string, disabled bool) error {
	n, err := s.store.SetDisabled(ctx, id, disabled)
	if err != nil {
		return err
	}
	if n == 0 {
		return apierr.ErrNotFound("account not found")
	}
	return nil
}
