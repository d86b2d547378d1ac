package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobportal/internal/models"
	"jobportal/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultSessionTTL = time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload of the session cookie. The session id (jti) must
// also be present in the session store, and subject, user id and role must
// agree with the stored principal, for the token to be accepted.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

// SessionService issues signed session tokens backed by a revocable store.
type SessionService struct {
	store      repository.SessionRepo
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

func NewSessionService(store repository.SessionRepo, secret string, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionService{store: store, signingKey: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *SessionService) TTL() time.Duration { return s.ttl }

// Issue stores a new session for p and returns its signed token.
func (s *SessionService) Issue(ctx context.Context, p models.Principal) (string, *models.Session, error) {
	now := s.now()
	sess := &models.Session{
		ID:        uuid.NewString(),
		Principal: p,
		ExpiresAt: now.Add(s.ttl).Truncate(time.Second),
	}
	if err := s.store.Save(ctx, *sess); err != nil {
		return "", nil, err
	}
	token, err := s.sign(sess, now)
	if err != nil {
		_ = s.store.Delete(ctx, sess.ID)
		return "", nil, err
	}
	return token, sess, nil
}

// Resolve validates the token and returns the live session it refers to.
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.Session, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	sess, err := s.store.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !claims.matches(sess.Principal) {
		return nil, ErrInvalidToken
	}
	return sess, nil
}

func (c *Claims) matches(p models.Principal) bool {
	return c.Subject == p.Username && c.UserID == p.UserID && c.Role == string(p.Role)
}

// Revoke deletes the session; later requests with its token are anonymous.
func (s *SessionService) Revoke(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

func (s *SessionService) sign(sess *models.Session, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   sess.Principal.Username,
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: sess.Principal.UserID,
		Role:   string(sess.Principal.Role),
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (s *SessionService) parse(accessToken string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
