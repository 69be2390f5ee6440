package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultIssuer  = "eventsite"
	sessionAud     = "eventsite-admin"
	defaultExpiry  = 24 * time.Hour
	clockTolerance = 30 * time.Second
)

// Claims 会话令牌携带的用户信息
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Session 登录后签发的令牌
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Manager signs and verifies HS256 session tokens for the admin panel.
type Manager struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

func NewManager(secret, issuer string, expiry time.Duration) (*Manager, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if expiry <= 0 {
		expiry = defaultExpiry
	}
	issuer = strings.TrimSpace(issuer)
	if issuer == "" {
		issuer = defaultIssuer
	}
	return &Manager{secret: []byte(secret), issuer: issuer, expiry: expiry, now: time.Now}, nil
}

// IssueSession 为用户签发会话令牌
func (m *Manager) IssueSession(user *entity.DbUser) (Session, error) {
	if user == nil || strings.TrimSpace(user.ID) == "" {
		return Session{}, errors.New("cannot issue a session for a user without id")
	}
	now := m.now().UTC()
	expiresAt := now.Add(m.expiry)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{sessionAud},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: signed, ExpiresAt: expiresAt}, nil
}

// Verify 校验签名、签发方、受众与有效期
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(sessionAud),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockTolerance),
		jwt.WithTimeFunc(m.now),
	)

	var claims Claims
	if _, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}); err != nil {
		return nil, err
	}
	if strings.TrimSpace(claims.UserID) == "" || claims.UserID != claims.Subject {
		return nil, errors.New("token subject mismatch")
	}
	return &claims, nil
}
