// Package jwt は HS256 署名のベアラートークンを発行・検証する。
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/sngm3741/pollbox/api/internal/identity/domain"
)

const leeway = 30 * time.Second

// Config は署名鍵と発行者情報。Audience が空なら aud クレームを付与・検証しない。
type Config struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

type claims struct {
	gojwt.RegisteredClaims
	PreferredUsername string `json:"preferred_username,omitempty"`
}

// Issuer implements application.TokenIssuer.
type Issuer struct {
	cfg Config
}

func NewIssuer(cfg Config) (*Issuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("jwt secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &Issuer{cfg: cfg}, nil
}

// Issue は sub に利用者 ID、preferred_username に利用者名を入れたトークンを返す。
func (i *Issuer) Issue(identity domain.Identity, now time.Time) (string, error) {
	c := claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   identity.UserID,
			Issuer:    i.cfg.Issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(i.cfg.TTL)),
		},
		PreferredUsername: identity.UserName,
	}
	if i.cfg.Audience != "" {
		c.Audience = gojwt.ClaimStrings{i.cfg.Audience}
	}
	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, c).SignedString(i.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify は署名・有効期限・Issuer/Audience を確認し、主体を復元する。
// 失敗理由にかかわらず domain.ErrInvalidToken を返す。
func (i *Issuer) Verify(tokenString string) (domain.Identity, error) {
	opts := []gojwt.ParserOption{
		gojwt.WithLeeway(leeway),
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
	}
	if i.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(i.cfg.Issuer))
	}
	if i.cfg.Audience != "" {
		opts = append(opts, gojwt.WithAudience(i.cfg.Audience))
	}

	c := &claims{}
	token, err := gojwt.ParseWithClaims(tokenString, c, func(token *gojwt.Token) (any, error) {
		if token.Method != gojwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return i.cfg.Secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	if c.Subject == "" {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	return domain.Identity{UserID: c.Subject, UserName: c.PreferredUsername}, nil
}
