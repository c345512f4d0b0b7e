package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/suivi/internal/model"
)

var (
	// ErrInvalidToken はトークンを解析できないことを示す。
	ErrInvalidToken = errors.New("session: invalid access token")
	// ErrTokenExpired はトークンの有効期限切れを示す。
	ErrTokenExpired = errors.New("session: access token expired")
)

// Claims はアクセストークンから読み取る識別用クレーム。
type Claims struct {
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	jwt.RegisteredClaims
}

// UserFromToken はJWTのペイロードから表示用の識別情報を取り出す。
// 署名は検証しない。結果は表示にだけ使い、認可の判断には使わない。
// username と sub のどちらもなければ Username は空のまま返す。
func UserFromToken(token string, now time.Time) (model.User, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(now) {
		return model.User{}, ErrTokenExpired
	}

	username := claims.Username
	if username == "" {
		username = claims.Subject
	}

	return model.User{
		Username:  username,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}, nil
}
