package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Credentials はBasic認証の資格情報
type Credentials struct {
	User     string
	Password string
}

// IsEnabled は認証が有効かどうかを返す
func (c Credentials) IsEnabled() bool {
	return c.User != "" && c.Password != ""
}

// BasicAuth は管理者APIと /metrics 用の Basic 認証ミドルウェア。
// 資格情報が未設定の場合は認証をスキップする（ローカル開発用）
func BasicAuth(creds Credentials) echo.MiddlewareFunc {
	if !creds.IsEnabled() {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return middleware.BasicAuth(func(username, password string, c echo.Context) (bool, error) {
		userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(creds.User)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(creds.Password)) == 1
		return userMatch && passMatch, nil
	})
}
