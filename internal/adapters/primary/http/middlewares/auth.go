package middlewares

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// UserIDKey ключ gin.Context с id пользователя из токена
const UserIDKey = "user_id"

type AuthConfig struct {
	SecretKey string `envconfig:"SECRET_KEY" required:"true"`
	Issuer    string `envconfig:"ISSUER"`
}

// TokenParser проверяет bearer-токен и возвращает его claims
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.RegisteredClaims, error)
}

// JWTParser HS256-токены, выпущенные сервисом авторизации
type JWTParser struct {
	secretKey []byte
	issuer    string
}

func NewJWTParser(cfg *AuthConfig) *JWTParser {
	return &JWTParser{secretKey: []byte(cfg.SecretKey), issuer: cfg.Issuer}
}

func (p *JWTParser) ParseToken(tokenStr string) (*jwt.RegisteredClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(_ *jwt.Token) (any, error) {
		return p.secretKey, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, errors.New("parse token: invalid token")
	}
	return claims, nil
}

// Auth требует заголовок Authorization: Bearer <token> с непустым sub
func Auth(parser TokenParser, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenStr) == "" {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := parser.ParseToken(strings.TrimSpace(tokenStr))
		if err != nil {
			log.Debug("token rejected", "error", err, "path", c.Request.URL.Path)
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		if claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token payload"})
			return
		}

		c.Set(UserIDKey, claims.Subject)
		c.Next()
	}
}

// UserID id пользователя, положенный Auth
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
