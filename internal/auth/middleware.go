package auth

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie carrying the session token, shared by the
// HTTP surface and the websocket handshake.
const CookieName = "auth_token"

const tokenTTL = 24 * time.Hour

var ErrSecretNotSet = errors.New("JWT_SECRET is not set")

func getSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// Fail closed: an unset secret must never verify anything.
		return nil, ErrSecretNotSet
	}
	return []byte(secret), nil
}

type AuthMiddleware struct {
}

func NewAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{}
}

func GenerateToken(userID string, username string) (string, error) {
	secret, err := getSecret()
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"exp":      time.Now().Add(tokenTTL).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken verifies the signature and expiry of a token and
// returns its claims. Verification has no side effects and no retry: a
// failure is terminal for the presented credential.
func ValidateToken(tokenString string) (jwt.MapClaims, error) {
	secret, err := getSecret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}

// Identity extracts the stable user identifier and username from
// verified claims.
func Identity(claims jwt.MapClaims) (userID, username string, err error) {
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", jwt.ErrTokenInvalidClaims
	}
	username, _ = claims["username"].(string)
	return userID, username, nil
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)

		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token cookie is missing"})
			c.Abort()
			return
		}

		claims, err := ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		userID, username, err := Identity(claims)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("username", username)

		c.Next()
	}
}
