package auth

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func TestMain(m *testing.M) {
	// Set test secret for JWT tokens
	os.Setenv("JWT_SECRET", "test-secret-key-for-testing")
	gin.SetMode(gin.TestMode)

	code := m.Run()

	// Clean up
	os.Unsetenv("JWT_SECRET")
	os.Exit(code)
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken("user123", "testuser")
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}
	if token == "" {
		t.Fatalf("GenerateToken() returned empty token")
	}

	// Verify token can be parsed with the test secret
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		return []byte("test-secret-key-for-testing"), nil
	})
	if err != nil {
		t.Fatalf("Generated token cannot be parsed: %v", err)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		t.Fatalf("Generated token has invalid claims")
	}

	if claims["user_id"] != "user123" {
		t.Errorf("Expected user_id 'user123', got '%v'", claims["user_id"])
	}
	if claims["username"] != "testuser" {
		t.Errorf("Expected username 'testuser', got '%v'", claims["username"])
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatalf("Expected exp claim to be set")
	}
	if time.Unix(int64(exp), 0).Before(time.Now()) {
		t.Errorf("Token expired immediately after generation")
	}
}

func TestValidateToken(t *testing.T) {
	validToken, err := GenerateToken("user123", "testuser")
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}

	// Token signed with a different secret
	wrongKeyToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user123",
		"username": "testuser",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	wrongKeyString, err := wrongKeyToken.SignedString([]byte("some-other-secret"))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	// Expired token signed with the right secret
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user123",
		"username": "testuser",
		"exp":      time.Now().Add(-time.Hour).Unix(),
	})
	expiredString, err := expiredToken.SignedString([]byte("test-secret-key-for-testing"))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	// Unsigned token
	noneToken := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": "user123",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	noneString, err := noneToken.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	tests := []struct {
		name        string
		token       string
		expectError bool
	}{
		{
			name:  "valid token",
			token: validToken,
		},
		{
			name:        "wrong signing key",
			token:       wrongKeyString,
			expectError: true,
		},
		{
			name:        "expired token",
			token:       expiredString,
			expectError: true,
		},
		{
			name:        "none algorithm rejected",
			token:       noneString,
			expectError: true,
		},
		{
			name:        "garbage token",
			token:       "not.a.token",
			expectError: true,
		},
		{
			name:        "empty token",
			token:       "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}

			userID, username, err := Identity(claims)
			if err != nil {
				t.Errorf("Identity() unexpected error: %v", err)
			}
			if userID != "user123" {
				t.Errorf("Expected user_id 'user123', got '%s'", userID)
			}
			if username != "testuser" {
				t.Errorf("Expected username 'testuser', got '%s'", username)
			}
		})
	}
}

func TestValidateTokenFailsClosedWithoutSecret(t *testing.T) {
	token, err := GenerateToken("user123", "testuser")
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}

	os.Unsetenv("JWT_SECRET")
	defer os.Setenv("JWT_SECRET", "test-secret-key-for-testing")

	if _, err := ValidateToken(token); err != ErrSecretNotSet {
		t.Errorf("Expected ErrSecretNotSet, got %v", err)
	}
	if _, err := GenerateToken("user123", "testuser"); err != ErrSecretNotSet {
		t.Errorf("Expected ErrSecretNotSet, got %v", err)
	}
}

func TestRequireAuth(t *testing.T) {
	validToken, err := GenerateToken("user123", "testuser")
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}

	tests := []struct {
		name       string
		cookie     string
		wantStatus int
	}{
		{
			name:       "valid cookie",
			cookie:     validToken,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing cookie",
			cookie:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid cookie",
			cookie:     "not-a-token",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(NewAuthMiddleware().RequireAuth())
			router.GET("/protected", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{
					"user_id":  c.GetString("user_id"),
					"username": c.GetString("username"),
				})
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}
