package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/PraiseNight/initializers"
	"github.com/PraiseNight/models"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-key"

var adminColumns = []string{"admin_user_id", "username", "password", "role", "datetime_create"}

// Helper function to generate a signed JWT token
func generateToken(secret string, userID int, expiresIn time.Duration) string {
	claims := jwt.MapClaims{
		"id":  float64(userID),
		"exp": float64(time.Now().Add(expiresIn).Unix()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(secret))
	return tokenString
}

// Setup test database
func setupTestDB(t *testing.T) sqlmock.Sqlmock {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}

	oldDB := initializers.DB
	initializers.DB = goqu.New("postgres", db)

	t.Cleanup(func() {
		db.Close()
		initializers.DB = oldDB
	})
	return mock
}

// Setup test Gin context
func setupTestContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", target, nil)
	return c, w
}

func TestCheckAuth(t *testing.T) {
	t.Setenv("SECRET", testSecret)

	tests := []struct {
		name           string
		target         string
		authHeader     string
		lookupRole     string
		lookupMissing  bool
		expectedStatus int
		expectAbort    bool
		expectAdmin    bool
	}{
		{
			name:           "missing authorization header",
			target:         "/pages",
			expectedStatus: http.StatusUnauthorized,
			expectAbort:    true,
		},
		{
			name:           "invalid token format - no Bearer prefix",
			target:         "/pages",
			authHeader:     "InvalidToken123",
			expectedStatus: http.StatusUnauthorized,
			expectAbort:    true,
		},
		{
			name:           "invalid token format - wrong prefix",
			target:         "/pages",
			authHeader:     "Basic " + generateToken(testSecret, 1, time.Hour),
			expectedStatus: http.StatusUnauthorized,
			expectAbort:    true,
		},
		{
			name:           "invalid JWT signature",
			target:         "/pages",
			authHeader:     "Bearer " + generateToken("wrong-secret-key", 1, time.Hour),
			expectedStatus: http.StatusUnauthorized,
			expectAbort:    true,
		},
		{
			name:           "expired token",
			target:         "/pages",
			authHeader:     "Bearer " + generateToken(testSecret, 1, -time.Hour),
			expectedStatus: http.StatusUnauthorized,
			expectAbort:    true,
		},
		{
			name:           "valid token - account removed",
			target:         "/pages",
			authHeader:     "Bearer " + generateToken(testSecret, 9, time.Hour),
			lookupMissing:  true,
			expectedStatus: http.StatusUnauthorized,
			expectAbort:    true,
		},
		{
			name:        "valid token - member",
			target:      "/pages",
			authHeader:  "Bearer " + generateToken(testSecret, 1, time.Hour),
			lookupRole:  models.RoleMember,
			expectAdmin: false,
		},
		{
			name:        "valid token - admin",
			target:      "/pages",
			authHeader:  "Bearer " + generateToken(testSecret, 1, time.Hour),
			lookupRole:  models.RoleAdmin,
			expectAdmin: true,
		},
		{
			name:        "token in query for event streams",
			target:      "/realtime/songs?access_token=" + generateToken(testSecret, 1, time.Hour),
			lookupRole:  models.RoleAdmin,
			expectAdmin: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := setupTestDB(t)

			if tt.lookupMissing {
				mock.ExpectQuery(`SELECT .* FROM "admin_user"`).WillReturnRows(sqlmock.NewRows(adminColumns))
			} else if tt.lookupRole != "" {
				mock.ExpectQuery(`SELECT .* FROM "admin_user"`).WillReturnRows(
					sqlmock.NewRows(adminColumns).AddRow(1, "director", "hash", tt.lookupRole, time.Now()))
			}

			c, w := setupTestContext(tt.target)
			if tt.authHeader != "" {
				c.Request.Header.Set("Authorization", tt.authHeader)
			}

			CheckAuth(c)

			if tt.expectAbort {
				assert.True(t, c.IsAborted(), "Expected request to be aborted")
				assert.Equal(t, tt.expectedStatus, w.Code)
				_, exists := c.Get("currentUser")
				assert.False(t, exists)
				return
			}

			assert.False(t, c.IsAborted(), "Expected request not to be aborted")
			user := c.MustGet("currentUser").(models.AdminUser)
			assert.Equal(t, 1, user.Admin_User_ID)
			assert.Equal(t, "director", user.Username)
			assert.Equal(t, tt.expectAdmin, c.GetBool("admin"))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCheckAdmin(t *testing.T) {
	c, w := setupTestContext("/pages")
	c.Set("admin", false)
	CheckAdmin(c)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)

	c, _ = setupTestContext("/pages")
	c.Set("admin", true)
	CheckAdmin(c)
	assert.False(t, c.IsAborted())
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/limited", RateLimitMiddleware(1, 2, func(c *gin.Context) string { return "client-a" }), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/limited", nil))
		codes[i] = w.Code
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
