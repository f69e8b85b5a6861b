package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fintrack/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestApp wires the full router against a per-test in-memory sqlite DB.
func setupTestApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("test-secret")
	t.Setenv("UPLOAD_BASE", t.TempDir())

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	var err error
	db, err = gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// sqlite tolerates only one writer; serialize the pool so concurrent
	// handlers do not trip "database is locked"
	sqlDB.SetMaxOpenConns(1)
	migrateAll(db)

	r := gin.New()
	setupRoutes(r)
	return r
}

// performRequest issues a request with an optional bearer token.
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func mustCreateUser(t *testing.T, fullName, email, role string) models.User {
	t.Helper()
	hpw, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := models.User{FullName: fullName, Email: email, Role: role, HashedPassword: hpw}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := issueAccessToken(user, time.Hour)
	require.NoError(t, err)
	return token
}

func seedIncome(t *testing.T, userID uint, source, amount string, date time.Time) models.Income {
	t.Helper()
	income := models.Income{UserID: userID, Source: source, Amount: decimal.RequireFromString(amount), Date: date}
	require.NoError(t, db.Create(&income).Error)
	return income
}

func seedExpense(t *testing.T, userID uint, category, amount string, date time.Time) models.Expense {
	t.Helper()
	expense := models.Expense{UserID: userID, Category: category, Amount: decimal.RequireFromString(amount), Date: date}
	require.NoError(t, db.Create(&expense).Error)
	return expense
}

func daysAgo(now time.Time, days int) time.Time {
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}
