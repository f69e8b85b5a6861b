package main

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"fintrack/apperrors"
	"fintrack/logging"
	"fintrack/models"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func setupRoutes(r *gin.Engine) {
	r.GET("/ping", pingHandler)
	r.Static("/uploads", uploadBaseDir())

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", registerHandler)
	auth.POST("/login", loginHandler)
	auth.POST("/refresh", refreshHandler)
	auth.POST("/revoke", revokeRefreshHandler)

	protected := v1.Group("")
	protected.Use(jwtAuthMiddleware())
	protected.GET("/auth/me", meHandler)
	protected.POST("/auth/upload-image", uploadProfileImageHandler)

	protected.GET("/dashboard", dashboardHandler)

	protected.POST("/income", createIncomeHandler)
	protected.GET("/income", listIncomeHandler)
	protected.GET("/income/download", downloadIncomeHandler)
	protected.DELETE("/income/:id", deleteIncomeHandler)

	protected.POST("/expense", createExpenseHandler)
	protected.GET("/expense", listExpenseHandler)
	protected.GET("/expense/download", downloadExpenseHandler)
	protected.DELETE("/expense/:id", deleteExpenseHandler)
	protected.POST("/expense/:id/receipt", attachReceiptHandler)

	admin := protected.Group("/admin")
	admin.Use(requireAdmin())
	admin.GET("/users", adminListUsersHandler)
	admin.GET("/stats", adminStatsHandler)
	admin.DELETE("/users/:id", adminRemoveUserHandler)
}

func pingHandler(c *gin.Context) {
	c.String(http.StatusOK, "Server is alive")
}

func registerHandler(c *gin.Context) {
	var req struct {
		FullName string `json:"fullName" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation(err.Error()))
		return
	}
	user, err := RegisterUser(req.FullName, req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user registered successfully", "user": user})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation(err.Error()))
		return
	}
	user, err := Authenticate(req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	tokenString, err := issueAccessToken(user, accessTokenTTL)
	if err != nil {
		fail(c, apperrors.Storage(err))
		return
	}
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		fail(c, apperrors.Storage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "login successful",
		"token":         tokenString,
		"refresh_token": refreshToken,
		"user":          user,
	})
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation(err.Error()))
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		fail(c, apperrors.Unauthenticated("invalid or expired refresh token"))
		return
	}
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil {
		fail(c, apperrors.Unauthenticated("account no longer exists"))
		return
	}
	tokenString, err := issueAccessToken(user, accessTokenTTL)
	if err != nil {
		fail(c, apperrors.Storage(err))
		return
	}
	// rotate: revoke the presented token and hand out a fresh one
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		fail(c, apperrors.Storage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation(err.Error()))
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		fail(c, apperrors.NotFound("refresh token not found"))
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		fail(c, apperrors.Storage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}

func meHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, apperrors.Unauthenticated("not authenticated"))
		return
	}
	c.JSON(http.StatusOK, user)
}

// uploadProfileImageHandler stores a square thumbnail of the posted image and
// records its public URL on the account.
func uploadProfileImageHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, apperrors.Unauthenticated("not authenticated"))
		return
	}
	file, err := c.FormFile("image")
	if err != nil {
		fail(c, apperrors.Validation("image missing"))
		return
	}
	if file.Size > 5*1024*1024 {
		fail(c, apperrors.Validation("file too large (max 5MB)"))
		return
	}
	src, err := file.Open()
	if err != nil {
		fail(c, apperrors.Validation("unreadable upload"))
		return
	}
	defer src.Close()
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		fail(c, apperrors.Validation("unsupported image format"))
		return
	}
	thumb := imaging.Fill(img, 256, 256, imaging.Center, imaging.Lanczos)
	name := uuid.NewString() + ".jpg"
	fullPath := filepath.Join(uploadBaseDir(), "profile", name)
	if err := imaging.Save(thumb, fullPath, imaging.JPEGQuality(90)); err != nil {
		fail(c, apperrors.Storage(err))
		return
	}
	publicURL := "/uploads/profile/" + name
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("profile_image_url", publicURL).Error; err != nil {
		fail(c, apperrors.Storage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"imageUrl": publicURL})
}

// parseTransactionDate accepts RFC3339 or plain YYYY-MM-DD.
func parseTransactionDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

func logHandlerWarn(c *gin.Context, format string, args ...any) {
	logging.L().WithField("path", c.FullPath()).Warnf(format, args...)
}
