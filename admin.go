package main

import (
	"net/http"
	"strconv"
	"time"

	"fintrack/apperrors"
	"fintrack/logging"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// adminListUsersHandler returns every regular-role account, newest first.
func adminListUsersHandler(c *gin.Context) {
	users := []models.User{}
	if err := db.Where("role = ?", models.RoleUser).
		Order("created_at DESC").Find(&users).Error; err != nil {
		fail(c, apperrors.Storage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users":      users,
		"totalCount": len(users),
	})
}

// adminStatsHandler reports all-time totals plus the current calendar month.
func adminStatsHandler(c *gin.Context) {
	all := Scope{All: true}
	totalIncome, err := sumAmount(&models.Income{}, all)
	if err != nil {
		fail(c, apperrors.Storage(err))
		return
	}
	totalExpenses, err := sumAmount(&models.Expense{}, all)
	if err != nil {
		fail(c, apperrors.Storage(err))
		return
	}
	var totalUsers int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleUser).
		Count(&totalUsers).Error; err != nil {
		fail(c, apperrors.Storage(err))
		return
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthlyIncome, err := sumAmountSince(&models.Income{}, monthStart)
	if err != nil {
		fail(c, apperrors.Storage(err))
		return
	}
	monthlyExpenses, err := sumAmountSince(&models.Expense{}, monthStart)
	if err != nil {
		fail(c, apperrors.Storage(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalUsers":      totalUsers,
		"totalIncome":     totalIncome,
		"totalExpenses":   totalExpenses,
		"totalBalance":    totalIncome.Sub(totalExpenses),
		"monthlyIncome":   monthlyIncome,
		"monthlyExpenses": monthlyExpenses,
	})
}

// sumAmountSince totals amounts with date on or after since, across all users.
func sumAmountSince(model any, since time.Time) (decimal.Decimal, error) {
	var raw decimal.NullDecimal
	if err := db.Model(model).Where("date >= ?", since).
		Select("SUM(amount)").Scan(&raw).Error; err != nil {
		return decimal.Zero, err
	}
	if !raw.Valid {
		return decimal.Zero, nil
	}
	return raw.Decimal, nil
}

// adminRemoveUserHandler deletes a regular account and bulk-deletes its
// transactions concurrently. The cascade is not transactional: if a bulk
// delete fails after the user row is gone, orphaned transactions remain and
// are reported, to be swept by process/cmd_reconcile.
func adminRemoveUserHandler(c *gin.Context) {
	actor, _ := currentUser(c)
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, apperrors.Validation("invalid user id"))
		return
	}
	if uint(targetID) == actor.ID {
		fail(c, apperrors.InvalidOperation("cannot delete your own account"))
		return
	}
	var target models.User
	if err := db.First(&target, uint(targetID)).Error; err != nil {
		fail(c, apperrors.NotFound("user not found"))
		return
	}
	if target.IsAdmin() {
		fail(c, apperrors.InvalidOperation("cannot delete admin users"))
		return
	}
	if err := db.Delete(&target).Error; err != nil {
		fail(c, apperrors.Storage(err))
		return
	}

	var g errgroup.Group
	g.Go(func() error {
		return db.Where("user_id = ?", target.ID).Delete(&models.Income{}).Error
	})
	g.Go(func() error {
		return db.Where("user_id = ?", target.ID).Delete(&models.Expense{}).Error
	})
	if err := g.Wait(); err != nil {
		logging.L().Errorf("cascade delete for user %d left orphaned records: %v", target.ID, err)
		fail(c, apperrors.Storage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user and associated data deleted successfully"})
}
