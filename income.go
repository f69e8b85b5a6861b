package main

import (
	"net/http"

	"fintrack/apperrors"
	"fintrack/models"
	"fintrack/pkg/export"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type transactionRequest struct {
	Icon     string          `json:"icon"`
	Source   string          `json:"source"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
}

func createIncomeHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation(err.Error()))
		return
	}
	if req.Source == "" || req.Amount.IsZero() || req.Date == "" {
		fail(c, apperrors.Validation("source, amount and date are required"))
		return
	}
	if !req.Amount.IsPositive() {
		fail(c, apperrors.Validation("amount must be positive"))
		return
	}
	date, err := parseTransactionDate(req.Date)
	if err != nil {
		fail(c, apperrors.Validation("date must be RFC3339 or YYYY-MM-DD"))
		return
	}
	income := models.Income{
		UserID: user.ID,
		Source: req.Source,
		Icon:   req.Icon,
		Amount: req.Amount,
		Date:   date,
	}
	if err := db.Create(&income).Error; err != nil {
		fail(c, apperrors.Storage(err))
		return
	}
	c.JSON(http.StatusOK, income)
}

func listIncomeHandler(c *gin.Context) {
	user, _ := currentUser(c)
	scope := requestScope(c)

	var items []models.Income
	q := scope.apply(db.Model(&models.Income{})).Order("date DESC")
	if scope.All {
		q = q.Preload("User") // owner columns for the admin view
	}
	if err := q.Find(&items).Error; err != nil {
		fail(c, apperrors.Storage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"income":     items,
		"userRole":   user.Role,
		"totalCount": len(items),
	})
}

func deleteIncomeHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var income models.Income
	if err := db.First(&income, "id = ?", c.Param("id")).Error; err != nil {
		fail(c, apperrors.NotFound("income not found"))
		return
	}
	if !user.IsAdmin() && income.UserID != user.ID {
		fail(c, apperrors.Forbidden("not authorized to delete this income"))
		return
	}
	if err := db.Delete(&income).Error; err != nil {
		fail(c, apperrors.Storage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "income deleted successfully"})
}

func downloadIncomeHandler(c *gin.Context) {
	scope := requestScope(c)

	var items []models.Income
	q := scope.apply(db.Model(&models.Income{})).Order("date DESC")
	if scope.All {
		q = q.Preload("User")
	}
	if err := q.Find(&items).Error; err != nil {
		fail(c, apperrors.Storage(err))
		return
	}

	rows := make([]export.Row, 0, len(items))
	for _, item := range items {
		row := export.Row{Label: item.Source, Amount: item.Amount, Date: item.Date}
		if item.User != nil {
			row.OwnerName = item.User.FullName
			row.OwnerEmail = item.User.Email
		}
		rows = append(rows, row)
	}
	filename := "income_data.xlsx"
	if scope.All {
		filename = "all_users_income_data.xlsx"
	}
	data, err := export.WorkbookBytes("Income", "Source", rows, scope.All)
	if err != nil {
		fail(c, apperrors.Storage(err))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, export.ContentType, data)
}
