package main

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"fintrack/apperrors"
	"fintrack/models"
	"fintrack/pkg/export"
	"fintrack/pkg/ocr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func createExpenseHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation(err.Error()))
		return
	}
	if req.Category == "" || req.Amount.IsZero() || req.Date == "" {
		fail(c, apperrors.Validation("category, amount and date are required"))
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
	expense := models.Expense{
		UserID:   user.ID,
		Category: req.Category,
		Icon:     req.Icon,
		Amount:   req.Amount,
		Date:     date,
	}
	if err := db.Create(&expense).Error; err != nil {
		fail(c, apperrors.Storage(err))
		return
	}
	c.JSON(http.StatusOK, expense)
}

func listExpenseHandler(c *gin.Context) {
	user, _ := currentUser(c)
	scope := requestScope(c)

	var items []models.Expense
	q := scope.apply(db.Model(&models.Expense{})).Order("date DESC")
	if scope.All {
		q = q.Preload("User") // owner columns for the admin view
	}
	if err := q.Find(&items).Error; err != nil {
		fail(c, apperrors.Storage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"expenses":   items,
		"userRole":   user.Role,
		"totalCount": len(items),
	})
}

func deleteExpenseHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var expense models.Expense
	if err := db.First(&expense, "id = ?", c.Param("id")).Error; err != nil {
		fail(c, apperrors.NotFound("expense not found"))
		return
	}
	if !user.IsAdmin() && expense.UserID != user.ID {
		fail(c, apperrors.Forbidden("not authorized to delete this expense"))
		return
	}
	if err := db.Delete(&expense).Error; err != nil {
		fail(c, apperrors.Storage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "expense deleted successfully"})
}

func downloadExpenseHandler(c *gin.Context) {
	scope := requestScope(c)

	var items []models.Expense
	q := scope.apply(db.Model(&models.Expense{})).Order("date DESC")
	if scope.All {
		q = q.Preload("User")
	}
	if err := q.Find(&items).Error; err != nil {
		fail(c, apperrors.Storage(err))
		return
	}

	rows := make([]export.Row, 0, len(items))
	for _, item := range items {
		row := export.Row{Label: item.Category, Amount: item.Amount, Date: item.Date}
		if item.User != nil {
			row.OwnerName = item.User.FullName
			row.OwnerEmail = item.User.Email
		}
		rows = append(rows, row)
	}
	filename := "expense_data.xlsx"
	if scope.All {
		filename = "all_users_expense_data.xlsx"
	}
	data, err := export.WorkbookBytes("Expenses", "Category", rows, scope.All)
	if err != nil {
		fail(c, apperrors.Storage(err))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, export.ContentType, data)
}

// attachReceiptHandler stores a receipt image against an owned expense and
// answers with an OCR amount suggestion. The stored amount is never changed
// here; the suggestion is advisory.
func attachReceiptHandler(c *gin.Context) {
	user, _ := currentUser(c)
	var expense models.Expense
	if err := db.First(&expense, "id = ?", c.Param("id")).Error; err != nil {
		fail(c, apperrors.NotFound("expense not found"))
		return
	}
	if !user.IsAdmin() && expense.UserID != user.ID {
		fail(c, apperrors.Forbidden("not authorized to modify this expense"))
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		fail(c, apperrors.Validation("file missing"))
		return
	}
	if file.Size > 5*1024*1024 {
		fail(c, apperrors.Validation("file too large (max 5MB)"))
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := uuid.NewString() + ext
	fullPath := filepath.Join(uploadBaseDir(), "receipts", name)
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		fail(c, apperrors.Storage(err))
		return
	}
	publicURL := "/uploads/receipts/" + name
	if err := db.Model(&models.Expense{}).Where("id = ?", expense.ID).Update("receipt_path", publicURL).Error; err != nil {
		fail(c, apperrors.Storage(err))
		return
	}
	expense.ReceiptPath = publicURL

	resp := gin.H{"expense": expense}
	amount, confidence, matched, err := ocr.SuggestAmount(fullPath)
	switch {
	case err == nil:
		resp["suggestedAmount"] = amount
		resp["confidence"] = confidence
		resp["matched"] = matched
		if !amount.Equal(expense.Amount) {
			resp["amountMismatch"] = true
		}
	case errors.Is(err, ocr.ErrNoAmount):
		// nothing readable on the receipt, still a successful attach
	default:
		logHandlerWarn(c, "receipt ocr failed for expense %d: %v", expense.ID, err)
	}
	c.JSON(http.StatusOK, resp)
}
