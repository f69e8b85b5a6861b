package main

import (
	"net/http"
	"sort"
	"time"

	"fintrack/apperrors"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	recentPerKind   = 5
	leaderboardSize = 5
)

type incomeWindow struct {
	Total        decimal.Decimal `json:"total"`
	Transactions []models.Income `json:"transactions"`
}

type expenseWindow struct {
	Total        decimal.Decimal  `json:"total"`
	Transactions []models.Expense `json:"transactions"`
}

// recentTransaction is one entry of the merged activity feed. Type is exactly
// "income" or "expense"; owner columns are filled on the admin path only.
type recentTransaction struct {
	ID        uint            `json:"id"`
	UserID    uint            `json:"userId"`
	Type      string          `json:"type"`
	Source    string          `json:"source,omitempty"`
	Category  string          `json:"category,omitempty"`
	Icon      string          `json:"icon,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	UserName  string          `json:"userName,omitempty"`
	UserEmail string          `json:"userEmail,omitempty"`
}

// userExpenseRow is one leaderboard entry: a user and their summed expenses.
type userExpenseRow struct {
	UserID           uint            `json:"userId"`
	UserName         string          `json:"userName"`
	UserEmail        string          `json:"userEmail"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	TransactionCount int64           `json:"transactionCount"`
}

// DashboardSnapshot is computed fresh per request; nothing here is persisted
// or cached. Admin-only fields are omitted entirely for user scope.
type DashboardSnapshot struct {
	TotalBalance       decimal.Decimal     `json:"totalBalance"`
	TotalIncome        decimal.Decimal     `json:"totalIncome"`
	TotalExpenses      decimal.Decimal     `json:"totalExpenses"`
	Last30DaysExpenses expenseWindow       `json:"last30DaysExpenses"`
	Last60DaysExpenses expenseWindow       `json:"last60DaysExpenses"`
	Last60DaysIncome   incomeWindow        `json:"last60DaysIncome"`
	RecentTransactions []recentTransaction `json:"recentTransactions"`
	UserRole           string              `json:"userRole"`
	TotalUsers         *int64              `json:"totalUsers,omitempty"`
	UserExpenseSummary []userExpenseRow    `json:"userExpenseSummary,omitempty"`
	ViewType           string              `json:"viewType,omitempty"`
}

// windowStart is now minus n exact days (not calendar-aligned).
func windowStart(now time.Time, days int) time.Time {
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}

// sumAmount totals the amount column of model under scope. Empty sets yield
// zero, never null.
func sumAmount(model any, scope Scope) (decimal.Decimal, error) {
	var raw decimal.NullDecimal
	if err := scope.apply(db.Model(model)).Select("SUM(amount)").Scan(&raw).Error; err != nil {
		return decimal.Zero, err
	}
	if !raw.Valid {
		return decimal.Zero, nil
	}
	return raw.Decimal, nil
}

// computeDashboard aggregates the financial summary for a scope at the given
// reference instant. now is injected so tests control the window boundaries.
// Any storage failure aborts the whole computation; no partial snapshots.
func computeDashboard(scope Scope, now time.Time) (*DashboardSnapshot, error) {
	totalIncome, err := sumAmount(&models.Income{}, scope)
	if err != nil {
		return nil, apperrors.Aggregation(err)
	}
	totalExpenses, err := sumAmount(&models.Expense{}, scope)
	if err != nil {
		return nil, apperrors.Aggregation(err)
	}

	// slices start non-nil so empty windows serialize as [] rather than null
	income60 := []models.Income{}
	if err := scope.apply(db.Where("date >= ?", windowStart(now, 60))).
		Order("date DESC").Find(&income60).Error; err != nil {
		return nil, apperrors.Aggregation(err)
	}
	expense30, expense60 := []models.Expense{}, []models.Expense{}
	if err := scope.apply(db.Where("date >= ?", windowStart(now, 30))).
		Order("date DESC").Find(&expense30).Error; err != nil {
		return nil, apperrors.Aggregation(err)
	}
	if err := scope.apply(db.Where("date >= ?", windowStart(now, 60))).
		Order("date DESC").Find(&expense60).Error; err != nil {
		return nil, apperrors.Aggregation(err)
	}

	incomeWindowTotal := decimal.Zero
	for _, t := range income60 {
		incomeWindowTotal = incomeWindowTotal.Add(t.Amount)
	}
	expense30Total := decimal.Zero
	for _, t := range expense30 {
		expense30Total = expense30Total.Add(t.Amount)
	}
	expense60Total := decimal.Zero
	for _, t := range expense60 {
		expense60Total = expense60Total.Add(t.Amount)
	}

	recent, err := recentActivity(scope)
	if err != nil {
		return nil, apperrors.Aggregation(err)
	}

	snap := &DashboardSnapshot{
		TotalBalance:       totalIncome.Sub(totalExpenses),
		TotalIncome:        totalIncome,
		TotalExpenses:      totalExpenses,
		Last30DaysExpenses: expenseWindow{Total: expense30Total, Transactions: expense30},
		Last60DaysExpenses: expenseWindow{Total: expense60Total, Transactions: expense60},
		Last60DaysIncome:   incomeWindow{Total: incomeWindowTotal, Transactions: income60},
		RecentTransactions: recent,
		UserRole:           models.RoleUser,
	}

	if scope.All {
		snap.UserRole = models.RoleAdmin
		snap.ViewType = models.RoleAdmin

		var totalUsers int64
		if err := db.Model(&models.User{}).Where("role = ?", models.RoleUser).
			Count(&totalUsers).Error; err != nil {
			return nil, apperrors.Aggregation(err)
		}
		snap.TotalUsers = &totalUsers

		leaderboard, err := topSpenders(leaderboardSize)
		if err != nil {
			return nil, apperrors.Aggregation(err)
		}
		snap.UserExpenseSummary = leaderboard
	}
	return snap, nil
}

// recentActivity merges the five most recent incomes and expenses into a
// single feed sorted by date descending. Equal dates keep fetch order with
// income entries first (the merge is stable).
func recentActivity(scope Scope) ([]recentTransaction, error) {
	incomes := []models.Income{}
	q := scope.apply(db.Order("date DESC").Limit(recentPerKind))
	if scope.All {
		q = q.Preload("User")
	}
	if err := q.Find(&incomes).Error; err != nil {
		return nil, err
	}
	expenses := []models.Expense{}
	q = scope.apply(db.Order("date DESC").Limit(recentPerKind))
	if scope.All {
		q = q.Preload("User")
	}
	if err := q.Find(&expenses).Error; err != nil {
		return nil, err
	}

	merged := make([]recentTransaction, 0, len(incomes)+len(expenses))
	for _, t := range incomes {
		entry := recentTransaction{
			ID: t.ID, UserID: t.UserID, Type: "income",
			Source: t.Source, Icon: t.Icon, Amount: t.Amount, Date: t.Date,
		}
		if t.User != nil {
			entry.UserName = t.User.FullName
			entry.UserEmail = t.User.Email
		}
		merged = append(merged, entry)
	}
	for _, t := range expenses {
		entry := recentTransaction{
			ID: t.ID, UserID: t.UserID, Type: "expense",
			Category: t.Category, Icon: t.Icon, Amount: t.Amount, Date: t.Date,
		}
		if t.User != nil {
			entry.UserName = t.User.FullName
			entry.UserEmail = t.User.Email
		}
		merged = append(merged, entry)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.After(merged[j].Date)
	})
	return merged, nil
}

// topSpenders groups all expenses by owner, joins the owning account and
// drops admin owners before ranking by summed amount.
func topSpenders(limit int) ([]userExpenseRow, error) {
	rows := []userExpenseRow{}
	err := db.Model(&models.Expense{}).
		Select("expenses.user_id AS user_id, users.full_name AS user_name, users.email AS user_email, SUM(expenses.amount) AS total_expenses, COUNT(*) AS transaction_count").
		Joins("JOIN users ON users.id = expenses.user_id").
		Where("users.role = ?", models.RoleUser).
		Group("expenses.user_id, users.full_name, users.email").
		Order("total_expenses DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func dashboardHandler(c *gin.Context) {
	snap, err := computeDashboard(requestScope(c), time.Now())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
