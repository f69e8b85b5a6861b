package main

import (
	"fmt"
	"testing"
	"time"

	"fintrack/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeDashboardEmptyScope(t *testing.T) {
	setupTestApp(t)
	user := mustCreateUser(t, "Empty User", "empty@example.com", models.RoleUser)

	snap, err := computeDashboard(Scope{UserID: user.ID}, time.Now())
	require.NoError(t, err)

	// totals are zero, never absent
	require.True(t, snap.TotalIncome.IsZero())
	require.True(t, snap.TotalExpenses.IsZero())
	require.True(t, snap.TotalBalance.IsZero())
	require.Empty(t, snap.RecentTransactions)
	require.NotNil(t, snap.Last30DaysExpenses.Transactions)
	require.Equal(t, models.RoleUser, snap.UserRole)

	// admin-only fields stay unset for user scope
	require.Nil(t, snap.TotalUsers)
	require.Nil(t, snap.UserExpenseSummary)
	require.Empty(t, snap.ViewType)
}

func TestComputeDashboardUserScenario(t *testing.T) {
	setupTestApp(t)
	now := time.Now()
	userA := mustCreateUser(t, "User A", "a@example.com", models.RoleUser)
	userB := mustCreateUser(t, "User B", "b@example.com", models.RoleUser)

	seedIncome(t, userA.ID, "Salary", "100", daysAgo(now, 10))
	seedExpense(t, userA.ID, "Groceries", "40", daysAgo(now, 10))
	// other user's records must not leak into A's snapshot
	seedIncome(t, userB.ID, "Salary", "900", daysAgo(now, 1))
	seedExpense(t, userB.ID, "Rent", "500", daysAgo(now, 1))

	snap, err := computeDashboard(Scope{UserID: userA.ID}, now)
	require.NoError(t, err)

	require.True(t, snap.TotalIncome.Equal(dec("100")), "totalIncome=%s", snap.TotalIncome)
	require.True(t, snap.TotalExpenses.Equal(dec("40")))
	require.True(t, snap.TotalBalance.Equal(dec("60")))

	require.Len(t, snap.Last30DaysExpenses.Transactions, 1)
	require.True(t, snap.Last30DaysExpenses.Total.Equal(dec("40")))
	require.Len(t, snap.Last60DaysIncome.Transactions, 1)
	require.True(t, snap.Last60DaysIncome.Total.Equal(dec("100")))

	for _, txn := range snap.RecentTransactions {
		require.Equal(t, userA.ID, txn.UserID)
	}
}

func TestComputeDashboardWindowBounds(t *testing.T) {
	setupTestApp(t)
	now := time.Now()
	user := mustCreateUser(t, "Window User", "win@example.com", models.RoleUser)

	seedIncome(t, user.ID, "Recent", "10", daysAgo(now, 5))
	seedIncome(t, user.ID, "Mid", "20", daysAgo(now, 45))
	seedIncome(t, user.ID, "Old", "30", daysAgo(now, 70))
	seedExpense(t, user.ID, "Fresh", "1", daysAgo(now, 10))
	seedExpense(t, user.ID, "Stale", "2", daysAgo(now, 40))
	seedExpense(t, user.ID, "Ancient", "3", daysAgo(now, 65))

	scope := Scope{UserID: user.ID}
	snap, err := computeDashboard(scope, now)
	require.NoError(t, err)

	require.Len(t, snap.Last60DaysIncome.Transactions, 2)
	require.True(t, snap.Last60DaysIncome.Total.Equal(dec("30")))
	require.Len(t, snap.Last30DaysExpenses.Transactions, 1)
	require.True(t, snap.Last30DaysExpenses.Total.Equal(dec("1")))
	require.Len(t, snap.Last60DaysExpenses.Transactions, 2)
	require.True(t, snap.Last60DaysExpenses.Total.Equal(dec("3")))

	// all-time totals still include records outside every window
	require.True(t, snap.TotalIncome.Equal(dec("60")))
	require.True(t, snap.TotalExpenses.Equal(dec("6")))

	// each window list honors its bound and is sorted date descending
	for _, txn := range snap.Last60DaysIncome.Transactions {
		require.False(t, txn.Date.Before(windowStart(now, 60)))
	}
	for i := 1; i < len(snap.Last60DaysExpenses.Transactions); i++ {
		require.False(t, snap.Last60DaysExpenses.Transactions[i].Date.After(snap.Last60DaysExpenses.Transactions[i-1].Date))
	}
}

func TestRecentTransactionsMerge(t *testing.T) {
	setupTestApp(t)
	now := time.Now()
	user := mustCreateUser(t, "Busy User", "busy@example.com", models.RoleUser)

	for i := 0; i < 6; i++ {
		seedIncome(t, user.ID, fmt.Sprintf("inc-%d", i), "10", daysAgo(now, i*2))
		seedExpense(t, user.ID, fmt.Sprintf("exp-%d", i), "5", daysAgo(now, i*2+1))
	}

	snap, err := computeDashboard(Scope{UserID: user.ID}, now)
	require.NoError(t, err)

	require.Len(t, snap.RecentTransactions, 10)
	for i, txn := range snap.RecentTransactions {
		require.Contains(t, []string{"income", "expense"}, txn.Type)
		if i > 0 {
			require.False(t, txn.Date.After(snap.RecentTransactions[i-1].Date))
		}
	}
}

func TestRecentTransactionsTieBreak(t *testing.T) {
	setupTestApp(t)
	now := time.Now()
	user := mustCreateUser(t, "Tie User", "tie@example.com", models.RoleUser)

	at := daysAgo(now, 3)
	seedExpense(t, user.ID, "Dinner", "25", at)
	seedIncome(t, user.ID, "Refund", "25", at)

	snap, err := computeDashboard(Scope{UserID: user.ID}, now)
	require.NoError(t, err)

	// equal timestamps: income entries come first (stable merge order)
	require.Len(t, snap.RecentTransactions, 2)
	require.Equal(t, "income", snap.RecentTransactions[0].Type)
	require.Equal(t, "expense", snap.RecentTransactions[1].Type)
}

func TestComputeDashboardAdmin(t *testing.T) {
	setupTestApp(t)
	now := time.Now()
	admin := mustCreateUser(t, "Admin", "admin@example.com", models.RoleAdmin)

	spenders := make([]models.User, 0, 6)
	for i := 0; i < 6; i++ {
		u := mustCreateUser(t, fmt.Sprintf("Spender %d", i), fmt.Sprintf("s%d@example.com", i), models.RoleUser)
		// spender i spends (i+1)*100 in total across two records
		seedExpense(t, u.ID, "Rent", fmt.Sprintf("%d", (i+1)*60), daysAgo(now, 2))
		seedExpense(t, u.ID, "Food", fmt.Sprintf("%d", (i+1)*40), daysAgo(now, 4))
		spenders = append(spenders, u)
	}
	// admin expenses must never reach the leaderboard
	seedExpense(t, admin.ID, "Servers", "100000", daysAgo(now, 1))

	snap, err := computeDashboard(Scope{All: true}, now)
	require.NoError(t, err)

	require.Equal(t, models.RoleAdmin, snap.UserRole)
	require.Equal(t, "admin", snap.ViewType)
	require.NotNil(t, snap.TotalUsers)
	require.EqualValues(t, 6, *snap.TotalUsers)

	require.Len(t, snap.UserExpenseSummary, 5)
	for i, row := range snap.UserExpenseSummary {
		require.NotEqual(t, admin.ID, row.UserID)
		require.EqualValues(t, 2, row.TransactionCount)
		if i > 0 {
			require.True(t, row.TotalExpenses.LessThanOrEqual(snap.UserExpenseSummary[i-1].TotalExpenses))
		}
	}
	// top spender is the biggest one, with name and email joined in
	top := snap.UserExpenseSummary[0]
	require.Equal(t, spenders[5].ID, top.UserID)
	require.Equal(t, "Spender 5", top.UserName)
	require.Equal(t, "s5@example.com", top.UserEmail)
	require.True(t, top.TotalExpenses.Equal(dec("600")))
}
