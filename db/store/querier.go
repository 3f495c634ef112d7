package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Querier interface {
	// users
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	CreateUser(ctx context.Context, arg CreateUserParams) (User, error)
	UpdateUserSettings(ctx context.Context, arg UpdateUserSettingsParams) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	SetUserActive(ctx context.Context, arg SetUserActiveParams) (User, error)

	// categories
	ListVisibleCategories(ctx context.Context, arg ListVisibleCategoriesParams) ([]Category, error)
	GetVisibleCategory(ctx context.Context, arg GetVisibleCategoryParams) (Category, error)
	CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error)
	DeleteCategory(ctx context.Context, arg DeleteCategoryParams) (int64, error)

	// transactions
	ListTransactions(ctx context.Context, arg ListTransactionsParams) ([]Transaction, error)
	GetTransaction(ctx context.Context, arg GetTransactionParams) (Transaction, error)
	CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error)
	UpdateTransaction(ctx context.Context, arg UpdateTransactionParams) (Transaction, error)
	DeleteTransaction(ctx context.Context, arg DeleteTransactionParams) (int64, error)
	CountDuplicateTransactions(ctx context.Context, arg CountDuplicateTransactionsParams) (int64, error)
	SumTransactionsByType(ctx context.Context, arg SumTransactionsByTypeParams) ([]TypeTotal, error)
	SumCategoryTotals(ctx context.Context, arg SumCategoryTotalsParams) ([]CategoryTotal, error)
	SumCategorySpent(ctx context.Context, arg SumCategorySpentParams) (decimal.Decimal, error)
	MonthlyTotals(ctx context.Context, arg MonthlyTotalsParams) ([]MonthlyTotal, error)

	// checklist
	ListVisibleChecklistItems(ctx context.Context, userID uuid.UUID) ([]ChecklistItem, error)
	GetChecklistItem(ctx context.Context, id uuid.UUID) (ChecklistItem, error)
	CreateChecklistItem(ctx context.Context, arg CreateChecklistItemParams) (ChecklistItem, error)
	DeleteChecklistItem(ctx context.Context, id uuid.UUID) error
	ListChecklistCompletions(ctx context.Context, arg ListChecklistCompletionsParams) ([]ChecklistCompletion, error)
	GetChecklistCompletion(ctx context.Context, arg ChecklistCompletionKey) (ChecklistCompletion, error)
	CreateChecklistCompletion(ctx context.Context, arg ChecklistCompletionKey) (ChecklistCompletion, error)
	DeleteChecklistCompletion(ctx context.Context, id uuid.UUID) error

	// receipts
	CreateReceipt(ctx context.Context, arg CreateReceiptParams) (Receipt, error)
	GetReceipt(ctx context.Context, arg GetReceiptParams) (Receipt, error)
	ListReceipts(ctx context.Context, userID uuid.UUID) ([]Receipt, error)
	UpdateReceiptOCR(ctx context.Context, arg UpdateReceiptOCRParams) (Receipt, error)
	LinkReceiptTransaction(ctx context.Context, arg LinkReceiptTransactionParams) (Receipt, error)
	DeleteReceipt(ctx context.Context, arg DeleteReceiptParams) (int64, error)

	// budgets
	ListBudgets(ctx context.Context, userID uuid.UUID) ([]Budget, error)
	GetBudget(ctx context.Context, arg GetBudgetParams) (Budget, error)
	CreateBudget(ctx context.Context, arg CreateBudgetParams) (Budget, error)
	UpdateBudget(ctx context.Context, arg UpdateBudgetParams) (Budget, error)
	DeleteBudget(ctx context.Context, arg DeleteBudgetParams) (int64, error)

	// goals
	ListGoals(ctx context.Context, userID uuid.UUID) ([]Goal, error)
	GetGoal(ctx context.Context, arg GetGoalParams) (Goal, error)
	CreateGoal(ctx context.Context, arg CreateGoalParams) (Goal, error)
	UpdateGoal(ctx context.Context, arg UpdateGoalParams) (Goal, error)
	DeleteGoal(ctx context.Context, arg DeleteGoalParams) (int64, error)

	// reminders
	ListReminders(ctx context.Context, arg ListRemindersParams) ([]Reminder, error)
	GetReminder(ctx context.Context, arg GetReminderParams) (Reminder, error)
	CreateReminder(ctx context.Context, arg CreateReminderParams) (Reminder, error)
	MarkReminderPaid(ctx context.Context, arg MarkReminderPaidParams) (Reminder, error)
	DeleteReminder(ctx context.Context, arg DeleteReminderParams) (int64, error)

	// debts
	ListDebts(ctx context.Context, userID uuid.UUID) ([]Debt, error)
	GetDebt(ctx context.Context, arg GetDebtParams) (Debt, error)
	CreateDebt(ctx context.Context, arg CreateDebtParams) (Debt, error)
	UpdateDebt(ctx context.Context, arg UpdateDebtParams) (Debt, error)
	DeleteDebt(ctx context.Context, arg DeleteDebtParams) (int64, error)
}

var _ Querier = (*Queries)(nil)
