package main

import (
	"encoding/json"
	"time"

	"finanzas/db/store"
	"finanzas/finance"

	"github.com/shopspring/decimal"
)

// User is the API representation of an account
type User struct {
	ID        string             `json:"id"`
	Email     string             `json:"email"`
	Name      string             `json:"name"`
	Role      string             `json:"role"`
	IsActive  bool               `json:"is_active"`
	Settings  store.UserSettings `json:"settings"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// AuthResponse is returned by login and register
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Category represents a transaction category
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Color     *string   `json:"color"`
	Icon      *string   `json:"icon"`
	IsDefault bool      `json:"is_default"`
	UserID    *string   `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction represents an income or expense movement
type Transaction struct {
	ID               string          `json:"id"`
	Type             string          `json:"type"`
	Amount           float64         `json:"amount"`
	Currency         string          `json:"currency"`
	CategoryID       string          `json:"category_id"`
	CategoryName     string          `json:"category_name"`
	Description      string          `json:"description"`
	Date             string          `json:"date"`
	IsRecurring      bool            `json:"is_recurring"`
	RecurringPattern *string         `json:"recurring_pattern"`
	Metadata         json.RawMessage `json:"metadata,omitempty" swaggertype:"object"`
	ReceiptID        *string         `json:"receipt_id"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ChecklistItem is a recurring expected payment with its completion state for one month
type ChecklistItem struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Amount     float64   `json:"amount"`
	DueDay     int       `json:"due_day"`
	CategoryID *string   `json:"category_id"`
	UserID     *string   `json:"user_id"`
	IsGlobal   bool      `json:"is_global"`
	Completed  bool      `json:"completed"`
	CreatedAt  time.Time `json:"created_at"`
}

// Receipt is an uploaded receipt image and its extracted data
type Receipt struct {
	ID            string          `json:"id"`
	ImageURL      string          `json:"image_url"`
	OCRData       json.RawMessage `json:"ocr_data" swaggertype:"object"`
	ProcessedAt   *time.Time      `json:"processed_at"`
	TransactionID *string         `json:"transaction_id"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Budget is a spending cap for a category and period
type Budget struct {
	ID           string    `json:"id"`
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Amount       float64   `json:"amount"`
	Period       string    `json:"period"`
	StartDate    string    `json:"start_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BudgetProgress is a budget with spending for its current period
type BudgetProgress struct {
	Budget
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	Spent       float64 `json:"spent"`
	Remaining   float64 `json:"remaining"`
	Percentage  float64 `json:"percentage"`
	Status      string  `json:"status"`
}

// Goal is a savings target ("cajita")
type Goal struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	TargetAmount  float64   `json:"target_amount"`
	CurrentAmount float64   `json:"current_amount"`
	Percentage    float64   `json:"percentage"`
	Deadline      *string   `json:"deadline"`
	IsCompleted   bool      `json:"is_completed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Reminder is a dated payment reminder
type Reminder struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Amount        *float64   `json:"amount"`
	DueDate       string     `json:"due_date"`
	CategoryID    *string    `json:"category_id"`
	IsPaid        bool       `json:"is_paid"`
	PaidAt        *time.Time `json:"paid_at"`
	TransactionID *string    `json:"transaction_id"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Debt is an outstanding obligation
type Debt struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Creditor        string    `json:"creditor"`
	TotalAmount     float64   `json:"total_amount"`
	RemainingAmount float64   `json:"remaining_amount"`
	PaidAmount      float64   `json:"paid_amount"`
	InterestRate    *float64  `json:"interest_rate"`
	DueDate         *string   `json:"due_date"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Balance is the account summary recomputed on every read
type Balance struct {
	BankBalance      float64 `json:"bank_balance"`
	TotalIncome      float64 `json:"total_income"`
	TotalExpense     float64 `json:"total_expense"`
	TotalSavings     float64 `json:"total_savings"`
	TotalDebts       float64 `json:"total_debts"`
	NetWorth         float64 `json:"net_worth"`
	AvailableToSpend float64 `json:"available_to_spend"`
}

// CategoryStat is one row of the category analytics
type CategoryStat struct {
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Color        string  `json:"color,omitempty"`
	Total        float64 `json:"total"`
	Count        int     `json:"count"`
	Percentage   float64 `json:"percentage"`
}

// MonthTrend is income and expense of one month
type MonthTrend struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// Overview is the dashboard analytics summary
type Overview struct {
	Month       string       `json:"month"`
	Income      float64      `json:"income"`
	Expense     float64      `json:"expense"`
	Net         float64      `json:"net"`
	SavingsRate float64      `json:"savings_rate"`
	Trend       []MonthTrend `json:"trend"`
}

// Conversions from store rows

func convertUser(u store.User) User {
	return User{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
		Settings:  u.Settings,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func convertCategory(c store.Category) Category {
	return Category{
		ID:        c.ID.String(),
		Name:      c.Name,
		Type:      c.Type,
		Color:     c.Color,
		Icon:      c.Icon,
		IsDefault: c.IsDefault,
		UserID:    uuidString(c.UserID),
		CreatedAt: c.CreatedAt,
	}
}

func convertTransaction(t store.Transaction) Transaction {
	result := Transaction{
		ID:               t.ID.String(),
		Type:             t.Type,
		Amount:           money(t.Amount),
		Currency:         t.Currency,
		CategoryID:       t.CategoryID.String(),
		CategoryName:     t.CategoryName,
		Description:      t.Description,
		Date:             formatDate(t.Date),
		IsRecurring:      t.IsRecurring,
		RecurringPattern: t.RecurringPattern,
		ReceiptID:        uuidString(t.ReceiptID),
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
	if len(t.Metadata) > 0 {
		result.Metadata = json.RawMessage(t.Metadata)
	}
	return result
}

func convertChecklistItem(item store.ChecklistItem, completed bool) ChecklistItem {
	return ChecklistItem{
		ID:         item.ID.String(),
		Name:       item.Name,
		Amount:     money(item.Amount),
		DueDay:     item.DueDay,
		CategoryID: uuidString(item.CategoryID),
		UserID:     uuidString(item.UserID),
		IsGlobal:   item.UserID == nil,
		Completed:  completed,
		CreatedAt:  item.CreatedAt,
	}
}

func convertReceipt(r store.Receipt) Receipt {
	result := Receipt{
		ID:            r.ID.String(),
		ImageURL:      r.ImageURL,
		ProcessedAt:   r.ProcessedAt,
		TransactionID: uuidString(r.TransactionID),
		CreatedAt:     r.CreatedAt,
	}
	if len(r.OCRData) > 0 {
		result.OCRData = json.RawMessage(r.OCRData)
	}
	return result
}

func convertBudget(b store.Budget) Budget {
	return Budget{
		ID:           b.ID.String(),
		CategoryID:   b.CategoryID.String(),
		CategoryName: b.CategoryName,
		Amount:       money(b.Amount),
		Period:       b.Period,
		StartDate:    formatDate(b.StartDate),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func convertBudgetProgress(b store.Budget, window finance.Window, p finance.BudgetProgress) BudgetProgress {
	return BudgetProgress{
		Budget:      convertBudget(b),
		PeriodStart: formatDate(window.Start),
		PeriodEnd:   formatDate(window.End),
		Spent:       money(p.Spent),
		Remaining:   money(p.Remaining),
		Percentage:  money(p.Percentage),
		Status:      p.Status,
	}
}

func convertGoal(g store.Goal) Goal {
	return Goal{
		ID:            g.ID.String(),
		Name:          g.Name,
		TargetAmount:  money(g.TargetAmount),
		CurrentAmount: money(g.CurrentAmount),
		Percentage:    money(finance.GoalPercentage(g.CurrentAmount, g.TargetAmount)),
		Deadline:      formatDatePtr(g.Deadline),
		IsCompleted:   g.IsCompleted,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

func convertReminder(r store.Reminder) Reminder {
	return Reminder{
		ID:            r.ID.String(),
		Title:         r.Title,
		Amount:        moneyPtr(r.Amount),
		DueDate:       formatDate(r.DueDate),
		CategoryID:    uuidString(r.CategoryID),
		IsPaid:        r.IsPaid,
		PaidAt:        r.PaidAt,
		TransactionID: uuidString(r.TransactionID),
		CreatedAt:     r.CreatedAt,
	}
}

func convertDebt(d store.Debt) Debt {
	return Debt{
		ID:              d.ID.String(),
		Name:            d.Name,
		Creditor:        d.Creditor,
		TotalAmount:     money(d.TotalAmount),
		RemainingAmount: money(d.RemainingAmount),
		PaidAmount:      money(d.TotalAmount.Sub(d.RemainingAmount)),
		InterestRate:    moneyPtr(d.InterestRate),
		DueDate:         formatDatePtr(d.DueDate),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func convertBalance(b finance.Balance) Balance {
	return Balance{
		BankBalance:      money(b.BankBalance),
		TotalIncome:      money(b.TotalIncome),
		TotalExpense:     money(b.TotalExpense),
		TotalSavings:     money(b.TotalSavings),
		TotalDebts:       money(b.TotalDebts),
		NetWorth:         money(b.NetWorth),
		AvailableToSpend: money(b.AvailableToSpend),
	}
}

func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func moneyPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}
