package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"

	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"
)

// UserSettings is stored as jsonb on the users row.
type UserSettings struct {
	Currency string `json:"currency"`
	Locale   string `json:"locale"`
	Theme    string `json:"theme"`
}

// DefaultUserSettings are assigned to users created on first login.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		Currency: "COP",
		Locale:   "es-CO",
		Theme:    "light",
	}
}

type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Role         string
	IsActive     bool
	Settings     UserSettings
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Category struct {
	ID        uuid.UUID
	Name      string
	Type      string
	Color     *string
	Icon      *string
	IsDefault bool
	UserID    *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Transaction struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Type             string
	Amount           decimal.Decimal
	Currency         string
	CategoryID       uuid.UUID
	CategoryName     string
	Description      string
	Date             time.Time
	IsRecurring      bool
	RecurringPattern *string
	Metadata         []byte
	ReceiptID        *uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type ChecklistItem struct {
	ID         uuid.UUID
	Name       string
	Amount     decimal.Decimal
	DueDay     int
	CategoryID *uuid.UUID
	UserID     *uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ChecklistCompletion struct {
	ID          uuid.UUID
	ItemID      uuid.UUID
	UserID      uuid.UUID
	Month       int
	Year        int
	CompletedAt time.Time
}

type Receipt struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	ImageURL      string
	OCRData       []byte
	ProcessedAt   *time.Time
	TransactionID *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Budget struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	CategoryID   uuid.UUID
	CategoryName string
	Amount       decimal.Decimal
	Period       string
	StartDate    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Goal struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      *time.Time
	IsCompleted   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Reminder struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Title         string
	Amount        *decimal.Decimal
	DueDate       time.Time
	CategoryID    *uuid.UUID
	IsPaid        bool
	PaidAt        *time.Time
	TransactionID *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Debt struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Name            string
	Creditor        string
	TotalAmount     decimal.Decimal
	RemainingAmount decimal.Decimal
	InterestRate    *decimal.Decimal
	DueDate         *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TypeTotal is the sum of transaction amounts of one type.
type TypeTotal struct {
	Type  string
	Total decimal.Decimal
}

// CategoryTotal is the sum of transaction amounts for one category.
type CategoryTotal struct {
	CategoryID   uuid.UUID
	CategoryName string
	Color        *string
	Total        decimal.Decimal
	Count        int
}

// MonthlyTotal is the sum of one transaction type within a calendar month.
type MonthlyTotal struct {
	Month time.Time
	Type  string
	Total decimal.Decimal
}
