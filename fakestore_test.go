package main

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"finanzas/db/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// fakeStore is an in-memory store.Store that follows the SQL semantics of
// the Postgres queries closely enough for handler tests.
type fakeStore struct {
	mu    sync.Mutex
	clock time.Time

	users        map[uuid.UUID]store.User
	categories   map[uuid.UUID]store.Category
	transactions map[uuid.UUID]store.Transaction
	items        map[uuid.UUID]store.ChecklistItem
	completions  map[uuid.UUID]store.ChecklistCompletion
	receipts     map[uuid.UUID]store.Receipt
	budgets      map[uuid.UUID]store.Budget
	goals        map[uuid.UUID]store.Goal
	reminders    map[uuid.UUID]store.Reminder
	debts        map[uuid.UUID]store.Debt

	pingErr error
}

var _ store.Store = (*fakeStore)(nil)

var defaultCategorySeed = []struct{ name, typ string }{
	{"Salario", store.TypeIncome},
	{"Freelance", store.TypeIncome},
	{"Inversiones", store.TypeIncome},
	{"Otros ingresos", store.TypeIncome},
	{"Alimentación", store.TypeExpense},
	{"Transporte", store.TypeExpense},
	{"Vivienda", store.TypeExpense},
	{"Servicios", store.TypeExpense},
	{"Salud", store.TypeExpense},
	{"Entretenimiento", store.TypeExpense},
	{"Educación", store.TypeExpense},
	{"Compras", store.TypeExpense},
	{"Deudas", store.TypeExpense},
	{"Otros gastos", store.TypeExpense},
}

func newFakeStore() *fakeStore {
	s := &fakeStore{
		clock:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:        map[uuid.UUID]store.User{},
		categories:   map[uuid.UUID]store.Category{},
		transactions: map[uuid.UUID]store.Transaction{},
		items:        map[uuid.UUID]store.ChecklistItem{},
		completions:  map[uuid.UUID]store.ChecklistCompletion{},
		receipts:     map[uuid.UUID]store.Receipt{},
		budgets:      map[uuid.UUID]store.Budget{},
		goals:        map[uuid.UUID]store.Goal{},
		reminders:    map[uuid.UUID]store.Reminder{},
		debts:        map[uuid.UUID]store.Debt{},
	}
	for _, seed := range defaultCategorySeed {
		id := uuid.New()
		s.categories[id] = store.Category{
			ID:        id,
			Name:      seed.name,
			Type:      seed.typ,
			IsDefault: true,
			CreatedAt: s.tick(),
		}
	}
	return s
}

// tick returns a strictly increasing timestamp so created_at ordering is stable
func (s *fakeStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *fakeStore) ExecTx(ctx context.Context, fn func(store.Querier) error) error {
	return fn(s)
}

func (s *fakeStore) Ping(ctx context.Context) error {
	return s.pingErr
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func foreignKeyViolation(constraint string) error {
	return &pgconn.PgError{Code: "23503", ConstraintName: constraint}
}

// defaultCategory returns the visible category with the given name, for tests
func (s *fakeStore) defaultCategory(name string) store.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.IsDefault && c.Name == name {
			return c
		}
	}
	panic("no default category " + name)
}

// users

func (s *fakeStore) GetUserByID(ctx context.Context, id uuid.UUID) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return store.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (s *fakeStore) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return store.User{}, pgx.ErrNoRows
}

func (s *fakeStore) CreateUser(ctx context.Context, arg store.CreateUserParams) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == arg.Email {
			return store.User{}, uniqueViolation("users_email_key")
		}
	}
	now := s.tick()
	u := store.User{
		ID:           uuid.New(),
		Email:        arg.Email,
		Name:         arg.Name,
		Role:         arg.Role,
		IsActive:     true,
		Settings:     arg.Settings,
		PasswordHash: arg.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *fakeStore) UpdateUserSettings(ctx context.Context, arg store.UpdateUserSettingsParams) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[arg.ID]
	if !ok {
		return store.User{}, pgx.ErrNoRows
	}
	u.Settings = arg.Settings
	u.UpdatedAt = s.tick()
	s.users[u.ID] = u
	return u, nil
}

func (s *fakeStore) ListUsers(ctx context.Context) ([]store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := collect(s.users)
	slices.SortFunc(out, func(a, b store.User) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (s *fakeStore) SetUserActive(ctx context.Context, arg store.SetUserActiveParams) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[arg.ID]
	if !ok {
		return store.User{}, pgx.ErrNoRows
	}
	u.IsActive = arg.IsActive
	u.UpdatedAt = s.tick()
	s.users[u.ID] = u
	return u, nil
}

// categories

func visibleTo(owner *uuid.UUID, userID uuid.UUID) bool {
	return owner == nil || *owner == userID
}

func (s *fakeStore) ListVisibleCategories(ctx context.Context, arg store.ListVisibleCategoriesParams) ([]store.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Category, 0)
	for _, c := range s.categories {
		if visibleTo(c.UserID, arg.UserID) && (arg.Type == "" || c.Type == arg.Type) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b store.Category) int {
		if a.IsDefault != b.IsDefault {
			if a.IsDefault {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (s *fakeStore) GetVisibleCategory(ctx context.Context, arg store.GetVisibleCategoryParams) (store.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[arg.ID]
	if !ok || !visibleTo(c.UserID, arg.UserID) {
		return store.Category{}, pgx.ErrNoRows
	}
	return c, nil
}

func (s *fakeStore) CreateCategory(ctx context.Context, arg store.CreateCategoryParams) (store.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	c := store.Category{
		ID:        uuid.New(),
		Name:      arg.Name,
		Type:      arg.Type,
		Color:     arg.Color,
		Icon:      arg.Icon,
		UserID:    arg.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.categories[c.ID] = c
	return c, nil
}

func (s *fakeStore) DeleteCategory(ctx context.Context, arg store.DeleteCategoryParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[arg.ID]
	if !ok || c.IsDefault || c.UserID == nil || *c.UserID != arg.UserID {
		return 0, nil
	}
	for _, t := range s.transactions {
		if t.CategoryID == c.ID {
			return 0, foreignKeyViolation("transactions_category_id_fkey")
		}
	}
	delete(s.categories, arg.ID)
	return 1, nil
}

// transactions

func (s *fakeStore) withCategoryName(t store.Transaction) store.Transaction {
	t.CategoryName = s.categories[t.CategoryID].Name
	return t
}

func inDateRange(d time.Time, from, to *time.Time) bool {
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

func (s *fakeStore) ListTransactions(ctx context.Context, arg store.ListTransactionsParams) ([]store.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Transaction, 0)
	for _, t := range s.transactions {
		if t.UserID != arg.UserID {
			continue
		}
		if arg.Type != "" && t.Type != arg.Type {
			continue
		}
		if arg.CategoryID != nil && t.CategoryID != *arg.CategoryID {
			continue
		}
		if !inDateRange(t.Date, arg.From, arg.To) {
			continue
		}
		out = append(out, s.withCategoryName(t))
	}
	slices.SortFunc(out, func(a, b store.Transaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if arg.Offset >= len(out) {
		return []store.Transaction{}, nil
	}
	out = out[arg.Offset:]
	if arg.Limit > 0 && arg.Limit < len(out) {
		out = out[:arg.Limit]
	}
	return out, nil
}

func (s *fakeStore) GetTransaction(ctx context.Context, arg store.GetTransactionParams) (store.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[arg.ID]
	if !ok || t.UserID != arg.UserID {
		return store.Transaction{}, pgx.ErrNoRows
	}
	return s.withCategoryName(t), nil
}

func (s *fakeStore) CreateTransaction(ctx context.Context, arg store.CreateTransactionParams) (store.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[arg.CategoryID]; !ok {
		return store.Transaction{}, foreignKeyViolation("transactions_category_id_fkey")
	}
	now := s.tick()
	t := store.Transaction{
		ID:               uuid.New(),
		UserID:           arg.UserID,
		Type:             arg.Type,
		Amount:           arg.Amount,
		Currency:         arg.Currency,
		CategoryID:       arg.CategoryID,
		Description:      arg.Description,
		Date:             arg.Date,
		IsRecurring:      arg.IsRecurring,
		RecurringPattern: arg.RecurringPattern,
		Metadata:         arg.Metadata,
		ReceiptID:        arg.ReceiptID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.transactions[t.ID] = t
	return s.withCategoryName(t), nil
}

func (s *fakeStore) UpdateTransaction(ctx context.Context, arg store.UpdateTransactionParams) (store.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[arg.ID]
	if !ok || t.UserID != arg.UserID {
		return store.Transaction{}, pgx.ErrNoRows
	}
	t.Type = arg.Type
	t.Amount = arg.Amount
	t.Currency = arg.Currency
	t.CategoryID = arg.CategoryID
	t.Description = arg.Description
	t.Date = arg.Date
	t.IsRecurring = arg.IsRecurring
	t.RecurringPattern = arg.RecurringPattern
	t.Metadata = arg.Metadata
	t.UpdatedAt = s.tick()
	s.transactions[t.ID] = t
	return s.withCategoryName(t), nil
}

func (s *fakeStore) DeleteTransaction(ctx context.Context, arg store.DeleteTransactionParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[arg.ID]
	if !ok || t.UserID != arg.UserID {
		return 0, nil
	}
	delete(s.transactions, arg.ID)
	return 1, nil
}

func (s *fakeStore) CountDuplicateTransactions(ctx context.Context, arg store.CountDuplicateTransactionsParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, t := range s.transactions {
		if t.UserID == arg.UserID && t.Type == arg.Type && t.Amount.Equal(arg.Amount) &&
			t.Date.Equal(arg.Date) && t.Description == arg.Description {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) SumTransactionsByType(ctx context.Context, arg store.SumTransactionsByTypeParams) ([]store.TypeTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sums := map[string]decimal.Decimal{}
	for _, t := range s.transactions {
		if t.UserID == arg.UserID && inDateRange(t.Date, arg.From, arg.To) {
			sums[t.Type] = sums[t.Type].Add(t.Amount)
		}
	}
	out := make([]store.TypeTotal, 0, len(sums))
	for typ, total := range sums {
		out = append(out, store.TypeTotal{Type: typ, Total: total})
	}
	slices.SortFunc(out, func(a, b store.TypeTotal) int { return strings.Compare(a.Type, b.Type) })
	return out, nil
}

func (s *fakeStore) SumCategoryTotals(ctx context.Context, arg store.SumCategoryTotalsParams) ([]store.CategoryTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byCategory := map[uuid.UUID]*store.CategoryTotal{}
	for _, t := range s.transactions {
		if t.UserID != arg.UserID || t.Type != arg.Type || !inDateRange(t.Date, arg.From, arg.To) {
			continue
		}
		ct, ok := byCategory[t.CategoryID]
		if !ok {
			c := s.categories[t.CategoryID]
			ct = &store.CategoryTotal{CategoryID: c.ID, CategoryName: c.Name, Color: c.Color}
			byCategory[t.CategoryID] = ct
		}
		ct.Total = ct.Total.Add(t.Amount)
		ct.Count++
	}
	out := make([]store.CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		out = append(out, *ct)
	}
	slices.SortFunc(out, func(a, b store.CategoryTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		return strings.Compare(a.CategoryName, b.CategoryName)
	})
	return out, nil
}

func (s *fakeStore) SumCategorySpent(ctx context.Context, arg store.SumCategorySpentParams) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, t := range s.transactions {
		if t.UserID == arg.UserID && t.CategoryID == arg.CategoryID && t.Type == store.TypeExpense &&
			!t.Date.Before(arg.From) && t.Date.Before(arg.To) {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

func (s *fakeStore) MonthlyTotals(ctx context.Context, arg store.MonthlyTotalsParams) ([]store.MonthlyTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	type key struct {
		month time.Time
		typ   string
	}
	sums := map[key]decimal.Decimal{}
	for _, t := range s.transactions {
		if t.UserID != arg.UserID || t.Date.Before(arg.From) {
			continue
		}
		k := key{time.Date(t.Date.Year(), t.Date.Month(), 1, 0, 0, 0, 0, time.UTC), t.Type}
		sums[k] = sums[k].Add(t.Amount)
	}
	out := make([]store.MonthlyTotal, 0, len(sums))
	for k, total := range sums {
		out = append(out, store.MonthlyTotal{Month: k.month, Type: k.typ, Total: total})
	}
	slices.SortFunc(out, func(a, b store.MonthlyTotal) int {
		if c := a.Month.Compare(b.Month); c != 0 {
			return c
		}
		return strings.Compare(a.Type, b.Type)
	})
	return out, nil
}

// checklist

func (s *fakeStore) ListVisibleChecklistItems(ctx context.Context, userID uuid.UUID) ([]store.ChecklistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.ChecklistItem, 0)
	for _, item := range s.items {
		if visibleTo(item.UserID, userID) {
			out = append(out, item)
		}
	}
	slices.SortFunc(out, func(a, b store.ChecklistItem) int {
		if c := cmp.Compare(a.DueDay, b.DueDay); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (s *fakeStore) GetChecklistItem(ctx context.Context, id uuid.UUID) (store.ChecklistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return store.ChecklistItem{}, pgx.ErrNoRows
	}
	return item, nil
}

func (s *fakeStore) CreateChecklistItem(ctx context.Context, arg store.CreateChecklistItemParams) (store.ChecklistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	item := store.ChecklistItem{
		ID:         uuid.New(),
		Name:       arg.Name,
		Amount:     arg.Amount,
		DueDay:     arg.DueDay,
		CategoryID: arg.CategoryID,
		UserID:     arg.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.items[item.ID] = item
	return item, nil
}

func (s *fakeStore) DeleteChecklistItem(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	for cid, comp := range s.completions {
		if comp.ItemID == id {
			delete(s.completions, cid)
		}
	}
	return nil
}

func (s *fakeStore) ListChecklistCompletions(ctx context.Context, arg store.ListChecklistCompletionsParams) ([]store.ChecklistCompletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.ChecklistCompletion, 0)
	for _, comp := range s.completions {
		if comp.UserID == arg.UserID && comp.Month == arg.Month && comp.Year == arg.Year {
			out = append(out, comp)
		}
	}
	return out, nil
}

func (s *fakeStore) findCompletion(key store.ChecklistCompletionKey) (store.ChecklistCompletion, bool) {
	for _, comp := range s.completions {
		if comp.ItemID == key.ItemID && comp.UserID == key.UserID && comp.Month == key.Month && comp.Year == key.Year {
			return comp, true
		}
	}
	return store.ChecklistCompletion{}, false
}

func (s *fakeStore) GetChecklistCompletion(ctx context.Context, arg store.ChecklistCompletionKey) (store.ChecklistCompletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comp, ok := s.findCompletion(arg)
	if !ok {
		return store.ChecklistCompletion{}, pgx.ErrNoRows
	}
	return comp, nil
}

func (s *fakeStore) CreateChecklistCompletion(ctx context.Context, arg store.ChecklistCompletionKey) (store.ChecklistCompletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.findCompletion(arg); ok {
		return store.ChecklistCompletion{}, uniqueViolation("checklist_completions_item_user_period_key")
	}
	comp := store.ChecklistCompletion{
		ID:          uuid.New(),
		ItemID:      arg.ItemID,
		UserID:      arg.UserID,
		Month:       arg.Month,
		Year:        arg.Year,
		CompletedAt: s.tick(),
	}
	s.completions[comp.ID] = comp
	return comp, nil
}

func (s *fakeStore) DeleteChecklistCompletion(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.completions, id)
	return nil
}

// receipts

func (s *fakeStore) CreateReceipt(ctx context.Context, arg store.CreateReceiptParams) (store.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	r := store.Receipt{
		ID:        uuid.New(),
		UserID:    arg.UserID,
		ImageURL:  arg.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.receipts[r.ID] = r
	return r, nil
}

func (s *fakeStore) GetReceipt(ctx context.Context, arg store.GetReceiptParams) (store.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.receipts[arg.ID]
	if !ok || r.UserID != arg.UserID {
		return store.Receipt{}, pgx.ErrNoRows
	}
	return r, nil
}

func (s *fakeStore) ListReceipts(ctx context.Context, userID uuid.UUID) ([]store.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Receipt, 0)
	for _, r := range s.receipts {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b store.Receipt) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (s *fakeStore) UpdateReceiptOCR(ctx context.Context, arg store.UpdateReceiptOCRParams) (store.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.receipts[arg.ID]
	if !ok {
		return store.Receipt{}, pgx.ErrNoRows
	}
	processed := arg.ProcessedAt
	r.OCRData = arg.OCRData
	r.ProcessedAt = &processed
	r.UpdatedAt = s.tick()
	s.receipts[r.ID] = r
	return r, nil
}

func (s *fakeStore) LinkReceiptTransaction(ctx context.Context, arg store.LinkReceiptTransactionParams) (store.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.receipts[arg.ID]
	if !ok {
		return store.Receipt{}, pgx.ErrNoRows
	}
	txID := arg.TransactionID
	r.TransactionID = &txID
	r.UpdatedAt = s.tick()
	s.receipts[r.ID] = r
	return r, nil
}

func (s *fakeStore) DeleteReceipt(ctx context.Context, arg store.DeleteReceiptParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.receipts[arg.ID]
	if !ok || r.UserID != arg.UserID {
		return 0, nil
	}
	delete(s.receipts, arg.ID)
	for id, t := range s.transactions {
		if t.ReceiptID != nil && *t.ReceiptID == arg.ID {
			t.ReceiptID = nil
			s.transactions[id] = t
		}
	}
	return 1, nil
}

// budgets

func (s *fakeStore) withBudgetCategory(b store.Budget) store.Budget {
	b.CategoryName = s.categories[b.CategoryID].Name
	return b
}

func (s *fakeStore) ListBudgets(ctx context.Context, userID uuid.UUID) ([]store.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Budget, 0)
	for _, b := range s.budgets {
		if b.UserID == userID {
			out = append(out, s.withBudgetCategory(b))
		}
	}
	slices.SortFunc(out, func(a, b store.Budget) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (s *fakeStore) GetBudget(ctx context.Context, arg store.GetBudgetParams) (store.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[arg.ID]
	if !ok || b.UserID != arg.UserID {
		return store.Budget{}, pgx.ErrNoRows
	}
	return s.withBudgetCategory(b), nil
}

func (s *fakeStore) CreateBudget(ctx context.Context, arg store.CreateBudgetParams) (store.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	b := store.Budget{
		ID:         uuid.New(),
		UserID:     arg.UserID,
		CategoryID: arg.CategoryID,
		Amount:     arg.Amount,
		Period:     arg.Period,
		StartDate:  arg.StartDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.budgets[b.ID] = b
	return s.withBudgetCategory(b), nil
}

func (s *fakeStore) UpdateBudget(ctx context.Context, arg store.UpdateBudgetParams) (store.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[arg.ID]
	if !ok || b.UserID != arg.UserID {
		return store.Budget{}, pgx.ErrNoRows
	}
	b.CategoryID = arg.CategoryID
	b.Amount = arg.Amount
	b.Period = arg.Period
	b.StartDate = arg.StartDate
	b.UpdatedAt = s.tick()
	s.budgets[b.ID] = b
	return s.withBudgetCategory(b), nil
}

func (s *fakeStore) DeleteBudget(ctx context.Context, arg store.DeleteBudgetParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[arg.ID]
	if !ok || b.UserID != arg.UserID {
		return 0, nil
	}
	delete(s.budgets, arg.ID)
	return 1, nil
}

// goals

func (s *fakeStore) ListGoals(ctx context.Context, userID uuid.UUID) ([]store.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Goal, 0)
	for _, g := range s.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	slices.SortFunc(out, func(a, b store.Goal) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (s *fakeStore) GetGoal(ctx context.Context, arg store.GetGoalParams) (store.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[arg.ID]
	if !ok || g.UserID != arg.UserID {
		return store.Goal{}, pgx.ErrNoRows
	}
	return g, nil
}

func (s *fakeStore) CreateGoal(ctx context.Context, arg store.CreateGoalParams) (store.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	g := store.Goal{
		ID:            uuid.New(),
		UserID:        arg.UserID,
		Name:          arg.Name,
		TargetAmount:  arg.TargetAmount,
		CurrentAmount: arg.CurrentAmount,
		Deadline:      arg.Deadline,
		IsCompleted:   arg.IsCompleted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.goals[g.ID] = g
	return g, nil
}

func (s *fakeStore) UpdateGoal(ctx context.Context, arg store.UpdateGoalParams) (store.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[arg.ID]
	if !ok || g.UserID != arg.UserID {
		return store.Goal{}, pgx.ErrNoRows
	}
	g.Name = arg.Name
	g.TargetAmount = arg.TargetAmount
	g.CurrentAmount = arg.CurrentAmount
	g.Deadline = arg.Deadline
	g.IsCompleted = arg.IsCompleted
	g.UpdatedAt = s.tick()
	s.goals[g.ID] = g
	return g, nil
}

func (s *fakeStore) DeleteGoal(ctx context.Context, arg store.DeleteGoalParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[arg.ID]
	if !ok || g.UserID != arg.UserID {
		return 0, nil
	}
	delete(s.goals, arg.ID)
	return 1, nil
}

// reminders

func (s *fakeStore) ListReminders(ctx context.Context, arg store.ListRemindersParams) ([]store.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Reminder, 0)
	for _, r := range s.reminders {
		if r.UserID != arg.UserID {
			continue
		}
		if (arg.Status == "pending" && r.IsPaid) || (arg.Status == "paid" && !r.IsPaid) {
			continue
		}
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b store.Reminder) int {
		if c := a.DueDate.Compare(b.DueDate); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

func (s *fakeStore) GetReminder(ctx context.Context, arg store.GetReminderParams) (store.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reminders[arg.ID]
	if !ok || r.UserID != arg.UserID {
		return store.Reminder{}, pgx.ErrNoRows
	}
	return r, nil
}

func (s *fakeStore) CreateReminder(ctx context.Context, arg store.CreateReminderParams) (store.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	r := store.Reminder{
		ID:         uuid.New(),
		UserID:     arg.UserID,
		Title:      arg.Title,
		Amount:     arg.Amount,
		DueDate:    arg.DueDate,
		CategoryID: arg.CategoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.reminders[r.ID] = r
	return r, nil
}

func (s *fakeStore) MarkReminderPaid(ctx context.Context, arg store.MarkReminderPaidParams) (store.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reminders[arg.ID]
	if !ok || r.UserID != arg.UserID {
		return store.Reminder{}, pgx.ErrNoRows
	}
	paidAt := arg.PaidAt
	r.IsPaid = true
	r.PaidAt = &paidAt
	r.TransactionID = arg.TransactionID
	r.UpdatedAt = s.tick()
	s.reminders[r.ID] = r
	return r, nil
}

func (s *fakeStore) DeleteReminder(ctx context.Context, arg store.DeleteReminderParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reminders[arg.ID]
	if !ok || r.UserID != arg.UserID {
		return 0, nil
	}
	delete(s.reminders, arg.ID)
	return 1, nil
}

// debts

func (s *fakeStore) ListDebts(ctx context.Context, userID uuid.UUID) ([]store.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Debt, 0)
	for _, d := range s.debts {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	slices.SortFunc(out, func(a, b store.Debt) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (s *fakeStore) GetDebt(ctx context.Context, arg store.GetDebtParams) (store.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.debts[arg.ID]
	if !ok || d.UserID != arg.UserID {
		return store.Debt{}, pgx.ErrNoRows
	}
	return d, nil
}

func (s *fakeStore) CreateDebt(ctx context.Context, arg store.CreateDebtParams) (store.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	d := store.Debt{
		ID:              uuid.New(),
		UserID:          arg.UserID,
		Name:            arg.Name,
		Creditor:        arg.Creditor,
		TotalAmount:     arg.TotalAmount,
		RemainingAmount: arg.RemainingAmount,
		InterestRate:    arg.InterestRate,
		DueDate:         arg.DueDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.debts[d.ID] = d
	return d, nil
}

func (s *fakeStore) UpdateDebt(ctx context.Context, arg store.UpdateDebtParams) (store.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.debts[arg.ID]
	if !ok || d.UserID != arg.UserID {
		return store.Debt{}, pgx.ErrNoRows
	}
	d.Name = arg.Name
	d.Creditor = arg.Creditor
	d.TotalAmount = arg.TotalAmount
	d.RemainingAmount = arg.RemainingAmount
	d.InterestRate = arg.InterestRate
	d.DueDate = arg.DueDate
	d.UpdatedAt = s.tick()
	s.debts[d.ID] = d
	return d, nil
}

func (s *fakeStore) DeleteDebt(ctx context.Context, arg store.DeleteDebtParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.debts[arg.ID]
	if !ok || d.UserID != arg.UserID {
		return 0, nil
	}
	delete(s.debts, arg.ID)
	return 1, nil
}

func collect[K comparable, V any](m map[K]V) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}
