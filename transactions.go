package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"finanzas/db/store"
	"finanzas/export"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const maxTransactionPageSize = 500

type transactionRequest struct {
	Type             string          `json:"type"`
	Amount           decimal.Decimal `json:"amount" swaggertype:"number"`
	Currency         string          `json:"currency"`
	CategoryID       string          `json:"category_id"`
	Description      string          `json:"description"`
	Date             string          `json:"date"`
	IsRecurring      bool            `json:"is_recurring"`
	RecurringPattern *string         `json:"recurring_pattern"`
	Metadata         json.RawMessage `json:"metadata" swaggertype:"object"`
}

// Transaction handler functions

// @Summary Get transactions
// @Description List the user's transactions, newest first
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param type query string false "INCOME or EXPENSE"
// @Param category_id query string false "Category ID"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param limit query int false "Page size"
// @Param offset query int false "Rows to skip"
// @Success 200 {array} Transaction "List of transactions"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/transactions [get]
func getTransactions(c *gin.Context) {
	params := store.ListTransactionsParams{UserID: currentUserID(c)}

	if t := c.Query("type"); t != "" {
		typ, err := validateTransactionType(t)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		params.Type = typ
	}
	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}
		params.CategoryID = &categoryID
	}

	var err error
	if params.From, err = parseDateQuery(c, "from"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if params.To, err = parseDateQuery(c, "to"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if params.Limit, err = parseIntQuery(c, "limit", 0); err != nil || params.Limit < 0 || params.Limit > maxTransactionPageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("limit must be between 0 and %d", maxTransactionPageSize)})
		return
	}
	if params.Offset, err = parseIntQuery(c, "offset", 0); err != nil || params.Offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a non-negative number"})
		return
	}

	dbTransactions, err := queries.ListTransactions(c.Request.Context(), params)
	if err != nil {
		respondDatabaseError(c, "Error fetching transactions", err)
		return
	}

	transactions := make([]Transaction, 0, len(dbTransactions))
	for _, t := range dbTransactions {
		transactions = append(transactions, convertTransaction(t))
	}
	c.JSON(http.StatusOK, transactions)
}

// @Summary Get transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} Transaction
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Transaction not found"
// @Router /api/transactions/{id} [get]
func getTransaction(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "transaction")
	if !ok {
		return
	}

	transaction, err := queries.GetTransaction(c.Request.Context(), store.GetTransactionParams{ID: id, UserID: currentUserID(c)})
	if err != nil {
		respondDatabaseError(c, "Error fetching transaction", err)
		return
	}
	c.JSON(http.StatusOK, convertTransaction(transaction))
}

// @Summary Create transaction
// @Description Record an income or expense. Date defaults to today and currency to the user's currency.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transaction body transactionRequest true "Transaction data"
// @Success 201 {object} Transaction
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/transactions [post]
func createTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	params, ok := validateTransactionRequest(c, req)
	if !ok {
		return
	}

	transaction, err := queries.CreateTransaction(c.Request.Context(), params)
	if err != nil {
		respondDatabaseError(c, "Error creating transaction", err)
		return
	}
	c.JSON(http.StatusCreated, convertTransaction(transaction))
}

// @Summary Update transaction
// @Description Replace every field of a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param transaction body transactionRequest true "Transaction data"
// @Success 200 {object} Transaction
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Transaction not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/transactions/{id} [put]
func updateTransaction(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "transaction")
	if !ok {
		return
	}

	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	p, ok := validateTransactionRequest(c, req)
	if !ok {
		return
	}

	transaction, err := queries.UpdateTransaction(c.Request.Context(), store.UpdateTransactionParams{
		ID:               id,
		UserID:           p.UserID,
		Type:             p.Type,
		Amount:           p.Amount,
		Currency:         p.Currency,
		CategoryID:       p.CategoryID,
		Description:      p.Description,
		Date:             p.Date,
		IsRecurring:      p.IsRecurring,
		RecurringPattern: p.RecurringPattern,
		Metadata:         p.Metadata,
	})
	if err != nil {
		respondDatabaseError(c, "Error updating transaction", err)
		return
	}
	c.JSON(http.StatusOK, convertTransaction(transaction))
}

// @Summary Delete single transaction
// @Description Delete a specific transaction by ID
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} map[string]interface{} "Transaction deleted successfully"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Transaction not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/transactions/{id} [delete]
func deleteTransaction(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "transaction")
	if !ok {
		return
	}

	affected, err := queries.DeleteTransaction(c.Request.Context(), store.DeleteTransactionParams{ID: id, UserID: currentUserID(c)})
	if err != nil {
		respondDatabaseError(c, "Error deleting transaction", err)
		return
	}
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// @Summary Import transactions from CSV
// @Description Upload a CSV in the export layout (Date,Type,Category,Description,Amount,Currency). Malformed rows, unknown categories and duplicates are skipped.
// @Tags transactions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file to upload"
// @Success 200 {object} map[string]interface{} "Import result - message, transactions array and skipped_rows count"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/transactions/import [post]
func importTransactions(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	rows, skipped, err := export.ParseTransactionsCSV(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error reading CSV file"})
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)
	user, err := queries.GetUserByID(ctx, userID)
	if err != nil {
		respondDatabaseError(c, "Error fetching user", err)
		return
	}
	categories, err := queries.ListVisibleCategories(ctx, store.ListVisibleCategoriesParams{UserID: userID})
	if err != nil {
		respondDatabaseError(c, "Error fetching categories", err)
		return
	}
	lookup := newCategoryLookup(categories)

	transactions := make([]Transaction, 0, len(rows))
	skippedRows := len(skipped)

	for _, row := range rows {
		category, ok := lookup.find(row.Type, row.Category)
		if !ok {
			skippedRows++
			continue
		}

		count, err := queries.CountDuplicateTransactions(ctx, store.CountDuplicateTransactionsParams{
			UserID:      userID,
			Type:        row.Type,
			Amount:      row.Amount,
			Date:        row.Date,
			Description: row.Description,
		})
		if err != nil {
			slog.Error("Error checking for duplicate transaction", "error", err)
			skippedRows++
			continue
		}
		if count > 0 {
			slog.Debug("Skipping duplicate transaction", "description", row.Description, "amount", row.Amount)
			skippedRows++
			continue
		}

		currency := row.Currency
		if currency == "" {
			currency = user.Settings.Currency
		}
		created, err := queries.CreateTransaction(ctx, store.CreateTransactionParams{
			UserID:      userID,
			Type:        row.Type,
			Amount:      row.Amount,
			Currency:    currency,
			CategoryID:  category.ID,
			Description: row.Description,
			Date:        row.Date,
		})
		if err != nil {
			slog.Error("Error inserting transaction", "error", err)
			skippedRows++
			continue
		}

		transactions = append(transactions, convertTransaction(created))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "CSV imported successfully",
		"transactions": transactions,
		"skipped_rows": skippedRows,
	})
}

// validateTransactionRequest checks req against the caller's categories and
// settings, writing a 400 and returning false on the first problem
func validateTransactionRequest(c *gin.Context, req transactionRequest) (store.CreateTransactionParams, bool) {
	typ, err := validateTransactionType(req.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return store.CreateTransactionParams{}, false
	}
	amount := toAmount(req.Amount)
	if !amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be greater than 0"})
		return store.CreateTransactionParams{}, false
	}
	categoryID, err := uuid.Parse(strings.TrimSpace(req.CategoryID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category_id is required"})
		return store.CreateTransactionParams{}, false
	}
	date, err := parseDateOrToday(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return store.CreateTransactionParams{}, false
	}

	var pattern *string
	if req.RecurringPattern != nil && strings.TrimSpace(*req.RecurringPattern) != "" {
		p, err := validateRecurringPattern(*req.RecurringPattern)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return store.CreateTransactionParams{}, false
		}
		pattern = &p
	}
	if req.IsRecurring && pattern == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recurring_pattern is required for recurring transactions"})
		return store.CreateTransactionParams{}, false
	}

	var metadata []byte
	if len(req.Metadata) > 0 && string(req.Metadata) != "null" {
		var obj map[string]any
		if err := json.Unmarshal(req.Metadata, &obj); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "metadata must be a JSON object"})
			return store.CreateTransactionParams{}, false
		}
		metadata = req.Metadata
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)
	category, ok := checkCategory(c, ctx, userID, categoryID, typ)
	if !ok {
		return store.CreateTransactionParams{}, false
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		user, err := queries.GetUserByID(ctx, userID)
		if err != nil {
			respondDatabaseError(c, "Error fetching user", err)
			return store.CreateTransactionParams{}, false
		}
		currency = user.Settings.Currency
	} else if !currencyRegex.MatchString(currency) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "currency must be a 3-letter ISO code"})
		return store.CreateTransactionParams{}, false
	}

	return store.CreateTransactionParams{
		UserID:           userID,
		Type:             typ,
		Amount:           amount,
		Currency:         currency,
		CategoryID:       category.ID,
		Description:      strings.TrimSpace(req.Description),
		Date:             date,
		IsRecurring:      req.IsRecurring,
		RecurringPattern: pattern,
		Metadata:         metadata,
	}, true
}

// checkCategory loads a category visible to the user and requires it to be
// of the given type when typ is not empty
func checkCategory(c *gin.Context, ctx context.Context, userID, categoryID uuid.UUID, typ string) (store.Category, bool) {
	category, err := queries.GetVisibleCategory(ctx, store.GetVisibleCategoryParams{ID: categoryID, UserID: userID})
	if errors.Is(err, pgx.ErrNoRows) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
		return store.Category{}, false
	}
	if err != nil {
		respondDatabaseError(c, "Error fetching category", err)
		return store.Category{}, false
	}
	if typ != "" && category.Type != typ {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("category %s is not an %s category", category.Name, typ)})
		return store.Category{}, false
	}
	return category, true
}

// categoryLookup resolves imported category names case-insensitively.
// User categories win over defaults with the same name.
type categoryLookup map[string]store.Category

func newCategoryLookup(categories []store.Category) categoryLookup {
	lookup := make(categoryLookup, len(categories))
	for _, cat := range categories {
		key := cat.Type + "|" + strings.ToLower(cat.Name)
		if existing, ok := lookup[key]; ok && existing.UserID != nil {
			continue
		}
		lookup[key] = cat
	}
	return lookup
}

func (l categoryLookup) find(typ, name string) (store.Category, bool) {
	cat, ok := l[typ+"|"+strings.ToLower(strings.TrimSpace(name))]
	return cat, ok
}
