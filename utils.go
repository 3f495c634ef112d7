package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validation functions

// validateName validates that a name is not empty or just whitespace
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

// validateHexColor validates that a color is in hex format (#RRGGBB)
func validateHexColor(color string) error {
	if color == "" {
		return nil // Empty color is allowed
	}
	if !hexColorRegex.MatchString(color) {
		return fmt.Errorf("color must be in hex format (#RRGGBB)")
	}
	return nil
}

// validateTransactionType normalises INCOME/EXPENSE
func validateTransactionType(t string) (string, error) {
	switch v := strings.ToUpper(strings.TrimSpace(t)); v {
	case "INCOME", "EXPENSE":
		return v, nil
	default:
		return "", fmt.Errorf("type must be INCOME or EXPENSE")
	}
}

// validateRecurringPattern normalises DAILY/WEEKLY/MONTHLY/YEARLY
func validateRecurringPattern(p string) (string, error) {
	switch v := strings.ToUpper(strings.TrimSpace(p)); v {
	case "DAILY", "WEEKLY", "MONTHLY", "YEARLY":
		return v, nil
	default:
		return "", fmt.Errorf("recurring_pattern must be DAILY, WEEKLY, MONTHLY or YEARLY")
	}
}

// handleDatabaseError converts database errors to appropriate HTTP responses
func handleDatabaseError(err error) (statusCode int, message string) {
	if errors.Is(err, pgx.ErrNoRows) {
		return http.StatusNotFound, "Resource not found"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			switch pgErr.ConstraintName {
			case "users_email_key":
				return http.StatusConflict, "User with this email already exists"
			case "checklist_completions_item_user_period_key":
				return http.StatusConflict, "Checklist item already completed for this period"
			}
			return http.StatusConflict, "Resource already exists"
		case "23503":
			return http.StatusBadRequest, "Referenced resource does not exist"
		case "23514":
			return http.StatusBadRequest, "Value violates a constraint"
		}
	}

	return http.StatusInternalServerError, "Internal server error"
}

// respondDatabaseError logs server failures and writes the mapped status
func respondDatabaseError(c *gin.Context, action string, err error) {
	statusCode, message := handleDatabaseError(err)
	if statusCode >= http.StatusInternalServerError {
		slog.Error(action, "error", err, "path", c.FullPath())
	}
	c.JSON(statusCode, gin.H{"error": message})
}

// parseIDParam reads a UUID path parameter, writing a 400 when it is malformed
func parseIDParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + label + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalUUID parses a nullable id string
func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*s))
	if err != nil {
		return nil, fmt.Errorf("invalid UUID format: %s", *s)
	}
	return &id, nil
}

// parseDate accepts YYYY-MM-DD or RFC3339 and returns the UTC day
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// parseDateOrToday returns today when s is empty
func parseDateOrToday(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return today(), nil
	}
	return parseDate(s)
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseDateQuery reads an optional date query parameter
func parseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	t, err := parseDate(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date", name)
	}
	return &t, nil
}

// parseIntQuery reads an optional integer query parameter
func parseIntQuery(c *gin.Context, name string, def int) (int, error) {
	v := c.Query(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return n, nil
}

// parseMonthYear reads month and year query parameters, defaulting to the current month
func parseMonthYear(c *gin.Context) (int, int, error) {
	now := nowFunc().UTC()
	month, err := parseIntQuery(c, "month", int(now.Month()))
	if err != nil {
		return 0, 0, err
	}
	year, err := parseIntQuery(c, "year", now.Year())
	if err != nil {
		return 0, 0, err
	}
	if err := validateMonthYear(month, year); err != nil {
		return 0, 0, err
	}
	return month, year, nil
}

func validateMonthYear(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month must be between 1 and 12")
	}
	if year < 1900 || year > 9999 {
		return fmt.Errorf("invalid year")
	}
	return nil
}

// nowFunc is replaced in tests
var nowFunc = time.Now

func today() time.Time {
	y, m, d := nowFunc().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// toAmount rounds a bound request amount to cents
func toAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func toAmountPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	r := toAmount(*d)
	return &r
}
