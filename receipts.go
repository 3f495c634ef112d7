package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"finanzas/db/store"
	"finanzas/ocr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const uploadsRoute = "/uploads"

var (
	errReceiptNotProcessed = errors.New("receipt has not been processed")
	errReceiptLinked       = errors.New("receipt already has a transaction")
)

type receiptTransactionRequest struct {
	CategoryID  *string          `json:"category_id"`
	Amount      *decimal.Decimal `json:"amount" swaggertype:"number"`
	Description *string          `json:"description"`
	Date        *string          `json:"date"`
}

// @Summary Upload receipt image
// @Description Store a JPEG, PNG or WebP receipt image for later processing
// @Tags receipts
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Receipt image"
// @Success 201 {object} Receipt
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/receipts/upload [post]
func uploadReceipt(c *gin.Context) {
	maxBytes := appConfig.maxUploadBytes()
	// multipart framing needs some room beyond the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+1<<20)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Image must be at most %d MB", appConfig.MaxUploadMB)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded"})
		return
	}
	defer file.Close()

	if header.Size > maxBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Image must be at most %d MB", appConfig.MaxUploadMB)})
		return
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error reading image"})
		return
	}
	head = head[:n]
	_, ext, err := ocr.DetectImage(head)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only JPEG, PNG and WebP images are allowed"})
		return
	}

	userID := currentUserID(c)
	key, err := uploads.Save(userID, ext, io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		slog.Error("Error saving receipt image", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving receipt image"})
		return
	}

	receipt, err := queries.CreateReceipt(c.Request.Context(), store.CreateReceiptParams{
		UserID:   userID,
		ImageURL: uploadsRoute + "/" + key,
	})
	if err != nil {
		if rmErr := uploads.Remove(key); rmErr != nil {
			slog.Warn("Error removing orphaned receipt image", "key", key, "error", rmErr)
		}
		respondDatabaseError(c, "Error creating receipt", err)
		return
	}
	c.JSON(http.StatusCreated, convertReceipt(receipt))
}

// @Summary Process receipt
// @Description Extract amount, date, merchant and items from the receipt image with the vision model
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Receipt ID"
// @Success 200 {object} Receipt
// @Failure 404 {object} map[string]interface{} "Receipt not found"
// @Failure 500 {object} map[string]interface{} "Error processing receipt"
// @Failure 503 {object} map[string]interface{} "OCR not configured"
// @Router /api/receipts/{id}/process [post]
func processReceipt(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "receipt")
	if !ok {
		return
	}
	if visionClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Receipt processing is not configured"})
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)
	receipt, err := queries.GetReceipt(ctx, store.GetReceiptParams{ID: id, UserID: userID})
	if err != nil {
		respondDatabaseError(c, "Error fetching receipt", err)
		return
	}

	key := receiptKey(receipt.ImageURL)
	image, err := uploads.Read(key)
	if err != nil {
		respondProcessingError(c, receipt.ID, err)
		return
	}

	data, err := visionClient.ExtractReceipt(ctx, image, ocr.MimeTypeFor(key))
	if err != nil {
		respondProcessingError(c, receipt.ID, err)
		return
	}

	categories, err := queries.ListVisibleCategories(ctx, store.ListVisibleCategoriesParams{UserID: userID, Type: store.TypeExpense})
	if err != nil {
		respondDatabaseError(c, "Error fetching categories", err)
		return
	}
	candidates := make([]ocr.CategoryCandidate, 0, len(categories))
	for _, cat := range categories {
		candidates = append(candidates, ocr.CategoryCandidate{ID: cat.ID, Name: cat.Name})
	}
	if categoryID, ok := ocr.MatchCategory(data.Category, candidates); ok {
		data.CategoryID = &categoryID
	}

	payload, err := json.Marshal(data)
	if err != nil {
		respondProcessingError(c, receipt.ID, err)
		return
	}

	updated, err := queries.UpdateReceiptOCR(ctx, store.UpdateReceiptOCRParams{
		ID:          receipt.ID,
		OCRData:     payload,
		ProcessedAt: nowFunc().UTC(),
	})
	if err != nil {
		respondDatabaseError(c, "Error saving receipt data", err)
		return
	}
	c.JSON(http.StatusOK, convertReceipt(updated))
}

// @Summary Get receipts
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} Receipt
// @Router /api/receipts [get]
func getReceipts(c *gin.Context) {
	dbReceipts, err := queries.ListReceipts(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondDatabaseError(c, "Error fetching receipts", err)
		return
	}

	receipts := make([]Receipt, 0, len(dbReceipts))
	for _, r := range dbReceipts {
		receipts = append(receipts, convertReceipt(r))
	}
	c.JSON(http.StatusOK, receipts)
}

// @Summary Get receipt
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Receipt ID"
// @Success 200 {object} Receipt
// @Failure 404 {object} map[string]interface{} "Receipt not found"
// @Router /api/receipts/{id} [get]
func getReceipt(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "receipt")
	if !ok {
		return
	}

	receipt, err := queries.GetReceipt(c.Request.Context(), store.GetReceiptParams{ID: id, UserID: currentUserID(c)})
	if err != nil {
		respondDatabaseError(c, "Error fetching receipt", err)
		return
	}
	c.JSON(http.StatusOK, convertReceipt(receipt))
}

// @Summary Delete receipt
// @Description Delete the receipt and its image; a linked transaction is kept
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Receipt ID"
// @Success 200 {object} map[string]interface{} "Receipt deleted successfully"
// @Failure 404 {object} map[string]interface{} "Receipt not found"
// @Router /api/receipts/{id} [delete]
func deleteReceipt(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "receipt")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)
	receipt, err := queries.GetReceipt(ctx, store.GetReceiptParams{ID: id, UserID: userID})
	if err != nil {
		respondDatabaseError(c, "Error fetching receipt", err)
		return
	}

	if _, err := queries.DeleteReceipt(ctx, store.DeleteReceiptParams{ID: id, UserID: userID}); err != nil {
		respondDatabaseError(c, "Error deleting receipt", err)
		return
	}
	if err := uploads.Remove(receiptKey(receipt.ImageURL)); err != nil {
		slog.Warn("Error removing receipt image", "receipt_id", id, "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Receipt deleted successfully"})
}

// @Summary Create transaction from receipt
// @Description Record an EXPENSE from the extracted data; request fields override it
// @Tags receipts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Receipt ID"
// @Param overrides body receiptTransactionRequest false "Overrides"
// @Success 201 {object} Transaction
// @Failure 400 {object} map[string]interface{} "Receipt not processed or already linked"
// @Failure 404 {object} map[string]interface{} "Receipt not found"
// @Router /api/receipts/{id}/transaction [post]
func createTransactionFromReceipt(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "receipt")
	if !ok {
		return
	}

	var req receiptTransactionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)
	receipt, err := queries.GetReceipt(ctx, store.GetReceiptParams{ID: id, UserID: userID})
	if err != nil {
		respondDatabaseError(c, "Error fetching receipt", err)
		return
	}
	if err := checkReceiptLinkable(receipt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var data ocr.ReceiptData
	if err := json.Unmarshal(receipt.OCRData, &data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Receipt data is unreadable"})
		return
	}

	params, ok := receiptTransactionParams(c, userID, receipt.ID, data, req)
	if !ok {
		return
	}

	var created store.Transaction
	err = queries.ExecTx(ctx, func(q store.Querier) error {
		var err error
		created, err = q.CreateTransaction(ctx, params)
		if err != nil {
			return err
		}
		_, err = q.LinkReceiptTransaction(ctx, store.LinkReceiptTransactionParams{ID: receipt.ID, TransactionID: created.ID})
		return err
	})
	if err != nil {
		respondDatabaseError(c, "Error creating transaction from receipt", err)
		return
	}
	c.JSON(http.StatusCreated, convertTransaction(created))
}

func checkReceiptLinkable(r store.Receipt) error {
	if r.ProcessedAt == nil || len(r.OCRData) == 0 {
		return errReceiptNotProcessed
	}
	if r.TransactionID != nil {
		return errReceiptLinked
	}
	return nil
}

// receiptTransactionParams merges the extracted data with the overrides,
// writing a 400 and returning false when a required value is missing
func receiptTransactionParams(c *gin.Context, userID, receiptID uuid.UUID, data ocr.ReceiptData, req receiptTransactionRequest) (store.CreateTransactionParams, bool) {
	var amount decimal.Decimal
	switch {
	case req.Amount != nil:
		amount = toAmount(*req.Amount)
	case data.Amount.Valid:
		amount = data.Amount.Decimal.Round(2)
	}
	if !amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be greater than 0"})
		return store.CreateTransactionParams{}, false
	}

	categoryID := data.CategoryID
	if req.CategoryID != nil {
		parsed, err := parseOptionalUUID(req.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return store.CreateTransactionParams{}, false
		}
		categoryID = parsed
	}
	if categoryID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category_id is required"})
		return store.CreateTransactionParams{}, false
	}

	dateStr := data.Date
	if req.Date != nil {
		dateStr = *req.Date
	}
	date, err := parseDateOrToday(dateStr)
	if err != nil {
		if req.Date != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return store.CreateTransactionParams{}, false
		}
		// unreadable model dates fall back to today
		date = today()
	}

	description := data.Merchant
	if req.Description != nil {
		description = *req.Description
	}

	ctx := c.Request.Context()
	if _, ok := checkCategory(c, ctx, userID, *categoryID, store.TypeExpense); !ok {
		return store.CreateTransactionParams{}, false
	}
	user, err := queries.GetUserByID(ctx, userID)
	if err != nil {
		respondDatabaseError(c, "Error fetching user", err)
		return store.CreateTransactionParams{}, false
	}

	return store.CreateTransactionParams{
		UserID:      userID,
		Type:        store.TypeExpense,
		Amount:      amount,
		Currency:    user.Settings.Currency,
		CategoryID:  *categoryID,
		Description: strings.TrimSpace(description),
		Date:        date,
		ReceiptID:   &receiptID,
	}, true
}

func respondProcessingError(c *gin.Context, receiptID uuid.UUID, err error) {
	slog.Error("Error processing receipt", "receipt_id", receiptID, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing receipt", "details": err.Error()})
}

// receiptKey is the storage key behind an image URL
func receiptKey(imageURL string) string {
	return strings.TrimPrefix(strings.TrimPrefix(imageURL, uploadsRoute), "/")
}
