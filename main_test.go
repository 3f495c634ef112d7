package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"finanzas/db/store"
	"finanzas/ocr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var (
	testStore  *fakeStore
	testRouter *gin.Engine
	uploadDir  string
)

// fixedNow is the clock every handler test runs at
var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

// TestMain sets up the test environment
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := setupLoggingTo(io.Discard, "error", "text"); err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}

	dir, err := os.MkdirTemp("", "finanzas-uploads-*")
	if err != nil {
		log.Fatalf("Failed to create upload dir: %v", err)
	}
	uploadDir = dir

	appConfig = Config{
		Port:         3001,
		JWTSecret:    "test-secret",
		JWTExpiresIn: 100 * 365 * 24 * time.Hour,
		UploadDir:    dir,
		MaxUploadMB:  1,
		CORSOrigins:  []string{"http://localhost:5173"},
		LogLevel:     "error",
		LogFormat:    "text",
		GinMode:      gin.TestMode,
	}
	uploads, err = ocr.NewDiskStorage(dir)
	if err != nil {
		log.Fatalf("Failed to setup upload storage: %v", err)
	}

	code := m.Run()

	if err := os.RemoveAll(dir); err != nil {
		log.Printf("Failed to cleanup upload dir: %v", err)
	}
	os.Exit(code)
}

// setupTestRouter installs a fresh in-memory store and rebuilds the router
func setupTestRouter(t *testing.T) *fakeStore {
	t.Helper()

	testStore = newFakeStore()
	queries = testStore
	visionClient = nil
	nowFunc = func() time.Time { return fixedNow }
	t.Cleanup(func() {
		nowFunc = time.Now
		visionClient = nil
	})

	testRouter = setupRouter()
	return testStore
}

// createTestUser inserts a user directly into the store
func createTestUser(t *testing.T, email, role string) store.User {
	t.Helper()
	user, err := testStore.CreateUser(context.Background(), store.CreateUserParams{
		Email:    email,
		Name:     nameFromEmail(email),
		Role:     role,
		Settings: store.DefaultUserSettings(),
	})
	require.NoError(t, err)
	return user
}

// tokenFor issues a bearer token for user
func tokenFor(t *testing.T, user store.User) string {
	t.Helper()
	token, err := generateToken(user)
	require.NoError(t, err)
	return token
}

// makeRequest helper function for making HTTP requests
func makeRequest(method, url string, body io.Reader, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	testRouter.ServeHTTP(recorder, req)

	return recorder
}

// makeJSONRequest marshals payload as the request body
func makeJSONRequest(t *testing.T, method, url string, payload any, token string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return makeRequest(method, url, bytes.NewReader(body), token)
}

// makeMultipartRequest helper function for making multipart requests (file uploads)
func makeMultipartRequest(url, fieldName, fileName string, fileContent []byte, token string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile(fieldName, fileName)
	if err != nil {
		panic(err)
	}

	part.Write(fileContent)
	writer.Close()

	req := httptest.NewRequest("POST", url, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	testRouter.ServeHTTP(recorder, req)

	return recorder
}

// parseJSONResponse helper function to parse JSON response
func parseJSONResponse(recorder *httptest.ResponseRecorder, target interface{}) error {
	return json.Unmarshal(recorder.Body.Bytes(), target)
}

// errorMessage returns the "error" field of a JSON error body
func errorMessage(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, parseJSONResponse(recorder, &body))
	msg, _ := body["error"].(string)
	return msg
}

// fakeVision is an ocr.Client returning a canned result
type fakeVision struct {
	data     ocr.ReceiptData
	err      error
	calls    int
	mimeType string
}

func (f *fakeVision) ExtractReceipt(ctx context.Context, image []byte, mimeType string) (ocr.ReceiptData, error) {
	f.calls++
	f.mimeType = mimeType
	return f.data, f.err
}

func badJSON() io.Reader {
	return bytes.NewBufferString(`{"name": `)
}
