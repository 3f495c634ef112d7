package main

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"finanzas/db/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"

	minPasswordLength = 6
)

var (
	errInvalidToken = errors.New("invalid token")
	emailRegex      = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	currencyRegex   = regexp.MustCompile(`^[A-Z]{3}$`)
)

type authClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type settingsRequest struct {
	Currency *string `json:"currency"`
	Locale   *string `json:"locale"`
	Theme    *string `json:"theme"`
}

// Token functions

func generateToken(user store.User) (string, error) {
	now := nowFunc()
	claims := authClaims{
		UserID: user.ID.String(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(appConfig.JWTExpiresIn)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(appConfig.JWTSecret))
}

func parseToken(tokenStr string) (*authClaims, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return []byte(appConfig.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	if !token.Valid {
		return nil, errInvalidToken
	}
	return claims, nil
}

// Middleware

// authMiddleware requires a valid bearer token and stores the caller in the context
func authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenStr) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			return
		}

		claims, err := parseToken(strings.TrimSpace(tokenStr))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// requireAdmin must run after authMiddleware
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentRole(c) != store.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) uuid.UUID {
	id, _ := c.MustGet(ctxUserID).(uuid.UUID)
	return id
}

func currentRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// Auth handler functions

// @Summary Log in
// @Description Look up the user by email, creating it on first login, and issue a token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Email and optional password"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 401 {object} map[string]interface{} "Invalid credentials"
// @Failure 403 {object} map[string]interface{} "Account is deactivated"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/auth/login [post]
func login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}
	if !emailRegex.MatchString(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email"})
		return
	}

	ctx := c.Request.Context()
	user, err := queries.GetUserByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		user, err = queries.CreateUser(ctx, store.CreateUserParams{
			Email:    email,
			Name:     nameFromEmail(email),
			Role:     store.RoleUser,
			Settings: store.DefaultUserSettings(),
		})
		// a concurrent first login may have created the row
		if isUniqueViolation(err) {
			user, err = queries.GetUserByEmail(ctx, email)
		}
	}
	if err != nil {
		respondDatabaseError(c, "Error logging in", err)
		return
	}

	if user.PasswordHash != nil {
		if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is deactivated"})
		return
	}

	respondWithToken(c, http.StatusOK, user)
}

// @Summary Register
// @Description Create an account with a password
// @Tags auth
// @Accept json
// @Produce json
// @Param account body registerRequest true "Email, name and password"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 409 {object} map[string]interface{} "Email already registered"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/auth/register [post]
func register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" || strings.TrimSpace(req.Name) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email, name and password are required"})
		return
	}
	if !emailRegex.MatchString(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email"})
		return
	}
	if len(req.Password) < minPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Password must be at least %d characters", minPasswordLength)})
		return
	}

	ctx := c.Request.Context()
	if _, err := queries.GetUserByEmail(ctx, email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		respondDatabaseError(c, "Error checking email", err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondDatabaseError(c, "Error hashing password", err)
		return
	}
	hash := string(hashed)

	user, err := queries.CreateUser(ctx, store.CreateUserParams{
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		Role:         store.RoleUser,
		Settings:     store.DefaultUserSettings(),
		PasswordHash: &hash,
	})
	if err != nil {
		respondDatabaseError(c, "Error creating user", err)
		return
	}

	respondWithToken(c, http.StatusCreated, user)
}

// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} User
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "User not found"
// @Router /api/auth/me [get]
func getMe(c *gin.Context) {
	user, err := queries.GetUserByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondDatabaseError(c, "Error fetching user", err)
		return
	}
	c.JSON(http.StatusOK, convertUser(user))
}

// @Summary Update settings
// @Description Merge currency, locale and theme into the user's settings
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param settings body settingsRequest true "Settings to change"
// @Success 200 {object} User
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Router /api/auth/settings [put]
func updateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	user, err := queries.GetUserByID(ctx, currentUserID(c))
	if err != nil {
		respondDatabaseError(c, "Error fetching user", err)
		return
	}

	settings := user.Settings
	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if !currencyRegex.MatchString(currency) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "currency must be a 3-letter ISO code"})
			return
		}
		settings.Currency = currency
	}
	if req.Locale != nil {
		locale := strings.TrimSpace(*req.Locale)
		if locale == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "locale cannot be empty"})
			return
		}
		settings.Locale = locale
	}
	if req.Theme != nil {
		switch theme := strings.ToLower(strings.TrimSpace(*req.Theme)); theme {
		case "light", "dark", "system":
			settings.Theme = theme
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "theme must be light, dark or system"})
			return
		}
	}

	updated, err := queries.UpdateUserSettings(ctx, store.UpdateUserSettingsParams{ID: user.ID, Settings: settings})
	if err != nil {
		respondDatabaseError(c, "Error updating settings", err)
		return
	}
	c.JSON(http.StatusOK, convertUser(updated))
}

func respondWithToken(c *gin.Context, status int, user store.User) {
	token, err := generateToken(user)
	if err != nil {
		respondDatabaseError(c, "Error generating token", err)
		return
	}
	c.JSON(status, AuthResponse{Token: token, User: convertUser(user)})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// nameFromEmail is the local part of the address
func nameFromEmail(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

