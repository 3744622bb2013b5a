package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"accounts-api/internal/service"
)

// AccountHandler mantiene dependencias para los endpoints de cuentas.
type AccountHandler struct {
	logger     *zap.Logger
	accountSvc *service.AccountService
	googleSvc  *service.GoogleAuthService
}

// NewAccountHandler crea una instancia de AccountHandler con sus dependencias.
func NewAccountHandler(logger *zap.Logger, accountSvc *service.AccountService, googleSvc *service.GoogleAuthService) *AccountHandler {
	return &AccountHandler{
		logger:     logger,
		accountSvc: accountSvc,
		googleSvc:  googleSvc,
	}
}

// Register maneja POST /api/auth/register.
func (h *AccountHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,min=3"`
		Email    string `json:"email" binding:"required,email"`
		Phone    string `json:"phone" binding:"required,phone"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rejectInvalid(c, "invalid register request", err)
		return
	}

	account, err := h.accountSvc.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		h.logger.Error("register failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": account})
}

// Login maneja POST /api/auth/login.
func (h *AccountHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rejectInvalid(c, "invalid login request", err)
		return
	}

	account, token, err := h.accountSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		default:
			h.logger.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not login"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": account, "token": token})
}

// GoogleLogin maneja POST /api/auth/google. Acepta la credencial en
// "credential" o "token"; "credential" gana cuando vienen ambos.
func (h *AccountHandler) GoogleLogin(c *gin.Context) {
	var req struct {
		Credential string `json:"credential"`
		Token      string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid google request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	credential := strings.TrimSpace(req.Credential)
	if credential == "" {
		credential = strings.TrimSpace(req.Token)
	}
	if credential == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Google credential is required"})
		return
	}

	account, token, err := h.googleSvc.Login(c.Request.Context(), credential)
	if err != nil {
		if errors.Is(err, service.ErrCredentialInvalid) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google credential"})
			return
		}
		h.logger.Error("google login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": account, "token": token})
}

// ListAccounts maneja GET /api/auth.
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accountSvc.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list accounts failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": accounts})
}

// GetMe maneja GET /api/auth/me.
func (h *AccountHandler) GetMe(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token is required"})
		return
	}
	h.respondAccount(c, claims.AccountID)
}

// GetAccount maneja GET /api/auth/:id.
func (h *AccountHandler) GetAccount(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	h.respondAccount(c, id)
}

// UpdateAccount maneja PUT /api/auth/:id.
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token is required"})
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req struct {
		Name     *string `json:"name" binding:"omitempty,min=3"`
		Email    *string `json:"email" binding:"omitempty,email"`
		Phone    *string `json:"phone" binding:"omitempty,phone"`
		Password *string `json:"password" binding:"omitempty,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rejectInvalid(c, "invalid update request", err)
		return
	}

	account, err := h.accountSvc.Update(c.Request.Context(), claims.AccountID, id, service.UpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only update your own account"})
		case errors.Is(err, service.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		default:
			h.logger.Error("update account failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update user"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": account})
}

// DeleteAccount maneja DELETE /api/auth/:id.
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token is required"})
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if _, err := h.accountSvc.Delete(c.Request.Context(), claims.AccountID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own account"})
		case errors.Is(err, service.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			h.logger.Error("delete account failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete user"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h *AccountHandler) respondAccount(c *gin.Context, id int64) {
	account, err := h.accountSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("get account failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": account})
}

func (h *AccountHandler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return 0, false
	}
	return id, true
}

func (h *AccountHandler) rejectInvalid(c *gin.Context, logMsg string, err error) {
	h.logger.Warn(logMsg, zap.Error(err))
	if fields, ok := bindingErrors(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}
