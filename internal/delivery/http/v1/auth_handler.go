package v1

import (
	"net/http"

	"go-talentflow-backend/internal/delivery/http/response"
	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

// NewAuthHandler registers auth routes. The login endpoint gets its own
// stricter rate limit, so the router passes it in as loginLimiter.
func NewAuthHandler(public *gin.RouterGroup, protected *gin.RouterGroup, authUC domain.AuthUsecase, loginLimiter gin.HandlerFunc) {
	handler := &AuthHandler{authUC: authUC}

	// Public Routes
	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/register", handler.Register)
		publicAuth.POST("/login", loginLimiter, handler.Login)
		publicAuth.POST("/verify", handler.VerifyAccount)
		publicAuth.POST("/refresh", handler.Refresh)
		publicAuth.POST("/verify-token", handler.VerifyToken)
	}

	// Protected Routes
	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.GET("/me", handler.Me)
		protectedAuth.POST("/change-password", handler.ChangePassword)

		// Admin-only account lookups
		protectedAuth.GET("/accounts/:id", handler.GetAccountByID)
		protectedAuth.GET("/accounts/email/:email", handler.GetAccountByEmail)
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=candidate company"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type VerifyAccountRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type VerifyTokenRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// Register godoc
// @Summary      Account registration
// @Description  Register a new account with email, password, and role. A verification code is emailed to the address.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      RegisterRequest  true  "Registration details"
// @Success      201  {object}  response.Response{data=domain.Account}
// @Failure      400  {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	account, err := h.authUC.Register(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Account registered. Check your email for the verification code.", account)
}

// Login godoc
// @Summary      Account login
// @Description  Authenticate with email and password. Returns an access/refresh token pair.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      LoginRequest  true  "Login credentials"
// @Success      200  {object}  response.Response{data=domain.TokenPair}
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	tokens, err := h.authUC.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP(), c.GetHeader("User-Agent"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful", tokens)
}

// VerifyAccount godoc
// @Summary      Verify account email
// @Description  Confirm account ownership with the 6-digit code sent by email.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        verify  body      VerifyAccountRequest  true  "Email and verification code"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /auth/verify [post]
func (h *AuthHandler) VerifyAccount(c *gin.Context) {
	var req VerifyAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.authUC.VerifyAccount(c.Request.Context(), req.Email, req.Code); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Account verified successfully", nil)
}

// Refresh godoc
// @Summary      Refresh tokens
// @Description  Exchange a valid refresh token for a new access/refresh token pair. The old refresh token is invalidated.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        refresh  body      RefreshRequest  true  "Refresh token"
// @Success      200  {object}  response.Response{data=domain.TokenPair}
// @Failure      401  {object}  response.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	tokens, err := h.authUC.RefreshTokens(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Tokens refreshed", tokens)
}

// Me godoc
// @Summary      Current account
// @Description  Get the authenticated account.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Account}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	accountID, err := uuid.Parse(c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid session"))
		return
	}

	account, err := h.authUC.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Account retrieved", account)
}

// ChangePassword godoc
// @Summary      Change password
// @Description  Change the password of the authenticated account. All refresh tokens are revoked.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      ChangePasswordRequest  true  "Current and new password"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/change-password [post]
// @Security     BearerAuth
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	accountID, err := uuid.Parse(c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(apperror.Unauthorized("Invalid session"))
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.authUC.ChangePassword(c.Request.Context(), accountID, req.CurrentPassword, req.NewPassword); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Password changed successfully", nil)
}

// VerifyToken godoc
// @Summary      Introspect an access token
// @Description  Validate an access token and return the account it belongs to. Meant for sibling services that cannot verify the signature themselves.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      VerifyTokenRequest  true  "Access token"
// @Success      200  {object}  response.Response{data=domain.Account}
// @Failure      401  {object}  response.Response
// @Router       /auth/verify-token [post]
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	var req VerifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	account, err := h.authUC.VerifyToken(c.Request.Context(), req.AccessToken)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Token is valid", account)
}

// GetAccountByID godoc
// @Summary      Get an account by ID
// @Description  Admin lookup of any account by its ID.
// @Tags         auth
// @Produce      json
// @Param        id  path      string  true  "Account ID"
// @Success      200  {object}  response.Response{data=domain.Account}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /auth/accounts/{id} [get]
// @Security     BearerAuth
func (h *AuthHandler) GetAccountByID(c *gin.Context) {
	if c.GetString(string(domain.KeyUserRole)) != domain.RoleAdmin {
		c.Error(apperror.Forbidden("Admin access required"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid account ID"))
		return
	}

	account, err := h.authUC.GetAccount(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Account retrieved", account)
}

// GetAccountByEmail godoc
// @Summary      Get an account by email
// @Description  Admin lookup of any account by its email address.
// @Tags         auth
// @Produce      json
// @Param        email  path      string  true  "Account email"
// @Success      200  {object}  response.Response{data=domain.Account}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /auth/accounts/email/{email} [get]
// @Security     BearerAuth
func (h *AuthHandler) GetAccountByEmail(c *gin.Context) {
	if c.GetString(string(domain.KeyUserRole)) != domain.RoleAdmin {
		c.Error(apperror.Forbidden("Admin access required"))
		return
	}

	account, err := h.authUC.GetAccountByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Account retrieved", account)
}
