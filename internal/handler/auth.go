package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/support-chat/chat-service/internal/auth"
	"github.com/support-chat/chat-service/internal/errs"
	"github.com/support-chat/chat-service/internal/model"
	"github.com/support-chat/chat-service/internal/service"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	users             *service.UserService
	jwtSecret         string
	adminSecurityCode string
}

func NewAuthHandler(users *service.UserService, jwtSecret, adminSecurityCode string) *AuthHandler {
	return &AuthHandler{users: users, jwtSecret: jwtSecret, adminSecurityCode: adminSecurityCode}
}

type registerRequest struct {
	Username     string `json:"username" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	IsAdmin      bool   `json:"is_admin"`
	SecurityCode string `json:"security_code"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if req.IsAdmin && (h.adminSecurityCode == "" || req.SecurityCode != h.adminSecurityCode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid security code for admin registration"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register"})
		return
	}
	u := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsAdmin:      req.IsAdmin,
	}
	if err := h.users.Create(c.Request.Context(), u); err != nil {
		if errors.Is(err, errs.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username or email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"is_admin": u.IsAdmin,
	})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	u, err := h.users.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		h.recordLogin(c, nil, false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		h.recordLogin(c, &u.ID, false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	h.recordLogin(c, &u.ID, true)

	token, err := auth.IssueToken(h.jwtSecret, u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"user": gin.H{
			"id":       u.ID,
			"username": u.Username,
			"email":    u.Email,
			"is_admin": u.IsAdmin,
		},
	})
}

// Me returns the authenticated identity. Useful for clients restoring a
// stored token.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := auth.MustClaims(c)
	u, err := h.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"is_admin": u.IsAdmin,
	})
}

func (h *AuthHandler) recordLogin(c *gin.Context, userID *uint64, success bool) {
	if err := h.users.RecordLogin(c.Request.Context(), userID, c.ClientIP(), success); err != nil {
		log.Error().Err(err).Msg("auth: record login history")
	}
}
