package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/spendings-app/spendings-backend/internal/usecase/token"
	"github.com/spendings-app/spendings-backend/internal/usecase/user"
)

// authHandler serves registration, login, and token refresh.
type authHandler struct {
	users  *user.Service
	tokens *token.Service
}

func newAuthHandler(users *user.Service, tokens *token.Service) *authHandler {
	return &authHandler{users: users, tokens: tokens}
}

type registerReq struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	TimeZoneID string `json:"time_zone_id"`
}

type userResp struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Surname    string    `json:"surname"`
	TimeZoneID string    `json:"time_zone_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (h *authHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	usr, err := h.users.Register(c.Request.Context(), user.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		Surname:    req.Surname,
		TimeZoneID: req.TimeZoneID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userResp{
		ID:         usr.ID,
		Email:      usr.Email,
		Name:       usr.Name,
		Surname:    usr.Surname,
		TimeZoneID: usr.TimeZoneID,
		CreatedAt:  usr.CreatedAt,
	})
}

type createTokenReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenPairResp struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ValidTill    time.Time `json:"valid_till"`
}

func (h *authHandler) CreateToken(c *gin.Context) {
	var req createTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	usr, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	pair, err := h.tokens.IssuePair(c.Request.Context(), usr)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenPairResp{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ValidTill:    pair.ValidTill,
	})
}

type refreshTokenReq struct {
	AccessToken  string `json:"access_token" binding:"required"`
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *authHandler) RefreshToken(c *gin.Context) {
	var req refreshTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	access, validTill, err := h.tokens.Refresh(c.Request.Context(), req.AccessToken, req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, tokenPairResp{
		AccessToken: access,
		ValidTill:   validTill,
	})
}

func (h *authHandler) GetMe(c *gin.Context) {
	usr := currentUser(c)
	c.JSON(http.StatusOK, userResp{
		ID:         usr.ID,
		Email:      usr.Email,
		Name:       usr.Name,
		Surname:    usr.Surname,
		TimeZoneID: usr.TimeZoneID,
		CreatedAt:  usr.CreatedAt,
	})
}
