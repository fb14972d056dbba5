package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendings-app/spendings-backend/internal/clock"
	"github.com/spendings-app/spendings-backend/internal/domain"
	"github.com/spendings-app/spendings-backend/internal/usecase/aggregate"
)

// categoryHandler serves category CRUD. Listing folds in per-category
// expense totals for an optional date range.
type categoryHandler struct {
	repo  domain.CategoryRepository
	agg   *aggregate.Service
	clock clock.Clock
}

func newCategoryHandler(repo domain.CategoryRepository, agg *aggregate.Service, clk clock.Clock) *categoryHandler {
	return &categoryHandler{repo: repo, agg: agg, clock: clk}
}

type categoryReq struct {
	Name string `json:"name" binding:"required"`
}

type categoryResp struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	DateAdded time.Time       `json:"date_added"`
	Total     decimal.Decimal `json:"total"`
}

func (h *categoryHandler) Create(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	category := &domain.Category{
		ID:        uuid.New(),
		UserID:    currentUser(c).ID,
		Name:      req.Name,
		DateAdded: h.clock.Now(),
	}
	if err := category.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.repo.Create(c.Request.Context(), category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, categoryResp{
		ID:        category.ID,
		Name:      category.Name,
		DateAdded: category.DateAdded,
		Total:     decimal.Zero,
	})
}

func (h *categoryHandler) List(c *gin.Context) {
	from, to, err := queryDateRange(c)
	if err != nil {
		badRequest(c, "invalid date range")
		return
	}

	userID := currentUser(c).ID
	categories, err := h.repo.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]categoryResp, 0, len(categories))
	for _, category := range categories {
		total, err := h.agg.CategoryTotal(c.Request.Context(), userID, category.ID, from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		resp = append(resp, categoryResp{
			ID:        category.ID,
			Name:      category.Name,
			DateAdded: category.DateAdded,
			Total:     total,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *categoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	userID := currentUser(c).ID
	category, err := h.repo.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	category.Name = req.Name
	if err := category.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.repo.Update(c.Request.Context(), category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categoryResp{
		ID:        category.ID,
		Name:      category.Name,
		DateAdded: category.DateAdded,
	})
}

func (h *categoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
