package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendings-app/spendings-backend/internal/domain"
)

// incomeHandler serves income CRUD.
type incomeHandler struct {
	repo domain.IncomeRepository
}

func newIncomeHandler(repo domain.IncomeRepository) *incomeHandler {
	return &incomeHandler{repo: repo}
}

type incomeReq struct {
	Amount       string `json:"amount" binding:"required"`
	DateReceived string `json:"date_received" binding:"required"`
	Employer     string `json:"employer"`
}

type incomeResp struct {
	ID           uuid.UUID       `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	DateReceived time.Time       `json:"date_received"`
	Employer     string          `json:"employer"`
}

func toIncomeResp(i *domain.Income) incomeResp {
	return incomeResp{
		ID:           i.ID,
		Amount:       i.Amount,
		DateReceived: i.DateReceived,
		Employer:     i.Employer,
	}
}

func (h *incomeHandler) decode(c *gin.Context) (*incomeReq, decimal.Decimal, time.Time, bool) {
	var req incomeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return nil, decimal.Zero, time.Time{}, false
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		badRequest(c, "invalid amount")
		return nil, decimal.Zero, time.Time{}, false
	}
	date, err := parseDate(req.DateReceived)
	if err != nil {
		badRequest(c, "invalid date_received")
		return nil, decimal.Zero, time.Time{}, false
	}
	return &req, amount, date, true
}

func (h *incomeHandler) Create(c *gin.Context) {
	req, amount, date, ok := h.decode(c)
	if !ok {
		return
	}

	income := &domain.Income{
		ID:           uuid.New(),
		UserID:       currentUser(c).ID,
		Amount:       amount,
		DateReceived: date,
		Employer:     req.Employer,
	}
	if err := income.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.repo.Create(c.Request.Context(), income); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toIncomeResp(income))
}

func (h *incomeHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	income, err := h.repo.GetByID(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toIncomeResp(income))
}

func (h *incomeHandler) List(c *gin.Context) {
	from, to, err := queryDateRange(c)
	if err != nil {
		badRequest(c, "invalid date range")
		return
	}
	incomes, err := h.repo.List(c.Request.Context(), currentUser(c).ID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]incomeResp, 0, len(incomes))
	for _, i := range incomes {
		resp = append(resp, toIncomeResp(i))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *incomeHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, amount, date, ok := h.decode(c)
	if !ok {
		return
	}

	income := &domain.Income{
		ID:           id,
		UserID:       currentUser(c).ID,
		Amount:       amount,
		DateReceived: date,
		Employer:     req.Employer,
	}
	if err := income.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.repo.Update(c.Request.Context(), income); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toIncomeResp(income))
}

func (h *incomeHandler) Delete(c *gin.Context) {
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
