package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendings-app/spendings-backend/internal/domain"
	"github.com/spendings-app/spendings-backend/internal/usecase/importer"
)

// expenseHandler serves expense CRUD and CSV import.
type expenseHandler struct {
	repo     domain.ExpenseRepository
	importer *importer.Service
}

func newExpenseHandler(repo domain.ExpenseRepository, imp *importer.Service) *expenseHandler {
	return &expenseHandler{repo: repo, importer: imp}
}

type expenseReq struct {
	Amount     string     `json:"amount" binding:"required"`
	Date       string     `json:"date" binding:"required"`
	CategoryID *uuid.UUID `json:"category_id"`
}

type expenseResp struct {
	ID         uuid.UUID       `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	CategoryID *uuid.UUID      `json:"category_id,omitempty"`
}

func toExpenseResp(e *domain.Expense) expenseResp {
	return expenseResp{
		ID:         e.ID,
		Amount:     e.Amount,
		Date:       e.Date,
		CategoryID: e.CategoryID,
	}
}

func (h *expenseHandler) decode(c *gin.Context) (*expenseReq, decimal.Decimal, time.Time, bool) {
	var req expenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return nil, decimal.Zero, time.Time{}, false
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		badRequest(c, "invalid amount")
		return nil, decimal.Zero, time.Time{}, false
	}
	date, err := parseDate(req.Date)
	if err != nil {
		badRequest(c, "invalid date")
		return nil, decimal.Zero, time.Time{}, false
	}
	return &req, amount, date, true
}

func (h *expenseHandler) Create(c *gin.Context) {
	req, amount, date, ok := h.decode(c)
	if !ok {
		return
	}

	expense := &domain.Expense{
		ID:         uuid.New(),
		UserID:     currentUser(c).ID,
		CategoryID: req.CategoryID,
		Amount:     amount,
		Date:       date,
	}
	if err := expense.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.repo.Create(c.Request.Context(), expense); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toExpenseResp(expense))
}

func (h *expenseHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	expense, err := h.repo.GetByID(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toExpenseResp(expense))
}

func (h *expenseHandler) List(c *gin.Context) {
	from, to, err := queryDateRange(c)
	if err != nil {
		badRequest(c, "invalid date range")
		return
	}
	expenses, err := h.repo.List(c.Request.Context(), currentUser(c).ID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]expenseResp, 0, len(expenses))
	for _, e := range expenses {
		resp = append(resp, toExpenseResp(e))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *expenseHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, amount, date, ok := h.decode(c)
	if !ok {
		return
	}

	expense := &domain.Expense{
		ID:         id,
		UserID:     currentUser(c).ID,
		CategoryID: req.CategoryID,
		Amount:     amount,
		Date:       date,
	}
	if err := expense.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.repo.Update(c.Request.Context(), expense); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toExpenseResp(expense))
}

func (h *expenseHandler) Delete(c *gin.Context) {
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

// Import ingests a CSV file from a multipart form field named "file".
// Bad rows do not fail the request; the per-row outcome lines are
// returned so the caller sees exactly what happened.
func (h *expenseHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "missing file")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		badRequest(c, "unreadable file")
		return
	}
	defer f.Close()

	results, err := h.importer.ImportExpenses(c.Request.Context(), currentUser(c), f)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
