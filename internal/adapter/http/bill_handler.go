package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendings-app/spendings-backend/internal/clock"
	"github.com/spendings-app/spendings-backend/internal/domain"
)

// billHandler serves bill CRUD.
type billHandler struct {
	repo  domain.BillRepository
	clock clock.Clock
}

func newBillHandler(repo domain.BillRepository, clk clock.Clock) *billHandler {
	return &billHandler{repo: repo, clock: clk}
}

type billReq struct {
	Name              string  `json:"name" binding:"required"`
	Amount            string  `json:"amount" binding:"required"`
	BillingStart      string  `json:"billing_start" binding:"required"`
	BillingEnd        *string `json:"billing_end"`
	DayOfMonthDebited int     `json:"day_of_month_debited" binding:"required,min=1,max=31"`
}

type billResp struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Amount            decimal.Decimal `json:"amount"`
	BillingStart      time.Time       `json:"billing_start"`
	BillingEnd        *time.Time      `json:"billing_end,omitempty"`
	DayOfMonthDebited int             `json:"day_of_month_debited"`
	CreatedAt         time.Time       `json:"created_at"`
}

func toBillResp(b *domain.Bill) billResp {
	return billResp{
		ID:                b.ID,
		Name:              b.Name,
		Amount:            b.Amount,
		BillingStart:      b.BillingStart,
		BillingEnd:        b.BillingEnd,
		DayOfMonthDebited: b.DayOfMonthDebited,
		CreatedAt:         b.CreatedAt,
	}
}

func (h *billHandler) decode(c *gin.Context, id uuid.UUID) (*domain.Bill, bool) {
	var req billReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return nil, false
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		badRequest(c, "invalid amount")
		return nil, false
	}
	start, err := parseDate(req.BillingStart)
	if err != nil {
		badRequest(c, "invalid billing_start")
		return nil, false
	}
	var end *time.Time
	if req.BillingEnd != nil {
		t, err := parseDate(*req.BillingEnd)
		if err != nil {
			badRequest(c, "invalid billing_end")
			return nil, false
		}
		end = &t
	}

	bill := &domain.Bill{
		ID:                id,
		UserID:            currentUser(c).ID,
		Name:              req.Name,
		Amount:            amount,
		BillingStart:      start,
		BillingEnd:        end,
		DayOfMonthDebited: req.DayOfMonthDebited,
	}
	if err := bill.Validate(); err != nil {
		badRequest(c, err.Error())
		return nil, false
	}
	return bill, true
}

func (h *billHandler) Create(c *gin.Context) {
	bill, ok := h.decode(c, uuid.New())
	if !ok {
		return
	}
	bill.CreatedAt = h.clock.Now()
	if err := h.repo.Create(c.Request.Context(), bill); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBillResp(bill))
}

func (h *billHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	bill, err := h.repo.GetByID(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBillResp(bill))
}

func (h *billHandler) List(c *gin.Context) {
	bills, err := h.repo.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]billResp, 0, len(bills))
	for _, b := range bills {
		resp = append(resp, toBillResp(b))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *billHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	bill, ok := h.decode(c, id)
	if !ok {
		return
	}
	if err := h.repo.Update(c.Request.Context(), bill); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBillResp(bill))
}

func (h *billHandler) Delete(c *gin.Context) {
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
