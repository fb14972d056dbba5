package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/spendings-app/spendings-backend/internal/domain"
	"github.com/spendings-app/spendings-backend/internal/log"
	"github.com/spendings-app/spendings-backend/internal/usecase/report"
)

// summaryHandler serves the report endpoints. A failed aggregation
// degrades to zeros or an empty payload with a 200 rather than failing
// the whole response; the underlying error is logged here.
type summaryHandler struct {
	reports *report.Service
	logger  *log.Logger
}

func newSummaryHandler(reports *report.Service, logger *log.Logger) *summaryHandler {
	return &summaryHandler{reports: reports, logger: logger}
}

type comparisonResp struct {
	Amount    decimal.Decimal `json:"amount"`
	ChangePct decimal.Decimal `json:"change_pct"`
}

type quickSummaryResp struct {
	Daily   comparisonResp `json:"daily"`
	Weekly  comparisonResp `json:"weekly"`
	Monthly comparisonResp `json:"monthly"`
}

func (h *summaryHandler) comparison(ctx context.Context, usr *domain.User, period string,
	build func(context.Context, *domain.User) (report.AmountVsPrevious, error)) comparisonResp {
	cmp, err := build(ctx, usr)
	if err != nil {
		h.logger.Error("summary aggregation failed", "period", period, "user_id", usr.ID, "error", err)
		return comparisonResp{Amount: decimal.Zero, ChangePct: decimal.Zero}
	}
	return comparisonResp{Amount: cmp.Current, ChangePct: cmp.ChangePct}
}

func (h *summaryHandler) Quick(c *gin.Context) {
	ctx := c.Request.Context()
	usr := currentUser(c)

	c.JSON(http.StatusOK, quickSummaryResp{
		Daily:   h.comparison(ctx, usr, "daily", h.reports.Daily),
		Weekly:  h.comparison(ctx, usr, "weekly", h.reports.Weekly),
		Monthly: h.comparison(ctx, usr, "monthly", h.reports.Monthly),
	})
}

type graphResp struct {
	Days      []int             `json:"days"`
	Actual    []decimal.Decimal `json:"actual"`
	Predicted []decimal.Decimal `json:"predicted"`
}

func (h *summaryHandler) Graph(c *gin.Context) {
	usr := currentUser(c)
	graph, err := h.reports.Graph(c.Request.Context(), usr)
	if err != nil {
		h.logger.Error("graph aggregation failed", "user_id", usr.ID, "error", err)
		c.JSON(http.StatusOK, graphResp{
			Days:      []int{},
			Actual:    []decimal.Decimal{},
			Predicted: []decimal.Decimal{},
		})
		return
	}
	c.JSON(http.StatusOK, graphResp{
		Days:      graph.Days,
		Actual:    graph.Actual,
		Predicted: graph.Predicted,
	})
}

type monthlySummaryResp struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalBills    decimal.Decimal `json:"total_bills"`
}

func (h *summaryHandler) Monthly(c *gin.Context) {
	usr := currentUser(c)
	summaries, err := h.reports.MonthlySummaries(c.Request.Context(), usr)
	if err != nil {
		h.logger.Error("monthly summary aggregation failed", "user_id", usr.ID, "error", err)
		c.JSON(http.StatusOK, []monthlySummaryResp{})
		return
	}

	resp := make([]monthlySummaryResp, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, monthlySummaryResp{
			Year:          s.Year,
			Month:         int(s.Month),
			TotalExpenses: s.TotalExpenses,
			TotalIncome:   s.TotalIncome,
			TotalBills:    s.TotalBills,
		})
	}
	c.JSON(http.StatusOK, resp)
}
