// Package http exposes the application over a REST API. Handlers stay
// thin: decode, call a usecase service, encode. The summary endpoints
// additionally own the degrade-to-zero policy for aggregation errors.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/spendings-app/spendings-backend/internal/clock"
	"github.com/spendings-app/spendings-backend/internal/domain"
	"github.com/spendings-app/spendings-backend/internal/log"
	"github.com/spendings-app/spendings-backend/internal/usecase/aggregate"
	"github.com/spendings-app/spendings-backend/internal/usecase/importer"
	"github.com/spendings-app/spendings-backend/internal/usecase/report"
	"github.com/spendings-app/spendings-backend/internal/usecase/token"
	"github.com/spendings-app/spendings-backend/internal/usecase/user"
)

// Server wires the usecase services to gin routes.
type Server struct {
	Users    *user.Service
	Tokens   *token.Service
	Importer *importer.Service
	Agg      *aggregate.Service
	Reports  *report.Service

	ExpenseRepo  domain.ExpenseRepository
	IncomeRepo   domain.IncomeRepository
	BillRepo     domain.BillRepository
	CategoryRepo domain.CategoryRepository

	Clock  clock.Clock
	Logger *log.Logger
}

// NewServer creates a new Server instance
func NewServer(
	users *user.Service,
	tokens *token.Service,
	imp *importer.Service,
	agg *aggregate.Service,
	reports *report.Service,
	expenseRepo domain.ExpenseRepository,
	incomeRepo domain.IncomeRepository,
	billRepo domain.BillRepository,
	categoryRepo domain.CategoryRepository,
	clk clock.Clock,
	logger *log.Logger,
) *Server {
	return &Server{
		Users:        users,
		Tokens:       tokens,
		Importer:     imp,
		Agg:          agg,
		Reports:      reports,
		ExpenseRepo:  expenseRepo,
		IncomeRepo:   incomeRepo,
		BillRepo:     billRepo,
		CategoryRepo: categoryRepo,
		Clock:        clk,
		Logger:       logger,
	}
}

// Router builds the gin engine with all routes registered. Pass the
// gin mode ("debug", "release", "test") from configuration.
func (s *Server) Router(mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}
	r := gin.New()
	r.Use(RequestLogger(s.Logger.WithComponent("http")), gin.Recovery())

	api := r.Group("/api")

	authHandler := newAuthHandler(s.Users, s.Tokens)
	api.POST("/user/register", authHandler.Register)
	api.POST("/token/create", authHandler.CreateToken)
	api.POST("/token/refresh", authHandler.RefreshToken)

	protected := api.Group("")
	protected.Use(s.authRequired())

	protected.GET("/user", authHandler.GetMe)

	expenseHandler := newExpenseHandler(s.ExpenseRepo, s.Importer)
	protected.POST("/expenses", expenseHandler.Create)
	protected.GET("/expenses", expenseHandler.List)
	protected.GET("/expenses/:id", expenseHandler.Get)
	protected.PUT("/expenses/:id", expenseHandler.Update)
	protected.DELETE("/expenses/:id", expenseHandler.Delete)
	protected.POST("/expenses/import", expenseHandler.Import)

	incomeHandler := newIncomeHandler(s.IncomeRepo)
	protected.POST("/incomes", incomeHandler.Create)
	protected.GET("/incomes", incomeHandler.List)
	protected.GET("/incomes/:id", incomeHandler.Get)
	protected.PUT("/incomes/:id", incomeHandler.Update)
	protected.DELETE("/incomes/:id", incomeHandler.Delete)

	billHandler := newBillHandler(s.BillRepo, s.Clock)
	protected.POST("/bills", billHandler.Create)
	protected.GET("/bills", billHandler.List)
	protected.GET("/bills/:id", billHandler.Get)
	protected.PUT("/bills/:id", billHandler.Update)
	protected.DELETE("/bills/:id", billHandler.Delete)

	categoryHandler := newCategoryHandler(s.CategoryRepo, s.Agg, s.Clock)
	protected.POST("/categories", categoryHandler.Create)
	protected.GET("/categories", categoryHandler.List)
	protected.PUT("/categories/:id", categoryHandler.Update)
	protected.DELETE("/categories/:id", categoryHandler.Delete)

	summaryHandler := newSummaryHandler(s.Reports, s.Logger.WithComponent("summary"))
	protected.GET("/summary/quick", summaryHandler.Quick)
	protected.GET("/summary/graph", summaryHandler.Graph)
	protected.GET("/summary/monthly", summaryHandler.Monthly)

	return r
}
