package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/ledger_app/internal/core/ports/services"
	"github.com/openbooks/ledger_app/internal/middleware"
	"github.com/openbooks/ledger_app/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerBindingValidations()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Every v1 route requires an asserted identity for its audit trail.
	v1 := r.Group("/api/v1", middleware.IdentityMiddleware())

	registerAccountRoutes(v1, services.Account)
	registerJournalRoutes(v1, services.Journal)
	registerFiscalPeriodRoutes(v1, services.FiscalPeriod)
	registerBalanceRoutes(v1, services.Balance)
	registerBankAccountRoutes(v1, services.BankAccount)
	registerReconciliationRoutes(v1, services.Reconciliation)
}
