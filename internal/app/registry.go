package app

import (
	"database/sql"

	"go-leave/internal/approval"
	"go-leave/internal/balance"
	"go-leave/internal/calendar"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/leavetype"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"
	"go-leave/internal/shared/config"
	"go-leave/internal/shared/counter"
	"go-leave/internal/shared/metrics"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	m *metrics.Metrics,
	log *zap.Logger,
) error {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	approvalRepo := approval.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	calendarRepo := calendar.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer("")
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer, log)
	if err := rbacService.LoadPolicy(rbac.DefaultPermissions); err != nil {
		return err
	}

	// --- Services ---
	employeeService := employee.NewService(db, employeeRepo, outboxRepo, log)
	leaveTypeService := leavetype.NewService(leaveTypeRepo, rdb, log)
	balanceService := balance.NewService(balanceRepo, balance.Defaults{
		LeaveTypeID: cfg.Leave.DefaultLeaveTypeID,
		AnnualDays:  cfg.Leave.DefaultAnnualDays,
	}, log)
	ledger := balance.NewLedger(balanceRepo, log)
	recorder := approval.NewRecorder(approvalRepo, approval.WithLogger(log))
	calendarService := calendar.NewService(calendarRepo, rdb, cfg.Calendar.CacheTTL, m, log)
	leaveService := leave.NewService(db, leaveRepo, leave.Dependencies{
		Ledger:    ledger,
		Recorder:  recorder,
		Counter:   counterRepo,
		Outbox:    outboxRepo,
		Cache:     calendarService,
		Metrics:   m,
		TxTimeout: cfg.Database.TxTimeout,
	}, log)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService, log)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService, log)
	balanceHandler := balance.NewHandler(balanceService, log)
	approvalHandler := approval.NewHandler(recorder, log)
	leaveHandler := leave.NewHandler(leaveService, log)
	calendarHandler := calendar.NewHandler(calendarService, log)

	// --- Routes Registration ---
	api := router.Group(cfg.APIPrefix)
	api.Use(
		middleware.RateLimitByIP(rate.Limit(cfg.RateLimit.IPRPS), cfg.RateLimit.IPBurst),
		middleware.AuthMiddleware(cfg.JWT.Secret),
		middleware.ExtractActorID(),
		middleware.ContextLogger(log),
		middleware.RateLimitByUser(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
		middleware.Idempotency(rdb),
	)
	{
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService)
		balance.RegisterRoutes(api, balanceHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		approval.RegisterRoutes(api, approvalHandler, rbacService)
		calendar.RegisterRoutes(api, calendarHandler, rbacService)
	}

	return nil
}
