package withdrawal

import (
	"art_contest_admin/internal/domain/withdrawal/handler"
	"art_contest_admin/internal/domain/withdrawal/repository"
	"art_contest_admin/internal/domain/withdrawal/service"
	"art_contest_admin/internal/pkg/registry"
)

// WithdrawalModule 提现审核
type WithdrawalModule struct{}

func init() {
	registry.Register(&WithdrawalModule{})
}

func (m *WithdrawalModule) Name() string {
	return "withdrawal"
}

func (m *WithdrawalModule) Priority() int {
	return 20
}

func (m *WithdrawalModule) Init(ctx *registry.ModuleContext) error {
	api, err := ctx.API()
	if err != nil {
		return err
	}

	var notifier service.Notifier
	if ctx.Notifier != nil {
		notifier = ctx.Notifier
	}
	var recorder service.WithdrawalRecorder
	if ctx.Metrics != nil {
		recorder = ctx.Metrics
	}

	withdrawalRepo := repository.NewWithdrawalRepository(ctx.DB)
	withdrawalService := service.NewWithdrawalService(withdrawalRepo, notifier, recorder, ctx.Cache, ctx.ModuleLogger("withdrawal"))
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalService, ctx.ModuleLogger("withdrawal"))

	group := api.Group("/withdrawals/admin")
	{
		group.GET("/all", withdrawalHandler.ListWithdrawals)
		group.GET("/:id", withdrawalHandler.GetWithdrawal)
		group.PUT("/:id/process", withdrawalHandler.ProcessWithdrawal)
	}
	return nil
}
