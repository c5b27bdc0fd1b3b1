package di

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/Rekrutin/rekrutinai-sub000/application/commands"
	"github.com/Rekrutin/rekrutinai-sub000/application/commands/bus"
	commands_handlers "github.com/Rekrutin/rekrutinai-sub000/application/commands/handlers"
	"github.com/Rekrutin/rekrutinai-sub000/application/ports"
	"github.com/Rekrutin/rekrutinai-sub000/application/queries"
	querybus "github.com/Rekrutin/rekrutinai-sub000/application/queries/bus"
	queries_handlers "github.com/Rekrutin/rekrutinai-sub000/application/queries/handlers"
	"github.com/Rekrutin/rekrutinai-sub000/infrastructure/ai"
	"github.com/Rekrutin/rekrutinai-sub000/infrastructure/config"
	"github.com/Rekrutin/rekrutinai-sub000/infrastructure/persistence/localstore"
	"github.com/Rekrutin/rekrutinai-sub000/infrastructure/persistence/supamirror"
	"github.com/Rekrutin/rekrutinai-sub000/infrastructure/plan"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	DB         *sql.DB
	Records    ports.RecordStore
	Usage      ports.UsageStore
	Mirror     ports.RemoteMirror
	Analyzer   ports.ResumeAnalyzer
	Plans      ports.PlanSource
	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideDatabase opens the local SQLite database and runs migrations
func ProvideDatabase(cfg *config.Config) (*sql.DB, error) {
	return localstore.OpenSQLite(cfg.DatabasePath)
}

// ProvideStore creates the canonical record store backed by the local database
func ProvideStore(db *sql.DB, logger *zap.Logger) *localstore.Store {
	return localstore.NewStore(db, logger)
}

// ProvideRecordStore exposes the store through its record port
func ProvideRecordStore(store *localstore.Store) ports.RecordStore {
	return store
}

// ProvideUsageStore exposes the store through its usage-counter port
func ProvideUsageStore(store *localstore.Store) ports.UsageStore {
	return store
}

// ProvideMirror creates the remote mirror, or a no-op when no remote store
// is configured so local-only mode works without credentials.
func ProvideMirror(cfg *config.Config, logger *zap.Logger) (ports.RemoteMirror, error) {
	if !cfg.MirrorEnabled() {
		logger.Info("Remote mirror disabled, running local-only")
		return supamirror.Noop{}, nil
	}
	return supamirror.NewMirror(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseTable, logger)
}

// ProvideAnalyzer creates the external resume analyzer
func ProvideAnalyzer(cfg *config.Config, logger *zap.Logger) ports.ResumeAnalyzer {
	return ai.NewAnalyzer(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, logger)
}

// ProvidePlanSource creates the subscription tier resolver
func ProvidePlanSource(cfg *config.Config) ports.PlanSource {
	return plan.NewClaimSource(cfg.DefaultPlan)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	store ports.RecordStore,
	usage ports.UsageStore,
	plans ports.PlanSource,
	mirror ports.RemoteMirror,
	analyzer ports.ResumeAnalyzer,
	logger *zap.Logger,
) *bus.CommandBus {
	commandBus := bus.NewCommandBus()
	logged := bus.LoggingMiddleware(logger)
	validated := bus.ValidationMiddleware()
	wrap := func(h bus.CommandHandler) bus.CommandHandler {
		return logged(validated(h))
	}

	commandBus.Register(commands.CreateRecordCommand{}, wrap(commands_handlers.NewCreateRecordHandler(store, usage, plans, mirror, logger)))
	commandBus.Register(commands.AdvanceStatusCommand{}, wrap(commands_handlers.NewAdvanceStatusHandler(store, mirror, logger)))
	commandBus.Register(commands.SetStatusCommand{}, wrap(commands_handlers.NewSetStatusHandler(store, mirror, logger)))
	commandBus.Register(commands.UpdateRecordFieldsCommand{}, wrap(commands_handlers.NewUpdateRecordFieldsHandler(store, mirror, logger)))
	commandBus.Register(commands.DeleteRecordCommand{}, wrap(commands_handlers.NewDeleteRecordHandler(store, mirror, logger)))
	commandBus.Register(commands.RunAnalysisCommand{}, wrap(commands_handlers.NewRunAnalysisHandler(store, usage, plans, mirror, analyzer, logger)))
	commandBus.Register(commands.AttachAnalysisCommand{}, wrap(commands_handlers.NewAttachAnalysisHandler(store, mirror, logger)))

	return commandBus
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	store ports.RecordStore,
	usage ports.UsageStore,
	plans ports.PlanSource,
	logger *zap.Logger,
) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()

	recordHandler := queries_handlers.NewRecordQueryHandler(store, usage, plans, logger)
	queryBus.Register(queries.GetRecordQuery{}, recordHandler)
	queryBus.Register(queries.ListRecordsQuery{}, recordHandler)
	queryBus.Register(queries.GetQuotaStatusQuery{}, recordHandler)
	queryBus.Register(queries.MatchAlertsQuery{}, recordHandler)

	return queryBus
}
