package escrowledger

import (
	"log/slog"

	"aidvault/contexts/aid-disbursement/escrow-ledger/adapters/auth"
	httpadapter "aidvault/contexts/aid-disbursement/escrow-ledger/adapters/http"
	"aidvault/contexts/aid-disbursement/escrow-ledger/adapters/memory"
	"aidvault/contexts/aid-disbursement/escrow-ledger/application"
	"aidvault/contexts/aid-disbursement/escrow-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
	Tokens  *memory.TokenLedger
}

type Dependencies struct {
	Repository  ports.Repository
	Tokens      ports.TokenService
	Auth        ports.Authorizer
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	PoolAccount string
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:        deps.Repository,
		Tokens:      deps.Tokens,
		Auth:        deps.Auth,
		Clock:       deps.Clock,
		IDGen:       deps.IDGenerator,
		PoolAccount: deps.PoolAccount,
		Logger:      deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	tokens := memory.NewTokenLedger()
	module := NewModule(Dependencies{
		Repository:  store,
		Tokens:      tokens,
		Auth:        auth.ContextAttestor{},
		Clock:       store,
		IDGenerator: store,
		PoolAccount: "escrow-pool",
		Logger:      logger,
	})
	module.Store = store
	module.Tokens = tokens
	return module
}
