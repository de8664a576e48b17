package main

import (
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"sweetconsole/internal/components/auth"
	"sweetconsole/internal/components/catalog"
	"sweetconsole/internal/components/dashboard"
	"sweetconsole/internal/components/shop"
	"sweetconsole/internal/server"
	"sweetconsole/internal/shared/apiclient"
	"sweetconsole/internal/shared/config"
	"sweetconsole/internal/shared/logging"
	"sweetconsole/internal/shared/storage"
)

func main() {
	// A missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	fx.New(
		fx.Provide(
			config.NewConfig,
			logging.NewLogger,
			storage.NewStore,
			apiclient.New,
			auth.NewService,
			auth.NewRouter,
			catalog.NewService,
			shop.NewRouter,
			dashboard.NewRouter,
			server.NewHealthSrvc,
			server.NewHealthHandler,
			server.NewServer,
		),
		fx.Invoke((*server.Server).Start),
	).Run()
}
