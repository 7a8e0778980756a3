package main

import (
	_ "carwash_payouts/docs"
	"carwash_payouts/internal/adapter/http/routes"
	"carwash_payouts/internal/config"
	"carwash_payouts/internal/infrastructure/logging"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

// @title           Car Wash Payouts API
// @version         1.0
// @description     Worker earnings, custody deductions and payment requests backed by DynamoDB.

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey UserID
// @in header
// @name X-User-ID
// @description Caller identity set by the upstream gateway.

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("[app][main] invalid configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.IsProduction())

	if err := routes.Run(cfg); err != nil {
		logrus.WithError(err).Fatal("[app][main] failed to start the application")
	}
}
