package main

import (
	"fmt"
	"os"

	"github.com/DRSN-tech/ecospark-backend/internal/app"
	config "github.com/DRSN-tech/ecospark-backend/internal/cfg"
	"github.com/DRSN-tech/ecospark-backend/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	// .env необязателен: в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	logCfg := config.LoadLogCfg()
	log, err := logger.NewZapLogger(logCfg.Level, logCfg.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
