package main

import (
	"log"
	"net/http"
	"time"

	appconfig "cardstudio/config"
	"cardstudio/config/database"
	accountrepo "cardstudio/internal/account/repository"
	cardrepo "cardstudio/internal/card/repository"
	"cardstudio/pkg/logger"
	"cardstudio/router"
	"cardstudio/socket"
	"cardstudio/store"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables from OS")
	}

	cfg, err := appconfig.Load()
	if err != nil {
		panic(err)
	}
	logger.Init(cfg.LogLevel)
	defer logger.Log.Sync()

	var accounts accountrepo.Repository
	var cards cardrepo.Repository

	switch cfg.Driver {
	case appconfig.DriverPostgres:
		db := database.Connect(cfg.DatabaseURL)
		defer db.Close()
		accounts = accountrepo.NewPostgresRepository(db)
		cards = cardrepo.NewPostgresRepository(db)
	case appconfig.DriverFile:
		logger.Sugar.Infof("DATABASE_URL not set, using file storage in %s", cfg.DataDir)
		fs, err := store.Open(cfg.DataDir)
		if err != nil {
			logger.Sugar.Fatalf("Failed to open file store: %v", err)
		}
		accounts = fs.Accounts()
		cards = fs.Cards()
	}

	hub := socket.NewHub()
	go hub.Run()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.Setup(cfg, accounts, cards, hub),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Sugar.Infof("Backend listening on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil {
		logger.Sugar.Fatalf("Server stopped: %v", err)
	}
}
