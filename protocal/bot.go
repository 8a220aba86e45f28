package protocal

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"

	"cinemabot/configs"
	httpAdapter "cinemabot/internal/adapters/input/http"
	telegramInput "cinemabot/internal/adapters/input/telegram"
	"cinemabot/internal/adapters/output/memory"
	"cinemabot/internal/adapters/output/postgres"
	telegramOutput "cinemabot/internal/adapters/output/telegram"
	"cinemabot/internal/adapters/output/zona"
	"cinemabot/internal/application"
	"cinemabot/pkg/database_driver/gorm"
	"cinemabot/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

type config struct {
	ENV string `mapstructure:"env"`
}

// Serve func - Wires the hexagonal layers and runs the bot alongside the HTTP surface
func Serve() error {
	app := fiber.New()
	var cfg config
	flag.StringVar(&cfg.ENV, "env", "", "the environment to use")
	flag.Parse()
	configs.InitViper("./configs", cfg.ENV)
	logrus.Info(configs.GetViper().Env)

	if err := validator.New().ValidateStruct(configs.GetViper()); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept,Authorization",
	}))

	dbConGorm, err := gorm.ConnectToPostgreSQL(
		configs.GetViper().Postgres.Host,
		configs.GetViper().Postgres.Port,
		configs.GetViper().Postgres.Username,
		configs.GetViper().Postgres.Password,
		configs.GetViper().Postgres.DbName,
		configs.GetViper().Postgres.SSLMode,
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		for range c {
			log.Println("Gracefull shut down ...")
			cancel()
			gorm.DisconnectPostgres(dbConGorm.Postgres)
			err := app.Shutdown()
			if err != nil {
				log.Println("Error when shutdown server: ", err)
			}
		}
	}()

	// Wire up the hexagonal architecture layers
	// Output adapters
	statsRepo := postgres.NewStatsRepository(dbConGorm.Postgres)
	sessionStore := memory.NewSessionStore()
	catalogClient := zona.NewCatalogClient(configs.GetViper().Catalog)

	bot, err := tgbotapi.NewBotAPI(configs.GetViper().Telegram.Token)
	if err != nil {
		logrus.Fatalf("Failed to create Telegram bot client: %v", err)
	}
	bot.Debug = configs.GetViper().App.Debug
	presenter := telegramOutput.NewPresenter(bot)

	// Application service (use case)
	srv := application.NewSearchService(
		catalogClient,
		sessionStore,
		presenter,
		statsRepo,
		configs.GetViper().Catalog.FilmsToShow,
	)

	// Input adapters
	dispatcher := telegramInput.NewDispatcher(bot, srv, configs.GetViper().Telegram.PollTimeout)
	webhookHdl := httpAdapter.NewTelegramWebhookHandler(dispatcher)
	hdl := httpAdapter.New(dbConGorm.Postgres)

	app.Get("/health", hdl.HealthCheck)

	// Telegram webhook endpoint (used instead of polling when enabled)
	webhook := app.Group("/webhook")
	{
		webhook.Post("/telegram", webhookHdl.HandleWebhook)
	}

	// The command menu is published regardless of transport mode
	dispatcher.RegisterCommands()

	if configs.GetViper().Telegram.WebhookEnabled {
		if err := registerWebhook(bot, configs.GetViper().Telegram.WebhookURL); err != nil {
			logrus.Fatalf("Failed to register Telegram webhook: %v", err)
		}
	} else {
		go func() {
			if err := dispatcher.Run(ctx); err != nil && err != context.Canceled {
				logrus.Errorf("Dispatcher stopped: %v", err)
			}
		}()
	}

	err = app.Listen(":" + configs.GetViper().App.Port)
	if err != nil {
		return err
	}

	logrus.Println("Listerning on port: ", configs.GetViper().App.Port)
	return nil
}

// registerWebhook points Telegram at the bot's webhook endpoint
func registerWebhook(bot *tgbotapi.BotAPI, baseURL string) error {
	if baseURL == "" {
		return errors.New("telegram.webhook_url is required when webhook mode is enabled")
	}

	wh, err := tgbotapi.NewWebhook(strings.TrimSuffix(baseURL, "/") + "/webhook/telegram")
	if err != nil {
		return err
	}
	if _, err := bot.Request(wh); err != nil {
		return err
	}

	logrus.Infof("Telegram webhook registered at %s", baseURL)
	return nil
}
