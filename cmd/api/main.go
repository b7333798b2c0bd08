package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/kodbank-api/internal/application/auth"
	"github.com/jhoicas/kodbank-api/internal/application/ports"
	"github.com/jhoicas/kodbank-api/internal/application/statement"
	"github.com/jhoicas/kodbank-api/internal/application/usecase"
	infraai "github.com/jhoicas/kodbank-api/internal/infrastructure/ai"
	infrapdf "github.com/jhoicas/kodbank-api/internal/infrastructure/pdf"
	"github.com/jhoicas/kodbank-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/kodbank-api/internal/interfaces/http"
	"github.com/jhoicas/kodbank-api/pkg/config"
	"github.com/jhoicas/kodbank-api/pkg/logger"

	_ "github.com/jhoicas/kodbank-api/docs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(cfg.DB); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	userRepo := postgres.NewUserRepository(pool)
	tokenRepo := postgres.NewTokenRepository(pool)

	authUC := auth.NewAuthUseCase(userRepo, tokenRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	pdfGenerator := infrapdf.NewMarotoStatementGenerator()
	statementUC := statement.NewStatementUseCase(userRepo, tokenRepo, pdfGenerator)

	// Cadena de proveedores de chat según las llaves configuradas.
	// Orden: Groq (más rápido) → HuggingFace → DeepSeek. Sin llaves, el
	// use case usa la tabla local de respuestas.
	var providers []ports.ReplyProvider
	if cfg.AI.GroqAPIKey != "" {
		providers = append(providers, infraai.NewGroqService(cfg.AI.GroqAPIKey, cfg.AI.GroqModel))
	}
	if cfg.AI.HFAPIKey != "" {
		providers = append(providers, infraai.NewHuggingFaceService(cfg.AI.HFAPIKey, cfg.AI.HFModel))
	}
	if cfg.AI.DeepSeekAPIKey != "" {
		providers = append(providers, infraai.NewDeepSeekService(cfg.AI.DeepSeekAPIKey, cfg.AI.DeepSeekModel))
	}
	chatUC := usecase.NewChatUseCase(providers, infraai.NewBuiltinService(), log)
	log.Info().Int("providers", len(providers)).Msg("proveedores de chat configurados")

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 45, // el chat puede tardar por los proveedores externos
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// CORS con credentials: la cookie de sesión debe viajar desde el front.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.AllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET, POST, OPTIONS",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "KodBank API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		StatementUC: statementUC,
		ChatUC:      chatUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
