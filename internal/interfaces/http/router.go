package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kodbank-api/internal/application/auth"
	"github.com/jhoicas/kodbank-api/internal/application/statement"
	"github.com/jhoicas/kodbank-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	StatementUC *statement.StatementUseCase
	ChatUC      *usecase.ChatUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.JWTSecret)
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/logout", authHandler.Logout)
	api.Get("/auth/status", authHandler.Status)

	// Rutas protegidas (requieren cookie de sesión válida)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	accountHandler := NewAccountHandler(deps.AuthUC, deps.StatementUC)
	protected.Get("/balance", accountHandler.Balance)
	protected.Get("/profile", accountHandler.Profile)
	protected.Get("/sessions", accountHandler.Sessions)
	protected.Get("/statement", accountHandler.Statement)

	chatHandler := NewChatHandler(deps.ChatUC)
	protected.Post("/chat", chatHandler.Chat)
}
