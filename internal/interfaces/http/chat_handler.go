package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kodbank-api/internal/application/dto"
	"github.com/jhoicas/kodbank-api/internal/application/usecase"
	"github.com/jhoicas/kodbank-api/internal/domain"
)

// ChatHandler maneja el endpoint del asistente IA.
type ChatHandler struct {
	uc *usecase.ChatUseCase
}

// NewChatHandler construye el handler.
func NewChatHandler(uc *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

// Chat godoc
// @Summary      Conversar con el asistente IA de KodBank
// @Description  Recorre los proveedores configurados en orden (Groq, HuggingFace, DeepSeek) y devuelve la primera respuesta exitosa; sin proveedores configurados responde la tabla local de temas bancarios.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChatRequest  true  "historial de mensajes role/content"
// @Success      200   {object}  dto.ChatResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	out, err := h.uc.Chat(c.Context(), req, GetUsername(c))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "se requiere un arreglo messages con roles user/assistant"})
		}
		if errors.Is(err, domain.ErrUpstreamFailed) {
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: "el servicio de IA no está disponible, intenta de nuevo"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error en el chat"})
	}
	return c.JSON(out)
}
