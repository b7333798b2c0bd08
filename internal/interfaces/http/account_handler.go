package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kodbank-api/internal/application/auth"
	"github.com/jhoicas/kodbank-api/internal/application/dto"
	"github.com/jhoicas/kodbank-api/internal/application/statement"
	"github.com/jhoicas/kodbank-api/internal/domain"
)

// AccountHandler maneja las consultas de cuenta del cliente autenticado:
// saldo, perfil, log de sesiones y extracto en PDF. Nunca confía en ningún
// identificador enviado por el cliente: siempre usa el subject verificado
// del token.
type AccountHandler struct {
	uc          *auth.AuthUseCase
	statementUC *statement.StatementUseCase
}

// NewAccountHandler construye el handler de cuenta.
func NewAccountHandler(uc *auth.AuthUseCase, statementUC *statement.StatementUseCase) *AccountHandler {
	return &AccountHandler{uc: uc, statementUC: statementUC}
}

// Balance godoc
// @Summary      Saldo del cliente autenticado
// @Tags         account
// @Produce      json
// @Success      200  {object}  dto.BalanceResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/balance [get]
func (h *AccountHandler) Balance(c *fiber.Ctx) error {
	out, err := h.uc.GetBalance(GetUsername(c))
	if err != nil {
		return accountError(c, err)
	}
	return c.JSON(out)
}

// Profile godoc
// @Summary      Perfil del cliente autenticado (sin datos sensibles)
// @Tags         account
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/profile [get]
func (h *AccountHandler) Profile(c *fiber.Ctx) error {
	out, err := h.uc.GetProfile(GetUsername(c))
	if err != nil {
		return accountError(c, err)
	}
	return c.JSON(out)
}

// Sessions godoc
// @Summary      Últimas sesiones emitidas para el cliente (auditoría)
// @Tags         account
// @Produce      json
// @Param        limit  query  int  false  "máximo de entradas (1-100, default 20)"
// @Success      200  {array}   dto.SessionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sessions [get]
func (h *AccountHandler) Sessions(c *fiber.Ctx) error {
	out, err := h.uc.ListSessions(GetUsername(c), c.QueryInt("limit", 20))
	if err != nil {
		return accountError(c, err)
	}
	return c.JSON(out)
}

// Statement godoc
// @Summary      Extracto de cuenta en PDF
// @Tags         account
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/statement [get]
func (h *AccountHandler) Statement(c *fiber.Ctx) error {
	username := GetUsername(c)
	pdfBytes, err := h.statementUC.Generate(c.Context(), username)
	if err != nil {
		return accountError(c, err)
	}
	filename := fmt.Sprintf("extracto-%s-%s.pdf", username, time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// accountError mapea errores de dominio a respuestas HTTP.
func accountError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el usuario ya no existe"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error al consultar la cuenta"})
}
