package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrUserNotFound   = errors.New("usuario no encontrado")
	ErrDuplicateUser  = errors.New("el uid o el username ya están registrados")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrInvalidRole    = errors.New("solo se permite el rol Customer")
	ErrUnauthorized   = errors.New("credenciales inválidas")
	ErrTokenExpired   = errors.New("sesión expirada")
	ErrInvalidToken   = errors.New("token inválido")
	ErrUpstreamFailed = errors.New("todos los proveedores de IA fallaron")
)
