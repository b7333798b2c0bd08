package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kodbank-api/internal/application/auth"
	"github.com/jhoicas/kodbank-api/internal/application/dto"
	"github.com/jhoicas/kodbank-api/internal/application/statement"
	"github.com/jhoicas/kodbank-api/internal/application/usecase"
	"github.com/jhoicas/kodbank-api/internal/domain"
	"github.com/jhoicas/kodbank-api/internal/domain/entity"
	infraai "github.com/jhoicas/kodbank-api/internal/infrastructure/ai"
	apphttp "github.com/jhoicas/kodbank-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/kodbank-api/pkg/jwt"
	"github.com/jhoicas/kodbank-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los repositorios
// ──────────────────────────────────────────────────────────────────────────────

type memUserRepo struct {
	users []*entity.User
}

func (m *memUserRepo) Create(u *entity.User) error {
	for _, e := range m.users {
		if e.UID == u.UID || e.Username == u.Username {
			return domain.ErrDuplicateUser
		}
	}
	cp := *u
	m.users = append(m.users, &cp)
	return nil
}

func (m *memUserRepo) FindByUID(uid string) (*entity.User, error) {
	for _, e := range m.users {
		if e.UID == uid {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) FindByUsername(username string) (*entity.User, error) {
	for _, e := range m.users {
		if e.Username == username {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) remove(username string) {
	out := m.users[:0]
	for _, e := range m.users {
		if e.Username != username {
			out = append(out, e)
		}
	}
	m.users = out
}

type memTokenRepo struct {
	tokens []*entity.UserToken
}

func (m *memTokenRepo) Create(t *entity.UserToken) error {
	cp := *t
	m.tokens = append(m.tokens, &cp)
	return nil
}

func (m *memTokenRepo) ListByUserUID(uid string, limit int) ([]*entity.UserToken, error) {
	var list []*entity.UserToken
	for _, t := range m.tokens {
		if t.UserUID == uid {
			cp := *t
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// fakePDFGenerator evita generar un PDF real en los tests de handler.
type fakePDFGenerator struct{}

func (fakePDFGenerator) GenerateStatementPDF(_ context.Context, _ *entity.User, _ []*entity.UserToken, _ time.Time) ([]byte, error) {
	return []byte("%PDF-1.4 fake"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Construcción de la app bajo prueba
// ──────────────────────────────────────────────────────────────────────────────

func buildAPIApp(t *testing.T) (*fiber.App, *memUserRepo, *memTokenRepo) {
	t.Helper()
	userRepo := &memUserRepo{}
	tokenRepo := &memTokenRepo{}
	authUC := auth.NewAuthUseCase(userRepo, tokenRepo, auth.JWTConfig{
		Secret:     testJWTSecret,
		ExpMinutes: testExpMin,
		Issuer:     testIssuer,
	})
	statementUC := statement.NewStatementUseCase(userRepo, tokenRepo, fakePDFGenerator{})
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	chatUC := usecase.NewChatUseCase(nil, infraai.NewBuiltinService(), log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		StatementUC: statementUC,
		ChatUC:      chatUC,
		JWTSecret:   testJWTSecret,
	})
	return app, userRepo, tokenRepo
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any, cookie string) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: pkgjwt.CookieName, Value: cookie})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func getWithCookie(t *testing.T, app *fiber.App, path, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: pkgjwt.CookieName, Value: cookie})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func registerAlice(t *testing.T, app *fiber.App) {
	t.Helper()
	resp := postJSON(t, app, "/api/register", dto.RegisterRequest{
		UID: "KB-001", Username: "alice", Password: "s3cret1",
		Email: "alice@example.com", Phone: "3001234567",
	}, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

// loginAlice inicia sesión y devuelve el valor de la cookie de sesión.
func loginAlice(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := postJSON(t, app, "/api/login", dto.LoginRequest{Username: "alice", Password: "s3cret1"}, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == pkgjwt.CookieName {
			return c.Value
		}
	}
	t.Fatal("login no dejó la cookie de sesión")
	return ""
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_CampoFaltante_Retorna400(t *testing.T) {
	app, _, _ := buildAPIApp(t)
	resp := postJSON(t, app, "/api/register", dto.RegisterRequest{
		UID: "KB-001", Username: "alice", Password: "s3cret1",
		// sin email ni phone
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegister_RolNoPermitido_Retorna400(t *testing.T) {
	app, _, _ := buildAPIApp(t)
	resp := postJSON(t, app, "/api/register", dto.RegisterRequest{
		UID: "KB-001", Username: "alice", Password: "s3cret1",
		Email: "alice@example.com", Phone: "3001234567", Role: "Admin",
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegister_Exitoso_CreaConSaldoInicialYRolCustomer(t *testing.T) {
	app, userRepo, _ := buildAPIApp(t)
	registerAlice(t, app)

	stored, err := userRepo.FindByUsername("alice")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "KB-001", stored.UID)
	assert.Equal(t, entity.RoleCustomer, stored.Role)
	assert.True(t, stored.Balance.Equal(entity.InitialBalance),
		"toda cuenta nueva arranca con el saldo inicial fijo")
	assert.NotEqual(t, "s3cret1", stored.PasswordHash, "el password nunca se guarda en claro")
}

// Propiedad: el mismo username con otro uid debe fallar con conflicto.
func TestRegister_UsernameDuplicado_Retorna409(t *testing.T) {
	app, _, _ := buildAPIApp(t)
	registerAlice(t, app)

	resp := postJSON(t, app, "/api/register", dto.RegisterRequest{
		UID: "KB-002", Username: "alice", Password: "otra",
		Email: "alice2@example.com", Phone: "3009999999",
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegister_UIDDuplicado_Retorna409(t *testing.T) {
	app, _, _ := buildAPIApp(t)
	registerAlice(t, app)

	resp := postJSON(t, app, "/api/register", dto.RegisterRequest{
		UID: "KB-001", Username: "bob", Password: "otra",
		Email: "bob@example.com", Phone: "3009999999",
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

// La respuesta de registro nunca expone el hash del password.
func TestRegister_RespuestaSinDatosSensibles(t *testing.T) {
	app, _, _ := buildAPIApp(t)
	resp := postJSON(t, app, "/api/register", dto.RegisterRequest{
		UID: "KB-001", Username: "alice", Password: "s3cret1",
		Email: "alice@example.com", Phone: "3001234567",
	}, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "password_hash")
	assert.Equal(t, "alice", body["username"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_Exitoso_DejaCookieYRegistraSesion(t *testing.T) {
	app, _, tokenRepo := buildAPIApp(t)
	registerAlice(t, app)

	resp := postJSON(t, app, "/api/login", dto.LoginRequest{Username: "alice", Password: "s3cret1"}, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == pkgjwt.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "el login debe dejar la cookie jwt_token")
	assert.True(t, cookie.HttpOnly, "la cookie de sesión debe ser HTTP-only")
	assert.Equal(t, testExpMin*60, cookie.MaxAge, "el Max-Age debe coincidir con la expiración del token")

	// El token emitido queda en el log de sesiones y verifica al mismo subject.
	require.Len(t, tokenRepo.tokens, 1)
	username, role, err := pkgjwt.Parse(testJWTSecret, tokenRepo.tokens[0].Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
	assert.Equal(t, entity.RoleCustomer, role)
}

func TestLogin_PasswordIncorrecto_Retorna401SinEmitirToken(t *testing.T) {
	app, _, tokenRepo := buildAPIApp(t)
	registerAlice(t, app)

	resp := postJSON(t, app, "/api/login", dto.LoginRequest{Username: "alice", Password: "equivocado"}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, tokenRepo.tokens, "un login fallido no debe registrar sesión")
}

func TestLogin_UsuarioInexistente_Retorna401(t *testing.T) {
	app, _, _ := buildAPIApp(t)

	resp := postJSON(t, app, "/api/login", dto.LoginRequest{Username: "nadie", Password: "x"}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_CamposFaltantes_Retorna400(t *testing.T) {
	app, _, _ := buildAPIApp(t)

	resp := postJSON(t, app, "/api/login", dto.LoginRequest{Username: "alice"}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Saldo y perfil
// ──────────────────────────────────────────────────────────────────────────────

func TestBalance_SinCookie_Retorna401(t *testing.T) {
	app, _, _ := buildAPIApp(t)

	resp := getWithCookie(t, app, "/api/balance", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBalance_ConCookie_DevuelveSaldoExacto(t *testing.T) {
	app, _, _ := buildAPIApp(t)
	registerAlice(t, app)
	cookie := loginAlice(t, app)

	resp := getWithCookie(t, app, "/api/balance", cookie)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.BalanceResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "alice", body.Username)
	assert.True(t, body.Balance.Equal(entity.InitialBalance),
		"el saldo devuelto debe ser exactamente el almacenado")
}

// Round-trip completo: register → login → profile.
func TestProfile_RoundTrip(t *testing.T) {
	app, _, _ := buildAPIApp(t)
	registerAlice(t, app)
	cookie := loginAlice(t, app)

	resp := getWithCookie(t, app, "/api/profile", cookie)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.UserResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "alice", body.Username)
	assert.Equal(t, "KB-001", body.UID)
	assert.Equal(t, "alice@example.com", body.Email)
	assert.Equal(t, entity.RoleCustomer, body.Role)
	assert.True(t, body.Balance.Equal(entity.InitialBalance))
}

// El subject del token ya no existe en la DB → 404.
func TestBalance_UsuarioDesaparecido_Retorna404(t *testing.T) {
	app, userRepo, _ := buildAPIApp(t)
	registerAlice(t, app)
	cookie := loginAlice(t, app)

	userRepo.remove("alice")

	resp := getWithCookie(t, app, "/api/balance", cookie)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estado de sesión y logout
// ──────────────────────────────────────────────────────────────────────────────

// Idempotencia: el estado de sesión no cambia entre consultas con la misma cookie.
func TestAuthStatus_Idempotente(t *testing.T) {
	app, _, _ := buildAPIApp(t)
	registerAlice(t, app)
	cookie := loginAlice(t, app)

	for i := 0; i < 3; i++ {
		resp := getWithCookie(t, app, "/api/auth/status", cookie)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body dto.AuthStatusResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()
		assert.True(t, body.LoggedIn)
		assert.Equal(t, "alice", body.Username)
	}
}

// Sin cookie el estado responde 200 con loggedIn:false, nunca 401.
func TestAuthStatus_SinCookie_Retorna200LoggedOut(t *testing.T) {
	app, _, _ := buildAPIApp(t)

	resp := getWithCookie(t, app, "/api/auth/status", "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.AuthStatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.LoggedIn)
	assert.Empty(t, body.Username)
}

func TestAuthStatus_TokenInvalido_Retorna200LoggedOut(t *testing.T) {
	app, _, _ := buildAPIApp(t)

	resp := getWithCookie(t, app, "/api/auth/status", "basura")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.AuthStatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.LoggedIn)
}

func TestLogout_LimpiaLaCookie(t *testing.T) {
	app, _, _ := buildAPIApp(t)
	registerAlice(t, app)
	cookie := loginAlice(t, app)

	resp := postJSON(t, app, "/api/logout", struct{}{}, cookie)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cleared *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == pkgjwt.CookieName {
			cleared = c
		}
	}
	require.NotNil(t, cleared, "el logout debe sobrescribir la cookie")
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.Expires.Before(time.Now()), "la cookie debe quedar vencida")
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesiones y extracto
// ──────────────────────────────────────────────────────────────────────────────

func TestSessions_ListaLasSesionesEmitidas(t *testing.T) {
	app, _, _ := buildAPIApp(t)
	registerAlice(t, app)
	loginAlice(t, app)
	cookie := loginAlice(t, app)

	resp := getWithCookie(t, app, "/api/sessions", cookie)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []dto.SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body, 2, "cada login deja una entrada en el log de sesiones")
}

func TestStatement_DevuelvePDF(t *testing.T) {
	app, _, _ := buildAPIApp(t)
	registerAlice(t, app)
	cookie := loginAlice(t, app)

	resp := getWithCookie(t, app, "/api/statement", cookie)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestStatement_SinCookie_Retorna401(t *testing.T) {
	app, _, _ := buildAPIApp(t)

	resp := getWithCookie(t, app, "/api/statement", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Chat (HTTP)
// ──────────────────────────────────────────────────────────────────────────────

func TestChat_SinCookie_Retorna401(t *testing.T) {
	app, _, _ := buildAPIApp(t)

	resp := postJSON(t, app, "/api/chat", dto.ChatRequest{
		Messages: []dto.ChatMessage{{Role: "user", Content: "hola"}},
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestChat_MensajesVacios_Retorna400(t *testing.T) {
	app, _, _ := buildAPIApp(t)
	registerAlice(t, app)
	cookie := loginAlice(t, app)

	resp := postJSON(t, app, "/api/chat", dto.ChatRequest{}, cookie)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChat_SinProveedores_RespondeTablaLocal(t *testing.T) {
	app, _, _ := buildAPIApp(t)
	registerAlice(t, app)
	cookie := loginAlice(t, app)

	resp := postJSON(t, app, "/api/chat", dto.ChatRequest{
		Messages: []dto.ChatMessage{{Role: "user", Content: "¿cómo consulto mi saldo?"}},
	}, cookie)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.ChatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "builtin", body.Source)
	assert.NotEmpty(t, body.Reply)
}
