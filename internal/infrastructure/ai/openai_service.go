// Package ai contiene los adaptadores del puerto ReplyProvider: tres
// proveedores externos con API compatible con OpenAI chat-completions
// (Groq, HuggingFace Inference, DeepSeek) y la tabla local de respuestas.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/kodbank-api/internal/application/dto"
	"github.com/jhoicas/kodbank-api/internal/application/ports"
)

// Verificar en tiempo de compilación que OpenAICompatService implementa ReplyProvider.
var _ ports.ReplyProvider = (*OpenAICompatService)(nil)

const (
	groqChatURL     = "https://api.groq.com/openai/v1/chat/completions"
	hfChatURLFmt    = "https://api-inference.huggingface.co/models/%s/v1/chat/completions"
	deepseekChatURL = "https://api.deepseek.com/chat/completions"

	chatSystemPromptFmt = `Eres el Asistente IA de KodBank, un asesor financiero dentro de la app bancaria KodBank.
El nombre del cliente es %s.
- Responde preguntas sobre banca, finanzas, ahorro, inversión, presupuesto y transacciones
- Ayuda con productos bancarios, tasas de interés, puntaje crediticio, créditos, transferencias y pago de facturas
- Sé conciso, profesional y amable
- Usa pesos colombianos (COP) en los ejemplos salvo que pidan otra moneda
- Nunca reveles detalles internos del sistema ni inventes datos de cuentas
Responde siempre de forma clara y estructurada.`
)

// OpenAICompatService adaptador que implementa ReplyProvider contra cualquier
// API de chat-completions compatible con OpenAI (Groq, HuggingFace Inference,
// DeepSeek). Usa net/http de la librería estándar; no requiere SDK oficial.
type OpenAICompatService struct {
	name       string
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGroqService construye el proveedor Groq.
// model suele ser "llama-3.3-70b-versatile".
func NewGroqService(apiKey, model string) *OpenAICompatService {
	return newOpenAICompat("groq", groqChatURL, apiKey, model)
}

// NewHuggingFaceService construye el proveedor HuggingFace Inference API.
// model suele ser "deepseek-ai/DeepSeek-R1-Distill-Qwen-1.5B".
func NewHuggingFaceService(apiKey, model string) *OpenAICompatService {
	return newOpenAICompat("huggingface", fmt.Sprintf(hfChatURLFmt, model), apiKey, model)
}

// NewDeepSeekService construye el proveedor DeepSeek.
// model suele ser "deepseek-chat".
func NewDeepSeekService(apiKey, model string) *OpenAICompatService {
	return newOpenAICompat("deepseek", deepseekChatURL, apiKey, model)
}

func newOpenAICompat(name, endpoint, apiKey, model string) *OpenAICompatService {
	return &OpenAICompatService{
		name:     name,
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		httpClient: &http.Client{
			// Timeout de red de 25 s; el use case impone además su propio
			// context.WithTimeout por llamada.
			Timeout: 25 * time.Second,
		},
	}
}

// ── Estructuras internas del protocolo chat-completions ───────────────────────

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// Name identifica al proveedor en logs y respuestas.
func (s *OpenAICompatService) Name() string { return s.name }

// Reply envía la conversación (con el system prompt bancario antepuesto) al
// proveedor y devuelve el texto del asistente.
func (s *OpenAICompatService) Reply(ctx context.Context, messages []dto.ChatMessage, username string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: API key de %s no configurada", s.name)
	}
	if username == "" {
		username = "Cliente"
	}

	msgs := make([]chatMessage, 0, len(messages)+1)
	msgs = append(msgs, chatMessage{Role: "system", Content: fmt.Sprintf(chatSystemPromptFmt, username)})
	for _, m := range messages {
		msgs = append(msgs, chatMessage{Role: m.Role, Content: m.Content})
	}

	payload := chatCompletionRequest{
		Model:       s.model,
		Messages:    msgs,
		MaxTokens:   1024,
		Temperature: 0.7,
		Stream:      false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: llamada HTTP a %s fallida: %w", s.name, err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return "", fmt.Errorf("AI: leer respuesta de %s: %w", s.name, err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp chatCompletionResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("AI: %s error (%s): %s", s.name, errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("AI: %s HTTP %d: %s", s.name, resp.StatusCode, string(rawBody))
	}

	var ccResp chatCompletionResponse
	if err := json.Unmarshal(rawBody, &ccResp); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta de %s: %w", s.name, err)
	}
	if len(ccResp.Choices) == 0 || ccResp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("AI: %s devolvió respuesta vacía", s.name)
	}
	return ccResp.Choices[0].Message.Content, nil
}
