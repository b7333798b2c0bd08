package dto

// ChatMessage un turno de la conversación. Role es "user" o "assistant".
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest entrada de POST /api/chat: historial completo de la conversación.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse respuesta del asistente más el proveedor que la generó
// (groq, huggingface, deepseek o builtin).
type ChatResponse struct {
	Reply  string `json:"reply"`
	Source string `json:"source"`
}
