package ai

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/kodbank-api/internal/application/dto"
	"github.com/jhoicas/kodbank-api/internal/application/ports"
)

// Verificar en tiempo de compilación que BuiltinService implementa ReplyProvider.
var _ ports.ReplyProvider = (*BuiltinService)(nil)

// BuiltinService responde con una tabla local de temas bancarios por palabra
// clave. No necesita API key, no hace llamadas de red y nunca falla: es el
// fallback cuando no hay ningún proveedor externo configurado.
type BuiltinService struct {
	topics []builtinTopic
}

type builtinTopic struct {
	keys  []string
	reply func(name string) string
}

// NewBuiltinService construye el proveedor local.
func NewBuiltinService() *BuiltinService {
	return &BuiltinService{topics: builtinTopics()}
}

// Name identifica al proveedor.
func (s *BuiltinService) Name() string { return "builtin" }

// Reply busca el primer tema cuyas palabras clave aparezcan en el último
// mensaje del cliente. La comparación ignora mayúsculas y tildes
// ("interés" y "interes" coinciden).
func (s *BuiltinService) Reply(_ context.Context, messages []dto.ChatMessage, username string) (string, error) {
	var last string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			last = messages[i].Content
			break
		}
	}
	msg := normalizeText(last)
	name := displayName(username)

	for _, topic := range s.topics {
		for _, k := range topic.keys {
			if strings.Contains(msg, normalizeText(k)) {
				return topic.reply(name), nil
			}
		}
	}
	return fallbackReply(name), nil
}

// normalizeText pasa a minúsculas y elimina marcas diacríticas (NFD + quitar
// la categoría Mn) para que las palabras clave coincidan con o sin tildes.
func normalizeText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

func displayName(username string) string {
	if username == "" {
		return "cliente"
	}
	r := []rune(username)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func builtinTopics() []builtinTopic {
	return []builtinTopic{
		{
			keys: []string{"hola", "buenos dias", "buenas tardes", "buenas noches", "hey", "saludos"},
			reply: func(name string) string {
				return "¡Hola " + name + "! Soy el Asistente IA de KodBank. Puedo ayudarte con:\n" +
					"- Consejos de ahorro y presupuesto\n" +
					"- Cómo funcionan los intereses\n" +
					"- Tarjetas de crédito y préstamos\n" +
					"- Seguridad de tu cuenta\n" +
					"- Transferencias y pago de facturas\n\n¿Qué quieres saber?"
			},
		},
		{
			keys: []string{"saldo", "cuanto tengo", "balance", "disponible"},
			reply: func(name string) string {
				return "Para consultar tu saldo, " + name + ":\n\n" +
					"1. Entra al Dashboard en la barra lateral\n" +
					"2. Pulsa el botón \"Consultar saldo\"\n\n" +
					"Tu saldo está protegido con autenticación JWT: solo tú puedes verlo después de iniciar sesión."
			},
		},
		{
			keys: []string{"ahorro", "ahorrar", "guardar dinero"},
			reply: func(name string) string {
				return "Estrategias de ahorro para ti, " + name + ":\n\n" +
					"1. Regla 50/30/20: 50% necesidades, 30% gustos, 20% ahorro e inversión\n" +
					"2. Automatiza una transferencia mensual a tu cuenta de ahorros\n" +
					"3. Construye primero un fondo de emergencia de 3 a 6 meses de gastos\n" +
					"4. Revisa y cancela suscripciones que no uses\n" +
					"5. Espera 24 horas antes de cualquier compra no esencial"
			},
		},
		{
			keys: []string{"interes", "tasa", "cdt", "deposito a termino"},
			reply: func(name string) string {
				return "Así funcionan los intereses bancarios:\n\n" +
					"Cuenta de ahorros: entre 0.5% y 8% E.A., liquidación diaria sobre saldo\n" +
					"CDT: tasas mayores (9% – 13% E.A.) con plazo fijo de 30 días a 5 años\n\n" +
					"Fórmula simple: Interés = (Capital × Tasa × Tiempo) / 100\n" +
					"Para $1.000.000 COP al 10% E.A. en un año: $100.000 de interés."
			},
		},
		{
			keys: []string{"transferencia", "transferir", "enviar dinero", "pse", "giro"},
			reply: func(name string) string {
				return "Para transferir en KodBank:\n\n" +
					"1. Entra a \"Transferencias\" en la barra lateral\n" +
					"2. Ingresa los datos del beneficiario\n" +
					"3. Confirma el monto\n\n" +
					"Verifica siempre el número de cuenta del destinatario antes de confirmar."
			},
		},
		{
			keys: []string{"credito", "puntaje", "score", "datacredito", "tarjeta"},
			reply: func(name string) string {
				return "Guía rápida de puntaje crediticio:\n\n" +
					"- Paga cuotas y facturas a tiempo (es lo que más pesa)\n" +
					"- Mantén el uso de tus tarjetas por debajo del 30% del cupo\n" +
					"- No solicites varios créditos a la vez\n" +
					"- Conserva tus cuentas antiguas\n\n" +
					"Un puntaje alto te da acceso a mejores tasas."
			},
		},
		{
			keys: []string{"prestamo", "hipoteca", "cuota", "financiar", "pedir plata"},
			reply: func(name string) string {
				return "Tipos de crédito más comunes:\n\n" +
					"Hipotecario: 10% – 14% E.A., hasta 20 años\n" +
					"Libre inversión: 15% – 28% E.A., 1 a 5 años, sin garantía\n" +
					"Vehículo: 12% – 20% E.A., 1 a 7 años\n\n" +
					"Antes de firmar, compara la tasa efectiva anual total, no solo la cuota mensual."
			},
		},
		{
			keys: []string{"presupuesto", "gastos", "plan mensual"},
			reply: func(name string) string {
				return "Plantilla de presupuesto mensual, " + name + ":\n\n" +
					"- Vivienda: 30%\n- Alimentación: 16%\n- Transporte: 6%\n" +
					"- Servicios: 7%\n- Entretenimiento: 6%\n- Salud: 3%\n" +
					"- Ahorro: 20%\n- Emergencias: 6%\n- Otros: 6%\n\n" +
					"Registra cada gasto durante un mes para saber a dónde va tu dinero."
			},
		},
		{
			keys: []string{"invertir", "inversion", "fondo", "acciones", "bolsa"},
			reply: func(name string) string {
				return "Opciones de inversión por nivel de riesgo:\n\n" +
					"Bajo: CDT, fondos de renta fija\n" +
					"Medio: fondos balanceados, fondos de inversión colectiva\n" +
					"Alto: acciones, fondos indexados de renta variable\n\n" +
					"Invierte con horizonte de largo plazo y solo lo que puedas permitirte arriesgar."
			},
		},
		{
			keys: []string{"seguridad", "fraude", "otp", "phishing", "robo", "clave"},
			reply: func(name string) string {
				return "Buenas prácticas de seguridad en KodBank:\n\n" +
					"- Usa contraseñas de 12+ caracteres, distintas por cuenta\n" +
					"- Nunca compartas códigos OTP: el banco jamás los pide\n" +
					"- No abras enlaces de SMS o correos sospechosos\n" +
					"- Cierra sesión en computadores públicos\n" +
					"- Revisa tus movimientos con frecuencia\n\n" +
					"Si sospechas fraude, bloquea tu tarjeta de inmediato."
			},
		},
		{
			keys: []string{"factura", "pagar", "recibo", "luz", "agua", "recarga"},
			reply: func(name string) string {
				return "Pago de facturas en KodBank:\n\n" +
					"1. Entra a \"Pago de facturas\" en la barra lateral\n" +
					"2. Elige la categoría (energía, agua, telefonía, internet)\n" +
					"3. Ingresa tu número de cliente y confirma\n\n" +
					"Programa pagos automáticos para evitar recargos por mora."
			},
		},
		{
			keys: []string{"impuesto", "declaracion", "renta", "retencion"},
			reply: func(name string) string {
				return "Notas rápidas de impuestos:\n\n" +
					"- Revisa cada año si estás obligado a declarar renta\n" +
					"- Guarda certificados de retención y de productos financieros\n" +
					"- Los aportes voluntarios a pensión pueden reducir tu base gravable\n\n" +
					"Para casos particulares consulta a un contador."
			},
		},
		{
			keys: []string{"gracias", "genial", "excelente", "util", "buenisimo"},
			reply: func(name string) string {
				return "¡Con gusto, " + name + "! Si tienes más preguntas sobre ahorro, inversión, créditos o seguridad, aquí estoy.\n\nKodBank IA — tu asistente financiero 24/7."
			},
		},
		{
			keys: []string{"que puedes hacer", "ayuda", "que sabes", "funciones"},
			reply: func(name string) string {
				return "Esto es lo que puedo hacer por ti:\n\n" +
					"- Banca: saldo, transferencias, pago de facturas\n" +
					"- Finanzas: ahorro, presupuesto, inversión, tasas de interés\n" +
					"- Crédito: puntaje, tipos de préstamo, cuotas\n" +
					"- Seguridad: prevención de fraude\n\n" +
					"Escribe tu pregunta y te respondo de una vez."
			},
		},
	}
}

func fallbackReply(name string) string {
	return "¡Hola " + name + "! Soy el Asistente IA de KodBank.\n\n" +
		"Puedo ayudarte con ahorro, tasas de interés, puntaje crediticio, " +
		"transferencias, pago de facturas, inversión, seguridad y presupuesto.\n\n" +
		"Prueba preguntando: \"¿Cómo puedo ahorrar?\" o \"Explícame el puntaje crediticio\"."
}
