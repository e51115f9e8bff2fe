package engine

import (
	"fmt"
	"strings"

	"github.com/proferick/planeador/internal/domain"
)

const generalQueryPrompt = `Eres un asistente especializado en planes de aula. El usuario te hizo una pregunta que NO está relacionada con planes de aula.

Responde de manera BREVE (máximo 2-3 líneas) la pregunta, pero al final SIEMPRE menciona que tu especialidad es la generación de planes de aula.

PREGUNTA: "%s"

Respuesta breve + recordatorio de especialidad:`

const msgOnboarding = `👋 ¡Hola! Soy el asistente de planes de aula.

Puedo entender texto libre o notas de voz, buscar los estándares del MEN y generar el plan en PDF y Excel.

Puedes enviarme algo como:
"Matemáticas, productos notables, grado 8, período 3, mayo-junio"

¿Qué plan de aula necesitas crear?`

const msgNextTopic = `📝 ¡Perfecto! Vamos a agregar otro tema.

Dime el *tema*, *período* y *fechas* por texto o audio.`

const msgNotReady = "⚠️ Aún falta información para generar el plan."

const msgExtractionError = "⚠️ No pude procesar el mensaje. Por favor, envíalo de nuevo."

const msgRenderError = "⚠️ Ocurrió un error generando los archivos del plan."

const msgSessionError = "⚠️ Ocurrió un error interno. Por favor, intenta de nuevo."

const msgGeneralFallback = "Lo siento, mi especialidad es la generación de planes de aula. ¿Te ayudo a crear uno?"

func topicCommittedText(done domain.CompletedTopic) string {
	var b strings.Builder
	b.WriteString("✅ *Tema agregado exitosamente:*\n")
	fmt.Fprintf(&b, "• *Tema:* %s\n", done.Topic)
	fmt.Fprintf(&b, "• *Período:* %d\n", done.Period)
	fmt.Fprintf(&b, "• *Fechas:* %s\n\n", done.DateRange)
	b.WriteString("❓ *¿Quieres agregar otro tema en otras fechas?*\n")
	b.WriteString("Responde *'Sí'* para agregar otro tema o *'No'* para generar el plan.")
	return b.String()
}

func recapText(s *domain.Session) string {
	var b strings.Builder

	if s.Data.Subject != "" || s.Data.Grade != "" || len(s.Data.Topics) > 0 {
		b.WriteString("📝 *Información recolectada:*\n")
		if s.Data.Subject != "" {
			fmt.Fprintf(&b, "✅ Asignatura: %s\n", s.Data.Subject)
		}
		if s.Data.Grade != "" {
			fmt.Fprintf(&b, "✅ Grado: %s\n", s.Data.Grade)
		}
		if len(s.Data.Topics) > 0 {
			fmt.Fprintf(&b, "✅ Temas anteriores: %d\n", len(s.Data.Topics))
		}
		b.WriteString("\n")
	}

	if !s.Draft.Empty() {
		b.WriteString("📝 *Tema actual:*\n")
		if s.Draft.Topic != "" {
			fmt.Fprintf(&b, "✅ Tema: %s\n", s.Draft.Topic)
		}
		if s.Draft.Period != 0 {
			fmt.Fprintf(&b, "✅ Período: %d\n", s.Draft.Period)
		}
		if s.Draft.DateRange != "" {
			fmt.Fprintf(&b, "✅ Fechas: %s\n", s.Draft.DateRange)
		}
		b.WriteString("\n")
	}

	// General fields first, then topic fields.
	missing := append(s.Data.MissingGeneral(), s.Draft.Missing()...)
	if len(missing) > 0 {
		fmt.Fprintf(&b, "🔍 *Falta:* %s\n\n", strings.Join(missing, ", "))
		b.WriteString("Por favor proporciona la información faltante por texto o audio.")
	} else {
		b.WriteString("✅ ¡Información completa!")
	}

	return b.String()
}

func summaryText(s *domain.Session) string {
	var b strings.Builder
	b.WriteString("✅ ¡Plan de aula generado exitosamente!\n\n")
	b.WriteString("📋 *Resumen del plan:*\n")
	fmt.Fprintf(&b, "• *Asignatura:* %s\n", s.Data.Subject)
	fmt.Fprintf(&b, "• *Grado:* %s\n", s.Data.Grade)
	fmt.Fprintf(&b, "• *Total de temas:* %d\n", len(s.Data.Topics))
	for i, topic := range s.Data.Topics {
		fmt.Fprintf(&b, "  %d. %s (Período %d, %s)\n", i+1, topic.Topic, topic.Period, topic.DateRange)
	}
	b.WriteString("\n📁 Te envío los archivos generados.\n")
	b.WriteString("🔄 Para crear otro plan, escribe 'Hola' o envía un audio.")
	return b.String()
}
