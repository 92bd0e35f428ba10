package services

import (
	"fmt"
	"strings"

	"github.com/ufro-labs/norma-cli/internal/core/domain"
)

// systemPrompt is the base instruction every provider receives. It
// binds the model to the supplied fragments: verbatim quotes, an
// explicit not-found answer, and a mandatory trailing references
// section in [document-name, p.X] format.
const systemPrompt = `Eres un asistente especializado en normativa y reglamentos universitarios.

INSTRUCCIONES ESPECÍFICAS:
1. Responde ÚNICAMENTE basándote en la información exacta de los documentos oficiales proporcionados
2. Si la información está en los documentos, cita TEXTUALMENTE las partes relevantes
3. NO inventes, supongas o agregues información que no esté explícitamente en los documentos
4. Si no encuentras la respuesta exacta, responde: "No encontré esta información específica en la normativa disponible"

FORMATO DE RESPUESTA OBLIGATORIO:
- Respuesta directa y concisa
- Citar textualmente las partes relevantes entre comillas
- Incluir SIEMPRE la sección "Referencias" al final

FORMATO DE REFERENCIAS:
Referencias:
[Nombre-del-documento, p.XX]

Prioriza siempre la exactitud sobre la completitud. Es mejor dar una respuesta parcial pero correcta que una respuesta completa pero inexacta.`

// QueryCategory is a topical specialization of the system prompt.
type QueryCategory string

// Known query categories.
const (
	CategoryGeneral    QueryCategory = "general"
	CategoryMatricula  QueryCategory = "matricula"
	CategoryNotas      QueryCategory = "notas"
	CategoryFinanciero QueryCategory = "financiero"
	CategoryTitulo     QueryCategory = "titulo"
)

// categoryKeywords maps each category to its trigger keywords.
// Order matters: the first category with a match wins.
var categoryKeywords = []struct {
	category QueryCategory
	keywords []string
}{
	{CategoryMatricula, []string{"matricula", "matrícula", "inscripcion", "inscripción", "admision", "admisión", "postular", "ingreso"}},
	{CategoryNotas, []string{"nota", "calificacion", "calificación", "promedio", "examen", "evaluacion", "evaluación", "reprobar", "aprobar"}},
	{CategoryFinanciero, []string{"arancel", "pago", "beca", "beneficio", "financiero", "dinero", "costo", "precio", "descuento"}},
	{CategoryTitulo, []string{"titulo", "título", "titulacion", "titulación", "tesis", "memoria", "graduacion", "graduación", "grado"}},
}

// specializedPrompts holds the per-category instruction block appended
// to the base system prompt.
var specializedPrompts = map[QueryCategory]string{
	CategoryMatricula:  `Especialízate en consultas sobre matrícula y admisión: proceso de matrícula, fechas importantes, requisitos, documentación necesaria, plazos y procedimientos.`,
	CategoryNotas:      `Especialízate en consultas sobre notas y evaluaciones: sistema de calificaciones, requisitos de aprobación, promedios, exámenes y recuperación de asignaturas.`,
	CategoryFinanciero: `Especialízate en consultas sobre aspectos financieros: aranceles, becas y beneficios, formas de pago, obligaciones financieras, descuentos y facilidades.`,
	CategoryTitulo:     `Especialízate en consultas sobre titulación: proceso de titulación, requisitos para obtener el título, actividades de titulación, plazos y documentación necesaria.`,
}

// DetectQueryCategory classifies a query by substring matching against
// the curated keyword lists. The first category whose list matches
// wins; queries matching nothing are CategoryGeneral.
func DetectQueryCategory(query string) QueryCategory {
	queryLower := strings.ToLower(query)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(queryLower, kw) {
				return entry.category
			}
		}
	}
	return CategoryGeneral
}

// SystemPrompt returns the system instruction for a category. Unknown
// categories get the base prompt unchanged.
func SystemPrompt(category QueryCategory) string {
	if specialized, ok := specializedPrompts[category]; ok {
		return systemPrompt + "\n\nENFOQUE ESPECIALIZADO:\n" + specialized
	}
	return systemPrompt
}

// fragmentDelimiter visibly separates rendered fragments so a model
// can attribute quoted text to a specific one.
const fragmentDelimiter = "=================================================="

// BuildUserPrompt renders the user prompt from the query and its
// retrieved grounding fragments. It is a pure function: same inputs,
// same prompt.
//
// With no fragments the prompt states explicitly that nothing relevant
// was found, steering the model toward the fixed not-found answer
// instead of invention.
func BuildUserPrompt(query string, chunks []domain.Chunk) string {
	if len(chunks) == 0 {
		return fmt.Sprintf(`Pregunta: %s

No se encontraron documentos relevantes en la base de normativa.

Respuesta: No encontré esta información específica en la normativa disponible.`, query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CONSULTA DEL USUARIO: %s\n\nDOCUMENTOS OFICIALES ENCONTRADOS:\n", query)

	for i, c := range chunks {
		b.WriteString(fragmentDelimiter + "\n")
		fmt.Fprintf(&b, "FRAGMENTO %d:\n", i+1)
		fmt.Fprintf(&b, "Fuente: %s\n", c.DisplayName())
		fmt.Fprintf(&b, "Página: %d\n", c.Page)
		fmt.Fprintf(&b, "Relevancia: %.3f\n", c.Score)
		fmt.Fprintf(&b, "Contenido exacto:\n\"%s\"\n", c.Content)
	}

	b.WriteString(`
INSTRUCCIONES:
- Analiza CUIDADOSAMENTE cada fragmento
- Responde basándote SOLO en el contenido exacto mostrado arriba
- Si la respuesta está en los fragmentos, cita las partes relevantes textualmente
- Si necesitas más información que no está disponible, indícalo claramente
- SIEMPRE incluye las referencias al final

RESPUESTA:`)

	return b.String()
}

// BuildMessages assembles the full conversation for a query: the
// category-specialized system instruction followed by the grounded
// user prompt.
func BuildMessages(query string, chunks []domain.Chunk) []domain.ChatMessage {
	return []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: SystemPrompt(DetectQueryCategory(query))},
		{Role: domain.RoleUser, Content: BuildUserPrompt(query, chunks)},
	}
}
