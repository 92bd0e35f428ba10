// Package stub provides answer-generation backends that never call a
// real model: a keyword-matched canned provider for tests and no-cost
// runs, and a disabled provider used when a credential is missing.
package stub

import (
	"context"
	"strings"

	"github.com/ufro-labs/norma-cli/internal/core/domain"
	"github.com/ufro-labs/norma-cli/internal/core/ports/driven"
)

// Ensure both variants implement the interface.
var (
	_ driven.Provider = (*Provider)(nil)
	_ driven.Provider = (*Disabled)(nil)
)

// cannedCost is the fixed simulated cost per call.
const cannedCost = 0.0001

// cannedAnswer pairs trigger keywords with a fixed grounded-looking
// answer, Referencias block included.
type cannedAnswer struct {
	keywords []string
	answer   string
}

var cannedAnswers = []cannedAnswer{
	{
		keywords: []string{"matrícula", "matricula", "inscripción", "inscripcion", "admisión", "admision"},
		answer: `Según el Reglamento de Admisión para carreras de Pregrado, "la matrícula es el acto académico mediante el cual el estudiante se incorpora oficialmente a la Universidad y a una carrera específica".

Referencias:
[Reglamento-de-Admision-para-carreras-de-Pregrado, p.15]`,
	},
	{
		keywords: []string{"nota", "calificación", "calificacion", "promedio"},
		answer: `De acuerdo al Reglamento de Régimen de Estudios 2023, "la escala de calificaciones va de 1.0 a 7.0, siendo la nota mínima de aprobación 4.0".

Referencias:
[Reglamento-de-Regimen-de-Estudios-2023, p.23]`,
	},
	{
		keywords: []string{"arancel", "pago", "beca"},
		answer: `Según el Reglamento de Obligaciones Financieras, "los aranceles y derechos universitarios deben cancelarse en los plazos establecidos por la Universidad".

Referencias:
[Reglamento-de-Obligaciones-Financieras, p.8]`,
	},
	{
		keywords: []string{"título", "titulo", "titulación", "titulacion", "tesis"},
		answer: `El Reglamento de Actividad de Titulación establece que "para obtener el título profesional, el estudiante debe completar satisfactoriamente una actividad de titulación".

Referencias:
[Reglamento-Actividad-de-Titulacion, p.12]`,
	},
}

const defaultAnswer = `No encontré esta información específica en la normativa disponible.

Referencias:
[Documentos-varios, p.N/A]`

// Provider is a no-cost backend returning canned answers by keyword.
type Provider struct{}

// New creates a stub provider.
func New() *Provider {
	return &Provider{}
}

// Name returns the stable human-readable provider label.
func (p *Provider) Name() string {
	return "stub"
}

// Chat returns the canned answer whose keywords match the last user
// message; it never fails.
func (p *Provider) Chat(_ context.Context, messages []domain.ChatMessage) (string, error) {
	var query string
	for _, m := range messages {
		if m.Role == domain.RoleUser {
			query = m.Content
		}
	}
	queryLower := strings.ToLower(query)

	for _, c := range cannedAnswers {
		for _, kw := range c.keywords {
			if strings.Contains(queryLower, kw) {
				return c.answer, nil
			}
		}
	}
	return defaultAnswer, nil
}

// EstimateCost returns a fixed symbolic cost.
func (p *Provider) EstimateCost(_, _ int) float64 {
	return cannedCost
}

// Disabled is the graceful-degradation variant constructed when a real
// provider has no credential. Every call succeeds with a clearly marked
// disabled answer at zero cost, so orchestration never special-cases
// missing credentials.
type Disabled struct {
	name   string
	reason string
}

// NewDisabled creates a disabled provider carrying the degradation
// reason shown to the user.
func NewDisabled(name, reason string) *Disabled {
	return &Disabled{name: name, reason: reason}
}

// Name returns the label of the provider this stands in for.
func (d *Disabled) Name() string {
	return d.name + " (deshabilitado)"
}

// Chat returns the disabled notice; it never fails.
func (d *Disabled) Chat(_ context.Context, _ []domain.ChatMessage) (string, error) {
	return "[Proveedor deshabilitado] " + d.reason, nil
}

// EstimateCost is always zero for a disabled provider.
func (d *Disabled) EstimateCost(_, _ int) float64 {
	return 0
}
