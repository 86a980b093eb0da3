// README: Prompt builder for the WhatsApp budget message.
package budget

import (
	"fmt"
	"strings"
)

const (
	promptHeader = "Você é um assistente da CVC. Gere um *Orçamento Principal* pronto para WhatsApp, claro, objetivo e padronizado."

	promptRules = `Se houver a seção "[INSTRUÇÕES DE FORMATAÇÃO]", siga-a à risca.
- Não invente preços; foque em estrutura/roteiro/organização de dados.
- Use títulos curtos, bullets e blocos claros.
- Personalize com destino, quantidade de passageiros e serviços marcados.`

	promptClosing = "Entregue apenas o texto final do orçamento (sem explicações)."

	defaultAdults   = "2"
	defaultChildren = "0"
)

// BuildPrompt renders the instruction text for a form.
// Blank fields are left out of the context block; the passenger line is always present.
func BuildPrompt(form FormData) string {
	adults := orDefault(string(form.Adults), defaultAdults)
	children := orDefault(string(form.Children), defaultChildren)

	var lines []string
	if dest := strings.TrimSpace(form.Destination); dest != "" {
		lines = append(lines, "Destino: "+dest)
	}
	lines = append(lines, fmt.Sprintf("Passageiros: %s adulto(s) e %s criança(s)", adults, children))
	if services := nonBlank(form.Services); len(services) > 0 {
		lines = append(lines, "Serviços: "+strings.Join(services, ", "))
	}
	if notes := strings.TrimSpace(form.Notes); notes != "" {
		lines = append(lines, "Observações:\n"+notes)
	}
	if pasted := strings.TrimSpace(form.PastedText); pasted != "" {
		lines = append(lines, "Texto adicional:\n"+pasted)
	}

	return strings.Join([]string{
		promptHeader,
		promptRules,
		strings.Join(lines, "\n\n"),
		promptClosing,
	}, "\n\n")
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
