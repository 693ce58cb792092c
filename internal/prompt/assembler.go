// Package prompt renders the instruction block handed to the language model.
package prompt

import (
	"fmt"
	"strings"

	"github.com/wolfman30/symptom-advisor/internal/catalog"
	"github.com/wolfman30/symptom-advisor/internal/symptoms"
)

// SystemRole is sent as the system message alongside every built prompt.
const SystemRole = "Eres un asesor de bienestar para una tienda en línea de productos naturales. " +
	"Respondes solo con información del catálogo proporcionado y nunca das diagnósticos médicos."

const (
	defaultStoreName  = "la tienda"
	defaultDisclaimer = "Esta información no sustituye la consulta con un profesional de la salud."

	headerMentioned   = "PRODUCTOS MENCIONADOS POR EL CLIENTE:"
	headerMessage     = "MENSAJE DEL CLIENTE:"
	headerAnalysis    = "ANÁLISIS DE SÍNTOMAS:"
	headerInventory   = "PRODUCTOS DISPONIBLES RELACIONADOS:"
	headerRestricted  = "INSTRUCCIONES (MODO PRODUCTO ESPECÍFICO):"
	headerGeneral     = "INSTRUCCIONES (MODO RECOMENDACIÓN GENERAL):"
	headerFormat      = "FORMATO DE RESPUESTA:"
	noInventoryNotice = "No hay productos relacionados en el catálogo para estos síntomas."
)

const restrictedInstructions = `- Responde únicamente sobre los productos mencionados por el cliente.
- Indica precio y disponibilidad de cada producto mencionado.
- Explica para qué se usa cada producto según su descripción.
- No recomiendes productos distintos a los mencionados.
- Si un producto mencionado está agotado, dilo claramente.`

const generalInstructions = `- Relaciona los síntomas detectados con los productos de la lista.
- Recomienda como máximo tres productos y explica brevemente por qué.
- Prioriza productos disponibles sobre productos agotados.
- Si ningún producto es adecuado, sugiere consultar a un profesional de la salud.
- No inventes productos que no estén en la lista.`

// Input carries everything Build needs. Mentions and the restrict flag come
// from the catalog decider; the product texts are preformatted.
type Input struct {
	Message           string
	Analysis          symptoms.Result
	RelevantProducts  string
	MentionedProducts string
	Mentions          []catalog.Mention
	Restrict          bool
}

// Assembler builds prompts deterministically from its inputs.
type Assembler struct {
	storeName  string
	disclaimer string
}

// Option customizes an Assembler.
type Option func(*Assembler)

func WithStoreName(name string) Option {
	return func(a *Assembler) {
		if strings.TrimSpace(name) != "" {
			a.storeName = strings.TrimSpace(name)
		}
	}
}

// WithDisclaimer sets the closing line the model must append.
func WithDisclaimer(text string) Option {
	return func(a *Assembler) {
		if strings.TrimSpace(text) != "" {
			a.disclaimer = strings.TrimSpace(text)
		}
	}
}

func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{storeName: defaultStoreName, disclaimer: defaultDisclaimer}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Build concatenates the prompt sections in fixed order. The general
// inventory section is left out entirely when in.Restrict is set.
func (a *Assembler) Build(in Input) string {
	sections := []string{a.role()}

	if len(in.Mentions) > 0 {
		block := strings.TrimSpace(in.MentionedProducts)
		if block == "" {
			block = FormatMentions(in.Mentions)
		}
		sections = append(sections, headerMentioned+"\n"+block)
	}

	sections = append(sections,
		headerMessage+"\n\""+strings.TrimSpace(in.Message)+"\"",
		analysisSection(in.Analysis),
	)

	if !in.Restrict {
		inventory := strings.TrimSpace(in.RelevantProducts)
		if inventory == "" {
			inventory = noInventoryNotice
		}
		sections = append(sections, headerInventory+"\n"+inventory)
	}

	if in.Restrict {
		sections = append(sections, headerRestricted+"\n"+restrictedInstructions)
	} else {
		sections = append(sections, headerGeneral+"\n"+generalInstructions)
	}

	sections = append(sections, a.closing())
	return strings.Join(sections, "\n\n")
}

func (a *Assembler) role() string {
	return fmt.Sprintf("Eres el asesor virtual de bienestar de %s. Ayudas a los clientes a encontrar productos "+
		"naturales del catálogo según los síntomas que describen. No diagnosticas enfermedades ni sustituyes "+
		"la consulta médica.", a.storeName)
}

func (a *Assembler) closing() string {
	return headerFormat + "\n" +
		"- Responde en español con un tono cálido y profesional.\n" +
		"- Usa como máximo 150 palabras y listas cortas cuando menciones productos.\n" +
		"- Incluye el precio tal como aparece en el catálogo.\n" +
		"- Termina siempre con: \"" + a.disclaimer + "\""
}

func analysisSection(r symptoms.Result) string {
	var b strings.Builder
	b.WriteString(headerAnalysis)
	b.WriteString("\n")
	b.WriteString(r.Summary)

	b.WriteString("\nCategorías detectadas: ")
	if len(r.Categories) == 0 {
		b.WriteString("ninguna")
	} else {
		b.WriteString(strings.Join(r.Categories, ", "))
	}

	b.WriteString("\nPadecimientos detectados: ")
	if len(r.Hits) == 0 {
		b.WriteString("ninguno")
	} else {
		parts := make([]string, 0, len(r.Hits))
		for _, h := range r.Hits {
			parts = append(parts, fmt.Sprintf("%s [%s, %.0f%%]", h.Term, h.Category, h.Confidence*100))
		}
		b.WriteString(strings.Join(parts, ", "))
	}
	return b.String()
}
