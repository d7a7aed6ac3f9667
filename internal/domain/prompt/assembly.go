package prompt

import "strings"

// Block is one named, optional section of the system prompt. Assembly order
// is a fixed contract: persona, tenant knowledge, retrieved context, pricing,
// guardrails, qualification. Guardrails are always present and sit
// last-but-one whenever qualification criteria exist.
type Block struct {
	Name    string
	Content string
}

// Named block identifiers in assembly order.
const (
	BlockPersona       = "persona"
	BlockKnowledge     = "knowledge"
	BlockContext       = "context"
	BlockPricing       = "pricing"
	BlockGuardrails    = "guardrails"
	BlockQualification = "qualification"
)

// Input carries the tenant-configurable sections of a system prompt.
type Input struct {
	Locale        string
	Persona       string // tenant system prompt; DefaultPersona when empty
	KnowledgeText string // tenant free-text knowledge, verbatim
	Context       string // retrieved knowledge chunks, pre-rendered
	Qualification string // tenant qualification criteria
	DemoPricing   bool   // platform demo tenant gets authoritative pricing
}

// Assemble produces the ordered block list for an input.
func Assemble(in Input) []Block {
	blocks := make([]Block, 0, 6)

	persona := strings.TrimSpace(in.Persona)
	if persona == "" {
		persona = DefaultPersona
	}
	blocks = append(blocks, Block{Name: BlockPersona, Content: persona})

	if knowledge := strings.TrimSpace(in.KnowledgeText); knowledge != "" {
		blocks = append(blocks, Block{Name: BlockKnowledge, Content: "Business knowledge:\n" + knowledge})
	}

	if context := strings.TrimSpace(in.Context); context != "" {
		blocks = append(blocks, Block{
			Name: BlockContext,
			Content: "Retrieved knowledge (prefer this over assumptions; if it is insufficient, ask one clarifying question instead of guessing):\n" +
				context,
		})
	}

	if in.DemoPricing {
		blocks = append(blocks, Block{Name: BlockPricing, Content: DemoPricingLines})
	}

	blocks = append(blocks, Block{Name: BlockGuardrails, Content: Guardrails(in.Locale)})

	if qualification := strings.TrimSpace(in.Qualification); qualification != "" {
		blocks = append(blocks, Block{
			Name: BlockQualification,
			Content: "Qualification criteria (verify fit against these before proposing a next step):\n" +
				qualification,
		})
	}

	return blocks
}

// Render joins assembled blocks into the final system prompt.
func Render(blocks []Block) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, b.Content)
	}
	return strings.Join(parts, "\n\n")
}
