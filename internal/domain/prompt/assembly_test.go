package prompt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitebot-server/services/assistant-api/internal/domain/prompt"
)

func blockNames(blocks []prompt.Block) []string {
	names := make([]string, 0, len(blocks))
	for _, b := range blocks {
		names = append(names, b.Name)
	}
	return names
}

func TestAssemble_BlockOrder(t *testing.T) {
	blocks := prompt.Assemble(prompt.Input{
		Locale:        "en",
		Persona:       "You are the assistant for Acme.",
		KnowledgeText: "We sell anvils.",
		Context:       "[source: https://acme.test/pricing]\nAnvils cost $10.",
		Qualification: "Budget over $1000.",
		DemoPricing:   true,
	})

	assert.Equal(t, []string{
		prompt.BlockPersona,
		prompt.BlockKnowledge,
		prompt.BlockContext,
		prompt.BlockPricing,
		prompt.BlockGuardrails,
		prompt.BlockQualification,
	}, blockNames(blocks))
}

func TestAssemble_EmptySectionsDropped(t *testing.T) {
	blocks := prompt.Assemble(prompt.Input{Locale: "en"})

	// Only persona and guardrails are unconditional.
	require.Equal(t, []string{prompt.BlockPersona, prompt.BlockGuardrails}, blockNames(blocks))
	assert.Equal(t, prompt.DefaultPersona, blocks[0].Content)
	assert.Equal(t, prompt.Guardrails("en"), blocks[1].Content)
}

func TestAssemble_GuardrailsLocalized(t *testing.T) {
	for _, locale := range []string{"en", "es", "fr", "it", "de"} {
		blocks := prompt.Assemble(prompt.Input{Locale: locale})
		assert.Equal(t, prompt.Guardrails(locale), blocks[len(blocks)-1].Content, locale)
	}

	// Unknown locales fall back to English.
	assert.Equal(t, prompt.Guardrails("en"), prompt.Guardrails("pt"))
}

func TestAssemble_WhitespaceOnlySectionsDropped(t *testing.T) {
	blocks := prompt.Assemble(prompt.Input{
		Locale:        "en",
		Persona:       "  ",
		KnowledgeText: "\n\t",
		Qualification: " ",
	})

	require.Equal(t, []string{prompt.BlockPersona, prompt.BlockGuardrails}, blockNames(blocks))
	assert.Equal(t, prompt.DefaultPersona, blocks[0].Content)
}

func TestRender(t *testing.T) {
	rendered := prompt.Render([]prompt.Block{
		{Name: "a", Content: "first"},
		{Name: "b", Content: "second"},
	})
	assert.Equal(t, "first\n\nsecond", rendered)
}

func TestLocalizedFallbacks(t *testing.T) {
	assert.NotEmpty(t, prompt.UnavailableFallback("de"))
	assert.NotEmpty(t, prompt.GenericApology("it"))
	assert.NotEmpty(t, prompt.Clarification("fr"))

	assert.Equal(t, prompt.Clarification("en"), prompt.Clarification("zz"))
	assert.True(t, strings.Contains(prompt.DemoPricingLines, "$29"))
}
