package locale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/usermanual/internal/assessment"
)

func TestLanguages(t *testing.T) {
	assert.Equal(t, []string{"de", "en"}, Languages())
}

func TestGet(t *testing.T) {
	b, err := Get("")
	require.NoError(t, err)
	assert.Equal(t, "en", b.Lang())
	assert.Equal(t, "English", b.Name())

	b, err = Get(" DE ")
	require.NoError(t, err)
	assert.Equal(t, "de", b.Lang())
	assert.Equal(t, "German", b.Name())

	_, err = Get("fr")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestBundles_Complete(t *testing.T) {
	for _, lang := range Languages() {
		t.Run(lang, func(t *testing.T) {
			b := MustGet(lang)
			assert.Empty(t, b.Missing())

			c := b.Catalog()
			assert.Equal(t, 43, c.Len())
			for _, q := range c.Questions() {
				assert.NotEmpty(t, q.Category, "q%d", q.ID)
				assert.NotEmpty(t, q.OptionA, "q%d", q.ID)
				assert.NotEmpty(t, q.OptionB, "q%d", q.ID)
			}
			require.NoError(t, assessment.ValidateRules(c))
		})
	}
}

func TestBundles_SameStructure(t *testing.T) {
	en := MustGet("en").Catalog().Questions()
	de := MustGet("de").Catalog().Questions()
	require.Len(t, de, len(en))
	for i := range en {
		assert.Equal(t, en[i].ID, de[i].ID)
		assert.Equal(t, en[i].Phase, de[i].Phase)
		assert.Equal(t, en[i].Scenario == "", de[i].Scenario == "", "q%d scenario", en[i].ID)
		assert.Equal(t, en[i].Context == "", de[i].Context == "", "q%d context", en[i].ID)
	}
}

func TestBundle_Lookups(t *testing.T) {
	en := MustGet("en")
	de := MustGet("de")

	assert.Equal(t, "Openness to Experience", en.Trait(assessment.Openness))
	assert.Equal(t, "Offenheit für Erfahrungen", de.Trait(assessment.Openness))
	assert.Equal(t, "Phase 1: Discovery", en.PhaseTitle(assessment.PhaseDiscovery))
	assert.Equal(t, "Kapitel", de.Text("chapter"))
	assert.Equal(t, "Strongly", en.Intensity(assessment.Strongly))
	assert.Equal(t, "no-such-key", en.Text("no-such-key"))

	q, ok := en.Catalog().Lookup(21)
	require.True(t, ok)
	assert.NotEmpty(t, q.Scenario)
	q, ok = en.Catalog().Lookup(36)
	require.True(t, ok)
	assert.NotEmpty(t, q.Context)
}

func TestBundle_IsLabelSet(t *testing.T) {
	var _ assessment.LabelSet = MustGet("en")

	res := assessment.Analyze(nil)
	out := assessment.SerializeScores(res, MustGet("en"))
	assert.Contains(t, out, "Stress Patterns: None")
}

func TestParse_Errors(t *testing.T) {
	_, err := parse([]byte("strings: {}\n"))
	assert.Error(t, err)

	_, err = parse([]byte("lang: xx\nquestions:\n  - id: 1\n    category: c\n    a: a\n    b: b\n"))
	assert.ErrorContains(t, err, "question 2: no text")
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, time.March, 7, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "March 07, 2026", MustGet("en").FormatDate(d))
	assert.Equal(t, "07. März 2026", MustGet("de").FormatDate(d))
}
