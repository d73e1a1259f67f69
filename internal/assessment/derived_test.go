package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContrasts(t *testing.T) {
	got := Contrasts(answersOf(t, [3]int{14, chA, 1}, [3]int{15, chB, 2}, [3]int{18, chA, 3}))
	require.Len(t, got, 4)

	assert.Equal(t, Contrast{DecisionSpeed, DescImpulsive, DescParalysis}, got[0])
	assert.Equal(t, Contrast{RiskProfile, DescSteadyOpt, DescThrillSeek}, got[1])
	// q16 unanswered falls back to the B-side descriptors.
	assert.Equal(t, Contrast{ConflictStyle, DescHarmonious, DescAggressive}, got[2])
	assert.Equal(t, Contrast{LearningMode, DescExperimental, DescTheoretical}, got[3])
}

func TestEnvironment(t *testing.T) {
	traits := SeedVector()
	traits[Autonomy] = 6
	traits[LaunchDrive] = 5
	traits[Extraversion] = 10
	traits[Mastery] = 1

	got := Environment(traits)
	require.Len(t, got, 4)

	tests := []struct {
		trait   Trait
		high    bool
		thrives Descriptor
		fails   Descriptor
	}{
		{Autonomy, true, DescHighAutonomy, DescMicromanaged},
		{LaunchDrive, false, DescMethodicalOrg, DescMoveFast},
		{Extraversion, true, DescCollaborative, DescIsolated},
		{Mastery, false, DescExecutionFocused, DescConstantReinvention},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.trait, got[i].Trait)
		assert.Equal(t, tt.high, got[i].High, tt.trait.String())
		assert.Equal(t, tt.thrives, got[i].Thrives, tt.trait.String())
		assert.Equal(t, tt.fails, got[i].Fails, tt.trait.String())
	}
}

func TestTraitGroups(t *testing.T) {
	assert.Equal(t, []Trait{Openness, Conscientiousness, Extraversion, Agreeableness, Stability}, Temperament.Traits())
	assert.Equal(t, []Trait{ResearchDrive, SystemsDrive, LaunchDrive, BuildDrive}, ActionMode.Traits())
	assert.Equal(t, []Trait{Autonomy, Mastery, Power, Affiliation}, CoreDriver.Traits())

	for _, tr := range Traits() {
		back, ok := ParseTrait(tr.String())
		assert.True(t, ok)
		assert.Equal(t, tr, back)
	}
}
