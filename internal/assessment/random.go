package assessment

import "math/rand/v2"

// RandomAnswers answers every catalog question with a random letter and
// intensity. It exists for demos and smoke tests. A nil rng uses the
// package-level source.
func RandomAnswers(catalog *Catalog, rng *rand.Rand) *Answers {
	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	out := NewAnswers()
	for _, id := range catalog.IDs() {
		choice := ChoiceA
		if intN(2) == 1 {
			choice = ChoiceB
		}
		// Values are always in range, so Set cannot fail.
		_ = out.Set(id, choice, 1+intN(3))
	}
	return out
}
