package assessment

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnswer(t *testing.T) {
	tests := []struct {
		name      string
		choice    Choice
		intensity int
		wantErr   error
	}{
		{"A slightly", ChoiceA, 1, nil},
		{"B strongly", ChoiceB, 3, nil},
		{"zero choice", 0, 2, ErrInvalidChoice},
		{"choice out of range", Choice(7), 2, ErrInvalidChoice},
		{"intensity zero", ChoiceA, 0, ErrInvalidIntensity},
		{"intensity four", ChoiceB, 4, ErrInvalidIntensity},
		{"negative intensity", ChoiceA, -1, ErrInvalidIntensity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ans, err := NewAnswer(tt.choice, tt.intensity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.choice, ans.Choice)
			assert.Equal(t, Intensity(tt.intensity), ans.Intensity)
		})
	}
}

func TestParseChoice(t *testing.T) {
	for in, want := range map[string]Choice{"A": ChoiceA, "b": ChoiceB, " a ": ChoiceA} {
		got, err := ParseChoice(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseChoice("C")
	assert.ErrorIs(t, err, ErrInvalidChoice)
}

func TestAnswers_SetRejectsInvalid(t *testing.T) {
	var a Answers

	err := a.Set(3, ChoiceA, 5)
	assert.True(t, errors.Is(err, ErrInvalidIntensity))
	assert.Equal(t, 0, a.Len(), "rejected answer must not be stored")

	err = a.Set(0, ChoiceA, 2)
	assert.ErrorIs(t, err, ErrUnknownQuestion)

	err = a.Set(3, Choice(0), 2)
	assert.ErrorIs(t, err, ErrInvalidChoice)
}

func TestAnswers_Accessors(t *testing.T) {
	a := NewAnswers()
	require.NoError(t, a.Set(7, ChoiceB, 2))

	c, ok := a.Choice(7)
	assert.True(t, ok)
	assert.Equal(t, ChoiceB, c)
	assert.Equal(t, 2, a.Intensity(7))

	_, ok = a.Choice(8)
	assert.False(t, ok)
	assert.Equal(t, 0, a.Intensity(8), "unanswered intensity is 0")

	require.NoError(t, a.Set(7, ChoiceA, 3))
	c, _ = a.Choice(7)
	assert.Equal(t, ChoiceA, c, "Set replaces the previous answer")
	assert.Equal(t, 1, a.Len())

	a.Clear(7)
	assert.Equal(t, 0, a.Len())
}

func TestAnswers_NilReadsAsEmpty(t *testing.T) {
	var a *Answers
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 0, a.Intensity(1))
	assert.Nil(t, a.IDs())
	_, ok := a.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 0, a.Clone().Len())
}

func TestAnswers_CloneIsIndependent(t *testing.T) {
	a := NewAnswers()
	require.NoError(t, a.Set(1, ChoiceA, 1))

	b := a.Clone()
	require.NoError(t, b.Set(2, ChoiceB, 3))

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, []int{1, 2}, b.IDs())
}

func TestChoice_TextRoundTrip(t *testing.T) {
	var c Choice
	require.NoError(t, c.UnmarshalText([]byte("b")))
	assert.Equal(t, ChoiceB, c)

	text, err := c.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "B", string(text))

	_, err = Choice(0).MarshalText()
	assert.Error(t, err)
}

func TestAnswers_JSON(t *testing.T) {
	a := NewAnswers()
	require.NoError(t, a.Set(3, ChoiceB, 2))
	require.NoError(t, a.Set(21, ChoiceA, 3))

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"3":{"choice":"B","intensity":2},"21":{"choice":"A","intensity":3}}`, string(data))

	var back Answers
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, a.Map(), back.Map())

	err = json.Unmarshal([]byte(`{"3":{"choice":"B","intensity":9}}`), &back)
	assert.ErrorIs(t, err, ErrInvalidIntensity)
}
