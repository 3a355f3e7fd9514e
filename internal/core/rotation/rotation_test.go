package rotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStateIsSenateAffirmation(t *testing.T) {
	t.Parallel()

	announcement := DefaultState().Render()

	assert.Equal(t, "Affirmation #1", announcement.NextSpeech)
	assert.Equal(t, 0, announcement.AffCount)
	assert.Equal(t, 0, announcement.NegCount)
	assert.Equal(t,
		"Thank you, Senators. We are now in line for the first affirmation speech on this legislation.",
		announcement.Line,
	)
}

func TestMarkSpeechGivenAlternates(t *testing.T) {
	t.Parallel()

	state := DefaultState()
	for i := 1; i <= 9; i++ {
		before := state
		state = state.MarkSpeechGiven()

		assert.Equal(t, before.NextSide.Other(), state.NextSide)
		assert.Equal(t, before.AffCount+before.NegCount+1, state.AffCount+state.NegCount)
	}
	assert.Equal(t, 5, state.AffCount)
	assert.Equal(t, 4, state.NegCount)
	assert.Equal(t, SideNeg, state.NextSide)
	assert.Equal(t, "Negation #5", state.Render().NextSpeech)
}

func TestSetNextSideKeepsCounts(t *testing.T) {
	t.Parallel()

	state := DefaultState().MarkSpeechGiven().MarkSpeechGiven()

	flipped := state.SetNextSide(SideNeg)
	assert.Equal(t, SideNeg, flipped.NextSide)
	assert.Equal(t, 1, flipped.AffCount)
	assert.Equal(t, 1, flipped.NegCount)
	assert.Equal(t, flipped, flipped.SetNextSide(SideNeg))
	assert.Equal(t, flipped, flipped.SetNextSide(Side("abstain")))

	state = flipped.MarkSpeechGiven()
	assert.Equal(t, 2, state.NegCount)
	assert.Equal(t, SideAff, state.NextSide)
}

func TestResetBill(t *testing.T) {
	t.Parallel()

	state := DefaultState().SetChamberType(ChamberHouse).SetAuthorshipGiven(true)
	for i := 0; i < 5; i++ {
		state = state.MarkSpeechGiven()
	}
	require.Equal(t, SideNeg, state.NextSide)

	state = state.ResetBill()

	assert.Equal(t, 0, state.AffCount)
	assert.Equal(t, 0, state.NegCount)
	assert.Equal(t, SideAff, state.NextSide)
	assert.Equal(t, ChamberHouse, state.Chamber)
	assert.True(t, state.AuthorshipGiven)
	assert.Equal(t,
		"Thank you, Representatives. We are now in line for the first affirmation speech on this legislation.",
		state.Render().Line,
	)
}

func TestChamberAddress(t *testing.T) {
	t.Parallel()

	cases := map[ChamberType]string{
		ChamberHouse:  "Representatives",
		ChamberSenate: "Senators",
		ChamberOther:  "Delegates",
	}
	for chamber, want := range cases {
		state := DefaultState().SetChamberType(chamber)
		assert.Equal(t, want, state.Chamber.Address())
		assert.Contains(t, state.Render().Line, "Thank you, "+want+".")
	}

	assert.Equal(t, ChamberSenate, DefaultState().SetChamberType("parliament").Chamber)
}

func TestRenderNegationLine(t *testing.T) {
	t.Parallel()

	state := DefaultState().SetChamberType(ChamberOther)
	for i := 0; i < 5; i++ {
		state = state.MarkSpeechGiven()
	}

	assert.Equal(t,
		"Thank you, Delegates. We are now in line for the third negation speech on this legislation.",
		state.Render().Line,
	)
}

func TestOrdinalWord(t *testing.T) {
	t.Parallel()

	cases := []struct {
		number int
		want   string
	}{
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{9, "ninth"},
		{12, "twelfth"},
		{13, "13th"},
		{21, "21th"},
		{22, "22th"},
		{0, "0th"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, OrdinalWord(tc.number))
	}
}

func TestLongRotationUsesNumericOrdinal(t *testing.T) {
	t.Parallel()

	state := DefaultState()
	for i := 0; i < 40; i++ {
		state = state.MarkSpeechGiven()
	}

	assert.Equal(t, "Affirmation #21", state.Render().NextSpeech)
	assert.Contains(t, state.Render().Line, "the 21th affirmation speech")
}
