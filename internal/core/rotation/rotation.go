// Package rotation tracks the alternation of affirmation and negation speeches
// on a piece of legislation and derives the presiding officer's announcement.
package rotation

import (
	"fmt"
	"strconv"
	"strings"
)

// Side is one of the two debate positions.
type Side string

const (
	SideAff Side = "aff"
	SideNeg Side = "neg"
)

// Valid reports whether the side is known.
func (side Side) Valid() bool {
	return side == SideAff || side == SideNeg
}

// Other returns the opposing side.
func (side Side) Other() Side {
	if side == SideAff {
		return SideNeg
	}
	return SideAff
}

// Label returns the display name of the side.
func (side Side) Label() string {
	if side == SideNeg {
		return "Negation"
	}
	return "Affirmation"
}

// ChamberType selects how members of the chamber are addressed.
type ChamberType string

const (
	ChamberHouse  ChamberType = "house"
	ChamberSenate ChamberType = "senate"
	ChamberOther  ChamberType = "other"
)

// ChamberTypes lists the selectable chamber types in display order.
var ChamberTypes = []ChamberType{ChamberHouse, ChamberSenate, ChamberOther}

// Valid reports whether the chamber type is known.
func (chamber ChamberType) Valid() bool {
	switch chamber {
	case ChamberHouse, ChamberSenate, ChamberOther:
		return true
	}
	return false
}

// Address returns the title used to address members.
func (chamber ChamberType) Address() string {
	switch chamber {
	case ChamberHouse:
		return "Representatives"
	case ChamberSenate:
		return "Senators"
	default:
		return "Delegates"
	}
}

// State is the persisted turn-taking state.
type State struct {
	Chamber         ChamberType
	AuthorshipGiven bool
	AffCount        int
	NegCount        int
	NextSide        Side
}

// DefaultState returns the state for a fresh senate session.
func DefaultState() State {
	return State{
		Chamber:  ChamberSenate,
		NextSide: SideAff,
	}
}

// SetNextSide points the rotation at side without changing counts.
func (state State) SetNextSide(side Side) State {
	if side.Valid() {
		state.NextSide = side
	}
	return state
}

// MarkSpeechGiven counts a speech for the upcoming side and hands the floor over.
func (state State) MarkSpeechGiven() State {
	if state.NextSide == SideNeg {
		state.NegCount++
	} else {
		state.AffCount++
	}
	state.NextSide = state.NextSide.Other()
	return state
}

// ResetBill clears the counts for a new piece of legislation.
func (state State) ResetBill() State {
	state.AffCount = 0
	state.NegCount = 0
	state.NextSide = SideAff
	return state
}

// SetChamberType changes the chamber address.
func (state State) SetChamberType(chamber ChamberType) State {
	if chamber.Valid() {
		state.Chamber = chamber
	}
	return state
}

// SetAuthorshipGiven records whether the authorship speech has been given.
func (state State) SetAuthorshipGiven(given bool) State {
	state.AuthorshipGiven = given
	return state
}

// NextNumber is the ordinal of the upcoming speech for the next side.
func (state State) NextNumber() int {
	if state.NextSide == SideNeg {
		return state.NegCount + 1
	}
	return state.AffCount + 1
}

// Announcement is the rendered view of the rotation.
type Announcement struct {
	NextSpeech string
	AffCount   int
	NegCount   int
	Line       string
}

// Render derives the next-speech label and the suggested announcer line.
func (state State) Render() Announcement {
	number := state.NextNumber()
	side := state.NextSide
	if !side.Valid() {
		side = SideAff
	}
	return Announcement{
		NextSpeech: fmt.Sprintf("%s #%d", side.Label(), number),
		AffCount:   state.AffCount,
		NegCount:   state.NegCount,
		Line: fmt.Sprintf(
			"Thank you, %s. We are now in line for the %s %s speech on this legislation.",
			state.Chamber.Address(),
			strings.ToLower(OrdinalWord(number)),
			strings.ToLower(side.Label()),
		),
	}
}

var ordinalWords = map[int]string{
	1:  "first",
	2:  "second",
	3:  "third",
	4:  "fourth",
	5:  "fifth",
	6:  "sixth",
	7:  "seventh",
	8:  "eighth",
	9:  "ninth",
	10: "tenth",
	11: "eleventh",
	12: "twelfth",
}

// OrdinalWord spells out 1 through 12 and appends "th" to anything else,
// so 21 renders as "21th".
func OrdinalWord(number int) string {
	if word, ok := ordinalWords[number]; ok {
		return word
	}
	return strconv.Itoa(number) + "th"
}
