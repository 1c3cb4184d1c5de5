package types

import (
	"fmt"
	"strings"
)

// ActionCode tags a log entry with a category and an outcome, for example
// "ATK_POINT". The terminal markers FIN_SET and FIN_MATCH are also codes but
// are only ever produced by the scoring engine.
type ActionCode string

// Terminal markers.
const (
	CodeSetEnd   ActionCode = "FIN_SET"
	CodeMatchEnd ActionCode = "FIN_MATCH"
)

// Serve outcomes.
const (
	CodeServeAce   ActionCode = "SVC_ACE"
	CodeServeOK    ActionCode = "SVC_OK"
	CodeServeError ActionCode = "SVC_ERR"
)

// Reception outcomes.
const (
	CodeReceptionPerfect ActionCode = "REC_PERF"
	CodeReceptionOK      ActionCode = "REC_OK"
	CodeReceptionError   ActionCode = "REC_ERR"
)

// Pass (set) outcomes.
const (
	CodePassPerfect ActionCode = "PAS_PERF"
	CodePassOK      ActionCode = "PAS_OK"
	CodePassError   ActionCode = "PAS_ERR"
)

// Attack outcomes.
const (
	CodeAttackPoint   ActionCode = "ATK_POINT"
	CodeAttackBlocked ActionCode = "ATK_CONTRE"
	CodeAttackError   ActionCode = "ATK_ERR"
)

// Block outcomes.
const (
	CodeBlockPoint ActionCode = "BLK_POINT"
	CodeBlockTouch ActionCode = "BLK_TOUCH"
	CodeBlockError ActionCode = "BLK_ERR"
)

// Effect is the point attribution of an action code.
type Effect int

// Point effects.
const (
	EffectNeutral Effect = iota
	EffectPointHome
	EffectPointAway
)

// Outcome is one selectable result within a category.
type Outcome struct {
	Code   ActionCode `json:"code"`
	Label  string     `json:"label"`
	Effect Effect     `json:"effect"`
}

// Category groups the three outcomes of one kind of touch.
type Category struct {
	Prefix   string    `json:"prefix"`
	Name     string    `json:"name"`
	Outcomes []Outcome `json:"outcomes"`
}

// categories is the fixed taxonomy in display order.
var categories = []Category{
	{Prefix: "SVC", Name: "SERVE", Outcomes: []Outcome{
		{Code: CodeServeAce, Label: "Ace"},
		{Code: CodeServeOK, Label: "Serve in"},
		{Code: CodeServeError, Label: "Serve error"},
	}},
	{Prefix: "REC", Name: "RECEPTION", Outcomes: []Outcome{
		{Code: CodeReceptionPerfect, Label: "Perfect"},
		{Code: CodeReceptionOK, Label: "Average"},
		{Code: CodeReceptionError, Label: "Missed"},
	}},
	{Prefix: "PAS", Name: "PASS", Outcomes: []Outcome{
		{Code: CodePassPerfect, Label: "Perfect"},
		{Code: CodePassOK, Label: "Average"},
		{Code: CodePassError, Label: "Bad pass"},
	}},
	{Prefix: "ATK", Name: "ATTACK", Outcomes: []Outcome{
		{Code: CodeAttackPoint, Label: "Kill"},
		{Code: CodeAttackBlocked, Label: "Blocked"},
		{Code: CodeAttackError, Label: "Fault"},
	}},
	{Prefix: "BLK", Name: "BLOCK", Outcomes: []Outcome{
		{Code: CodeBlockPoint, Label: "Stuff"},
		{Code: CodeBlockTouch, Label: "Touch"},
		{Code: CodeBlockError, Label: "Fault"},
	}},
}

// operatorCodes is the set of codes an operator may confirm.
var operatorCodes = func() map[ActionCode]bool {
	m := make(map[ActionCode]bool)
	for _, c := range categories {
		for _, o := range c.Outcomes {
			m[o.Code] = true
		}
	}
	return m
}()

// Categories returns a copy of the action taxonomy with each outcome's
// point effect filled in.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		outcomes := make([]Outcome, len(c.Outcomes))
		for j, o := range c.Outcomes {
			o.Effect = o.Code.Effect()
			outcomes[j] = o
		}
		c.Outcomes = outcomes
		out[i] = c
	}
	return out
}

// Effect returns the point attribution of the code: ACE or POINT scores for
// the home side, ERR scores for the opponent, anything else is neutral.
func (c ActionCode) Effect() Effect {
	s := string(c)
	switch {
	case strings.Contains(s, "ACE"), strings.Contains(s, "POINT"):
		return EffectPointHome
	case strings.Contains(s, "ERR"):
		return EffectPointAway
	default:
		return EffectNeutral
	}
}

// IsTerminal reports whether c is FIN_SET or FIN_MATCH.
func (c ActionCode) IsTerminal() bool {
	return c == CodeSetEnd || c == CodeMatchEnd
}

// Valid reports whether c is an operator-selectable code.
func (c ActionCode) Valid() bool {
	return operatorCodes[c]
}

// Category returns the category prefix of the code ("ATK" for "ATK_POINT").
func (c ActionCode) Category() string {
	prefix, _, _ := strings.Cut(string(c), "_")
	return prefix
}

// ParseActionCode normalizes s and returns it as an operator code.
// Returns ErrInvalidActionCode for terminal markers and unknown codes.
func ParseActionCode(s string) (ActionCode, error) {
	c := ActionCode(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidActionCode, s)
	}
	return c, nil
}
