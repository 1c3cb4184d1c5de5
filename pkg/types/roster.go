package types

import (
	"fmt"
	"strconv"
)

// Player is a member of the tracked team's roster.
type Player struct {
	Number int    `json:"number" yaml:"number" mapstructure:"number"`
	Name   string `json:"name" yaml:"name" mapstructure:"name"`
}

// Label is the player name recorded in the log. Players without a name are
// labelled by shirt number.
func (p Player) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return "#" + strconv.Itoa(p.Number)
}

// Roster is the list of players the operator picks from.
type Roster []Player

// DefaultRoster returns the twelve-player roster used when config.yaml does
// not define one.
func DefaultRoster() Roster {
	return Roster{
		{Number: 1, Name: "N. Setter"},
		{Number: 4, Name: "D. Opposite"},
		{Number: 6, Name: "M. Middle"},
		{Number: 8, Name: "A. Libero"},
		{Number: 10, Name: "C. Receiver"},
		{Number: 12, Name: "E. Server"},
		{Number: 2, Name: "G. Setter 2"},
		{Number: 5, Name: "H. Opposite 2"},
		{Number: 7, Name: "J. Middle 2"},
		{Number: 9, Name: "B. Libero 2"},
		{Number: 11, Name: "F. Receiver 2"},
		{Number: 13, Name: "K. Server 2"},
	}
}

// Lookup returns the roster entry for the shirt number. Numbers missing from
// the roster yield an unnamed player so a late substitute can still be
// recorded.
func (r Roster) Lookup(number int) (Player, error) {
	if number <= 0 {
		return Player{}, fmt.Errorf("%w: %d", ErrInvalidPlayer, number)
	}
	for _, p := range r {
		if p.Number == number {
			return p, nil
		}
	}
	return Player{Number: number}, nil
}

// Validate rejects non-positive and duplicate shirt numbers.
func (r Roster) Validate() error {
	seen := make(map[int]bool, len(r))
	for _, p := range r {
		if p.Number <= 0 {
			return fmt.Errorf("%w: number %d", ErrInvalidPlayer, p.Number)
		}
		if seen[p.Number] {
			return fmt.Errorf("%w: duplicate number %d", ErrInvalidPlayer, p.Number)
		}
		seen[p.Number] = true
	}
	return nil
}
