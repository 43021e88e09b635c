// internal/emoji/emoji.go
package emoji

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Identity is the normalized form of an emoji reference. Custom guild emojis
// carry a snowflake ID and a name; unicode emojis carry only the glyph.
type Identity struct {
	Name  string // custom emoji name, empty for unicode
	ID    string // custom emoji snowflake, empty for unicode
	Glyph string // unicode glyph, empty for custom
}

var customRE = regexp.MustCompile(`^<a?:([a-zA-Z0-9_]+):([0-9]+)>$`)

var ErrEmpty = errors.New("empty emoji")

// Parse resolves user input into an Identity. Input is either the Discord
// custom-emoji syntax <:name:id> / <a:name:id> or a plain unicode emoji.
func Parse(s string) (Identity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Identity{}, ErrEmpty
	}
	if m := customRE.FindStringSubmatch(s); m != nil {
		return Identity{Name: m[1], ID: m[2]}, nil
	}
	return Identity{Glyph: s}, nil
}

// FromReaction builds an Identity from a gateway reaction payload, which
// reports a name and, for custom emojis, a snowflake ID. For unicode emojis
// the name field holds the glyph itself.
func FromReaction(name, id string) Identity {
	if id != "" {
		return Identity{Name: name, ID: id}
	}
	return Identity{Glyph: name}
}

// IsCustom reports whether the identity refers to a custom guild emoji.
func (e Identity) IsCustom() bool { return e.ID != "" }

// Key returns the canonical storage key: the snowflake for custom emojis,
// the glyph for unicode ones.
func (e Identity) Key() string {
	if e.IsCustom() {
		return e.ID
	}
	return e.Glyph
}

// Candidates returns the storage keys to try on lookup, canonical form
// first. Older documents keyed bindings by the full <:name:id> mention (or
// <a:name:id> for animated emojis) or by the bare emoji name, so those
// encodings remain resolvable.
func (e Identity) Candidates() []string {
	if !e.IsCustom() {
		return []string{e.Glyph}
	}
	return []string{
		e.ID,
		fmt.Sprintf("<:%s:%s>", e.Name, e.ID),
		fmt.Sprintf("<a:%s:%s>", e.Name, e.ID),
		e.Name,
	}
}

// APIName returns the emoji in the form the Discord REST API expects when
// adding a reaction.
func (e Identity) APIName() string {
	if e.IsCustom() {
		return e.Name + ":" + e.ID
	}
	return e.Glyph
}

// String renders the emoji the way it appears in a message.
func (e Identity) String() string {
	if e.IsCustom() {
		return fmt.Sprintf("<:%s:%s>", e.Name, e.ID)
	}
	return e.Glyph
}
