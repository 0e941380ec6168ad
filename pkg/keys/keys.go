// Package keys defines configurable key bindings and renders them as help.
package keys

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	tea "github.com/charmbracelet/bubbletea"
)

const Ellipsis = "…"

var ErrDuplicateKey = errors.New("duplicate key binding")

// Key is a single key code as reported by [tea.KeyMsg.String].
type Key struct {
	// Code is the key code, e.g. "ctrl+c" or ",".
	Code string `json:"code" jsonschema:"title=Code"`
	// Alias replaces the code in help output.
	Alias string `json:"alias,omitempty" jsonschema:"title=Alias"`
	// Hidden keys work but are left out of help output.
	Hidden bool `json:"hidden,omitempty" jsonschema:"title=Hidden"`
}

type KeyOpt func(k *Key)

func New(code string, opts ...KeyOpt) Key {
	k := Key{Code: code}
	for _, opt := range opts {
		opt(&k)
	}

	return k
}

func WithAlias(alias string) KeyOpt {
	return func(k *Key) {
		k.Alias = alias
	}
}

func Hidden() KeyOpt {
	return func(k *Key) {
		k.Hidden = true
	}
}

func (k Key) String() string {
	if k.Alias != "" {
		return k.Alias
	}

	return k.Code
}

// Bind is an action with the keys that trigger it.
type Bind struct {
	// Description is shown in help output.
	Description string `json:"description" jsonschema:"title=Description"`
	// Keys trigger the action.
	Keys []Key `json:"keys" jsonschema:"title=Keys"`
}

func NewBind(description string, keys ...Key) Bind {
	return Bind{Description: description, Keys: keys}
}

// String joins the visible keys with "/".
func (b *Bind) String() string {
	if b == nil {
		return ""
	}

	out := make([]string, 0, len(b.Keys))
	for _, k := range b.Keys {
		if !k.Hidden {
			out = append(out, k.String())
		}
	}

	return strings.Join(out, "/")
}

// Match reports whether key triggers b.
func (b *Bind) Match(key string) bool {
	if b == nil {
		return false
	}

	return slices.ContainsFunc(b.Keys, func(k Key) bool {
		return k.Code == key
	})
}

// Matches reports whether msg triggers b.
func (b *Bind) Matches(msg tea.KeyMsg) bool {
	return b.Match(msg.String())
}

// Binding converts b for use with bubbles components. A nil b gives a
// disabled binding.
func (b *Bind) Binding() key.Binding {
	if b == nil {
		return key.NewBinding(key.WithDisabled())
	}

	codes := make([]string, 0, len(b.Keys))
	for _, k := range b.Keys {
		codes = append(codes, k.Code)
	}

	return key.NewBinding(key.WithKeys(codes...), key.WithHelp(b.String(), b.Description))
}

// First returns the display string of the first visible key.
func (b *Bind) First() string {
	if b == nil {
		return ""
	}

	for _, k := range b.Keys {
		if !k.Hidden {
			return k.String()
		}
	}

	return ""
}

// SetDefault points *b at def when unset, and fills an empty description or
// key list from def.
func SetDefault(b **Bind, def Bind) {
	if *b == nil {
		*b = &def
		return
	}

	if len((*b).Keys) == 0 {
		(*b).Keys = def.Keys
	}
	if (*b).Description == "" {
		(*b).Description = def.Description
	}
}

// Validate reports every key code bound to more than one action across all
// groups.
func Validate(groups ...[]*Bind) error {
	owner := map[string]string{}

	var errs []error
	for _, group := range groups {
		for _, b := range group {
			if b == nil {
				continue
			}

			for _, k := range b.Keys {
				if prev, ok := owner[k.Code]; ok {
					errs = append(errs, fmt.Errorf("%w: %q used by %q and %q", ErrDuplicateKey, k.Code, prev, b.Description))
					continue
				}

				owner[k.Code] = b.Description
			}
		}
	}

	return errors.Join(errs...)
}

// Renderer lays out key bindings as columns of "keys  description" rows.
type Renderer struct {
	columns [][]*Bind
}

// AddColumn appends a column. Empty columns are ignored.
func (r *Renderer) AddColumn(binds ...*Bind) {
	if len(binds) > 0 {
		r.columns = append(r.columns, binds)
	}
}

// Render returns the columns laid out over width cells. A width of zero or
// less never truncates descriptions.
func (r *Renderer) Render(width int) string {
	if len(r.columns) == 0 {
		return ""
	}

	colWidth := max(6, width/len(r.columns)-2)
	if width <= 0 {
		colWidth = 0
		for _, col := range r.columns {
			colWidth = max(colWidth, columnWidth(col))
		}
	}

	cols := make([][]string, len(r.columns))
	rows := 0
	for i, col := range r.columns {
		cols[i] = renderColumn(colWidth, col)
		rows = max(rows, len(cols[i]))
	}

	lines := make([]string, 0, rows)
	for row := range rows {
		var sb strings.Builder
		for _, col := range cols {
			cell := strings.Repeat(" ", colWidth)
			if row < len(col) {
				cell = col[row]
			}

			sb.WriteString(" " + cell + " ")
		}

		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}

	return strings.Join(lines, "\n")
}

// columnWidth returns the width binds need without truncation.
func columnWidth(binds []*Bind) int {
	keyWidth, descWidth := 0, 0
	for _, b := range binds {
		ks := b.String()
		if ks == "" {
			continue
		}

		keyWidth = max(keyWidth, ansi.PrintableRuneWidth(ks))
		descWidth = max(descWidth, ansi.PrintableRuneWidth(b.Description))
	}

	return keyWidth + 2 + descWidth
}

func renderColumn(width int, binds []*Bind) []string {
	keyWidth := 0
	for _, b := range binds {
		keyWidth = max(keyWidth, ansi.PrintableRuneWidth(b.String()))
	}

	descWidth := max(0, width-keyWidth-2)

	rows := []string{}
	for _, b := range binds {
		ks := b.String()
		if ks == "" {
			continue
		}

		desc := truncate.StringWithTail(b.Description, uint(descWidth), Ellipsis) //nolint:gosec // Non-negative.
		row := pad(ks, keyWidth) + "  " + desc

		rows = append(rows, pad(row, width))
	}

	return rows
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-ansi.PrintableRuneWidth(s)))
}
