// Package catalog lists the themes and syntaxes known to chroma and turns
// them into a [state.AppState].
package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/quellcode/quellcode/pkg/state"
)

var (
	ErrInvalidName   = errors.New("invalid name")
	ErrRegisterStyle = errors.New("register style")
	ErrUnknownTheme  = errors.New("unknown theme")
	ErrUnknownSyntax = errors.New("unknown syntax")
)

// Catalog is a view over chroma's style and lexer registries plus any
// themes registered at runtime. It is safe for concurrent use.
type Catalog struct {
	custom map[string]*chroma.Style
	mu     sync.RWMutex
}

// New returns an empty [Catalog] backed by chroma's built-in registries.
func New() *Catalog {
	return &Catalog{custom: map[string]*chroma.Style{}}
}

// Themes returns all theme names sorted case-insensitively.
func (c *Catalog) Themes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := styles.Names()
	for _, s := range c.custom {
		if !containsFold(names, s.Name) {
			names = append(names, s.Name)
		}
	}

	slices.SortFunc(names, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})

	return names
}

// Syntaxes returns the names of all registered lexers, sorted.
func (c *Catalog) Syntaxes() []string {
	return lexers.Names(false)
}

// AppState returns an [state.AppState] listing every theme and syntax.
func (c *Catalog) AppState() state.AppState {
	return state.NewAppState(c.Themes(), c.Syntaxes())
}

// RegisterTheme adds a theme built from entries. A theme with the same name
// replaces chroma's built-in theme for this [Catalog] only.
func (c *Catalog) RegisterTheme(name string, entries chroma.StyleEntries) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: theme name must not be empty", ErrInvalidName)
	}

	style, err := chroma.NewStyle(name, entries)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrRegisterStyle, name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.custom[strings.ToLower(name)] = style

	return nil
}

// LookupTheme returns the theme matching name, ignoring case.
func (c *Catalog) LookupTheme(name string) (*chroma.Style, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownTheme)
	}

	c.mu.RLock()
	s, ok := c.custom[key]
	c.mu.RUnlock()

	if ok {
		return s, nil
	}

	for _, n := range styles.Names() {
		if strings.ToLower(n) == key {
			return styles.Get(n), nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
}

// LookupSyntax returns the lexer for name. Name may be a lexer name or
// alias ("go", "golang"), or a file name ("main.go").
func (c *Catalog) LookupSyntax(name string) (chroma.Lexer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownSyntax)
	}

	if l := lexers.Get(name); l != nil {
		return l, nil
	}

	if l := lexers.Match(filepath.Base(name)); l != nil {
		return l, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownSyntax, name)
}

// DetectSyntax picks a lexer for a file. An explicit name wins, then the
// file name, then analysis of the content. It falls back to plain text and
// never returns nil.
func (c *Catalog) DetectSyntax(name, filename, content string) chroma.Lexer {
	if name != "" {
		if l, err := c.LookupSyntax(name); err == nil {
			return l
		}
	}

	if filename != "" {
		if l := lexers.Match(filepath.Base(filename)); l != nil {
			return l
		}
	}

	if l := lexers.Analyse(content); l != nil {
		return l
	}

	return lexers.Fallback
}

// SyntaxName returns the display name of l.
func SyntaxName(l chroma.Lexer) string {
	if l == nil {
		return ""
	}

	return l.Config().Name
}

func containsFold(names []string, name string) bool {
	return slices.ContainsFunc(names, func(n string) bool {
		return strings.EqualFold(n, name)
	})
}
