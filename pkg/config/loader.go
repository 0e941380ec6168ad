package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"

	"github.com/quellcode/quellcode/pkg/ui/theme"
	"github.com/quellcode/quellcode/pkg/yaml"
)

// Validator validates decoded configuration data.
type Validator interface {
	Validate(data any) error
}

type LoaderOpt func(*Loader)

// WithValidator replaces [DefaultValidator].
func WithValidator(v Validator) LoaderOpt {
	return func(l *Loader) {
		l.validator = v
	}
}

// WithThemeFromData styles errors with the UI theme named in the data.
func WithThemeFromData() LoaderOpt {
	return func(l *Loader) {
		l.theme = getTheme(l.data)
	}
}

// Loader validates and decodes configuration data.
type Loader struct {
	validator Validator
	theme     *theme.Theme
	yamlError *yaml.ErrorWrapper
	data      []byte
}

func NewLoaderFromBytes(data []byte, opts ...LoaderOpt) *Loader {
	l := &Loader{
		data:      data,
		validator: DefaultValidator,
		theme:     theme.Default,
	}
	for _, opt := range opts {
		opt(l)
	}

	l.yamlError = yaml.NewErrorWrapper(
		yaml.WithStyle(l.theme.ChromaStyle),
		yaml.WithSource(data),
		yaml.WithContextLines(4),
	)

	return l
}

func NewLoaderFromFile(path string, opts ...LoaderOpt) (*Loader, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	return NewLoaderFromBytes(data, opts...), nil
}

// Validate checks the data against the schema.
func (l *Loader) Validate() error {
	var data any

	if err := yaml.NewDecoder(bytes.NewReader(l.data), false).Decode(&data); err != nil {
		return l.yamlError.Wrap(err)
	}

	if l.validator == nil {
		return nil
	}

	return l.yamlError.Wrap(l.validator.Validate(data))
}

// Load decodes the data into a [Config], fills defaults and checks the
// values the schema cannot express.
func (l *Loader) Load() (*Config, error) {
	c := &Config{}

	if err := yaml.NewDecoder(bytes.NewReader(l.data), false).Decode(c); err != nil {
		return nil, l.yamlError.Wrap(err)
	}

	c.EnsureDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// GetTheme returns the theme used for error output.
func (l *Loader) GetTheme() *theme.Theme {
	return l.theme
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("read config: %s: path is a directory", path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // User-supplied config path.
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return data, nil
}

func getTheme(data []byte) *theme.Theme {
	var name string

	path := yaml.NewPathBuilder().Root().Child("ui").Child("theme").Build()

	err := path.Read(bytes.NewReader(data), &name)
	if err != nil || name == "" {
		slog.Debug("could not read theme, config might be invalid")

		// Fall back to a regex so errors in malformed files are styled too.
		name = extractThemeWithRegex(data)
	}

	if name == "" {
		return theme.Default
	}

	return theme.New(styles.Get(theme.ResolveName(name)))
}

var (
	uiSectionRe = regexp.MustCompile(`(?m)^ui:\s*$((?:\n[ \t]+.*)*)`)
	uiThemeRe   = regexp.MustCompile(`\n[ \t]+theme:\s*(?:"([^"#\n]+)"|'([^'#\n]+)'|([^\s#\n]+))`)
)

// extractThemeWithRegex finds the value of "theme:" indented below a
// top-level "ui:" key.
func extractThemeWithRegex(data []byte) string {
	section := uiSectionRe.FindStringSubmatch(string(data))
	if len(section) < 2 {
		return ""
	}

	m := uiThemeRe.FindStringSubmatch(section[1])
	for i := 1; i < len(m); i++ {
		if m[i] != "" {
			return strings.TrimSpace(m[i])
		}
	}

	return ""
}
