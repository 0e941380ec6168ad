package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/quellcode/quellcode/pkg/catalog"
	"github.com/quellcode/quellcode/pkg/generator"
	"github.com/quellcode/quellcode/pkg/ui"
	"github.com/quellcode/quellcode/pkg/yaml"
)

//go:generate go run ../../internal/schemagen/main.go -o config.v1beta1.json

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed config.v1beta1.json
	schemaJSON []byte

	ValidAPIVersions = []string{
		"quellcode.dev/v1beta1",
	}
	ValidKinds = []string{
		"Configuration",
	}

	DefaultValidator = yaml.MustNewValidator("/config.v1beta1.json", schemaJSON)
)

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrUnknownToken  = errors.New("unknown token type")
)

//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
	// Code holds the default output settings.
	Code *CodeConfig `json:"code,omitempty" jsonschema:"title=Code"`
	// UI holds the terminal application settings.
	UI *ui.Config `json:"ui,omitempty" jsonschema:"title=UI"`
	// Themes defines additional chroma styles, keyed by name.
	Themes map[string]ThemeConfig `json:"themes,omitempty" jsonschema:"title=Themes"`
}

func New() *Config {
	c := &Config{
		APIVersion: ValidAPIVersions[0],
		Kind:       ValidKinds[0],
	}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.Code == nil {
		c.Code = &CodeConfig{}
	}
	if c.UI == nil {
		c.UI = &ui.Config{}
	}
	if c.Themes == nil {
		c.Themes = map[string]ThemeConfig{}
	}

	c.Code.EnsureDefaults()
	c.UI.EnsureDefaults()
}

// Validate checks the values that the schema cannot express.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Code.Validate(generator.DefaultRegistry().Names()); err != nil {
		errs = append(errs, fmt.Errorf("code: %w", err))
	}
	if err := c.UI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("ui: %w", err))
	}

	for _, name := range slices.Sorted(maps.Keys(c.Themes)) {
		entries, err := c.Themes[name].Entries()
		if err == nil {
			_, err = chroma.NewStyle(name, entries)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("themes.%s: %w", name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}

	return nil
}

// RegisterThemes adds every configured theme to cat, in name order.
func (c *Config) RegisterThemes(cat *catalog.Catalog) error {
	for _, name := range slices.Sorted(maps.Keys(c.Themes)) {
		entries, err := c.Themes[name].Entries()
		if err != nil {
			return fmt.Errorf("theme %q: %w", name, err)
		}

		if err := cat.RegisterTheme(name, entries); err != nil {
			return fmt.Errorf("theme %q: %w", name, err)
		}
	}

	return nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	extendSchemaWithEnums(jss, "apiVersion", ValidAPIVersions)
	extendSchemaWithEnums(jss, "kind", ValidKinds)
}

func extendSchemaWithEnums(jss *jsonschema.Schema, property string, values []string) {
	p, ok := jss.Properties.Get(property)
	if !ok {
		panic(property + " property not found in schema")
	}

	p.OneOf = make([]*jsonschema.Schema, 0, len(values))
	for _, v := range values {
		p.OneOf = append(p.OneOf, &jsonschema.Schema{Type: "string", Const: v})
	}
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b := &bytes.Buffer{}

	enc := yaml.NewEncoder(b)
	if err := enc.Encode(alias(c)); err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	defer func() {
		if err := enc.Close(); err != nil {
			slog.Error("failed to close YAML encoder", slog.Any("error", err))
		}
	}()

	return b.Bytes(), nil
}

// CodeConfig holds the defaults for rendering code. Unset fields take the
// generator defaults.
type CodeConfig struct {
	// Theme is the chroma style used for output.
	Theme string `json:"theme,omitempty" jsonschema:"title=Theme"`
	// Syntax forces a lexer. Empty detects one from the file name or content.
	Syntax string `json:"syntax,omitempty" jsonschema:"title=Syntax"`
	// Format names the output generator.
	Format string `json:"format,omitempty" jsonschema:"title=Format"`

	FontFamily        string   `json:"fontFamily,omitempty"        jsonschema:"title=Font Family"`
	FontSize          *float64 `json:"fontSize,omitempty"          jsonschema:"title=Font Size"`
	TabWidth          *int     `json:"tabWidth,omitempty"          jsonschema:"title=Tab Width"`
	Padding           *float64 `json:"padding,omitempty"           jsonschema:"title=Padding"`
	IncludeBackground *bool    `json:"includeBackground,omitempty" jsonschema:"title=Include Background"`
	LineNumbers       *bool    `json:"lineNumbers,omitempty"       jsonschema:"title=Line Numbers"`
}

func (c *CodeConfig) EnsureDefaults() {
	d := generator.DefaultOptions()

	if c.Theme == "" {
		c.Theme = "dracula"
	}
	if c.Format == "" {
		c.Format = "svg"
	}
	if c.FontFamily == "" {
		c.FontFamily = d.FontFamily
	}
	if c.FontSize == nil {
		c.FontSize = &d.FontSize
	}
	if c.TabWidth == nil {
		c.TabWidth = &d.TabWidth
	}
	if c.Padding == nil {
		c.Padding = &d.Padding
	}
	if c.IncludeBackground == nil {
		c.IncludeBackground = &d.IncludeBackground
	}
	if c.LineNumbers == nil {
		c.LineNumbers = &d.LineNumbers
	}
}

// Options returns the generator options described by c.
func (c *CodeConfig) Options() generator.Options {
	c.EnsureDefaults()

	return generator.Options{
		FontFamily:        c.FontFamily,
		FontSize:          *c.FontSize,
		TabWidth:          *c.TabWidth,
		Padding:           *c.Padding,
		IncludeBackground: *c.IncludeBackground,
		LineNumbers:       *c.LineNumbers,
	}
}

// Validate checks the options and that Format is one of formats.
func (c *CodeConfig) Validate(formats []string) error {
	var errs []error

	if !slices.Contains(formats, c.Format) {
		errs = append(errs, fmt.Errorf("format %q: must be one of %v", c.Format, formats))
	}
	if err := c.Options().Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (CodeConfig) JSONSchemaExtend(jss *jsonschema.Schema) {
	if p, ok := jss.Properties.Get("format"); ok {
		for _, name := range generator.DefaultRegistry().Names() {
			p.Enum = append(p.Enum, name)
		}
	}
}

// ThemeConfig defines a chroma style. Styles maps token type names, such
// as "Keyword" or "NameTag", to chroma style entries such as
// "bold #ff79c6 bg:#282a36".
type ThemeConfig struct {
	// Base names a chroma style to start from.
	Base   string            `json:"base,omitempty"   jsonschema:"title=Base"`
	Styles map[string]string `json:"styles,omitempty" jsonschema:"title=Styles"`
}

// Entries returns the style entries, with Base's entries beneath Styles.
func (tc ThemeConfig) Entries() (chroma.StyleEntries, error) {
	entries := chroma.StyleEntries{}

	if tc.Base != "" {
		base := styles.Get(tc.Base)
		for _, tt := range base.Types() {
			if e := base.Get(tt).String(); e != "" {
				entries[tt] = e
			}
		}
	}

	var errs []error
	for _, name := range slices.Sorted(maps.Keys(tc.Styles)) {
		tt, ok := tokenType(name)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownToken, name))
			continue
		}

		entries[tt] = tc.Styles[name]
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return entries, nil
}

// tokenType finds a token type by name, ignoring case, dots and
// underscores ("name.tag", "NameTag" and "name_tag" are equivalent).
func tokenType(name string) (chroma.TokenType, bool) {
	key := normalizeToken(name)
	for tt := range chroma.StandardTypes {
		if normalizeToken(tt.String()) == key {
			return tt, true
		}
	}

	return 0, false
}

func normalizeToken(s string) string {
	return strings.NewReplacer(".", "", "_", "", "-", "").Replace(strings.ToLower(s))
}
