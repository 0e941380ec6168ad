package generator

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
)

// HTML renders a <pre> snippet with inline styles, ready to paste into
// documents that do not load a stylesheet.
type HTML struct{}

func NewHTML() *HTML { return &HTML{} }

func (*HTML) Name() string        { return "html" }
func (*HTML) Description() string { return "HTML snippet with inline styles" }
func (*HTML) Extension() string   { return "html" }

func (*HTML) Properties() []Property {
	d := DefaultOptions()

	return []Property{
		{Name: "fontFamily", Description: "Font family", Kind: "string", Default: d.FontFamily},
		{Name: "fontSize", Description: "Font size in pixels", Kind: "float", Default: d.FontSize},
		{Name: "tabWidth", Description: "Spaces per tab", Kind: "int", Default: d.TabWidth},
		{Name: "padding", Description: "Padding around the code in pixels", Kind: "float", Default: d.Padding},
		{Name: "includeBackground", Description: "Include the background", Kind: "bool", Default: d.IncludeBackground},
		{Name: "lineNumbers", Description: "Prefix lines with their number", Kind: "bool", Default: d.LineNumbers},
	}
}

func (*HTML) Generate(w io.Writer, req Request) error {
	opts := req.Options

	it, err := chroma.Coalesce(req.Lexer).Tokenise(nil, req.Code)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTokenise, err)
	}

	f := html.New(
		html.WithClasses(false),
		html.WithLineNumbers(opts.LineNumbers),
		html.TabWidth(opts.TabWidth),
		html.PreventSurroundingPre(true),
	)

	css := []string{
		"font-family: " + cssString(opts.FontFamily),
		"font-size: " + num(opts.FontSize) + "px",
		"tab-size: " + fmt.Sprint(opts.TabWidth),
		"color: " + colour(req.Style, chroma.Text),
	}
	if opts.Padding > 0 {
		css = append(css, "padding: "+num(opts.Padding)+"px")
	}
	if opts.IncludeBackground {
		css = append(css, "background-color: "+background(req.Style))
	}

	if _, err := fmt.Fprintf(w, `<pre style="%s"><code>`, escape(strings.Join(css, "; "))); err != nil {
		return fmt.Errorf("%w: html: %w", ErrFormat, err)
	}
	if err := f.Format(w, req.Style, it); err != nil {
		return fmt.Errorf("%w: html: %w", ErrFormat, err)
	}
	if _, err := io.WriteString(w, "</code></pre>\n"); err != nil {
		return fmt.Errorf("%w: html: %w", ErrFormat, err)
	}

	return nil
}

// cssString quotes a font family list entry unless it is a generic family.
func cssString(family string) string {
	switch strings.ToLower(family) {
	case "monospace", "serif", "sans-serif", "system-ui", "ui-monospace":
		return strings.ToLower(family)
	}

	return `'` + strings.ReplaceAll(family, `'`, `\'`) + `'`
}
