package generator

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
)

const (
	// Advance of one monospace cell, relative to the font size.
	svgCharWidth = 0.6
	// Baseline distance between lines, relative to the font size.
	svgLineHeight = 1.2
)

// SVG renders one <text> element per line and one <tspan> per token.
type SVG struct{}

func NewSVG() *SVG { return &SVG{} }

func (*SVG) Name() string        { return "svg" }
func (*SVG) Description() string { return "Scalable vector image for slides and vector editors" }
func (*SVG) Extension() string   { return "svg" }

func (*SVG) Properties() []Property {
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

func (*SVG) Generate(w io.Writer, req Request) error {
	lines, err := tokenise(req)
	if err != nil {
		return err
	}

	opts := req.Options
	gutter := 0
	if opts.LineNumbers {
		gutter = len(strconv.Itoa(len(lines))) + 1
	}

	cols := 0
	for _, line := range lines {
		n := 0
		for _, t := range line {
			n += utf8.RuneCountInString(strings.TrimRight(t.Value, "\n"))
		}
		cols = max(cols, n)
	}

	charW := opts.FontSize * svgCharWidth
	lineH := opts.FontSize * svgLineHeight
	width := float64(cols+gutter)*charW + 2*opts.Padding
	height := float64(len(lines))*lineH + 2*opts.Padding

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" font-family="%s" font-size="%spx">`,
		num(width), num(height), num(width), num(height), escape(opts.FontFamily), num(opts.FontSize))
	bw.WriteByte('\n')

	if opts.IncludeBackground {
		fmt.Fprintf(bw, `<rect width="100%%" height="100%%" fill="%s"/>`, background(req.Style))
		bw.WriteByte('\n')
	}

	numberColour := colour(req.Style, chroma.LineNumbers)

	for i, line := range lines {
		// First baseline sits one font size below the top padding.
		y := opts.Padding + opts.FontSize + float64(i)*lineH
		fmt.Fprintf(bw, `<text x="%s" y="%s" xml:space="preserve">`, num(opts.Padding), num(y))

		if gutter > 0 {
			fmt.Fprintf(bw, `<tspan fill="%s">%*d </tspan>`, numberColour, gutter-1, i+1)
		}

		for _, t := range line {
			text := strings.TrimRight(t.Value, "\n")
			if text == "" {
				continue
			}

			entry := req.Style.Get(t.Type)
			fmt.Fprintf(bw, `<tspan fill="%s"`, colour(req.Style, t.Type))
			if entry.Bold == chroma.Yes {
				bw.WriteString(` font-weight="bold"`)
			}
			if entry.Italic == chroma.Yes {
				bw.WriteString(` font-style="italic"`)
			}
			if entry.Underline == chroma.Yes {
				bw.WriteString(` text-decoration="underline"`)
			}
			fmt.Fprintf(bw, ">%s</tspan>", escape(text))
		}

		bw.WriteString("</text>\n")
	}

	bw.WriteString("</svg>\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: svg: %w", ErrFormat, err)
	}

	return nil
}

func colour(s *chroma.Style, tt chroma.TokenType) string {
	if c := s.Get(tt).Colour; c.IsSet() {
		return c.String()
	}
	if c := s.Get(chroma.Text).Colour; c.IsSet() {
		return c.String()
	}

	return "#000000"
}

func background(s *chroma.Style) string {
	if c := s.Get(chroma.Background).Background; c.IsSet() {
		return c.String()
	}

	return "#ffffff"
}

func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

func escape(s string) string {
	var sb strings.Builder
	if err := xml.EscapeText(&sb, []byte(s)); err != nil {
		return s
	}

	return sb.String()
}
