package uitest

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// SetupColorProfile makes lipgloss emit true colour escapes so styled
// output is stable across environments.
func SetupColorProfile() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

// Style is the SGR state applied to a run of text. Colours are "#RRGGBB"
// for true colour and the palette index otherwise.
type Style struct {
	Foreground string
	Background string
	Bold       bool
	Italic     bool
	Underline  bool
}

type segment struct {
	text  string
	style Style
}

// FindStyle returns the style of the first run of output containing text.
func FindStyle(output, text string) (Style, bool) {
	for _, seg := range segments(output) {
		if strings.Contains(seg.text, text) {
			return seg.style, true
		}
	}

	return Style{}, false
}

// segments splits output into runs of printable text sharing one style.
func segments(output string) []segment {
	var (
		out   []segment
		cur   Style
		text  strings.Builder
		state byte
	)

	p := ansi.GetParser()
	defer ansi.PutParser(p)

	input := []byte(output)
	for len(input) > 0 {
		seq, width, n, next := ansi.DecodeSequence(input, state, p)

		switch {
		case ansi.HasCsiPrefix(seq) && seq[len(seq)-1] == 'm':
			if text.Len() > 0 {
				out = append(out, segment{text: text.String(), style: cur})
				text.Reset()
			}

			cur = applySGR(cur, p.Params())

		case width > 0:
			text.Write(seq)
		}

		input = input[n:]
		state = next
	}

	if text.Len() > 0 {
		out = append(out, segment{text: text.String(), style: cur})
	}

	return out
}

func applySGR(s Style, params ansi.Params) Style {
	if len(params) == 0 {
		return Style{}
	}

	for i := 0; i < len(params); i++ {
		switch code := params[i].Param(0); {
		case code == 0:
			s = Style{}
		case code == 1:
			s.Bold = true
		case code == 3:
			s.Italic = true
		case code == 4:
			s.Underline = true
		case code == 22:
			s.Bold = false
		case code == 23:
			s.Italic = false
		case code == 24:
			s.Underline = false
		case code == 38, code == 48:
			c, used := extendedColour(params[i+1:])
			if code == 38 {
				s.Foreground = c
			} else {
				s.Background = c
			}

			i += used
		case code == 39:
			s.Foreground = ""
		case code == 49:
			s.Background = ""
		case code >= 30 && code <= 37:
			s.Foreground = fmt.Sprint(code - 30)
		case code >= 40 && code <= 47:
			s.Background = fmt.Sprint(code - 40)
		case code >= 90 && code <= 97:
			s.Foreground = fmt.Sprint(code - 90 + 8)
		case code >= 100 && code <= 107:
			s.Background = fmt.Sprint(code - 100 + 8)
		}
	}

	return s
}

// extendedColour decodes the arguments after a 38 or 48 parameter and
// returns how many it consumed.
func extendedColour(params ansi.Params) (string, int) {
	if len(params) == 0 {
		return "", 0
	}

	switch params[0].Param(0) {
	case 5:
		if len(params) > 1 {
			return fmt.Sprint(params[1].Param(0)), 2
		}
	case 2:
		if len(params) > 3 {
			return fmt.Sprintf("#%02X%02X%02X",
				params[1].Param(0), params[2].Param(0), params[3].Param(0)), 4
		}
	}

	return "", len(params)
}
