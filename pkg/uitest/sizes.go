package uitest

// Terminal sizes used across UI tests.
const (
	CompactWidth  = 80
	CompactHeight = 24

	StandardWidth  = 120
	StandardHeight = 40
)

type Size struct {
	Width  int
	Height int
}

var (
	Compact  = Size{CompactWidth, CompactHeight}
	Standard = Size{StandardWidth, StandardHeight}
)
