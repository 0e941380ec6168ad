package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quellcode/quellcode/pkg/validate"
)

type sample struct {
	Name   string   `json:"name"             validate:"required"`
	Tags   []string `json:"tags"             validate:"required"`
	Size   float64  `json:"size"             validate:"gt=0"`
	Width  int      `json:"width"            validate:"gte=1"`
	Format string   `json:"format,omitempty" validate:"omitempty,oneof=svg html"`
}

func TestStruct(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input sample
		want  []string
	}{
		"valid": {
			input: sample{Name: "a", Tags: []string{}, Size: 1, Width: 1},
		},
		"empty slice is set": {
			input: sample{Name: "a", Tags: []string{}, Size: 1, Width: 1, Format: "svg"},
		},
		"nil slice": {
			input: sample{Name: "a", Size: 1, Width: 1},
			want:  []string{"tags: must be set"},
		},
		"many": {
			input: sample{Tags: []string{}, Format: "png"},
			want: []string{
				"name: must be set",
				"size: must be greater than 0",
				"width: must be at least 1",
				"format: must be one of [svg html]",
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := validate.Struct(tc.input)
			if tc.want == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, validate.ErrInvalid)
			for _, w := range tc.want {
				assert.ErrorContains(t, err, w)
			}
		})
	}
}
