package fidata_test

import (
	"testing"

	"github.com/fwojciec/fidata"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePlatform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"ICX 7150", "ICX7150", true},
		{"icx-8200", "ICX8200", true},
		{"ICX 7450\n", "ICX7450", true},
		{"ICX 7550-13", "ICX7550", true},
		{"ICX 7750", "ICX7550", true},
		{"ICX 8200-42", "ICX8200", true},
		{"ICX 7150-ES", "ICX7150ES", true},
		{"ICX7250ES", "ICX7250ES", true},
		{"Feature", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := fidata.NormalizePlatform(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
