package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeter_Filled(t *testing.T) {
	tests := []struct {
		name        string
		width       int
		used, total float64
		want        int
	}{
		{"empty", 20, 0, 50, 0},
		{"half", 20, 25, 50, 10},
		{"over budget clamps", 20, 80, 50, 20},
		{"zero budget unused", 20, 0, 0, 0},
		{"zero budget used", 20, 1, 0, 20},
		{"zero width", 0, 10, 50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMeter(tt.width, tt.used, tt.total).Filled())
		})
	}
}
