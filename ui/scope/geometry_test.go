package scope

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ftl/iqscope/core"
)

func TestRectConversion(t *testing.T) {
	widget := rect{bottom: 200, right: 400}
	testCases := []struct {
		p        point
		expected core.FPoint
	}{
		{point{0, 200}, core.FPoint{X: 0, Y: 0}},
		{point{400, 0}, core.FPoint{X: 1, Y: 1}},
		{point{100, 150}, core.FPoint{X: 0.25, Y: 0.25}},
	}
	for i, tC := range testCases {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			actual := widget.toFPoint(tC.p)
			assert.Equal(t, tC.expected, actual)
			assert.Equal(t, tC.p, widget.toPoint(actual))
		})
	}
}

func TestRectConversion_Empty(t *testing.T) {
	assert.Equal(t, core.FPoint{}, rect{}.toFPoint(point{10, 10}))
}
