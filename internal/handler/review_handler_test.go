package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRating(t *testing.T) {
	valid := []float64{0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5}
	for _, rating := range valid {
		assert.True(t, validRating(rating), "%v", rating)
	}

	invalid := []float64{0, 0.25, 0.4, 1.1, 2.75, 5.5, 6, -1}
	for _, rating := range invalid {
		assert.False(t, validRating(rating), "%v", rating)
	}
}
