package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCategoryWeights(t *testing.T) {
	weights := DefaultCategoryWeights()

	assert.Equal(t, 1, weights["professional_experience"])
	assert.Equal(t, 2, weights["theoretical_knowledge"])
	assert.Equal(t, 2, weights["practical_application"])
	assert.Len(t, weights, 3)
}

func TestDefaultCategoryWeightsReturnsFreshMap(t *testing.T) {
	first := DefaultCategoryWeights()
	first["theoretical_knowledge"] = 99

	second := DefaultCategoryWeights()
	assert.Equal(t, 2, second["theoretical_knowledge"],
		"mutating one caller's map must not leak into the defaults")
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "not a url ://")
	assert.Error(t, err)
}
