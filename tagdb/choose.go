package tagdb

import (
	"math"

	"github.com/tommy-xr/shock2quest-sub001/weighted"
)

// WEIGHT_SCALE converts leaf weights to selector weights.
const WEIGHT_SCALE = 1000

func ScaleWeight(w float32) uint32 {
	if !(w > 0) {
		return 0
	}
	scaled := math.Round(float64(w) * WEIGHT_SCALE)
	if scaled > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(scaled)
}

// ChooseLeaf draws the data of one leaf by its scaled weight.
func ChooseLeaf(src weighted.Source, leaves []Leaf) (int32, error) {
	values := make([]int32, len(leaves))
	weights := make([]uint32, len(leaves))
	for i, l := range leaves {
		values[i] = l.Data
		weights[i] = ScaleWeight(l.Weight)
	}
	return weighted.Choose(src, values, weights)
}
