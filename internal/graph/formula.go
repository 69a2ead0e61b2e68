package graph

import (
	"fmt"

	"github.com/ppiankov/credence/internal/model"
)

// Recompute evaluates a derived fact's formula over the current values of
// its inputs. lookup resolves a fact id to its value; inputs that are not
// numeric or cannot be resolved make the recomputation fail, which callers
// surface as a skipped ripple step rather than a partial write.
func Recompute(d model.Derivation, lookup func(id string) (model.Value, bool)) (model.Value, error) {
	nums := make([]float64, 0, len(d.Inputs))
	for _, id := range d.Inputs {
		v, ok := lookup(id)
		if !ok {
			return model.Value{}, fmt.Errorf("input %s not found", id)
		}
		if v.Kind != model.ValueNumber {
			return model.Value{}, fmt.Errorf("input %s is not numeric", id)
		}
		nums = append(nums, v.Number)
	}
	if len(nums) == 0 {
		return model.Value{}, fmt.Errorf("derivation %s has no inputs", d.Op)
	}

	switch d.Op {
	case model.DeriveSum:
		total := 0.0
		for _, n := range nums {
			total += n
		}
		return model.NumberValue(total), nil
	case model.DeriveDifference:
		result := nums[0]
		for _, n := range nums[1:] {
			result -= n
		}
		return model.NumberValue(result), nil
	case model.DeriveProduct:
		result := 1.0
		for _, n := range nums {
			result *= n
		}
		return model.NumberValue(result), nil
	case model.DeriveRatio:
		if len(nums) != 2 {
			return model.Value{}, fmt.Errorf("ratio needs exactly 2 inputs, got %d", len(nums))
		}
		if nums[1] == 0 {
			return model.Value{}, fmt.Errorf("ratio divides by zero")
		}
		return model.NumberValue(nums[0] / nums[1]), nil
	}
	return model.Value{}, fmt.Errorf("unknown derivation op %q", d.Op)
}
