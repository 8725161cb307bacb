package mask

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/stradaa/GraFT-analysis/internal/models"
)

// Spec is a mask specification: a named auto-threshold method, an explicit
// boolean mask, or unset. Resolve dispatches over the variant with a type
// switch; callers construct whichever variant they have.
type Spec interface {
	maskSpec()
}

// Unset means no mask was supplied. Resolving it is a no-op.
type Unset struct{}

// Named selects one of the automatic thresholding methods by name. The name
// is matched case-insensitively against the supported set.
type Named struct {
	// Method is the method name, e.g. "otsu"
	Method string
}

// Explicit carries a user-supplied (or previously computed) boolean mask.
type Explicit struct {
	// Grid is the rows x cols mask, true marking pixels of interest
	Grid *models.Mask
}

func (Unset) maskSpec()    {}
func (Named) maskSpec()    {}
func (Explicit) maskSpec() {}

// SpecValue wraps a Spec so the polymorphic mask field can be decoded from
// and encoded to YAML. A string becomes Named, a 2D sequence of booleans
// becomes Explicit, and null or an empty sequence becomes Unset.
type SpecValue struct {
	Spec Spec
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *SpecValue) UnmarshalYAML(node *yaml.Node) error {
	s, err := decodeSpecNode(node)
	if err != nil {
		return err
	}
	v.Spec = s
	return nil
}

// MarshalYAML implements yaml.Marshaler so configurations round-trip.
func (v SpecValue) MarshalYAML() (interface{}, error) {
	switch sp := v.Spec.(type) {
	case nil, Unset:
		return nil, nil
	case Named:
		return sp.Method, nil
	case Explicit:
		if sp.Grid == nil {
			return nil, nil
		}
		grid := make([][]bool, sp.Grid.Rows)
		for r := 0; r < sp.Grid.Rows; r++ {
			grid[r] = make([]bool, sp.Grid.Cols)
			for c := 0; c < sp.Grid.Cols; c++ {
				grid[r][c] = sp.Grid.At(r, c)
			}
		}
		return grid, nil
	default:
		return nil, fmt.Errorf("unknown mask spec variant %T", sp)
	}
}

func decodeSpecNode(node *yaml.Node) (Spec, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" || node.Value == "" {
			return Unset{}, nil
		}
		if node.Tag == "!!str" {
			return Named{Method: node.Value}, nil
		}
		return nil, &InvalidTypeError{Got: fmt.Sprintf("scalar %s", node.Value)}
	case yaml.SequenceNode:
		return decodeGridNode(node)
	case yaml.AliasNode:
		return decodeSpecNode(node.Alias)
	}
	return nil, &InvalidTypeError{Got: fmt.Sprintf("yaml node kind %d", node.Kind)}
}

func decodeGridNode(node *yaml.Node) (Spec, error) {
	if len(node.Content) == 0 {
		return Unset{}, nil
	}
	grid := make([][]bool, 0, len(node.Content))
	for _, row := range node.Content {
		if row.Kind != yaml.SequenceNode {
			return nil, &InvalidTypeError{Got: fmt.Sprintf("row value %s", row.Value)}
		}
		bits := make([]bool, 0, len(row.Content))
		for _, cell := range row.Content {
			if cell.Kind == yaml.SequenceNode {
				// a third nesting level means a stack of mask planes
				return nil, &DimensionError{}
			}
			if cell.Tag != "!!bool" {
				return nil, &InvalidTypeError{Got: fmt.Sprintf("value %s", cell.Value)}
			}
			var b bool
			if err := cell.Decode(&b); err != nil {
				return nil, &InvalidTypeError{Got: fmt.Sprintf("value %s", cell.Value)}
			}
			bits = append(bits, b)
		}
		grid = append(grid, bits)
	}
	for _, row := range grid[1:] {
		if len(row) != len(grid[0]) {
			return nil, fmt.Errorf("mask rows have unequal lengths (%d vs %d)",
				len(grid[0]), len(row))
		}
	}
	return Explicit{Grid: models.NewMaskFromGrid(grid)}, nil
}
