package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// maskDoc mirrors how the mask field is embedded in configuration files.
type maskDoc struct {
	Mask SpecValue `yaml:"mask"`
}

func TestSpecDecodeNamedMethod(t *testing.T) {
	var doc maskDoc
	require.NoError(t, yaml.Unmarshal([]byte(`mask: otsu`), &doc))

	named, ok := doc.Mask.Spec.(Named)
	require.True(t, ok)
	assert.Equal(t, "otsu", named.Method)
}

func TestSpecDecodeExplicitGrid(t *testing.T) {
	src := `
mask:
  - [true, false]
  - [false, true]
`
	var doc maskDoc
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))

	explicit, ok := doc.Mask.Spec.(Explicit)
	require.True(t, ok)
	assert.Equal(t, 2, explicit.Grid.Rows)
	assert.Equal(t, 2, explicit.Grid.Cols)
	assert.True(t, explicit.Grid.At(0, 0))
	assert.False(t, explicit.Grid.At(0, 1))
	assert.True(t, explicit.Grid.At(1, 1))
}

func TestSpecDecodeEmptyVariants(t *testing.T) {
	for _, src := range []string{`mask:`, `mask: null`, `mask: []`, `mask: ""`} {
		var doc maskDoc
		require.NoError(t, yaml.Unmarshal([]byte(src), &doc), "source %q", src)
		if doc.Mask.Spec != nil {
			assert.IsType(t, Unset{}, doc.Mask.Spec, "source %q", src)
		}
	}
}

func TestSpecDecodeNonBooleanGrid(t *testing.T) {
	src := `
mask:
  - [0, 1]
  - [1, 0]
`
	var doc maskDoc
	err := yaml.Unmarshal([]byte(src), &doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mask must be boolean")
}

func TestSpecDecodeThreeDimensionalGrid(t *testing.T) {
	src := `
mask:
  - [[true, false], [false, true]]
  - [[true, true], [false, false]]
`
	var doc maskDoc
	err := yaml.Unmarshal([]byte(src), &doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3D mask not supported")
}

func TestSpecDecodeRaggedGrid(t *testing.T) {
	src := `
mask:
  - [true, false, true]
  - [false]
`
	var doc maskDoc
	err := yaml.Unmarshal([]byte(src), &doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unequal")
}

func TestSpecRoundTrip(t *testing.T) {
	src := `
mask:
  - [true, false]
  - [false, true]
`
	var doc maskDoc
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))

	out, err := yaml.Marshal(&doc)
	require.NoError(t, err)

	var doc2 maskDoc
	require.NoError(t, yaml.Unmarshal(out, &doc2))
	assert.Equal(t, doc.Mask.Spec, doc2.Mask.Spec)

	named := maskDoc{Mask: SpecValue{Spec: Named{Method: "sigma"}}}
	out, err = yaml.Marshal(&named)
	require.NoError(t, err)
	var named2 maskDoc
	require.NoError(t, yaml.Unmarshal(out, &named2))
	assert.Equal(t, named.Mask.Spec, named2.Mask.Spec)
}
