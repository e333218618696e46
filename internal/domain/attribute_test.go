package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttribute_UnmarshalCatalogJSON(t *testing.T) {
	raw := `[
		{"name":"screen_size","value":55},
		{"name":"smart_tv","value":true},
		{"name":"resolution","value":"UHD"},
		{"name":"recycled_materials","value":["plastic","glass"]},
		{"name":"lifespan","value":null}
	]`

	var attrs []Attribute
	require.NoError(t, json.Unmarshal([]byte(raw), &attrs))
	require.Len(t, attrs, 5)

	n, ok := attrs[0].Value.Number()
	require.True(t, ok)
	assert.Equal(t, float64(55), n)

	b, ok := attrs[1].Value.Bool()
	require.True(t, ok)
	assert.True(t, b)

	assert.Equal(t, KindString, attrs[2].Value.Kind())
	assert.Equal(t, "plastic,glass", attrs[3].Value.Raw())
	assert.Equal(t, KindNull, attrs[4].Value.Kind())
	assert.Equal(t, "", attrs[4].Value.Raw())
}

func TestAttribute_MarshalKeepsKinds(t *testing.T) {
	attrs := []Attribute{
		NewAttribute("power_output", NumberValue(40)),
		NewAttribute("voice_control", BoolValue(false)),
		NewAttribute(RecycledMaterials, ListValue()),
		NewAttribute("unknown", NullValue()),
	}

	b, err := json.Marshal(attrs)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"name":"power_output","value":40},{"name":"voice_control","value":false},{"name":"recycled_materials","value":[]},{"name":"unknown","value":null}]`,
		string(b),
	)
}

func TestAttributeValue_RawNumbers(t *testing.T) {
	cases := map[float64]string{
		55:   "55",
		0.5:  "0.5",
		4.2:  "4.2",
		1200: "1200",
	}
	for in, want := range cases {
		assert.Equal(t, want, NumberValue(in).Raw())
	}
}

func TestAttributeValue_NestedObjectKeptAsText(t *testing.T) {
	var v AttributeValue
	require.NoError(t, json.Unmarshal([]byte(`{"a":1}`), &v))
	assert.Equal(t, `{"a":1}`, v.Raw())
}
