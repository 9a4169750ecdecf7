package reflection

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Inner struct {
	Depth int
}

type Gadget struct {
	*Inner
	Name    string
	Volume  float64 `inject:"level"`
	Volume2 float64 `inject:"volume"`
	private string
	calls   []string
}

func (g *Gadget) SetName(name string) {
	g.calls = append(g.calls, "SetName")
	g.Name = name
}

func (g *Gadget) SetPair(a, b string) {}

func (g *Gadget) SetBroken(string) error {
	return errors.New("broken")
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Color", Capitalize("color"))
	assert.Equal(t, "Color", Capitalize("Color"))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "Ärger", Capitalize("ärger"))
	assert.Equal(t, "SetBorderWidth", SetterName("borderWidth"))
}

func TestFindSetter(t *testing.T) {
	g := &Gadget{}

	setter, ok := FindSetter(g, "name")
	require.True(t, ok)
	setter.Call([]reflect.Value{reflect.ValueOf("x")})
	assert.Equal(t, "x", g.Name)

	_, ok = FindSetter(g, "pair")
	assert.False(t, ok, "setters take exactly one argument")

	_, ok = FindSetter(Gadget{}, "name")
	assert.False(t, ok, "pointer-receiver methods are not on the value")

	_, ok = FindSetter(nil, "name")
	assert.False(t, ok)
}

func TestFindField(t *testing.T) {
	tests := []struct {
		name     string
		target   any
		property string
		want     string
		found    bool
	}{
		{"by capitalized name", &Gadget{}, "name", "Name", true},
		{"by tag", &Gadget{}, "level", "Volume", true},
		{"tag wins over name", &Gadget{}, "volume", "Volume2", true},
		{"unexported", &Gadget{}, "private", "", false},
		{"unknown", &Gadget{}, "missing", "", false},
		{"promoted through nil embed", &Gadget{}, "depth", "", false},
		{"promoted", &Gadget{Inner: &Inner{}}, "depth", "Depth", true},
		{"not a pointer", Gadget{}, "name", "", false},
		{"not a struct", new(int), "name", "", false},
		{"nil pointer", (*Gadget)(nil), "name", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, ok := FindField(tt.target, tt.property)
			assert.Equal(t, tt.found, ok)
			if !tt.found {
				return
			}

			elem := reflect.ValueOf(tt.target).Elem()
			sf, _ := elem.Type().FieldByName(tt.want)
			want, err := elem.FieldByIndexErr(sf.Index)
			require.NoError(t, err)
			assert.Equal(t, want.Addr().Pointer(), field.Addr().Pointer())
		})
	}
}

func TestAssign(t *testing.T) {
	g := &Gadget{}

	field, ok := FindField(g, "level")
	require.True(t, ok)
	require.NoError(t, Assign(field, 11))
	assert.Equal(t, 11.0, g.Volume)

	require.NoError(t, Assign(field, nil))
	assert.Zero(t, g.Volume)

	err := Assign(field, "loud")
	var te TypeError
	assert.ErrorAs(t, err, &te)
}

func TestErrorResult(t *testing.T) {
	g := &Gadget{}

	m, _ := FindMethod(g, "SetBroken")
	out := m.Call([]reflect.Value{reflect.ValueOf("")})
	assert.EqualError(t, ErrorResult(out), "broken")

	m, _ = FindMethod(g, "SetName")
	out = m.Call([]reflect.Value{reflect.ValueOf("")})
	assert.NoError(t, ErrorResult(out))

	assert.NoError(t, ErrorResult([]reflect.Value{reflect.ValueOf(1)}))
	assert.NoError(t, ErrorResult(nil))
}
