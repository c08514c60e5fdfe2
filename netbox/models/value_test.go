package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeObjectKeepsIntegers(t *testing.T) {
	obj, err := DecodeObject([]byte(`{"id": 12345678901234, "name": "sw1", "site": {"id": 7, "slug": "zrh"}, "tags": [], "serial": null, "ok": true}`))
	require.NoError(t, err)

	n, ok := obj["id"].AsNumber()
	require.True(t, ok)
	assert.Equal(t, "12345678901234", n.String())

	site, ok := obj["site"].AsMapping()
	require.True(t, ok)
	assert.Equal(t, String("zrh"), site["slug"])

	assert.Equal(t, KindSequence, obj["tags"].Kind())
	assert.True(t, obj["serial"].IsNull())
	assert.Equal(t, Bool(true), obj["ok"])
}

func TestDecodeObjectRejectsNonObjects(t *testing.T) {
	_, err := DecodeObject([]byte(`[1, 2]`))
	assert.Error(t, err)
}

func TestValueText(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"null", Null(), ""},
		{"bool", Bool(false), "false"},
		{"int", Int(42), "42"},
		{"float", Float(1.5), "1.5"},
		{"string", String("a,b"), "a,b"},
		{"sequence", Sequence([]Value{String("x"), Int(1)}), `["x",1]`},
		{"mapping", Mapping(Object{"b": Int(2), "a": String("1")}), `{"a":"1","b":2}`},
		{"empty sequence", Sequence(nil), `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.Text())
		})
	}
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Int(7).Equal(Number(json.Number("7.0"))))
	assert.False(t, Int(7).Equal(String("7")))
	assert.True(t, Mapping(Object{"a": Int(1)}).Equal(Mapping(Object{"a": Int(1)})))
	assert.False(t, Sequence([]Value{Int(1)}).Equal(Sequence([]Value{Int(1), Int(2)})))
}

func TestFromAnyHandlesParserTypes(t *testing.T) {
	v := FromAny(map[string]interface{}{
		"a": int64(3),
		"b": 2.5,
		"c": []interface{}{"x", nil},
	})

	obj, ok := v.AsMapping()
	require.True(t, ok)
	assert.Equal(t, Int(3), obj["a"])
	assert.Equal(t, Float(2.5), obj["b"])
	assert.Equal(t, Sequence([]Value{String("x"), Null()}), obj["c"])
}

func TestParseDescriptor(t *testing.T) {
	d, ok := ParseDescriptor("/dcim/devices.csv")
	require.True(t, ok)
	assert.Equal(t, Descriptor{Category: "dcim", Type: "devices"}, d)
	assert.Equal(t, "dcim/devices/", d.Resolve())
	assert.Equal(t, "dcim/devices.csv", d.FileName())

	_, ok = ParseDescriptor("devices")
	assert.False(t, ok)
	_, ok = ParseDescriptor("a/b/c")
	assert.False(t, ok)
}
