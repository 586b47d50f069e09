package layout

import (
	"testing"

	"go.bytecodealliance.org/wit"
)

func TestCalculatePrimitives(t *testing.T) {
	c := NewCalculator()

	tests := []struct {
		typ   wit.Type
		name  string
		size  uint32
		align uint32
	}{
		{wit.Bool{}, "bool", 1, 1},
		{wit.U8{}, "u8", 1, 1},
		{wit.U16{}, "u16", 2, 2},
		{wit.U32{}, "u32", 4, 4},
		{wit.S32{}, "s32", 4, 4},
		{wit.U64{}, "u64", 8, 8},
		{wit.S64{}, "s64", 8, 8},
		{wit.F32{}, "f32", 4, 4},
		{wit.F64{}, "f64", 8, 8},
		{wit.String{}, "string", 8, 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info := c.Calculate(tc.typ)
			if info.Size != tc.size {
				t.Errorf("size: got %d, want %d", info.Size, tc.size)
			}
			if info.Align != tc.align {
				t.Errorf("align: got %d, want %d", info.Align, tc.align)
			}
		})
	}
}

func TestCalculateRecord(t *testing.T) {
	c := NewCalculator()

	t.Run("empty", func(t *testing.T) {
		typedef := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{}}}
		info := c.Calculate(typedef)
		if info.Size != 0 {
			t.Errorf("size: got %d, want 0", info.Size)
		}
	})

	t.Run("mixed_alignment", func(t *testing.T) {
		typedef := &wit.TypeDef{Kind: &wit.Record{
			Fields: []wit.Field{
				{Name: "a", Type: wit.U8{}},
				{Name: "b", Type: wit.U32{}},
				{Name: "c", Type: wit.U8{}},
			},
		}}
		info := c.Calculate(typedef)

		want := map[string]uint32{"a": 0, "b": 4, "c": 8}
		for name, off := range want {
			if info.FieldOffs[name] != off {
				t.Errorf("field %s offset: got %d, want %d", name, info.FieldOffs[name], off)
			}
		}
		if info.Size != 12 {
			t.Errorf("size: got %d, want 12", info.Size)
		}
		if info.Align != 4 {
			t.Errorf("align: got %d, want 4", info.Align)
		}
	})

	t.Run("cached", func(t *testing.T) {
		typedef := &wit.TypeDef{Kind: &wit.Record{
			Fields: []wit.Field{{Name: "x", Type: wit.U64{}}},
		}}
		first := c.Calculate(typedef)
		second := c.Calculate(typedef)
		if first.Size != second.Size || len(c.cache) == 0 {
			t.Errorf("cache miss: %+v vs %+v", first, second)
		}
	})
}

func TestCalculateTuple(t *testing.T) {
	c := NewCalculator()

	typedef := &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.U8{}, wit.U64{}, wit.U8{}}}}
	info := c.Calculate(typedef)

	if info.Size != 24 {
		t.Errorf("size: got %d, want 24", info.Size)
	}
	if info.Align != 8 {
		t.Errorf("align: got %d, want 8", info.Align)
	}
}

func TestCalculateEnumAndAlias(t *testing.T) {
	c := NewCalculator()

	cases := make([]wit.EnumCase, 300)
	for i := range cases {
		cases[i] = wit.EnumCase{Name: "case"}
	}
	info := c.Calculate(&wit.TypeDef{Kind: &wit.Enum{Cases: cases}})
	if info.Size != 2 || info.Align != 2 {
		t.Errorf("enum: got size %d align %d, want 2/2", info.Size, info.Align)
	}

	alias := c.Calculate(&wit.TypeDef{Kind: wit.U32{}})
	if alias.Size != 4 || alias.Align != 4 {
		t.Errorf("alias: got size %d align %d, want 4/4", alias.Size, alias.Align)
	}
}

func TestCellLayouts(t *testing.T) {
	tests := []struct {
		typ   wit.Type
		name  string
		offs  map[string]uint32
		size  uint32
		align uint32
	}{
		{GodotString, "string", nil, 8, 8},
		{StringName, "string-name", nil, 8, 8},
		{Object, "object", nil, 8, 8},
		{Vector3, "vector3", map[string]uint32{"x": 0, "y": 4, "z": 8}, 12, 4},
		{Variant, "variant", map[string]uint32{"type": 0, "data": 8, "ptr": 24}, 32, 8},
		{ObjectHeader, "object-header", map[string]uint32{
			"id": 0, "class": 8, "extension-class": 12, "refcount": 16, "flags": 20, "instance": 24,
		}, 32, 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Name(tc.typ); got != tc.name {
				t.Errorf("name: got %q, want %q", got, tc.name)
			}
			info := Of(tc.typ)
			if info.Size != tc.size {
				t.Errorf("size: got %d, want %d", info.Size, tc.size)
			}
			if info.Align != tc.align {
				t.Errorf("align: got %d, want %d", info.Align, tc.align)
			}
			for field, off := range tc.offs {
				got, ok := info.FieldOffs[field]
				if !ok || got != off {
					t.Errorf("field %s: got %d (present %v), want %d", field, got, ok, off)
				}
			}
		})
	}

	if Name(wit.U32{}) != "" {
		t.Error("anonymous type should have no name")
	}
}
