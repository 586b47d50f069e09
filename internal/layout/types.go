package layout

import "go.bytecodealliance.org/wit"

// Cell declarations shared by the guest value types and the host codec.
var (
	// GodotString is a pointer cell referencing a host string record.
	GodotString = named("string", wit.String{})

	// StringName is a pointer cell referencing an interned host name.
	StringName = named("string-name", wit.U64{})

	// Object is a pointer cell holding a host object address.
	Object = named("object", wit.U64{})

	// Vector3 is stored inline.
	Vector3 = named("vector3", &wit.Record{
		Fields: []wit.Field{
			{Name: "x", Type: wit.F32{}},
			{Name: "y", Type: wit.F32{}},
			{Name: "z", Type: wit.F32{}},
		},
	})

	// Variant is the tagged dynamic value. Scalars and inline structs live in
	// data, host pointers in ptr; an object variant also keeps its id in data.
	Variant = named("variant", &wit.Record{
		Fields: []wit.Field{
			{Name: "type", Type: wit.U32{}},
			{Name: "data", Type: &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.U64{}, wit.U64{}}}}},
			{Name: "ptr", Type: wit.U64{}},
		},
	})

	// ObjectHeader is the host's per-object bookkeeping record.
	ObjectHeader = named("object-header", &wit.Record{
		Fields: []wit.Field{
			{Name: "id", Type: wit.U64{}},
			{Name: "class", Type: wit.U32{}},
			{Name: "extension-class", Type: wit.U32{}},
			{Name: "refcount", Type: wit.U32{}},
			{Name: "flags", Type: wit.U32{}},
			{Name: "instance", Type: wit.U64{}},
		},
	})
)

func named(name string, kind wit.TypeDefKind) *wit.TypeDef {
	return &wit.TypeDef{Name: &name, Kind: kind}
}

// Name returns the declared name of a cell type, or "" for anonymous types.
func Name(t wit.Type) string {
	if td, ok := t.(*wit.TypeDef); ok && td.Name != nil {
		return *td.Name
	}
	return ""
}
