// Package dtype enumerates the tensor element types the engine needs
// to propagate across auxiliary operators. The data-type inference
// rules that pick one of them live in graphdef.InferDType.
package dtype

// Type is a tensor element type, modeled after TensorFlow's DT_* enum.
// The engine only needs to name and compare these, never compute with
// them.
type Type string

const (
	Invalid Type = ""
	Float32 Type = "DT_FLOAT"
	Float64 Type = "DT_DOUBLE"
	Int32   Type = "DT_INT32"
	Int64   Type = "DT_INT64"
	Bool    Type = "DT_BOOL"
	String  Type = "DT_STRING"
)
