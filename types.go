package minic

// BaseType is the tag discriminating the kinds of C type this
// interpreter understands.
type BaseType int

const (
	TypeVoid BaseType = iota
	TypeChar
	TypeShort
	TypeInt
	TypeLong
	TypeUnsignedChar
	TypeUnsignedShort
	TypeUnsignedInt
	TypeUnsignedLong
	TypeFP
	TypePointer
	TypeArray
	TypeStruct
	TypeUnion
	TypeEnum
	TypeFunction
	TypeMacro
	TypeGotoLabel
	TypeType
)

var baseTypeSizes = map[BaseType]int{
	TypeVoid:          0,
	TypeChar:          1,
	TypeShort:         2,
	TypeInt:           4,
	TypeLong:          8,
	TypeUnsignedChar:  1,
	TypeUnsignedShort: 2,
	TypeUnsignedInt:   4,
	TypeUnsignedLong:  8,
	TypeFP:            8,
	TypePointer:       8,
	TypeGotoLabel:     0,
	TypeType:          8,
}

// ValueType describes one C type. Scalars, and every pointer/array
// built over a given FromType, are interned: two requests for
// "pointer to int" return the identical *ValueType, so type equality
// is pointer equality.
type ValueType struct {
	Base       BaseType
	FromType   *ValueType // pointee (Pointer) or element (Array)
	ArraySize  int        // 0 = incomplete
	Identifier string     // struct/union/enum/function tag, interned
	Size       int        // cached payload size in bytes
	Align      int        // cached alignment

	Members  *Table // struct/union field table, nil until defined
	Complete bool    // false for a forward-declared struct/union/enum

	Params   []*ValueType // function parameter types
	Returns  *ValueType   // function return type
	Variadic bool
}

// TypeRegistry constructs and deduplicates ValueType descriptors. It
// owns one canonical instance of every scalar type plus memoisation
// tables for derived pointer/array types and a by-tag table for
// struct/union/enum types.
type TypeRegistry struct {
	in       *Interner
	scalars  map[BaseType]*ValueType
	pointers map[*ValueType]*ValueType
	arrays   map[arrayKey]*ValueType
	tagged   map[string]*ValueType // interned tag -> struct/union/enum type
}

type arrayKey struct {
	elem *ValueType
	n    int
}

func NewTypeRegistry(in *Interner) *TypeRegistry {
	r := &TypeRegistry{
		in:       in,
		scalars:  make(map[BaseType]*ValueType),
		pointers: make(map[*ValueType]*ValueType),
		arrays:   make(map[arrayKey]*ValueType),
		tagged:   make(map[string]*ValueType),
	}
	for base, size := range baseTypeSizes {
		if base == TypePointer {
			continue
		}
		r.scalars[base] = &ValueType{Base: base, Size: size, Align: size, Complete: true}
	}
	return r
}

// Scalar returns the canonical type for a non-derived base type.
func (r *TypeRegistry) Scalar(base BaseType) *ValueType {
	t, ok := r.scalars[base]
	if !ok {
		panic("minic: not a scalar base type")
	}
	return t
}

// Pointer returns the canonical "pointer to from" type.
func (r *TypeRegistry) Pointer(from *ValueType) *ValueType {
	if t, ok := r.pointers[from]; ok {
		return t
	}
	t := &ValueType{Base: TypePointer, FromType: from, Size: 8, Align: 8, Complete: true}
	r.pointers[from] = t
	return t
}

// Array returns the canonical "n-element array of elem" type. n == 0
// denotes an incomplete array type (e.g. an `extern` declaration).
func (r *TypeRegistry) Array(elem *ValueType, n int) *ValueType {
	key := arrayKey{elem: elem, n: n}
	if t, ok := r.arrays[key]; ok {
		return t
	}
	t := &ValueType{Base: TypeArray, FromType: elem, ArraySize: n, Complete: n != 0}
	if n != 0 {
		t.Size = n * r.SizeOf(elem, 0)
		t.Align = elem.Align
	}
	r.arrays[key] = t
	return t
}

// DeclareTagged returns the (possibly forward-declared) type for a
// struct/union/enum tag, creating an incomplete one on first mention.
func (r *TypeRegistry) DeclareTagged(base BaseType, tag string) *ValueType {
	tag = r.in.InternCString(tag)
	if t, ok := r.tagged[tag]; ok {
		return t
	}
	t := &ValueType{Base: base, Identifier: tag}
	r.tagged[tag] = t
	return t
}

// CompleteStruct registers the field table of a forward-declared
// struct/union type. Calling it twice on the same type is a
// programming error: field registration happens exactly once.
func (r *TypeRegistry) CompleteStruct(t *ValueType, members *Table, size, align int) {
	if t.Complete {
		panic("minic: struct/union type completed twice: " + t.Identifier)
	}
	t.Members = members
	t.Size = size
	t.Align = align
	t.Complete = true
}

// Function builds a function type from its parameter/return signature.
// Function types are not deduplicated: every call returns a fresh
// descriptor. Size and Align are left at zero (a function value's
// payload is a token range, not these bytes).
func (r *TypeRegistry) Function(params []*ValueType, returns *ValueType, variadic bool) *ValueType {
	return &ValueType{Base: TypeFunction, Params: params, Returns: returns, Variadic: variadic}
}

// SizeOf returns the in-memory footprint of t. For any array type,
// overrideArraySize (if non-zero) stands in for t.ArraySize —
// this is how a variable-length declaration like `int a[n]` sizes
// itself from a runtime-evaluated n.
func (r *TypeRegistry) SizeOf(t *ValueType, overrideArraySize int) int {
	if t.Base == TypeArray && overrideArraySize != 0 {
		return overrideArraySize * r.SizeOf(t.FromType, 0)
	}
	return t.Size
}
