package minic

// ScopeID tags the lexical scope a Value was defined in. ScopeBegin
// derives it from the parser source pointer XOR position; the zero
// value means "no scope" (platform/global values defined outside any
// parse).
type ScopeID uint64

// MaxTmpCopyBuf is a 256-byte copy-size limit kept as a named
// constant. AllocValueAndCopy does not consult it: no scratch buffer
// is involved, and payloads of any size are copied directly.
const MaxTmpCopyBuf = 256

// Location says which end of the Arena a Value's payload was carved
// from. It is the same type as MemoryLocation, so OnHeap/OnStack and
// LocationOnHeap/LocationOnStack are interchangeable.
type Location = MemoryLocation

const (
	OnHeap  = LocationOnHeap
	OnStack = LocationOnStack
)

// ownershipKind is a sum type over who owns a Value's payload bytes,
// replacing a four-independent-boolean scheme whose valid
// combinations would otherwise have to be remembered by convention.
type ownershipKind int

const (
	ownOwned    ownershipKind = iota // payload allocated and owned by this Value
	ownShared                        // payload owned by Parent
	ownInline                        // payload lives in the Value struct itself (not used by this port; kept for parity with alloc_value_and_data's "container+data in one block" case)
	ownExternal                      // payload is host/platform-owned; never freed here
)

// Value is the uniform tagged container every C value (scalar,
// pointer, array, struct, function, macro) is represented as.
type Value struct {
	Type *ValueType
	Data []byte // the payload bytes; len(Data) == Type size unless variable-length array

	IsLValue   bool
	LValueFrom *Value // back-reference to the value this is a view of, if any

	ScopeID    ScopeID
	OutOfScope bool

	location  Location
	ownership ownershipKind
	Parent    *Value // set iff ownership == ownShared

	// FuncBody holds the copied token range (terminated by
	// EndOfFunction) for Function- and Macro-typed values; freed ahead
	// of the payload by Free.
	FuncBody []byte
}

// AllocValueAndData allocates a container plus dataSize bytes of
// payload at location, owned by the returned Value.
func (a *Arena) AllocValueAndData(dataSize int, isLValue bool, lvalueFrom *Value, location Location) *Value {
	var data []byte
	if dataSize > 0 {
		if location == OnHeap {
			data = a.AllocHeap(dataSize)
		} else {
			data = a.AllocStack(dataSize)
		}
		if data == nil {
			return nil
		}
	}
	return &Value{
		Data:       data,
		IsLValue:   isLValue,
		LValueFrom: lvalueFrom,
		location:   location,
		ownership:  ownOwned,
	}
}

// AllocValueFromType allocates a container sized for t.
func (a *Arena) AllocValueFromType(t *ValueType, isLValue bool, lvalueFrom *Value, location Location, reg *TypeRegistry) *Value {
	v := a.AllocValueAndData(reg.SizeOf(t, 0), isLValue, lvalueFrom, location)
	if v == nil {
		return nil
	}
	v.Type = t
	return v
}

// AllocValueAndCopy deep-copies from's payload into a fresh value at
// location. The bytes go straight into the new payload whatever their
// size; there is no scratch buffer and MaxTmpCopyBuf is not checked.
func (a *Arena) AllocValueAndCopy(from *Value, location Location) *Value {
	v := a.AllocValueAndData(len(from.Data), false, nil, location)
	if v == nil {
		return nil
	}
	v.Type = from.Type
	copy(v.Data, from.Data)
	return v
}

// AllocValueFromExistingData wraps externally-held payload bytes
// without copying and without taking ownership; Free will never
// reclaim ptr.
func AllocValueFromExistingData(t *ValueType, ptr []byte, isLValue bool, lvalueFrom *Value) *Value {
	return &Value{
		Type:       t,
		Data:       ptr,
		IsLValue:   isLValue,
		LValueFrom: lvalueFrom,
		ownership:  ownExternal,
	}
}

// AllocValueShared constructs a new container viewing from's payload.
// LValueFrom is set to from only when from is itself an l-value.
func AllocValueShared(from *Value) *Value {
	v := &Value{
		Type:      from.Type,
		Data:      from.Data,
		IsLValue:  true,
		ScopeID:   from.ScopeID,
		ownership: ownShared,
		Parent:    from,
	}
	if from.IsLValue {
		v.LValueFrom = from
	}
	return v
}

// Realloc replaces v's payload with a fresh heap allocation of
// newSize bytes. The caller must be the sole owner of the previous
// payload (stack-resident, about to go out of scope) since the old
// payload is not freed here.
func (a *Arena) Realloc(v *Value, newSize int) bool {
	data := a.AllocHeap(newSize)
	if data == nil {
		return false
	}
	n := len(v.Data)
	if newSize < n {
		n = newSize
	}
	copy(data, v.Data[:n])
	v.Data = data
	v.location = OnHeap
	v.ownership = ownOwned
	return true
}

// Free reclaims v's container and payload according to its ownership.
// Function/Macro token buffers are released first.
func (a *Arena) Free(v *Value) {
	if v.Type != nil && (v.Type.Base == TypeFunction || v.Type.Base == TypeMacro) && v.FuncBody != nil {
		a.FreeHeap(v.FuncBody)
		v.FuncBody = nil
	}
	switch v.ownership {
	case ownOwned:
		if v.location == OnHeap {
			a.FreeHeap(v.Data)
		}
		// stack-resident payloads are reclaimed in bulk by frame pop,
		// never individually.
	case ownShared, ownExternal, ownInline:
		// payload owned elsewhere (or not owned at all); nothing to do.
	}
	v.Data = nil
}
