package cog

// Type is a type annotation: a primitive or a pointer. A nil Type means no
// annotation was written.
type Type interface {
	String() string
	Equals(t2 Type) bool
}

type BasicType struct {
	Typ string
}

func (t *BasicType) String() string {
	return t.Typ
}

func (t *BasicType) Equals(t2 Type) bool {
	if typ, ok := t2.(*BasicType); ok {
		return t.Typ == typ.Typ
	}

	return false
}

type PointerType struct {
	Elem Type
}

func (t *PointerType) String() string {
	return "*" + t.Elem.String()
}

func (t *PointerType) Equals(t2 Type) bool {
	if typ, ok := t2.(*PointerType); ok {
		return t.Elem.Equals(typ.Elem)
	}

	return false
}

var (
	TypeI32    = &BasicType{"i32"}
	TypeI64    = &BasicType{"i64"}
	TypeU32    = &BasicType{"u32"}
	TypeU64    = &BasicType{"u64"}
	TypeF32    = &BasicType{"f32"}
	TypeF64    = &BasicType{"f64"}
	TypeBool   = &BasicType{"bool"}
	TypeString = &BasicType{"String"}
)

var typeKeywords = map[TokenType]*BasicType{
	TokenTypeI32:    TypeI32,
	TokenTypeI64:    TypeI64,
	TokenTypeU32:    TypeU32,
	TokenTypeU64:    TypeU64,
	TokenTypeF32:    TypeF32,
	TokenTypeF64:    TypeF64,
	TokenTypeBool:   TypeBool,
	TokenTypeString: TypeString,
}

// LookupType resolves a primitive type by its keyword spelling.
func LookupType(name string) (Type, bool) {
	if t, ok := keywordTable[name]; ok {
		if basic, ok := typeKeywords[t]; ok {
			return basic, true
		}
	}

	return nil, false
}

// PointerTo wraps elem in depth levels of pointer.
func PointerTo(elem Type, depth int) Type {
	for i := 0; i < depth; i++ {
		elem = &PointerType{Elem: elem}
	}

	return elem
}
