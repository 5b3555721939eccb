package smali

// MethodEntry is one method declaration recognised in a unit, numbered in
// scan order. The declared return type is not kept.
type MethodEntry struct {
	Ordinal int
	Name    string
	Params  string
}

// Unit is the scan result for one disassembly file.
type Unit struct {
	Class   string // raw descriptor, e.g. Lcom/example/Foo;
	Methods []MethodEntry
}

// IsConstructor reports whether the entry is an instance initializer.
func (m MethodEntry) IsConstructor() bool {
	return m.Name == ConstructorName
}

const (
	// ConstructorName is the smali name of an instance initializer.
	ConstructorName = "<init>"
	// ClassMarker is the directive that introduces a class declaration.
	ClassMarker = ".class"
)
