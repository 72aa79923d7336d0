package decoder

import "strings"

// Expected is the JVM type descriptor an element_value is parsed
// against — "I" for int, "Ljava/lang/String;" for String, "[I" for an
// int array, "Lfoo/Bar;" for a class, enum, or annotation-interface
// type, depending on what Bar turns out to be once resolved. Dispatch is
// driven entirely by this descriptor, never by the element_value's
// embedded tag alone (spec.md §4.3).
type Expected string

const (
	expectedString = Expected("Ljava/lang/String;")
	expectedClass  = Expected("Ljava/lang/Class;")
)

func (e Expected) isPrimitive() bool {
	switch e {
	case "Z", "B", "S", "C", "I", "J", "F", "D":
		return true
	default:
		return false
	}
}

func (e Expected) isArray() bool {
	return strings.HasPrefix(string(e), "[")
}

// component strips the leading '[' to get the array's element type.
func (e Expected) component() Expected {
	return e[1:]
}

func (e Expected) isReference() bool {
	return strings.HasPrefix(string(e), "L") && strings.HasSuffix(string(e), ";")
}

// binaryName strips the leading 'L' and trailing ';' and slash-to-dots
// the result, e.g. "Lfoo/Bar;" -> "foo.Bar".
func (e Expected) binaryName() string {
	s := strings.TrimSuffix(strings.TrimPrefix(string(e), "L"), ";")
	return strings.ReplaceAll(s, "/", ".")
}

// prettyName renders the human-readable name used in FormatError
// messages, matching spec.md Scenario 7's "int expected" exactly for
// primitives and falling back to the binary class name otherwise.
func (e Expected) prettyName() string {
	switch e {
	case "Z":
		return "boolean"
	case "B":
		return "byte"
	case "S":
		return "short"
	case "C":
		return "char"
	case "I":
		return "int"
	case "J":
		return "long"
	case "F":
		return "float"
	case "D":
		return "double"
	case expectedString:
		return "String"
	case expectedClass:
		return "Class"
	}
	if e.isArray() {
		return e.component().prettyName() + "[]"
	}
	if e.isReference() {
		return e.binaryName()
	}
	return string(e)
}
