// Package host defines the narrow interfaces the attribute decoder uses
// to reach its external collaborators: class loading, reflective method
// and field lookup, object construction, and string interning (spec.md
// §6). None of these are implemented here — the real implementations
// live with the class loader and object model, outside this subsystem's
// scope (spec.md §1, "Out of scope"). An in-memory test double lives in
// internal/attr/hostfake.
package host

import "fmt"

// ClassLoader is an opaque handle passed through to the resolver; this
// subsystem never inspects it, only threads it through to FindType calls
// the way the original passes a ClassLoader* unexamined.
type ClassLoader any

// ClassMirror is the runtime's reflective object for a class. Descriptor
// is the JVM descriptor form (Lpkg/Name;); BinaryName is the internal
// (slash-separated) class name, e.g. java/lang/String, that
// FindClassUsingLoader looks classes up by.
type ClassMirror struct {
	Descriptor      string
	BinaryName      string
	IsEnum          bool
	IsAnnotation    bool
	DeclaredMethods []*MethodMirror
	DeclaredFields  []*FieldMirror
}

// MethodByName returns the first declared method with the given name, by
// linear scan — spec.md §4.3 step 6 calls for exactly this: "look up the
// annotation interface method whose name matches by linear scan of the
// class's declared methods".
func (c *ClassMirror) MethodByName(name string) *MethodMirror {
	for _, m := range c.DeclaredMethods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// FieldByName returns the first declared field with the given name.
func (c *ClassMirror) FieldByName(name string) *FieldMirror {
	for _, f := range c.DeclaredFields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// MethodMirror is the runtime's reflective object for a method.
// ReturnType is the return type's descriptor substring, as produced by
// the external GetReturnType descriptor splitter (spec.md §6).
type MethodMirror struct {
	Name       string
	Descriptor string
	ReturnType string
}

// FieldMirror is the runtime's reflective object for a field.
type FieldMirror struct {
	Name       string
	Descriptor string
}

// Annotation is the dynamic proxy AnnotationFactory.createAnnotation
// would hand back: a runtime view over an annotation interface whose
// members are readable by name. Reading a member whose decode failed
// returns the stored error (spec.md §7, lazy member errors).
type Annotation interface {
	Type() *ClassMirror
	Get(name string) (any, error)
}

// AnnotationMember is the (name, value, declaredType, methodMirror)
// record spec.md §4.3 step 6 builds for each annotation member before
// handing the set to AnnotationFactory.createAnnotation. Value holds
// either the decoded value, a boxed primitive, or — per the lazy-error
// policy — the error that occurred while resolving or parsing it.
type AnnotationMember struct {
	Name         string
	DeclaredType string
	Method       *MethodMirror
	Value        any
}

// ClassResolver resolves class descriptors and binary names to mirrors.
// Implementations return a *ClassNotFoundError (or wrap one) when the class
// cannot be loaded; the decoder translates that into TypeNotPresentError.
type ClassResolver interface {
	FindClassByDescriptor(descriptor string, loader ClassLoader) (*ClassMirror, error)
	FindClassUsingLoader(binaryName string, loader ClassLoader) (*ClassMirror, error)
}

// FieldResolver looks up a declared field and reads its static value —
// used for enum constant resolution (spec.md §4.3, 'e' element values).
type FieldResolver interface {
	GetClassField(class *ClassMirror, name, descriptor string) (*FieldMirror, error)
	GetFieldValue(class *ClassMirror, field *FieldMirror) (any, error)
}

// MethodResolver looks up a method mirror by name and descriptor —
// used for resolving enclosing methods (spec.md §4.4).
type MethodResolver interface {
	GetMethod(class *ClassMirror, name, descriptor string) (*MethodMirror, error)
	GetInstanceMethod(class *ClassMirror, name, descriptor string) (*MethodMirror, error)
	GetClassMethod(class *ClassMirror, name, descriptor string) (*MethodMirror, error)
}

// ObjectFactory provides the allocation-and-boxing primitives spec.md
// §6 lists: typed array allocation, primitive boxing, and string
// interning.
type ObjectFactory interface {
	NewObjectArray(length int, component *ClassMirror) ([]any, error)
	WrapPrimitive(class *ClassMirror, value any) (any, error)
	NewStringUTF(b []byte) string
}

// AnnotationFactory constructs the dynamic proxy implementing an
// annotation interface over a decoded member set (spec.md §4.3 step 7).
type AnnotationFactory interface {
	CreateAnnotation(iface *ClassMirror, members []AnnotationMember) (Annotation, error)
}

// ClassNotFoundError is the collaborator-side error a ClassResolver
// returns when a descriptor cannot be loaded; the decoder's findType
// translates it into a TypeNotPresentError (spec.md §7, §9 Note 3).
type ClassNotFoundError struct {
	Descriptor string
}

func (e *ClassNotFoundError) Error() string {
	return fmt.Sprintf("class not found: %s", e.Descriptor)
}

// TypeNotPresentError is raised when a class descriptor referenced by
// the stream cannot be loaded, carrying the pretty (dotted) binary class
// name (spec.md §7).
type TypeNotPresentError struct {
	BinaryName string
	Cause      error
}

func NewTypeNotPresentError(binaryName string, cause error) *TypeNotPresentError {
	return &TypeNotPresentError{BinaryName: binaryName, Cause: cause}
}

func (e *TypeNotPresentError) Error() string {
	return fmt.Sprintf("type %s not present", e.BinaryName)
}

func (e *TypeNotPresentError) Unwrap() error {
	return e.Cause
}

// FromBinaryClassName converts an internal (slash-separated) class name
// to its dotted binary form, e.g. "java/util/List" -> "java.util.List"
// (spec.md §6, fromBinaryClassName).
func FromBinaryClassName(internalName string) string {
	out := make([]byte, len(internalName))
	for i := 0; i < len(internalName); i++ {
		if internalName[i] == '/' {
			out[i] = '.'
		} else {
			out[i] = internalName[i]
		}
	}
	return string(out)
}

// WellKnown holds the handful of host classes resolved once during
// bootstrap and needed to allocate typed result arrays — the Go
// analogue of the source's static Class* globals
// (java_lang_reflect_Method, java_lang_annotation_Annotation, etc.;
// spec.md §5, §9 Note "Global singletons").
type WellKnown struct {
	StringClass     *ClassMirror // java.lang.String, for String[] members
	ClassClass      *ClassMirror // java.lang.Class, for Class[] members
	AnnotationClass *ClassMirror // java.lang.annotation.Annotation
}

// Bootstrap is the write-once registry of resolved collaborators built
// by InitAttributes (spec.md §5, §6; SPEC_FULL.md §4.5). Once returned
// from InitAttributes it is treated as read-only and may be shared
// across goroutines without synchronization — the corpus's
// ClassRegistry is mutable-and-growing because classes load over time;
// this registry is immutable from construction because its members are
// fixed VM collaborators, not a discovered set.
type Bootstrap struct {
	Classes     ClassResolver
	Fields      FieldResolver
	Methods     MethodResolver
	Objects     ObjectFactory
	Annotations AnnotationFactory
	WellKnown   WellKnown
}

// These are written in internal (slash-separated) form, matching the
// class names the stream itself carries — FindClassUsingLoader resolves
// against whatever form the stream uses, the same way the JVM's own
// FindClass takes an internal name. fromBinaryClassName's slash-to-dot
// conversion is reserved for human-readable error messages only.
const (
	javaLangString               = "java/lang/String"
	javaLangClass                = "java/lang/Class"
	javaLangAnnotationAnnotation = "java/lang/annotation/Annotation"
)

// InitAttributes performs the one-time resolution of the host
// collaborators and well-known classes this subsystem needs, called
// once during VM bootstrap (spec.md §6). The caller supplies the
// concrete collaborator implementations; InitAttributes resolves the
// fixed set of well-known classes through them exactly once and bundles
// everything into a Bootstrap that is safe to share read-only
// thereafter.
func InitAttributes(classes ClassResolver, fields FieldResolver, methods MethodResolver, objects ObjectFactory, annotations AnnotationFactory) (*Bootstrap, error) {
	if classes == nil || fields == nil || methods == nil || objects == nil || annotations == nil {
		return nil, fmt.Errorf("host: InitAttributes requires all five collaborators to be non-nil")
	}

	stringClass, err := classes.FindClassUsingLoader(javaLangString, nil)
	if err != nil {
		return nil, fmt.Errorf("host: resolving %s: %w", javaLangString, err)
	}
	classClass, err := classes.FindClassUsingLoader(javaLangClass, nil)
	if err != nil {
		return nil, fmt.Errorf("host: resolving %s: %w", javaLangClass, err)
	}
	annotationClass, err := classes.FindClassUsingLoader(javaLangAnnotationAnnotation, nil)
	if err != nil {
		return nil, fmt.Errorf("host: resolving %s: %w", javaLangAnnotationAnnotation, err)
	}

	return &Bootstrap{
		Classes:     classes,
		Fields:      fields,
		Methods:     methods,
		Objects:     objects,
		Annotations: annotations,
		WellKnown: WellKnown{
			StringClass:     stringClass,
			ClassClass:      classClass,
			AnnotationClass: annotationClass,
		},
	}, nil
}
