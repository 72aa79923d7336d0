// Package hostfake is a self-contained, in-memory implementation of the
// internal/attr/host collaborator interfaces, used by the decoder and
// query test suites and, through internal/attr/fixtures, by cmd/jattr's
// demo command —
// nothing in this repository ever talks to a running JVM, so every
// class/field/method mirror this subsystem resolves comes from a
// registry populated ahead of time, the same shape as the teacher's
// ClassRegistry (internal/heap/registry/classes.go) but keyed by
// descriptor instead of serial number.
package hostfake

import (
	"fmt"

	"github.com/nullvm/jattr/internal/attr/host"
)

// Registry is a write-many, read-many store of class mirrors keyed by
// descriptor and by binary name, implementing host.ClassResolver,
// host.FieldResolver, host.MethodResolver, host.ObjectFactory, and
// host.AnnotationFactory so a single value can be threaded through
// host.InitAttributes as all five collaborators.
type Registry struct {
	byDescriptor map[string]*host.ClassMirror
	byBinaryName map[string]*host.ClassMirror
	values       map[*host.FieldMirror]any
}

func NewRegistry() *Registry {
	return &Registry{
		byDescriptor: make(map[string]*host.ClassMirror),
		byBinaryName: make(map[string]*host.ClassMirror),
		values:       make(map[*host.FieldMirror]any),
	}
}

// Define registers a class mirror under both its descriptor and its
// binary name, so later lookups by either key succeed. Returns the
// registry for chaining, matching the fluent registration style tests
// use to build up a small class graph inline.
func (r *Registry) Define(class *host.ClassMirror) *Registry {
	r.byDescriptor[class.Descriptor] = class
	r.byBinaryName[class.BinaryName] = class
	return r
}

func (r *Registry) FindClassByDescriptor(descriptor string, _ host.ClassLoader) (*host.ClassMirror, error) {
	class, ok := r.byDescriptor[descriptor]
	if !ok {
		return nil, &host.ClassNotFoundError{Descriptor: descriptor}
	}
	return class, nil
}

func (r *Registry) FindClassUsingLoader(binaryName string, _ host.ClassLoader) (*host.ClassMirror, error) {
	class, ok := r.byBinaryName[binaryName]
	if !ok {
		return nil, &host.ClassNotFoundError{Descriptor: binaryName}
	}
	return class, nil
}

func (r *Registry) GetClassField(class *host.ClassMirror, name, descriptor string) (*host.FieldMirror, error) {
	field := class.FieldByName(name)
	if field == nil {
		return nil, fmt.Errorf("hostfake: %s has no field %q", class.BinaryName, name)
	}
	if field.Descriptor != descriptor {
		return nil, fmt.Errorf("hostfake: field %s.%s has descriptor %q, want %q", class.BinaryName, name, field.Descriptor, descriptor)
	}
	return field, nil
}

// GetFieldValue returns the static value previously registered for
// field via SetFieldValue — enum constant resolution's last step.
func (r *Registry) GetFieldValue(_ *host.ClassMirror, field *host.FieldMirror) (any, error) {
	v, ok := r.values[field]
	if !ok {
		return nil, fmt.Errorf("hostfake: no static value registered for field %s", field.Name)
	}
	return v, nil
}

// SetFieldValue registers the static value a later GetFieldValue call on
// field should return — the fake's analogue of a class initializer
// having already run.
func (r *Registry) SetFieldValue(field *host.FieldMirror, value any) {
	r.values[field] = value
}

func (r *Registry) GetMethod(class *host.ClassMirror, name, descriptor string) (*host.MethodMirror, error) {
	return r.lookupMethod(class, name, descriptor)
}

func (r *Registry) GetInstanceMethod(class *host.ClassMirror, name, descriptor string) (*host.MethodMirror, error) {
	return r.lookupMethod(class, name, descriptor)
}

func (r *Registry) GetClassMethod(class *host.ClassMirror, name, descriptor string) (*host.MethodMirror, error) {
	return r.lookupMethod(class, name, descriptor)
}

func (r *Registry) lookupMethod(class *host.ClassMirror, name, descriptor string) (*host.MethodMirror, error) {
	method := class.MethodByName(name)
	if method == nil {
		return nil, fmt.Errorf("hostfake: %s has no method %q", class.BinaryName, name)
	}
	if descriptor != "" && method.Descriptor != descriptor {
		return nil, fmt.Errorf("hostfake: method %s.%s has descriptor %q, want %q", class.BinaryName, name, method.Descriptor, descriptor)
	}
	return method, nil
}

func (r *Registry) NewObjectArray(length int, _ *host.ClassMirror) ([]any, error) {
	return make([]any, length), nil
}

func (r *Registry) WrapPrimitive(class *host.ClassMirror, value any) (any, error) {
	return boxedValue{class: class, value: value}, nil
}

// boxedValue is the fake's stand-in for the host's wrapper objects
// (java.lang.Integer, java.lang.Boolean, ...): it remembers which
// primitive class it was boxed from so tests can assert on both the
// wrapper type and the underlying scalar.
type boxedValue struct {
	class *host.ClassMirror
	value any
}

func (b boxedValue) Class() *host.ClassMirror { return b.class }
func (b boxedValue) Value() any               { return b.value }
func (b boxedValue) String() string           { return fmt.Sprintf("%v", b.value) }

func (r *Registry) NewStringUTF(b []byte) string {
	return string(b)
}

// annotationProxy is the fake's host.Annotation implementation: a flat
// name-to-value map built from the decoded member set, with lazily
// stored decode errors surfaced on Get exactly as spec.md §7 requires.
type annotationProxy struct {
	class   *host.ClassMirror
	members map[string]host.AnnotationMember
}

func (r *Registry) CreateAnnotation(iface *host.ClassMirror, members []host.AnnotationMember) (host.Annotation, error) {
	byName := make(map[string]host.AnnotationMember, len(members))
	for _, m := range members {
		// A nil Method means the decoder found no matching interface
		// method for this name and skipped the value (spec.md §7
		// "Recovery"); treat it as if the member were never present.
		if m.Method == nil {
			continue
		}
		byName[m.Name] = m
	}
	return &annotationProxy{class: iface, members: byName}, nil
}

func (a *annotationProxy) Type() *host.ClassMirror { return a.class }

func (a *annotationProxy) Get(name string) (any, error) {
	member, ok := a.members[name]
	if !ok {
		return nil, fmt.Errorf("hostfake: annotation %s has no member %q", a.class.BinaryName, name)
	}
	if err, ok := member.Value.(error); ok {
		return nil, err
	}
	return member.Value, nil
}
