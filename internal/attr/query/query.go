// Package query implements the eleven reflective queries of spec.md
// §4.4: thin compositions of the iterator (internal/attr/iter) with a
// purpose-built visitor, decoding exactly the attribute record each
// query cares about and skipping the rest. No query caches its result —
// every call re-walks the stream from byte zero, matching spec.md §5's
// "stateless and reentrant" requirement.
package query

import (
	"github.com/nullvm/jattr/internal/attr/container"
	"github.com/nullvm/jattr/internal/attr/cursor"
	"github.com/nullvm/jattr/internal/attr/decoder"
	"github.com/nullvm/jattr/internal/attr/host"
	"github.com/nullvm/jattr/internal/attr/iter"
	"github.com/nullvm/jattr/internal/attr/model"
)

// Owner is the attribute stream's owning descriptor: the class, method,
// or field whose name and loader the queries need to resolve relative
// references (spec.md §4.4, "resolve via C's loader"). Stream and Pool
// are the raw bytes and string pool an absent attribute pointer is
// represented by a nil Stream, matching iter.Empty's "null stream"
// convention. Every query derives its own fresh *cursor.Cursor from
// these fields rather than sharing one, so repeated queries against the
// same Owner re-walk from byte zero independently (spec.md §5,
// "stateless and reentrant").
type Owner struct {
	Class      *host.ClassMirror
	Name       string
	ReturnType string // only meaningful for a method owner (AnnotationDefault)
	Loader     host.ClassLoader
	Stream     []byte
	Pool       cursor.StringPool
}

// cursor builds a fresh cursor positioned at the start of owner's
// stream, or the canonical empty stream when owner.Stream is nil.
func (owner Owner) cursor() *cursor.Cursor {
	if owner.Stream == nil {
		return iter.Empty()
	}
	return cursor.New(owner.Stream, owner.Pool)
}

// OwnerOf builds an Owner from a decoded container.Member, the Go
// stand-in for "the enclosing class/method/field descriptor that owns
// the attribute pointer" (SPEC_FULL.md §4.6). class, returnType, and
// loader supply the query context the container format itself has no
// room for (a bare byte stream carries no reflective class handle).
func OwnerOf(member *container.Member, pool *container.StringPool, class *host.ClassMirror, returnType string, loader host.ClassLoader) Owner {
	return Owner{
		Class:      class,
		Name:       member.Name,
		ReturnType: returnType,
		Loader:     loader,
		Stream:     member.Stream,
		Pool:       pool,
	}
}

// EmptyExceptionTypes and EmptyAnnotations are the two shared sentinels
// spec.md §5 calls for: "allocated at startup and returned by reference
// from absence paths; callers must treat them as immutable." Go has no
// risk of a caller mutating these through a reference the way a Java
// array reference could be mutated, but the single shared instance is
// kept anyway so callers relying on reference identity (spec.md §8
// Scenario 1, "same reference across two calls") see it.
var (
	EmptyExceptionTypes = []*host.ClassMirror{}
	EmptyAnnotations    = []host.Annotation{}
)

// DeclaringClass resolves the outer class of owner, per spec.md §4.4:
// iterate inner-class records, find the one whose inner name equals
// owner.Name, resolve its outer name through owner.Loader. Returns nil
// if there is no such record or its outer name is null.
func DeclaringClass(owner Owner, bs *host.Bootstrap) (*host.ClassMirror, error) {
	var result *host.ClassMirror
	err := iter.Iterate(owner.cursor(), func(tag model.AttributeTag, cur *cursor.Cursor) (bool, error) {
		if tag != model.InnerClass {
			return true, nil
		}
		innerName, err := cur.StringRef()
		if err != nil {
			return false, err
		}
		outerName, err := cur.StringRef()
		if err != nil {
			return false, err
		}
		cur.SkipStringRef() // simpleName, unused here
		cur.Int32()         // access, unused here

		if innerName != owner.Name || outerName == "" {
			return true, nil
		}
		class, err := bs.Classes.FindClassUsingLoader(outerName, owner.Loader)
		if err != nil {
			return false, err
		}
		result = class
		return false, nil
	})
	return result, err
}

// EnclosingClass resolves the class named by the first EnclosingMethod
// record's class name.
func EnclosingClass(owner Owner, bs *host.Bootstrap) (*host.ClassMirror, error) {
	var result *host.ClassMirror
	err := iter.Iterate(owner.cursor(), func(tag model.AttributeTag, cur *cursor.Cursor) (bool, error) {
		if tag != model.EnclosingMethod {
			return true, nil
		}
		className, err := cur.StringRef()
		if err != nil {
			return false, err
		}
		class, err := bs.Classes.FindClassUsingLoader(className, owner.Loader)
		if err != nil {
			return false, err
		}
		result = class
		return false, nil
	})
	return result, err
}

// EnclosingMethod resolves the first EnclosingMethod record's method,
// when both its name and descriptor are present; a class directly
// enclosed by another (method name and descriptor both null) yields nil
// with no error, per spec.md §4.4.
func EnclosingMethod(owner Owner, bs *host.Bootstrap) (*host.MethodMirror, error) {
	var result *host.MethodMirror
	err := iter.Iterate(owner.cursor(), func(tag model.AttributeTag, cur *cursor.Cursor) (bool, error) {
		if tag != model.EnclosingMethod {
			return true, nil
		}
		className, err := cur.StringRef()
		if err != nil {
			return false, err
		}
		methodName, err := cur.StringRef()
		if err != nil {
			return false, err
		}
		methodDesc, err := cur.StringRef()
		if err != nil {
			return false, err
		}
		if methodName == "" || methodDesc == "" {
			return false, nil
		}
		class, err := bs.Classes.FindClassUsingLoader(className, owner.Loader)
		if err != nil {
			return false, err
		}
		method, err := bs.Methods.GetMethod(class, methodName, methodDesc)
		if err != nil {
			return false, err
		}
		result = method
		return false, nil
	})
	return result, err
}

// IsAnonymousClass reports whether owner's inner-class record has a
// null simple-name field, defaulting to false when no matching record
// exists.
func IsAnonymousClass(owner Owner) (bool, error) {
	anonymous := false
	err := iter.Iterate(owner.cursor(), func(tag model.AttributeTag, cur *cursor.Cursor) (bool, error) {
		if tag != model.InnerClass {
			return true, nil
		}
		innerName, err := cur.StringRef()
		if err != nil {
			return false, err
		}
		cur.SkipStringRef() // outerName, unused here
		simpleName, err := cur.StringRef()
		if err != nil {
			return false, err
		}
		cur.Int32() // access, unused here

		if innerName != owner.Name {
			return true, nil
		}
		anonymous = simpleName == ""
		return false, nil
	})
	return anonymous, err
}

// Signature returns the interned Signature record's string, or "" if
// owner carries none — valid for a class, method, or field owner alike,
// since all three share the same single-stringref record shape.
func Signature(owner Owner) (string, error) {
	var result string
	var found bool
	err := iter.Iterate(owner.cursor(), func(tag model.AttributeTag, cur *cursor.Cursor) (bool, error) {
		if tag != model.Signature {
			return true, nil
		}
		s, err := cur.StringRef()
		if err != nil {
			return false, err
		}
		result, found = s, true
		return false, nil
	})
	if !found {
		return "", err
	}
	return result, err
}

// ExceptionTypes resolves method owner's checked-exception list. Absence
// returns the shared empty-Class-array sentinel, never nil.
func ExceptionTypes(owner Owner, bs *host.Bootstrap) ([]*host.ClassMirror, error) {
	result := EmptyExceptionTypes
	err := iter.Iterate(owner.cursor(), func(tag model.AttributeTag, cur *cursor.Cursor) (bool, error) {
		if tag != model.Exceptions {
			return true, nil
		}
		n := cur.Int32()
		classes := make([]*host.ClassMirror, n)
		for i := int32(0); i < n; i++ {
			descriptor, err := cur.StringRef()
			if err != nil {
				return false, err
			}
			class, err := bs.Classes.FindClassUsingLoader(descriptor, owner.Loader)
			if err != nil {
				return false, err
			}
			classes[i] = class
		}
		result = classes
		return false, nil
	})
	return result, err
}

// AnnotationDefault parses method owner's AnnotationDefault record
// against owner.ReturnType and boxes the result if primitive. Absence
// returns nil, nil.
func AnnotationDefault(owner Owner, bs *host.Bootstrap) (any, error) {
	var result any
	var found bool
	err := iter.Iterate(owner.cursor(), func(tag model.AttributeTag, cur *cursor.Cursor) (bool, error) {
		if tag != model.AnnotationDefault {
			return true, nil
		}
		value, err := decoder.ParseElementValue(cur, decoder.Expected(owner.ReturnType), bs, owner.Loader)
		if err != nil {
			return false, err
		}
		switch value.(type) {
		case bool, int8, int16, uint16, int32, int64, float32, float64:
			primitiveClass, err := bs.Classes.FindClassByDescriptor(owner.ReturnType, owner.Loader)
			if err != nil {
				return false, err
			}
			if value, err = bs.Objects.WrapPrimitive(primitiveClass, value); err != nil {
				return false, err
			}
		}
		result, found = value, true
		return false, nil
	})
	if !found {
		return nil, err
	}
	return result, err
}

// Annotations decodes owner's RuntimeVisibleAnnotations record into an
// annotation-interface array, per spec.md §4.4: "parse each via
// getAnnotationValue(expected=null)". Absence returns the shared
// empty-Annotation-array sentinel.
func Annotations(owner Owner, bs *host.Bootstrap) ([]host.Annotation, error) {
	result := EmptyAnnotations
	err := iter.Iterate(owner.cursor(), func(tag model.AttributeTag, cur *cursor.Cursor) (bool, error) {
		if tag != model.RuntimeVisibleAnnotations {
			return true, nil
		}
		n := cur.Int32()
		annos := make([]host.Annotation, n)
		for i := int32(0); i < n; i++ {
			anno, err := decoder.ParseAnnotation(cur, bs, owner.Loader)
			if err != nil {
				return false, err
			}
			annos[i] = anno
		}
		result = annos
		return false, nil
	})
	return result, err
}

// ParameterAnnotations decodes method owner's
// RuntimeVisibleParameterAnnotations record into a slice of
// annotation-interface arrays, one per parameter. Absence returns a
// slice containing the shared empty-Annotation-array sentinel for every
// declared parameter — unlike the class/method/field Annotations query,
// the outer shape here is per-parameter, so there is no single "the"
// empty sentinel to return on absence; numParams determines the length.
func ParameterAnnotations(owner Owner, bs *host.Bootstrap, numParams int) ([][]host.Annotation, error) {
	result := make([][]host.Annotation, numParams)
	for i := range result {
		result[i] = EmptyAnnotations
	}
	err := iter.Iterate(owner.cursor(), func(tag model.AttributeTag, cur *cursor.Cursor) (bool, error) {
		if tag != model.RuntimeVisibleParameterAnnotations {
			return true, nil
		}
		paramCount := cur.Int32()
		for p := int32(0); p < paramCount; p++ {
			n := cur.Int32()
			annos := make([]host.Annotation, n)
			for i := int32(0); i < n; i++ {
				anno, err := decoder.ParseAnnotation(cur, bs, owner.Loader)
				if err != nil {
					return false, err
				}
				annos[i] = anno
			}
			if int(p) < len(result) {
				result[p] = annos
			}
		}
		return false, nil
	})
	return result, err
}

// DeclaredClasses resolves owner's member classes — every inner-class
// record whose outer name equals owner.Name — via two passes over the
// stream: one to count matches, one to resolve them, per spec.md §4.4.
// Zero matches returns nil, not an empty slice.
func DeclaredClasses(owner Owner, bs *host.Bootstrap) ([]*host.ClassMirror, error) {
	count := 0
	if err := iter.Iterate(owner.cursor(), func(tag model.AttributeTag, cur *cursor.Cursor) (bool, error) {
		if tag != model.InnerClass {
			return true, nil
		}
		cur.SkipStringRef() // innerName
		outerName, err := cur.StringRef()
		if err != nil {
			return false, err
		}
		cur.SkipStringRef() // simpleName
		cur.Int32()         // access
		if outerName == owner.Name {
			count++
		}
		return true, nil
	}); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	result := make([]*host.ClassMirror, 0, count)
	err := iter.Iterate(owner.cursor(), func(tag model.AttributeTag, cur *cursor.Cursor) (bool, error) {
		if tag != model.InnerClass {
			return true, nil
		}
		innerName, err := cur.StringRef()
		if err != nil {
			return false, err
		}
		outerName, err := cur.StringRef()
		if err != nil {
			return false, err
		}
		cur.SkipStringRef() // simpleName
		cur.Int32()         // access
		if outerName != owner.Name {
			return true, nil
		}
		class, err := bs.Classes.FindClassUsingLoader(innerName, owner.Loader)
		if err != nil {
			return false, err
		}
		result = append(result, class)
		return true, nil
	})
	return result, err
}
