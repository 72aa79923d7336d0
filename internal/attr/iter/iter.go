// Package iter implements the attribute stream iterator: it walks a
// count-prefixed sequence of tagged attribute records, invokes a caller
// visitor for each one, and advances past every record using a per-kind
// skip rule regardless of what the visitor consumed (spec.md §4.2).
package iter

import (
	"fmt"

	"github.com/nullvm/jattr/internal/attr/cursor"
	"github.com/nullvm/jattr/internal/attr/model"
)

// Visitor inspects one attribute record. cur is positioned at the start
// of the record's body (just past the tag byte). The visitor may read
// as much or as little of the body as it needs — Iterate always
// re-derives the body's length itself afterward via the skip table, so
// a visitor that reads nothing and one that fully decodes the record
// leave the stream in the same state. Returning cont=false halts
// iteration early (the visitor found what it was looking for).
type Visitor func(tag model.AttributeTag, cur *cursor.Cursor) (cont bool, err error)

// Iterate walks stream (an attribute stream whose count prefix and
// records are already positioned at cur's start), invoking visit once
// per record. A nil stream — expressed here as a cur over a zero record
// count, see Empty below — produces zero invocations and nil error.
func Iterate(cur *cursor.Cursor, visit Visitor) error {
	count := cur.Int32()
	for i := int32(0); i < count; i++ {
		tagByte := cur.Byte()
		tag := model.AttributeTag(tagByte)
		if !tag.Valid() {
			return fmt.Errorf("iter: unknown attribute tag %d at offset %d", tagByte, cur.Pos()-1)
		}

		bodyStart := cur.Pos()
		cont, err := visit(tag, cur)
		if err != nil {
			return err
		}

		// Regardless of what the visitor consumed, reposition to the
		// recorded body start and skip exactly the bytes the skip table
		// says this record's body occupies (spec.md §4.2).
		cur.Seek(bodyStart)
		if err := skipBody(tag, cur); err != nil {
			return err
		}

		if !cont {
			return nil
		}
	}
	return nil
}

// Empty builds a cursor over a stream with a zero record count, the
// canonical representation of a null attribute pointer (spec.md §3,
// "The stream pointer may be null, denoting 'no attributes'"). Go has no
// null byte-slice-with-meaning distinct from an empty one for this
// purpose, so an absent stream and an explicitly-empty stream are the
// same bit pattern here by design.
func Empty() *cursor.Cursor {
	return cursor.New([]byte{0, 0, 0, 0}, nil)
}

// skipBody advances cur past one attribute record's body, per kind.
func skipBody(tag model.AttributeTag, cur *cursor.Cursor) error {
	switch tag {
	case model.SourceFile, model.Signature:
		cur.SkipStringRef()
		return nil

	case model.InnerClass:
		cur.SkipStringRef() // innerName
		cur.SkipStringRef() // outerName
		cur.SkipStringRef() // simpleName
		cur.Int32()         // access
		return nil

	case model.EnclosingMethod:
		cur.SkipStringRef() // className
		cur.SkipStringRef() // methodName
		cur.SkipStringRef() // methodDesc
		return nil

	case model.Exceptions:
		n := cur.Int32()
		for i := int32(0); i < n; i++ {
			cur.SkipStringRef()
		}
		return nil

	case model.RuntimeVisibleAnnotations:
		n := cur.Int32()
		for i := int32(0); i < n; i++ {
			if err := skipAnnotation(cur); err != nil {
				return err
			}
		}
		return nil

	case model.RuntimeVisibleParameterAnnotations:
		// spec.md §9 Open Question 2: the source zeroes the remaining
		// attribute count here, terminating iteration early if this
		// attribute is not last. That is a defect, not behavior to
		// replicate — walk all numParams groups correctly instead.
		numParams := cur.Int32()
		for p := int32(0); p < numParams; p++ {
			n := cur.Int32()
			for i := int32(0); i < n; i++ {
				if err := skipAnnotation(cur); err != nil {
					return err
				}
			}
		}
		return nil

	case model.AnnotationDefault:
		return SkipElementValue(cur)

	default:
		return fmt.Errorf("iter: no skip rule for attribute tag %v", tag)
	}
}

// skipAnnotation advances cur past one embedded annotation: its type
// descriptor, member count, and each (name, element_value) member.
func skipAnnotation(cur *cursor.Cursor) error {
	cur.SkipStringRef() // type descriptor
	count := cur.Int32()
	for i := int32(0); i < count; i++ {
		cur.SkipStringRef() // member name
		if err := SkipElementValue(cur); err != nil {
			return err
		}
	}
	return nil
}

// SkipElementValue advances cur past one element_value, dispatching on
// its embedded tag byte and discarding all data. The array length here
// is read as 16 bits, matching the decode path — spec.md §9 Open
// Question 1 calls this the authoritative width for both skip and
// decode, resolving the source's skip/decode width mismatch.
func SkipElementValue(cur *cursor.Cursor) error {
	tag := model.ElementTag(cur.Byte())
	switch {
	case tag.IsIntFamily():
		cur.Int32()
		return nil
	case tag == model.TagLong:
		cur.Int64()
		return nil
	case tag == model.TagFloat:
		cur.Float32()
		return nil
	case tag == model.TagDouble:
		cur.Float64()
		return nil
	case tag == model.TagString:
		cur.SkipStringRef()
		return nil
	case tag == model.TagClass:
		cur.SkipStringRef() // descriptor
		return nil
	case tag == model.TagEnum:
		cur.SkipStringRef() // type descriptor
		cur.SkipStringRef() // constant name
		return nil
	case tag == model.TagArray:
		n := cur.Int16()
		for i := int16(0); i < n; i++ {
			if err := SkipElementValue(cur); err != nil {
				return err
			}
		}
		return nil
	case tag == model.TagAnno:
		return skipAnnotation(cur)
	default:
		return fmt.Errorf("iter: unknown element-value tag %q", byte(tag))
	}
}
