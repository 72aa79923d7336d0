package model

import (
	"fmt"

	"github.com/nullvm/jattr/internal/attr/cursor"
)

// Describe renders one attribute record's fixed-width fields as a
// single line, for tooling that inspects a stream structurally without
// the host collaborators a full decode needs (cmd/jattr's dump and
// browse views). Any element-value payload (annotation members, nested
// arrays) is reported by shape only, never expanded.
func Describe(tag AttributeTag, cur *cursor.Cursor) string {
	switch tag {
	case SourceFile, Signature:
		s, err := cur.StringRef()
		if err != nil {
			return fmt.Sprintf("%s: <error: %v>", tag, err)
		}
		return fmt.Sprintf("%s %q", tag, s)

	case InnerClass:
		inner, _ := cur.StringRef()
		outer, _ := cur.StringRef()
		simple, _ := cur.StringRef()
		access := cur.Int32()
		return fmt.Sprintf("%s inner=%q outer=%q simple=%q access=%#x", tag, inner, outer, simple, access)

	case EnclosingMethod:
		class, _ := cur.StringRef()
		name, _ := cur.StringRef()
		desc, _ := cur.StringRef()
		return fmt.Sprintf("%s class=%q method=%q descriptor=%q", tag, class, name, desc)

	case Exceptions:
		n := cur.Int32()
		names := make([]string, n)
		for i := range names {
			names[i], _ = cur.StringRef()
		}
		return fmt.Sprintf("%s count=%d %v", tag, n, names)

	case RuntimeVisibleAnnotations:
		n := cur.Int32()
		return fmt.Sprintf("%s count=%d (members not expanded)", tag, n)

	case RuntimeVisibleParameterAnnotations:
		n := cur.Int32()
		return fmt.Sprintf("%s paramCount=%d (members not expanded)", tag, n)

	case AnnotationDefault:
		return fmt.Sprintf("%s (value not expanded)", tag)

	default:
		return tag.String()
	}
}
