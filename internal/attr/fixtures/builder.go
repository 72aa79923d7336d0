// Package fixtures builds hand-assembled attribute streams and their
// matching hostfake class registries for the seven numbered scenarios
// of spec.md §8 and for cmd/jattr's demo command. Every stream here is
// built byte-by-byte against the grammar of spec.md §3 rather than
// through the decoder itself, so these fixtures are independent
// evidence of what the decoder should produce.
package fixtures

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/nullvm/jattr/internal/attr/container"
)

// Builder assembles one attribute stream's bytes against a shared
// string pool, mirroring the BinaryReader-style incremental writers
// used throughout the corpus's parser packages.
type Builder struct {
	buf  bytes.Buffer
	pool *container.StringPool
}

func NewBuilder(pool *container.StringPool) *Builder {
	return &Builder{pool: pool}
}

func (b *Builder) Bytes() []byte { return b.buf.Bytes() }

func (b *Builder) u8(v byte)       { b.buf.WriteByte(v) }
func (b *Builder) i32(v int32)     { binary.Write(&b.buf, binary.LittleEndian, v) }
func (b *Builder) i64(v int64)     { binary.Write(&b.buf, binary.LittleEndian, v) }
func (b *Builder) i16(v int16)     { binary.Write(&b.buf, binary.LittleEndian, v) }
func (b *Builder) f32(v float32)   { binary.Write(&b.buf, binary.LittleEndian, math.Float32bits(v)) }
func (b *Builder) f64(v float64)   { binary.Write(&b.buf, binary.LittleEndian, math.Float64bits(v)) }
func (b *Builder) bool8(v bool) {
	if v {
		b.i32(1)
	} else {
		b.i32(0)
	}
}

// str interns s (or, for "" meaning "null", reserves index 0 as the
// empty string — every pool already starts with "" at index 0 by
// convention in these fixtures) and writes its 8-byte pool reference.
func (b *Builder) str(s string) {
	ref := b.pool.Intern(s)
	binary.Write(&b.buf, binary.LittleEndian, ref)
}

// Tag writes the byte for one of the eight attribute kinds.
func (b *Builder) Tag(tag byte) { b.u8(tag) }

// Count starts a stream: the int32 record count.
func (b *Builder) Count(n int32) { b.i32(n) }

// SourceFileOrSignature writes a tag-1/2-shaped body: a single cstring*.
func (b *Builder) SourceFileOrSignature(s string) { b.str(s) }

// InnerClassBody writes a tag-3 body.
func (b *Builder) InnerClassBody(inner, outer, simple string, access int32) {
	b.str(inner)
	b.str(outer)
	b.str(simple)
	b.i32(access)
}

// EnclosingMethodBody writes a tag-4 body.
func (b *Builder) EnclosingMethodBody(class, method, desc string) {
	b.str(class)
	b.str(method)
	b.str(desc)
}

// ExceptionsBody writes a tag-5 body.
func (b *Builder) ExceptionsBody(descriptors ...string) {
	b.i32(int32(len(descriptors)))
	for _, d := range descriptors {
		b.str(d)
	}
}

// BeginAnnotation writes an annotation's type descriptor and member
// count; callers follow with memberCount calls to Member* helpers.
func (b *Builder) BeginAnnotation(typeDescriptor string, memberCount int32) {
	b.str(typeDescriptor)
	b.i32(memberCount)
}

func (b *Builder) MemberName(name string) { b.str(name) }

func (b *Builder) IntValue(tag byte, v int32) {
	b.u8(tag)
	b.i32(v)
}

func (b *Builder) LongValue(v int64) {
	b.u8('J')
	b.i64(v)
}

func (b *Builder) FloatValue(v float32) {
	b.u8('F')
	b.f32(v)
}

func (b *Builder) DoubleValue(v float64) {
	b.u8('D')
	b.f64(v)
}

func (b *Builder) StringValue(s string) {
	b.u8('s')
	b.str(s)
}

func (b *Builder) ClassValue(descriptor string) {
	b.u8('c')
	b.str(descriptor)
}

func (b *Builder) EnumValue(typeDescriptor, constantName string) {
	b.u8('e')
	b.str(typeDescriptor)
	b.str(constantName)
}

// BeginArray writes the '[' tag and 16-bit length; callers follow with
// length calls writing each element.
func (b *Builder) BeginArray(length int16) {
	b.u8('[')
	b.i16(length)
}

// BeginNestedAnnotation writes the '@' tag; callers follow with
// BeginAnnotation and its members.
func (b *Builder) BeginNestedAnnotation() { b.u8('@') }
