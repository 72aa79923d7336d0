// Package cursor implements the typed, skip-oriented byte reader the
// attribute decoder walks the precompiled attribute stream with. It is
// the Go analogue of the teacher's BinaryReader (internal/heap/parser),
// narrowed to the fixed set of scalar widths the attribute stream's
// native-ABI wire format uses: no bounds checking beyond what slicing
// gives for free, because the stream is produced by the same compiler
// that defines this format and is trusted (spec.md §4.1).
package cursor

import (
	"encoding/binary"
	"fmt"
	"math"
)

// StringPool resolves the pointer-width string slots the stream embeds.
// The original ABI stores a live memory address in each slot; a Go
// implementation cannot carry that address across a process boundary, so
// a slot instead holds an index into this pool (SPEC_FULL.md §3).
type StringPool interface {
	String(ref uint64) (string, error)
}

// Cursor is a mutable position into an attribute stream. Every read
// advances pos by exactly the scalar's native width; callers that need
// to re-read a region (the iterator's skip step) do so by recording an
// offset with Pos and rewinding to it with Seek.
type Cursor struct {
	data []byte
	pos  int
	pool StringPool
}

// New builds a Cursor over data starting at offset 0, resolving string
// slots against pool. pool may be nil if the stream is known not to
// contain any string-valued fields.
func New(data []byte, pool StringPool) *Cursor {
	return &Cursor{data: data, pool: pool}
}

// Pos returns the current byte offset.
func (c *Cursor) Pos() int { return c.pos }

// Seek repositions the cursor to an absolute offset previously obtained
// from Pos. Used by the iterator to re-walk a record's body for the skip
// step regardless of how far a visitor advanced the shared cursor.
func (c *Cursor) Seek(pos int) { c.pos = pos }

// Len reports the total size of the underlying stream.
func (c *Cursor) Len() int { return len(c.data) }

// Remaining reports the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.data) - c.pos }

func (c *Cursor) advance(n int) []byte {
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b
}

// Int8 reads a single signed byte. The 1-byte attribute and
// element-value tags are read with Byte instead.
func (c *Cursor) Int8() int8 {
	b := c.advance(1)
	return int8(b[0])
}

// Byte reads a single unsigned byte, used for tag bytes compared against
// model.AttributeTag / model.ElementTag.
func (c *Cursor) Byte() byte {
	b := c.advance(1)
	return b[0]
}

// Int16 reads a 2-byte signed integer — the element-value array length's
// exact width per spec.md §3 and Open Question 1 (spec.md §9): this
// width is used uniformly by both decode and skip.
func (c *Cursor) Int16() int16 {
	b := c.advance(2)
	return int16(binary.LittleEndian.Uint16(b))
}

// Uint16 reads a 2-byte unsigned integer, used where a length is known
// never to be negative (array lengths are read via Int16 per spec then
// widened; this accessor exists for callers that want the unsigned form
// directly, e.g. loop bounds).
func (c *Cursor) Uint16() uint16 {
	b := c.advance(2)
	return binary.LittleEndian.Uint16(b)
}

// Int32 reads a 4-byte signed integer: attribute counts, member counts,
// Exceptions/annotation lengths, and every int-family element value.
func (c *Cursor) Int32() int32 {
	b := c.advance(4)
	return int32(binary.LittleEndian.Uint32(b))
}

// Int64 reads an 8-byte signed integer (the 'J' long element value).
func (c *Cursor) Int64() int64 {
	b := c.advance(8)
	return int64(binary.LittleEndian.Uint64(b))
}

// Float32 reads a 4-byte IEEE-754 float (the 'F' element value).
func (c *Cursor) Float32() float32 {
	b := c.advance(4)
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// Float64 reads an 8-byte IEEE-754 double (the 'D' element value).
func (c *Cursor) Float64() float64 {
	b := c.advance(8)
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

// StringRef reads a pointer-width (8 byte) slot and resolves it against
// the cursor's string pool, returning the already-interned string it
// names (cstring* in spec.md §3).
func (c *Cursor) StringRef() (string, error) {
	b := c.advance(8)
	ref := binary.LittleEndian.Uint64(b)
	if c.pool == nil {
		return "", fmt.Errorf("cursor: string slot read with no string pool attached")
	}
	return c.pool.String(ref)
}

// SkipStringRef advances past a pointer-width slot without resolving it;
// used by skip paths that never need the string's contents.
func (c *Cursor) SkipStringRef() {
	c.advance(8)
}
