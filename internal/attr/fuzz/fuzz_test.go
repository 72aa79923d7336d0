// Package fuzz houses differential fuzz targets over the attribute
// stream's binary-format boundary: properties that must hold for any
// well-formed byte sequence, not just the hand-picked scenarios in
// internal/attr/query's tests. Modeled on the corpus's
// glint_fuzz_test.go, which fuzzes glint's own wire format the same way.
package fuzz

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/nullvm/jattr/internal/attr/cursor"
	"github.com/nullvm/jattr/internal/attr/decoder"
	"github.com/nullvm/jattr/internal/attr/iter"
)

// primitiveTags enumerates the element-value kinds this target covers —
// every tag whose body width is fixed and independent of any host
// collaborator, so skip and decode can be compared with no class loader.
var primitiveTags = []byte{'Z', 'B', 'S', 'C', 'I', 'J', 'F', 'D'}

// FuzzPrimitiveElementValueSkipMatchesDecode asserts spec.md §8's
// universal invariant: for every element_value of declared type T,
// SkipElementValue advances the cursor by the same number of bytes as
// ParseElementValue(T) consumes.
func FuzzPrimitiveElementValueSkipMatchesDecode(f *testing.F) {
	f.Add(byte('I'), int64(0))
	f.Add(byte('I'), int64(-1))
	f.Add(byte('J'), int64(math.MinInt64))
	f.Add(byte('J'), int64(math.MaxInt64))
	f.Add(byte('F'), int64(0))
	f.Add(byte('D'), int64(-1))
	f.Add(byte('Z'), int64(1))
	f.Add(byte('B'), int64(127))
	f.Add(byte('S'), int64(-32768))
	f.Add(byte('C'), int64(65535))

	f.Fuzz(func(t *testing.T, tagSeed byte, payload int64) {
		tag := tagSeed
		if bytes.IndexByte(primitiveTags, tag) < 0 {
			tag = primitiveTags[int(tagSeed)%len(primitiveTags)]
		}
		data := encodeElementValue(tag, payload)

		decodeCur := cursor.New(append([]byte{}, data...), nil)
		_, err := decoder.ParseElementValue(decodeCur, decoder.Expected(string(tag)), nil, nil)
		if err != nil {
			t.Fatalf("tag %q: ParseElementValue() error = %v", tag, err)
		}

		skipCur := cursor.New(append([]byte{}, data...), nil)
		if err := iter.SkipElementValue(skipCur); err != nil {
			t.Fatalf("tag %q: SkipElementValue() error = %v", tag, err)
		}

		if decodeCur.Pos() != skipCur.Pos() {
			t.Fatalf("tag %q: decode consumed %d bytes, skip consumed %d", tag, decodeCur.Pos(), skipCur.Pos())
		}
		if decodeCur.Pos() != len(data) {
			t.Fatalf("tag %q: decode consumed %d bytes, want all %d", tag, decodeCur.Pos(), len(data))
		}
	})
}

// FuzzArrayElementValueSkipMatchesDecode extends the same invariant to a
// primitive array, whose length is the format's one 16-bit-width
// exception (spec.md §9 Open Question 1).
func FuzzArrayElementValueSkipMatchesDecode(f *testing.F) {
	f.Add(int16(0), int32(0))
	f.Add(int16(1), int32(-1))
	f.Add(int16(5), int32(math.MaxInt32))

	f.Fuzz(func(t *testing.T, length int16, fill int32) {
		if length < 0 {
			length = -length
		}
		var data []byte
		data = append(data, '[')
		data = binary.LittleEndian.AppendUint16(data, uint16(length))
		for i := int16(0); i < length; i++ {
			data = append(data, 'I')
			data = binary.LittleEndian.AppendUint32(data, uint32(fill))
		}

		decodeCur := cursor.New(append([]byte{}, data...), nil)
		if _, err := decoder.ParseElementValue(decodeCur, "[I", nil, nil); err != nil {
			t.Fatalf("ParseElementValue() error = %v", err)
		}

		skipCur := cursor.New(append([]byte{}, data...), nil)
		if err := iter.SkipElementValue(skipCur); err != nil {
			t.Fatalf("SkipElementValue() error = %v", err)
		}

		if decodeCur.Pos() != skipCur.Pos() {
			t.Fatalf("decode consumed %d bytes, skip consumed %d", decodeCur.Pos(), skipCur.Pos())
		}
	})
}

func encodeElementValue(tag byte, payload int64) []byte {
	data := []byte{tag}
	switch tag {
	case 'J':
		return binary.LittleEndian.AppendUint64(data, uint64(payload))
	case 'F':
		return binary.LittleEndian.AppendUint32(data, math.Float32bits(float32(payload)))
	case 'D':
		return binary.LittleEndian.AppendUint64(data, math.Float64bits(float64(payload)))
	default: // Z, B, S, C, I all share the int32-on-the-wire encoding
		return binary.LittleEndian.AppendUint32(data, uint32(payload))
	}
}
