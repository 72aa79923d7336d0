package iter

import (
	"encoding/binary"
	"testing"

	"github.com/nullvm/jattr/internal/attr/cursor"
	"github.com/nullvm/jattr/internal/attr/model"
)

type stringPool struct{ strings []string }

func (p *stringPool) String(ref uint64) (string, error) {
	return p.strings[ref], nil
}

type streamBuilder struct {
	data []byte
	pool *stringPool
}

func newStreamBuilder() *streamBuilder {
	return &streamBuilder{pool: &stringPool{strings: []string{""}}}
}

func (b *streamBuilder) i32(v int32) { b.data = binary.LittleEndian.AppendUint32(b.data, uint32(v)) }
func (b *streamBuilder) u8(v byte)   { b.data = append(b.data, v) }
func (b *streamBuilder) str(s string) {
	b.pool.strings = append(b.pool.strings, s)
	ref := uint64(len(b.pool.strings) - 1)
	b.data = binary.LittleEndian.AppendUint64(b.data, ref)
}
func (b *streamBuilder) cursor() *cursor.Cursor { return cursor.New(b.data, b.pool) }

func TestIterateVisitsExactlyCountRecords(t *testing.T) {
	b := newStreamBuilder()
	b.i32(2) // count
	b.u8(1)  // SourceFile
	b.str("Main.java")
	b.u8(2) // Signature
	b.str("Ljava/util/List;")

	var visited []model.AttributeTag
	err := Iterate(b.cursor(), func(tag model.AttributeTag, cur *cursor.Cursor) (bool, error) {
		visited = append(visited, tag)
		return true, nil
	})
	if err != nil {
		t.Fatalf("Iterate() error = %v", err)
	}
	if len(visited) != 2 {
		t.Fatalf("visited %d records, want 2", len(visited))
	}
	if visited[0] != model.SourceFile || visited[1] != model.Signature {
		t.Fatalf("visited tags = %v, want [SourceFile Signature]", visited)
	}
}

func TestIterateSkipsWhatVisitorDoesNotConsume(t *testing.T) {
	b := newStreamBuilder()
	b.i32(2)
	b.u8(3) // InnerClass: 3 strings + 1 int32
	b.str("Outer$1")
	b.str("Outer")
	b.str("")
	b.i32(0)
	b.u8(2) // Signature, read by the visitor this time
	b.str("Lfoo/Bar;")

	var signatures []string
	err := Iterate(b.cursor(), func(tag model.AttributeTag, cur *cursor.Cursor) (bool, error) {
		if tag != model.Signature {
			return true, nil // visitor declines InnerClass entirely
		}
		s, err := cur.StringRef()
		if err != nil {
			return false, err
		}
		signatures = append(signatures, s)
		return true, nil
	})
	if err != nil {
		t.Fatalf("Iterate() error = %v", err)
	}
	if len(signatures) != 1 || signatures[0] != "Lfoo/Bar;" {
		t.Fatalf("signatures = %v, want [Lfoo/Bar;]", signatures)
	}
}

func TestIterateHaltsOnVisitorFalse(t *testing.T) {
	b := newStreamBuilder()
	b.i32(3)
	b.u8(1)
	b.str("a")
	b.u8(1)
	b.str("b")
	b.u8(1)
	b.str("c")

	count := 0
	err := Iterate(b.cursor(), func(tag model.AttributeTag, cur *cursor.Cursor) (bool, error) {
		count++
		return false, nil
	})
	if err != nil {
		t.Fatalf("Iterate() error = %v", err)
	}
	if count != 1 {
		t.Fatalf("visited %d records before halting, want 1", count)
	}
}

func TestIterateRejectsUnknownTag(t *testing.T) {
	b := newStreamBuilder()
	b.i32(1)
	b.u8(99)

	err := Iterate(b.cursor(), func(tag model.AttributeTag, cur *cursor.Cursor) (bool, error) {
		return true, nil
	})
	if err == nil {
		t.Fatal("Iterate() with unknown tag: want error, got nil")
	}
}

func TestEmptyProducesZeroInvocations(t *testing.T) {
	called := false
	err := Iterate(Empty(), func(tag model.AttributeTag, cur *cursor.Cursor) (bool, error) {
		called = true
		return true, nil
	})
	if err != nil {
		t.Fatalf("Iterate(Empty()) error = %v", err)
	}
	if called {
		t.Fatal("Iterate(Empty()) invoked the visitor, want zero invocations")
	}
}

func TestSkipElementValueArrayLengthIsSixteenBits(t *testing.T) {
	b := newStreamBuilder()
	b.u8('[')
	b.data = binary.LittleEndian.AppendUint16(b.data, 2)
	b.u8('I')
	b.i32(1)
	b.u8('I')
	b.i32(2)
	b.u8('I') // a trailing element_value after the array, to prove skip stopped exactly at length 2
	b.i32(99)

	cur := b.cursor()
	if err := SkipElementValue(cur); err != nil {
		t.Fatalf("SkipElementValue() error = %v", err)
	}
	tag := model.ElementTag(cur.Byte())
	if tag != model.TagInt {
		t.Fatalf("byte after array skip = %q, want 'I' (the untouched trailing element)", byte(tag))
	}
	if got := cur.Int32(); got != 99 {
		t.Fatalf("trailing int32 = %d, want 99 (skip must not have consumed it)", got)
	}
}

func TestSkipElementValueMatchesEachPrimitiveWidth(t *testing.T) {
	cases := []struct {
		tag byte
		len int
	}{
		{'Z', 4}, {'B', 4}, {'S', 4}, {'C', 4}, {'I', 4},
		{'J', 8}, {'F', 4}, {'D', 8},
	}
	for _, tc := range cases {
		data := append([]byte{tc.tag}, make([]byte, tc.len)...)
		data = append(data, 0xFF) // sentinel byte right after the value
		cur := cursor.New(data, nil)
		if err := SkipElementValue(cur); err != nil {
			t.Fatalf("tag %q: SkipElementValue() error = %v", tc.tag, err)
		}
		if cur.Pos() != 1+tc.len {
			t.Fatalf("tag %q: cursor at %d, want %d", tc.tag, cur.Pos(), 1+tc.len)
		}
	}
}
