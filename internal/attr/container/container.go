// Package container implements a small self-contained file format that
// bundles one or more attribute streams together with the string pool
// their cstring* slots reference. It is the Go-native stand-in for "the
// enclosing class/method/field descriptor" that owns the attribute
// pointer in-process in the original VM (SPEC_FULL.md §4.6) — it exists
// so cmd/jattr and the test suite have a concrete on-disk artifact to
// decode, not because the original format specifies one.
package container

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

var magic = [4]byte{'J', 'A', 'T', 'R'}

const formatVersion = 1

// Kind distinguishes the three owners a Member's attribute stream can
// belong to; the eleven queries are grouped by which kinds they accept.
type Kind uint8

const (
	KindClass Kind = iota + 1
	KindMethod
	KindField
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindMethod:
		return "method"
	case KindField:
		return "field"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// StringPool is a flat, append-only table of interned strings. It
// implements cursor.StringPool so a Member's stream can resolve its own
// cstring* slots directly.
type StringPool struct {
	strings []string
}

// NewStringPool builds a pool from an existing ordered string list, as
// read back from a container file.
func NewStringPool(strings []string) *StringPool {
	return &StringPool{strings: strings}
}

// String implements cursor.StringPool.
func (p *StringPool) String(ref uint64) (string, error) {
	if ref >= uint64(len(p.strings)) {
		return "", fmt.Errorf("container: string ref %d out of range (pool has %d entries)", ref, len(p.strings))
	}
	return p.strings[ref], nil
}

// Intern appends s to the pool if not already present and returns its
// reference, for building test streams.
func (p *StringPool) Intern(s string) uint64 {
	for i, existing := range p.strings {
		if existing == s {
			return uint64(i)
		}
	}
	p.strings = append(p.strings, s)
	return uint64(len(p.strings) - 1)
}

// Member is one class, method, or field's attribute stream plus a name
// for diagnostics and for the query surface's by-name lookups (e.g.
// "the record whose inner name equals C.name").
type Member struct {
	Kind   Kind
	Name   string
	Stream []byte
}

// Container is a fully decoded bundle: the shared string pool and every
// member's raw attribute stream. Attribute streams are decoded lazily by
// the query surface, never eagerly by the container reader — matching
// spec.md's "every query re-parses" non-goal on caching.
type Container struct {
	Pool    *StringPool
	Members []*Member
}

// MemberByName returns the first member of the given kind whose name
// matches, or nil if there is none.
func (c *Container) MemberByName(kind Kind, name string) *Member {
	for _, m := range c.Members {
		if m.Kind == kind && m.Name == name {
			return m
		}
	}
	return nil
}

// Write serializes c to w in the container wire format described in
// SPEC_FULL.md §4.6.
func Write(w io.Writer, c *Container) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.Write(magic[:]); err != nil {
		return err
	}
	if err := bw.WriteByte(formatVersion); err != nil {
		return err
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(c.Pool.strings))); err != nil {
		return err
	}
	for _, s := range c.Pool.strings {
		if err := writeString(bw, s); err != nil {
			return err
		}
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(c.Members))); err != nil {
		return err
	}
	for _, m := range c.Members {
		if err := bw.WriteByte(byte(m.Kind)); err != nil {
			return err
		}
		if err := writeString(bw, m.Name); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(m.Stream))); err != nil {
			return err
		}
		if _, err := bw.Write(m.Stream); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func writeString(w *bufio.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}

// Read parses a container previously produced by Write.
func Read(r io.Reader) (*Container, error) {
	br := bufio.NewReader(r)

	var gotMagic [4]byte
	if _, err := io.ReadFull(br, gotMagic[:]); err != nil {
		return nil, fmt.Errorf("container: reading magic: %w", err)
	}
	if gotMagic != magic {
		return nil, fmt.Errorf("container: bad magic %q, expected %q", gotMagic, magic)
	}

	version, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("container: reading version: %w", err)
	}
	if version != formatVersion {
		return nil, fmt.Errorf("container: unsupported version %d", version)
	}

	var poolCount uint32
	if err := binary.Read(br, binary.LittleEndian, &poolCount); err != nil {
		return nil, fmt.Errorf("container: reading string pool count: %w", err)
	}
	strings := make([]string, poolCount)
	for i := range strings {
		s, err := readString(br)
		if err != nil {
			return nil, fmt.Errorf("container: reading pool string %d: %w", i, err)
		}
		strings[i] = s
	}

	var memberCount uint32
	if err := binary.Read(br, binary.LittleEndian, &memberCount); err != nil {
		return nil, fmt.Errorf("container: reading member count: %w", err)
	}
	members := make([]*Member, memberCount)
	for i := range members {
		kindByte, err := br.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("container: reading member %d kind: %w", i, err)
		}
		name, err := readString(br)
		if err != nil {
			return nil, fmt.Errorf("container: reading member %d name: %w", i, err)
		}
		var streamLen uint32
		if err := binary.Read(br, binary.LittleEndian, &streamLen); err != nil {
			return nil, fmt.Errorf("container: reading member %d stream length: %w", i, err)
		}
		stream := make([]byte, streamLen)
		if streamLen > 0 {
			if _, err := io.ReadFull(br, stream); err != nil {
				return nil, fmt.Errorf("container: reading member %d stream: %w", i, err)
			}
		}
		members[i] = &Member{Kind: Kind(kindByte), Name: name, Stream: stream}
	}

	return &Container{Pool: NewStringPool(strings), Members: members}, nil
}

func readString(r *bufio.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
