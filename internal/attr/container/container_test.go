package container_test

import (
	"bytes"
	"testing"

	"github.com/nullvm/jattr/internal/attr/container"
)

func TestWriteReadRoundTrip(t *testing.T) {
	pool := container.NewStringPool([]string{"", "Ljava/lang/String;"})
	original := &container.Container{
		Pool: pool,
		Members: []*container.Member{
			{Kind: container.KindClass, Name: "com/example/Widget", Stream: []byte{0, 0, 0, 0}},
			{Kind: container.KindMethod, Name: "<init>", Stream: []byte{1, 2, 3}},
			{Kind: container.KindField, Name: "count", Stream: nil},
		},
	}

	var buf bytes.Buffer
	if err := container.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := container.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if len(got.Members) != len(original.Members) {
		t.Fatalf("Read() member count = %d, want %d", len(got.Members), len(original.Members))
	}
	for i, m := range got.Members {
		want := original.Members[i]
		if m.Kind != want.Kind || m.Name != want.Name {
			t.Fatalf("member %d = {%v %q}, want {%v %q}", i, m.Kind, m.Name, want.Kind, want.Name)
		}
		if !bytes.Equal(m.Stream, want.Stream) {
			t.Fatalf("member %d stream = %v, want %v", i, m.Stream, want.Stream)
		}
	}

	s, err := got.Pool.String(1)
	if err != nil {
		t.Fatalf("Pool.String(1) error = %v", err)
	}
	if s != "Ljava/lang/String;" {
		t.Fatalf("Pool.String(1) = %q, want %q", s, "Ljava/lang/String;")
	}
}

func TestReadRejectsBadMagic(t *testing.T) {
	_, err := container.Read(bytes.NewReader([]byte("nope")))
	if err == nil {
		t.Fatal("Read() with bad magic: want error, got nil")
	}
}

func TestMemberByNameFindsFirstMatchOfKind(t *testing.T) {
	c := &container.Container{
		Pool: container.NewStringPool([]string{""}),
		Members: []*container.Member{
			{Kind: container.KindClass, Name: "A"},
			{Kind: container.KindMethod, Name: "A"},
		},
	}
	m := c.MemberByName(container.KindMethod, "A")
	if m == nil || m.Kind != container.KindMethod {
		t.Fatalf("MemberByName(KindMethod, A) = %v, want the method member", m)
	}
	if c.MemberByName(container.KindField, "missing") != nil {
		t.Fatal("MemberByName for a name with no match: want nil")
	}
}

func TestStringPoolInternDeduplicates(t *testing.T) {
	pool := container.NewStringPool([]string{""})
	a := pool.Intern("java/lang/String")
	b := pool.Intern("java/lang/String")
	if a != b {
		t.Fatalf("Intern() returned different refs for the same string: %d != %d", a, b)
	}
	c := pool.Intern("java/lang/Object")
	if c == a {
		t.Fatal("Intern() returned the same ref for two different strings")
	}
}
