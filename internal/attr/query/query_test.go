package query_test

import (
	"reflect"
	"testing"

	"github.com/nullvm/jattr/internal/attr/fixtures"
	"github.com/nullvm/jattr/internal/attr/query"
)

// Scenario 1 (spec.md §8): a null attribute stream yields the shared
// empty sentinels, the same reference across two calls.
func TestAbsentAttributesYieldSharedSentinels(t *testing.T) {
	s := fixtures.Scenario1Absent()

	exc1, err := query.ExceptionTypes(s.Owner, s.Boot)
	if err != nil {
		t.Fatalf("ExceptionTypes() error = %v", err)
	}
	exc2, err := query.ExceptionTypes(s.Owner, s.Boot)
	if err != nil {
		t.Fatalf("ExceptionTypes() error = %v", err)
	}
	if len(exc1) != 0 || len(exc2) != 0 {
		t.Fatalf("ExceptionTypes() = %v, %v, want both empty", exc1, exc2)
	}
	if reflect.ValueOf(exc1).Pointer() != reflect.ValueOf(query.EmptyExceptionTypes).Pointer() ||
		reflect.ValueOf(exc2).Pointer() != reflect.ValueOf(query.EmptyExceptionTypes).Pointer() {
		t.Fatal("ExceptionTypes() on an absent stream did not return the shared sentinel")
	}

	annos1, err := query.Annotations(s.Owner, s.Boot)
	if err != nil {
		t.Fatalf("Annotations() error = %v", err)
	}
	if reflect.ValueOf(annos1).Pointer() != reflect.ValueOf(query.EmptyAnnotations).Pointer() {
		t.Fatal("Annotations() on an absent stream did not return the shared sentinel")
	}
}

// Scenario 2.
func TestSignatureReturnsInternedString(t *testing.T) {
	s := fixtures.Scenario2Signature()

	sig, err := query.Signature(s.Owner)
	if err != nil {
		t.Fatalf("Signature() error = %v", err)
	}
	want := "Ljava/util/List<Ljava/lang/String;>;"
	if sig != want {
		t.Fatalf("Signature() = %q, want %q", sig, want)
	}
}

// Scenario 3.
func TestExceptionTypesResolvesInOrder(t *testing.T) {
	s := fixtures.Scenario3Exceptions()

	exc, err := query.ExceptionTypes(s.Owner, s.Boot)
	if err != nil {
		t.Fatalf("ExceptionTypes() error = %v", err)
	}
	if len(exc) != 2 {
		t.Fatalf("len(ExceptionTypes()) = %d, want 2", len(exc))
	}
	if exc[0].BinaryName != "java/io/IOException" || exc[1].BinaryName != "java/lang/RuntimeException" {
		t.Fatalf("ExceptionTypes() = [%s %s], want [java/io/IOException java/lang/RuntimeException]",
			exc[0].BinaryName, exc[1].BinaryName)
	}
}

// Scenario 4.
func TestAnonymousInnerClass(t *testing.T) {
	s := fixtures.Scenario4AnonymousInner()

	anon, err := query.IsAnonymousClass(s.Owner)
	if err != nil {
		t.Fatalf("IsAnonymousClass() error = %v", err)
	}
	if !anon {
		t.Fatal("IsAnonymousClass() = false, want true")
	}

	declaring, err := query.DeclaringClass(s.Owner, s.Boot)
	if err != nil {
		t.Fatalf("DeclaringClass() error = %v", err)
	}
	if declaring == nil || declaring.BinaryName != "Outer" {
		t.Fatalf("DeclaringClass() = %v, want Outer", declaring)
	}
}

func TestIsAnonymousClassDefaultsFalseWithNoMatchingRecord(t *testing.T) {
	s := fixtures.Scenario3Exceptions() // carries Exceptions, not InnerClass, for "M"
	anon, err := query.IsAnonymousClass(s.Owner)
	if err != nil {
		t.Fatalf("IsAnonymousClass() error = %v", err)
	}
	if anon {
		t.Fatal("IsAnonymousClass() = true with no InnerClass record, want false")
	}
}

func TestDeclaredClassesReturnsNilOnZeroMatches(t *testing.T) {
	s := fixtures.Scenario4AnonymousInner()
	// Owner.Name is "Outer$1", which is nobody's outer name in this stream.
	classes, err := query.DeclaredClasses(s.Owner, s.Boot)
	if err != nil {
		t.Fatalf("DeclaredClasses() error = %v", err)
	}
	if classes != nil {
		t.Fatalf("DeclaredClasses() = %v, want nil", classes)
	}
}

func TestQueriesAreStatelessAcrossRepeatedCalls(t *testing.T) {
	s := fixtures.Scenario2Signature()
	for i := 0; i < 3; i++ {
		sig, err := query.Signature(s.Owner)
		if err != nil {
			t.Fatalf("call %d: Signature() error = %v", i, err)
		}
		if sig == "" {
			t.Fatalf("call %d: Signature() = \"\", want the same non-empty string every time", i)
		}
	}
}
