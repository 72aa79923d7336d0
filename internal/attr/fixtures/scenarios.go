package fixtures

import (
	"github.com/nullvm/jattr/internal/attr/container"
	"github.com/nullvm/jattr/internal/attr/cursor"
	"github.com/nullvm/jattr/internal/attr/host"
	"github.com/nullvm/jattr/internal/attr/hostfake"
	"github.com/nullvm/jattr/internal/attr/query"
)

// Scenario bundles everything one spec.md §8 numbered scenario needs to
// run: the owner to query and the bootstrap to query it with.
type Scenario struct {
	Name  string
	Owner query.Owner
	Boot  *host.Bootstrap
}

// primitiveWrapperNames maps each primitive descriptor to the wrapper
// class name boxing would resolve in a real VM — only used here as a
// registry key, never actually loaded.
var primitiveWrapperNames = map[string]string{
	"Z": "java/lang/Boolean",
	"B": "java/lang/Byte",
	"S": "java/lang/Short",
	"C": "java/lang/Character",
	"I": "java/lang/Integer",
	"J": "java/lang/Long",
	"F": "java/lang/Float",
	"D": "java/lang/Double",
}

func mustBootstrap(reg *hostfake.Registry) *host.Bootstrap {
	reg.Define(&host.ClassMirror{Descriptor: "Ljava/lang/String;", BinaryName: "java/lang/String"})
	reg.Define(&host.ClassMirror{Descriptor: "Ljava/lang/Class;", BinaryName: "java/lang/Class"})
	reg.Define(&host.ClassMirror{Descriptor: "Ljava/lang/annotation/Annotation;", BinaryName: "java/lang/annotation/Annotation"})
	for descriptor, wrapperName := range primitiveWrapperNames {
		reg.Define(&host.ClassMirror{Descriptor: descriptor, BinaryName: wrapperName})
	}
	bs, err := host.InitAttributes(reg, reg, reg, reg, reg)
	if err != nil {
		panic(err) // fixtures are fixed at compile time; a failure here is a bug in this file
	}
	return bs
}

// Scenario1Absent: a null attribute stream. ExceptionTypes and
// Annotations must both return their shared empty sentinels.
func Scenario1Absent() Scenario {
	reg := hostfake.NewRegistry()
	return Scenario{
		Name:  "absent attributes",
		Owner: query.Owner{Name: "M"},
		Boot:  mustBootstrap(reg),
	}
}

// Scenario2Signature: count=1, tag=2, ptr to a generic List signature.
func Scenario2Signature() Scenario {
	pool := container.NewStringPool([]string{""})
	b := NewBuilder(pool)
	b.Count(1)
	b.Tag(2)
	b.SourceFileOrSignature("Ljava/util/List<Ljava/lang/String;>;")

	reg := hostfake.NewRegistry()
	return Scenario{
		Name:  "single signature",
		Owner: query.Owner{Name: "C", Stream: b.Bytes(), Pool: pool},
		Boot:  mustBootstrap(reg),
	}
}

// Scenario3Exceptions: count=1, tag=5, len=2, two exception class names.
func Scenario3Exceptions() Scenario {
	pool := container.NewStringPool([]string{""})
	b := NewBuilder(pool)
	b.Count(1)
	b.Tag(5)
	b.ExceptionsBody("java/io/IOException", "java/lang/RuntimeException")

	reg := hostfake.NewRegistry()
	reg.Define(&host.ClassMirror{Descriptor: "Ljava/io/IOException;", BinaryName: "java/io/IOException"})
	reg.Define(&host.ClassMirror{Descriptor: "Ljava/lang/RuntimeException;", BinaryName: "java/lang/RuntimeException"})

	return Scenario{
		Name:  "exceptions list",
		Owner: query.Owner{Name: "M", Stream: b.Bytes(), Pool: pool},
		Boot:  mustBootstrap(reg),
	}
}

// Scenario4AnonymousInner: count=1, tag=3, inner="Outer$1", outer="Outer",
// simple="" (null), access=0; the query's owner is "Outer$1" itself.
func Scenario4AnonymousInner() Scenario {
	pool := container.NewStringPool([]string{""})
	b := NewBuilder(pool)
	b.Count(1)
	b.Tag(3)
	b.InnerClassBody("Outer$1", "Outer", "", 0)

	reg := hostfake.NewRegistry()
	reg.Define(&host.ClassMirror{Descriptor: "LOuter;", BinaryName: "Outer"})

	return Scenario{
		Name:  "anonymous inner",
		Owner: query.Owner{Name: "Outer$1", Stream: b.Bytes(), Pool: pool},
		Boot:  mustBootstrap(reg),
	}
}

// Scenario5Annotation: an @MyAnno(x=7, s="hi") runtime-visible
// annotation on a single member.
func Scenario5Annotation() Scenario {
	pool := container.NewStringPool([]string{""})
	b := NewBuilder(pool)
	b.Count(1)
	b.Tag(6)
	b.i32(1) // RuntimeVisibleAnnotations length
	b.BeginAnnotation("LMyAnno;", 2)
	b.MemberName("x")
	b.IntValue('I', 7)
	b.MemberName("s")
	b.StringValue("hi")

	reg := hostfake.NewRegistry()
	reg.Define(&host.ClassMirror{
		Descriptor:   "LMyAnno;",
		BinaryName:   "MyAnno",
		IsAnnotation: true,
		DeclaredMethods: []*host.MethodMirror{
			{Name: "x", Descriptor: "()I", ReturnType: "I"},
			{Name: "s", Descriptor: "()Ljava/lang/String;", ReturnType: "Ljava/lang/String;"},
		},
	})

	return Scenario{
		Name:  "annotation with primitive and string",
		Owner: query.Owner{Name: "C", Stream: b.Bytes(), Pool: pool},
		Boot:  mustBootstrap(reg),
	}
}

// Scenario6NestedArray: @Outer(list = {@Inner(v=1), @Inner(v=2)}).
func Scenario6NestedArray() Scenario {
	pool := container.NewStringPool([]string{""})
	b := NewBuilder(pool)
	b.Count(1)
	b.Tag(6)
	b.i32(1)
	b.BeginAnnotation("LOuter;", 1)
	b.MemberName("list")
	b.BeginArray(2)
	b.BeginNestedAnnotation()
	b.BeginAnnotation("LInner;", 1)
	b.MemberName("v")
	b.IntValue('I', 1)
	b.BeginNestedAnnotation()
	b.BeginAnnotation("LInner;", 1)
	b.MemberName("v")
	b.IntValue('I', 2)

	reg := hostfake.NewRegistry()
	reg.Define(&host.ClassMirror{
		Descriptor:   "LInner;",
		BinaryName:   "Inner",
		IsAnnotation: true,
		DeclaredMethods: []*host.MethodMirror{
			{Name: "v", Descriptor: "()I", ReturnType: "I"},
		},
	})
	reg.Define(&host.ClassMirror{
		Descriptor:   "LOuter;",
		BinaryName:   "Outer",
		IsAnnotation: true,
		DeclaredMethods: []*host.MethodMirror{
			{Name: "list", Descriptor: "()[LInner;", ReturnType: "[LInner;"},
		},
	})

	return Scenario{
		Name:  "nested annotation array",
		Owner: query.Owner{Name: "C", Stream: b.Bytes(), Pool: pool},
		Boot:  mustBootstrap(reg),
	}
}

// Scenario7TypeMismatch returns a standalone cursor over a single
// element_value whose tag ('s') contradicts its declared type (int),
// plus the bootstrap to parse it against — this scenario exercises
// decoder.ParseElementValue directly rather than a full query, since
// the mismatch is a property of one element_value, not a stream.
func Scenario7TypeMismatch() (*cursor.Cursor, *host.Bootstrap) {
	pool := container.NewStringPool([]string{""})
	b := NewBuilder(pool)
	b.StringValue("surprise")

	reg := hostfake.NewRegistry()
	return cursor.New(b.Bytes(), pool), mustBootstrap(reg)
}
