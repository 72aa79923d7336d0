package model_test

import (
	"strings"
	"testing"

	"github.com/nullvm/jattr/internal/attr/container"
	"github.com/nullvm/jattr/internal/attr/cursor"
	"github.com/nullvm/jattr/internal/attr/model"
)

func TestAttributeTagValid(t *testing.T) {
	for tag := model.SourceFile; tag <= model.AnnotationDefault; tag++ {
		if !tag.Valid() {
			t.Fatalf("tag %v: Valid() = false, want true", tag)
		}
	}
	if model.AttributeTag(0).Valid() || model.AttributeTag(9).Valid() {
		t.Fatal("tags outside {1..8}: Valid() = true, want false")
	}
}

func TestElementTagIsIntFamily(t *testing.T) {
	for _, tag := range []model.ElementTag{model.TagBoolean, model.TagByte, model.TagShort, model.TagChar, model.TagInt} {
		if !tag.IsIntFamily() {
			t.Fatalf("tag %v: IsIntFamily() = false, want true", tag)
		}
	}
	for _, tag := range []model.ElementTag{model.TagLong, model.TagFloat, model.TagDouble, model.TagString, model.TagArray} {
		if tag.IsIntFamily() {
			t.Fatalf("tag %v: IsIntFamily() = true, want false", tag)
		}
	}
}

func TestDescribeSourceFile(t *testing.T) {
	pool := container.NewStringPool([]string{"", "Main.java"})
	data := make([]byte, 8)
	data[0] = 1 // pool ref 1
	cur := cursor.New(data, pool)

	got := model.Describe(model.SourceFile, cur)
	if !strings.Contains(got, `"Main.java"`) {
		t.Fatalf("Describe(SourceFile) = %q, want it to contain the quoted string", got)
	}
}

func TestDescribeUnknownTagFallsBackToString(t *testing.T) {
	cur := cursor.New(nil, nil)
	got := model.Describe(model.AttributeTag(42), cur)
	if got != model.AttributeTag(42).String() {
		t.Fatalf("Describe(unknown) = %q, want %q", got, model.AttributeTag(42).String())
	}
}
