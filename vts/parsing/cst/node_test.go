package cst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiblahute/validatetest-go/vts/diagnostics"
)

func span(start, end int) diagnostics.Span {
	return diagnostics.NewSpan(start, end, diagnostics.FileIDZero)
}

func TestBuilderSpanIsChildUnion(t *testing.T) {
	node := NewBuilder(KindField).
		AddField(FieldOfName, NewLeaf(KindIdentifier, span(0, 4))).
		Add(NewLeaf(KindEquals, span(4, 5))).
		AddField(FieldOfValue, NewLeaf(KindNumber, span(5, 7))).
		Finish()

	assert.Equal(t, 0, node.Span().Start)
	assert.Equal(t, 7, node.Span().End)
	assert.Equal(t, 3, node.ChildCount())
}

func TestBuilderSetSpanWidens(t *testing.T) {
	node := NewBuilder(KindSourceFile).
		SetSpan(span(0, 20)).
		Add(NewLeaf(KindIdentifier, span(3, 7))).
		Finish()
	assert.Equal(t, span(0, 20), node.Span())
}

func TestFieldLookupUsesTagsNotKinds(t *testing.T) {
	// Field and TypedValue both carry a "value" slot; lookup must go
	// through the recorded tag, not through child-kind scanning.
	inner := NewBuilder(KindTypedValue).
		Add(NewLeaf(KindLParen, span(2, 3))).
		AddField(FieldOfType, NewLeaf(KindIdentifier, span(3, 6))).
		Add(NewLeaf(KindRParen, span(6, 7))).
		AddField(FieldOfValue, NewLeaf(KindNumber, span(7, 9))).
		Finish()

	field := NewBuilder(KindField).
		AddField(FieldOfName, NewLeaf(KindIdentifier, span(0, 1))).
		Add(NewLeaf(KindEquals, span(1, 2))).
		AddField(FieldOfValue, inner).
		Finish()

	require.NotNil(t, field.Field(FieldOfValue))
	assert.Equal(t, KindTypedValue, field.Field(FieldOfValue).Kind())
	// Field nodes have no "type" slot at all.
	assert.Nil(t, field.Field(FieldOfType))
	assert.Equal(t, KindNumber, inner.Field(FieldOfValue).Kind())
	assert.Equal(t, KindIdentifier, inner.Field(FieldOfType).Kind())
}

func TestFieldByName(t *testing.T) {
	field := NewBuilder(KindField).
		AddField(FieldOfName, NewLeaf(KindIdentifier, span(0, 1))).
		AddField(FieldOfValue, NewLeaf(KindNumber, span(2, 3))).
		Finish()

	assert.Equal(t, KindIdentifier, field.FieldByName("name").Kind())
	assert.Equal(t, KindNumber, field.FieldByName("value").Kind())
	assert.Nil(t, field.FieldByName("unknown"))
}

func TestContainsError(t *testing.T) {
	clean := NewBuilder(KindStructure).
		Add(NewLeaf(KindIdentifier, span(0, 3))).
		Finish()
	assert.False(t, clean.ContainsError())

	withErrorLeaf := NewBuilder(KindStructure).
		Add(NewLeaf(KindError, span(0, 1))).
		Finish()
	assert.True(t, withErrorLeaf.ContainsError())

	marked := NewBuilder(KindStructure).
		Add(NewLeaf(KindIdentifier, span(0, 3))).
		MarkError().
		Finish()
	assert.True(t, marked.HasError())
	assert.True(t, marked.ContainsError())
}

func TestTreeTextClampsSpans(t *testing.T) {
	tree := NewTree(NewLeaf(KindIdentifier, span(2, 99)), "play")
	assert.Equal(t, "ay", tree.Text(tree.Root()))
}

func TestStructurallyEqualShiftsSpans(t *testing.T) {
	build := func(offset int) *Node {
		return NewBuilder(KindStructure).
			Add(NewLeaf(KindIdentifier, span(offset, offset+4))).
			Finish()
	}
	assert.True(t, StructurallyEqual(build(0), build(0), 0))
	assert.True(t, StructurallyEqual(build(0), build(10), 10))
	assert.False(t, StructurallyEqual(build(0), build(10), 0))
}

func TestKindNames(t *testing.T) {
	assert.Equal(t, "source_file", KindSourceFile.String())
	assert.Equal(t, "ERROR", KindError.String())
	assert.Equal(t, ",", KindComma.String())
	assert.True(t, KindComment.IsExtra())
	assert.False(t, KindStructure.IsExtra())
	assert.True(t, KindIdentifier.IsLeaf())
	assert.False(t, KindFieldList.IsLeaf())
}
