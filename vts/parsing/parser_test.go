package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiblahute/validatetest-go/vts/parsing/cst"
	"github.com/thiblahute/validatetest-go/vts/parsing/lexer"
)

func TestParseTotality(t *testing.T) {
	// Every input yields a tree spanning the whole buffer, garbage included.
	inputs := []string{
		"",
		"play",
		"play;",
		"seek, start=0.0, flags=accurate+flush",
		"foo, x=",
		"@@@ ???",
		"= = = ,,, ;;;",
		"foo, a=[1, 2",
		"{ } < >",
		"# only a comment\n",
		"play, configs={ \"seek, start=0.0\" }",
		"check, caps=(GstCaps)\"video/x-raw, width=320\"",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			tree, _ := Parse(input)
			require.NotNil(t, tree)
			root := tree.Root()
			assert.Equal(t, cst.KindSourceFile, root.Kind())
			assert.Equal(t, 0, root.Span().Start)
			assert.Equal(t, len(input), root.Span().End)
			// Losslessness: the root's text is the input, byte for byte.
			assert.Equal(t, input, tree.Text(root))
		})
	}
}

func TestParseSimpleStructure(t *testing.T) {
	tree, diags := Parse("seek, start=0.0, flags=accurate+flush;")
	require.False(t, diags.HasErrors())

	root := tree.Root()
	structures := root.ChildrenOfKind(cst.KindStructure)
	require.Len(t, structures, 1)

	s := structures[0]
	name := s.FirstChildOfKind(cst.KindStructureName)
	require.NotNil(t, name)
	assert.Equal(t, "seek", tree.Text(name))

	fields := s.FirstChildOfKind(cst.KindFieldList).ChildrenOfKind(cst.KindField)
	require.Len(t, fields, 2)
	assert.Equal(t, "start", tree.Text(fields[0].Field(cst.FieldOfName)))
	assert.Equal(t, "0.0", tree.Text(fields[0].Field(cst.FieldOfValue)))
	assert.Equal(t, "accurate+flush", tree.Text(fields[1].Field(cst.FieldOfValue)))

	assert.NotNil(t, s.FirstChildOfKind(cst.KindSemicolon))
}

func TestParseNewlineTerminatesStructure(t *testing.T) {
	tree, diags := Parse("play\npause\nstop;")
	require.False(t, diags.HasErrors())
	assert.Len(t, tree.Root().ChildrenOfKind(cst.KindStructure), 3)
}

func TestParseMultilineStructureContinuesAfterComma(t *testing.T) {
	tree, diags := Parse("meta,\n    handles-states=true,\n    duration=5.0\nplay")
	require.False(t, diags.HasErrors())

	structures := tree.Root().ChildrenOfKind(cst.KindStructure)
	require.Len(t, structures, 2)

	fields := structures[0].FirstChildOfKind(cst.KindFieldList).ChildrenOfKind(cst.KindField)
	assert.Len(t, fields, 2)
	assert.Equal(t, "play", tree.Text(structures[1].FirstChildOfKind(cst.KindStructureName)))
}

func TestParseLineContinuationJoinsLines(t *testing.T) {
	tree, diags := Parse("seek, start=0.0, \\\n stop=1.0")
	require.False(t, diags.HasErrors())
	// The continuation hides the newline, so stop binds to the same
	// structure.
	structures := tree.Root().ChildrenOfKind(cst.KindStructure)
	require.Len(t, structures, 1)
	fields := structures[0].FirstChildOfKind(cst.KindFieldList).ChildrenOfKind(cst.KindField)
	assert.Len(t, fields, 2)
}

func TestParseMissingValue(t *testing.T) {
	tree, diags := Parse("foo, x=")
	require.True(t, diags.HasErrors())
	require.Len(t, diags.Errors(), 1)
	// The diagnostic sits at end of input.
	assert.Equal(t, len("foo, x="), diags.Errors()[0].Span().Start)

	structures := tree.Root().ChildrenOfKind(cst.KindStructure)
	require.Len(t, structures, 1)
	fields := structures[0].FirstChildOfKind(cst.KindFieldList).ChildrenOfKind(cst.KindField)
	require.Len(t, fields, 1)

	field := fields[0]
	assert.True(t, field.HasError())
	value := field.Field(cst.FieldOfValue)
	require.NotNil(t, value)
	assert.Equal(t, cst.KindError, value.Kind())
}

func TestParseRecoveryNeverAborts(t *testing.T) {
	tree, diags := Parse("foo, =3\nbar, a=1")
	require.True(t, diags.HasErrors())

	root := tree.Root()
	structures := root.ChildrenOfKind(cst.KindStructure)
	require.Len(t, structures, 2)
	assert.Equal(t, "bar", tree.Text(structures[1].FirstChildOfKind(cst.KindStructureName)))
	// The bad tokens live in an error node, previous siblings intact.
	assert.True(t, structures[0].ContainsError())
}

func TestParsePropertyPath(t *testing.T) {
	tree, diags := Parse("check, element.pad::prop=1")
	require.False(t, diags.HasErrors())

	field := tree.Root().ChildrenOfKind(cst.KindStructure)[0].
		FirstChildOfKind(cst.KindFieldList).ChildrenOfKind(cst.KindField)[0]
	name := field.Field(cst.FieldOfName)
	require.NotNil(t, name)
	assert.Equal(t, cst.KindPropertyPath, name.Kind())
	assert.Equal(t, "element.pad::prop", tree.Text(name))

	idents := name.ChildrenOfKind(cst.KindIdentifier)
	require.Len(t, idents, 3)
	assert.Equal(t, "element", tree.Text(idents[0]))
	assert.Equal(t, "pad", tree.Text(idents[1]))
	assert.Equal(t, "prop", tree.Text(idents[2]))
}

func TestParsePlainFieldNameIsNotPropertyPath(t *testing.T) {
	tree, _ := Parse("check, prop=1")
	field := tree.Root().ChildrenOfKind(cst.KindStructure)[0].
		FirstChildOfKind(cst.KindFieldList).ChildrenOfKind(cst.KindField)[0]
	assert.Equal(t, cst.KindFieldName, field.Field(cst.FieldOfName).Kind())
}

func TestParseTypedValue(t *testing.T) {
	tree, diags := Parse("action, value=(int)42")
	require.False(t, diags.HasErrors())

	field := tree.Root().ChildrenOfKind(cst.KindStructure)[0].
		FirstChildOfKind(cst.KindFieldList).ChildrenOfKind(cst.KindField)[0]
	typed := field.Field(cst.FieldOfValue).FirstChildOfKind(cst.KindTypedValue)
	require.NotNil(t, typed)
	assert.Equal(t, "int", tree.Text(typed.Field(cst.FieldOfType)))
	assert.Equal(t, "42", tree.Text(typed.Field(cst.FieldOfValue)))
}

func TestParseTypedValueArrayPayload(t *testing.T) {
	tree, diags := Parse("action, value=(GstValueList)[1, 2, 3]")
	require.False(t, diags.HasErrors())

	field := tree.Root().ChildrenOfKind(cst.KindStructure)[0].
		FirstChildOfKind(cst.KindFieldList).ChildrenOfKind(cst.KindField)[0]
	typed := field.Field(cst.FieldOfValue).FirstChildOfKind(cst.KindTypedValue)
	require.NotNil(t, typed)
	assert.Equal(t, cst.KindArray, typed.Field(cst.FieldOfValue).Kind())
}

func TestParseGstCapsString(t *testing.T) {
	input := `check, caps=(GstCaps)"video/x-raw, width=320"`
	tree, diags := Parse(input)
	require.False(t, diags.HasErrors())

	field := tree.Root().ChildrenOfKind(cst.KindStructure)[0].
		FirstChildOfKind(cst.KindFieldList).ChildrenOfKind(cst.KindField)[0]
	typed := field.Field(cst.FieldOfValue).FirstChildOfKind(cst.KindTypedValue)
	require.NotNil(t, typed)
	assert.Equal(t, "GstCaps", tree.Text(typed.Field(cst.FieldOfType)))

	value := typed.Field(cst.FieldOfValue)
	str := value.FirstChildOfKind(cst.KindString)
	require.NotNil(t, str)
	assert.Equal(t, `"video/x-raw, width=320"`, tree.Text(str))
}

func TestParseBareWordInArrayIsStructure(t *testing.T) {
	tree, diags := Parse("a, x=[pause, play]")
	require.False(t, diags.HasErrors())

	field := tree.Root().ChildrenOfKind(cst.KindStructure)[0].
		FirstChildOfKind(cst.KindFieldList).ChildrenOfKind(cst.KindField)[0]
	array := field.Field(cst.FieldOfValue).FirstChildOfKind(cst.KindArray)
	require.NotNil(t, array)

	elements := array.ChildrenOfKind(cst.KindArrayElement)
	require.Len(t, elements, 2)
	for _, elem := range elements {
		assert.NotNil(t, elem.FirstChildOfKind(cst.KindArrayStructure))
	}
}

func TestParseArrayStructureWithFields(t *testing.T) {
	tree, diags := Parse("meta, issues=[expected-issue, level=critical, id=foo]")
	require.False(t, diags.HasErrors())

	field := tree.Root().ChildrenOfKind(cst.KindStructure)[0].
		FirstChildOfKind(cst.KindFieldList).ChildrenOfKind(cst.KindField)[0]
	array := field.Field(cst.FieldOfValue).FirstChildOfKind(cst.KindArray)
	elements := array.ChildrenOfKind(cst.KindArrayElement)
	require.Len(t, elements, 1)

	structure := elements[0].FirstChildOfKind(cst.KindArrayStructure)
	require.NotNil(t, structure)
	fields := structure.FirstChildOfKind(cst.KindFieldList).ChildrenOfKind(cst.KindField)
	assert.Len(t, fields, 2)
}

func TestParseScalarArray(t *testing.T) {
	tree, diags := Parse("a, x=[1, 2.5, \"s\"]")
	require.False(t, diags.HasErrors())

	field := tree.Root().ChildrenOfKind(cst.KindStructure)[0].
		FirstChildOfKind(cst.KindFieldList).ChildrenOfKind(cst.KindField)[0]
	array := field.Field(cst.FieldOfValue).FirstChildOfKind(cst.KindArray)
	elements := array.ChildrenOfKind(cst.KindArrayElement)
	require.Len(t, elements, 3)
	for _, elem := range elements {
		assert.NotNil(t, elem.FirstChildOfKind(cst.KindArrayValue))
	}
}

func TestParseNestedBlockStructureVsValue(t *testing.T) {
	// configs holds structures: word followed by a comma-led field list.
	tree, diags := Parse("play, configs={ core, verbose=true }")
	require.False(t, diags.HasErrors())

	field := tree.Root().ChildrenOfKind(cst.KindStructure)[0].
		FirstChildOfKind(cst.KindFieldList).ChildrenOfKind(cst.KindField)[0]
	block := field.Field(cst.FieldOfValue).FirstChildOfKind(cst.KindNestedStructureBlock)
	require.NotNil(t, block)
	require.Len(t, block.ChildrenOfKind(cst.KindStructure), 1)

	// meta args holds plain values: standalone words stay values.
	tree, diags = Parse("meta, args={-t, video, --sink, fakesink}")
	require.False(t, diags.HasErrors())
	field = tree.Root().ChildrenOfKind(cst.KindStructure)[0].
		FirstChildOfKind(cst.KindFieldList).ChildrenOfKind(cst.KindField)[0]
	block = field.Field(cst.FieldOfValue).FirstChildOfKind(cst.KindNestedStructureBlock)
	require.NotNil(t, block)
	assert.Empty(t, block.ChildrenOfKind(cst.KindStructure))
	assert.Len(t, block.ChildrenOfKind(cst.KindFieldValue), 4)
}

func TestParseAngleBracketArray(t *testing.T) {
	tree, diags := Parse("check, position=<0.0, 1.0, 2.0>")
	require.False(t, diags.HasErrors())

	field := tree.Root().ChildrenOfKind(cst.KindStructure)[0].
		FirstChildOfKind(cst.KindFieldList).ChildrenOfKind(cst.KindField)[0]
	angle := field.Field(cst.FieldOfValue).FirstChildOfKind(cst.KindAngleBracketArray)
	require.NotNil(t, angle)
	assert.Len(t, angle.ChildrenOfKind(cst.KindFieldValue), 3)
}

func TestParseUnbalancedBrackets(t *testing.T) {
	inputs := []string{
		"a, x=[1, 2",
		"a, x={ b, c=1",
		"a, x=<1, 2",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			tree, diags := Parse(input)
			assert.True(t, diags.HasErrors())
			assert.Equal(t, input, tree.Text(tree.Root()))
		})
	}
}

func TestParseCommentsAttachedAsExtras(t *testing.T) {
	input := "# header\nplay # inline\npause"
	tree, diags := Parse(input)
	require.False(t, diags.HasErrors())
	assert.Equal(t, input, tree.Text(tree.Root()))

	var comments int
	var walk func(n *cst.Node)
	walk = func(n *cst.Node) {
		if n.Kind() == cst.KindComment {
			comments++
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(tree.Root())
	assert.Equal(t, 2, comments)
}

func TestParseReparseIsStructurallyStable(t *testing.T) {
	inputs := []string{
		"seek, start=0.0, flags=accurate+flush;",
		"meta,\n    handles-states=true,\n    args={ \"pipeline\" }\nplay",
		"check, caps=(GstCaps)\"video/x-raw, width=320\"",
		"a, x=[expected-issue, level=critical]",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first, diags := Parse(input)
			require.False(t, diags.HasErrors())
			second, _ := Parse(first.Text(first.Root()))
			assert.True(t, cst.StructurallyEqual(first.Root(), second.Root(), 0))
		})
	}
}

func TestParseFieldNodeInvariants(t *testing.T) {
	tree, _ := Parse("seek, start=0.0, element::prop=1")
	fields := tree.Root().ChildrenOfKind(cst.KindStructure)[0].
		FirstChildOfKind(cst.KindFieldList).ChildrenOfKind(cst.KindField)
	require.Len(t, fields, 2)
	// A field's name is always FieldName or PropertyPath; its value is
	// always FieldValue.
	assert.Equal(t, cst.KindFieldName, fields[0].Field(cst.FieldOfName).Kind())
	assert.Equal(t, cst.KindFieldValue, fields[0].Field(cst.FieldOfValue).Kind())
	assert.Equal(t, cst.KindPropertyPath, fields[1].Field(cst.FieldOfName).Kind())
	assert.Equal(t, cst.KindFieldValue, fields[1].Field(cst.FieldOfValue).Kind())
}

func TestStringInterior(t *testing.T) {
	tree, diags := Parse(`set-vars, msg="pos is $(position)"`)
	require.False(t, diags.HasErrors())

	var str *cst.Node
	var walk func(n *cst.Node)
	walk = func(n *cst.Node) {
		if n.Kind() == cst.KindString {
			str = n
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(tree.Root())
	require.NotNil(t, str)

	spans := StringInterior(tree, str)
	require.Len(t, spans, 2)
	assert.Equal(t, "pos is ", tree.Source()[spans[0].Start:spans[0].End])
	assert.Equal(t, "$(position)", tree.Source()[spans[1].Start:spans[1].End])
}

func findStringLeaf(n *cst.Node) *cst.Node {
	if n.Kind() == cst.KindString {
		return n
	}
	for _, c := range n.Children() {
		if str := findStringLeaf(c); str != nil {
			return str
		}
	}
	return nil
}

func TestStringInteriorUnterminatedEscapedQuote(t *testing.T) {
	// The final quote is escape payload, not a delimiter; the body must
	// keep it and run to end of input.
	tree, diags := Parse(`msg, text="abc\"`)
	require.True(t, diags.HasErrors(), "string never closes")

	str := findStringLeaf(tree.Root())
	require.NotNil(t, str)

	spans := StringInterior(tree, str)
	require.Len(t, spans, 2)
	assert.Equal(t, "abc", tree.Source()[spans[0].Start:spans[0].End])
	assert.Equal(t, lexer.TokenEscapeSequence, spans[1].Type)
	assert.Equal(t, `\"`, tree.Source()[spans[1].Start:spans[1].End])
}

func TestStringInteriorEscapedBackslashBeforeClosingQuote(t *testing.T) {
	// An even run of backslashes leaves the final quote as the delimiter.
	tree, diags := Parse(`set-vars, p="a\\"`)
	require.False(t, diags.HasErrors())

	str := findStringLeaf(tree.Root())
	require.NotNil(t, str)

	spans := StringInterior(tree, str)
	require.Len(t, spans, 2)
	assert.Equal(t, "a", tree.Source()[spans[0].Start:spans[0].End])
	assert.Equal(t, lexer.TokenEscapeSequence, spans[1].Type)
	assert.Equal(t, `\\`, tree.Source()[spans[1].Start:spans[1].End])
}

func TestParseSExpressionShape(t *testing.T) {
	tree, _ := Parse("play")
	sexp := tree.SExpression(tree.Root())
	assert.Equal(t, "(source_file (structure (structure_name (identifier))))", sexp)
}
