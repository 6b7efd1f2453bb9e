// Package cst defines the concrete syntax tree produced by the
// validatetest parser. The tree retains every byte of input through node
// spans over the original buffer, so consumers can reconstruct the source
// exactly, highlight it, or re-parse string interiors.
package cst

// Kind identifies the grammatical construct a node represents.
type Kind uint8

const (
	KindError Kind = iota

	// Internal nodes.
	KindSourceFile
	KindStructure
	KindStructureName
	KindFieldList
	KindField
	KindFieldName
	KindPropertyPath
	KindFieldValue
	KindTypedValue
	KindTypeName
	KindValue
	KindArray
	KindArrayElement
	KindArrayValue
	KindArrayStructure
	KindAngleBracketArray
	KindNestedStructureBlock

	// Leaf token nodes.
	KindComment
	KindLineContinuation
	KindIdentifier
	KindString
	KindStringContent
	KindEscapeSequence
	KindVariable
	KindExpression
	KindNumber
	KindFloat
	KindFraction
	KindHexNumber
	KindBoolean
	KindFlags
	KindNamespacedIdentifier
	KindCliArgument
	KindUnquotedString

	// Punctuation leaves, named by their literal text.
	KindComma
	KindEquals
	KindSemicolon
	KindColon
	KindDot
	KindLBracket
	KindRBracket
	KindLBrace
	KindRBrace
	KindLParen
	KindRParen
	KindLAngle
	KindRAngle
)

var kindNames = map[Kind]string{
	KindError:                "ERROR",
	KindSourceFile:           "source_file",
	KindStructure:            "structure",
	KindStructureName:        "structure_name",
	KindFieldList:            "field_list",
	KindField:                "field",
	KindFieldName:            "field_name",
	KindPropertyPath:         "property_path",
	KindFieldValue:           "field_value",
	KindTypedValue:           "typed_value",
	KindTypeName:             "type_name",
	KindValue:                "value",
	KindArray:                "array",
	KindArrayElement:         "array_element",
	KindArrayValue:           "array_value",
	KindArrayStructure:       "array_structure",
	KindAngleBracketArray:    "angle_bracket_array",
	KindNestedStructureBlock: "nested_structure_block",
	KindComment:              "comment",
	KindLineContinuation:     "line_continuation",
	KindIdentifier:           "identifier",
	KindString:               "string",
	KindStringContent:        "string_content",
	KindEscapeSequence:       "escape_sequence",
	KindVariable:             "variable",
	KindExpression:           "expression",
	KindNumber:               "number",
	KindFloat:                "float",
	KindFraction:             "fraction",
	KindHexNumber:            "hex_number",
	KindBoolean:              "boolean",
	KindFlags:                "flags",
	KindNamespacedIdentifier: "namespaced_identifier",
	KindCliArgument:          "cli_argument",
	KindUnquotedString:       "unquoted_string",
	KindComma:                ",",
	KindEquals:               "=",
	KindSemicolon:            ";",
	KindColon:                ":",
	KindDot:                  ".",
	KindLBracket:             "[",
	KindRBracket:             "]",
	KindLBrace:               "{",
	KindRBrace:               "}",
	KindLParen:               "(",
	KindRParen:               ")",
	KindLAngle:               "<",
	KindRAngle:               ">",
}

// String returns the snake_case kind name. Punctuation kinds return
// their literal text.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsLeaf reports whether nodes of this kind never carry children.
func (k Kind) IsLeaf() bool {
	return k >= KindComment
}

// IsExtra reports whether the kind is trivia attachable anywhere.
func (k Kind) IsExtra() bool {
	return k == KindComment || k == KindLineContinuation
}

// FieldName names a child slot exposed for structured lookup.
type FieldName uint8

const (
	FieldNone FieldName = iota
	FieldOfName
	FieldOfValue
	FieldOfType
)

var fieldNames = map[FieldName]string{
	FieldOfName:  "name",
	FieldOfValue: "value",
	FieldOfType:  "type",
}

// String returns the field name as used by query predicates.
func (f FieldName) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return ""
}

// FieldByName resolves a textual field name. Returns FieldNone if unknown.
func FieldByName(name string) FieldName {
	switch name {
	case "name":
		return FieldOfName
	case "value":
		return FieldOfValue
	case "type":
		return FieldOfType
	}
	return FieldNone
}

// kindFields is the static table of legal named fields per node kind.
// Lookups go through this table and the per-child tags recorded at
// construction, never through scanning children by kind, so a Field and a
// TypedValue sharing a child of the same underlying kind are never confused.
var kindFields = map[Kind][]FieldName{
	KindField:      {FieldOfName, FieldOfValue},
	KindTypedValue: {FieldOfType, FieldOfValue},
}

// Fields returns the named fields nodes of this kind may expose.
func (k Kind) Fields() []FieldName {
	return kindFields[k]
}

// HasField reports whether the kind may expose the given named field.
func (k Kind) HasField(f FieldName) bool {
	for _, have := range kindFields[k] {
		if have == f {
			return true
		}
	}
	return false
}
