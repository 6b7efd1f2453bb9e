package format

import (
	"strings"

	"github.com/thiblahute/validatetest-go/vts/parsing/cst"
)

// Inline renderers build a candidate single-line rendering of a subtree.
// The multiline renderers measure these against the line limit before
// committing either way.

func (f *formatter) formatStructureInline(node *cst.Node) string {
	var sb strings.Builder

	if name := node.FirstChildOfKind(cst.KindStructureName); name != nil {
		sb.WriteString(f.text(name))
	}
	if fields := node.FirstChildOfKind(cst.KindFieldList); fields != nil {
		sb.WriteString(", ")
		sb.WriteString(f.formatFieldListInline(fields))
	}
	if node.FirstChildOfKind(cst.KindSemicolon) != nil {
		sb.WriteByte(';')
	}

	return sb.String()
}

func (f *formatter) formatFieldListInline(node *cst.Node) string {
	var sb strings.Builder
	fields := node.ChildrenOfKind(cst.KindField)
	for i, field := range fields {
		sb.WriteString(f.formatFieldInline(field))
		if i < len(fields)-1 {
			sb.WriteString(", ")
		}
	}
	return sb.String()
}

func (f *formatter) formatFieldInline(node *cst.Node) string {
	var sb strings.Builder
	if name := node.Field(cst.FieldOfName); name != nil {
		sb.WriteString(f.text(name))
	}
	sb.WriteByte('=')
	if value := node.Field(cst.FieldOfValue); value != nil {
		sb.WriteString(f.formatFieldValueInline(value))
	}
	return sb.String()
}

func (f *formatter) formatFieldValueInline(node *cst.Node) string {
	var sb strings.Builder
	for _, child := range node.Children() {
		switch child.Kind() {
		case cst.KindNestedStructureBlock:
			sb.WriteString(f.formatNestedBlockInline(child))
		case cst.KindArray:
			sb.WriteString(f.formatArrayInline(child))
		case cst.KindAngleBracketArray:
			sb.WriteString(f.formatAngleBracketArrayInline(child))
		case cst.KindTypedValue:
			sb.WriteString(f.formatTypedValueInline(child))
		case cst.KindValue:
			sb.WriteString(f.formatValueInline(child))
		}
	}
	return sb.String()
}

func (f *formatter) formatNestedBlockInline(node *cst.Node) string {
	var items []*cst.Node
	for _, child := range node.Children() {
		switch child.Kind() {
		case cst.KindStructure, cst.KindFieldValue, cst.KindComment:
			items = append(items, child)
		}
	}

	var sb strings.Builder
	sb.WriteByte('{')
	for i, child := range items {
		switch child.Kind() {
		case cst.KindStructure:
			sb.WriteString(f.formatStructureInline(child))
		case cst.KindFieldValue:
			sb.WriteString(f.formatFieldValueInline(child))
		case cst.KindComment:
			sb.WriteString(f.text(child))
		}
		if i < len(items)-1 {
			sb.WriteString(", ")
		}
	}
	sb.WriteByte('}')
	return sb.String()
}

func (f *formatter) formatTypedValueInline(node *cst.Node) string {
	var sb strings.Builder
	sb.WriteByte('(')
	if typeName := node.Field(cst.FieldOfType); typeName != nil {
		sb.WriteString(f.text(typeName))
	}
	sb.WriteByte(')')

	if value := node.Field(cst.FieldOfValue); value != nil {
		switch value.Kind() {
		case cst.KindArray:
			sb.WriteString(f.formatArrayInline(value))
		case cst.KindAngleBracketArray:
			sb.WriteString(f.formatAngleBracketArrayInline(value))
		default:
			sb.WriteString(f.text(value))
		}
	}
	return sb.String()
}

func (f *formatter) formatArrayInline(node *cst.Node) string {
	elements := node.ChildrenOfKind(cst.KindArrayElement)
	if len(elements) == 0 {
		return "[]"
	}

	var sb strings.Builder
	sb.WriteByte('[')
	for i, elem := range elements {
		sb.WriteString(f.formatArrayElementInline(elem))
		if i < len(elements)-1 {
			sb.WriteString(", ")
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func (f *formatter) formatArrayElementInline(node *cst.Node) string {
	var sb strings.Builder
	for _, child := range node.Children() {
		switch child.Kind() {
		case cst.KindArrayStructure:
			sb.WriteString(f.formatArrayStructureInline(child))
		case cst.KindTypedValue:
			sb.WriteString(f.formatTypedValueInline(child))
		case cst.KindComma:
		case cst.KindArrayValue:
			sb.WriteString(f.formatArrayValueInline(child))
		default:
			sb.WriteString(f.text(child))
		}
	}
	return sb.String()
}

func (f *formatter) formatArrayValueInline(node *cst.Node) string {
	var sb strings.Builder
	for _, child := range node.Children() {
		switch child.Kind() {
		case cst.KindTypedValue:
			sb.WriteString(f.formatTypedValueInline(child))
		case cst.KindArray:
			sb.WriteString(f.formatArrayInline(child))
		case cst.KindAngleBracketArray:
			sb.WriteString(f.formatAngleBracketArrayInline(child))
		case cst.KindNestedStructureBlock:
			sb.WriteString(f.formatNestedBlockInline(child))
		default:
			// Value leaves keep their source text here; the quoted-structure
			// rewrite applies only at field-value position.
			sb.WriteString(f.text(child))
		}
	}
	return sb.String()
}

func (f *formatter) formatArrayStructureInline(node *cst.Node) string {
	var sb strings.Builder
	if name := node.FirstChildOfKind(cst.KindStructureName); name != nil {
		sb.WriteString(f.text(name))
	}
	if fields := node.FirstChildOfKind(cst.KindFieldList); fields != nil {
		sb.WriteString(", ")
		sb.WriteString(f.formatFieldListInline(fields))
	}
	return sb.String()
}

func (f *formatter) formatAngleBracketArrayInline(node *cst.Node) string {
	values := node.ChildrenOfKind(cst.KindFieldValue)
	if len(values) == 0 {
		return "<>"
	}

	var sb strings.Builder
	sb.WriteByte('<')
	for i, val := range values {
		sb.WriteString(f.formatFieldValueInline(val))
		if i < len(values)-1 {
			sb.WriteString(", ")
		}
	}
	sb.WriteByte('>')
	return sb.String()
}
