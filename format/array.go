package format

import (
	"strings"

	"github.com/thiblahute/validatetest-go/vts/parsing/cst"
)

func (f *formatter) fieldValueHasNestedBlock(node *cst.Node) bool {
	for _, child := range node.Children() {
		switch child.Kind() {
		case cst.KindNestedStructureBlock:
			return true
		case cst.KindArray:
			for _, elem := range child.ChildrenOfKind(cst.KindArrayElement) {
				if f.arrayElementHasNestedBlock(elem) {
					return true
				}
			}
		}
	}
	return false
}

func (f *formatter) fieldValueHasArrayStructure(node *cst.Node) bool {
	for _, child := range node.Children() {
		if child.Kind() != cst.KindArray {
			continue
		}
		for _, elem := range child.ChildrenOfKind(cst.KindArrayElement) {
			if elem.FirstChildOfKind(cst.KindArrayStructure) != nil {
				return true
			}
		}
	}
	return false
}

func (f *formatter) fieldValueShouldBeMultiline(node *cst.Node) bool {
	for _, child := range node.Children() {
		if child.Kind() != cst.KindArray {
			continue
		}
		for _, elem := range child.ChildrenOfKind(cst.KindArrayElement) {
			if f.arrayElementShouldBeMultiline(elem) {
				return true
			}
		}
	}
	return false
}

func (f *formatter) arrayElementHasNestedBlock(elem *cst.Node) bool {
	for _, child := range elem.Children() {
		if child.Kind() == cst.KindArrayStructure && f.containsNestedBlock(child) {
			return true
		}
	}
	return false
}

func (f *formatter) arrayElementShouldBeMultiline(elem *cst.Node) bool {
	structure := elem.FirstChildOfKind(cst.KindArrayStructure)
	if structure == nil {
		return false
	}
	name := structure.FirstChildOfKind(cst.KindStructureName)
	return name != nil && alwaysMultilineArrayNames[f.text(name)]
}

func (f *formatter) formatArrayElement(elem *cst.Node) {
	if structure := elem.FirstChildOfKind(cst.KindArrayStructure); structure != nil {
		f.formatArrayStructureMultiline(structure)
		return
	}
	for _, child := range elem.Children() {
		switch child.Kind() {
		case cst.KindTypedValue:
			f.formatTypedValue(child)
		case cst.KindArrayValue:
			f.out.WriteString(f.formatArrayValueInline(child))
		case cst.KindLBracket, cst.KindRBracket, cst.KindComma:
		default:
			f.out.WriteString(f.text(child))
		}
	}
}

func (f *formatter) formatArrayStructureMultiline(node *cst.Node) {
	var structureName string
	if name := node.FirstChildOfKind(cst.KindStructureName); name != nil {
		structureName = f.text(name)
		f.out.WriteString(structureName)
	}

	fields := node.FirstChildOfKind(cst.KindFieldList)
	if fields == nil {
		return
	}

	inlineFields := f.formatFieldListInline(fields)
	needsMultiline := alwaysMultilineArrayNames[structureName] ||
		f.containsNestedBlock(fields) ||
		f.currentIndent+len(inlineFields)+2 > f.maxLineLength

	if needsMultiline {
		f.out.WriteString(",\n")
		f.currentIndent += f.indentWidth
		f.formatFieldList(fields)
		f.currentIndent -= f.indentWidth
	} else {
		f.out.WriteString(", ")
		f.out.WriteString(inlineFields)
	}
}

func (f *formatter) formatArray(node *cst.Node) {
	elements := node.ChildrenOfKind(cst.KindArrayElement)
	if len(elements) == 0 {
		f.out.WriteString("[]")
		return
	}

	hasNestedBlocks := false
	hasAlwaysMultiline := false
	for _, elem := range elements {
		if f.arrayElementHasNestedBlock(elem) {
			hasNestedBlocks = true
		}
		if f.arrayElementShouldBeMultiline(elem) {
			hasAlwaysMultiline = true
		}
	}

	if !hasNestedBlocks && !hasAlwaysMultiline {
		inline := f.formatArrayInline(node)
		if f.currentIndent+len(inline) <= f.maxLineLength && !strings.Contains(inline, "\n") {
			f.out.WriteString(inline)
			return
		}
	}

	// A single structure element keeps its brackets tight around the
	// multiline body.
	if len(elements) == 1 {
		elem := elements[0]
		if structure := elem.FirstChildOfKind(cst.KindArrayStructure); structure != nil {
			inline := f.formatArrayElementInline(elem)
			if hasNestedBlocks || hasAlwaysMultiline ||
				f.currentIndent+len(inline) > f.maxLineLength {
				f.out.WriteByte('[')
				f.formatArrayStructureMultiline(structure)
				f.out.WriteByte(']')
				return
			}
		}
	}

	f.out.WriteString("[\n")
	f.currentIndent += f.indentWidth

	indent := f.indent()
	currentLineLen := 0
	lineStarted := false

	for i, elem := range elements {
		isLast := i == len(elements)-1
		hasNested := f.arrayElementHasNestedBlock(elem)
		hasStructure := elem.FirstChildOfKind(cst.KindArrayStructure) != nil

		switch {
		case hasNested:
			if lineStarted {
				f.out.WriteString(",\n")
			}
			f.out.WriteString(indent)
			f.formatArrayElement(elem)
			f.out.WriteString(",\n")
			lineStarted = false
			currentLineLen = 0
		case hasStructure:
			elemStr := f.formatArrayElementInline(elem)
			if lineStarted {
				f.out.WriteString(",\n")
			}
			if f.arrayElementShouldBeMultiline(elem) ||
				f.currentIndent+len(elemStr) > f.maxLineLength {
				f.out.WriteString(indent)
				f.formatArrayElement(elem)
			} else {
				f.out.WriteString(indent)
				f.out.WriteString(elemStr)
			}
			f.out.WriteString(",\n")
			lineStarted = false
			currentLineLen = 0
		default:
			// Simple values pack onto shared lines up to the limit.
			elemStr := f.formatArrayElementInline(elem)
			if !lineStarted {
				f.out.WriteString(indent)
				currentLineLen = f.currentIndent
				lineStarted = true
			} else {
				needed := 2 + len(elemStr)
				if currentLineLen+needed > f.maxLineLength {
					f.out.WriteString(",\n")
					f.out.WriteString(indent)
					currentLineLen = f.currentIndent
				} else {
					f.out.WriteString(", ")
					currentLineLen += 2
				}
			}
			f.out.WriteString(elemStr)
			currentLineLen += len(elemStr)
			if isLast {
				f.out.WriteString(",\n")
				lineStarted = false
			}
		}
	}

	f.currentIndent -= f.indentWidth
	f.out.WriteString(f.indent())
	f.out.WriteByte(']')
}

func (f *formatter) formatAngleBracketArray(node *cst.Node) {
	values := node.ChildrenOfKind(cst.KindFieldValue)
	if len(values) == 0 {
		f.out.WriteString("<>")
		return
	}

	f.out.WriteByte('<')
	for i, val := range values {
		f.formatFieldValue(val)
		if i < len(values)-1 {
			f.out.WriteString(", ")
		}
	}
	f.out.WriteByte('>')
}
