package format

import (
	"strings"

	"github.com/thiblahute/validatetest-go/vts/parsing/cst"
)

// blockItem pairs a nested-block element with the comment trailing it on
// the same source line, if any.
type blockItem struct {
	node     *cst.Node
	trailing *cst.Node
}

// sameLine reports whether no newline separates two byte offsets.
func (f *formatter) sameLine(endByte, startByte int) bool {
	if startByte <= endByte {
		return true
	}
	return !strings.Contains(f.tree.Source()[endByte:startByte], "\n")
}

func (f *formatter) collectBlockItems(node *cst.Node) []blockItem {
	var children []*cst.Node
	for _, child := range node.Children() {
		switch child.Kind() {
		case cst.KindStructure, cst.KindFieldValue, cst.KindComment:
			children = append(children, child)
		}
	}

	var items []blockItem
	for i := 0; i < len(children); i++ {
		child := children[i]
		if child.Kind() == cst.KindComment {
			items = append(items, blockItem{node: child})
			continue
		}
		item := blockItem{node: child}
		if i+1 < len(children) {
			next := children[i+1]
			if next.Kind() == cst.KindComment &&
				f.sameLine(child.Span().End, next.Span().Start) {
				item.trailing = next
				i++
			}
		}
		items = append(items, item)
	}
	return items
}

func (f *formatter) formatNestedBlock(node *cst.Node) {
	f.out.WriteString("{\n")
	f.currentIndent += f.indentWidth

	items := f.collectBlockItems(node)

	// Structures and block-bearing values force one item per line for the
	// whole block.
	hasComplexItems := false
	for _, item := range items {
		if item.node.Kind() == cst.KindStructure {
			hasComplexItems = true
			break
		}
		if item.node.Kind() == cst.KindFieldValue &&
			(f.fieldValueHasNestedBlock(item.node) || f.fieldValueHasArrayStructure(item.node)) {
			hasComplexItems = true
			break
		}
	}

	indent := f.indent()
	currentLineLen := 0
	lineStarted := false

	for idx, item := range items {
		isLast := idx == len(items)-1

		switch item.node.Kind() {
		case cst.KindStructure:
			if lineStarted {
				f.out.WriteString(",\n")
			}
			f.formatStructure(item.node)
			f.out.WriteByte(',')
			if item.trailing != nil {
				f.out.WriteString("  ")
				f.out.WriteString(f.text(item.trailing))
			}
			f.out.WriteByte('\n')
			lineStarted = false
			currentLineLen = 0

		case cst.KindFieldValue:
			if f.fieldValueHasNestedBlock(item.node) {
				if lineStarted {
					f.out.WriteString(",\n")
					lineStarted = false
				}
				f.out.WriteString(indent)
				f.formatFieldValue(item.node)
				f.out.WriteByte(',')
				if item.trailing != nil {
					f.out.WriteString("  ")
					f.out.WriteString(f.text(item.trailing))
				}
				f.out.WriteByte('\n')
				currentLineLen = 0
				continue
			}

			valueStr := f.formatFieldValueInline(item.node)
			commentText := ""
			commentLen := 0
			if item.trailing != nil {
				commentText = f.text(item.trailing)
				commentLen = 2 + len(commentText)
			}

			// A trailing comment that overflows the line moves above its
			// value.
			commentOnOwnLine := item.trailing != nil &&
				f.currentIndent+len(valueStr)+1+commentLen > f.maxLineLength
			if commentOnOwnLine {
				if lineStarted {
					f.out.WriteString(",\n")
					lineStarted = false
				}
				f.formatComment(item.trailing)
				f.out.WriteByte('\n')
			}

			if hasComplexItems {
				if lineStarted {
					f.out.WriteString(",\n")
				}
				if f.fieldValueShouldBeMultiline(item.node) ||
					f.currentIndent+len(valueStr) > f.maxLineLength {
					f.out.WriteString(indent)
					f.formatFieldValue(item.node)
				} else {
					f.out.WriteString(indent)
					f.out.WriteString(valueStr)
				}
				f.out.WriteByte(',')
				if !commentOnOwnLine && commentText != "" {
					f.out.WriteString("  ")
					f.out.WriteString(commentText)
				}
				f.out.WriteByte('\n')
				lineStarted = false
				currentLineLen = 0
				continue
			}

			// Simple values pack onto shared lines.
			if !lineStarted {
				f.out.WriteString(indent)
				currentLineLen = f.currentIndent
				lineStarted = true
			} else {
				valueTotal := len(valueStr)
				if !commentOnOwnLine {
					valueTotal += commentLen
				}
				needed := 2 + valueTotal + 1
				if currentLineLen+needed > f.maxLineLength {
					f.out.WriteString(",\n")
					f.out.WriteString(indent)
					currentLineLen = f.currentIndent
				} else {
					f.out.WriteString(", ")
					currentLineLen += 2
				}
			}

			f.out.WriteString(valueStr)
			currentLineLen += len(valueStr)

			if isLast {
				f.out.WriteByte(',')
				if !commentOnOwnLine && commentText != "" {
					f.out.WriteString("  ")
					f.out.WriteString(commentText)
				}
				f.out.WriteByte('\n')
				lineStarted = false
			} else if !commentOnOwnLine && commentText != "" {
				f.out.WriteString(",  ")
				f.out.WriteString(commentText)
				f.out.WriteByte('\n')
				lineStarted = false
				currentLineLen = 0
			}

		case cst.KindComment:
			if lineStarted {
				f.out.WriteString(",\n")
				lineStarted = false
			}
			f.formatComment(item.node)
			f.out.WriteByte('\n')
			currentLineLen = 0
		}
	}

	f.currentIndent -= f.indentWidth
	f.out.WriteString(f.indent())
	f.out.WriteByte('}')
}
