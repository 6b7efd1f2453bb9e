package query

import (
	"strings"

	"github.com/thiblahute/validatetest-go/vts/diagnostics"
	"github.com/thiblahute/validatetest-go/vts/parsing"
	"github.com/thiblahute/validatetest-go/vts/parsing/cst"
)

// InjectionRule names one condition under which a string's content is
// itself a top-level document in the same grammar.
type InjectionRule string

const (
	// RuleConfigs covers strings under a field named "configs".
	RuleConfigs InjectionRule = "configs"
	// RuleExpectedIssues covers strings under a field named
	// "expected-issues".
	RuleExpectedIssues InjectionRule = "expected-issues"
	// RuleCapsField covers strings under a field literally named "caps".
	RuleCapsField InjectionRule = "caps"
	// RuleGstCaps covers strings whose enclosing typed value casts to
	// GstCaps.
	RuleGstCaps InjectionRule = "gstcaps"
)

// injectionFieldRules maps field-name text to the rule it triggers.
var injectionFieldRules = map[string]InjectionRule{
	"configs":         RuleConfigs,
	"expected-issues": RuleExpectedIssues,
	"caps":            RuleCapsField,
}

// Injection is one string span whose content must be re-parsed as an
// independent document.
type Injection struct {
	tree *cst.Tree

	// StringNode is the string leaf the content lives in.
	StringNode *cst.Node
	// Rule is the injection rule that selected this string.
	Rule InjectionRule
	// ContentSpan is the byte range of the string body, quotes excluded.
	ContentSpan diagnostics.Span
}

// Document returns the sub-document text: the string body with escape
// sequences resolved, ready for a fresh parse.
func (inj Injection) Document() string {
	raw := inj.tree.Source()[inj.ContentSpan.Start:inj.ContentSpan.End]
	return Unescape(raw)
}

// Parse re-parses the sub-document through a fresh top-level parse. The
// returned tree's spans address the text Document returns, not the outer
// buffer.
func (inj Injection) Parse() (*cst.Tree, diagnostics.Diagnostics) {
	return parsing.Parse(inj.Document())
}

// Injections walks the tree and returns every string span covered by an
// injection rule, in source order.
func Injections(tree *cst.Tree) []Injection {
	var out []Injection
	Walk(tree, func(node *cst.Node, ancestors []*cst.Node) bool {
		if node.Kind() != cst.KindString {
			return true
		}
		rule, ok := injectionRuleFor(tree, ancestors)
		if !ok {
			return true
		}
		span, ok := parsing.StringContentSpan(tree, node)
		if !ok {
			return true
		}
		out = append(out, Injection{
			tree:        tree,
			StringNode:  node,
			Rule:        rule,
			ContentSpan: span,
		})
		return true
	})
	return out
}

// injectionRuleFor inspects a string leaf's ancestors, nearest first, for
// a GstCaps cast or a triggering field name.
func injectionRuleFor(tree *cst.Tree, ancestors []*cst.Node) (InjectionRule, bool) {
	for i := len(ancestors) - 1; i >= 0; i-- {
		anc := ancestors[i]
		switch anc.Kind() {
		case cst.KindTypedValue:
			if typeName := anc.Field(cst.FieldOfType); typeName != nil && tree.Text(typeName) == "GstCaps" {
				return RuleGstCaps, true
			}
		case cst.KindField:
			name := anc.Field(cst.FieldOfName)
			if name == nil {
				return "", false
			}
			rule, ok := injectionFieldRules[tree.Text(name)]
			return rule, ok
		}
	}
	return "", false
}

// Unescape resolves backslash escapes in a string body: \" -> ", \\ -> \,
// and any other escaped byte stands for itself.
func Unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
