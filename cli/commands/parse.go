package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thiblahute/validatetest-go/cli/internal/ui"
	"github.com/thiblahute/validatetest-go/query"
	"github.com/thiblahute/validatetest-go/vts"
	"github.com/thiblahute/validatetest-go/vts/diagnostics"
	"github.com/thiblahute/validatetest-go/vts/parsing/cst"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>...",
	Short: "Parse validate test files and inspect the syntax tree",
	Long: `Parse validate test files and report syntax errors with source
context. The syntax tree can be dumped as an s-expression or as JSON, and
embedded sub-documents (configs, expected-issues, caps) can be listed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

var (
	parseJSON       bool
	parseSExp       bool
	parseInjections bool
)

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "Dump the syntax tree as JSON")
	parseCmd.Flags().BoolVar(&parseSExp, "sexp", false, "Dump the syntax tree as an s-expression")
	parseCmd.Flags().BoolVar(&parseInjections, "injections", false, "List embedded sub-documents")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	anyErrors := false
	for _, file := range files {
		source, err := readSource(file)
		if err != nil {
			return err
		}

		tree, diags := vts.Parse(source)

		if diags.HasErrors() {
			anyErrors = true
			ui.PrintError("%s: parse errors", file)
			fmt.Fprintf(os.Stderr, "\n%s\n", diags.ToPrettyString(file, source))
		}
		if len(diags.Warnings()) > 0 {
			ui.PrintWarning("%s: warnings", file)
			fmt.Fprintf(os.Stderr, "\n%s\n", diags.WarningsToPrettyString(file, source))
		}

		switch {
		case parseJSON:
			if err := dumpJSON(tree); err != nil {
				return err
			}
		case parseSExp:
			fmt.Println(tree.SExpression(tree.Root()))
		default:
			printParseSummary(file, tree, diags)
		}

		if parseInjections {
			printInjections(tree)
		}
	}

	if anyErrors {
		return fmt.Errorf("some files have parse errors")
	}
	return nil
}

func printParseSummary(file string, tree *vts.Tree, diags vts.Diagnostics) {
	root := tree.Root()
	structures := root.ChildrenOfKind(cst.KindStructure)
	comments := root.ChildrenOfKind(cst.KindComment)

	if !diags.HasErrors() {
		ui.PrintSuccess("Parsed %s", absPath(file))
	}

	rows := make([][]string, 0, len(structures))
	for _, s := range structures {
		name := ""
		if n := s.FirstChildOfKind(cst.KindStructureName); n != nil {
			name = tree.Text(n)
		}
		fieldCount := 0
		if fl := s.FirstChildOfKind(cst.KindFieldList); fl != nil {
			fieldCount = len(fl.ChildrenOfKind(cst.KindField))
		}
		rows = append(rows, []string{name, fmt.Sprintf("%d", fieldCount)})
	}

	fmt.Println()
	ui.PrintSection("Document Summary")
	ui.PrintList([]string{
		fmt.Sprintf("%d action(s)", len(structures)),
		fmt.Sprintf("%d top-level comment(s)", len(comments)),
		fmt.Sprintf("%d error(s), %d warning(s)", len(diags.Errors()), len(diags.Warnings())),
	})
	if len(rows) > 0 {
		fmt.Println()
		ui.PrintTable([]string{"Action", "Fields"}, rows)
	}
}

func printInjections(tree *vts.Tree) {
	injections := query.Injections(tree)
	if len(injections) == 0 {
		ui.PrintInfo("No embedded sub-documents")
		return
	}

	fmt.Println()
	ui.PrintSection("Embedded Sub-Documents")
	for _, inj := range injections {
		subTree, subDiags := inj.Parse()
		status := "valid"
		if subDiags.HasErrors() {
			status = "invalid"
		}
		subStructures := subTree.Root().ChildrenOfKind(cst.KindStructure)
		ui.PrintInfo("[%s] bytes %d..%d: %d structure(s), %s",
			inj.Rule, inj.ContentSpan.Start, inj.ContentSpan.End, len(subStructures), status)
	}
}

// jsonNode is the JSON shape of one tree node.
type jsonNode struct {
	Kind     string           `json:"kind"`
	Span     diagnostics.Span `json:"span"`
	Field    string           `json:"field,omitempty"`
	Text     string           `json:"text,omitempty"`
	Children []jsonNode       `json:"children,omitempty"`
}

func dumpJSON(tree *vts.Tree) error {
	out, err := json.MarshalIndent(toJSONNode(tree, tree.Root(), ""), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func toJSONNode(tree *vts.Tree, n *cst.Node, field string) jsonNode {
	jn := jsonNode{
		Kind:  n.KindName(),
		Span:  n.Span(),
		Field: field,
	}
	if n.ChildCount() == 0 {
		jn.Text = tree.Text(n)
		return jn
	}
	for i, c := range n.Children() {
		jn.Children = append(jn.Children, toJSONNode(tree, c, n.FieldOf(i).String()))
	}
	return jn
}
