// Package verify checks that generated hook scripts are syntactically valid
// JavaScript. It does not run them.
package verify

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// Issue locates one syntax problem in a script. Line and Column are 1-based.
type Issue struct {
	Line    int
	Column  int
	Kind    string // "error" or "missing"
	Snippet string
}

func (i Issue) String() string {
	if i.Snippet == "" {
		return fmt.Sprintf("%d:%d: %s", i.Line, i.Column, i.Kind)
	}
	return fmt.Sprintf("%d:%d: %s near %q", i.Line, i.Column, i.Kind, i.Snippet)
}

// Verifier parses scripts with the JavaScript grammar.
type Verifier struct {
	pool *ParserPool
}

func New() *Verifier {
	return &Verifier{pool: NewParserPool(sitter.NewLanguage(tree_sitter_javascript.Language()))}
}

// Check returns the syntax issues found in script, or nil when it parses
// cleanly.
func (v *Verifier) Check(script string) ([]Issue, error) {
	sp := v.pool.Get()
	defer v.pool.Put(sp)

	src := []byte(script)
	tree := sp.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("parser returned no tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("parser returned no root node")
	}
	if !root.HasError() {
		return nil, nil
	}

	var issues []Issue
	collectIssues(root, src, &issues)
	if len(issues) == 0 {
		pos := root.StartPosition()
		issues = append(issues, Issue{Line: int(pos.Row) + 1, Column: int(pos.Column) + 1, Kind: "error"})
	}
	return issues, nil
}

const maxSnippet = 40

func collectIssues(node *sitter.Node, src []byte, issues *[]Issue) {
	if node == nil || (!node.HasError() && !node.IsMissing()) {
		return
	}
	if node.IsError() || node.IsMissing() {
		pos := node.StartPosition()
		kind := "error"
		if node.IsMissing() {
			kind = "missing " + node.Kind()
		}
		snippet := node.Utf8Text(src)
		if len(snippet) > maxSnippet {
			snippet = snippet[:maxSnippet]
		}
		*issues = append(*issues, Issue{
			Line:    int(pos.Row) + 1,
			Column:  int(pos.Column) + 1,
			Kind:    kind,
			Snippet: snippet,
		})
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		collectIssues(node.Child(i), src, issues)
	}
}
