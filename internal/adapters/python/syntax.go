package python

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// assignment is a class-body assignment statement.
// Chained assignments list every target; annotation is nil for plain assignments.
type assignment struct {
	targets    []string
	value      *tree_sitter.Node
	annotation *tree_sitter.Node
}

// bodyAssignments returns the assignments made directly in a class body.
func bodyAssignments(body *tree_sitter.Node, src []byte) []assignment {
	if body == nil {
		return nil
	}

	var out []assignment
	for i := range body.NamedChildCount() {
		stmt := body.NamedChild(i)
		if stmt == nil || stmt.Kind() != "expression_statement" || stmt.NamedChildCount() == 0 {
			continue
		}
		expr := stmt.NamedChild(0)
		if expr == nil || expr.Kind() != "assignment" {
			continue
		}
		out = append(out, parseAssignment(expr, src))
	}
	return out
}

func parseAssignment(n *tree_sitter.Node, src []byte) assignment {
	a := assignment{annotation: n.ChildByFieldName("type")}

	for cur := n; cur != nil; {
		if left := cur.ChildByFieldName("left"); left != nil && left.Kind() == "identifier" {
			a.targets = append(a.targets, left.Utf8Text(src))
		}

		right := cur.ChildByFieldName("right")
		if right != nil && right.Kind() == "assignment" {
			cur = right
			continue
		}
		a.value = right
		break
	}

	return a
}

// superclasses returns the argument nodes of a class's base list, keywords included.
func superclasses(class *tree_sitter.Node) []*tree_sitter.Node {
	args := class.ChildByFieldName("superclasses")
	if args == nil {
		return nil
	}

	out := make([]*tree_sitter.Node, 0, args.NamedChildCount())
	for i := range args.NamedChildCount() {
		if arg := args.NamedChild(i); arg != nil {
			out = append(out, arg)
		}
	}
	return out
}

// decorators returns the decorator expressions applied to a class.
func decorators(class *tree_sitter.Node) []*tree_sitter.Node {
	parent := class.Parent()
	if parent == nil || parent.Kind() != "decorated_definition" {
		return nil
	}

	var out []*tree_sitter.Node
	for i := range parent.NamedChildCount() {
		dec := parent.NamedChild(i)
		if dec == nil || dec.Kind() != "decorator" || dec.NamedChildCount() == 0 {
			continue
		}
		if expr := dec.NamedChild(0); expr != nil {
			out = append(out, expr)
		}
	}
	return out
}
