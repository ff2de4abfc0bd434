// Package python classifies Python source files by inspecting their syntax trees.
package python

import (
	"bytes"
	"os"
	"slices"
	"unicode/utf8"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	"go.trai.ch/autoscan/internal/core/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Classifier implements ports.Classifier with a tree-sitter Python grammar.
// It is safe for concurrent use; every call parses with its own parser.
type Classifier struct {
	language *tree_sitter.Language
}

// NewClassifier creates a new Classifier.
func NewClassifier() *Classifier {
	return &Classifier{
		language: tree_sitter.NewLanguage(tree_sitter_python.Language()),
	}
}

// ClassifyFile reads and classifies the file at path.
// Unreadable files classify as non-models.
func (c *Classifier) ClassifyFile(path string, markers *domain.Markers) domain.Classification {
	//nolint:gosec // Path comes from walking the scan root
	src, err := os.ReadFile(path)
	if err != nil {
		return domain.Classification{Path: path}
	}
	return c.Classify(src, path, markers)
}

// Classify decides whether src declares a concrete model.
// Invalid UTF-8 and syntax errors classify as non-models with no abstract classes.
// A nil markers table means the built-in conventions.
func (c *Classifier) Classify(src []byte, path string, markers *domain.Markers) domain.Classification {
	result := domain.Classification{Path: path}

	if !utf8.Valid(src) {
		result.Unparsable = true
		return result
	}
	src = bytes.TrimPrefix(src, utf8BOM)

	if markers == nil {
		defaults := domain.DefaultMarkers()
		markers = &defaults
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(c.language); err != nil {
		return result
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return result
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		result.Unparsable = true
		return result
	}

	v := &visitor{src: src, markers: markers}
	v.walk(root)

	result.IsModel = v.concrete || v.imperative
	result.AbstractClasses = v.abstract
	return result
}

// visitor accumulates findings over one syntax tree.
type visitor struct {
	src     []byte
	markers *domain.Markers

	concrete   bool
	imperative bool
	abstract   []string
}

func (v *visitor) walk(n *tree_sitter.Node) {
	switch n.Kind() {
	case "class_definition":
		v.visitClass(n)
	case "call":
		if !v.imperative && v.callsOneOf(n, v.markers.ImperativeMappers) {
			v.imperative = true
		}
	}

	for i := range n.NamedChildCount() {
		if child := n.NamedChild(i); child != nil {
			v.walk(child)
		}
	}
}

func (v *visitor) visitClass(n *tree_sitter.Node) {
	body := bodyAssignments(n.ChildByFieldName("body"), v.src)

	if v.isAbstract(body) {
		if name := n.ChildByFieldName("name"); name != nil {
			v.abstract = append(v.abstract, name.Utf8Text(v.src))
		}
		return
	}

	if v.concrete {
		return
	}

	tableModel := v.isTableModel(n)
	switch {
	case v.assigns(body, v.markers.TableNameAttribute):
		v.concrete = true
	case tableModel:
		v.concrete = true
	case v.isModelBase(n) && v.hasTableEvidence(body):
		v.concrete = true
	}
}

func (v *visitor) isAbstract(body []assignment) bool {
	for _, a := range body {
		if slices.Contains(a.targets, v.markers.AbstractAttribute) && a.value != nil && a.value.Kind() == "true" {
			return true
		}
	}
	return false
}

// isTableModel reports a class such as `Hero(SQLModel, table=True)` or `Hero(SQLModel(table=True))`.
func (v *visitor) isTableModel(class *tree_sitter.Node) bool {
	var hasBase, flagged bool

	for _, arg := range superclasses(class) {
		switch arg.Kind() {
		case "identifier":
			if slices.Contains(v.markers.TableModelBases, arg.Utf8Text(v.src)) {
				hasBase = true
			}
		case "call":
			fn := arg.ChildByFieldName("function")
			if fn != nil && fn.Kind() == "identifier" &&
				slices.Contains(v.markers.TableModelBases, fn.Utf8Text(v.src)) &&
				v.hasTrueKeyword(arg.ChildByFieldName("arguments")) {
				return true
			}
		case "keyword_argument":
			if v.isTrueKeyword(arg) {
				flagged = true
			}
		}
	}

	return hasBase && flagged
}

func (v *visitor) isModelBase(class *tree_sitter.Node) bool {
	if v.isTableModel(class) {
		return true
	}

	for _, dec := range decorators(class) {
		switch dec.Kind() {
		case "identifier":
			if slices.Contains(v.markers.DeclarativeDecorators, dec.Utf8Text(v.src)) {
				return true
			}
		case "call":
			if v.callsOneOf(dec, v.markers.DeclarativeDecorators) {
				return true
			}
		}
	}

	for _, base := range superclasses(class) {
		switch base.Kind() {
		case "identifier":
			if v.markers.HasBaseName(base.Utf8Text(v.src)) {
				return true
			}
		case "attribute":
			if attr := base.ChildByFieldName("attribute"); attr != nil && v.markers.HasAttributeBaseName(attr.Utf8Text(v.src)) {
				return true
			}
		case "call":
			fn := base.ChildByFieldName("function")
			if fn != nil && fn.Kind() == "identifier" && slices.Contains(v.markers.DeclarativeFactories, fn.Utf8Text(v.src)) {
				return true
			}
		}
	}

	return false
}

func (v *visitor) hasTableEvidence(body []assignment) bool {
	for _, a := range body {
		if v.assignsOne(a, v.markers.TableNameAttribute) {
			return true
		}
		for _, attr := range v.markers.TableObjectAttributes {
			if v.assignsOne(a, attr) {
				return true
			}
		}
		if a.value != nil && v.callsOneOf(a.value, v.markers.ColumnConstructors) {
			return true
		}
		if a.annotation != nil && v.isMappedAnnotation(a.annotation) {
			return true
		}
	}
	return false
}

// isMappedAnnotation reports annotations such as Mapped[int].
func (v *visitor) isMappedAnnotation(annotation *tree_sitter.Node) bool {
	n := annotation
	if n.Kind() == "type" && n.NamedChildCount() > 0 {
		n = n.NamedChild(0)
	}
	if n == nil {
		return false
	}

	var wrapper *tree_sitter.Node
	switch n.Kind() {
	case "generic_type":
		if n.NamedChildCount() > 0 {
			wrapper = n.NamedChild(0)
		}
	case "subscript":
		wrapper = n.ChildByFieldName("value")
	}

	return wrapper != nil && wrapper.Kind() == "identifier" &&
		slices.Contains(v.markers.MappedWrappers, wrapper.Utf8Text(v.src))
}

func (v *visitor) assigns(body []assignment, name string) bool {
	for _, a := range body {
		if v.assignsOne(a, name) {
			return true
		}
	}
	return false
}

func (v *visitor) assignsOne(a assignment, name string) bool {
	return name != "" && slices.Contains(a.targets, name) && (a.value != nil || a.annotation == nil)
}

// callsOneOf reports whether call invokes one of names, directly or as an attribute.
func (v *visitor) callsOneOf(call *tree_sitter.Node, names []string) bool {
	if call.Kind() != "call" {
		return false
	}
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return false
	}

	switch fn.Kind() {
	case "identifier":
		return slices.Contains(names, fn.Utf8Text(v.src))
	case "attribute":
		attr := fn.ChildByFieldName("attribute")
		return attr != nil && slices.Contains(names, attr.Utf8Text(v.src))
	default:
		return false
	}
}

func (v *visitor) hasTrueKeyword(args *tree_sitter.Node) bool {
	if args == nil {
		return false
	}
	for i := range args.NamedChildCount() {
		if arg := args.NamedChild(i); arg != nil && arg.Kind() == "keyword_argument" && v.isTrueKeyword(arg) {
			return true
		}
	}
	return false
}

func (v *visitor) isTrueKeyword(kw *tree_sitter.Node) bool {
	name := kw.ChildByFieldName("name")
	value := kw.ChildByFieldName("value")
	return name != nil && value != nil &&
		name.Utf8Text(v.src) == v.markers.TableKeyword &&
		value.Kind() == "true"
}
