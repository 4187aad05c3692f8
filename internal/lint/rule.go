package lint

import "yamlcheck/internal/cst"

// Category groups rules in listings.
type Category string

const (
	CategoryLayout    Category = "Layout & Formatting"
	CategoryStyle     Category = "Stylistic Issues"
	CategoryPractices Category = "Best Practices"
)

// Meta describes a rule for registries and listings.
type Meta struct {
	ID           string
	Description  string
	Category     Category
	DefaultLevel Level
	Fixable      bool
}

// Rule is a named check. Configure runs once per engine, validates the
// options and returns the checker bound to them.
type Rule interface {
	Meta() Meta
	Configure(opts Options) (Checker, error)
}

// Checker is a configured rule. NewVisitor is called once per document;
// the visitor may keep state for that one traversal.
type Checker interface {
	Kinds() []cst.Kind
	NewVisitor() Visitor
}

type Visitor interface {
	Visit(ctx *Context, id cst.NodeID, n *cst.Node)
}

// Finisher is implemented by visitors that report once the document walk is over.
type Finisher interface {
	Finish(ctx *Context)
}

// VisitFunc adapts a function to Visitor.
type VisitFunc func(ctx *Context, id cst.NodeID, n *cst.Node)

func (f VisitFunc) Visit(ctx *Context, id cst.NodeID, n *cst.Node) { f(ctx, id, n) }

type stateless struct {
	kinds []cst.Kind
	visit VisitFunc
}

func (s stateless) Kinds() []cst.Kind   { return s.kinds }
func (s stateless) NewVisitor() Visitor { return s.visit }

// Stateless builds a Checker whose visitor keeps no per-document state.
func Stateless(visit VisitFunc, kinds ...cst.Kind) Checker {
	return stateless{kinds: kinds, visit: visit}
}
