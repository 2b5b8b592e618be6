package query

import "fmt"

// Expr is a node in a parsed expression tree. Trees are built once by
// the parser, are immutable afterwards, and may be shared freely across
// goroutines.
type Expr interface {
	exprNode()
	String() string
}

// AndExpr is a conjunction of two expressions.
type AndExpr struct {
	Left  Expr
	Right Expr
}

func (e *AndExpr) exprNode() {}

func (e *AndExpr) String() string {
	return fmt.Sprintf("(%s and %s)", e.Left, e.Right)
}

// OrExpr is a disjunction of two expressions.
type OrExpr struct {
	Left  Expr
	Right Expr
}

func (e *OrExpr) exprNode() {}

func (e *OrExpr) String() string {
	return fmt.Sprintf("(%s or %s)", e.Left, e.Right)
}

// NotExpr negates an expression. Normalization removes these by pushing
// the negation down to predicates.
type NotExpr struct {
	Expr Expr
}

func (e *NotExpr) exprNode() {}

func (e *NotExpr) String() string {
	return fmt.Sprintf("not %s", e.Expr)
}

// Predicate tests a single file attribute against a value.
type Predicate struct {
	Field Field
	Op    Operator
	Value Value
}

func (e *Predicate) exprNode() {}

func (e *Predicate) String() string {
	return fmt.Sprintf("%s %s %s", e.Field, e.Op, e.Value)
}

// Weight estimates the relative cost of evaluating the predicate.
// Attributes already in the directory entry are cheap; anything that
// opens the file is expensive.
func (e *Predicate) Weight() int {
	switch e.Field {
	case FieldName, FieldExtension, FieldPath:
		if _, ok := e.Value.(*RegexValue); ok {
			return 2
		}
		return 1
	case FieldDepth:
		return 1
	case FieldSize, FieldAccessTime, FieldModTime, FieldUser, FieldGroup, FieldPermissions:
		return 4
	case FieldContains:
		return 8
	case FieldType:
		return 16
	default:
		return 4
	}
}
