package query

import "sort"

// Normalize rewrites an expression into negation-normal form and reorders
// operands so cheap predicates are evaluated before expensive ones.
// Negations are pushed down to predicates by flipping comparators, so the
// resulting tree contains no NotExpr nodes.
func Normalize(expr Expr) Expr {
	return reorder(pushNot(expr, false))
}

// pushNot propagates a pending negation down the tree. De Morgan swaps
// the node type while negating both children.
func pushNot(expr Expr, negate bool) Expr {
	switch e := expr.(type) {
	case *Predicate:
		if negate {
			return &Predicate{Field: e.Field, Op: e.Op.Negate(), Value: e.Value}
		}
		return e
	case *NotExpr:
		return pushNot(e.Expr, !negate)
	case *AndExpr:
		left := pushNot(e.Left, negate)
		right := pushNot(e.Right, negate)
		if negate {
			return &OrExpr{Left: left, Right: right}
		}
		return &AndExpr{Left: left, Right: right}
	case *OrExpr:
		left := pushNot(e.Left, negate)
		right := pushNot(e.Right, negate)
		if negate {
			return &AndExpr{Left: left, Right: right}
		}
		return &OrExpr{Left: left, Right: right}
	default:
		return expr
	}
}

// Weight estimates the evaluation cost of an expression. Conjunctions
// cost the sum of their operands; disjunctions cost their most expensive
// operand since short-circuiting may stop earlier.
func Weight(expr Expr) int {
	switch e := expr.(type) {
	case *Predicate:
		return e.Weight()
	case *NotExpr:
		return Weight(e.Expr)
	case *AndExpr:
		return Weight(e.Left) + Weight(e.Right)
	case *OrExpr:
		left := Weight(e.Left)
		right := Weight(e.Right)
		if right > left {
			return right
		}
		return left
	default:
		return 0
	}
}

// reorder flattens chains of the same operator, sorts the operands by
// weight, and rebuilds a left-associated chain so short-circuit
// evaluation reaches the cheapest operand first.
func reorder(expr Expr) Expr {
	switch expr.(type) {
	case *AndExpr:
		return rebuild(flatten(expr, true), true)
	case *OrExpr:
		return rebuild(flatten(expr, false), false)
	default:
		return expr
	}
}

func flatten(expr Expr, conjunctive bool) []Expr {
	if conjunctive {
		if e, ok := expr.(*AndExpr); ok {
			return append(flatten(e.Left, true), flatten(e.Right, true)...)
		}
	} else {
		if e, ok := expr.(*OrExpr); ok {
			return append(flatten(e.Left, false), flatten(e.Right, false)...)
		}
	}
	return []Expr{reorder(expr)}
}

func rebuild(operands []Expr, conjunctive bool) Expr {
	sort.SliceStable(operands, func(i, j int) bool {
		return Weight(operands[i]) < Weight(operands[j])
	})
	result := operands[0]
	for _, operand := range operands[1:] {
		if conjunctive {
			result = &AndExpr{Left: result, Right: operand}
		} else {
			result = &OrExpr{Left: result, Right: operand}
		}
	}
	return result
}
