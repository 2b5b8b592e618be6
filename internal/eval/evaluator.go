package eval

import (
	"cmp"
	"path/filepath"
	"strings"
	"time"

	"github.com/harrison/fgr/internal/content"
	"github.com/harrison/fgr/internal/query"
)

// Evaluator evaluates normalized expressions against snapshots.
type Evaluator struct {
	// ReadTimeout bounds each content read for contains and type
	// predicates.
	ReadTimeout time.Duration
}

// NewEvaluator creates an evaluator with the given read timeout.
func NewEvaluator(readTimeout time.Duration) *Evaluator {
	return &Evaluator{ReadTimeout: readTimeout}
}

// Evaluate reports whether the snapshot satisfies the expression.
// Evaluation short-circuits: in a conjunction a false or failed operand
// skips the rest, in a disjunction a true operand does. A predicate
// error therefore surfaces only when that predicate had to be decided.
func (ev *Evaluator) Evaluate(expr query.Expr, snap *Snapshot) (bool, error) {
	switch e := expr.(type) {
	case *query.AndExpr:
		matched, err := ev.Evaluate(e.Left, snap)
		if err != nil || !matched {
			return false, err
		}
		return ev.Evaluate(e.Right, snap)
	case *query.OrExpr:
		matched, err := ev.Evaluate(e.Left, snap)
		if err != nil || matched {
			return matched, err
		}
		return ev.Evaluate(e.Right, snap)
	case *query.NotExpr:
		matched, err := ev.Evaluate(e.Expr, snap)
		return !matched, err
	case *query.Predicate:
		matched, err := ev.evalPredicate(e, snap)
		if err != nil {
			return false, &EvalError{Field: e.Field, Path: snap.Path, Err: err}
		}
		return matched, nil
	default:
		return false, nil
	}
}

func (ev *Evaluator) evalPredicate(p *query.Predicate, s *Snapshot) (bool, error) {
	switch p.Field {
	case query.FieldName:
		return matchString(p, s.Name)
	case query.FieldExtension:
		ext := strings.TrimPrefix(filepath.Ext(s.Name), ".")
		if ext == "" {
			return p.Op == query.OpNeq, nil
		}
		return matchString(p, ext)
	case query.FieldPath:
		return matchString(p, s.Path)
	case query.FieldSize:
		if s.Kind != KindFile {
			return false, &NotFileError{Path: s.Path}
		}
		n, err := numberValue(p)
		if err != nil {
			return false, err
		}
		return compare(p.Op, s.Size, n), nil
	case query.FieldDepth:
		n, err := numberValue(p)
		if err != nil {
			return false, err
		}
		return compare(p.Op, s.Depth, n), nil
	case query.FieldUser:
		n, err := numberValue(p)
		if err != nil {
			return false, err
		}
		return compare(p.Op, int64(s.UID), n), nil
	case query.FieldGroup:
		n, err := numberValue(p)
		if err != nil {
			return false, err
		}
		return compare(p.Op, int64(s.GID), n), nil
	case query.FieldPermissions:
		return evalPermissions(p, s)
	case query.FieldAccessTime:
		return evalTime(p, s.ATime)
	case query.FieldModTime:
		return evalTime(p, s.MTime)
	case query.FieldType:
		if s.Kind != KindFile {
			return false, nil
		}
		v, ok := p.Value.(*query.TypeValue)
		if !ok {
			return false, &typeError{want: "type label", value: p.Value}
		}
		class, err := s.Class(ev.ReadTimeout)
		if err != nil {
			return false, err
		}
		matched := class.String() == v.Label
		if p.Op == query.OpNeq {
			matched = !matched
		}
		return matched, nil
	case query.FieldContains:
		if s.Kind != KindFile {
			return false, nil
		}
		m, ok := p.Value.(query.Matcher)
		if !ok {
			return false, &typeError{want: "pattern", value: p.Value}
		}
		matched, err := content.ScanFile(s.Path, m, ev.ReadTimeout)
		if err != nil {
			return false, err
		}
		if p.Op == query.OpNeq {
			matched = !matched
		}
		return matched, nil
	default:
		return false, &typeError{want: "known field", value: p.Value}
	}
}

// evalPermissions treats = as bit containment: perm=4000 matches any
// setuid file regardless of its other bits. Ordering comparators compare
// the full 07777 value numerically.
func evalPermissions(p *query.Predicate, s *Snapshot) (bool, error) {
	v, ok := p.Value.(*query.PermValue)
	if !ok {
		return false, &typeError{want: "permission value", value: p.Value}
	}
	switch p.Op {
	case query.OpEq:
		return s.Perm&v.Bits == v.Bits, nil
	case query.OpNeq:
		return s.Perm&v.Bits != v.Bits, nil
	default:
		return compare(p.Op, s.Perm&0o7777, v.Bits), nil
	}
}

func evalTime(p *query.Predicate, fileTime time.Time) (bool, error) {
	v, ok := p.Value.(*query.TimeValue)
	if !ok {
		return false, &typeError{want: "time value", value: p.Value}
	}
	return compare(p.Op, fileTime.UnixNano(), v.Instant.UnixNano()), nil
}

func matchString(p *query.Predicate, s string) (bool, error) {
	m, ok := p.Value.(query.Matcher)
	if !ok {
		return false, &typeError{want: "pattern", value: p.Value}
	}
	matched := m.Match(s)
	if p.Op == query.OpNeq {
		matched = !matched
	}
	return matched, nil
}

func numberValue(p *query.Predicate) (int64, error) {
	v, ok := p.Value.(*query.NumberValue)
	if !ok {
		return 0, &typeError{want: "number", value: p.Value}
	}
	return v.N, nil
}

func compare[T cmp.Ordered](op query.Operator, a, b T) bool {
	switch op {
	case query.OpEq:
		return a == b
	case query.OpNeq:
		return a != b
	case query.OpLt:
		return a < b
	case query.OpLte:
		return a <= b
	case query.OpGt:
		return a > b
	case query.OpGte:
		return a >= b
	default:
		return false
	}
}

type typeError struct {
	want  string
	value query.Value
}

func (e *typeError) Error() string {
	return "expected " + e.want + ", got " + e.value.String()
}
