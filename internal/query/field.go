package query

// Field identifies a file attribute a predicate tests.
type Field int

const (
	FieldName Field = iota
	FieldExtension
	FieldPath
	FieldSize
	FieldDepth
	FieldAccessTime
	FieldModTime
	FieldPermissions
	FieldUser
	FieldGroup
	FieldType
	FieldContains
)

var fieldAliases = map[string]Field{
	"name":        FieldName,
	"extension":   FieldExtension,
	"ext":         FieldExtension,
	"path":        FieldPath,
	"size":        FieldSize,
	"depth":       FieldDepth,
	"atime":       FieldAccessTime,
	"mtime":       FieldModTime,
	"permissions": FieldPermissions,
	"perms":       FieldPermissions,
	"perm":        FieldPermissions,
	"user":        FieldUser,
	"group":       FieldGroup,
	"type":        FieldType,
	"contains":    FieldContains,
}

// LookupField resolves a field name or alias.
func LookupField(name string) (Field, bool) {
	f, ok := fieldAliases[name]
	return f, ok
}

// String returns the canonical field name.
func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldExtension:
		return "extension"
	case FieldPath:
		return "path"
	case FieldSize:
		return "size"
	case FieldDepth:
		return "depth"
	case FieldAccessTime:
		return "atime"
	case FieldModTime:
		return "mtime"
	case FieldPermissions:
		return "permissions"
	case FieldUser:
		return "user"
	case FieldGroup:
		return "group"
	case FieldType:
		return "type"
	case FieldContains:
		return "contains"
	default:
		return "unknown"
	}
}

// EqualityOnly reports whether the field supports only = and !=.
func (f Field) EqualityOnly() bool {
	switch f {
	case FieldName, FieldExtension, FieldPath, FieldType, FieldContains:
		return true
	default:
		return false
	}
}

// Operator is a predicate comparator.
type Operator int

const (
	OpEq Operator = iota
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
)

var operatorByToken = map[TokenType]Operator{
	EQ:  OpEq,
	NEQ: OpNeq,
	LT:  OpLt,
	LTE: OpLte,
	GT:  OpGt,
	GTE: OpGte,
}

// Negate returns the logical complement of the operator, used when
// pushing "not" down to predicates.
func (o Operator) Negate() Operator {
	switch o {
	case OpEq:
		return OpNeq
	case OpNeq:
		return OpEq
	case OpLt:
		return OpGte
	case OpLte:
		return OpGt
	case OpGt:
		return OpLte
	case OpGte:
		return OpLt
	default:
		return o
	}
}

// String returns the comparator as written in a query.
func (o Operator) String() string {
	switch o {
	case OpEq:
		return "="
	case OpNeq:
		return "!="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	default:
		return "?"
	}
}
