// Package query provides a parser and normalizer for fgr search expressions.
//
// # Overview
//
// The query package implements a three-stage pipeline:
//  1. Lexer: tokenizes the expression string
//  2. Parser: builds an expression tree from tokens, typing each value
//     against its field at parse time
//  3. Normalizer: rewrites the tree into negation-normal form and reorders
//     operands by estimated evaluation cost
//
// # Expression syntax
//
// An expression is a boolean combination of predicates:
//
//	expr      := term ("or" term)*
//	term      := factor ("and" factor)*
//	factor    := "(" expr ")" | "not" factor | predicate
//	predicate := field comparator value
//
// "and" binds tighter than "or"; parentheses override.
//
// ## Fields
//
// name, extension (ext), path, size, depth, atime, mtime,
// permissions (perm, perms), user, group, type, contains.
//
// String-valued fields (name, extension, path, contains, type) accept only
// the = and != comparators. Numeric, time and permission fields accept the
// full set: = != < <= > >=.
//
// ## Values
//
//	name=*sample*        unquoted word with * or ? is a glob
//	name=sample          unquoted word without wildcards is a literal
//	name='a file'        quoted string is a literal
//	name=i'sample'       i prefix: case-insensitive literal
//	name=r".+\.rs"       r prefix: regular expression
//	name=ri"sample"      ri prefix: case-insensitive regular expression
//	size>=1Mb            size units B, Kb, Mb, Gb, Tb (binary multiples)
//	mtime>now-1d         time offsets from now with units s, m, h, d
//	perm=4000            octal permission literal
//	user=root            user/group names resolve to ids at parse time
//
// The "now" anchor is resolved to a single absolute instant when the
// expression is parsed; every file visited during the run is compared
// against that same instant.
package query
