// query.go
//
// Generic admin list views, column selection and inline editing for GORM models
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of gutils-admin.
// gutils-admin is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// gutils-admin is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with gutils-admin.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package query

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/localnerve/gutils-admin/internal/forms"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Rule maps a filter field onto a predicate.
//
//	"status"              status = value
//	"name__icontains"     lookup operator suffix
//	"~status"             NOT status = value
//	"created__daterange"  created >= from AND created < to + 1 day
//	"phone__strip"        non word characters removed before matching
//	"number__important"   a value replaces the whole query
type Rule string

// Exclude keeps a field out of query construction
const Exclude Rule = "-"

const (
	suffixImportant = "__important"
	suffixDateRange = "__daterange"
	suffixStrip     = "__strip"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// Query is a conjunction of predicates built from cleaned filter values.
type Query struct {
	exprs []clause.Expression
}

// And returns a query with expr appended
func (q Query) And(expr clause.Expression) Query {
	if expr == nil {
		return q
	}
	exprs := make([]clause.Expression, len(q.exprs), len(q.exprs)+1)
	copy(exprs, q.exprs)
	return Query{exprs: append(exprs, expr)}
}

// IsEmpty reports whether the query has no predicate
func (q Query) IsEmpty() bool {
	return len(q.exprs) == 0
}

// Expression returns the conjunction, nil for an empty query
func (q Query) Expression() clause.Expression {
	if q.IsEmpty() {
		return nil
	}
	return clause.And(q.exprs...)
}

// Apply adds the query to db
func (q Query) Apply(db *gorm.DB) *gorm.DB {
	if q.IsEmpty() {
		return db
	}
	return db.Where(q.Expression())
}

// Hook builds the predicate of one field, it takes precedence over the field rule
type Hook func(cleaned map[string]any) clause.Expression

// Build turns cleaned values into a query, visiting fields in order.
// Empty values never contribute a predicate.
func Build(fields []string, cleaned map[string]any, rules map[string]Rule, hooks map[string]Hook) (Query, error) {
	var q Query
	for _, name := range fields {
		if hook, ok := hooks[name]; ok {
			q = q.And(hook(cleaned))
			continue
		}
		rule, ok := rules[name]
		if rule == Exclude {
			continue
		}
		if !ok || rule == "" {
			rule = Rule(name)
		}
		value := cleaned[name]
		if s, ok := value.(string); ok {
			value = strings.TrimSpace(s)
		}
		if forms.IsEmpty(value) {
			continue
		}
		if p, ok := value.(*bool); ok {
			value = *p
		}

		r := string(rule)
		switch {
		case strings.HasSuffix(r, suffixImportant):
			expr, err := Lookup(strings.TrimSuffix(r, suffixImportant), value)
			if err != nil {
				return Query{}, err
			}
			return Query{exprs: []clause.Expression{expr}}, nil
		case strings.HasSuffix(r, suffixDateRange):
			dr, ok := value.(forms.DateRange)
			if !ok {
				return Query{}, fmt.Errorf("rule %s needs a date range, got %T", r, value)
			}
			q = q.And(DateFilter(strings.TrimSuffix(r, suffixDateRange), dr.From, dr.To))
		case strings.HasPrefix(r, "~"):
			expr, err := Lookup(r[1:], value)
			if err != nil {
				return Query{}, err
			}
			q = q.And(clause.Not(expr))
		case strings.HasSuffix(r, suffixStrip):
			expr, err := Lookup(strings.TrimSuffix(r, suffixStrip), nonWord.ReplaceAllString(fmt.Sprint(value), ""))
			if err != nil {
				return Query{}, err
			}
			q = q.And(expr)
		default:
			expr, err := Lookup(r, value)
			if err != nil {
				return Query{}, err
			}
			q = q.And(expr)
		}
	}
	return q, nil
}

// DateFilter matches days from through to inclusive, either end may be zero
func DateFilter(field string, from, to time.Time) clause.Expression {
	col := Column(field)
	var exprs []clause.Expression
	if !from.IsZero() {
		exprs = append(exprs, clause.Gte{Column: col, Value: from})
	}
	if !to.IsZero() {
		exprs = append(exprs, clause.Lt{Column: col, Value: to.AddDate(0, 0, 1)})
	}
	if len(exprs) == 0 {
		return nil
	}
	return clause.And(exprs...)
}

// Column names a possibly table qualified column, "orders.status"
func Column(field string) clause.Column {
	if i := strings.LastIndex(field, "."); i > 0 {
		return clause.Column{Table: field[:i], Name: field[i+1:]}
	}
	return clause.Column{Name: field}
}

// Lookup builds the predicate of a field path with an optional operator suffix
func Lookup(path string, value any) (clause.Expression, error) {
	field, op := path, "exact"
	if i := strings.LastIndex(path, "__"); i > 0 {
		field, op = path[:i], path[i+2:]
	}
	col := Column(field)

	switch op {
	case "exact":
		return clause.Eq{Column: col, Value: value}, nil
	case "iexact":
		return clause.Expr{SQL: "LOWER(?) = ?", Vars: []any{col, strings.ToLower(fmt.Sprint(value))}}, nil
	case "contains":
		return clause.Like{Column: col, Value: "%" + fmt.Sprint(value) + "%"}, nil
	case "icontains":
		return clause.Expr{SQL: "LOWER(?) LIKE ?", Vars: []any{col, "%" + strings.ToLower(fmt.Sprint(value)) + "%"}}, nil
	case "startswith":
		return clause.Like{Column: col, Value: fmt.Sprint(value) + "%"}, nil
	case "gt":
		return clause.Gt{Column: col, Value: value}, nil
	case "gte":
		return clause.Gte{Column: col, Value: value}, nil
	case "lt":
		return clause.Lt{Column: col, Value: value}, nil
	case "lte":
		return clause.Lte{Column: col, Value: value}, nil
	case "in":
		return clause.IN{Column: col, Values: listOf(value)}, nil
	case "isnull":
		if b, ok := value.(bool); ok && !b {
			return clause.Neq{Column: col, Value: nil}, nil
		}
		return clause.Eq{Column: col, Value: nil}, nil
	}
	return nil, fmt.Errorf("unknown lookup %q in %q", op, path)
}

func listOf(value any) []any {
	switch v := value.(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case []int64:
		out := make([]any, len(v))
		for i, n := range v {
			out[i] = n
		}
		return out
	}
	return []any{value}
}
