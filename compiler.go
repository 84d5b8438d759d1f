package lrcat

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Join is one auxiliary table a column or criterion needs in the FROM
// clause. Alias is already resolved to its final, occurrence-specific
// name by the CriterionSpec/ColumnVariant that produced it — there is no
// textual "<NUM>" placeholder to rewrite later, per Design Notes §9's
// join-graph recommendation.
type Join struct {
	Table string
	Alias string
	On    string
}

func (j Join) key() string { return j.Table + "|" + j.Alias }

func (j Join) sql() string {
	return fmt.Sprintf("JOIN %s %s ON %s", j.Table, j.Alias, j.On)
}

type joinClause interface {
	key() string
	sql() string
}

// ColumnVariant is one SQL realization of a logical column name.
type ColumnVariant struct {
	SQL   string
	Joins []Join
}

// ColumnSpec describes every variant a column name supports. The empty
// string key is the default variant selected by a bare column name.
type ColumnSpec struct {
	Name     string
	Variants map[string]ColumnVariant
}

// CriterionSpec describes one supported criteria-string key. Joins is
// given the 1-based occurrence index of this criterion within the current
// query so repeated criteria (two `keyword=` clauses) get distinct
// aliases (invariant I3). Build renders the WHERE fragment for a given
// occurrence.
type CriterionSpec struct {
	Name                   string
	Joins                  func(occurrence int) []Join
	Build                  func(tc *TransformContext, value string, occurrence int) (string, error)
	NullFallbackOnNotEqual bool
}

// Registry is the static, pure-data description of one main table's
// supported columns and criteria (component C). A Registry carries no
// imperative logic of its own.
type Registry struct {
	MainTable      string
	MainAlias      string
	Columns        map[string]ColumnSpec
	Criteria       map[string]CriterionSpec
	DefaultColumns string
}

// PredefinedHook implements a canned query shape recognized by the
// columns string itself (count_by_date(...), duplicated_names(...)).
type PredefinedHook func(c *Compiler, args string) (*CompiledQuery, error)

// CompileOptions mirrors the closed option set of §4.D.
type CompileOptions struct {
	Distinct  bool
	PrintOnly bool
	SQLOnly   bool
	Debug     bool
}

// CompiledQuery is the Generic Compiler's output.
type CompiledQuery struct {
	SQL         string
	ColumnNames []string
	RequestID   string
	// FileSize is set by PhotoCompiler.Compile when the requested columns
	// included the filesize pseudo-column, so callers know to pass
	// DisplayOptions.FileSize through to Render.
	FileSize bool
}

// Compiler is one instance of the Generic Compiler (component D), bound
// to a single Registry. PhotoCompiler and CollectionCompiler are thin
// wrappers around two Compiler instances (component E).
type Compiler struct {
	Registry   Registry
	Predefined map[string]PredefinedHook
	tc         *TransformContext
	logger     *zap.SugaredLogger
}

// NewCompiler builds a Compiler bound to registry. A nil logger is
// replaced with a no-op sink.
func NewCompiler(registry Registry, tc *TransformContext, logger *zap.SugaredLogger) *Compiler {
	if logger == nil {
		logger = nopLogger()
	}
	if tc == nil {
		tc = &TransformContext{Config: DefaultConfig(), Geocoder: NoneGeocoder{}}
	}
	return &Compiler{
		Registry:   registry,
		Predefined: map[string]PredefinedHook{},
		tc:         tc,
		logger:     logger,
	}
}

var rePredefined = regexp.MustCompile(`^(\w+)\((.*)\)$`)

// Compile turns a (columns, criteria) pair into SQL. Mirrors
// lrselectgeneric.py's select_generic: predefined-hook dispatch, then
// criteria parse+walk, then columns parse, then assembly.
func (c *Compiler) Compile(columns, criteria string, opts CompileOptions) (*CompiledQuery, error) {
	requestID := uuid.New().String()

	if m := rePredefined.FindStringSubmatch(strings.TrimSpace(columns)); m != nil {
		if hook, ok := c.Predefined[m[1]]; ok {
			c.logger.Debugw("predefined hook", "request_id", requestID, "hook", m[1], "args", m[2])
			q, err := hook(c, m[2])
			if err != nil {
				return nil, err
			}
			q.RequestID = requestID
			return q, nil
		}
	}

	tokens, err := LexCriteria(criteria)
	if err != nil {
		return nil, err
	}

	state := &compileState{
		joinSeen:   map[string]bool{},
		occurrence: map[string]int{},
	}
	pos := 0
	where := ""
	if len(tokens) > 0 {
		where, err = c.parseExpr(tokens, &pos, state)
		if err != nil {
			return nil, err
		}
	}
	if pos != len(tokens) {
		return nil, &SyntaxError{Reason: "trailing tokens", Position: pos}
	}

	colsSQL, colNames, err := c.parseColumns(columns, state)
	if err != nil {
		return nil, err
	}

	distinct := opts.Distinct || state.distinct
	sql := c.assemble(colsSQL, where, distinct, state)

	c.logger.Debugw("compiled sql", "request_id", requestID, "sql", sql)
	return &CompiledQuery{SQL: sql, ColumnNames: colNames, RequestID: requestID}, nil
}

type compileState struct {
	joins      []joinClause
	joinSeen   map[string]bool
	occurrence map[string]int
	orderBy    string
	distinct   bool
	groupBy    string
	having     string
}

func (s *compileState) addJoins(js []Join) {
	for _, j := range js {
		if !s.joinSeen[j.key()] {
			s.joinSeen[j.key()] = true
			s.joins = append(s.joins, j)
		}
	}
}

func combineBool(op, left, right string) string {
	if left == "" {
		return right
	}
	if right == "" {
		return left
	}
	return fmt.Sprintf("(%s %s %s)", left, op, right)
}

// parseExpr and parseTerm implement the expr := atom (OP atom)* grammar
// of §4.A, preserving the user's parenthesization exactly (invariant I5)
// rather than flattening everything into Python's ' AND '.join.
func (c *Compiler) parseExpr(tokens []Token, pos *int, state *compileState) (string, error) {
	left, err := c.parseTerm(tokens, pos, state)
	if err != nil {
		return "", err
	}
	for *pos < len(tokens) {
		switch tokens[*pos].Kind {
		case TokenAND:
			*pos++
			right, err := c.parseTerm(tokens, pos, state)
			if err != nil {
				return "", err
			}
			left = combineBool("AND", left, right)
		case TokenOR:
			*pos++
			right, err := c.parseTerm(tokens, pos, state)
			if err != nil {
				return "", err
			}
			left = combineBool("OR", left, right)
		default:
			return left, nil
		}
	}
	return left, nil
}

func (c *Compiler) parseTerm(tokens []Token, pos *int, state *compileState) (string, error) {
	if *pos >= len(tokens) {
		return "", &SyntaxError{Reason: "unexpected end of criteria", Position: *pos}
	}
	tok := tokens[*pos]
	switch tok.Kind {
	case TokenLPAR:
		*pos++
		inner, err := c.parseExpr(tokens, pos, state)
		if err != nil {
			return "", err
		}
		if *pos >= len(tokens) || tokens[*pos].Kind != TokenRPAR {
			return "", &SyntaxError{Reason: "missing closing parenthesis", Position: *pos}
		}
		*pos++
		if inner == "" {
			return "", nil
		}
		return "(" + inner + ")", nil
	case TokenKEYVAL:
		*pos++
		return c.resolveCriterion(tok, state)
	default:
		return "", &SyntaxError{Reason: "unexpected token " + tok.Kind.String(), Position: *pos}
	}
}

// resolveCriterion handles the four meta keys outside the WHERE stream
// and otherwise looks the key up in the registry and applies its value
// transformer.
func (c *Compiler) resolveCriterion(tok Token, state *compileState) (string, error) {
	switch tok.Key {
	case "sort":
		state.orderBy = parseSortValue(tok.Value)
		return "", nil
	case "distinct":
		b, err := ToBool(tok.Value)
		if err != nil {
			return "", &BadValueError{Key: "distinct", Value: tok.Value, Err: err}
		}
		state.distinct = b
		return "", nil
	case "groupby":
		sqlCol, _, err := c.columnSQL(tok.Value, state)
		if err != nil {
			return "", err
		}
		state.groupBy = sqlCol
		return "", nil
	case "count":
		sqlCol, _, err := c.columnSQL(tok.Value, state)
		if err != nil {
			return "", err
		}
		state.having = fmt.Sprintf("count(%s) > 0", sqlCol)
		return "", nil
	}

	spec, ok := c.Registry.Criteria[tok.Key]
	if !ok {
		return "", &UnknownKeyError{Key: tok.Key, Kind: "criterion"}
	}
	state.occurrence[tok.Key]++
	occ := state.occurrence[tok.Key]
	if spec.Joins != nil {
		state.addJoins(spec.Joins(occ))
	}
	return spec.Build(c.tc, tok.Value, occ)
}

func parseSortValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "-") {
		return v[1:] + " DESC"
	}
	return v + " ASC"
}

var reCountCall = regexp.MustCompile(`^(count|countby)\((\w+)\)$`)
var reVariant = regexp.MustCompile(`^(\w+)(?:=(.+))?$`)

// parseColumns splits the columns string, resolving each entry against
// the registry (bare name, name=variant, count(col), countby(col)).
func (c *Compiler) parseColumns(columns string, state *compileState) ([]string, []string, error) {
	columns = strings.TrimSpace(columns)
	if columns == "" {
		columns = c.Registry.DefaultColumns
	}

	var sqlCols, names []string
	for _, raw := range strings.Split(columns, ",") {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if m := reCountCall.FindStringSubmatch(entry); m != nil {
			kind, col := m[1], m[2]
			colSQL, _, err := c.columnSQL(col, state)
			if err != nil {
				return nil, nil, err
			}
			alias := "count_" + col
			sqlCols = append(sqlCols, fmt.Sprintf("count(%s) AS %s", colSQL, alias))
			names = append(names, alias)
			if kind == "countby" {
				state.groupBy = colSQL
			}
			continue
		}

		sqlCol, name, err := c.columnSQL(entry, state)
		if err != nil {
			return nil, nil, err
		}
		sqlCols = append(sqlCols, sqlCol+" AS "+name)
		names = append(names, name)
	}
	return sqlCols, names, nil
}

// columnSQL resolves one bare or "name=variant" column entry to its SQL
// expression, name, and required joins (added to state as a side effect).
func (c *Compiler) columnSQL(entry string, state *compileState) (sqlExpr string, name string, err error) {
	m := reVariant.FindStringSubmatch(entry)
	if m == nil {
		return "", "", &UnknownKeyError{Key: entry, Kind: "column"}
	}
	colName, variant := m[1], m[2]

	spec, ok := c.Registry.Columns[colName]
	if !ok {
		return "", "", &UnknownKeyError{Key: colName, Kind: "column"}
	}

	if strings.HasPrefix(variant, "var:") {
		tmpl, ok := spec.Variants["var"]
		if !ok {
			return "", "", &UnknownKeyError{Key: colName + "=var:", Kind: "column"}
		}
		state.addJoins(tmpl.Joins)
		return fmt.Sprintf(tmpl.SQL, variant[len("var:"):]), colName, nil
	}

	v, ok := spec.Variants[variant]
	if !ok {
		return "", "", &UnknownKeyError{Key: colName + "=" + variant, Kind: "column"}
	}
	state.addJoins(v.Joins)
	return v.SQL, colName, nil
}

func (c *Compiler) assemble(cols []string, where string, distinct bool, state *compileState) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if distinct {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(" FROM ")
	b.WriteString(c.Registry.MainTable)
	b.WriteString(" ")
	b.WriteString(c.Registry.MainAlias)

	for _, j := range state.joins {
		b.WriteString(" ")
		b.WriteString(j.sql())
	}
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	if state.groupBy != "" {
		b.WriteString(" GROUP BY ")
		b.WriteString(state.groupBy)
	}
	if state.having != "" {
		b.WriteString(" HAVING ")
		b.WriteString(state.having)
	}
	if state.orderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(state.orderBy)
	}
	return b.String()
}
