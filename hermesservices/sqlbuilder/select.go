package sqlbuilder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	rowNumberColumn = "hermes_row_number"
	pagedAlias      = "hermes_paged"
	distinctAlias   = "hermes_distinct"
)

var (
	aggregatePattern = regexp.MustCompile(`(?i)^(AVG|COUNT|FIRST|LAST|MAX|MIN|SUM)\s*\(`)
	aliasPattern     = regexp.MustCompile(`(?i)^(.+?)\s+AS\s+(\S+)$`)
)

var joinKeywords = map[string]bool{
	"INNER":       true,
	"LEFT":        true,
	"RIGHT":       true,
	"LEFT OUTER":  true,
	"RIGHT OUTER": true,
	"FULL":        true,
	"FULL OUTER":  true,
	"CROSS":       true,
	"NATURAL":     true,
}

// JoinOn is one equality pair of a join condition.
type JoinOn struct {
	Left  string
	Right string
}

// Join joins one or more tables, or an aliased sub-select.
type Join struct {
	Keyword string
	Tables  []string
	Select  *Select
	Alias   string
	On      []JoinOn
}

type Select struct {
	base
	distinct  bool
	from      *Select
	fromAlias string
	joins     []Join
	where     *Group
	having    *Group
	groupBy   []string
}

func NewSelect(dialect Dialect, table string) *Select {
	return &Select{base: newBase(dialect, table)}
}

func (s *Select) Distinct() *Select {
	s.distinct = true
	return s
}

// Columns adds result columns. Each argument may hold a comma separated list.
func (s *Select) Columns(columns ...string) *Select {
	for _, column := range columns {
		for _, part := range splitOutsideParens(column) {
			if part = strings.TrimSpace(part); part != "" {
				s.columns = append(s.columns, part)
			}
		}
	}

	return s
}

// FromSelect selects from a sub-select instead of a table.
func (s *Select) FromSelect(sub *Select, alias string) *Select {
	if alias == "" {
		s.fail(fmt.Errorf("%w: a sub-select needs an alias", ErrConfiguration))
		return s
	}

	s.from = sub
	s.fromAlias = alias

	return s
}

func (s *Select) Join(join Join) *Select {
	keyword := strings.ToUpper(strings.Join(strings.Fields(join.Keyword), " "))
	keyword = strings.TrimSpace(strings.TrimSuffix(keyword, "JOIN"))
	if keyword == "" {
		keyword = "INNER"
	}

	if !joinKeywords[keyword] {
		s.fail(fmt.Errorf("%w: unsupported join %q", ErrConfiguration, join.Keyword))
		return s
	}

	if join.Select == nil && len(join.Tables) == 0 {
		s.fail(fmt.Errorf("%w: a join needs a table or a sub-select", ErrConfiguration))
		return s
	}

	if join.Select != nil && join.Alias == "" {
		s.fail(fmt.Errorf("%w: a joined sub-select needs an alias", ErrConfiguration))
		return s
	}

	join.Keyword = keyword
	s.joins = append(s.joins, join)

	return s
}

// Where returns the WHERE group, creating it on first use.
func (s *Select) Where() *Group {
	if s.where == nil {
		s.where = NewGroup()
	}

	return s.where
}

// Having returns the HAVING group, creating it on first use.
func (s *Select) Having() *Group {
	if s.having == nil {
		s.having = NewGroup()
	}

	return s.having
}

func (s *Select) GroupBy(columns ...string) *Select {
	for _, column := range columns {
		for _, part := range splitOutsideParens(column) {
			if part = strings.TrimSpace(part); part != "" {
				s.groupBy = append(s.groupBy, part)
			}
		}
	}

	return s
}

func (s *Select) OrderBy(items ...string) *Select {
	s.orderBy(items...)
	return s
}

func (s *Select) Limit(limit int) *Select {
	s.limit = limit
	return s
}

func (s *Select) Offset(offset int) *Select {
	s.offset = offset
	return s
}

// LimitSpec reads the compact "limit,offset" form.
func (s *Select) LimitSpec(spec string) *Select {
	if err := s.limitSpec(spec); err != nil {
		s.fail(err)
	}

	return s
}

func (s *Select) Render() (Statement, error) {
	binder := NewBinder(s.dialect, 0)

	query, err := s.render(binder)
	if err != nil {
		return Statement{}, err
	}

	return Statement{Query: query, Binds: binder.Names()}, nil
}

func (s *Select) render(binder *Binder) (string, error) {
	return s.renderQuery(binder, true)
}

// renderSubquery renders s as a derived table. SQL Server rejects ORDER BY
// there, so on SQL Server the order only numbers the rows of a page.
func (s *Select) renderSubquery(binder *Binder) (string, error) {
	return s.renderQuery(binder, s.dialect != SQLServer)
}

func (s *Select) renderQuery(binder *Binder, ordered bool) (string, error) {
	if s.err != nil {
		return "", s.err
	}

	paginated := s.limit > 0 || s.offset > 0
	if !paginated || s.dialect.NativeOffset() {
		query, err := s.renderBase(binder, "")
		if err != nil {
			return "", err
		}

		if ordered && len(s.order) > 0 {
			query += " ORDER BY " + s.renderOrder()
		}

		return query + s.renderLimit(), nil
	}

	if len(s.order) == 0 {
		return "", fmt.Errorf("%w: %s pagination needs an ORDER BY", ErrConfiguration, s.dialect)
	}

	inner, err := s.renderNumbered(binder)
	if err != nil {
		return "", err
	}

	filter := rowNumberColumn + " > " + strconv.Itoa(s.offset)
	if s.limit > 0 {
		filter = fmt.Sprintf("%s BETWEEN %d AND %d", rowNumberColumn, s.offset+1, s.offset+s.limit)
	}

	query := fmt.Sprintf(
		"SELECT * FROM (%s)%s%s WHERE (%s)",
		inner,
		s.dialect.AliasKeyword(),
		pagedAlias,
		filter,
	)
	if ordered {
		query += " ORDER BY " + rowNumberColumn
	}

	return query, nil
}

// renderNumbered adds the row number column to the base query. DISTINCT
// has to run before rows are numbered, so a distinct query is numbered from
// a derived table and ordered by its output column names.
func (s *Select) renderNumbered(binder *Binder) (string, error) {
	if !s.distinct {
		return s.renderBase(binder, "ROW_NUMBER() OVER (ORDER BY "+s.renderOrder()+") AS "+rowNumberColumn)
	}

	base, err := s.renderBase(binder, "")
	if err != nil {
		return "", err
	}

	order := []string{}
	for _, item := range s.order {
		order = append(order, s.renderOrderItem(unqualifiedOrderItem(item)))
	}

	return fmt.Sprintf(
		"SELECT %s.*, ROW_NUMBER() OVER (ORDER BY %s) AS %s FROM (%s)%s%s",
		distinctAlias,
		strings.Join(order, ", "),
		rowNumberColumn,
		base,
		s.dialect.AliasKeyword(),
		distinctAlias,
	), nil
}

// unqualifiedOrderItem drops the table part of a column reference, keeping
// expressions and the sort direction.
func unqualifiedOrderItem(item string) string {
	if strings.Contains(item, "(") {
		return item
	}

	fields := strings.Fields(item)
	direction := ""
	if len(fields) > 1 {
		last := strings.ToUpper(fields[len(fields)-1])
		if last == "ASC" || last == "DESC" {
			direction = " " + last
			item = strings.TrimSpace(item[:strings.LastIndex(item, fields[len(fields)-1])])
		}
	}

	if dot := strings.LastIndex(item, "."); dot >= 0 {
		item = item[dot+1:]
	}

	return item + direction
}

// renderBase renders everything up to HAVING. extra is appended to the
// column list and qualifies a bare "*" so it can sit beside it.
func (s *Select) renderBase(binder *Binder, extra string) (string, error) {
	query := "SELECT "
	if s.distinct {
		query += "DISTINCT "
	}

	columns := []string{}
	for _, column := range s.columns {
		columns = append(columns, s.renderColumn(column))
	}

	if len(columns) == 0 {
		columns = append(columns, "*")
	}

	if extra != "" {
		if len(columns) == 1 && columns[0] == "*" {
			columns = []string{}
			for _, qualifier := range s.qualifiers() {
				columns = append(columns, s.dialect.QuoteIdentifier(qualifier)+".*")
			}
		}
		columns = append(columns, extra)
	}

	query += strings.Join(columns, ", ")

	source, err := s.renderSource(binder)
	if err != nil {
		return "", err
	}
	query += " FROM " + source

	for _, join := range s.joins {
		rendered, err := s.renderJoin(binder, join)
		if err != nil {
			return "", err
		}
		query += " " + rendered
	}

	if s.where != nil {
		where, err := s.where.render(binder)
		if err != nil {
			return "", err
		}
		if where != "" {
			query += " WHERE " + where
		}
	}

	if len(s.groupBy) > 0 {
		groups := []string{}
		for _, column := range s.groupBy {
			groups = append(groups, s.renderExpression(column))
		}
		query += " GROUP BY " + strings.Join(groups, ", ")
	}

	if s.having != nil {
		having, err := s.having.render(binder)
		if err != nil {
			return "", err
		}
		if having != "" {
			query += " HAVING " + having
		}
	}

	return query, nil
}

func (s *Select) renderLimit() string {
	switch {
	case s.limit > 0 && s.offset > 0:
		return fmt.Sprintf(" LIMIT %d OFFSET %d", s.limit, s.offset)
	case s.limit > 0:
		return fmt.Sprintf(" LIMIT %d", s.limit)
	case s.offset > 0:
		switch s.dialect {
		case MySQL:
			return fmt.Sprintf(" LIMIT 18446744073709551615 OFFSET %d", s.offset)
		case SQLite:
			return fmt.Sprintf(" LIMIT -1 OFFSET %d", s.offset)
		}
		return fmt.Sprintf(" OFFSET %d", s.offset)
	}

	return ""
}

func (s *Select) renderColumn(column string) string {
	alias := ""
	if match := aliasPattern.FindStringSubmatch(column); match != nil {
		column = strings.TrimSpace(match[1])
		alias = " AS " + s.dialect.QuoteIdentifier(strings.Trim(match[2], "`\"[]"))
	}

	if aggregatePattern.MatchString(column) {
		return column + alias
	}

	return s.renderExpression(column) + alias
}

func (s *Select) renderSource(binder *Binder) (string, error) {
	if s.from == nil {
		return tableReference(s.dialect, s.table), nil
	}

	sub, err := s.from.renderSubquery(binder)
	if err != nil {
		return "", err
	}

	return "(" + sub + ")" + s.dialect.AliasKeyword() + s.dialect.QuoteIdentifier(s.fromAlias), nil
}

func (s *Select) renderJoin(binder *Binder, join Join) (string, error) {
	target := ""

	switch {
	case join.Select != nil:
		sub, err := join.Select.renderSubquery(binder)
		if err != nil {
			return "", err
		}
		target = "(" + sub + ")" + s.dialect.AliasKeyword() + s.dialect.QuoteIdentifier(join.Alias)

	case len(join.Tables) == 1:
		target = tableReference(s.dialect, join.Tables[0])

	default:
		tables := []string{}
		for _, table := range join.Tables {
			tables = append(tables, tableReference(s.dialect, table))
		}
		target = "(" + strings.Join(tables, ", ") + ")"
	}

	rendered := join.Keyword + " JOIN " + target

	conditions := []string{}
	for _, on := range join.On {
		conditions = append(conditions, s.renderExpression(on.Left)+" = "+s.renderExpression(on.Right))
	}

	if len(conditions) > 0 {
		rendered += " ON " + strings.Join(conditions, " AND ")
	}

	return rendered, nil
}

// qualifiers are the names a bare "*" expands to: the source, then every
// joined table or sub-select.
func (s *Select) qualifiers() []string {
	qualifiers := []string{}
	if s.from != nil {
		qualifiers = append(qualifiers, s.fromAlias)
	} else {
		qualifiers = append(qualifiers, referenceName(s.table))
	}

	for _, join := range s.joins {
		if join.Select != nil {
			qualifiers = append(qualifiers, join.Alias)
			continue
		}
		for _, table := range join.Tables {
			qualifiers = append(qualifiers, referenceName(table))
		}
	}

	return qualifiers
}

// referenceName is the alias of "table alias", or the table itself.
func referenceName(ref string) string {
	fields := strings.Fields(ref)
	if len(fields) == 0 {
		return ref
	}

	return fields[len(fields)-1]
}

// tableReference quotes "table", "table alias" and "table AS alias".
func tableReference(dialect Dialect, ref string) string {
	fields := strings.Fields(ref)

	switch {
	case len(fields) == 2:
		return dialect.QuoteIdentifier(fields[0]) + dialect.AliasKeyword() + dialect.QuoteIdentifier(fields[1])
	case len(fields) == 3 && strings.EqualFold(fields[1], "AS"):
		return dialect.QuoteIdentifier(fields[0]) + dialect.AliasKeyword() + dialect.QuoteIdentifier(fields[2])
	}

	return dialect.QuoteIdentifier(ref)
}
