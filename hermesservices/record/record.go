package record

import (
	"errors"
	"fmt"
	"maps"

	"github.com/lunagic/hermes/hermesservices/database"
	"github.com/lunagic/hermes/hermesservices/sqlbuilder"
)

var (
	ErrState = errors.New("state error")
	// ErrCompositeKeyMismatch is both a configuration and a state error.
	ErrCompositeKeyMismatch = fmt.Errorf("%w: %w: composite key mismatch", sqlbuilder.ErrConfiguration, ErrState)
)

type Mode int

const (
	ModeInsert Mode = iota
	ModeUpdate
)

type State int

const (
	StateIdle State = iota
	StatePopulated
)

// Result is the current columns plus the last row set.
type Result struct {
	Columns map[string]any
	Rows    []map[string]any
}

// Record reads and writes one table as flat column maps. A Record holds
// state between calls and is not safe for concurrent use.
type Record struct {
	adapter       database.Adapter
	dialect       sqlbuilder.Dialect
	table         string
	primaryKey    []string
	autoIncrement bool
	prepared      bool
	columns       map[string]any
	rows          []map[string]any
	finder        map[string]any
	state         State
}

type Option func(record *Record)

func WithPrimaryKey(columns ...string) Option {
	return func(record *Record) {
		record.primaryKey = columns
	}
}

func WithAutoIncrement() Option {
	return func(record *Record) {
		record.autoIncrement = true
	}
}

// WithPrepared sends values as bound parameters instead of inline literals.
func WithPrepared() Option {
	return func(record *Record) {
		record.prepared = true
	}
}

func New(adapter database.Adapter, table string, options ...Option) *Record {
	record := &Record{
		adapter: adapter,
		dialect: adapter.Dialect(),
		table:   table,
		columns: map[string]any{},
		rows:    []map[string]any{},
	}

	for _, option := range options {
		option(record)
	}

	return record
}

func (record *Record) Table() string {
	return record.table
}

func (record *Record) PrimaryKey() []string {
	return append([]string(nil), record.primaryKey...)
}

func (record *Record) Columns() map[string]any {
	return maps.Clone(record.columns)
}

func (record *Record) Rows() []map[string]any {
	return record.rows
}

func (record *Record) Result() Result {
	return Result{
		Columns: record.Columns(),
		Rows:    record.rows,
	}
}

// Finder returns the criteria remembered by the last FindBy.
func (record *Record) Finder() map[string]any {
	return maps.Clone(record.finder)
}

func (record *Record) State() State {
	return record.state
}

func (record *Record) strategy() strategy {
	if record.prepared {
		return &preparedStrategy{}
	}

	return literalStrategy{}
}

func (record *Record) hydrate(result *database.Result) {
	record.rows = result.FetchAll()
	record.columns = map[string]any{}
	if len(record.rows) > 0 {
		record.columns = maps.Clone(record.rows[0])
	}
	record.state = StatePopulated
}

func (record *Record) reset() {
	record.columns = map[string]any{}
	record.rows = []map[string]any{}
	record.state = StateIdle
}
