package record_test

import (
	"context"
	"testing"

	"github.com/lunagic/hermes/hermesservices/database"
	"github.com/lunagic/hermes/hermesservices/record"
	"github.com/lunagic/hermes/hermesservices/sqlbuilder"
	"gotest.tools/v3/assert"
)

// fakeAdapter records every statement and answers with queued results.
type fakeAdapter struct {
	dialect sqlbuilder.Dialect
	queries []string
	params  []sqlbuilder.Params
	results []*database.Result
	lastID  int64
}

func newFakeAdapter(dialect sqlbuilder.Dialect, results ...*database.Result) *fakeAdapter {
	return &fakeAdapter{dialect: dialect, results: results}
}

func (adapter *fakeAdapter) Dialect() sqlbuilder.Dialect {
	return adapter.dialect
}

func (adapter *fakeAdapter) QuoteIdentifier(name string) string {
	return adapter.dialect.QuoteIdentifier(name)
}

func (adapter *fakeAdapter) QuoteLiteral(value any) string {
	return adapter.dialect.QuoteLiteral(value)
}

func (adapter *fakeAdapter) Escape(value string) string {
	return adapter.dialect.Escape(value)
}

func (adapter *fakeAdapter) Prepare(ctx context.Context, query string) (database.PreparedStatement, error) {
	return &fakePrepared{adapter: adapter, query: query}, nil
}

func (adapter *fakeAdapter) Query(ctx context.Context, query string) (*database.Result, error) {
	return adapter.next(query, nil), nil
}

func (adapter *fakeAdapter) LastInsertID(ctx context.Context, table string, primaryKey string) (int64, error) {
	if adapter.lastID == 0 {
		return 0, database.ErrNoLastInsertID
	}

	return adapter.lastID, nil
}

func (adapter *fakeAdapter) ListTables(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (adapter *fakeAdapter) next(query string, params sqlbuilder.Params) *database.Result {
	adapter.queries = append(adapter.queries, query)
	adapter.params = append(adapter.params, params)

	if len(adapter.results) == 0 {
		return database.NewResult(nil, 1)
	}

	result := adapter.results[0]
	adapter.results = adapter.results[1:]

	return result
}

func (adapter *fakeAdapter) lastQuery() string {
	if len(adapter.queries) == 0 {
		return ""
	}

	return adapter.queries[len(adapter.queries)-1]
}

type fakePrepared struct {
	adapter *fakeAdapter
	query   string
	params  sqlbuilder.Params
}

func (prepared *fakePrepared) BindParams(params sqlbuilder.Params) error {
	prepared.params = params
	return nil
}

func (prepared *fakePrepared) Execute(ctx context.Context) (*database.Result, error) {
	return prepared.adapter.next(prepared.query, prepared.params), nil
}

func (prepared *fakePrepared) Close() error {
	return nil
}

func rows(rows ...map[string]any) *database.Result {
	return database.NewResult(rows, 0)
}

func TestFindByID(t *testing.T) {
	t.Parallel()

	{ // Loads the row into the current columns
		adapter := newFakeAdapter(sqlbuilder.MySQL, rows(map[string]any{"id": int64(7), "name": "Aaron"}))
		users := record.New(adapter, "users", record.WithPrimaryKey("id"))

		result, err := users.FindByID(t.Context(), 7)
		assert.NilError(t, err)
		assert.Equal(t, adapter.lastQuery(), "SELECT * FROM `users` WHERE (`id` = 7)")
		assert.DeepEqual(t, result.Columns, map[string]any{"id": int64(7), "name": "Aaron"})
		assert.Equal(t, len(result.Rows), 1)
		assert.Equal(t, users.State(), record.StatePopulated)
	}

	{ // A single key also takes a one element slice
		adapter := newFakeAdapter(sqlbuilder.PostgreSQL)
		users := record.New(adapter, "users", record.WithPrimaryKey("id"))

		_, err := users.FindByID(t.Context(), []int{9})
		assert.NilError(t, err)
		assert.Equal(t, adapter.lastQuery(), `SELECT * FROM "users" WHERE ("id" = 9)`)
	}

	{ // Composite keys take one value per column, nil is IS NULL
		adapter := newFakeAdapter(sqlbuilder.MySQL)
		memberships := record.New(adapter, "memberships", record.WithPrimaryKey("user_id", "group_id"))

		_, err := memberships.FindByID(t.Context(), []any{1, nil})
		assert.NilError(t, err)
		assert.Equal(t, adapter.lastQuery(), "SELECT * FROM `memberships` WHERE (`user_id` = 1 AND `group_id` IS NULL)")
	}

	{ // Composite key mismatch is both a configuration and a state error
		memberships := record.New(newFakeAdapter(sqlbuilder.MySQL), "memberships", record.WithPrimaryKey("user_id", "group_id"))

		for _, id := range []any{1, []any{1}, []any{1, 2, 3}} {
			_, err := memberships.FindByID(t.Context(), id)
			assert.ErrorIs(t, err, record.ErrCompositeKeyMismatch)
			assert.ErrorIs(t, err, sqlbuilder.ErrConfiguration)
			assert.ErrorIs(t, err, record.ErrState)
		}
	}

	{ // No primary key
		_, err := record.New(newFakeAdapter(sqlbuilder.MySQL), "logs").FindByID(t.Context(), 1)
		assert.ErrorIs(t, err, record.ErrState)
	}
}

func TestFindBy(t *testing.T) {
	t.Parallel()

	{ // Wildcards use LIKE, the criteria is remembered
		adapter := newFakeAdapter(sqlbuilder.MySQL)
		users := record.New(adapter, "users")

		_, err := users.FindBy(
			t.Context(),
			map[string]any{"name": "A%", "status": "active"},
			record.WithOrder("name DESC"),
			record.WithLimit(10, 5),
		)
		assert.NilError(t, err)
		assert.Equal(
			t,
			adapter.lastQuery(),
			"SELECT * FROM `users` WHERE (`name` LIKE 'A%' AND `status` = 'active') ORDER BY `name` DESC LIMIT 10 OFFSET 5",
		)
		assert.DeepEqual(t, users.Finder(), map[string]any{"name": "A%", "status": "active"})
	}

	{ // FindAll without criteria clears the finder
		adapter := newFakeAdapter(sqlbuilder.SQLite)
		users := record.New(adapter, "users")

		_, err := users.FindBy(t.Context(), map[string]any{"id": 1})
		assert.NilError(t, err)

		_, err = users.FindAll(t.Context(), nil)
		assert.NilError(t, err)
		assert.Equal(t, adapter.lastQuery(), `SELECT * FROM "users"`)
		assert.Assert(t, users.Finder() == nil)
	}

	{ // Prepared mode binds every value
		adapter := newFakeAdapter(sqlbuilder.PostgreSQL)
		users := record.New(adapter, "users", record.WithPrepared())

		_, err := users.FindBy(t.Context(), map[string]any{"name": "A%", "status": "active", "deleted_at": nil})
		assert.NilError(t, err)
		assert.Equal(
			t,
			adapter.lastQuery(),
			`SELECT * FROM "users" WHERE ("deleted_at" IS NULL AND "name" LIKE $1 AND "status" = $2)`,
		)
		assert.DeepEqual(t, adapter.params[0], sqlbuilder.Params{
			{Name: "name", Value: "A%"},
			{Name: "status", Value: "active"},
		})
	}
}

func TestSaveInsert(t *testing.T) {
	t.Parallel()

	{ // Auto-increment back-fills the generated key
		adapter := newFakeAdapter(sqlbuilder.MySQL)
		adapter.lastID = 42
		users := record.New(adapter, "users", record.WithPrimaryKey("id"), record.WithAutoIncrement())

		result, err := users.Save(t.Context(), map[string]any{"id": nil, "name": "Aaron"}, record.ModeUpdate)
		assert.NilError(t, err)
		assert.Equal(t, adapter.lastQuery(), "INSERT INTO `users` (`name`) VALUES ('Aaron')")
		assert.DeepEqual(t, result.Columns, map[string]any{"id": int64(42), "name": "Aaron"})
		assert.Equal(t, result.Rows[0]["id"], int64(42))
		assert.Equal(t, users.State(), record.StateIdle)
	}

	{ // Sentinel-looking values stay literal outside prepared mode
		adapter := newFakeAdapter(sqlbuilder.SQLite)
		notes := record.New(adapter, "notes")

		_, err := notes.Save(t.Context(), map[string]any{"body": ":body"}, record.ModeInsert)
		assert.NilError(t, err)
		assert.Equal(t, adapter.lastQuery(), `INSERT INTO "notes" ("body") VALUES (':body')`)
	}

	{ // Prepared inserts bind in column order
		adapter := newFakeAdapter(sqlbuilder.SQLite)
		notes := record.New(adapter, "notes", record.WithPrepared())

		_, err := notes.Save(t.Context(), map[string]any{"title": "t", "body": "b"}, record.ModeInsert)
		assert.NilError(t, err)
		assert.Equal(t, adapter.lastQuery(), `INSERT INTO "notes" ("body", "title") VALUES (:body, :title)`)
		assert.DeepEqual(t, adapter.params[0].Map(), map[string]any{"body": "b", "title": "t"})
	}

	{ // Missing generated key
		users := record.New(newFakeAdapter(sqlbuilder.MySQL), "users", record.WithPrimaryKey("id"), record.WithAutoIncrement())

		_, err := users.Save(t.Context(), map[string]any{"name": "Aaron"}, record.ModeInsert)
		assert.ErrorIs(t, err, database.ErrNoLastInsertID)
	}
}

func TestSaveUpdate(t *testing.T) {
	t.Parallel()

	{ // Auto-increment with a key updates, the key stays out of SET
		adapter := newFakeAdapter(sqlbuilder.MySQL)
		users := record.New(adapter, "users", record.WithPrimaryKey("id"), record.WithAutoIncrement())

		result, err := users.Save(t.Context(), map[string]any{"id": 3, "name": "B"}, record.ModeInsert)
		assert.NilError(t, err)
		assert.Equal(t, adapter.lastQuery(), "UPDATE `users` SET `name` = 'B' WHERE (`id` = 3)")
		assert.DeepEqual(t, result.Columns, map[string]any{"id": 3, "name": "B"})
	}

	{ // The key falls back to the loaded columns
		adapter := newFakeAdapter(sqlbuilder.PostgreSQL, rows(map[string]any{"id": int64(5), "name": "A"}))
		users := record.New(adapter, "users", record.WithPrimaryKey("id"), record.WithPrepared())

		_, err := users.FindByID(t.Context(), 5)
		assert.NilError(t, err)

		result, err := users.Save(t.Context(), map[string]any{"name": "C"}, record.ModeUpdate)
		assert.NilError(t, err)
		assert.Equal(t, adapter.lastQuery(), `UPDATE "users" SET "name" = $1 WHERE ("id" = $2)`)
		assert.DeepEqual(t, adapter.params[1], sqlbuilder.Params{
			{Name: "name", Value: "C"},
			{Name: "id", Value: int64(5)},
		})
		assert.DeepEqual(t, result.Columns, map[string]any{"id": int64(5), "name": "C"})
	}

	{ // Without a key the finder identifies the rows
		adapter := newFakeAdapter(sqlbuilder.MySQL)
		logs := record.New(adapter, "logs")

		_, err := logs.Save(t.Context(), map[string]any{"level": "warn"}, record.ModeUpdate)
		assert.ErrorIs(t, err, record.ErrState)

		_, err = logs.FindBy(t.Context(), map[string]any{"level": "info"})
		assert.NilError(t, err)

		_, err = logs.Save(t.Context(), map[string]any{"level": "warn"}, record.ModeUpdate)
		assert.NilError(t, err)
		assert.Equal(t, adapter.lastQuery(), "UPDATE `logs` SET `level` = 'warn' WHERE (`level` = 'info')")
	}

	{ // A column in both SET and the finder binds twice, the finder copy last
		adapter := newFakeAdapter(sqlbuilder.SQLite)
		logs := record.New(adapter, "logs", record.WithPrepared())

		_, err := logs.FindBy(t.Context(), map[string]any{"level": "info"})
		assert.NilError(t, err)

		_, err = logs.Save(t.Context(), map[string]any{"level": "warn"}, record.ModeUpdate)
		assert.NilError(t, err)
		assert.Equal(t, adapter.lastQuery(), `UPDATE "logs" SET "level" = :level WHERE ("level" = :level_2)`)
		assert.DeepEqual(t, adapter.params[1], sqlbuilder.Params{
			{Name: "level", Value: "warn"},
			{Name: "level_2", Value: "info"},
		})
	}

	{ // A key with no value anywhere
		users := record.New(newFakeAdapter(sqlbuilder.MySQL), "users", record.WithPrimaryKey("id"))

		_, err := users.Save(t.Context(), map[string]any{"name": "B"}, record.ModeUpdate)
		assert.ErrorIs(t, err, record.ErrState)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	{ // Override wins
		adapter := newFakeAdapter(sqlbuilder.MySQL)
		users := record.New(adapter, "users", record.WithPrimaryKey("id"))

		assert.NilError(t, users.Delete(t.Context(), map[string]any{"id": 1}, map[string]any{"status": "banned"}))
		assert.Equal(t, adapter.lastQuery(), "DELETE FROM `users` WHERE (`status` = 'banned')")
	}

	{ // Key from the loaded columns, state is cleared afterwards
		adapter := newFakeAdapter(sqlbuilder.SQLServer, rows(map[string]any{"id": int64(2)}))
		users := record.New(adapter, "users", record.WithPrimaryKey("id"))

		_, err := users.FindByID(t.Context(), 2)
		assert.NilError(t, err)

		assert.NilError(t, users.Delete(t.Context(), nil, nil))
		assert.Equal(t, adapter.lastQuery(), "DELETE FROM [users] WHERE ([id] = 2)")
		assert.DeepEqual(t, users.Columns(), map[string]any{})
		assert.Equal(t, len(users.Rows()), 0)
		assert.Equal(t, users.State(), record.StateIdle)
	}

	{ // Finder, then nothing at all
		adapter := newFakeAdapter(sqlbuilder.MySQL)
		logs := record.New(adapter, "logs")

		assert.ErrorIs(t, logs.Delete(t.Context(), nil, nil), record.ErrState)

		_, err := logs.FindBy(t.Context(), map[string]any{"level": "debug"})
		assert.NilError(t, err)

		assert.NilError(t, logs.Delete(t.Context(), nil, nil))
		assert.Equal(t, adapter.lastQuery(), "DELETE FROM `logs` WHERE (`level` = 'debug')")
	}
}

func TestGetCount(t *testing.T) {
	t.Parallel()

	adapter := newFakeAdapter(sqlbuilder.Oracle, rows(map[string]any{"TOTAL_COUNT": "4"}))
	users := record.New(adapter, "users")

	count, err := users.GetCount(t.Context(), map[string]any{"status": "active"})
	assert.NilError(t, err)
	assert.Equal(t, count, int64(4))
	assert.Equal(t, adapter.lastQuery(), `SELECT COUNT(*) AS "total_count" FROM "users" WHERE ("status" = 'active')`)
}

func TestRawStatements(t *testing.T) {
	t.Parallel()

	{ // Row returning statements replace the loaded rows
		adapter := newFakeAdapter(sqlbuilder.MySQL, rows(map[string]any{"n": int64(1)}))
		users := record.New(adapter, "users")

		result, err := users.Query(t.Context(), "SELECT 1 AS n")
		assert.NilError(t, err)
		assert.DeepEqual(t, result.Rows, []map[string]any{{"n": int64(1)}})
		assert.Assert(t, adapter.params[0] == nil)
	}

	{ // Params go through a prepared statement
		adapter := newFakeAdapter(sqlbuilder.MySQL, database.NewResult(nil, 3))
		users := record.New(adapter, "users")

		affected, err := users.Execute(
			t.Context(),
			"UPDATE users SET status = ? WHERE id > ?",
			sqlbuilder.Param{Name: "status", Value: "x"},
			sqlbuilder.Param{Name: "id", Value: 10},
		)
		assert.NilError(t, err)
		assert.Equal(t, affected, int64(3))
		assert.Equal(t, len(adapter.params[0]), 2)
		assert.Equal(t, users.State(), record.StateIdle)
	}
}
