package database_test

import (
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/lunagic/hermes/hermesservices/database"
	"github.com/lunagic/hermes/hermesservices/sqlbuilder"
	"gotest.tools/v3/assert"
)

// testSuite runs the same round trip against a live backend. createTable
// must create a table named by %s with an auto-increment id and a name column.
func testSuite(t *testing.T, driver database.Driver, createTable string, configFuncs ...database.ServiceConfigFunc) {
	configFuncs = append(configFuncs, database.WithLogger(slog.Default()))
	service, err := database.New(driver, configFuncs...)
	assert.NilError(t, err)
	t.Cleanup(func() {
		_ = service.Close()
	})

	assert.NilError(t, service.Ping())

	table := "widget"
	dialect := service.Dialect()

	{ // Create the table
		_, err := service.Query(t.Context(), createTable)
		assert.NilError(t, err)

		tables, err := service.ListTables(t.Context())
		assert.NilError(t, err)
		assert.Assert(t, len(tables) > 0)
	}

	names := []string{uuid.NewString(), uuid.NewString()}

	{ // Prepared inserts report their generated ids
		statement, err := sqlbuilder.NewInsert(dialect, table).Set("name", ":name").Render()
		assert.NilError(t, err)

		for i, name := range names {
			prepared, err := service.Prepare(t.Context(), statement.Query)
			assert.NilError(t, err)

			params, err := statement.Bind(name)
			assert.NilError(t, err)
			assert.NilError(t, prepared.BindParams(params))

			result, err := prepared.Execute(t.Context())
			assert.NilError(t, err)
			assert.Equal(t, result.RowsAffected, int64(1))
			assert.NilError(t, prepared.Close())

			id, err := service.LastInsertID(t.Context(), table, "id")
			assert.NilError(t, err)
			assert.Equal(t, id, int64(i+1))
		}
	}

	{ // Literal selects hydrate rows
		query := sqlbuilder.NewSelect(dialect, table).Columns("name").OrderBy("id")
		query.Where().EqualTo("name", names[1])
		statement, err := query.Render()
		assert.NilError(t, err)

		result, err := service.Query(t.Context(), statement.Query)
		assert.NilError(t, err)

		rows := result.FetchAll()
		assert.Equal(t, len(rows), 1)
		assert.Equal(t, rows[0]["name"], names[1])
	}

	{ // Updates and deletes report affected rows
		update := sqlbuilder.NewUpdate(dialect, table).Set("name", "renamed")
		update.Where().EqualTo("id", 1)
		statement, err := update.Render()
		assert.NilError(t, err)

		result, err := service.Query(t.Context(), statement.Query)
		assert.NilError(t, err)
		assert.Equal(t, result.RowsAffected, int64(1))

		remove := sqlbuilder.NewDelete(dialect, table)
		remove.Where().In("id", 1, 2)
		statement, err = remove.Render()
		assert.NilError(t, err)

		result, err = service.Query(t.Context(), statement.Query)
		assert.NilError(t, err)
		assert.Equal(t, result.RowsAffected, int64(2))
	}
}
