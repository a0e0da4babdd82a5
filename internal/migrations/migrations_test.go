package migrations

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmastore/m/internal/database"
)

func TestRunCreatesSchemaAndIsIdempotent(t *testing.T) {
	db, err := database.Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString()))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Run(db))
	require.NoError(t, Run(db))

	var tables []string
	require.NoError(t, db.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`))
	for _, want := range []string{"drugs", "history", "order_lists", "sales", "stores", "suppliers", "users"} {
		assert.Contains(t, tables, want)
	}
}
