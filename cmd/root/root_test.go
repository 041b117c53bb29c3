package root_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gastos-csv/cmd/root"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "gastos-csv", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "consolidate monthly expense spreadsheets")
	assert.Contains(t, root.Cmd.Long, "normalized CSV ledger")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRun)
}

func TestRootCommand_DefaultLogger(t *testing.T) {
	assert.NotNil(t, root.Log)
}
