package consolidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsolidateCommand_Flags(t *testing.T) {
	inputsFlag := Cmd.Flags().Lookup("inputs")
	require.NotNil(t, inputsFlag)
	assert.Equal(t, "i", inputsFlag.Shorthand)

	fxFlag := Cmd.Flags().Lookup("fx")
	require.NotNil(t, fxFlag)
	assert.Equal(t, "f", fxFlag.Shorthand)

	outputFlag := Cmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
	assert.Equal(t, "", outputFlag.DefValue)

	for _, name := range []string{"append", "from-year", "to-year", "skip-enrich", "rate-limit"} {
		assert.NotNil(t, Cmd.Flags().Lookup(name), "flag %s", name)
	}
}

func TestConsolidateCommand_Metadata(t *testing.T) {
	assert.Equal(t, "consolidate", Cmd.Use)
	assert.NotNil(t, Cmd.Run)
}
