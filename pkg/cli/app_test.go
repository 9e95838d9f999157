package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
}

func TestNewApp(t *testing.T) {
	app := newApp()
	require.NotNil(t, app)
	assert.Equal(t, "carriervet", app.Name)

	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "auth")
	assert.Contains(t, names, "check")
	assert.Contains(t, names, "server")
}

func TestReadSignalsFile(t *testing.T) {
	dir := t.TempDir()

	yml := dir + "/sig.yaml"
	writeFile(t, yml, "insuranceHolderThirdParty: true\ngrowthTrendPct: 4.2\n")
	sig, err := readSignalsFile(yml)
	require.NoError(t, err)
	assert.True(t, sig.InsuranceHolderThirdParty)
	assert.Equal(t, 4.2, sig.GrowthTrendPct)

	jsn := dir + "/sig.json"
	writeFile(t, jsn, `{"load_reposting_observed":true,"reposting_disclosed":false}`)
	sig, err = readSignalsFile(jsn)
	require.NoError(t, err)
	assert.True(t, sig.LoadRepostingObserved)
	assert.False(t, sig.RepostingDisclosed)

	_, err = readSignalsFile(dir + "/missing.json")
	assert.Error(t, err)
}
