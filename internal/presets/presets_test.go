package presets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gifty/pkg/wizard"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.Equal(t, []string{FlowPerfect, FlowQuick}, c.Names())

	perfect, err := c.Flow(FlowPerfect)
	require.NoError(t, err)
	require.Len(t, perfect.Steps, 4)
	assert.Equal(t, "Budget", perfect.Steps[3].Title)
	assert.Contains(t, perfect.Steps[0].Options, "Just Because")
	assert.Contains(t, perfect.Steps[1].Options, "Other Family")
	assert.Len(t, perfect.Steps[2].Options, 11)

	quick, err := c.Flow(FlowQuick)
	require.NoError(t, err)
	assert.Equal(t, "Details", quick.Steps[3].Title)
	assert.Contains(t, quick.Steps[3].DetailFields, wizard.DetailAge)
	assert.Equal(t, perfect.Steps[2].Options, quick.Steps[2].Options)
}

func TestUnknownFlow(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	_, err = c.Flow("express")
	assert.ErrorIs(t, err, ErrUnknownFlow)
	_, err = c.Engine("express")
	assert.ErrorIs(t, err, ErrUnknownFlow)
}

func TestLoadOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
flows:
  - name: tiny
    steps:
      - {key: o, field: occasion, kind: single, options: [Birthday]}
      - {key: r, field: recipient, kind: single, options: [Friend]}
      - {key: i, field: interests, kind: multi, options: [Art]}
      - {key: b, field: details, kind: details}
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"tiny"}, c.Names())

	e, err := c.Engine("tiny")
	require.NoError(t, err)
	s, err := e.Select(e.Start(), "Birthday")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Step)
}

func TestParseRejectsBrokenFlows(t *testing.T) {
	_, err := Parse([]byte("flows: []"))
	assert.Error(t, err)

	_, err = Parse([]byte(`
flows:
  - name: broken
    steps:
      - {key: b, field: details, kind: details}
`))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
