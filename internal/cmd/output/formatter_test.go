package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostersync/internal/cmd/table"
	"github.com/agentstation/rostersync/pkg/errors"
)

type row struct {
	GroupName string `json:"group_name"`
	Count     int    `json:"count"`
	Secret    string `json:"-"`
	hidden    string
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "WIDE", "json", "yaml", ""} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("xml")
	assert.True(t, errors.IsValidationError(err))
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestTableFormatterData(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(FormatTable).Format(&buf, table.Data{
		Headers: []string{"Group", "Applied"},
		Rows:    [][]string{{"Faculty", "3"}},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Faculty")
	assert.Contains(t, buf.String(), "3")
}

func TestTableFormatterReflectsStructSlices(t *testing.T) {
	d := toData([]row{{GroupName: "Faculty", Count: 2, Secret: "x", hidden: "y"}})
	require.NotNil(t, d)
	assert.Equal(t, []string{"Group Name", "Count"}, d.Headers)
	assert.Equal(t, [][]string{{"Faculty", "2"}}, d.Rows)
}

func TestTableFormatterReflectsStruct(t *testing.T) {
	d := toData(&row{GroupName: "Faculty"})
	require.NotNil(t, d)
	assert.Equal(t, [][]string{{"Group Name", "Faculty"}, {"Count", "0"}}, d.Rows)
}

func TestJSONAndYAML(t *testing.T) {
	data := row{GroupName: "Faculty", Count: 2, Secret: "x"}

	var js bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&js, data))
	assert.JSONEq(t, `{"group_name":"Faculty","count":2}`, js.String())

	var ym bytes.Buffer
	require.NoError(t, NewFormatter(FormatYAML).Format(&ym, map[string]int{"count": 2}))
	assert.Equal(t, "count: 2\n", ym.String())
}

func TestIsTable(t *testing.T) {
	assert.True(t, FormatTable.IsTable())
	assert.True(t, FormatWide.IsTable())
	assert.True(t, Format("").IsTable())
	assert.False(t, FormatJSON.IsTable())
}
