package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode Mode
		want Mode
	}{
		{ModeAuto, ModeMarkdown},
		{"", ModeMarkdown},
		{ModeText, ModeText},
		{ModeJSON, ModeJSON},
		{ModeYAML, ModeYAML},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, tt.mode)
			assert.False(t, r.IsTTY())
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestRenderer_Structured(t *testing.T) {
	v := map[string]int{"passed": 10}

	var buf bytes.Buffer
	ok, err := NewRenderer(&buf, &buf, ModeJSON).Structured(v)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"passed": 10}`, buf.String())

	buf.Reset()
	ok, err = NewRenderer(&buf, &buf, ModeYAML).Structured(v)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "passed: 10\n", buf.String())

	buf.Reset()
	ok, err = NewRenderer(&buf, &buf, ModeText).Structured(v)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, buf.String())
}

func TestRenderer_PlainText(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeText)

	r.Header(1, "Analysis")
	r.StatusLine("NC01", StatusSuccess, "")
	r.StatusLine("MT01", StatusFailed, "2 objects")
	r.Error("boom")

	assert.Equal(t, "Analysis\n\n[ok] NC01\n[fail] MT01  2 objects\n", out.String())
	assert.Equal(t, "boom\n", errOut.String())
}

func TestRenderer_Table(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, &buf, ModeMarkdown).Table([]string{"Name", "Rows"}, [][]string{{"Sales|2024", "1,000"}})
	assert.Equal(t, "| Name | Rows |\n| --- | --- |\n| Sales\\|2024 | 1,000 |\n", buf.String())

	buf.Reset()
	NewRenderer(&buf, &buf, ModeText).Table([]string{"Name"}, [][]string{{"Sales"}})
	assert.Contains(t, buf.String(), "Sales")
	assert.Contains(t, buf.String(), "┌")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Tables", FormatHeader(2, "Tables"))
	assert.Equal(t, "# Tables", FormatHeader(0, "Tables"))
	assert.Equal(t, "- **Score:** 77", FormatKeyValue("Score", "77"))
	assert.Equal(t, "```dax\nSUM(Sales[Amount])\n```", FormatCodeBlock("dax", "SUM(Sales[Amount])\n"))
	assert.Equal(t, "````\na ``` b\n````", FormatCodeBlock("", "a ``` b"))
	assert.Equal(t, "Dax Quality", Title("dax quality"))
	assert.Equal(t, "1,234,567", FormatCount(int64(1234567)))
	assert.Equal(t, "12", FormatCount(12))
	assert.Equal(t, "6,000 B", FormatBytes(6000))
	assert.Equal(t, "a b", EscapeCell("a\nb"))
}
