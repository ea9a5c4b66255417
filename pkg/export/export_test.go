package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sample() Dataset {
	return Dataset{
		Title:   "At-risk students",
		Headers: []string{"Name", "Level"},
		Rows: []map[string]string{
			{"Name": "Ana", "Level": "critical"},
			{"Name": "Ben, Jr", "Level": "warning"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("docx")
	assert.Error(t, err)
}

func TestCSVRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sample())
	require.NoError(t, err)
	assert.Equal(t, "Name,Level\nAna,critical\n\"Ben, Jr\",warning\n", string(out))
}

func TestCSVRenderNeutralizesFormulas(t *testing.T) {
	data := Dataset{
		Headers: []string{"Name", "Delta"},
		Rows: []map[string]string{
			{"Name": `=HYPERLINK("x")`, "Delta": "-2.5"},
			{"Name": "@cmd", "Delta": "-sum"},
		},
	}
	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Name,Delta\n\"'=HYPERLINK(\"\"x\"\")\",-2.5\n'@cmd,'-sum\n", string(out))
}

func TestRenderRequiresHeaders(t *testing.T) {
	for _, format := range []Format{FormatCSV, FormatPDF, FormatXLSX} {
		_, err := NewRegistry().Render(format, Dataset{})
		assert.Error(t, err, format)
	}
}

func TestPDFRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sample())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXRender(t *testing.T) {
	out, err := NewRegistry().Render(FormatXLSX, sample())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue(defaultSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Ben, Jr", value)
	value, err = f.GetCellValue(defaultSheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Level", value)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
}
