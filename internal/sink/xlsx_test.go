package sink

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func readSheet(t *testing.T, path, name string) [][]string {
	t.Helper()
	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet, ok := file.Sheet[name]
	require.True(t, ok, "sheet %s missing", name)

	var out [][]string
	for _, row := range sheet.Rows {
		var vals []string
		for _, c := range row.Cells {
			vals = append(vals, c.String())
		}
		out = append(out, vals)
	}
	return out
}

func TestXLSX_CreatesWorkbookWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	s := NewXLSX(path, "")

	require.NoError(t, s.AppendRows(context.Background(), sampleLeads()))

	rows := readSheet(t, path, "Leads")
	require.Len(t, rows, 3)
	assert.Equal(t, model.LeadColumns, rows[0])
	assert.Equal(t, []string{
		"Iron Temple Gym", "info@irontemple.in", "+91 98765 43210", "4.5",
		"https://irontemple.in", "Mall Road, Bageshwar", "True", "Hi,\n\nBody.\n\n[Your Name]",
	}, rows[1])
	assert.Equal(t, "N/A", rows[2][4])
	assert.Equal(t, "False", rows[2][6])
}

func TestXLSX_AppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	s := NewXLSX(path, "Leads")

	require.NoError(t, s.AppendRows(context.Background(), sampleLeads()))
	require.NoError(t, s.AppendRows(context.Background(), sampleLeads()[:1]))

	rows := readSheet(t, path, "Leads")
	require.Len(t, rows, 4)
	assert.Equal(t, model.LeadColumns, rows[0])
	assert.Equal(t, "Iron Temple Gym", rows[3][0])
}

func TestXLSX_HeaderInsertedAboveExistingData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Leads")
	require.NoError(t, err)
	row := sheet.AddRow()
	row.AddCell().SetString("Legacy Business")
	require.NoError(t, file.Save(path))

	require.NoError(t, NewXLSX(path, "Leads").AppendRows(context.Background(), sampleLeads()[:1]))

	rows := readSheet(t, path, "Leads")
	require.Len(t, rows, 3)
	assert.Equal(t, model.LeadColumns, rows[0])
	assert.Equal(t, "Legacy Business", rows[1][0])
	assert.Equal(t, "Iron Temple Gym", rows[2][0])
}

func TestXLSX_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	s := NewXLSX(path, "Leads")
	require.NoError(t, s.AppendRows(context.Background(), sampleLeads()))

	require.NoError(t, s.Clear(context.Background()))

	rows := readSheet(t, path, "Leads")
	require.Len(t, rows, 1)
	assert.Equal(t, model.LeadColumns, rows[0])
}

func TestXLSX_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewXLSX(filepath.Join(t.TempDir(), "x.xlsx"), "").AppendRows(ctx, sampleLeads())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestXLSX_OpenError(t *testing.T) {
	dir := t.TempDir()
	// A directory is not a workbook.
	err := NewXLSX(dir, "Leads").AppendRows(context.Background(), sampleLeads())
	assert.Error(t, err)
}
