package dataprocessing

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheets map[string][][]string) string {
	t.Helper()

	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			cells := make([]interface{}, len(row))
			for j, v := range row {
				cells[j] = v
			}
			require.NoError(t, f.SetSheetRow(name, cell, &cells))
		}
	}

	path := filepath.Join(t.TempDir(), "dataset.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestReadExcel(t *testing.T) {
	t.Run("named sheet is read directly", func(t *testing.T) {
		path := writeWorkbook(t, map[string][][]string{
			"Surveillance": {
				{"surgery_date", "procedure", "ssi"},
				{"2017-01-05", "CABG", "0"},
				{"2017-01-09", "Hip", "1"},
			},
		})

		dataset, err := ReadExcel(context.Background(), testLogger(), path, "Surveillance")
		require.NoError(t, err)
		assert.Equal(t, []string{"surgery_date", "procedure", "ssi"}, dataset.Columns)
		require.Len(t, dataset.Rows, 2)
		assert.Equal(t, "Hip", dataset.Rows[1]["procedure"])
	})

	t.Run("data sheet is discovered by its header", func(t *testing.T) {
		path := writeWorkbook(t, map[string][][]string{
			"Data": {
				{"surgery_date", "procedure", "ssi"},
				{"2017-01-05", "CABG", "0"},
			},
		})

		dataset, err := ReadExcel(context.Background(), testLogger(), path, "")
		require.NoError(t, err)
		require.Len(t, dataset.Rows, 1)
		assert.Equal(t, "CABG", dataset.Rows[0]["procedure"])
	})

	t.Run("leading banner rows are skipped", func(t *testing.T) {
		path := writeWorkbook(t, map[string][][]string{
			"Report": {
				{"Quarterly Surveillance Extract"},
				{},
				{"date", "category", "infection"},
				{"2017-03-01", "Knee", "0"},
			},
		})

		dataset, err := ReadExcel(context.Background(), testLogger(), path, "Report")
		require.NoError(t, err)
		assert.Equal(t, []string{"date", "category", "infection"}, dataset.Columns)
		require.Len(t, dataset.Rows, 1)
		assert.Equal(t, "Knee", dataset.Rows[0]["category"])
	})

	t.Run("missing sheet is an error", func(t *testing.T) {
		path := writeWorkbook(t, map[string][][]string{
			"Data": {{"date", "ssi"}, {"2017-01-05", "0"}},
		})

		_, err := ReadExcel(context.Background(), testLogger(), path, "Nope")
		assert.Error(t, err)
	})
}
