package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	data := `term,translation,sentence
perro, dog ,El perro ladra
gato,cat

,,
"pájaro","bird","El pájaro, pequeño, canta"
sol,
`
	res, err := ReadCSV(strings.NewReader(data), DefaultConfig("words.csv"))
	require.NoError(t, err)

	require.Len(t, res.Items, 3)
	assert.Equal(t, "perro", res.Items[0].Term)
	assert.Equal(t, "dog", res.Items[0].Translation)
	assert.Equal(t, "El perro ladra", res.Items[0].ExampleSentence)
	assert.Equal(t, "", res.Items[1].ExampleSentence)
	assert.Equal(t, "El pájaro, pequeño, canta", res.Items[2].ExampleSentence)

	assert.Equal(t, 4, res.Processed)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "row 6")
}

func TestRead_CSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	require.NoError(t, os.WriteFile(path, []byte("casa,house\nmesa,table\n"), 0o644))

	cfg := DefaultConfig(path)
	cfg.StartRow = 1
	res, err := Read(cfg)
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
}

func TestRead_Excel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.xlsx")
	f := excelize.NewFile()
	rows := [][]string{
		{"Term", "Translation", "Sentence"},
		{"perro", "dog", "El perro ladra"},
		{"gato", "cat", ""},
		{"", "orphan", ""},
	}
	for i, row := range rows {
		for j, v := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", name, v))
		}
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	res, err := Read(DefaultConfig(path))
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "perro", res.Items[0].Term)
	assert.Equal(t, "El perro ladra", res.Items[0].ExampleSentence)
	assert.Equal(t, "cat", res.Items[1].Translation)
	assert.Len(t, res.Errors, 1)
}

func TestRead_UnsupportedExtension(t *testing.T) {
	_, err := Read(DefaultConfig("words.txt"))
	assert.Error(t, err)
}

func TestColumnToIndex(t *testing.T) {
	tests := map[string]int{"A": 0, "b": 1, "Z": 25, "AA": 26, "": -1, "1": -1}
	for in, want := range tests {
		assert.Equal(t, want, columnToIndex(in), in)
	}
}
