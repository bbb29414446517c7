package modelcard

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cardops/modelcard/domain/model"
)

// writeFile writes content into a new file under t.TempDir and returns its path.
func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

// gzipBytes compresses data with gzip.
func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// zstdBytes compresses data with zstd.
func zstdBytes(t *testing.T, data []byte) []byte {
	t.Helper()

	w, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer w.Close()
	return w.EncodeAll(data, nil)
}

// writeXLSX saves a workbook whose first sheet holds rows and returns its path.
// A nil cell is left unset.
func writeXLSX(t *testing.T, name string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, axis, v))
		}
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return path
}

// rec builds a record from alternating keys and values.
func rec(kv ...any) *model.Record {
	r := model.NewRecord(len(kv) / 2)
	for i := 0; i+1 < len(kv); i += 2 {
		v, err := model.ValueOf(kv[i+1])
		if err != nil {
			panic(err)
		}
		r.Set(kv[i].(string), v)
	}
	return r
}

// recordsJSON encodes records the way the upload endpoint does.
func recordsJSON(t *testing.T, records []*model.Record) string {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := r.MarshalJSON()
		require.NoError(t, err)
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.String()
}
