package processor

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv"
	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/csvtext"
	"github.com/xuri/excelize/v2"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// quarterlyWorkbook builds an XLSX document with sheets Q1 and Q2.
func quarterlyWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Q1"))
	_, err := f.NewSheet("Q2")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Q1", "A1", "region"))
	require.NoError(t, f.SetCellValue("Q1", "B1", "total"))
	require.NoError(t, f.SetCellValue("Q1", "A2", "north; east"))
	require.NoError(t, f.SetCellValue("Q1", "B2", 1250))
	require.NoError(t, f.SetCellValue("Q2", "A1", "empty quarter"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestConfigFromProperties(t *testing.T) {
	cfg, err := ConfigFromProperties(nil)
	require.NoError(t, err)
	require.Equal(t, ",", cfg.Delimiter)
	require.Equal(t, csvtext.ExcelStyle, cfg.Convention)
	require.False(t, cfg.UTF8Encoded)
	require.Nil(t, cfg.ExtractSheets)

	cfg, err = ConfigFromProperties(map[string]string{
		PropUTF8Encoded:      "TRUE",
		PropEscapeConvention: "unix",
		PropDelimiter:        "\t",
		PropExtractSheets:    "Q1, q2",
	})
	require.NoError(t, err)
	require.True(t, cfg.UTF8Encoded)
	require.Equal(t, csvtext.UnixStyle, cfg.Convention)
	require.Equal(t, "\t", cfg.Delimiter)
	require.Equal(t, []string{"Q1", "q2"}, cfg.ExtractSheets)

	cfg, err = ConfigFromProperties(map[string]string{PropEscapeConvention: "None"})
	require.NoError(t, err)
	require.Equal(t, csvtext.None, cfg.Convention)
	require.False(t, cfg.ReplaceUnsupported)

	cfg, err = ConfigFromProperties(map[string]string{PropReplaceUnsupported: "true"})
	require.NoError(t, err)
	require.True(t, cfg.ReplaceUnsupported)
}

func TestConfigFromPropertiesInvalid(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]string
	}{
		{"unknown property", map[string]string{"colour": "red"}},
		{"bad boolean", map[string]string{PropUTF8Encoded: "maybe"}},
		{"bad replace flag", map[string]string{PropReplaceUnsupported: "sometimes"}},
		{"bad convention", map[string]string{PropEscapeConvention: "Mac"}},
		{"internal convention name", map[string]string{PropEscapeConvention: "excel"}},
		{"bad charset", map[string]string{PropCharset: "klingon-8"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConfigFromProperties(tt.props)
			require.ErrorIs(t, err, sheetcsv.ErrInvalidConfig)
		})
	}
}

func TestDescriptor(t *testing.T) {
	p := Descriptor(PropEscapeConvention)
	require.NotNil(t, p)
	require.Equal(t, "Windows", p.DefaultValue)
	require.Equal(t, []string{"Windows", "Unix", "None"}, p.AllowedValues)
	require.Nil(t, Descriptor("nope"))
}

func TestOnTrigger(t *testing.T) {
	p, err := New(map[string]string{PropDelimiter: ";"}, discardLogger())
	require.NoError(t, err)

	in := FlowFile{
		Content:    quarterlyWorkbook(t),
		Attributes: map[string]string{AttrFileName: "sales.xlsx", "uuid": "1234"},
	}
	out, err := p.OnTrigger(context.Background(), in)
	require.NoError(t, err)
	require.Nil(t, out.Failure)
	require.Len(t, out.Success, 2)
	require.Equal(t, in.Content, out.Original.Content)
	require.Equal(t, "sales.xlsx", out.Original.Attr(AttrFileName))

	q1 := out.Success[0]
	require.Equal(t, "region;total\n\"north; east\";1250\n", string(q1.Content))
	require.Equal(t, "Q1", q1.Attr(AttrSheetName))
	require.Equal(t, "2", q1.Attr(AttrRowCount))
	require.Equal(t, "sales.xlsx", q1.Attr(AttrSourceName))
	require.Equal(t, "sales-Q1.csv", q1.Attr(AttrFileName))
	require.Equal(t, "text/csv", q1.Attr(AttrMimeType))
	require.Equal(t, "1234", q1.Attr("uuid"))

	require.Equal(t, "sales-Q2.csv", out.Success[1].Attr(AttrFileName))
}

func TestOnTriggerSelectedSheets(t *testing.T) {
	p, err := New(map[string]string{PropExtractSheets: "q2,Missing"}, discardLogger())
	require.NoError(t, err)

	out, err := p.OnTrigger(context.Background(), FlowFile{Content: quarterlyWorkbook(t)})
	require.NoError(t, err)
	require.Nil(t, out.Failure)
	require.Len(t, out.Success, 1)
	require.Equal(t, "Q2", out.Success[0].Attr(AttrSheetName))
	require.Contains(t, out.Success[0].Attr(AttrFileName), ".csv")
}

func TestOnTriggerInvalidDocument(t *testing.T) {
	p, err := New(nil, discardLogger())
	require.NoError(t, err)

	in := FlowFile{
		Content:    []byte("not a spreadsheet"),
		Attributes: map[string]string{AttrFileName: "notes.txt"},
	}
	out, err := p.OnTrigger(context.Background(), in)
	require.NoError(t, err)
	require.Empty(t, out.Success)
	require.NotNil(t, out.Failure)
	require.Contains(t, out.Failure.Attr(AttrError), "invalid spreadsheet document")
	require.Nil(t, out.Failure.Content)
	require.Equal(t, "notes.txt", out.Failure.Attr(AttrFileName))
	require.True(t, bytes.Equal(in.Content, out.Original.Content))
	require.Empty(t, out.Original.Attr(AttrError))
}

func TestOnTriggerCanceled(t *testing.T) {
	p, err := New(nil, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.OnTrigger(ctx, FlowFile{Content: quarterlyWorkbook(t)})
	require.ErrorIs(t, err, context.Canceled)
}
