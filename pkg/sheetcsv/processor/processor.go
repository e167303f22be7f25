package processor

import (
	"bytes"
	"context"
	"log/slog"
	"maps"
	"strconv"

	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv"
	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/models"
)

// Attribute keys written on output flow files.
const (
	AttrSheetName  = "sheet_name"
	AttrRowCount   = "row_count"
	AttrSourceName = "source_name"
	AttrFileName   = "filename"
	AttrMimeType   = "mime_type"
	// AttrError carries the failure message on the failure flow file.
	AttrError = "sheetcsv.error"
)

// Relationship names.
const (
	RelSuccess  = "success"
	RelFailure  = "failure"
	RelOriginal = "original"
)

// FlowFile is a unit of content with string attributes.
type FlowFile struct {
	Content    []byte
	Attributes map[string]string
}

// Attr returns the attribute named key.
func (f FlowFile) Attr(key string) string {
	return f.Attributes[key]
}

// Outcome is the routing of one input flow file.
type Outcome struct {
	// Success holds one flow file per exported sheet.
	Success []FlowFile
	// Failure carries the input's attributes plus AttrError, without
	// content, or is nil. The content travels on Original.
	Failure *FlowFile
	// Original is the unchanged input. It is always set.
	Original FlowFile
}

// Processor converts workbook flow files to delimited text.
// A Processor is safe for concurrent use.
type Processor struct {
	cfg    sheetcsv.Config
	logger *slog.Logger
}

// New creates a Processor from host properties. If logger is nil,
// slog.Default is used.
func New(props map[string]string, logger *slog.Logger) (*Processor, error) {
	cfg, err := ConfigFromProperties(props)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg, logger)
}

// NewWithConfig creates a Processor from an export configuration.
func NewWithConfig(cfg sheetcsv.Config, logger *slog.Logger) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg.Logger = logger
	return &Processor{cfg: cfg, logger: logger}, nil
}

// Config returns the export configuration built from the properties.
func (p *Processor) Config() sheetcsv.Config {
	return p.cfg
}

// OnTrigger converts one input. The source name is taken from the input's
// filename attribute. Sheets that export successfully are routed to
// success even when other sheets fail.
func (p *Processor) OnTrigger(ctx context.Context, in FlowFile) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &Outcome{Original: in}
	sourceName := in.Attr(AttrFileName)
	res := sheetcsv.Convert(bytes.NewReader(in.Content), sourceName, p.cfg)

	for _, doc := range res.Documents {
		out.Success = append(out.Success, p.documentFlowFile(in, doc))
	}
	if err := res.Failed(); err != nil {
		failed := FlowFile{Attributes: cloneAttrs(in.Attributes)}
		failed.Attributes[AttrError] = err.Error()
		out.Failure = &failed
		p.logger.Error("failed to process incoming workbook", "source", sourceName, "error", err)
	}

	p.logger.Info("processed workbook", "source", sourceName,
		RelSuccess, len(out.Success), RelFailure, out.Failure != nil)
	return out, nil
}

// documentFlowFile builds a child flow file that inherits the parent's attributes.
func (p *Processor) documentFlowFile(parent FlowFile, doc *models.ExportedDocument) FlowFile {
	attrs := cloneAttrs(parent.Attributes)
	attrs[AttrSheetName] = doc.SheetName
	attrs[AttrRowCount] = strconv.Itoa(doc.RowCount)
	attrs[AttrSourceName] = doc.SourceName
	attrs[AttrFileName] = doc.FileName
	attrs[AttrMimeType] = doc.MimeType
	return FlowFile{Content: doc.Content, Attributes: attrs}
}

func cloneAttrs(attrs map[string]string) map[string]string {
	out := make(map[string]string, len(attrs)+5)
	maps.Copy(out, attrs)
	return out
}
