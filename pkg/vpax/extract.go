package vpax

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/leapstack-labs/pbiassist/pkg/core"
)

// Extractor runs the extraction pipeline. The zero value is usable and logs nothing.
type Extractor struct {
	Logger *slog.Logger
}

// NewExtractor returns an Extractor logging to logger (nil discards).
func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{Logger: logger}
}

// Extract parses an export with a silent Extractor.
func Extract(data []byte) (*core.ProcessedData, error) {
	return (&Extractor{}).Extract(data)
}

// ExtractFile reads and parses the export at path.
func ExtractFile(path string) (*core.ProcessedData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	return Extract(data)
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

// archive is the opened zip container.
type archive struct {
	names []string
	files map[string]*zip.File
}

func openArchive(data []byte) (*archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	a := &archive{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		a.names = append(a.names, f.Name)
		a.files[f.Name] = f
	}
	return a, nil
}

func (a *archive) read(name string) ([]byte, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("entry %q not found", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Extract parses an export archive. It fails only with a *FormatError; every other
// anomaly is logged and replaced by a default.
func (e *Extractor) Extract(data []byte) (*core.ProcessedData, error) {
	log := e.logger()

	arc, err := openArchive(data)
	if err != nil {
		return nil, newFormatError(ReasonNotArchive, err, nil)
	}
	log.Debug("opened export", "entries", len(arc.names))

	modelEntry, ok := Locate(arc.names, ModelDefinitionStrategies()...)
	if !ok {
		return nil, newFormatError(ReasonModelNotFound, nil, arc.names)
	}
	raw, err := arc.read(modelEntry)
	if err != nil {
		return nil, newFormatError(ReasonModelUnparseable, err, nil)
	}
	model, err := ParseDocument(raw)
	if err != nil {
		return nil, newFormatError(ReasonModelUnparseable, err, nil)
	}
	log.Debug("model definition located", "entry", modelEntry)

	names := e.loadOptional(arc, "name document", NameDocumentStrategies())

	out := &core.ProcessedData{}
	m := deriveTables(model, log)
	out.Tables = m.tables
	out.Expressions = m.expressions

	out.Summary.Add(core.AttrModelName, modelName(names, model))
	out.Summary.Add(core.AttrLastModified, lastModified(names, model))
	out.Summary.Add(core.AttrTotalSize, modelSize(m.totalSize, m.liveQuery))
	out.Summary.Add(core.AttrTables, strconv.Itoa(len(m.tables)))
	out.Summary.Add(core.AttrPartitions, strconv.Itoa(m.partitions))
	if m.maxRows > 0 {
		out.Summary.Add(core.AttrMaxRowCount, strconv.FormatInt(m.maxRows, 10))
	} else {
		out.Summary.Add(core.AttrMaxRowCount, core.NotAvailable)
	}
	out.Summary.Add(core.AttrTotalColumns, strconv.Itoa(m.columns))
	out.Summary.Add(core.AttrTotalMeasures, strconv.Itoa(m.measures))

	stats := e.loadOptional(arc, "statistics document", StatisticsStrategies(modelEntry))
	if stats == nil {
		log.Warn("no statistics document, sizes come from the model definition only")
	} else {
		s := parseStatistics(stats)
		out.Columns = s.columns
		out.Measures = s.measures
		out.Relationships = s.relationships
		mergeTableStatistics(out.Tables, s.tables, m.liveQuery)
	}
	out.Summary.Add(core.AttrTotalRelationships, strconv.Itoa(len(out.Relationships)))

	log.Info("model extracted",
		"model", out.Summary.Value[0],
		"tables", len(out.Tables),
		"columns", len(out.Columns),
		"measures", len(out.Measures),
		"relationships", len(out.Relationships))
	return out, nil
}

// loadOptional locates and parses a document that may be absent or broken.
func (e *Extractor) loadOptional(arc *archive, what string, strategies []Strategy) *Document {
	log := e.logger()
	entry, ok := Locate(arc.names, strategies...)
	if !ok {
		log.Warn(what + " not found")
		return nil
	}
	raw, err := arc.read(entry)
	if err != nil {
		log.Warn(what+" unreadable", "entry", entry, "error", err)
		return nil
	}
	doc, err := ParseDocument(raw)
	if err != nil {
		log.Warn(what+" unparseable", "entry", entry, "error", err)
		return nil
	}
	log.Debug(what+" located", "entry", entry)
	return doc
}

// modelTables holds the table-level results derived from the model definition.
type modelTables struct {
	tables      []core.TableRecord
	expressions []core.ExpressionRecord
	totalSize   int64
	partitions  int
	maxRows     int64
	columns     int
	measures    int
	liveQuery   bool
}

func deriveTables(model *Document, log *slog.Logger) modelTables {
	var m modelTables

	tables := model.First("model.tables", "model.Tables", "tables", "Tables")
	if !tables.IsArray() {
		log.Warn("model definition has no tables")
	}
	for _, t := range tables.Array() {
		rec := core.TableRecord{
			Name:      firstString(t, "name", "Name"),
			IsHidden:  first(t, "isHidden", "IsHidden").Bool(),
			TotalSize: first(t, "estimatedSize", "EstimatedSize").Int(),
		}
		if rec.Name == "" {
			log.Debug("table without a name")
		}

		parts := first(t, "partitions", "Partitions").Array()
		rec.Partitions = len(parts)
		m.partitions += len(parts)
		expr := ""
		for i, p := range parts {
			rec.Rows += first(p, "rows", "Rows").Int()
			mode := firstString(p, "mode", "Mode")
			if strings.Contains(strings.ToLower(mode), "directquery") {
				m.liveQuery = true
			}
			if i > 0 {
				continue
			}
			rec.Mode = mode
			modified := firstString(p, "modifiedTime", "ModifiedTime")
			refreshed := firstString(p, "refreshedTime", "RefreshedTime")
			rec.ModifiedTime = orElse(modified, refreshed)
			rec.RefreshedTime = orElse(refreshed, modified)
			expr = text(first(p, "source.expression", "Source.Expression"))
		}
		rec.RelationshipsSize = rec.TotalSize - rec.ColumnsSize

		m.columns += len(first(t, "columns", "Columns").Array())
		m.measures += len(first(t, "measures", "Measures").Array())
		m.totalSize += rec.TotalSize
		if rec.Rows > m.maxRows {
			m.maxRows = rec.Rows
		}

		m.tables = append(m.tables, rec)
		m.expressions = append(m.expressions, core.ExpressionRecord{TableName: rec.Name, Expression: expr})
	}

	for i := range m.tables {
		m.tables[i].PctOfTotalSize = percent(m.tables[i].TotalSize, m.totalSize)
	}
	return m
}

func modelName(names, model *Document) string {
	if names != nil {
		if v := firstString(names.root, "ModelName.Name", "ModelName", "Name", "name"); v != "" {
			return v
		}
	}
	if v := firstString(model.root, "name", "Name", "model.name", "model.Name"); v != "" {
		return v
	}
	return core.Unknown
}

func lastModified(names, model *Document) string {
	v := ""
	if names != nil {
		v = firstString(names.root, "LastUpdate", "LastDataRefresh")
	}
	if v == "" {
		v = firstString(model.root, "lastUpdate", "model.lastUpdate", "lastSchemaUpdate", "lastProcessed")
	}
	if v == "" {
		return core.NotAvailable
	}
	if len(v) > 10 {
		v = v[:10]
	}
	return v
}

// modelSize renders the total model size in GB.
func modelSize(total int64, liveQuery bool) string {
	if liveQuery && total == 0 {
		return core.SizeNotAvailable
	}
	return fmt.Sprintf("%.3f GB", float64(total)/(1024*1024*1024))
}

// percent renders part as a percentage of total.
func percent(part, total int64) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", float64(part)/float64(total)*100)
}

func orElse(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
