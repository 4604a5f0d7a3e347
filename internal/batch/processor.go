// Package batch runs uploaded spreadsheets through normalization and classification.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Kris2339/MEO-PayDay/internal/classifier"
	"github.com/Kris2339/MEO-PayDay/internal/logging"
	"github.com/Kris2339/MEO-PayDay/internal/models"
	"github.com/Kris2339/MEO-PayDay/internal/normalizer"
	"github.com/Kris2339/MEO-PayDay/internal/parsererror"
	"github.com/Kris2339/MEO-PayDay/internal/spreadsheet"
	"github.com/google/uuid"
)

// Input is one uploaded file.
type Input struct {
	Name string
	Data []byte
}

// InputFromFile reads path into an Input named after its base name.
func InputFromFile(path string) (Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Input{}, &parsererror.ReadError{File: filepath.Base(path), Err: err}
	}
	return Input{Name: filepath.Base(path), Data: data}, nil
}

// MarketProducts is the market list as seen by a run.
type MarketProducts interface {
	classifier.ProductSet
	Len() int
}

// Result is the outcome of one run.
type Result struct {
	RunID      string
	Outbound   []models.LabeledRecord
	Inbound    []models.LabeledRecord
	FileErrors []error
	Files      int
}

// Records returns outbound rows followed by inbound rows.
func (r *Result) Records() []models.LabeledRecord {
	out := make([]models.LabeledRecord, 0, len(r.Outbound)+len(r.Inbound))
	out = append(out, r.Outbound...)
	return append(out, r.Inbound...)
}

// Summary counts proposed categories per kind.
func (r *Result) Summary() models.Summary {
	return models.Summarize(r.Records())
}

// ErrorMessages returns the per-file error texts in input order.
func (r *Result) ErrorMessages() []string {
	msgs := make([]string, 0, len(r.FileErrors))
	for _, err := range r.FileErrors {
		msgs = append(msgs, err.Error())
	}
	return msgs
}

// Processor classifies batches of files. It is safe for concurrent use when
// its classifier is.
type Processor struct {
	normalizer *normalizer.Normalizer
	classifier classifier.Classifier
	logger     logging.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(c classifier.Classifier, logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Processor{
		normalizer: normalizer.New(logger),
		classifier: c,
		logger:     logger,
	}
}

// Process runs every input in order. Per-file problems are collected in
// Result.FileErrors; the returned error is reserved for conditions that stop the
// run: no market products, no inputs, no valid rows, or a canceled context.
// With ErrNoValidRows the partial Result is still returned for its file errors.
func (p *Processor) Process(ctx context.Context, inputs []Input, products MarketProducts) (*Result, error) {
	if products == nil || products.Len() == 0 {
		return nil, parsererror.ErrNoMarketProducts
	}
	if len(inputs) == 0 {
		return nil, parsererror.ErrNoInputFiles
	}

	res := &Result{RunID: uuid.NewString(), Files: len(inputs)}
	log := p.logger.WithFields(
		logging.Field{Key: logging.FieldRunID, Value: res.RunID},
		logging.Field{Key: logging.FieldPolicy, Value: string(p.classifier.Policy())},
	)
	start := time.Now()
	log.WithField(logging.FieldCount, len(inputs)).Info("Starting classification run")

	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		kind, labeled, err := p.processFile(in, products, log)
		if err != nil {
			if !parsererror.IsFileError(err) {
				err = &parsererror.ReadError{File: in.Name, Err: err}
			}
			log.WithError(err).WithField(logging.FieldFile, in.Name).Warn("Skipping file")
			res.FileErrors = append(res.FileErrors, err)
			continue
		}

		switch kind {
		case models.SourceOutbound:
			res.Outbound = append(res.Outbound, labeled...)
		case models.SourceInbound:
			res.Inbound = append(res.Inbound, labeled...)
		}
		log.WithFields(
			logging.Field{Key: logging.FieldFile, Value: in.Name},
			logging.Field{Key: logging.FieldKind, Value: string(kind)},
			logging.Field{Key: logging.FieldCount, Value: len(labeled)},
		).Info("Classified file")
	}

	log.WithFields(
		logging.Field{Key: "outbound", Value: len(res.Outbound)},
		logging.Field{Key: "inbound", Value: len(res.Inbound)},
		logging.Field{Key: "file_errors", Value: len(res.FileErrors)},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).String()},
	).Info("Classification run finished")

	if len(res.Outbound) == 0 && len(res.Inbound) == 0 {
		return res, parsererror.ErrNoValidRows
	}
	return res, nil
}

func (p *Processor) processFile(in Input, products classifier.ProductSet, log logging.Logger) (models.SourceKind, []models.LabeledRecord, error) {
	table, err := spreadsheet.Read(in.Name, in.Data)
	if err != nil {
		return "", nil, &parsererror.ReadError{File: in.Name, Err: err}
	}

	kind, records, err := p.normalizer.NormalizeTable(in.Name, table)
	if err != nil {
		return "", nil, err
	}

	explainer, _ := p.classifier.(classifier.Explainer)
	labeled := make([]models.LabeledRecord, 0, len(records))
	for i, rec := range records {
		category := p.classifier.Classify(rec, products)
		labeled = append(labeled, models.NewLabeledRecord(rec, kind, in.Name, category))
		if explainer != nil && rec.TransactionType == models.TypeNormalShip {
			log.Debug("Classified row",
				logging.Field{Key: logging.FieldFile, Value: in.Name},
				logging.Field{Key: "row", Value: i},
				logging.Field{Key: "category", Value: category},
				logging.Field{Key: "rules", Value: explainer.Explain(rec, products)})
		}
	}
	return kind, labeled, nil
}

// IsFatal reports whether err stopped a run rather than skipping a file.
func IsFatal(err error) bool {
	return errors.Is(err, parsererror.ErrNoMarketProducts) ||
		errors.Is(err, parsererror.ErrNoInputFiles) ||
		errors.Is(err, parsererror.ErrNoValidRows)
}

// String renders a short description of the run for logs.
func (r *Result) String() string {
	return fmt.Sprintf("run %s: %d files, %d outbound, %d inbound, %d skipped",
		r.RunID, r.Files, len(r.Outbound), len(r.Inbound), len(r.FileErrors))
}
