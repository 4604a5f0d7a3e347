// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"strings"

	"github.com/Kris2339/MEO-PayDay/internal/batch"
	"github.com/Kris2339/MEO-PayDay/internal/common"
	"github.com/Kris2339/MEO-PayDay/internal/fileutils"
	"github.com/Kris2339/MEO-PayDay/internal/logging"
	"github.com/Kris2339/MEO-PayDay/internal/models"
	"github.com/Kris2339/MEO-PayDay/internal/parsererror"
	"github.com/Kris2339/MEO-PayDay/internal/spreadsheet"
)

// Output formats accepted by WriteOutput.
const (
	OutputXLSX = "xlsx"
	OutputCSV  = "csv"
)

// CollectInputs loads every argument as a batch input. Directories are
// expanded to the spreadsheets they contain. Files that cannot be read are
// returned as errors alongside the inputs that could.
func CollectInputs(args []string, log logging.Logger) ([]batch.Input, []error) {
	var inputs []batch.Input
	var errs []error

	for _, arg := range args {
		paths := []string{arg}
		if fileutils.DirectoryExists(arg) {
			listed, err := fileutils.ListFiles(arg, spreadsheet.IsSpreadsheet)
			if err != nil {
				errs = append(errs, &parsererror.ReadError{File: arg, Err: err})
				continue
			}
			log.Debug("Expanded input directory",
				logging.Field{Key: logging.FieldFile, Value: arg},
				logging.Field{Key: logging.FieldCount, Value: len(listed)})
			paths = listed
		}

		for _, path := range paths {
			in, err := batch.InputFromFile(path)
			if err != nil {
				log.WithError(err).Warn("Skipping unreadable input",
					logging.Field{Key: logging.FieldFile, Value: path})
				errs = append(errs, err)
				continue
			}
			inputs = append(inputs, in)
		}
	}
	return inputs, errs
}

// ResolveOutputFormat picks the output format from an explicit value or
// from the extension of the output path.
func ResolveOutputFormat(format, outputFile string) (string, error) {
	switch strings.ToLower(format) {
	case OutputXLSX, OutputCSV:
		return strings.ToLower(format), nil
	case "":
		if strings.HasSuffix(strings.ToLower(outputFile), ".csv") {
			return OutputCSV, nil
		}
		return OutputXLSX, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteOutput writes the classified records to outputFile.
func WriteOutput(outputFile, format, sheet string, records []models.LabeledRecord, delimiter rune, log logging.Logger) error {
	switch format {
	case OutputCSV:
		return common.WriteRecordsToCSVFile(outputFile, records, delimiter, log)
	case OutputXLSX:
		if err := spreadsheet.WriteResultFile(outputFile, sheet, records); err != nil {
			return err
		}
		log.Info("Successfully wrote result workbook",
			logging.Field{Key: logging.FieldOutputFile, Value: outputFile},
			logging.Field{Key: logging.FieldCount, Value: len(records)})
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
