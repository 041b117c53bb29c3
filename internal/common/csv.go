// Package common provides shared CSV plumbing for the consolidation
// pipeline: reading record files back in and writing the consolidated
// output, in both overwrite and append modes.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"gastos-csv/internal/logging"
	"gastos-csv/internal/models"
)

var log logging.Logger = logging.NewLogrusAdapter("info", "text")

// Delimiter is the CSV delimiter for both input and output files. It is
// configured once at startup; changing it mid-run is not supported.
var Delimiter rune = ','

// SetDelimiter sets the delimiter for CSV input and output.
func SetDelimiter(delim rune) {
	Delimiter = delim
}

// SetLogger replaces the package logger with a configured one.
func SetLogger(logger logging.Logger) {
	if logger == nil {
		return
	}
	log = logger
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TCSVRow is the struct type that maps to the CSV columns.
func ReadCSVFile[TCSVRow any](filePath string) ([]TCSVRow, error) {
	log.Info("Reading CSV file", logging.F("file", filePath))

	file, err := os.Open(filePath) // #nosec G304 -- user-supplied input path
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	reader := csv.NewReader(file)
	reader.Comma = Delimiter

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	log.Info("Successfully read CSV data", logging.F("count", len(rows)))
	return rows, nil
}

// WriteRecordsToCSV writes the consolidated rows to csvFile, replacing any
// existing content. Parent directories are created as needed.
func WriteRecordsToCSV(rows []models.CSVRow, csvFile string) error {
	if rows == nil {
		return fmt.Errorf("cannot write nil records to CSV")
	}

	log.Info("Writing records to CSV file",
		logging.F("file", csvFile),
		logging.F("count", len(rows)))

	if err := os.MkdirAll(filepath.Dir(csvFile), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile) // #nosec G304 -- user-supplied output path
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := WriteRecords(rows, file); err != nil {
		return err
	}

	log.Info("Successfully wrote records to CSV file",
		logging.F("file", csvFile),
		logging.F("count", len(rows)))
	return nil
}

// AppendRecordsToCSV appends rows to csvFile. The header is written only
// when the file does not exist yet or is empty, so repeated appends build
// one coherent CSV.
func AppendRecordsToCSV(rows []models.CSVRow, csvFile string) error {
	if rows == nil {
		return fmt.Errorf("cannot write nil records to CSV")
	}

	info, err := os.Stat(csvFile)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error inspecting CSV file: %w", err)
	}
	withHeader := os.IsNotExist(err) || info.Size() == 0

	log.Info("Appending records to CSV file",
		logging.F("file", csvFile),
		logging.F("count", len(rows)),
		logging.F("header", withHeader))

	if err := os.MkdirAll(filepath.Dir(csvFile), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.OpenFile(csvFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600) // #nosec G304 -- user-supplied output path
	if err != nil {
		return fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	return marshalRows(rows, file, withHeader)
}

// WriteRecords writes the rows with header to any writer. It backs both the
// file output and the stdout path of the consolidate command.
func WriteRecords(rows []models.CSVRow, w io.Writer) error {
	if rows == nil {
		return fmt.Errorf("cannot write nil records to CSV")
	}
	return marshalRows(rows, w, true)
}

func marshalRows(rows []models.CSVRow, w io.Writer, withHeader bool) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = Delimiter
	safe := gocsv.NewSafeCSVWriter(csvWriter)

	var err error
	if withHeader {
		err = gocsv.MarshalCSV(&rows, safe)
	} else {
		err = gocsv.MarshalCSVWithoutHeaders(&rows, safe)
	}
	if err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}
