package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SKR35/FCC-Synthetic-TM/internal/database"
	apperr "github.com/SKR35/FCC-Synthetic-TM/internal/errors"
	"github.com/SKR35/FCC-Synthetic-TM/internal/model"
	"github.com/SKR35/FCC-Synthetic-TM/internal/schema"
	"github.com/SKR35/FCC-Synthetic-TM/internal/store"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

var Formats = []string{FormatJSON, FormatYAML, FormatCSV}

// Document is the JSON/YAML export layout. Rows are positional so that
// columns keep their schema order.
type Document struct {
	ExportedAt string      `json:"exported_at" yaml:"exported_at"`
	Provider   string      `json:"provider" yaml:"provider"`
	Tables     []TableDump `json:"tables" yaml:"tables"`
}

type TableDump struct {
	Name    string          `json:"name" yaml:"name"`
	Columns []string        `json:"columns" yaml:"columns"`
	Rows    [][]interface{} `json:"rows" yaml:"rows"`
}

// Export dumps the four entity tables under dir and returns the written file
// (json, yaml) or directory (csv).
func Export(ctx context.Context, q database.Querier, d database.Dialect, dir, format string, now time.Time) (string, error) {
	switch format {
	case FormatJSON, FormatYAML, FormatCSV:
	default:
		return "", apperr.InvalidArgument("unsupported export format: %s. Supported formats: %v", format, Formats)
	}

	doc, err := collect(ctx, q, d, now)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperr.InvalidPath(dir, err)
	}

	stamp := now.UTC().Format("2006-01-02_15-04-05")
	switch format {
	case FormatCSV:
		return exportToCSV(doc, filepath.Join(dir, fmt.Sprintf("export_%s_csv", stamp)))
	case FormatYAML:
		return exportToYAML(doc, filepath.Join(dir, fmt.Sprintf("export_%s.yaml", stamp)))
	default:
		return exportToJSON(doc, filepath.Join(dir, fmt.Sprintf("export_%s.json", stamp)))
	}
}

func collect(ctx context.Context, q database.Querier, d database.Dialect, now time.Time) (Document, error) {
	if err := schema.Verify(ctx, q, d); err != nil {
		return Document{}, err
	}

	order, err := schema.InsertionOrder()
	if err != nil {
		return Document{}, err
	}

	st := store.New(q, d)
	doc := Document{
		ExportedAt: now.UTC().Format(model.TimeLayout),
		Provider:   d.Provider,
	}
	for _, name := range order {
		table := schema.Lookup(name)
		data, err := st.TableData(ctx, table)
		if err != nil {
			return Document{}, err
		}

		dump := TableDump{Name: table.Name, Columns: table.Columns, Rows: make([][]interface{}, 0, len(data))}
		for _, row := range data {
			values := make([]interface{}, len(table.Columns))
			for i, col := range table.Columns {
				values[i] = row[col]
			}
			dump.Rows = append(dump.Rows, values)
		}
		doc.Tables = append(doc.Tables, dump)
	}
	return doc, nil
}

func exportToJSON(doc Document, filePath string) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return filePath, nil
}

func exportToYAML(doc Document, filePath string) (string, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal data: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return filePath, nil
}

func exportToCSV(doc Document, dirPath string) (string, error) {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create CSV directory: %w", err)
	}

	for _, table := range doc.Tables {
		if err := writeCSV(filepath.Join(dirPath, table.Name+".csv"), table); err != nil {
			return "", err
		}
	}
	return dirPath, nil
}

func writeCSV(filePath string, table TableDump) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file for %s: %w", table.Name, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(table.Columns); err != nil {
		return err
	}

	for _, row := range table.Rows {
		values := make([]string, len(row))
		for i, v := range row {
			if v != nil {
				values[i] = fmt.Sprintf("%v", v)
			}
		}
		if err := writer.Write(values); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write CSV for %s: %w", table.Name, err)
	}
	return nil
}
