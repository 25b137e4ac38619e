package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	v1 "github.com/rsview/rsview/internal/storage/memory/export/v1"
)

func baseName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}

// exportName builds "<table>_<yyyymmdd_hhmmss>.overlay.json[.gz]".
func (b *Backend) exportName() string {
	table := strings.TrimSuffix(baseName(b.run.TablePath), filepath.Ext(b.run.TablePath))
	if table == "" {
		table = "overlay"
	}
	table = strings.NewReplacer(" ", "_", ":", "_").Replace(table)

	name := fmt.Sprintf("%s_%s.overlay.json", table, b.run.StartTime.Format("20060102_150405"))
	if b.cfg.CompressOutput {
		name += ".gz"
	}
	return name
}

// exportJSON writes the current run to OutputDir.
func (b *Backend) exportJSON() error {
	export := v1.Build(b.run, b.overlay)

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	outputPath := filepath.Join(b.cfg.OutputDir, b.exportName())

	var err error
	if b.cfg.CompressOutput {
		err = writeGzipJSON(outputPath, export)
	} else {
		err = writeJSON(outputPath, export)
	}
	if err != nil {
		return err
	}

	b.lastExportPath = outputPath
	return nil
}

func writeJSON(path string, data v1.Export) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(data)
}

func writeGzipJSON(path string, data v1.Export) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	if err := json.NewEncoder(gzWriter).Encode(data); err != nil {
		_ = gzWriter.Close()
		return err
	}
	return gzWriter.Close()
}
