// Package inspect reads generated studies back with an independent DICOM
// parser and summarizes their metadata as JSON, for cross-checking output
// against other toolchains.
package inspect

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Report summarizes every readable instance file under one directory.
type Report struct {
	SourceDirectory string       `json:"source_directory"`
	FileCount       int          `json:"file_count"`
	Files           []FileRecord `json:"files"`
}

// FileRecord is the per-file metadata extract. Field names mirror the
// lower_snake_case convention of pydicom-based tooling so reports from both
// sides diff cleanly.
type FileRecord struct {
	Filename string `json:"filename"`
	FileSize int64  `json:"file_size"`

	PatientID        string `json:"patient_id,omitempty"`
	PatientName      string `json:"patient_name,omitempty"`
	PatientBirthDate string `json:"patient_birth_date,omitempty"`
	PatientSex       string `json:"patient_sex,omitempty"`

	StudyUID         string `json:"study_uid,omitempty"`
	StudyID          string `json:"study_id,omitempty"`
	StudyDescription string `json:"study_description,omitempty"`
	StudyDate        string `json:"study_date,omitempty"`

	SeriesUID    string `json:"series_uid,omitempty"`
	SeriesNumber int    `json:"series_number,omitempty"`
	Modality     string `json:"modality,omitempty"`

	SOPInstanceUID string `json:"sop_instance_uid,omitempty"`
	InstanceNumber int    `json:"instance_number,omitempty"`

	Rows          int `json:"rows,omitempty"`
	Columns       int `json:"columns,omitempty"`
	BitsAllocated int `json:"bits_allocated,omitempty"`

	Manufacturer   string  `json:"manufacturer,omitempty"`
	Model          string  `json:"model,omitempty"`
	FieldStrength  float64 `json:"field_strength,omitempty"`
	EchoTime       float64 `json:"echo_time,omitempty"`
	RepetitionTime float64 `json:"repetition_time,omitempty"`
	SequenceName   string  `json:"sequence_name,omitempty"`
}

// Extract walks dir for instance files and parses each one. Unreadable
// files are logged and skipped rather than failing the whole report.
func Extract(dir string) (*Report, error) {
	files, err := findInstanceFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no DICOM files found in %s", dir)
	}

	report := &Report{
		SourceDirectory: dir,
		Files:           make([]FileRecord, 0, len(files)),
	}

	for _, path := range files {
		rec, err := extractFile(dir, path)
		if err != nil {
			slog.Warn("skipping unreadable file", "path", path, "error", err)
			continue
		}
		report.Files = append(report.Files, rec)
	}
	report.FileCount = len(report.Files)

	return report, nil
}

// WriteJSON renders the report as indented JSON, to a file when output is
// non-empty and to stdout otherwise.
func (r *Report) WriteJSON(output string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if output == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(output, append(data, '\n'), 0644)
}

// findInstanceFiles collects instance-file candidates: anything ending in
// .dcm plus extension-less IM* files from hierarchical layouts.
func findInstanceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasSuffix(name, ".dcm") ||
			(strings.HasPrefix(name, "IM") && !strings.Contains(name, ".") && name != "DICOMDIR") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func extractFile(dir, path string) (FileRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileRecord{}, err
	}

	ds, err := dicom.ParseFile(path, nil, dicom.SkipPixelData())
	if err != nil {
		return FileRecord{}, err
	}

	rel, err := filepath.Rel(dir, path)
	if err != nil {
		rel = path
	}

	return FileRecord{
		Filename: filepath.ToSlash(rel),
		FileSize: info.Size(),

		PatientID:        stringValue(ds, tag.PatientID),
		PatientName:      stringValue(ds, tag.PatientName),
		PatientBirthDate: stringValue(ds, tag.PatientBirthDate),
		PatientSex:       stringValue(ds, tag.PatientSex),

		StudyUID:         stringValue(ds, tag.StudyInstanceUID),
		StudyID:          stringValue(ds, tag.StudyID),
		StudyDescription: stringValue(ds, tag.StudyDescription),
		StudyDate:        stringValue(ds, tag.StudyDate),

		SeriesUID:    stringValue(ds, tag.SeriesInstanceUID),
		SeriesNumber: intValue(ds, tag.SeriesNumber),
		Modality:     stringValue(ds, tag.Modality),

		SOPInstanceUID: stringValue(ds, tag.SOPInstanceUID),
		InstanceNumber: intValue(ds, tag.InstanceNumber),

		Rows:          intValue(ds, tag.Rows),
		Columns:       intValue(ds, tag.Columns),
		BitsAllocated: intValue(ds, tag.BitsAllocated),

		Manufacturer:   stringValue(ds, tag.Manufacturer),
		Model:          stringValue(ds, tag.ManufacturerModelName),
		FieldStrength:  floatValue(ds, tag.MagneticFieldStrength),
		EchoTime:       floatValue(ds, tag.EchoTime),
		RepetitionTime: floatValue(ds, tag.RepetitionTime),
		SequenceName:   stringValue(ds, tag.SequenceName),
	}, nil
}

// stringValue safely extracts a string value from a parsed dataset.
func stringValue(ds dicom.Dataset, t tag.Tag) string {
	elem, err := ds.FindElementByTag(t)
	if err != nil || elem == nil {
		return ""
	}
	return strings.Trim(elem.Value.String(), " []")
}

// intValue extracts integer-string (IS) or binary integer values.
func intValue(ds dicom.Dataset, t tag.Tag) int {
	elem, err := ds.FindElementByTag(t)
	if err != nil || elem == nil {
		return 0
	}
	switch v := elem.Value.GetValue().(type) {
	case []int:
		if len(v) > 0 {
			return v[0]
		}
	case []string:
		if len(v) > 0 {
			n, _ := strconv.Atoi(strings.TrimSpace(v[0]))
			return n
		}
	}
	return 0
}

// floatValue parses decimal-string (DS) values.
func floatValue(ds dicom.Dataset, t tag.Tag) float64 {
	elem, err := ds.FindElementByTag(t)
	if err != nil || elem == nil {
		return 0
	}
	if v, ok := elem.Value.GetValue().([]string); ok && len(v) > 0 {
		f, _ := strconv.ParseFloat(strings.TrimSpace(v[0]), 64)
		return f
	}
	return 0
}
