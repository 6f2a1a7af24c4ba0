package dataset

import "fmt"

// TaskType is the learning task a dataset is published for.
type TaskType string

const (
	TaskClassification TaskType = "classification"
	TaskRegression     TaskType = "regression"
	TaskForecasting    TaskType = "forecasting"
)

// FileFormat is the format a dataset is downloaded in.
type FileFormat string

const (
	FormatZip  FileFormat = "zip"
	FormatTS   FileFormat = "ts"
	FormatARFF FileFormat = "arff"
	FormatCSV  FileFormat = "csv"
)

// BaseMetadata describes any dataset.
type BaseMetadata struct {
	Name               string     `json:"name"`
	TaskType           TaskType   `json:"task_type"`
	DownloadFileFormat FileFormat `json:"download_file_format"`
}

// Validate checks the name and enumerations.
func (m BaseMetadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("dataset name is required")
	}
	switch m.TaskType {
	case TaskClassification, TaskRegression, TaskForecasting:
	default:
		return fmt.Errorf("unknown task type %q", m.TaskType)
	}
	switch m.DownloadFileFormat {
	case FormatZip, FormatTS, FormatARFF, FormatCSV:
	default:
		return fmt.Errorf("unknown file format %q", m.DownloadFileFormat)
	}
	return nil
}

// ExternalMetadata describes a dataset downloaded from the internet.
type ExternalMetadata struct {
	BaseMetadata
	URL        string   `json:"url"`
	Citation   string   `json:"citation"`
	BackupURLs []string `json:"backup_urls"`
}

// Validate also requires a download URL.
func (m ExternalMetadata) Validate() error {
	if err := m.BaseMetadata.Validate(); err != nil {
		return err
	}
	if m.URL == "" {
		return fmt.Errorf("dataset %s: url is required", m.Name)
	}
	return nil
}

// URLs returns the primary URL followed by the backups.
func (m ExternalMetadata) URLs() []string {
	return append([]string{m.URL}, m.BackupURLs...)
}

// ForecastingMetadata describes a forecasting dataset.
type ForecastingMetadata struct {
	ExternalMetadata
	RecordNumber int `json:"record_number"`
}

// Validate requires the forecasting task type and a non-negative record number.
func (m ForecastingMetadata) Validate() error {
	if err := m.ExternalMetadata.Validate(); err != nil {
		return err
	}
	if m.TaskType != TaskForecasting {
		return fmt.Errorf("dataset %s: task type must be forecasting", m.Name)
	}
	if m.RecordNumber < 0 {
		return fmt.Errorf("dataset %s: negative record number", m.Name)
	}
	return nil
}
