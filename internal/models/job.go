package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// JobStatus represents the status of a hand-off job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// JobType represents the kind of work the external runner is asked to do
type JobType string

const (
	JobTypeWatermarkRemoval JobType = "watermark_removal"
)

// Default inpainting backend requested from the runner
const DefaultInpaintMethod = "opencv"

// Job is the record the editor hands to the external batch runner when a
// mask set is submitted for processing.
type Job struct {
	gorm.Model
	Type       JobType    `json:"type" gorm:"not null;index:idx_jobs_type_status"`
	Status     JobStatus  `json:"status" gorm:"default:'pending';index:idx_jobs_type_status"`
	Payload    JobPayload `json:"payload" gorm:"type:json"`
	MaxRetries int        `json:"max_retries" gorm:"default:3"`
	RetryCount int        `json:"retry_count" gorm:"default:0"`

	// Submission context
	SessionID     string `json:"session_id" gorm:"index"`
	VideoURL      string `json:"video_url"`
	Filename      string `json:"filename"`
	InpaintMethod string `json:"inpaint_method" gorm:"default:'opencv'"`
	MaskCount     int    `json:"mask_count"`

	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Error       string     `json:"error,omitempty"`

	// Metadata
	CreatedBy string `json:"created_by,omitempty" gorm:"index"` // Optional user identifier
}

// JobPayload represents the input data for a job
type JobPayload map[string]interface{}

// Value implements driver.Valuer interface for JobPayload
func (p JobPayload) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner interface for JobPayload
func (p *JobPayload) Scan(value interface{}) error {
	if value == nil {
		*p = make(JobPayload)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, p)
}

// IsTerminal returns true if the job is in a terminal state
func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusCompleted ||
		j.Status == JobStatusCancelled ||
		(j.Status == JobStatusFailed && j.RetryCount >= j.MaxRetries)
}

// GetPayloadValue safely retrieves a value from the payload
func (j *Job) GetPayloadValue(key string) (interface{}, bool) {
	if j.Payload == nil {
		return nil, false
	}
	val, ok := j.Payload[key]
	return val, ok
}

// GetPayloadString safely retrieves a string value from the payload
func (j *Job) GetPayloadString(key string) (string, bool) {
	val, ok := j.GetPayloadValue(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// Masks decodes the submitted mask set from the payload
func (j *Job) Masks() ([]Mask, error) {
	raw, ok := j.GetPayloadValue("masks")
	if !ok {
		return nil, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var masks []Mask
	if err := json.Unmarshal(data, &masks); err != nil {
		return nil, err
	}
	return masks, nil
}

// TableName returns the table name for the Job model
func (Job) TableName() string {
	return "mask_jobs"
}
