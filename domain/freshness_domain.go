package domain

import "errors"

// MaxReferenceMillis is the last millisecond of year 9999.
const MaxReferenceMillis int64 = 253402300799999

var (
	MessageSuccessComputeDeadline = "storage deadline computed successfully"
	MessageSuccessSensoryDefaults = "sensory defaults retrieved successfully"

	MessageFailedComputeDeadline = "failed to compute storage deadline"

	ErrInvalidReference = errors.New("reference must be epoch milliseconds between 1970 and 9999")
)

type (
	DeadlineQuery struct {
		Level       string `query:"level"`
		Environment string `query:"environment"`
		Container   string `query:"container"`
		Reference   int64  `query:"reference"`
	}

	DeadlineResponse struct {
		Level           int    `json:"level"`
		Environment     string `json:"environment"`
		Container       string `json:"container"`
		Reference       int64  `json:"reference"`
		DurationMillis  int64  `json:"duration_ms"`
		StorageDeadline int64  `json:"storage_deadline"`
	}
)
