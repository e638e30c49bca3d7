package domain

import (
	"MeatFresh-Backend/pkg/freshness"
	"errors"
	"mime/multipart"
	"time"
)

const (
	MeatPork    = "pork"
	MeatBeef    = "beef"
	MeatChicken = "chicken"
	MeatUnknown = "unknown"

	ActionStoring   = "storing"
	ActionCooked    = "cooked"
	ActionDiscarded = "discarded"
	ActionExpired   = "expired"
)

var (
	MessageSuccessAnalyzeScan   = "meat image analyzed successfully"
	MessageSuccessRefineScan    = "analysis refined with sensory data"
	MessageSuccessCreateScan    = "scan saved successfully"
	MessageSuccessGetScans      = "scans retrieved successfully"
	MessageSuccessGetScan       = "scan retrieved successfully"
	MessageSuccessUpdateScan    = "scan updated successfully"
	MessageSuccessMarkAsCooked  = "scan marked as cooked"
	MessageSuccessDeleteScan    = "scan deleted successfully"
	MessageSuccessDeleteAllScan = "all scans deleted successfully"
	MessageSuccessGetShelfStats = "shelf statistics retrieved successfully"

	MessageFailedAnalyzeScan   = "failed to analyze meat image"
	MessageFailedRefineScan    = "failed to refine analysis"
	MessageFailedCreateScan    = "failed to save scan"
	MessageFailedGetScans      = "failed to retrieve scans"
	MessageFailedGetScan       = "failed to retrieve scan"
	MessageFailedUpdateScan    = "failed to update scan"
	MessageFailedMarkAsCooked  = "failed to mark scan as cooked"
	MessageFailedDeleteScan    = "failed to delete scan"
	MessageFailedDeleteAllScan = "failed to delete scans"
	MessageFailedGetShelfStats = "failed to retrieve shelf statistics"
	MessageGuestLimitReached   = "guest analysis limit reached, sign in to keep scanning"

	ErrScanNotFound           = errors.New("scan not found")
	ErrUnauthorizedAccess     = errors.New("unauthorized access to scan")
	ErrInvalidImageFormat     = errors.New("invalid image format")
	ErrInvalidVisualCues      = errors.New("visual cues must be a JSON array of strings")
	ErrInvalidSensoryData     = errors.New("sensory data must be a JSON object with values between 0 and 100")
	ErrPremiumRequired        = errors.New("pro analysis requires an active premium subscription")
	ErrGeminiProcessingFailed = errors.New("gemini processing failed")
	ErrGuestLimitReached      = errors.New("guest analysis limit reached")
)

type (
	// AnalysisResult is a freshness verdict for one photo, either image-only
	// or refined with a sensory survey.
	AnalysisResult struct {
		MeatType       string   `json:"meat_type" validate:"required"`
		FreshnessScore int      `json:"freshness_score" validate:"min=0,max=100"`
		FreshnessLevel int      `json:"freshness_level" validate:"required,level"`
		SafetyStatus   string   `json:"safety_status"`
		VisualCues     []string `json:"visual_cues"`
		Summary        string   `json:"summary"`
		Timestamp      int64    `json:"timestamp"`
		IsRefined      bool     `json:"is_refined"`
		UsedProModel   bool     `json:"used_pro_model"`
	}

	AnalyzeScanRequest struct {
		Image  *multipart.FileHeader `json:"image" form:"image" validate:"required"`
		UsePro bool                  `json:"use_pro" form:"use_pro"`
	}

	AnalyzeScanResponse struct {
		Result           AnalysisResult        `json:"result"`
		PredictedSensory freshness.SensoryData `json:"predicted_sensory"`
	}

	RefineScanRequest struct {
		Initial AnalysisResult        `json:"initial" validate:"required"`
		Sensory freshness.SensoryData `json:"sensory" validate:"required"`
		UsePro  bool                  `json:"use_pro"`
	}

	CreateScanRequest struct {
		Image              *multipart.FileHeader `form:"image" validate:"required"`
		MeatType           string                `form:"meat_type" validate:"required"`
		FreshnessScore     int                   `form:"freshness_score" validate:"min=0,max=100"`
		FreshnessLevel     int                   `form:"freshness_level" validate:"required,level"`
		SafetyStatus       string                `form:"safety_status" validate:"omitempty,oneof=fresh caution spoiled unknown"`
		VisualCues         string                `form:"visual_cues"`
		Summary            string                `form:"summary"`
		Timestamp          int64                 `form:"timestamp"`
		SensoryData        string                `form:"sensory_data"`
		StorageEnvironment string                `form:"storage_environment" validate:"omitempty,environment"`
		ContainerType      string                `form:"container_type" validate:"omitempty,container"`
		IsRefined          bool                  `form:"is_refined"`
		UsedProModel       bool                  `form:"used_pro_model"`
	}

	UpdateScanRequest struct {
		ActionStatus       string `json:"action_status" validate:"omitempty,oneof=storing cooked discarded expired"`
		StorageEnvironment string `json:"storage_environment" validate:"omitempty,environment"`
		ContainerType      string `json:"container_type" validate:"omitempty,container"`
	}

	ScanResponse struct {
		ID                 string                 `json:"id"`
		UserID             string                 `json:"user_id"`
		ImageURL           string                 `json:"image_url"`
		MeatType           string                 `json:"meat_type"`
		FreshnessScore     int                    `json:"freshness_score"`
		FreshnessLevel     int                    `json:"freshness_level"`
		SafetyStatus       string                 `json:"safety_status"`
		VisualCues         []string               `json:"visual_cues"`
		Summary            string                 `json:"summary"`
		Timestamp          int64                  `json:"timestamp"`
		SensoryData        *freshness.SensoryData `json:"sensory_data,omitempty"`
		StorageDeadline    int64                  `json:"storage_deadline,omitempty"`
		HoursLeft          int                    `json:"hours_left"`
		ShelfLabel         string                 `json:"shelf_label,omitempty"`
		ActionStatus       string                 `json:"action_status"`
		StorageEnvironment string                 `json:"storage_environment"`
		ContainerType      string                 `json:"container_type"`
		IsRefined          bool                   `json:"is_refined"`
		UsedProModel       bool                   `json:"used_pro_model"`
		CreatedAt          time.Time              `json:"created_at"`
		UpdatedAt          time.Time              `json:"updated_at"`
	}

	ScanListResponse struct {
		Scans      []ScanResponse `json:"scans"`
		Pagination Pagination     `json:"pagination"`
	}

	DeleteAllScansResponse struct {
		DeletedCount int64 `json:"deleted_count"`
	}

	// ShelfStatsResponse summarises a user's storage shelf. Expired counts
	// stored meat past its deadline as well as scans marked expired.
	ShelfStatsResponse struct {
		TotalScans   int64 `json:"total_scans"`
		Storing      int64 `json:"storing"`
		ExpiringSoon int64 `json:"expiring_soon"`
		Expired      int64 `json:"expired"`
		Cooked       int64 `json:"cooked"`
		Discarded    int64 `json:"discarded"`
		SavedItems   int64 `json:"saved_items"`
		WastedItems  int64 `json:"wasted_items"`
	}
)
