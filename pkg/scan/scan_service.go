package scan

import (
	"MeatFresh-Backend/domain"
	"MeatFresh-Backend/entities"
	"MeatFresh-Backend/internal/utils/storage"
	"MeatFresh-Backend/pkg/freshness"
	"MeatFresh-Backend/pkg/gemini"
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	scanFolder       = "scans"
	cleanupWorkers   = 8
	expiringWindow   = 24 * time.Hour
)

type (
	ScanService interface {
		Analyze(ctx context.Context, req domain.AnalyzeScanRequest, userID string) (domain.AnalyzeScanResponse, error)
		Refine(ctx context.Context, req domain.RefineScanRequest, userID string) (domain.AnalysisResult, error)
		CreateScan(ctx context.Context, req domain.CreateScanRequest, userID string) (domain.ScanResponse, error)
		GetScans(ctx context.Context, userID string, status string, page, limit int) (domain.ScanListResponse, error)
		GetScan(ctx context.Context, id string, userID string) (domain.ScanResponse, error)
		UpdateScan(ctx context.Context, id string, req domain.UpdateScanRequest, userID string) (domain.ScanResponse, error)
		MarkAsCooked(ctx context.Context, id string, userID string) (domain.ScanResponse, error)
		DeleteScan(ctx context.Context, id string, userID string) error
		DeleteAllScans(ctx context.Context, userID string) (domain.DeleteAllScansResponse, error)
		GetShelfStats(ctx context.Context, userID string) (domain.ShelfStatsResponse, error)
	}

	// PremiumChecker reports whether a user has an active paid plan.
	PremiumChecker interface {
		IsPremium(ctx context.Context, userID string) (bool, error)
	}

	scanService struct {
		scanRepository ScanRepository
		s3             storage.AwsS3
		analyzer       gemini.Analyzer
		premium        PremiumChecker
		log            *zap.Logger
		now            func() time.Time
	}
)

func NewScanService(scanRepository ScanRepository, s3 storage.AwsS3, analyzer gemini.Analyzer, premium PremiumChecker, log *zap.Logger) ScanService {
	return &scanService{
		scanRepository: scanRepository,
		s3:             s3,
		analyzer:       analyzer,
		premium:        premium,
		log:            log,
		now:            time.Now,
	}
}

func (s *scanService) Analyze(ctx context.Context, req domain.AnalyzeScanRequest, userID string) (domain.AnalyzeScanResponse, error) {
	if req.Image == nil {
		return domain.AnalyzeScanResponse{}, domain.ErrInvalidImageFormat
	}
	contentType, err := storage.CheckFile(req.Image, storage.AllowImage...)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			return domain.AnalyzeScanResponse{}, err
		}
		return domain.AnalyzeScanResponse{}, domain.ErrInvalidImageFormat
	}

	if req.UsePro {
		if err := s.requirePremium(ctx, userID); err != nil {
			return domain.AnalyzeScanResponse{}, err
		}
	}

	image, err := readUpload(req)
	if err != nil {
		return domain.AnalyzeScanResponse{}, domain.ErrInvalidImageFormat
	}

	result, err := s.analyzer.AnalyzeImage(ctx, image, contentType, req.UsePro)
	if err != nil {
		s.log.Warn("image analysis failed, returning conservative verdict",
			zap.String("user_id", userID), zap.Bool("pro", req.UsePro), zap.Error(err))
		result = FailedAnalysis()
		result.UsedProModel = req.UsePro
	}
	result.Timestamp = s.now().UnixMilli()
	result.IsRefined = false

	return domain.AnalyzeScanResponse{
		Result:           result,
		PredictedSensory: freshness.PredictSensoryDefaults(freshness.Level(result.FreshnessLevel)),
	}, nil
}

func (s *scanService) Refine(ctx context.Context, req domain.RefineScanRequest, userID string) (domain.AnalysisResult, error) {
	if !validSensory(req.Sensory) {
		return domain.AnalysisResult{}, domain.ErrInvalidSensoryData
	}
	if req.UsePro {
		if err := s.requirePremium(ctx, userID); err != nil {
			return domain.AnalysisResult{}, err
		}
	}

	initial := req.Initial
	refined, err := s.analyzer.RefineAnalysis(ctx, initial, req.Sensory, req.UsePro)
	if err != nil {
		s.log.Warn("sensory refinement failed, blending locally",
			zap.String("user_id", userID), zap.Error(err))
		refined = BlendAnalysis(initial, req.Sensory)
	} else {
		refined.UsedProModel = req.UsePro
		if refined.MeatType == domain.MeatUnknown && initial.MeatType != "" {
			refined.MeatType = initial.MeatType
		}
		applyThreshold(&refined, req.Sensory)
	}

	refined.VisualCues = append(refined.VisualCues, freshness.SensoryCues(req.Sensory)...)
	refined.IsRefined = true
	refined.Timestamp = initial.Timestamp
	if refined.Timestamp == 0 {
		refined.Timestamp = s.now().UnixMilli()
	}
	return refined, nil
}

func (s *scanService) CreateScan(ctx context.Context, req domain.CreateScanRequest, userID string) (domain.ScanResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ScanResponse{}, domain.ErrParseUUID
	}
	if req.Image == nil {
		return domain.ScanResponse{}, domain.ErrInvalidImageFormat
	}

	cues, err := decodeVisualCues(req.VisualCues)
	if err != nil {
		return domain.ScanResponse{}, err
	}
	sensory, err := decodeSensory(req.SensoryData)
	if err != nil {
		return domain.ScanResponse{}, err
	}

	level := freshness.Level(req.FreshnessLevel)
	score := max(0, min(100, req.FreshnessScore))
	if sensory != nil {
		if enforced := freshness.EnforceSensoryThreshold(level, *sensory); enforced != level {
			level = enforced
			score = min(score, freshness.ScoreForLevel(level))
		}
	}
	// the stored verdict always follows the stored level
	safety := string(freshness.SafetyStatusForLevel(level))

	env := freshness.ParseEnvironment(req.StorageEnvironment)
	if env == "" {
		env = freshness.EnvironmentFridge
	}
	container := freshness.ParseContainer(req.ContainerType)
	if container == "" {
		container = freshness.ContainerBag
	}

	scannedAt := s.now()
	if req.Timestamp > 0 {
		scannedAt = time.UnixMilli(req.Timestamp)
	}
	deadline := freshness.ComputeDeadline(level, env, container, scannedAt)

	scanID := uuid.New()
	objectKey, err := s.s3.UploadFile(scanID.String(), req.Image, scanFolder, storage.AllowImage...)
	if err != nil {
		if errors.Is(err, storage.ErrFileTypeNotAllowed) {
			return domain.ScanResponse{}, domain.ErrInvalidImageFormat
		}
		return domain.ScanResponse{}, err
	}

	cuesJSON, err := json.Marshal(cues)
	if err != nil {
		return domain.ScanResponse{}, err
	}

	meatType := req.MeatType
	if meatType == "" {
		meatType = domain.MeatUnknown
	}

	scan := &entities.Scan{
		ID:                 scanID,
		UserID:             userUUID,
		ImageURL:           s.s3.GetPublicLinkKey(objectKey),
		MeatType:           meatType,
		FreshnessScore:     score,
		FreshnessLevel:     int(level),
		SafetyStatus:       safety,
		VisualCues:         string(cuesJSON),
		Summary:            req.Summary,
		ScannedAt:          scannedAt,
		StorageDeadline:    &deadline,
		ActionStatus:       domain.ActionStoring,
		StorageEnvironment: string(env),
		ContainerType:      string(container),
		IsRefined:          req.IsRefined,
		UsedProModel:       req.UsedProModel,
	}
	if sensory != nil {
		scan.Smell = &sensory.Smell
		scan.Texture = &sensory.Texture
		scan.Moisture = &sensory.Moisture
		scan.Drip = &sensory.Drip
	}

	if err := s.scanRepository.CreateScan(ctx, scan); err != nil {
		if delErr := s.s3.DeleteFile(objectKey); delErr != nil {
			s.log.Warn("orphaned scan image", zap.String("key", objectKey), zap.Error(delErr))
		}
		return domain.ScanResponse{}, err
	}

	s.log.Info("scan saved",
		zap.String("scan_id", scanID.String()),
		zap.String("user_id", userID),
		zap.Int("level", int(level)),
		zap.Time("deadline", deadline))

	return s.toResponse(scan), nil
}

func (s *scanService) GetScans(ctx context.Context, userID string, status string, page, limit int) (domain.ScanListResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return domain.ScanListResponse{}, domain.ErrParseUUID
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	scans, total, err := s.scanRepository.GetScans(ctx, userID, status, page, limit)
	if err != nil {
		return domain.ScanListResponse{}, err
	}

	res := make([]domain.ScanResponse, 0, len(scans))
	for _, scan := range scans {
		res = append(res, s.toResponse(scan))
	}

	return domain.ScanListResponse{
		Scans:      res,
		Pagination: domain.NewPagination(page, limit, total),
	}, nil
}

func (s *scanService) GetScan(ctx context.Context, id string, userID string) (domain.ScanResponse, error) {
	scan, err := s.getOwnedScan(ctx, id, userID)
	if err != nil {
		return domain.ScanResponse{}, err
	}
	return s.toResponse(scan), nil
}

func (s *scanService) UpdateScan(ctx context.Context, id string, req domain.UpdateScanRequest, userID string) (domain.ScanResponse, error) {
	scan, err := s.getOwnedScan(ctx, id, userID)
	if err != nil {
		return domain.ScanResponse{}, err
	}

	storageChanged := false
	if env := freshness.ParseEnvironment(req.StorageEnvironment); env != "" && string(env) != scan.StorageEnvironment {
		scan.StorageEnvironment = string(env)
		storageChanged = true
	}
	if container := freshness.ParseContainer(req.ContainerType); container != "" && string(container) != scan.ContainerType {
		scan.ContainerType = string(container)
		storageChanged = true
	}

	if storageChanged {
		deadline := freshness.ComputeDeadline(
			freshness.Level(scan.FreshnessLevel),
			freshness.Environment(scan.StorageEnvironment),
			freshness.Container(scan.ContainerType),
			scan.ScannedAt,
		)
		scan.StorageDeadline = &deadline
		// moving meat back into storage puts it back on the shelf
		if scan.ActionStatus == domain.ActionCooked || scan.ActionStatus == domain.ActionDiscarded {
			scan.ActionStatus = domain.ActionStoring
		}
	}

	if req.ActionStatus != "" {
		scan.ActionStatus = req.ActionStatus
	}

	if err := s.scanRepository.UpdateScan(ctx, scan); err != nil {
		return domain.ScanResponse{}, err
	}
	return s.toResponse(scan), nil
}

func (s *scanService) MarkAsCooked(ctx context.Context, id string, userID string) (domain.ScanResponse, error) {
	scan, err := s.getOwnedScan(ctx, id, userID)
	if err != nil {
		return domain.ScanResponse{}, err
	}

	scan.ActionStatus = domain.ActionCooked
	if err := s.scanRepository.UpdateScan(ctx, scan); err != nil {
		return domain.ScanResponse{}, err
	}
	return s.toResponse(scan), nil
}

func (s *scanService) DeleteScan(ctx context.Context, id string, userID string) error {
	scan, err := s.getOwnedScan(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.scanRepository.DeleteScan(ctx, id); err != nil {
		return err
	}

	if key := s.s3.GetObjectKeyFromLink(scan.ImageURL); key != "" {
		if err := s.s3.DeleteFile(key); err != nil {
			s.log.Warn("failed to delete scan image", zap.String("scan_id", id), zap.Error(err))
		}
	}
	return nil
}

func (s *scanService) DeleteAllScans(ctx context.Context, userID string) (domain.DeleteAllScansResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return domain.DeleteAllScansResponse{}, domain.ErrParseUUID
	}

	urls, err := s.scanRepository.GetImageURLsByUser(ctx, userID)
	if err != nil {
		return domain.DeleteAllScansResponse{}, err
	}

	deleted, err := s.scanRepository.DeleteScansByUser(ctx, userID)
	if err != nil {
		return domain.DeleteAllScansResponse{}, err
	}

	var g errgroup.Group
	g.SetLimit(cleanupWorkers)
	for _, url := range urls {
		key := s.s3.GetObjectKeyFromLink(url)
		if key == "" {
			continue
		}
		g.Go(func() error {
			return s.s3.DeleteFile(key)
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Warn("scan image cleanup incomplete", zap.String("user_id", userID), zap.Error(err))
	}

	s.log.Info("scans cleared", zap.String("user_id", userID), zap.Int64("deleted", deleted))
	return domain.DeleteAllScansResponse{DeletedCount: deleted}, nil
}

func (s *scanService) GetShelfStats(ctx context.Context, userID string) (domain.ShelfStatsResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return domain.ShelfStatsResponse{}, domain.ErrParseUUID
	}

	stats, err := s.scanRepository.GetShelfStats(ctx, userID, s.now(), expiringWindow)
	if err != nil {
		return domain.ShelfStatsResponse{}, err
	}
	stats.SavedItems = stats.Cooked
	stats.WastedItems = stats.Expired + stats.Discarded
	return stats, nil
}

func (s *scanService) requirePremium(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrPremiumRequired
	}
	ok, err := s.premium.IsPremium(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrPremiumRequired
	}
	return nil
}

func (s *scanService) getOwnedScan(ctx context.Context, id string, userID string) (*entities.Scan, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrScanNotFound
	}
	scan, err := s.scanRepository.GetScanByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrScanNotFound
		}
		return nil, err
	}
	if scan.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedAccess
	}
	return scan, nil
}

func (s *scanService) toResponse(scan *entities.Scan) domain.ScanResponse {
	now := s.now()
	res := domain.ScanResponse{
		ID:                 scan.ID.String(),
		UserID:             scan.UserID.String(),
		ImageURL:           scan.ImageURL,
		MeatType:           scan.MeatType,
		FreshnessScore:     scan.FreshnessScore,
		FreshnessLevel:     scan.FreshnessLevel,
		SafetyStatus:       scan.SafetyStatus,
		VisualCues:         []string{},
		Summary:            scan.Summary,
		Timestamp:          scan.ScannedAt.UnixMilli(),
		ActionStatus:       scan.ActionStatus,
		StorageEnvironment: scan.StorageEnvironment,
		ContainerType:      scan.ContainerType,
		IsRefined:          scan.IsRefined,
		UsedProModel:       scan.UsedProModel,
		CreatedAt:          scan.CreatedAt,
		UpdatedAt:          scan.UpdatedAt,
	}

	if scan.VisualCues != "" {
		if err := json.Unmarshal([]byte(scan.VisualCues), &res.VisualCues); err != nil {
			s.log.Warn("corrupt visual cues", zap.String("scan_id", res.ID), zap.Error(err))
			res.VisualCues = []string{}
		}
	}

	if scan.Smell != nil && scan.Texture != nil && scan.Moisture != nil && scan.Drip != nil {
		res.SensoryData = &freshness.SensoryData{
			Smell:    *scan.Smell,
			Texture:  *scan.Texture,
			Moisture: *scan.Moisture,
			Drip:     *scan.Drip,
		}
	}

	if scan.StorageDeadline != nil {
		res.StorageDeadline = scan.StorageDeadline.UnixMilli()
		res.HoursLeft = max(0, freshness.HoursLeft(*scan.StorageDeadline, now))
		if scan.ActionStatus == domain.ActionStoring {
			res.ShelfLabel = freshness.ShelfLabel(*scan.StorageDeadline, now)
			if res.ShelfLabel == freshness.ShelfExpired {
				res.ActionStatus = domain.ActionExpired
			}
		}
	}
	return res
}

// FailedAnalysis is the verdict returned when the photo could not be graded.
// It is the most conservative one: level 5 with an unknown safety status.
func FailedAnalysis() domain.AnalysisResult {
	return domain.AnalysisResult{
		MeatType:       domain.MeatUnknown,
		FreshnessScore: 0,
		FreshnessLevel: int(freshness.LevelSpoiled),
		SafetyStatus:   string(freshness.SafetyUnknown),
		VisualCues:     []string{"Analysis unavailable"},
		Summary:        "We could not analyse this photo. Treat the meat as unsafe and try again with a clearer picture.",
	}
}

// BlendAnalysis merges an image verdict with a survey without a model.
func BlendAnalysis(initial domain.AnalysisResult, sensory freshness.SensoryData) domain.AnalysisResult {
	level := freshness.BlendLevel(freshness.Level(initial.FreshnessLevel), sensory)

	meatType := initial.MeatType
	if meatType == "" {
		meatType = domain.MeatUnknown
	}

	cues := make([]string, 0, len(initial.VisualCues))
	cues = append(cues, initial.VisualCues...)

	return domain.AnalysisResult{
		MeatType:       meatType,
		FreshnessScore: freshness.ScoreForLevel(level),
		FreshnessLevel: int(level),
		SafetyStatus:   string(freshness.SafetyStatusForLevel(level)),
		VisualCues:     cues,
		Summary:        blendSummary(level),
	}
}

func blendSummary(level freshness.Level) string {
	switch {
	case level >= freshness.LevelWarning:
		return "Your smell and touch check points to spoilage. Do not eat this meat."
	case level == freshness.LevelAverage:
		return "Quality is borderline. Cook it thoroughly today."
	default:
		return "Photo and sensory check agree the meat is fresh."
	}
}

// applyThreshold raises a model verdict that ignored a failing smell or
// sliminess score.
func applyThreshold(result *domain.AnalysisResult, sensory freshness.SensoryData) {
	level := freshness.Level(result.FreshnessLevel)
	enforced := freshness.EnforceSensoryThreshold(level, sensory)
	if enforced == level {
		return
	}
	result.FreshnessLevel = int(enforced)
	result.FreshnessScore = min(result.FreshnessScore, freshness.ScoreForLevel(enforced))
	result.SafetyStatus = string(freshness.SafetyStatusForLevel(enforced))
}

func validSensory(s freshness.SensoryData) bool {
	for _, v := range []int{s.Smell, s.Texture, s.Moisture, s.Drip} {
		if v < 0 || v > 100 {
			return false
		}
	}
	return true
}

func decodeVisualCues(raw string) ([]string, error) {
	cues := []string{}
	if raw == "" {
		return cues, nil
	}
	if err := json.Unmarshal([]byte(raw), &cues); err != nil {
		return nil, domain.ErrInvalidVisualCues
	}
	return cues, nil
}

func decodeSensory(raw string) (*freshness.SensoryData, error) {
	if raw == "" {
		return nil, nil
	}
	var s freshness.SensoryData
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, domain.ErrInvalidSensoryData
	}
	if !validSensory(s) {
		return nil, domain.ErrInvalidSensoryData
	}
	return &s, nil
}

func readUpload(req domain.AnalyzeScanRequest) ([]byte, error) {
	f, err := req.Image.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
