package scan

import (
	"MeatFresh-Backend/domain"
	"MeatFresh-Backend/entities"
	"context"
	"time"

	"gorm.io/gorm"
)

type (
	ScanRepository interface {
		CreateScan(ctx context.Context, scan *entities.Scan) error
		GetScanByID(ctx context.Context, id string) (*entities.Scan, error)
		GetScans(ctx context.Context, userID string, status string, page, limit int) ([]*entities.Scan, int64, error)
		UpdateScan(ctx context.Context, scan *entities.Scan) error
		DeleteScan(ctx context.Context, id string) error
		GetImageURLsByUser(ctx context.Context, userID string) ([]string, error)
		DeleteScansByUser(ctx context.Context, userID string) (int64, error)
		GetShelfStats(ctx context.Context, userID string, now time.Time, soon time.Duration) (domain.ShelfStatsResponse, error)
	}

	scanRepository struct {
		db *gorm.DB
	}
)

func NewScanRepository(db *gorm.DB) ScanRepository {
	return &scanRepository{db: db}
}

func (r *scanRepository) CreateScan(ctx context.Context, scan *entities.Scan) error {
	return r.db.WithContext(ctx).Create(scan).Error
}

func (r *scanRepository) GetScanByID(ctx context.Context, id string) (*entities.Scan, error) {
	var scan entities.Scan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&scan).Error; err != nil {
		return nil, err
	}
	return &scan, nil
}

func (r *scanRepository) GetScans(ctx context.Context, userID string, status string, page, limit int) ([]*entities.Scan, int64, error) {
	var scans []*entities.Scan
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.Scan{}).Where("user_id = ?", userID)
	if status != "all" && status != "" {
		query = query.Where("action_status = ?", status)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("scanned_at desc").Find(&scans).Error; err != nil {
		return nil, 0, err
	}

	return scans, count, nil
}

func (r *scanRepository) UpdateScan(ctx context.Context, scan *entities.Scan) error {
	return r.db.WithContext(ctx).Save(scan).Error
}

func (r *scanRepository) DeleteScan(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Scan{}).Error
}

func (r *scanRepository) GetImageURLsByUser(ctx context.Context, userID string) ([]string, error) {
	var urls []string
	if err := r.db.WithContext(ctx).Model(&entities.Scan{}).
		Where("user_id = ? AND image_url <> ''", userID).
		Pluck("image_url", &urls).Error; err != nil {
		return nil, err
	}
	return urls, nil
}

func (r *scanRepository) DeleteScansByUser(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entities.Scan{})
	return res.RowsAffected, res.Error
}

func (r *scanRepository) GetShelfStats(ctx context.Context, userID string, now time.Time, soon time.Duration) (domain.ShelfStatsResponse, error) {
	var stats domain.ShelfStatsResponse
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&entities.Scan{}).Where("user_id = ?", userID)
	}

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&stats.TotalScans, base()},
		{&stats.Storing, base().Where("action_status = ? AND storage_deadline > ?", domain.ActionStoring, now)},
		{&stats.ExpiringSoon, base().Where("action_status = ? AND storage_deadline > ? AND storage_deadline <= ?", domain.ActionStoring, now, now.Add(soon))},
		{&stats.Expired, base().Where("(action_status = ? AND storage_deadline <= ?) OR action_status = ?", domain.ActionStoring, now, domain.ActionExpired)},
		{&stats.Cooked, base().Where("action_status = ?", domain.ActionCooked)},
		{&stats.Discarded, base().Where("action_status = ?", domain.ActionDiscarded)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return domain.ShelfStatsResponse{}, err
		}
	}
	return stats, nil
}
