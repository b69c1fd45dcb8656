package analytics

import (
	"context"
	"log"
	"time"

	"escalas/internal/caching"
	"escalas/internal/repositories"

	"github.com/google/uuid"
)

const statsCacheTTL = 5 * time.Minute

// StatsService computes and caches per-church dashboard statistics.
type StatsService struct {
	ministryRepo repositories.MinistryRepository
	memberRepo   repositories.MemberRepository
	scheduleRepo repositories.ScheduleRepository
	responseRepo repositories.ResponseRepository
	cacheService caching.CacheService
}

// DashboardStats is the aggregate the dashboard page renders.
type DashboardStats struct {
	ChurchID         uuid.UUID `json:"church_id"`
	MinistryCount    int       `json:"ministry_count"`
	MemberCount      int       `json:"member_count"`
	UpcomingCount    int       `json:"upcoming_count"`
	PendingResponses int       `json:"pending_responses"`
	LastUpdated      time.Time `json:"last_updated"`
}

func NewStatsService(
	ministryRepo repositories.MinistryRepository,
	memberRepo repositories.MemberRepository,
	scheduleRepo repositories.ScheduleRepository,
	responseRepo repositories.ResponseRepository,
	cacheService caching.CacheService,
) *StatsService {
	return &StatsService{
		ministryRepo: ministryRepo,
		memberRepo:   memberRepo,
		scheduleRepo: scheduleRepo,
		responseRepo: responseRepo,
		cacheService: cacheService,
	}
}

// GetDashboardStats serves from cache when possible, recomputing on miss.
func (a *StatsService) GetDashboardStats(ctx context.Context, churchID uuid.UUID) (*DashboardStats, error) {
	if cached, err := a.cacheService.GetDashboardStats(ctx, churchID); err == nil && cached != nil {
		if stats := statsFromMap(churchID, cached); stats != nil {
			return stats, nil
		}
	}

	stats, err := a.CalculateDashboardStats(ctx, churchID)
	if err != nil {
		return nil, err
	}

	if err := a.cacheService.SetDashboardStats(ctx, churchID, stats.toMap(), statsCacheTTL); err != nil {
		log.Printf("Failed to cache dashboard stats for church %s: %v", churchID.String(), err)
	}
	return stats, nil
}

// CalculateDashboardStats recomputes the aggregate from the database.
// Upcoming means the next 30 days; pending responses are counted over the
// same window.
func (a *StatsService) CalculateDashboardStats(ctx context.Context, churchID uuid.UUID) (*DashboardStats, error) {
	stats := &DashboardStats{
		ChurchID:    churchID,
		LastUpdated: time.Now(),
	}

	ministryCount, err := a.ministryRepo.Count(ctx, churchID)
	if err != nil {
		return nil, err
	}
	stats.MinistryCount = ministryCount

	memberCount, err := a.memberRepo.Count(ctx, churchID)
	if err != nil {
		return nil, err
	}
	stats.MemberCount = memberCount

	today := time.Now().Format("2006-01-02")
	horizon := time.Now().AddDate(0, 0, 30).Format("2006-01-02")
	upcoming, err := a.scheduleRepo.ListUpcoming(ctx, churchID, today, horizon)
	if err != nil {
		return nil, err
	}
	stats.UpcomingCount = len(upcoming)

	scheduleIDs := make([]uuid.UUID, 0, len(upcoming))
	for _, schedule := range upcoming {
		scheduleIDs = append(scheduleIDs, schedule.ID)
	}
	pending, err := a.responseRepo.CountPendingForSchedules(ctx, scheduleIDs)
	if err != nil {
		return nil, err
	}
	stats.PendingResponses = pending

	return stats, nil
}

// InvalidateStatsCache drops the cached aggregate after data changes.
func (a *StatsService) InvalidateStatsCache(ctx context.Context, churchID uuid.UUID) error {
	return a.cacheService.InvalidateChurchCache(ctx, churchID)
}

func (s *DashboardStats) toMap() map[string]interface{} {
	return map[string]interface{}{
		"ministry_count":    s.MinistryCount,
		"member_count":      s.MemberCount,
		"upcoming_count":    s.UpcomingCount,
		"pending_responses": s.PendingResponses,
		"last_updated":      s.LastUpdated.Format(time.RFC3339),
	}
}

func statsFromMap(churchID uuid.UUID, m map[string]interface{}) *DashboardStats {
	stats := &DashboardStats{ChurchID: churchID}

	// JSON round-trips numbers as float64.
	for key, dst := range map[string]*int{
		"ministry_count":    &stats.MinistryCount,
		"member_count":      &stats.MemberCount,
		"upcoming_count":    &stats.UpcomingCount,
		"pending_responses": &stats.PendingResponses,
	} {
		v, ok := m[key].(float64)
		if !ok {
			return nil
		}
		*dst = int(v)
	}

	if raw, ok := m["last_updated"].(string); ok {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			stats.LastUpdated = t
		}
	}
	return stats
}
