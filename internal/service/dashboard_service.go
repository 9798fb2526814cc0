package service

import (
	"context"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/noah-isme/campusprep-api/internal/dto"
	"github.com/noah-isme/campusprep-api/internal/models"
	"github.com/noah-isme/campusprep-api/internal/repository"
)

const (
	dashboardWeakTopicLimit = 10
	dashboardRecentLimit    = 5
)

// DashboardService aggregates interview history into dashboard statistics.
type DashboardService interface {
	Stats(ctx context.Context, accountID uint) (dto.DashboardStats, error)
}

// BookmarkCounter reports how many notes an account saved.
type BookmarkCounter interface {
	CountBookmarks(ctx context.Context, accountID uint) (int64, error)
}

type dashboardService struct {
	interviews repository.InterviewRepository
	bookmarks  BookmarkCounter
	logger     zerolog.Logger
}

// NewDashboardService builds the dashboard aggregator. Stats are recomputed on every call.
func NewDashboardService(interviews repository.InterviewRepository, bookmarks BookmarkCounter, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		interviews: interviews,
		bookmarks:  bookmarks,
		logger:     logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) Stats(ctx context.Context, accountID uint) (dto.DashboardStats, error) {
	attempts, err := s.interviews.ListByAccount(ctx, accountID, 0)
	if err != nil {
		return dto.DashboardStats{}, err
	}

	bookmarkCount, err := s.bookmarks.CountBookmarks(ctx, accountID)
	if err != nil {
		return dto.DashboardStats{}, err
	}

	return dto.DashboardStats{
		TotalInterviews: len(attempts),
		AverageScore:    averageScore(attempts),
		WeakTopics:      weakTopics(attempts, dashboardWeakTopicLimit),
		BookmarkCount:   bookmarkCount,
		RecentActivity:  recentActivity(attempts, dashboardRecentLimit),
	}, nil
}

func averageScore(attempts []models.InterviewAttempt) *float64 {
	total := 0.0
	scored := 0
	for _, attempt := range attempts {
		if attempt.Score == nil {
			continue
		}
		total += *attempt.Score
		scored++
	}
	if scored == 0 {
		return nil
	}
	avg := math.Round(total/float64(scored)*10) / 10
	return &avg
}

// weakTopics counts weak-area tags over completed attempts. attempts must be newest first;
// ties keep first-seen order.
func weakTopics(attempts []models.InterviewAttempt, limit int) []dto.WeakTopic {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, attempt := range attempts {
		if !attempt.IsComplete() {
			continue
		}
		for _, answer := range attempt.Answers {
			for _, tag := range answer.WeakAreas {
				if tag == "" {
					continue
				}
				if _, seen := counts[tag]; !seen {
					order = append(order, tag)
				}
				counts[tag]++
			}
		}
	}

	topics := make([]dto.WeakTopic, 0, len(order))
	for _, tag := range order {
		topics = append(topics, dto.WeakTopic{Topic: tag, Count: counts[tag]})
	}
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Count > topics[j].Count
	})

	if len(topics) > limit {
		topics = topics[:limit]
	}
	return topics
}

func recentActivity(attempts []models.InterviewAttempt, limit int) []dto.RecentActivity {
	if len(attempts) > limit {
		attempts = attempts[:limit]
	}
	activity := make([]dto.RecentActivity, 0, len(attempts))
	for _, attempt := range attempts {
		activity = append(activity, dto.RecentActivity{
			ID:        attempt.ID,
			Label:     attempt.Kind + " • " + attempt.Difficulty,
			Score:     attempt.Score,
			CreatedAt: attempt.CreatedAt,
		})
	}
	return activity
}
