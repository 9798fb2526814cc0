package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campusprep-api/internal/models"
)

type interviewRepoStub struct {
	attempts []models.InterviewAttempt
	err      error
}

func (s *interviewRepoStub) Create(context.Context, *models.InterviewAttempt) error { return nil }
func (s *interviewRepoStub) Save(context.Context, *models.InterviewAttempt) error   { return nil }

func (s *interviewRepoStub) GetByID(context.Context, uint) (models.InterviewAttempt, error) {
	return models.InterviewAttempt{}, errors.New("not used")
}

func (s *interviewRepoStub) ListByAccount(context.Context, uint, int) ([]models.InterviewAttempt, error) {
	return s.attempts, s.err
}

func (s *interviewRepoStub) CountByAccount(context.Context, uint) (int64, error) {
	return int64(len(s.attempts)), s.err
}

type bookmarkCounterStub int64

func (b bookmarkCounterStub) CountBookmarks(context.Context, uint) (int64, error) {
	return int64(b), nil
}

func completedAttempt(id uint, score float64, weak ...[]string) models.InterviewAttempt {
	attempt := models.InterviewAttempt{
		ID:         id,
		Kind:       models.InterviewKindTechnical,
		Difficulty: models.DifficultyMedium,
		CreatedAt:  time.Date(2024, 3, 1, 0, 0, int(id), 0, time.UTC),
	}
	for i := 0; i < models.InterviewQuestionCount; i++ {
		attempt.Questions = append(attempt.Questions, models.InterviewQuestion{Prompt: "q"})
		answer := models.InterviewAnswer{QuestionIndex: i, Text: "a"}
		if i < len(weak) {
			answer.WeakAreas = weak[i]
		}
		attempt.Answers = append(attempt.Answers, answer)
	}
	attempt.Score = &score
	return attempt
}

func TestDashboardStatsEmpty(t *testing.T) {
	svc := NewDashboardService(&interviewRepoStub{}, bookmarkCounterStub(0), testLogger())

	stats, err := svc.Stats(context.Background(), 1)
	require.NoError(t, err)
	require.Zero(t, stats.TotalInterviews)
	require.Nil(t, stats.AverageScore)
	require.Empty(t, stats.WeakTopics)
	require.Empty(t, stats.RecentActivity)
	require.Zero(t, stats.BookmarkCount)
}

func TestDashboardStatsAggregates(t *testing.T) {
	inProgress := models.InterviewAttempt{
		ID:         9,
		Kind:       models.InterviewKindHR,
		Difficulty: models.DifficultyEasy,
		Questions:  []models.InterviewQuestion{{Prompt: "q"}},
		Answers:    []models.InterviewAnswer{{QuestionIndex: 0, WeakAreas: []string{"Ignored"}}},
	}
	attempts := []models.InterviewAttempt{
		inProgress,
		completedAttempt(3, 8, []string{"Recursion", "SQL"}, []string{"SQL"}),
		completedAttempt(2, 6.5, []string{"Recursion"}, []string{"Networking"}),
		completedAttempt(1, 7.2, []string{"Networking"}),
	}
	svc := NewDashboardService(&interviewRepoStub{attempts: attempts}, bookmarkCounterStub(4), testLogger())

	stats, err := svc.Stats(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 4, stats.TotalInterviews)
	require.NotNil(t, stats.AverageScore)
	require.Equal(t, 7.2, *stats.AverageScore)
	require.Equal(t, int64(4), stats.BookmarkCount)

	topics := make([]string, 0, len(stats.WeakTopics))
	for _, topic := range stats.WeakTopics {
		require.Equal(t, 2, topic.Count)
		topics = append(topics, topic.Topic)
	}
	require.Equal(t, []string{"Recursion", "SQL", "Networking"}, topics)

	require.Len(t, stats.RecentActivity, 4)
	require.Equal(t, uint(9), stats.RecentActivity[0].ID)
	require.Equal(t, "hr • easy", stats.RecentActivity[0].Label)
	require.Nil(t, stats.RecentActivity[0].Score)
}

func TestDashboardWeakTopicsLimitAndOrder(t *testing.T) {
	weak := make([][]string, 0, models.InterviewQuestionCount)
	weak = append(weak, []string{"a", "b", "c", "d", "e", "f"})
	weak = append(weak, []string{"g", "h", "i", "j", "k", "l"})
	weak = append(weak, []string{"l"})
	attempts := []models.InterviewAttempt{completedAttempt(1, 5, weak...)}

	topics := weakTopics(attempts, dashboardWeakTopicLimit)
	require.Len(t, topics, dashboardWeakTopicLimit)
	require.Equal(t, "l", topics[0].Topic)
	require.Equal(t, 2, topics[0].Count)
	require.Equal(t, "a", topics[1].Topic)
}

func TestDashboardRecentActivityKeepsFiveNewest(t *testing.T) {
	attempts := make([]models.InterviewAttempt, 0, 7)
	for id := uint(7); id >= 1; id-- {
		attempts = append(attempts, completedAttempt(id, 5))
	}

	recent := recentActivity(attempts, dashboardRecentLimit)
	require.Len(t, recent, dashboardRecentLimit)
	require.Equal(t, uint(7), recent[0].ID)
	require.Equal(t, uint(3), recent[4].ID)
}

func TestDashboardAverageScoreRounding(t *testing.T) {
	a, b, c := 7.0, 8.0, 8.0
	avg := averageScore([]models.InterviewAttempt{{Score: &a}, {Score: &b}, {Score: &c}, {}})
	require.NotNil(t, avg)
	require.Equal(t, 7.7, *avg)
}

func TestDashboardStatsPropagatesRepositoryError(t *testing.T) {
	svc := NewDashboardService(&interviewRepoStub{err: errors.New("db down")}, bookmarkCounterStub(0), testLogger())

	_, err := svc.Stats(context.Background(), 1)
	require.EqualError(t, err, "db down")
}
