package dto

import "time"

// WeakTopic is a weak-area tag with the number of times it was flagged.
type WeakTopic struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// RecentActivity is one recent interview attempt on the dashboard.
type RecentActivity struct {
	ID        uint      `json:"id"`
	Label     string    `json:"label"`
	Score     *float64  `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// DashboardStats aggregates a student's interview history.
type DashboardStats struct {
	TotalInterviews int              `json:"total_interviews"`
	AverageScore    *float64         `json:"average_score"`
	WeakTopics      []WeakTopic      `json:"weak_topics"`
	BookmarkCount   int64            `json:"bookmark_count"`
	RecentActivity  []RecentActivity `json:"recent_activity"`
}
