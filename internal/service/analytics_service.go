package service

import (
	"classpulse/internal/model"
	"math"
)

const (
	minBarPercent = 6.0
	baseOpacity   = 0.7
)

// AnalyticsService computes session statistics. Nothing is cached; every
// call recomputes from the responses.
type AnalyticsService struct{}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService() *AnalyticsService {
	return &AnalyticsService{}
}

// ScaleCounts buckets the scale answers to qid. Index 0 holds rating 1.
// Out-of-range and non-scale answers are ignored.
func (s *AnalyticsService) ScaleCounts(session *model.Session, qid string) [model.ScaleMax]int {
	var counts [model.ScaleMax]int
	if session == nil {
		return counts
	}
	for _, r := range session.Responses {
		v, ok := r.Answers[qid].(model.ScaleAnswer)
		if !ok || !v.InRange() {
			continue
		}
		counts[int(v)-model.ScaleMin]++
	}
	return counts
}

// ScaleBuckets turns counts into histogram bars
func (s *AnalyticsService) ScaleBuckets(counts [model.ScaleMax]int) []model.ScaleBucket {
	maxCount := 1
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	buckets := make([]model.ScaleBucket, len(counts))
	for i, c := range counts {
		raw := float64(c) / float64(maxCount) * 100
		buckets[i] = model.ScaleBucket{
			Value:   i + model.ScaleMin,
			Count:   c,
			Height:  math.Max(raw, minBarPercent),
			Opacity: baseOpacity + (1-baseOpacity)*raw/100,
		}
	}
	return buckets
}

// ChoiceCount counts responses whose answer to qid includes choice.
func (s *AnalyticsService) ChoiceCount(session *model.Session, qid, choice string) int {
	if session == nil {
		return 0
	}
	n := 0
	for _, r := range session.Responses {
		if picked, ok := r.Answers[qid].(model.ChoiceAnswer); ok && picked.Contains(choice) {
			n++
		}
	}
	return n
}

// ChoicePercent is the rounded share of responses that picked choice.
// Zero responses yield 0.
func (s *AnalyticsService) ChoicePercent(session *model.Session, qid, choice string) int {
	if session == nil {
		return 0
	}
	total := max(len(session.Responses), 1)
	return int(math.Round(float64(s.ChoiceCount(session, qid, choice)) / float64(total) * 100))
}

// ChoiceStats returns one row per option of q
func (s *AnalyticsService) ChoiceStats(session *model.Session, q model.Question) []model.ChoiceStat {
	total := 1
	if session != nil {
		total = max(len(session.Responses), 1)
	}
	stats := make([]model.ChoiceStat, 0, len(q.Choices))
	for _, choice := range q.Choices {
		count := s.ChoiceCount(session, q.ID, choice)
		stats = append(stats, model.ChoiceStat{
			Choice:  choice,
			Count:   count,
			Percent: s.ChoicePercent(session, q.ID, choice),
			Width:   math.Max(float64(count)/float64(total)*100, minBarPercent),
		})
	}
	return stats
}

// TextResponses lists the non-empty text answers to qid in response order.
func (s *AnalyticsService) TextResponses(session *model.Session, qid string) []string {
	texts := []string{}
	if session == nil {
		return texts
	}
	for _, r := range session.Responses {
		if t, ok := r.Answers[qid].(model.TextAnswer); ok && t != "" {
			texts = append(texts, string(t))
		}
	}
	return texts
}

// SessionInsights builds the analytics view for a session
func (s *AnalyticsService) SessionInsights(course *model.Course, session *model.Session) *model.SessionInsights {
	if session == nil {
		return nil
	}
	insights := &model.SessionInsights{
		SessionID: session.ID,
		Title:     session.Title,
		PIN:       session.PIN,
		Responses: len(session.Responses),
		Waiting:   len(session.Responses) == 0,
		Charts:    make([]model.QuestionChart, 0, len(session.Questions)),
	}
	if course != nil {
		insights.CourseName = course.Name
	}

	for _, q := range session.Questions {
		chart := model.QuestionChart{QuestionID: q.ID, Title: q.Title, Type: q.Type}
		switch q.Type {
		case model.QuestionTypeScale:
			chart.Buckets = s.ScaleBuckets(s.ScaleCounts(session, q.ID))
		case model.QuestionTypeMultiple:
			chart.Choices = s.ChoiceStats(session, q)
		case model.QuestionTypeText:
			chart.Texts = s.TextResponses(session, q.ID)
		}
		insights.Charts = append(insights.Charts, chart)
	}
	return insights
}
