package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/KennethOlivas/type-form-builder-sub000/internal/cache"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/model"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/repository"
)

const (
	funnelLabelLen  = 15
	recentAnswerMax = 5
)

// AnalyticsService turns raw visit and submission records into the dashboard
// report: KPIs, device breakdown, daily timeline, drop-off funnel, and
// per-question distributions.
type AnalyticsService struct {
	formRepo       repository.FormRepo
	visitRepo      repository.VisitRepo
	submissionRepo repository.SubmissionRepo
	reports        cache.ReportCache
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	formRepo repository.FormRepo,
	visitRepo repository.VisitRepo,
	submissionRepo repository.SubmissionRepo,
	reports cache.ReportCache,
) *AnalyticsService {
	return &AnalyticsService{
		formRepo:       formRepo,
		visitRepo:      visitRepo,
		submissionRepo: submissionRepo,
		reports:        reports,
	}
}

// Report loads the inputs for a form, aggregates, and caches the result
// briefly. An unknown form id is a NotFound error, never an empty report.
func (s *AnalyticsService) Report(ctx context.Context, formID string, dateRange model.DateRange) (*model.AnalyticsReport, error) {
	if s.reports != nil {
		cached, err := s.reports.Get(ctx, formID, dateRange)
		if err != nil {
			log.Printf("report cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrNotFound
	}

	visits, err := s.visitRepo.ListByForm(ctx, formID, dateRange)
	if err != nil {
		return nil, err
	}
	submissions, err := s.submissionRepo.ListByForm(ctx, formID, dateRange)
	if err != nil {
		return nil, err
	}

	report := s.Aggregate(form, visits, submissions, dateRange)

	if s.reports != nil {
		if err := s.reports.Set(ctx, formID, dateRange, report); err != nil {
			log.Printf("report cache write failed: %v", err)
		}
	}
	return report, nil
}

// Aggregate is the pure transform behind Report: given immutable snapshots of
// a form, its visits, and its submissions, it produces the full report. It
// never mutates its inputs and is safe to run concurrently.
//
// The funnel deliberately assumes linear traversal. A respondent whose last
// recorded question sits at position p is credited with reaching every
// question up to p even if a logic jump actually skipped some; completed
// visits credit every question. Changing this would change product
// semantics, so it stays.
func (s *AnalyticsService) Aggregate(form *model.Form, visits []*model.FormVisit, submissions []*model.Submission, dateRange model.DateRange) *model.AnalyticsReport {
	visits = filterVisits(visits, dateRange)
	submissions = filterSubmissions(submissions, dateRange)

	report := &model.AnalyticsReport{
		FormID:      form.ID,
		Title:       form.Title,
		Views:       len(visits),
		Submissions: len(submissions),
	}

	var timeSum float64
	var timeCount int
	devices := make(map[string]int)

	for _, visit := range visits {
		if visit.StartedAt != nil {
			report.Starts++
		}
		if visit.StartedAt != nil && visit.CompletedAt != nil {
			timeSum += visit.CompletedAt.Sub(*visit.StartedAt).Seconds()
			timeCount++
		}

		device := visit.Device
		if device == "" {
			device = "desktop"
		}
		devices[device]++
	}

	if report.Views > 0 {
		report.CompletionRate = float64(report.Submissions) / float64(report.Views) * 100
	}
	if timeCount > 0 {
		report.AvgTimeSeconds = timeSum / float64(timeCount)
	}

	report.Devices = sortedNameValues(devices)
	report.Timeline = buildTimeline(submissions)
	report.Funnel = buildFunnel(form.Questions, visits, report)
	report.Questions = questionBreakdown(form.Questions, submissions)

	return report
}

func filterVisits(visits []*model.FormVisit, dateRange model.DateRange) []*model.FormVisit {
	filtered := make([]*model.FormVisit, 0, len(visits))
	for _, v := range visits {
		if dateRange.Contains(v.CreatedAt) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

func filterSubmissions(submissions []*model.Submission, dateRange model.DateRange) []*model.Submission {
	filtered := make([]*model.Submission, 0, len(submissions))
	for _, s := range submissions {
		if dateRange.Contains(s.SubmittedAt) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func sortedNameValues(counts map[string]int) []model.NameValue {
	out := make([]model.NameValue, 0, len(counts))
	for name, value := range counts {
		out = append(out, model.NameValue{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// buildTimeline buckets submissions by UTC calendar day. Days without
// submissions are absent, not zero-filled.
func buildTimeline(submissions []*model.Submission) []model.TimelinePoint {
	byDay := make(map[string]int)
	for _, sub := range submissions {
		byDay[sub.SubmittedAt.UTC().Format("2006-01-02")]++
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	timeline := make([]model.TimelinePoint, 0, len(days))
	for _, day := range days {
		timeline = append(timeline, model.TimelinePoint{Date: day, Count: byDay[day]})
	}
	return timeline
}

// buildFunnel produces the step-wise retention counts: Views, Starts, one
// step per question, Completed.
func buildFunnel(questions []model.Question, visits []*model.FormVisit, report *model.AnalyticsReport) []model.NameValue {
	reached := make([]int, len(questions))

	for _, visit := range visits {
		if visit.CompletedAt != nil {
			for i := range reached {
				reached[i]++
			}
			continue
		}
		if visit.LastQuestionID == "" {
			continue
		}
		if p := model.QuestionIndex(questions, visit.LastQuestionID); p >= 0 {
			for i := 0; i <= p; i++ {
				reached[i]++
			}
		}
	}

	funnel := make([]model.NameValue, 0, len(questions)+3)
	funnel = append(funnel,
		model.NameValue{Name: "Views", Value: report.Views},
		model.NameValue{Name: "Starts", Value: report.Starts},
	)
	for i, q := range questions {
		funnel = append(funnel, model.NameValue{
			Name:  fmt.Sprintf("%d. %s", i+1, truncateLabel(q.Label)),
			Value: reached[i],
		})
	}
	funnel = append(funnel, model.NameValue{Name: "Completed", Value: report.Submissions})
	return funnel
}

func truncateLabel(label string) string {
	runes := []rune(label)
	if len(runes) <= funnelLabelLen {
		return label
	}
	return string(runes[:funnelLabelLen]) + "..."
}

// questionBreakdown computes the per-question slice of the report. Free-text
// types keep the most recent answers, choice types a value histogram, scalar
// types a numeric histogram with an average; non-numeric answers to scalar
// questions are skipped, not errored.
func questionBreakdown(questions []model.Question, submissions []*model.Submission) map[string]model.QuestionStats {
	// Newest first, so "recent answers" is a prefix walk.
	recentFirst := make([]*model.Submission, len(submissions))
	copy(recentFirst, submissions)
	sort.SliceStable(recentFirst, func(i, j int) bool {
		return recentFirst[i].SubmittedAt.After(recentFirst[j].SubmittedAt)
	})

	breakdown := make(map[string]model.QuestionStats, len(questions))
	for i := range questions {
		q := &questions[i]
		switch {
		case q.Type.IsChoice():
			breakdown[q.ID] = choiceStats(q, recentFirst)
		case q.Type.IsScalar():
			breakdown[q.ID] = scalarStats(q, recentFirst)
		default:
			breakdown[q.ID] = textStats(q, recentFirst)
		}
	}
	return breakdown
}

func textStats(q *model.Question, recentFirst []*model.Submission) model.QuestionStats {
	recent := make([]string, 0, recentAnswerMax)
	for _, sub := range recentFirst {
		if len(recent) == recentAnswerMax {
			break
		}
		answer, ok := sub.Answers[q.ID]
		if !ok || answer.IsEmpty() {
			continue
		}
		recent = append(recent, answer.Flatten())
	}
	return model.QuestionStats{Type: q.Type, Recent: recent}
}

func choiceStats(q *model.Question, submissions []*model.Submission) model.QuestionStats {
	counts := make(map[string]int)
	for _, sub := range submissions {
		answer, ok := sub.Answers[q.ID]
		if !ok || answer.IsEmpty() {
			continue
		}
		if answer.IsMulti() {
			for _, value := range answer.Multi {
				counts[value]++
			}
			continue
		}
		counts[answer.Text]++
	}
	return model.QuestionStats{Type: q.Type, Counts: counts}
}

func scalarStats(q *model.Question, submissions []*model.Submission) model.QuestionStats {
	histogram := make(map[int]int)
	var sum float64
	var count int

	for _, sub := range submissions {
		answer, ok := sub.Answers[q.ID]
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(answer.Flatten()), 64)
		if err != nil {
			continue
		}
		histogram[int(math.Round(value))]++
		sum += value
		count++
	}

	stats := model.QuestionStats{Type: q.Type, Histogram: histogram}
	if count > 0 {
		stats.Average = sum / float64(count)
	}
	return stats
}
