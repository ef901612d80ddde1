package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/lingokeeper/internal/timex"
)

type ActivityType string

const (
	ActivityWordQuery ActivityType = "WORD_QUERY"
	ActivityDialogue  ActivityType = "DIALOGUE"
	ActivityQuiz      ActivityType = "QUIZ"
)

// ParseActivityType accepts the wire name in any case plus the short forms
// "word", "dialogue" and "quiz". An empty string means no filter.
func ParseActivityType(s string) (ActivityType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "word", "word_query":
		return ActivityWordQuery, nil
	case "dialogue":
		return ActivityDialogue, nil
	case "quiz":
		return ActivityQuiz, nil
	}
	return "", fmt.Errorf("unknown activity type %q", s)
}

func (a ActivityType) Label() string {
	switch a {
	case ActivityWordQuery:
		return "Word Query"
	case ActivityDialogue:
		return "Dialogue"
	case ActivityQuiz:
		return "Quiz"
	}
	return string(a)
}

func (a ActivityType) Icon() string {
	switch a {
	case ActivityWordQuery:
		return "Search"
	case ActivityDialogue:
		return "ChatDotRound"
	}
	return "Document"
}

func (a ActivityType) Color() string {
	switch a {
	case ActivityWordQuery:
		return "primary"
	case ActivityDialogue:
		return "success"
	case ActivityQuiz:
		return "warning"
	}
	return "info"
}

type LearningRecord struct {
	ID              int64           `json:"id"`
	ActivityType    ActivityType    `json:"activityType"`
	ActivityID      int64           `json:"activityId"`
	ActivityTime    timex.Time      `json:"activityTime"`
	ActivityDetails json.RawMessage `json:"activityDetails,omitempty"`
}

type RecordsPage struct {
	Records    []LearningRecord `json:"records"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

// RecordQuery holds the parameters of a records request. Zero values are
// treated as "not given".
type RecordQuery struct {
	Page         int
	PageSize     int
	ActivityType ActivityType
	StartDate    *time.Time
	EndDate      *time.Time
}

// Values encodes the non-zero fields as query parameters.
func (q RecordQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.ActivityType != "" {
		v.Set("activityType", string(q.ActivityType))
	}
	if q.StartDate != nil {
		v.Set("startDate", timex.FormatLocal(*q.StartDate))
	}
	if q.EndDate != nil {
		v.Set("endDate", timex.FormatLocal(*q.EndDate))
	}
	return v
}

type Statistics struct {
	TotalWordQueries      int64       `json:"totalWordQueries"`
	TotalDialogueSessions int64       `json:"totalDialogueSessions"`
	TotalQuizzes          int64       `json:"totalQuizzes"`
	AverageQuizScore      float64     `json:"averageQuizScore"`
	TotalActivities       int64       `json:"totalActivities"`
	FirstActivityDate     *timex.Time `json:"firstActivityDate,omitempty"`
	LastActivityDate      *timex.Time `json:"lastActivityDate,omitempty"`
	ActivitiesLast7Days   int64       `json:"activitiesLast7Days"`
	ActivitiesLast30Days  int64       `json:"activitiesLast30Days"`
}
