package fakeapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/lingokeeper/internal/client/models"
	"github.com/dmitrijs2005/lingokeeper/internal/timex"
)

func (s *Server) addRecordLocked(userID int64, activity models.ActivityType, activityID int64) {
	s.nextID++
	details, _ := json.Marshal(map[string]any{"activityId": activityID})
	s.records = append(s.records, models.LearningRecord{
		ID:              s.nextID,
		ActivityType:    activity,
		ActivityID:      activityID,
		ActivityTime:    timex.NewTime(s.now()),
		ActivityDetails: details,
	})
	s.owners = append(s.owners, userID)
}

// AddRecord stores a learning record for username, for seeding tests.
func (s *Server) AddRecord(username string, activity models.ActivityType, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[username]
	if a == nil {
		return
	}
	s.nextID++
	s.records = append(s.records, models.LearningRecord{ID: s.nextID, ActivityType: activity, ActivityTime: timex.NewTime(at)})
	s.owners = append(s.owners, a.user.ID)
}

func (s *Server) userRecordsLocked(userID int64) []models.LearningRecord {
	var out []models.LearningRecord
	for i, rec := range s.records {
		if s.owners[i] == userID {
			out = append(out, rec)
		}
	}
	return out
}

func intParam(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 {
		return def
	}
	return v
}

func timeParam(r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	t, err := timex.Parse(raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}

func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	page := intParam(r, "page", 1)
	size := intParam(r, "pageSize", 20)
	filter := models.ActivityType(r.URL.Query().Get("activityType"))
	from, okFrom := timeParam(r, "startDate")
	to, okTo := timeParam(r, "endDate")
	if !okFrom || !okTo {
		writeError(w, http.StatusBadRequest, "Invalid date")
		return
	}
	owner := userFrom(r.Context()).user.ID

	s.mu.Lock()
	defer s.mu.Unlock()
	matched := []models.LearningRecord{}
	for _, rec := range s.userRecordsLocked(owner) {
		if filter != "" && rec.ActivityType != filter {
			continue
		}
		if from != nil && rec.ActivityTime.Before(*from) {
			continue
		}
		if to != nil && rec.ActivityTime.After(*to) {
			continue
		}
		matched = append(matched, rec)
	}

	total := len(matched)
	totalPages := (total + size - 1) / size
	start := min((page-1)*size, total)
	end := min(start+size, total)

	writeOK(w, models.RecordsPage{
		Records:    matched[start:end],
		Total:      int64(total),
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
	})
}

func (s *Server) statistics(w http.ResponseWriter, r *http.Request) {
	owner := userFrom(r.Context()).user.ID

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var stats models.Statistics
	for _, rec := range s.userRecordsLocked(owner) {
		stats.TotalActivities++
		switch rec.ActivityType {
		case models.ActivityWordQuery:
			stats.TotalWordQueries++
		case models.ActivityDialogue:
			stats.TotalDialogueSessions++
		case models.ActivityQuiz:
			stats.TotalQuizzes++
		}
		at := rec.ActivityTime
		if stats.FirstActivityDate == nil || at.Before(stats.FirstActivityDate.Time) {
			stats.FirstActivityDate = timex.Ptr(at.Time)
		}
		if stats.LastActivityDate == nil || at.After(stats.LastActivityDate.Time) {
			stats.LastActivityDate = timex.Ptr(at.Time)
		}
		if now.Sub(at.Time) <= 7*24*time.Hour {
			stats.ActivitiesLast7Days++
		}
		if now.Sub(at.Time) <= 30*24*time.Hour {
			stats.ActivitiesLast30Days++
		}
	}

	var scored, sum int
	for _, q := range s.quizzes {
		if q.UserID == owner && q.UserScore != nil && q.TotalScore > 0 {
			scored++
			sum += *q.UserScore * 100 / q.TotalScore
		}
	}
	if scored > 0 {
		stats.AverageQuizScore = float64(sum) / float64(scored)
	}
	writeOK(w, stats)
}
