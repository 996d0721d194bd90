package jornada

import "time"

// WorkSession is one clock-in to clock-out interval. Hour fields stay zero
// while the session is active and are written once at clock-out.
type WorkSession struct {
	ID              string     `json:"id"`
	Date            Date       `json:"date"`
	StartAt         time.Time  `json:"start_at"`
	EndAt           *time.Time `json:"end_at"`
	IsActive        bool       `json:"is_active"`
	RegularHours    float64    `json:"regular_hours"`
	ExtraHours      float64    `json:"extra_hours"`
	TotalHours      float64    `json:"total_hours"`
	WorkDescription string     `json:"work_description"`
}

// SessionUpdate is the clock-out mutation.
type SessionUpdate struct {
	EndAt           time.Time
	RegularHours    float64
	ExtraHours      float64
	TotalHours      float64
	WorkDescription string
}

func (u SessionUpdate) apply(s WorkSession) WorkSession {
	end := u.EndAt
	s.EndAt = &end
	s.IsActive = false
	s.RegularHours = u.RegularHours
	s.ExtraHours = u.ExtraHours
	s.TotalHours = u.TotalHours
	s.WorkDescription = u.WorkDescription
	return s
}

func sumHours(ss []WorkSession) (regular, extra, total float64) {
	for _, s := range ss {
		if s.IsActive {
			continue
		}
		regular += s.RegularHours
		extra += s.ExtraHours
		total += s.TotalHours
	}
	return regular, extra, total
}
