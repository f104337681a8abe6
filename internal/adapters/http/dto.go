package web

import (
	"time"

	"runclub/internal/application/orchestrators"
	"runclub/internal/domain/member"
	"runclub/internal/domain/mission"
	"runclub/internal/domain/record"
	"runclub/internal/domain/team"
	"runclub/internal/domain/week"
)

// Wire shapes use the snake_case column names of the original tables.

type memberDTO struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Team       string    `json:"team"`
	Best10K    string    `json:"best_10km"`
	BestHalf   string    `json:"best_half"`
	BestFull   string    `json:"best_full"`
	CreatedAt  time.Time `json:"created_at"`
}

func toMemberDTO(m member.Member) memberDTO {
	return memberDTO{
		ID: m.ID, Name: m.Name, Department: m.Department, Team: string(m.Team),
		Best10K: m.Best10K, BestHalf: m.BestHalf, BestFull: m.BestFull, CreatedAt: m.CreatedAt,
	}
}

func toMemberDTOs(ms []member.Member) []memberDTO {
	out := make([]memberDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMemberDTO(m))
	}
	return out
}

type memberInput struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Team       string `json:"team"`
	Best10K    string `json:"best_10km"`
	BestHalf   string `json:"best_half"`
	BestFull   string `json:"best_full"`
}

func (in memberInput) fields() orchestrators.MemberFields {
	return orchestrators.MemberFields{
		Name: in.Name, Department: in.Department, Team: in.Team,
		Best10K: in.Best10K, BestHalf: in.BestHalf, BestFull: in.BestFull,
	}
}

type recordDTO struct {
	ID          string    `json:"id"`
	MemberID    string    `json:"member_id"`
	MemberName  string    `json:"member_name,omitempty"`
	RunningDate week.Date `json:"running_date"`
	Distance    float64   `json:"distance"`
	RunningTime string    `json:"running_time"`
	Pace        string    `json:"pace"`
	Memo        string    `json:"memo"`
	CreatedAt   time.Time `json:"created_at"`
}

func toRecordDTO(r record.Record) recordDTO {
	return recordDTO{
		ID: r.ID, MemberID: r.MemberID, MemberName: r.MemberName, RunningDate: r.RunningDate,
		Distance: r.Distance, RunningTime: record.FormatClock(r.RunningTime), Pace: r.Pace,
		Memo: r.Memo, CreatedAt: r.CreatedAt,
	}
}

func toRecordDTOs(rs []record.Record) []recordDTO {
	out := make([]recordDTO, 0, len(rs))
	for _, r := range rs {
		out = append(out, toRecordDTO(r))
	}
	return out
}

type recordInput struct {
	MemberID    string    `json:"member_id"`
	RunningDate week.Date `json:"running_date"`
	Distance    float64   `json:"distance"`
	RunningTime string    `json:"running_time"`
	Memo        string    `json:"memo"`
}

func (in recordInput) fields() orchestrators.RecordFields {
	return orchestrators.RecordFields{
		MemberID: in.MemberID, RunningDate: in.RunningDate, Distance: in.Distance,
		RunningTime: in.RunningTime, Memo: in.Memo,
	}
}

type missionDTO struct {
	ID             string    `json:"id"`
	Year           int       `json:"year"`
	WeekNumber     int       `json:"week_number"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Active         bool      `json:"is_active"`
	StartDate      week.Date `json:"start_date"`
	EndDate        week.Date `json:"end_date"`
	TargetDistance *float64  `json:"target_distance"`
	CreatedAt      time.Time `json:"created_at"`
}

func toMissionDTO(m mission.Mission) missionDTO {
	return missionDTO{
		ID: m.ID, Year: m.Year, WeekNumber: m.WeekNumber, Title: m.Title, Description: m.Description,
		Active: m.Active, StartDate: m.StartDate, EndDate: m.EndDate, TargetDistance: m.TargetDistance,
		CreatedAt: m.CreatedAt,
	}
}

func toMissionDTOs(ms []mission.Mission) []missionDTO {
	out := make([]missionDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMissionDTO(m))
	}
	return out
}

type missionInput struct {
	Year           int       `json:"year"`
	WeekNumber     int       `json:"week_number"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Active         *bool     `json:"is_active"` // defaults to true
	StartDate      week.Date `json:"start_date"`
	EndDate        week.Date `json:"end_date"`
	TargetDistance *float64  `json:"target_distance"`
}

func (in missionInput) fields() orchestrators.MissionFields {
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	return orchestrators.MissionFields{
		Year: in.Year, WeekNumber: in.WeekNumber, Title: in.Title, Description: in.Description,
		Active: active, StartDate: in.StartDate, EndDate: in.EndDate, TargetDistance: in.TargetDistance,
	}
}

// detailDTO is one slot of the matrix. Team stays a string on input so an
// unknown label surfaces as a validation error rather than a decode error.
type detailDTO struct {
	Team           string       `json:"team"`
	Weekday        week.Weekday `json:"weekday"`
	Content        string       `json:"content"`
	TargetDistance *float64     `json:"target_distance"`
}

func toDetailDTOs(ds []mission.Detail) []detailDTO {
	out := make([]detailDTO, 0, len(ds))
	for _, d := range ds {
		out = append(out, detailDTO{Team: string(d.Team), Weekday: d.Weekday, Content: d.Content, TargetDistance: d.TargetDistance})
	}
	return out
}

func fromDetailDTOs(in []detailDTO) ([]mission.Detail, error) {
	out := make([]mission.Detail, 0, len(in))
	for _, d := range in {
		t, err := team.Parse(d.Team)
		if err != nil {
			return nil, err
		}
		out = append(out, mission.Detail{Team: t, Weekday: d.Weekday, Content: d.Content, TargetDistance: d.TargetDistance})
	}
	return out, nil
}
