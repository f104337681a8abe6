// Package attendance reconciles a mission's week window against running
// records to produce the completion grid, and turns grid edits into an
// ordered save plan.
package attendance

import (
	"errors"
	"fmt"
	"time"

	"runclub/internal/domain/member"
	"runclub/internal/domain/record"
	"runclub/internal/domain/team"
	"runclub/internal/domain/week"
)

// Domain errors
var (
	ErrUnknownMember = errors.New("member is not part of the grid")
	ErrOutsideWindow = errors.New("date is outside the mission window")
)

type cellKey struct {
	memberID string
	date     week.Date
}

// Cell is one (member, day) square of the grid.
type Cell struct {
	Date      week.Date `json:"date"`
	Completed bool      `json:"completed"`
}

// Row is one member's line of the grid.
type Row struct {
	MemberID      string    `json:"member_id"`
	Name          string    `json:"name"`
	Team          team.Team `json:"team"`
	Cells         []Cell    `json:"cells"`
	CompletedDays int       `json:"completed_days"`
}

// Grid is the performance view of a mission window.
type Grid struct {
	Days []week.Day `json:"days"`
	Rows []Row      `json:"rows"`

	members map[string]struct{}
	dates   map[week.Date]struct{}
	index   map[cellKey][]record.Record
}

// BuildGrid indexes records by (member, date) and marks each cell completed
// when any record for that exact pair has a positive distance.
// PRE: days come from week.Window; roster is already filtered for display
// POST: len(Rows) == len(roster), each with len(Days) cells in day order
func BuildGrid(roster []member.Member, records []record.Record, days []week.Day) *Grid {
	g := &Grid{
		Days:    days,
		Rows:    make([]Row, 0, len(roster)),
		members: make(map[string]struct{}, len(roster)),
		dates:   make(map[week.Date]struct{}, len(days)),
		index:   make(map[cellKey][]record.Record, len(records)),
	}
	for _, d := range days {
		g.dates[d.Date] = struct{}{}
	}
	for _, m := range roster {
		g.members[m.ID] = struct{}{}
	}
	for _, r := range records {
		if _, ok := g.members[r.MemberID]; !ok {
			continue
		}
		if _, ok := g.dates[r.RunningDate]; !ok {
			continue
		}
		k := cellKey{r.MemberID, r.RunningDate}
		g.index[k] = append(g.index[k], r)
	}

	for _, m := range roster {
		row := Row{MemberID: m.ID, Name: m.Name, Team: m.Team, Cells: make([]Cell, 0, len(days))}
		for _, d := range days {
			done := g.Completed(m.ID, d.Date)
			if done {
				row.CompletedDays++
			}
			row.Cells = append(row.Cells, Cell{Date: d.Date, Completed: done})
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

// Completed reports whether the member has a positive-distance record on date.
func (g *Grid) Completed(memberID string, date week.Date) bool {
	for _, r := range g.index[cellKey{memberID, date}] {
		if r.Completed() {
			return true
		}
	}
	return false
}

// Toggle is the desired completion state of one cell.
type Toggle struct {
	MemberID  string    `json:"member_id"`
	Date      week.Date `json:"date"`
	Completed bool      `json:"completed"`
}

// SavePlan is the staged set of writes produced by a batch of toggles.
// Apply Deletes, then Updates, then Inserts.
type SavePlan struct {
	Deletes []string        `json:"deletes"`
	Updates []record.Record `json:"updates"`
	Inserts []record.Record `json:"inserts"`
}

// Empty reports whether the plan has nothing to write.
func (p SavePlan) Empty() bool {
	return len(p.Deletes) == 0 && len(p.Updates) == 0 && len(p.Inserts) == 0
}

// Plan stages the writes needed to bring the grid to the toggled state.
// When a cell is toggled more than once, the last toggle wins.
// PRE: newID returns a fresh unique record ID on every call
// POST: Returns an error and an empty plan if any toggle is off-grid
// INVARIANT: unchecking a cell deletes its records; it never zeroes them
func (g *Grid) Plan(toggles []Toggle, newID func() string, now time.Time) (SavePlan, error) {
	order := make([]cellKey, 0, len(toggles))
	want := make(map[cellKey]bool, len(toggles))
	for _, t := range toggles {
		if _, ok := g.members[t.MemberID]; !ok {
			return SavePlan{}, fmt.Errorf("member %s: %w", t.MemberID, ErrUnknownMember)
		}
		if _, ok := g.dates[t.Date]; !ok {
			return SavePlan{}, fmt.Errorf("%s: %w", t.Date, ErrOutsideWindow)
		}
		k := cellKey{t.MemberID, t.Date}
		if _, seen := want[k]; !seen {
			order = append(order, k)
		}
		want[k] = t.Completed
	}

	var plan SavePlan
	for _, k := range order {
		existing := g.index[k]
		if !want[k] {
			for _, r := range existing {
				plan.Deletes = append(plan.Deletes, r.ID)
			}
			continue
		}
		if g.Completed(k.memberID, k.date) {
			continue
		}
		if len(existing) > 0 {
			r := existing[0]
			r.Distance = record.PlaceholderDistance
			if r.RunningTime <= 0 {
				r.RunningTime = record.PlaceholderTime
			}
			r.DerivePace()
			plan.Updates = append(plan.Updates, r)
			continue
		}
		r := record.Record{
			ID:          newID(),
			MemberID:    k.memberID,
			RunningDate: k.date,
			Distance:    record.PlaceholderDistance,
			RunningTime: record.PlaceholderTime,
			CreatedAt:   now,
		}
		r.DerivePace()
		plan.Inserts = append(plan.Inserts, r)
	}
	return plan, nil
}
