package orchestrators

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"runclub/internal/application/apperr"
	domain "runclub/internal/domain/member"
)

// ImportMembersInput carries the CSV roster and import options.
// PRE: Reader is a CSV stream with a header row containing NAME and TEAM
// POST: Returns aggregate counts and per-row errors; no writes when DryRun
// INVARIANT: Existing members are never deleted; IDs are preserved on update
type ImportMembersInput struct {
	Reader     io.Reader
	DryRun     bool
	UpdateMode bool // rows whose ID matches an existing member overwrite it
}

// ImportMembersResult holds aggregate counts and per-row errors from an import run.
type ImportMembersResult struct {
	Total   int                     `json:"total"`
	Created int                     `json:"created"`
	Updated int                     `json:"updated"`
	Skipped int                     `json:"skipped"`
	Errors  []ImportMembersRowError `json:"errors"`
	DryRun  bool                    `json:"dry_run"`
	Unknown []string                `json:"unknown_columns"`
}

// ImportMembersRowError describes a validation or processing error for a single CSV row.
type ImportMembersRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportMembersDeps holds external dependencies for the import orchestrator.
type ImportMembersDeps struct {
	MemberStore MemberStore
	GenerateID  func() string
	Now         func() time.Time
}

var importColumns = map[string]bool{
	"ID": true, "NAME": true, "DEPARTMENT": true, "TEAM": true,
	"BEST_10KM": true, "BEST_HALF": true, "BEST_FULL": true,
}

// ExecuteImportMembers reads a roster CSV and creates or updates members.
// Row problems are collected rather than aborting the run.
// PRE: Input.Reader contains a CSV with at least NAME and TEAM columns
// POST: Members are created, updated or skipped according to DryRun and UpdateMode
func ExecuteImportMembers(ctx context.Context, input ImportMembersInput, deps ImportMembersDeps) (ImportMembersResult, error) {
	cr := csv.NewReader(input.Reader)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return ImportMembersResult{}, apperr.Invalidf("read CSV header: %v", err)
	}

	colIdx := make(map[string]int, len(header))
	var unknown []string
	for i, h := range header {
		key := strings.ToUpper(strings.TrimSpace(h))
		colIdx[key] = i
		if !importColumns[key] {
			unknown = append(unknown, h)
		}
	}
	for _, required := range []string{"NAME", "TEAM"} {
		if _, ok := colIdx[required]; !ok {
			return ImportMembersResult{}, apperr.Invalidf("CSV missing required column: %s", required)
		}
	}

	getCol := func(row []string, col string) string {
		i, ok := colIdx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	result := ImportMembersResult{DryRun: input.DryRun, Unknown: unknown}
	rowNum := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		result.Total++

		fields := MemberFields{
			Name:       getCol(row, "NAME"),
			Department: getCol(row, "DEPARTMENT"),
			Team:       getCol(row, "TEAM"),
			Best10K:    getCol(row, "BEST_10KM"),
			BestHalf:   getCol(row, "BEST_HALF"),
			BestFull:   getCol(row, "BEST_FULL"),
		}

		m := domain.Member{ID: getCol(row, "ID")}
		exists := false
		if m.ID != "" {
			existing, lookupErr := deps.MemberStore.GetByID(ctx, m.ID)
			if lookupErr == nil {
				m, exists = existing, true
			} else if !apperr.IsNotFound(apperr.Store("get member", lookupErr)) {
				return result, apperr.Store("get member", lookupErr)
			}
		}
		if exists && !input.UpdateMode {
			result.Skipped++
			continue
		}

		if err := fields.apply(&m); err != nil {
			result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		if err := m.Validate(); err != nil {
			result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: err.Error()})
			continue
		}

		if input.DryRun {
			if exists {
				result.Updated++
			} else {
				result.Created++
			}
			continue
		}

		if !exists {
			if m.ID == "" {
				m.ID = deps.GenerateID()
			}
			m.CreatedAt = deps.Now()
		}
		if err := deps.MemberStore.Save(ctx, m); err != nil {
			slog.Error("members_import_save_failed", "row", rowNum, "member_id", m.ID, "err", err)
			result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: "save failed (see server log)"})
			continue
		}
		if exists {
			result.Updated++
		} else {
			result.Created++
		}
	}

	slog.Info("members_import",
		"dry_run", input.DryRun,
		"update_mode", input.UpdateMode,
		"total", result.Total,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	return result, nil
}

// String summarises the run for CLI output.
func (r ImportMembersResult) String() string {
	prefix := ""
	if r.DryRun {
		prefix = "dry run: "
	}
	return fmt.Sprintf("%s%d rows, %d created, %d updated, %d skipped, %d errors",
		prefix, r.Total, r.Created, r.Updated, r.Skipped, len(r.Errors))
}
