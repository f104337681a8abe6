package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"runclub/internal/adapters/email"
	"runclub/internal/adapters/export"
	"runclub/internal/adapters/storage"
	"runclub/internal/application/orchestrators"
	"runclub/internal/application/projections"
	"runclub/internal/domain/week"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		v, err := storage.SchemaVersion(db)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (latest %d)\n", v, storage.LatestSchemaVersion())
		return nil
	},
}

var weekCmd = &cobra.Command{
	Use:   "week START END",
	Short: "Print the mission week window for a date range",
	Args:  cobra.ExactArgs(2),
	RunE:  runWeek,
}

var progressCmd = &cobra.Command{
	Use:   "progress MISSION_ID",
	Short: "Print team standings for a mission",
	Args:  cobra.ExactArgs(1),
	RunE:  runProgress,
}

var exportGridCmd = &cobra.Command{
	Use:   "export-grid MISSION_ID [FILE]",
	Short: "Write a mission's performance grid and standings to an xlsx workbook",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runExportGrid,
}

var importMembersCmd = &cobra.Command{
	Use:   "import-members FILE",
	Short: "Create or update members from a roster CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportMembers,
}

var digestCmd = &cobra.Command{
	Use:   "digest MISSION_ID",
	Short: "Email the standings digest for a mission",
	Args:  cobra.ExactArgs(1),
	RunE:  runDigest,
}

func init() {
	progressCmd.Flags().StringP("policy", "p", "", "target policy: auto, aggregate or slots")
	digestCmd.Flags().StringP("policy", "p", "", "target policy: auto, aggregate or slots")
	importMembersCmd.Flags().Bool("dry-run", false, "validate without writing")
	importMembersCmd.Flags().Bool("update", false, "overwrite members whose ID already exists")

	rootCmd.AddCommand(migrateCmd, weekCmd, progressCmd, exportGridCmd, importMembersCmd, digestCmd)
}

func runWeek(cmd *cobra.Command, args []string) error {
	start, err := week.ParseDate(args[0])
	if err != nil {
		return err
	}
	end, err := week.ParseDate(args[1])
	if err != nil {
		return err
	}
	days, err := week.Window(start, end)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tDAY\tLABEL")
	for _, d := range days {
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.Date, d.DayName, d.Label)
	}
	return w.Flush()
}

func runProgress(cmd *cobra.Command, args []string) error {
	policy, _ := cmd.Flags().GetString("policy")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	s := newStores(db, nil)

	result, err := projections.QueryGetMissionProgress(cmd.Context(), projections.GetMissionProgressQuery{
		MissionID: args[0],
		Policy:    policy,
	}, projections.GetMissionProgressDeps{
		MissionStore: s.MissionStore,
		MemberStore:  s.MemberStore,
		RecordStore:  s.RecordStore,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d week %d: %s (%s policy)\n", result.Mission.Year, result.Mission.WeekNumber,
		result.Mission.Title, result.Policy)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "RANK\tTEAM\tMEMBERS\tTOTAL KM\tAVG KM\tTARGET\tRATE\t")
	for i, tp := range result.Standings {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.1f\t%.2f\t%.1f\t%.1f%%\t\n",
			i+1, tp.Team, tp.MemberCount, tp.TotalDistance, tp.AverageDistance, tp.Target, tp.AchievementRate)
	}
	return w.Flush()
}

func runExportGrid(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	s := newStores(db, nil)
	ctx := cmd.Context()

	grid, err := projections.QueryGetPerformanceGrid(ctx, projections.GetPerformanceGridQuery{MissionID: args[0]},
		projections.GetPerformanceGridDeps{
			MissionStore:    s.MissionStore,
			MemberStore:     s.MemberStore,
			AttendanceStore: s.AttendanceStore,
		})
	if err != nil {
		return err
	}
	prog, err := projections.QueryGetMissionProgress(ctx, projections.GetMissionProgressQuery{MissionID: args[0]},
		projections.GetMissionProgressDeps{
			MissionStore: s.MissionStore,
			MemberStore:  s.MemberStore,
			RecordStore:  s.RecordStore,
		})
	if err != nil {
		return err
	}

	wb := export.Workbook{Mission: grid.Mission, Grid: grid.Grid, Standings: prog.Standings}
	path := wb.Filename()
	if len(args) == 2 {
		path = args[1]
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteXLSX(f, wb); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d members)\n", path, len(grid.Grid.Rows))
	return nil
}

func runImportMembers(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	update, _ := cmd.Flags().GetBool("update")

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	s := newStores(db, nil)

	result, err := orchestrators.ExecuteImportMembers(cmd.Context(), orchestrators.ImportMembersInput{
		Reader:     f,
		DryRun:     dryRun,
		UpdateMode: update,
	}, orchestrators.ImportMembersDeps{
		MemberStore: s.MemberStore,
		GenerateID:  func() string { return uuid.New().String() },
		Now:         time.Now,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.String())
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d rows failed", len(result.Errors))
	}
	return nil
}

func runDigest(cmd *cobra.Command, args []string) error {
	policy, _ := cmd.Flags().GetString("policy")
	if cfg.Email.ResendKey == "" {
		return fmt.Errorf("email.resend_key is not configured")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	s := newStores(db, nil)

	result, err := orchestrators.ExecuteSendProgressDigest(cmd.Context(), orchestrators.SendProgressDigestInput{
		MissionID: args[0],
		Policy:    policy,
	}, orchestrators.SendProgressDigestDeps{
		MissionStore: s.MissionStore,
		MemberStore:  s.MemberStore,
		RecordStore:  s.RecordStore,
		EmailSender:  email.NewResendSender(cfg.Email.ResendKey, cfg.Email.From, cfg.Email.ReplyTo),
		Recipients:   cfg.Email.Recipients,
		FromAddress:  cfg.Email.From,
		ReplyTo:      cfg.Email.ReplyTo,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "sent %q to %d recipients\n", result.Subject, result.Sent)
	return nil
}
