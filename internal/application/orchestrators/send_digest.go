package orchestrators

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"runclub/internal/adapters/email"
	"runclub/internal/application/apperr"
	"runclub/internal/application/projections"
)

var digestTemplate = template.Must(template.New("digest").Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).Parse(`<h2>{{.Mission.Title}}</h2>
<p>{{.Mission.StartDate}} ~ {{.Mission.EndDate}}</p>
<table>
<tr><th>Rank</th><th>Team</th><th>Members</th><th>Total km</th><th>Average km</th><th>Achievement</th></tr>
{{range $i, $row := .Standings}}<tr><td>{{inc $i}}</td><td>{{$row.Team}}</td><td>{{$row.MemberCount}}</td><td>{{printf "%.1f" $row.TotalDistance}}</td><td>{{printf "%.1f" $row.AverageDistance}}</td><td>{{printf "%.1f" $row.AchievementRate}}%</td></tr>
{{end}}</table>
`))

// SendProgressDigestInput carries input for the send digest orchestrator.
type SendProgressDigestInput struct {
	MissionID string
	Policy    string
}

// SendProgressDigestDeps holds dependencies for SendProgressDigest.
type SendProgressDigestDeps struct {
	MissionStore projections.MissionStore
	MemberStore  projections.MemberStore
	RecordStore  projections.RecordStore
	EmailSender  email.Sender
	Recipients   []string
	FromAddress  string
	ReplyTo      string
}

// SendProgressDigestResult reports the delivered messages.
type SendProgressDigestResult struct {
	Subject string
	Sent    int
}

// ExecuteSendProgressDigest emails the current team standings of a mission,
// one message per recipient.
// PRE: at least one recipient is configured
// POST: Every recipient was handed to the sender, or an error is returned
func ExecuteSendProgressDigest(ctx context.Context, input SendProgressDigestInput, deps SendProgressDigestDeps) (SendProgressDigestResult, error) {
	if len(deps.Recipients) == 0 {
		return SendProgressDigestResult{}, apperr.Invalid(email.ErrNoRecipients)
	}

	standings, err := projections.QueryGetMissionProgress(ctx, projections.GetMissionProgressQuery{
		MissionID: input.MissionID,
		Policy:    input.Policy,
	}, projections.GetMissionProgressDeps{
		MissionStore: deps.MissionStore,
		MemberStore:  deps.MemberStore,
		RecordStore:  deps.RecordStore,
	})
	if err != nil {
		return SendProgressDigestResult{}, err
	}

	var body bytes.Buffer
	if err := digestTemplate.Execute(&body, standings); err != nil {
		return SendProgressDigestResult{}, fmt.Errorf("render digest: %w", err)
	}
	subject := fmt.Sprintf("[%d week %d] %s standings", standings.Mission.Year, standings.Mission.WeekNumber, standings.Mission.Title)

	reqs := make([]email.SendRequest, 0, len(deps.Recipients))
	for _, to := range deps.Recipients {
		reqs = append(reqs, email.SendRequest{
			To:      []string{to},
			From:    deps.FromAddress,
			Subject: subject,
			HTML:    body.String(),
			ReplyTo: deps.ReplyTo,
		})
	}
	results, err := deps.EmailSender.SendBatch(ctx, reqs)
	if err != nil {
		return SendProgressDigestResult{Subject: subject, Sent: len(results)}, fmt.Errorf("send digest: %w", err)
	}

	slog.Info("digest_event", "event", "digest_sent", "mission_id", input.MissionID, "recipients", len(results))
	return SendProgressDigestResult{Subject: subject, Sent: len(results)}, nil
}
