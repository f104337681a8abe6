package email

import (
	"context"
	"errors"
	"testing"
)

func TestSendRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     SendRequest
		wantErr bool
	}{
		{"ok", SendRequest{To: []string{"a@example.org"}, Subject: "Standings"}, false},
		{"no recipients", SendRequest{Subject: "Standings"}, true},
		{"no subject", SendRequest{To: []string{"a@example.org"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNoopSender_KeepsRequests(t *testing.T) {
	s := NewNoopSender()
	reqs := []SendRequest{
		{To: []string{"a@example.org"}, Subject: "one"},
		{To: []string{"b@example.org"}, Subject: "two"},
	}
	results, err := s.SendBatch(context.Background(), reqs)
	if err != nil {
		t.Fatalf("SendBatch: %v", err)
	}
	if len(results) != 2 || results[0].MessageID == "" {
		t.Errorf("results = %+v", results)
	}
	if sent := s.Sent(); len(sent) != 2 || sent[1].Subject != "two" {
		t.Errorf("sent = %+v", sent)
	}

	if _, err := s.Send(context.Background(), SendRequest{Subject: "x"}); !errors.Is(err, ErrNoRecipients) {
		t.Errorf("Send without recipients = %v, want ErrNoRecipients", err)
	}
}
