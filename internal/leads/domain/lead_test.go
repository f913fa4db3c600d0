package domain

import "testing"

func TestParseChannel(t *testing.T) {
	cases := []struct {
		in   string
		want Channel
		ok   bool
	}{
		{"", ChannelWhatsApp, true},
		{" WhatsApp ", ChannelWhatsApp, true},
		{"EMAIL", ChannelEmail, true},
		{"both", ChannelBoth, true},
		{"Entrambi", ChannelBoth, true},
		{"sms", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseChannel(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseChannel(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestStateAcceptsProposals(t *testing.T) {
	if !StateNew.AcceptsProposals() || !StatePendingApproval.AcceptsProposals() {
		t.Fatal("new and pending_approval leads must accept proposals")
	}
	if StateApproved.AcceptsProposals() {
		t.Fatal("approved leads only reopen through regeneration")
	}
}

func TestChannelSendable(t *testing.T) {
	if ChannelBoth.Sendable() {
		t.Fatal("both is a preference, not a delivery channel")
	}
	if !ChannelEmail.Sendable() || !ChannelWhatsApp.Sendable() {
		t.Fatal("whatsapp and email are delivery channels")
	}
}
