package main

import "testing"

func TestInviteRoundTrip(t *testing.T) {
	token := MakeInvite("secret", "woods")
	if !ValidateInvite("secret", "woods", token) {
		t.Error("valid invite refused")
	}
	if ValidateInvite("secret", "other-room", token) {
		t.Error("invite accepted for the wrong room")
	}
	if ValidateInvite("other-secret", "woods", token) {
		t.Error("invite accepted under the wrong secret")
	}
	if ValidateInvite("secret", "woods", "forged") {
		t.Error("forged invite accepted")
	}
}

func TestInviteOptionalWithoutSecret(t *testing.T) {
	if !ValidateInvite("", "woods", "") {
		t.Error("invites should be open when no secret is set")
	}
	if !ValidateInvite("", "woods", "anything") {
		t.Error("open rooms should ignore invite tokens")
	}
}

func TestInviteDeterministic(t *testing.T) {
	if MakeInvite("secret", "woods") != MakeInvite("secret", "woods") {
		t.Error("invite token must be stable across calls")
	}
}

func TestNormalizeRoomID(t *testing.T) {
	cases := map[string]string{
		"Woods":            "woods",
		"  dark-woods  ":   "dark-woods",
		"room 7!":          "room7",
		"UPPER_case-42":    "upper_case-42",
		"":                 "",
		"../../etc/passwd": "etcpasswd",
	}
	for in, want := range cases {
		if got := normalizeRoomID(in); got != want {
			t.Errorf("normalizeRoomID(%q) = %q, want %q", in, got, want)
		}
	}
}
