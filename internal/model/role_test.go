package model

import (
	"encoding/json"
	"testing"
)

func TestRole_TextRoundTrip(t *testing.T) {
	for _, r := range []Role{RoleAdministrator, RoleInstructor, RoleStudent} {
		b, err := r.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) failed: %v", r, err)
		}
		var got Role
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%s) failed: %v", b, err)
		}
		if got != r {
			t.Errorf("expected %v, got %v", r, got)
		}
	}
}

func TestRole_UnknownNameRejected(t *testing.T) {
	var s Student
	err := json.Unmarshal([]byte(`{"id":"x","role":"ROOT"}`), &s)
	if err == nil {
		t.Fatal("expected unknown role to be rejected")
	}
}

func TestStudent_JSONFieldNames(t *testing.T) {
	raw := `{"id":"s1","name":"Ricardo","email":"r@a.com","role":"ALUNO","status":"active","paymentStatus":"paid","teacherId":"t1","isVerified":true,"dueDate":1700000000000}`
	var s Student
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if s.TeacherID != "t1" || s.Role != RoleStudent || !s.Verified() {
		t.Errorf("unexpected decode: %+v", s)
	}
	due, ok := s.Due()
	if !ok || due.UnixMilli() != 1700000000000 {
		t.Errorf("unexpected due date: %v %v", due, ok)
	}
}

func TestIdentity_VerifiedDefaultsToPending(t *testing.T) {
	if (Identity{}).Verified() {
		t.Error("missing flag should count as pending")
	}
	if (Identity{IsVerified: Bool(false)}).Verified() {
		t.Error("false flag should count as pending")
	}
}

func TestIdentity_MatchesEmail(t *testing.T) {
	id := Identity{Email: "Carlos@Academia.com"}
	if !id.MatchesEmail("  carlos@academia.COM ") {
		t.Error("expected case-insensitive match")
	}
	if id.MatchesEmail("other@academia.com") {
		t.Error("unexpected match")
	}
}
