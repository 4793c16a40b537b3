package repository

import "testing"

func TestPredicates_Active(t *testing.T) {
	ps := Predicates{
		Always(FieldLeaderEmail, "a@b.com"),
		When(false, FieldTeamName, "rockets"),
		When(true, FieldTransactionID, ""),
		Always(FieldDeviceID, "dev-1"),
	}

	active := ps.Active()
	if len(active) != 2 {
		t.Fatalf("Expected 2 active predicates, got %d: %+v", len(active), active)
	}
	if active[0].Field != FieldLeaderEmail || active[1].Field != FieldDeviceID {
		t.Errorf("Unexpected order: %+v", active)
	}
}

func TestPredicates_Matches(t *testing.T) {
	ps := Predicates{
		Always(FieldLeaderEmail, "a@b.com"),
		When(false, FieldTeamName, "solo"),
	}

	tests := []struct {
		name   string
		values map[string]string
		want   bool
	}{
		{"email match", map[string]string{FieldLeaderEmail: "a@b.com"}, true},
		{"disabled predicate ignored", map[string]string{FieldTeamName: "solo"}, false},
		{"no match", map[string]string{FieldLeaderEmail: "c@d.com"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ps.Matches(tt.values); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	if got := NormalizeKey("  MiXed@Case.COM "); got != "mixed@case.com" {
		t.Errorf("NormalizeKey = %q", got)
	}
}
