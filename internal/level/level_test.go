package level

import "testing"

func TestParseNames(t *testing.T) {
	cases := map[string]Level{
		"trace":   Trace,
		"debug":   Debug,
		"info":    Info,
		"WARN":    Warn,
		" error ": Error,
		"fatal":   Fatal,
	}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("Parse(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseNumeric(t *testing.T) {
	got, err := Parse("40")
	if err != nil {
		t.Fatal(err)
	}
	if got != Warn {
		t.Errorf("Parse(\"40\") = %d, want %d", got, Warn)
	}

	// Non-standard values are allowed as long as they are positive.
	got, err = Parse("35")
	if err != nil {
		t.Fatal(err)
	}
	if got != Level(35) {
		t.Errorf("Parse(\"35\") = %d, want 35", got)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse("verbose"); err == nil {
		t.Error("expected error for unknown level name")
	}
	if _, err := Parse("-5"); err == nil {
		t.Error("expected error for negative level")
	}
}

func TestDisplay(t *testing.T) {
	if got := Error.Display(); got != "ERROR" {
		t.Errorf("expected ERROR, got %s", got)
	}
	if got := Level(35).Display(); got != "LVL35" {
		t.Errorf("expected LVL35, got %s", got)
	}
}
