package weekday

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Day
		err  bool
	}{
		{in: "monday", want: Monday},
		{in: "Mon", want: Monday},
		{in: " WED ", want: Wednesday},
		{in: "thu", want: Thursday},
		{in: "Sunday", want: Sunday},
		{in: "funday", err: true},
		{in: "", err: true},
		{in: "mo", err: true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.err {
			if err == nil {
				t.Fatalf("Parse(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDropsInvalidAndDuplicates(t *testing.T) {
	got := Normalize([]string{"Friday", "monday", "nope", "FRIDAY", "wed"})
	want := []Day{Friday, Monday, Wednesday}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestParseList(t *testing.T) {
	got, err := ParseList("mon, wed,mon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]Day{Monday, Wednesday}, got); diff != "" {
		t.Fatalf("ParseList mismatch (-want +got):\n%s", diff)
	}
	if _, err := ParseList("mon,xyz"); err == nil {
		t.Fatalf("expected error for unknown day")
	}
	empty, err := ParseList("  ")
	if err != nil || empty != nil {
		t.Fatalf("expected nil list for blank input, got %v %v", empty, err)
	}
}

func TestSortUsesPlannerOrder(t *testing.T) {
	got := Sort([]Day{Sunday, Friday, Monday})
	if diff := cmp.Diff([]Day{Monday, Friday, Sunday}, got); diff != "" {
		t.Fatalf("Sort mismatch (-want +got):\n%s", diff)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name      string
		days      []Day
		exception bool
		want      string
	}{
		{name: "every day", days: All, want: "Every day"},
		{name: "every day with exceptions", days: All, exception: true, want: "Every day (with exceptions)"},
		{name: "single", days: []Day{Tuesday}, want: "Every Tuesday"},
		{name: "weekdays", days: []Day{Friday, Monday, Tuesday, Wednesday, Thursday}, want: "Weekdays"},
		{name: "weekends", days: []Day{Sunday, Saturday}, want: "Weekends"},
		{name: "unsorted", days: []Day{Friday, Monday, Wednesday}, want: "Repeats: Mon, Wed, Fri"},
		{name: "six days", days: []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}, want: "Repeats: Mon, Tue, Wed, Thu, Fri, Sat"},
		{name: "none", days: nil, want: "No days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Label(tt.days, tt.exception); got != tt.want {
				t.Fatalf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOptionFor(t *testing.T) {
	if got := OptionFor(All, false); got != EveryDay {
		t.Fatalf("expected EveryDay, got %s", got)
	}
	if got := OptionFor(All, true); got != EveryDay {
		t.Fatalf("expected EveryDay with exceptions, got %s", got)
	}
	if got := OptionFor([]Day{Monday, Friday}, false); got != SpecificDays {
		t.Fatalf("expected SpecificDays, got %s", got)
	}
	if got := OptionFor(nil, false); got != SpecificDays {
		t.Fatalf("expected SpecificDays for empty, got %s", got)
	}
}

func TestToDaysAndValidate(t *testing.T) {
	if diff := cmp.Diff(All, ToDays(EveryDay, []Day{Monday})); diff != "" {
		t.Fatalf("ToDays(EveryDay) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Day{Monday}, ToDays(SpecificDays, []Day{Monday})); diff != "" {
		t.Fatalf("ToDays(SpecificDays) mismatch (-want +got):\n%s", diff)
	}
	if err := Validate(SpecificDays, nil); err != ErrNoDays {
		t.Fatalf("expected ErrNoDays, got %v", err)
	}
	if err := Validate(EveryDay, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
