package cli

import (
	"strings"
	"testing"
	"time"
)

func TestIDSuffix(t *testing.T) {
	cases := []struct {
		id   string
		want int
	}{
		{"CLT45", 45},
		{"USR123", 123},
		{"PRJ7", 7},
		{"CLT9", 9},
	}
	for _, tc := range cases {
		if got := IDSuffix(tc.id); got != tc.want {
			t.Errorf("IDSuffix(%q) = %d, want %d", tc.id, got, tc.want)
		}
	}
}

func TestSortByID_NumericOrder(t *testing.T) {
	ids := []string{"CLT10", "CLT2", "CLT1", "CLT9"}
	SortByID(ids, func(s string) string { return s })

	want := []string{"CLT1", "CLT2", "CLT9", "CLT10"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", ids, want)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2023-12-25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC)
	if !d.Equal(want) {
		t.Errorf("ParseDate = %v, want %v", d, want)
	}

	for _, bad := range []string{"25/12/2023", "2023-13-01", "2023-1-1", "yesterday"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) succeeded, want error", bad)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(12.5); got != "12.50" {
		t.Errorf("FormatAmount(12.5) = %q, want 12.50", got)
	}
	if got := FormatAmount(0); got != "0.00" {
		t.Errorf("FormatAmount(0) = %q, want 0.00", got)
	}
}

func TestRenderVertical_ListsIndented(t *testing.T) {
	var f Fields
	f.Add("id", "CLT45")
	f.Add("description", []string{"first", "second"})
	f.Add("empty", "")

	out := RenderVertical([]Fields{f})

	for _, want := range []string{"CLT45", "description:", "    first", "    second"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "empty") {
		t.Errorf("empty field should be skipped:\n%s", out)
	}
}
