package inventory

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestNormalizeCodes_TrimUppercaseDedup(t *testing.T) {
	unique, dupes := normalizeCodes([]string{" a1 ", "A1", "b2", ""})
	if dupes != 1 {
		t.Fatalf("expected 1 duplicate, got %d", dupes)
	}
	if len(unique) != 2 || unique[0] != "A1" || unique[1] != "B2" {
		t.Fatalf("expected [A1 B2], got %v", unique)
	}
}

func TestNormalizeCodes_EmptyInput(t *testing.T) {
	unique, dupes := normalizeCodes([]string{"", "   "})
	if len(unique) != 0 || dupes != 0 {
		t.Fatalf("expected no codes and no duplicates, got %v, %d", unique, dupes)
	}
}

func TestProperty_NormalizeCodesIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		codes := rapid.SliceOfN(rapid.StringMatching(`[ a-zA-Z0-9-]{0,12}`), 0, 30).Draw(t, "codes")

		unique, _ := normalizeCodes(codes)
		again, dupes := normalizeCodes(unique)
		if dupes != 0 {
			t.Fatalf("normalized output contained duplicates: %v", unique)
		}
		if len(again) != len(unique) {
			t.Fatalf("second pass changed length: %d != %d", len(again), len(unique))
		}
		for i := range again {
			if again[i] != unique[i] {
				t.Fatalf("second pass changed order at %d: %q != %q", i, again[i], unique[i])
			}
		}
	})
}

func TestComputeWarranty_TwelveMonths(t *testing.T) {
	delivered := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	w := computeWarranty(Warranty{Provider: "acme", Months: 12}, delivered)

	if w.StartAt == nil || !w.StartAt.Equal(delivered) {
		t.Fatalf("expected start at delivery, got %v", w.StartAt)
	}
	want := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	if w.EndAt == nil || !w.EndAt.Equal(want) {
		t.Fatalf("expected end %v, got %v", want, w.EndAt)
	}
}

func TestComputeWarranty_NoMonthsNoEnd(t *testing.T) {
	delivered := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	w := computeWarranty(Warranty{Months: 0}, delivered)
	if w.EndAt != nil {
		t.Fatalf("expected no end date without months, got %v", w.EndAt)
	}
	if w.StartAt == nil || !w.StartAt.Equal(delivered) {
		t.Fatalf("expected start at delivery, got %v", w.StartAt)
	}
}

func TestComputeWarranty_PresetDatesKept(t *testing.T) {
	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	delivered := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	w := computeWarranty(Warranty{Months: 12, StartAt: &start, EndAt: &end}, delivered)
	if !w.StartAt.Equal(start) || !w.EndAt.Equal(end) {
		t.Fatalf("preset dates must not be overwritten, got %v / %v", w.StartAt, w.EndAt)
	}
}

func TestComputeWarranty_EndFromPresetStart(t *testing.T) {
	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	delivered := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	w := computeWarranty(Warranty{Months: 6, StartAt: &start}, delivered)
	want := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	if w.EndAt == nil || !w.EndAt.Equal(want) {
		t.Fatalf("expected end computed from preset start (%v), got %v", want, w.EndAt)
	}
}

func TestProperty_WarrantyMonthsArithmetic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		months := rapid.IntRange(1, 60).Draw(t, "months")
		day := rapid.IntRange(1, 28).Draw(t, "day") // stay clear of month-length edges
		month := rapid.IntRange(1, 12).Draw(t, "month")
		year := rapid.IntRange(2020, 2030).Draw(t, "year")

		delivered := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		w := computeWarranty(Warranty{Months: months}, delivered)

		if w.EndAt == nil {
			t.Fatal("expected an end date")
		}
		if got, want := *w.EndAt, delivered.AddDate(0, months, 0); !got.Equal(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		if !w.EndAt.After(*w.StartAt) {
			t.Fatalf("end %v not after start %v", w.EndAt, w.StartAt)
		}
	})
}
