package inventory

import (
	"testing"
	"time"
)

func TestFormatOrderNumber(t *testing.T) {
	day := time.Date(2024, 3, 7, 15, 4, 5, 0, time.UTC)

	cases := []struct {
		n    int64
		want string
	}{
		{1, "ORD-20240307-0001"},
		{2, "ORD-20240307-0002"},
		{3, "ORD-20240307-0003"},
		{42, "ORD-20240307-0042"},
		{9999, "ORD-20240307-9999"},
		// the counter never resets; wider numbers stay unique
		{10001, "ORD-20240307-10001"},
	}
	for _, c := range cases {
		if got := FormatOrderNumber(day, c.n); got != c.want {
			t.Fatalf("n=%d: expected %q, got %q", c.n, c.want, got)
		}
	}
}

func TestFormatOrderNumber_SequentialUnique(t *testing.T) {
	day := time.Now().UTC()
	seen := map[string]bool{}
	for n := int64(1); n <= 100; n++ {
		num := FormatOrderNumber(day, n)
		if seen[num] {
			t.Fatalf("duplicate order number %q", num)
		}
		seen[num] = true
	}
}
