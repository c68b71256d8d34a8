package priority

import (
	"errors"
	"testing"
)

func TestClassForCoversWholeScale(t *testing.T) {
	for n := MinNiceness; n <= MaxNiceness; n++ {
		class, err := ClassFor(n)
		if err != nil {
			t.Fatalf("ClassFor(%d) returned error: %v", n, err)
		}
		hits := 0
		for _, c := range Classes {
			r, ok := RangeOf(c)
			if !ok {
				t.Fatalf("no range for %s", c)
			}
			if r.Contains(n) {
				hits++
				if c != class {
					t.Fatalf("ClassFor(%d)=%s but range %s belongs to %s", n, class, r, c)
				}
			}
		}
		if hits != 1 {
			t.Fatalf("niceness %d falls into %d ranges, want exactly 1", n, hits)
		}
	}
}

func TestClassForTable(t *testing.T) {
	cases := []struct {
		n    int
		want Class
	}{
		{-19, RealTime},
		{-18, High},
		{-10, High},
		{-9, AboveNormal},
		{-1, AboveNormal},
		{0, Normal},
		{1, BelowNormal},
		{10, BelowNormal},
		{11, Idle},
		{19, Idle},
	}
	for _, tc := range cases {
		got, err := ClassFor(tc.n)
		if err != nil {
			t.Fatalf("ClassFor(%d) error: %v", tc.n, err)
		}
		if got != tc.want {
			t.Errorf("ClassFor(%d)=%s, want %s", tc.n, got, tc.want)
		}
	}
}

func TestClassForRejectsOutOfRange(t *testing.T) {
	for _, n := range []int{-25, -20, 20, 25} {
		if _, err := ClassFor(n); !errors.Is(err, ErrInvalidNiceness) {
			t.Errorf("ClassFor(%d) error=%v, want ErrInvalidNiceness", n, err)
		}
	}
}

func TestClassForHostClamps(t *testing.T) {
	if got := ClassForHost(-20); got != RealTime {
		t.Fatalf("ClassForHost(-20)=%s, want RealTime", got)
	}
	if got := ClassForHost(20); got != Idle {
		t.Fatalf("ClassForHost(20)=%s, want Idle", got)
	}
	if got := ClassForHost(5); got != BelowNormal {
		t.Fatalf("ClassForHost(5)=%s, want BelowNormal", got)
	}
}

func TestParseNicenessSymbols(t *testing.T) {
	cases := []struct {
		token     string
		niceness  int
		wantClass Class
	}{
		{"realtime", -19, RealTime},
		{"real-time", -19, RealTime},
		{"RT", -19, RealTime},
		{"high", -10, High},
		{"abovenormal", -8, AboveNormal},
		{"Above-Normal", -8, AboveNormal},
		{"ABOVE", -8, AboveNormal},
		{"normal", 0, Normal},
		{"belownormal", 8, BelowNormal},
		{"below-normal", 8, BelowNormal},
		{"Below", 8, BelowNormal},
		{"idle", 19, Idle},
	}
	for _, tc := range cases {
		n, err := ParseNiceness(tc.token)
		if err != nil {
			t.Fatalf("ParseNiceness(%q) error: %v", tc.token, err)
		}
		if n != tc.niceness {
			t.Errorf("ParseNiceness(%q)=%d, want %d", tc.token, n, tc.niceness)
		}
		class, err := ClassFor(n)
		if err != nil {
			t.Fatalf("ClassFor(%d) error: %v", n, err)
		}
		if class != tc.wantClass {
			t.Errorf("%q resolved to %s, want %s", tc.token, class, tc.wantClass)
		}
	}
}

func TestParseNicenessIntegers(t *testing.T) {
	n, err := ParseNiceness(" -5 ")
	if err != nil || n != -5 {
		t.Fatalf("ParseNiceness(-5)=%d,%v", n, err)
	}
	for _, bad := range []string{"25", "-25", "fast", ""} {
		if _, err := ParseNiceness(bad); !errors.Is(err, ErrInvalidNiceness) {
			t.Errorf("ParseNiceness(%q) error=%v, want ErrInvalidNiceness", bad, err)
		}
	}
}

func TestRepresentativeStaysInsideClass(t *testing.T) {
	for _, c := range Classes {
		got, err := ClassFor(Representative(c))
		if err != nil {
			t.Fatalf("representative of %s invalid: %v", c, err)
		}
		if got != c {
			t.Errorf("representative %d of %s maps to %s", Representative(c), c, got)
		}
	}
}

func TestSymbolsListsAliases(t *testing.T) {
	got := Symbols(RealTime)
	want := []string{"real-time", "realtime", "rt"}
	if len(got) != len(want) {
		t.Fatalf("Symbols(RealTime)=%v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Symbols(RealTime)=%v, want %v", got, want)
		}
	}
}
