package table

import "testing"

func TestFormatAlignsColumns(t *testing.T) {
	rows := [][]string{
		{"[1]", "alice", "Main Menu"},
		{"[10]", "bob", "top"},
	}
	got := Format(rows, []Alignment{AlignRight, AlignLeft, AlignLeft})
	want := []string{
		" [1]  alice  Main Menu",
		"[10]  bob    top      ",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestFormatMeasuresWideRunes(t *testing.T) {
	rows := [][]string{{"日本", "x"}, {"ab", "y"}}
	got := Format(rows, nil)
	if got[1] != "ab    y" {
		t.Fatalf("expected wide cell padding, got %q", got[1])
	}
}

func TestFormatRaggedRows(t *testing.T) {
	got := Format([][]string{{"a", "b"}, {"c"}}, nil)
	if got[1] != "c   " {
		t.Fatalf("expected missing cell padded, got %q", got[1])
	}
	if Format(nil, nil) != nil {
		t.Fatalf("expected nil for no rows")
	}
}
