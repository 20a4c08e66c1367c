package csscolor

import (
	"slices"
	"testing"
)

func TestExtract_ShadowList(t *testing.T) {
	got := ExtractAll("2px 2px 4px rgba(0,0,0,0.3), 0 0 2px #fff")
	want := []string{"rgba(0,0,0,0.3)", "#fff"}
	if !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtract_Mixed(t *testing.T) {
	got := ExtractAll("HSLA(10, 20%, 30%, .5) 1px, rgb (1, 2, 3) inset, #ABCDEF80, #12345 #1234")
	want := []string{"HSLA(10, 20%, 30%, .5)", "rgb (1, 2, 3)", "#ABCDEF80", "#1234"}
	if !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtract_None(t *testing.T) {
	if got := ExtractAll("red"); len(got) != 0 {
		t.Errorf("keyword: got %q, want none", got)
	}
	if got := ExtractAll(""); len(got) != 0 {
		t.Errorf("empty: got %q", got)
	}
}

func TestExtract_Restartable(t *testing.T) {
	seq := Extract("#000 #111 #222")
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !slices.Equal(first, second) || len(first) != 3 {
		t.Errorf("restart: %q vs %q", first, second)
	}

	var n int
	for range seq {
		n++
		break
	}
	if n != 1 {
		t.Errorf("early stop: got %d iterations", n)
	}
}
