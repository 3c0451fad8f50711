package song

import (
	"bytes"
	"math/rand"
	"reflect"
	"testing"

	"github.com/tommy-xr/shock2quest-sub001/stream"
)

func testSong() *Song {
	return &Song{
		Header:  1,
		Name:    "medsci",
		Contact: "sound@looking.glass",
		Sections: []Section{
			{Name: "intro", Wav: "medsci1", Options: []Option{
				{Schema: "door", SubOptions: []SubOption{{Next: 1, Probability: 50}, {Next: 2, Probability: 50}}},
				{Schema: "Combat, danger", SubOptions: []SubOption{{Next: 3, Probability: 1}}},
			}},
			{Name: "calm", Wav: "medsci2", Options: []Option{
				{Schema: "", SubOptions: []SubOption{{Next: 0, Probability: 1}}},
			}},
			{Name: "tense", Wav: "medsci3", Options: []Option{
				{Schema: "", SubOptions: []SubOption{{Next: 7, Probability: 1}}},
			}},
			{Name: "fight", Wav: "medsci4"},
		},
	}
}

func readTestSong(t *testing.T) *Song {
	t.Helper()
	w := stream.NewWriter()
	testSong().Encode(w)
	if err := w.Err(); err != nil {
		t.Fatal(err)
	}
	s, err := Read(bytes.NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestReadRoundTrip(t *testing.T) {
	if got, want := readTestSong(t), testSong(); !reflect.DeepEqual(got.Sections[0], want.Sections[0]) || got.Name != want.Name || got.Contact != want.Contact {
		t.Errorf("got %+v", got)
	}
}

func TestNextOption(t *testing.T) {
	s := readTestSong(t)
	src := rand.New(rand.NewSource(11))
	for _, tc := range []struct {
		cue  string
		want map[int]bool
	}{
		{"door", map[int]bool{1: true, 2: true}},
		{"DOOR", map[int]bool{1: true, 2: true}},
		{"", map[int]bool{1: true, 2: true}},
		{"elevator", map[int]bool{1: true, 2: true}},
		{"danger", map[int]bool{3: true}},
		{"combat", map[int]bool{3: true}},
	} {
		seen := make(map[int]bool)
		for i := 0; i < 200; i++ {
			next, err := s.Sections[0].NextOption(src, tc.cue)
			if err != nil {
				t.Fatal(err)
			}
			if !tc.want[next] {
				t.Fatalf("cue %q: got section %d", tc.cue, next)
			}
			seen[next] = true
		}
		if !reflect.DeepEqual(seen, tc.want) {
			t.Errorf("cue %q: reached %v, want %v", tc.cue, seen, tc.want)
		}
	}
	if _, err := s.Sections[3].NextOption(src, ""); err != ErrNoOptions {
		t.Errorf("got %v", err)
	}
}

func TestKeywords(t *testing.T) {
	o := Option{Schema: "Combat, danger\tALERT"}
	if got := o.Keywords(); !reflect.DeepEqual(got, []string{"combat", "danger", "alert"}) {
		t.Errorf("got %q", got)
	}
}

func TestPlayer(t *testing.T) {
	p, err := NewPlayer(readTestSong(t))
	if err != nil {
		t.Fatal(err)
	}
	src := rand.New(rand.NewSource(5))
	if p.Current() != 0 {
		t.Fatalf("initial section %d", p.Current())
	}
	if next, err := p.Advance(src, "combat"); err != nil || next != 3 {
		t.Fatalf("advance to fight: %d, %v", next, err)
	}
	for i := 0; i < 3; i++ {
		if next, err := p.Advance(src, "door"); err != nil || next != 3 {
			t.Fatalf("fight must loop: %d, %v", next, err)
		}
	}
	p.Reset()
	next, err := p.Advance(src, "door")
	if err != nil {
		t.Fatal(err)
	}
	if next == 2 {
		if _, err := p.Advance(src, ""); err == nil || p.Current() != 2 {
			t.Errorf("out of range transition must fail and stay, at %d", p.Current())
		}
	} else if next, err := p.Advance(src, ""); err != nil || next != 0 {
		t.Errorf("calm returns to intro: %d, %v", next, err)
	}
}

func TestReadTruncated(t *testing.T) {
	w := stream.NewWriter()
	testSong().Encode(w)
	data := w.Bytes()
	for _, n := range []int{0, 3, 20, 50, len(data) - 1} {
		if _, err := Read(bytes.NewReader(data[:n])); err == nil {
			t.Errorf("%d bytes: expected error", n)
		}
	}
	if _, err := NewPlayer(&Song{}); err == nil {
		t.Errorf("expected error for empty song")
	}
}
