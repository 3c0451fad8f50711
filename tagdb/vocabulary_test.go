package tagdb

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/tommy-xr/shock2quest-sub001/namemap"
	"github.com/tommy-xr/shock2quest-sub001/stream"
)

func readNameMap(t *testing.T, slots ...string) *namemap.NameMap {
	t.Helper()
	w := stream.NewWriter()
	namemap.Encode(w, slots)
	nm, err := namemap.Read(stream.NewBytesReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	return nm
}

func testVocabulary(t *testing.T) Vocabulary {
	return Vocabulary{
		Tags:   readNameMap(t, "", "Event", "Material", "Health"),
		Values: readNameMap(t, "Collision", "Footstep", "Metal", "Wood", "Explode"),
	}
}

func TestTranslate(t *testing.T) {
	v := testVocabulary(t)
	got := v.Translate([]Pair{
		{Tag: "event", Value: "footstep"},
		{Tag: "Health", Value: "40"},
		{Tag: "Material", Value: "wood", Optional: true},
		{Tag: "Material"},
		{Tag: "Mood", Value: "footstep"},
		{Tag: "Event", Value: "Teleport"},
	})
	want := []Term{
		EnumTerm(tagEvent, 1),
		IntTerm(tagHealth, 40),
		EnumTerm(tagMaterial, 3).AsOptional(),
		PresentTerm(tagMaterial),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v\nwant %+v", got, want)
	}
}

func TestTranslatedQuery(t *testing.T) {
	db := fixture(t)
	v := testVocabulary(t)
	got := sorted(db.QueryMatchAll(v.Translate([]Pair{
		{Tag: "Event", Value: "Footstep"},
		{Tag: "Health", Value: "75"},
		{Tag: "Weather", Value: "Rain"},
	})))
	if want := []int32{200, 202}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestScaleWeight(t *testing.T) {
	for _, tc := range []struct {
		in   float32
		want uint32
	}{
		{1, WEIGHT_SCALE},
		{0.5, WEIGHT_SCALE / 2},
		{0, 0},
		{-2, 0},
		{float32(math.NaN()), 0},
	} {
		if got := ScaleWeight(tc.in); got != tc.want {
			t.Errorf("ScaleWeight(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestChooseLeaf(t *testing.T) {
	src := rand.New(rand.NewSource(3))
	leaves := []Leaf{{Data: 1, Weight: 0}, {Data: 2, Weight: 0.25}}
	for i := 0; i < 50; i++ {
		if got, err := ChooseLeaf(src, leaves); err != nil || got != 2 {
			t.Fatalf("got %d, %v", got, err)
		}
	}
	if _, err := ChooseLeaf(src, nil); err == nil {
		t.Errorf("expected error without leaves")
	}
}
