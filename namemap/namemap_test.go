package namemap

import (
	"testing"

	"github.com/tommy-xr/shock2quest-sub001/stream"
)

func read(t *testing.T, slots []string) *NameMap {
	t.Helper()
	w := stream.NewWriter()
	Encode(w, slots)
	if w.Err() != nil {
		t.Fatal(w.Err())
	}
	nm, err := Read(stream.NewBytesReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	return nm
}

func TestSparseIndices(t *testing.T) {
	slots := make([]string, 10)
	slots[2] = "Event"
	slots[5] = "Material"
	slots[9] = "CreatureType"
	nm := read(t, slots)

	if nm.Count() != 3 {
		t.Fatalf("count %d", nm.Count())
	}
	for i := uint32(0); i < 10; i++ {
		name, ok := nm.Name(i)
		switch i {
		case 2, 5, 9:
			if !ok {
				t.Errorf("slot %d missing", i)
			}
			if idx, _ := nm.Index(name); idx != i {
				t.Errorf("Index(%q) = %d, want %d", name, idx, i)
			}
		default:
			if ok {
				t.Errorf("slot %d unexpectedly present as %q", i, name)
			}
		}
	}
	if got := nm.Indices(); len(got) != 3 || got[0] != 2 || got[1] != 5 || got[2] != 9 {
		t.Fatalf("indices %v", got)
	}
}

func TestLowercase(t *testing.T) {
	nm := read(t, []string{"Collision", "", "MetalHard"})
	if name, _ := nm.Name(0); name != "collision" {
		t.Fatalf("name %q", name)
	}
	if idx, ok := nm.Index("METALHARD"); !ok || idx != 2 {
		t.Fatalf("case-insensitive lookup failed: %d %v", idx, ok)
	}
	if _, ok := nm.Index("wood"); ok {
		t.Fatalf("unexpected lookup hit")
	}
}

func TestTruncated(t *testing.T) {
	w := stream.NewWriter()
	Encode(w, []string{"one", "two"})
	b := w.Bytes()
	if _, err := Read(stream.NewBytesReader(b[:len(b)-4])); err == nil {
		t.Fatalf("expected error")
	}
}
