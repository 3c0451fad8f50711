package link_test

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/tommy-xr/shock2quest-sub001/chunk"
	"github.com/tommy-xr/shock2quest-sub001/link"
	"github.com/tommy-xr/shock2quest-sub001/stream"
)

func TestRelationsRoundTrip(t *testing.T) {
	rels := link.Relations{"", "MetaProp", "Contains", "SwitchLink"}
	data, err := rels.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 4+3*link.RELATION_NAME_SIZE {
		t.Fatalf("encoded size %d", len(data))
	}
	got, err := link.ReadRelations(stream.NewBytesReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, rels) {
		t.Fatalf("got %q, want %q", got, rels)
	}
	if f, ok := got.Flavor("contains"); !ok || f != 2 {
		t.Errorf("Flavor(contains) = %d, %v", f, ok)
	}
	if _, ok := got.Name(0); ok {
		t.Errorf("flavor 0 must be invalid")
	}
	if _, ok := got.Name(4); ok {
		t.Errorf("flavor 4 must be invalid")
	}
}

func TestRelationsOverrun(t *testing.T) {
	w := stream.NewWriter()
	w.U32(10)
	w.FixedString("MetaProp", link.RELATION_NAME_SIZE)
	if _, err := link.ReadRelations(stream.NewBytesReader(w.Bytes())); err == nil {
		t.Fatal("expected error")
	}
}

func TestDisambiguator(t *testing.T) {
	for _, tc := range []struct {
		name string
		a, b link.Link
		same bool
	}{
		{"metaprop same dest", link.Link{Dest: -5, Data: link.MetaProp{Priority: 1}}, link.Link{Dest: -5, Data: link.MetaProp{Priority: 2}}, true},
		{"metaprop other dest", link.Link{Dest: -5, Data: link.MetaProp{}}, link.Link{Dest: -6, Data: link.MetaProp{}}, false},
		{"contains ordinals", link.Link{Dest: 3, Data: link.Contains{Ordinal: 0}}, link.Link{Dest: 3, Data: link.Contains{Ordinal: 1}}, false},
		{"contains same ordinal", link.Link{Dest: 3, Data: link.Contains{Ordinal: 1}}, link.Link{Dest: 3, Data: link.Contains{Ordinal: 1}}, true},
		{"opaque", link.Link{Dest: 3, Data: link.Opaque{1}}, link.Link{Dest: 3}, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if same := tc.a.Disambiguator() == tc.b.Disambiguator(); same != tc.same {
				t.Errorf("%q vs %q: same = %v", tc.a.Disambiguator(), tc.b.Disambiguator(), same)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	rels := link.Relations{"", "MetaProp", "Contains", "SwitchLink"}
	relData, err := rels.Encode()
	if err != nil {
		t.Fatal(err)
	}
	meta := []link.Link{
		{ID: 0x20002, Source: 1, Dest: -10, Flavor: 1, Data: link.MetaProp{Priority: 1}},
		{ID: 0x20001, Source: 1, Dest: -11, Flavor: 1, Data: link.MetaProp{Priority: 0}},
	}
	contains := []link.Link{
		{ID: 0x30001, Source: 1, Dest: 7, Flavor: 2, Data: link.Contains{Ordinal: 2}},
	}
	switches := []link.Link{
		{ID: 0x40001, Source: 7, Dest: 8, Flavor: 3},
	}
	metaData, err := link.EncodeData(4, meta)
	if err != nil {
		t.Fatal(err)
	}
	containsData, err := link.EncodeData(4, contains)
	if err != nil {
		t.Fatal(err)
	}
	b := chunk.NewBuilder().
		Add(link.RELATIONS_CHUNK, relData).
		Add(link.ChunkName("MetaProp"), link.EncodeLinks(meta)).
		Add(link.DataChunkName("MetaProp"), metaData).
		Add(link.ChunkName("Contains"), link.EncodeLinks(contains)).
		Add(link.DataChunkName("Contains"), containsData).
		Add(link.ChunkName("SwitchLink"), link.EncodeLinks(switches))
	data, err := b.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	f, err := chunk.Open("links.mis", bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}

	gotRels, links, err := link.Load(f)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotRels, rels) {
		t.Errorf("relations %q", gotRels)
	}
	want := []link.Link{
		{ID: 0x20001, Source: 1, Dest: -11, Flavor: 1, Relation: "MetaProp", Data: link.MetaProp{Priority: 0}},
		{ID: 0x20002, Source: 1, Dest: -10, Flavor: 1, Relation: "MetaProp", Data: link.MetaProp{Priority: 1}},
		{ID: 0x30001, Source: 1, Dest: 7, Flavor: 2, Relation: "Contains", Data: link.Contains{Ordinal: 2}},
		{ID: 0x40001, Source: 7, Dest: 8, Flavor: 3, Relation: "SwitchLink"},
	}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("got %+v\nwant %+v", links, want)
	}
}

func TestLoadWithoutRelations(t *testing.T) {
	data, err := chunk.NewBuilder().Add("GAM_FILE", []byte("shock2.gam\x00")).Bytes()
	if err != nil {
		t.Fatal(err)
	}
	f, err := chunk.Open("empty.mis", bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	_, links, err := link.Load(f)
	if err != nil || len(links) != 0 {
		t.Fatalf("links %v, err %v", links, err)
	}
}

func TestDecodeData(t *testing.T) {
	w := stream.NewWriter()
	w.FixedString("TurnOn", link.SCRIPT_PARAMS_SIZE)
	d, err := link.DecodeData(link.RelationScriptParam, w.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if d != (link.ScriptParams{Param: "TurnOn"}) {
		t.Errorf("got %#v", d)
	}
	d, err = link.DecodeData("Flinderize", []byte{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(d, link.Opaque{1, 2, 3}) {
		t.Errorf("got %#v", d)
	}
	if _, err := link.DecodeData(link.RelationMetaProp, []byte{1}); err == nil {
		t.Errorf("expected short read error")
	}
}

func TestLinksTruncated(t *testing.T) {
	data := link.EncodeLinks([]link.Link{{ID: 1, Source: 1, Dest: 2, Flavor: 1}})
	if _, err := link.ReadLinks("MetaProp", stream.NewBytesReader(data[:len(data)-1])); err == nil {
		t.Fatal("expected error")
	}
}
