package chunk_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/chunk"
)

func buildFile(t *testing.T, b *chunk.Builder) (*chunk.File, []byte) {
	t.Helper()
	data, err := b.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	f, err := chunk.Open("test.mis", bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	return f, data
}

func TestTableOfContentsLookup(t *testing.T) {
	payloads := map[string][]byte{
		"GAM_FILE":   []byte("shock2.gam\x00"),
		"P$SymName":  bytes.Repeat([]byte{1}, 37),
		"L$MetaProp": {},
		"ROOM_DB":    bytes.Repeat([]byte{2}, 5),
	}
	order := []string{"GAM_FILE", "P$SymName", "L$MetaProp", "ROOM_DB"}

	b := chunk.NewBuilder()
	for _, name := range order {
		b.Add(name, payloads[name])
	}
	f, data := buildFile(t, b)

	toc, err := chunk.ReadTableOfContents(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if toc.Len() != len(order) {
		t.Fatalf("toc has %d chunks", toc.Len())
	}

	// recompute declared offsets by scanning the raw toc
	tocOffset := binary.LittleEndian.Uint32(data)
	for i := range order {
		entry := data[tocOffset+4+uint32(i)*chunk.TOC_ENTRY_SIZE:]
		name := string(bytes.TrimRight(entry[:chunk.NAME_SIZE], "\x00"))
		declared := binary.LittleEndian.Uint32(entry[12:])
		c, ok := toc.Get(name)
		if !ok {
			t.Fatalf("chunk %q missing", name)
		}
		if c.Offset != uint64(declared)+24 || c.Length != uint64(len(payloads[name])) {
			t.Errorf("chunk %q = %+v, declared offset 0x%x", name, c, declared)
		}
		if !toc.Has(name) {
			t.Errorf("Has(%q) disagrees with Get", name)
		}
		got, err := f.ReadAll(name)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, payloads[name]) {
			t.Errorf("payload of %q = %v", name, got)
		}
	}

	for _, absent := range []string{"", "P$HitPoint", "BRLIST", "ROOM_DB2"} {
		if _, ok := toc.Get(absent); ok {
			t.Errorf("Get(%q) found an absent chunk", absent)
		}
		if toc.Has(absent) {
			t.Errorf("Has(%q) = true", absent)
		}
		if _, ok := f.Section(absent); ok {
			t.Errorf("Section(%q) found an absent chunk", absent)
		}
	}

	names := toc.Names()
	if len(names) != 4 || names[0] != "GAM_FILE" || names[3] != "ROOM_DB" {
		t.Fatalf("names %v", names)
	}
}

func TestSectionIsScoped(t *testing.T) {
	f, _ := buildFile(t, chunk.NewBuilder().
		Add("A", []byte{1, 2, 3}).
		AddVersion("B", 2, 7, []byte{4, 5}))

	r, ok := f.Reader("A")
	if !ok {
		t.Fatal("chunk A missing")
	}
	if _, err := r.Bytes(3); err != nil {
		t.Fatal(err)
	}
	if _, err := r.U8(); err != io.EOF {
		t.Fatalf("reader escaped chunk bounds: %v", err)
	}

	h, err := f.Header("B")
	if err != nil {
		t.Fatal(err)
	}
	if h.Name != "B" || h.VersionMajor != 2 || h.VersionMinor != 7 {
		t.Fatalf("header %+v", h)
	}

	if got := f.NamesWithPrefix("B"); len(got) != 1 || got[0] != "B" {
		t.Fatalf("prefix names %v", got)
	}
}

func TestBadMagic(t *testing.T) {
	data, err := chunk.NewBuilder().Add("A", []byte{1}).Bytes()
	if err != nil {
		t.Fatal(err)
	}
	binary.LittleEndian.PutUint32(data[chunk.HEADER_SIZE-4:], 0x12345678)
	if _, err := chunk.ReadTableOfContents(bytes.NewReader(data)); errors.Cause(err) != chunk.ErrBadMagic {
		t.Fatalf("expected bad magic, got %v", err)
	}
}

func TestTruncated(t *testing.T) {
	data, err := chunk.NewBuilder().Add("A", []byte{1}).Add("B", []byte{2}).Bytes()
	if err != nil {
		t.Fatal(err)
	}
	short := data[:len(data)-6]
	if _, err := chunk.ReadTableOfContents(bytes.NewReader(short)); err == nil {
		t.Fatalf("expected error for truncated toc")
	}
	if _, err := chunk.ReadTableOfContents(bytes.NewReader(data[:10])); err == nil {
		t.Fatalf("expected error for truncated header")
	}
}

func TestChunkOverrun(t *testing.T) {
	data, err := chunk.NewBuilder().Add("A", []byte{1, 2, 3, 4}).Bytes()
	if err != nil {
		t.Fatal(err)
	}
	// claim a longer payload than the file holds
	tocOffset := binary.LittleEndian.Uint32(data)
	binary.LittleEndian.PutUint32(data[tocOffset+4+16:], 0xffff)
	if _, err := chunk.Open("bad", bytes.NewReader(data), int64(len(data))); err == nil {
		t.Fatalf("expected overrun error")
	}
}

func TestHugeChunkCount(t *testing.T) {
	data, err := chunk.NewBuilder().Bytes()
	if err != nil {
		t.Fatal(err)
	}
	tocOffset := binary.LittleEndian.Uint32(data)
	binary.LittleEndian.PutUint32(data[tocOffset:], 0x7fffffff)
	if _, err := chunk.ReadTableOfContents(bytes.NewReader(data)); err == nil {
		t.Fatalf("expected error for a count larger than the file")
	}
	if _, err := chunk.Open("huge", bytes.NewReader(data), int64(len(data))); err == nil {
		t.Fatalf("Open accepted a count larger than the file")
	}
}
