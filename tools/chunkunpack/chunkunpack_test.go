package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tommy-xr/shock2quest-sub001/chunk"
)

func TestUnpack(t *testing.T) {
	data, err := chunk.NewBuilder().
		AddVersion("Zeta", 1, 2, []byte("first")).
		Add("Alpha", []byte("second")).
		Bytes()
	if err != nil {
		t.Fatal(err)
	}
	f, err := chunk.Open("test.mis", bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	if err := Unpack(f, dir); err != nil {
		t.Fatal(err)
	}

	meta, err := os.ReadFile(filepath.Join(dir, META_FILE))
	if err != nil {
		t.Fatal(err)
	}
	var lines []string
	for _, l := range strings.Split(string(meta), "\n") {
		if l != "" && !strings.HasPrefix(l, "#") {
			lines = append(lines, l)
		}
	}
	want := []string{"Zeta | 1 | 2 | Zeta.bin", "Alpha | 0 | 1 | Alpha.bin"}
	if strings.Join(lines, ";") != strings.Join(want, ";") {
		t.Errorf("meta lines %q, want %q", lines, want)
	}

	payload, err := os.ReadFile(filepath.Join(dir, "Alpha.bin"))
	if err != nil || string(payload) != "second" {
		t.Errorf("Alpha.bin = %q, %v", payload, err)
	}
}

func TestSavedName(t *testing.T) {
	if got := savedName("a/b:c"); got != "a_b_c.bin" {
		t.Errorf("savedName = %q", got)
	}
}
