package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/chunk"
)

const META_FILE = "_chunk_meta_.txt"

var motd = `#
# <=======> Chunk container meta file <=======>
#
# Lines format:
# name | version_major | version_minor | saved_filename
#
# chunks are packed in the order of this file
`

// savedName maps a chunk name to a file name usable on any file system.
func savedName(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_")
	return r.Replace(name) + ".bin"
}

func Unpack(f *chunk.File, outDir string) error {
	if err := os.MkdirAll(outDir, 0776); err != nil {
		return errors.Wrapf(err, "create %q", outDir)
	}
	meta, err := os.Create(filepath.Join(outDir, META_FILE))
	if err != nil {
		return errors.Wrapf(err, "create meta")
	}
	defer meta.Close()

	fmt.Fprint(meta, motd)

	// toc order is the layout order inside the container
	names := f.Names()
	offsetOf := func(n string) uint64 { c, _ := f.Get(n); return c.Offset }
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && offsetOf(names[j]) < offsetOf(names[j-1]); j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}

	for _, name := range names {
		h, err := f.Header(name)
		if err != nil {
			return err
		}
		sec, _ := f.Section(name)
		saved := savedName(name)
		if err := writeFile(filepath.Join(outDir, saved), sec); err != nil {
			return errors.Wrapf(err, "save chunk %q", name)
		}
		log.Printf("[chunkunpack] %s -> %s", name, saved)
		fmt.Fprintf(meta, "%s | %d | %d | %s\n", name, h.VersionMajor, h.VersionMinor, saved)
	}
	return nil
}

func writeFile(path string, r io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func main() {
	var in, outDir string
	flag.StringVar(&in, "i", "", "Container file (mis, gam, sav)")
	flag.StringVar(&outDir, "o", "", "Output directory")
	flag.Parse()

	if in == "" || outDir == "" {
		log.Fatal("Provide -i and -o flags")
	}

	f, err := chunk.OpenPath(in)
	if err != nil {
		log.Fatalf("[chunkunpack] %v", err)
	}
	defer f.Close()

	if err := Unpack(f, outDir); err != nil {
		log.Fatalf("[chunkunpack] %v", err)
	}
}
