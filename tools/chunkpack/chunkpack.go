package main

import (
	"bufio"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/chunk"
)

type metaLine struct {
	name         string
	major, minor uint32
	fileName     string
}

func parseMetaLine(s string) (metaLine, bool, error) {
	s = strings.Split(s, "#")[0]
	s = strings.Trim(s, " \t\r\n")
	if s == "" {
		return metaLine{}, false, nil
	}
	params := strings.Split(s, "|")
	if len(params) != 4 {
		return metaLine{}, false, errors.Errorf("expected 4 fields, got %d", len(params))
	}
	for i := range params {
		params[i] = strings.Trim(params[i], " \t")
	}
	var ml metaLine
	ml.name = params[0]
	if ml.name == "" || len(ml.name) >= chunk.NAME_SIZE {
		return metaLine{}, false, errors.Errorf("bad chunk name %q", ml.name)
	}
	major, err := strconv.ParseUint(params[1], 10, 32)
	if err != nil {
		return metaLine{}, false, errors.Wrapf(err, "major version")
	}
	minor, err := strconv.ParseUint(params[2], 10, 32)
	if err != nil {
		return metaLine{}, false, errors.Wrapf(err, "minor version")
	}
	ml.major, ml.minor = uint32(major), uint32(minor)
	ml.fileName = params[3]
	return ml, true, nil
}

// MakeContainer packs the chunks listed in a meta file; saved file names are
// relative to metaDir.
func MakeContainer(metaDir string, inMeta io.Reader, out io.Writer) error {
	b := chunk.NewBuilder()
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(inMeta)
	line := 0
	for scanner.Scan() {
		line++
		ml, ok, err := parseMetaLine(scanner.Text())
		if err != nil {
			return errors.Wrapf(err, "meta line %d", line)
		}
		if !ok {
			continue
		}
		if seen[ml.name] {
			return errors.Errorf("meta line %d: duplicate chunk %q", line, ml.name)
		}
		seen[ml.name] = true

		var data []byte
		if ml.fileName != "" {
			if data, err = os.ReadFile(filepath.Join(metaDir, ml.fileName)); err != nil {
				return errors.Wrapf(err, "meta line %d", line)
			}
		}
		log.Printf("[chunkpack] %s v%d.%d %d bytes", ml.name, ml.major, ml.minor, len(data))
		b.AddVersion(ml.name, ml.major, ml.minor, data)
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "read meta")
	}
	_, err := b.WriteTo(out)
	return err
}

func main() {
	var inMeta, outFile string
	flag.StringVar(&inMeta, "meta", "", "Chunk meta file")
	flag.StringVar(&outFile, "out", "", "Output container file")
	flag.Parse()

	if inMeta == "" || outFile == "" {
		log.Fatal("Provide -meta and -out flags")
	}

	fMeta, err := os.Open(inMeta)
	if err != nil {
		log.Fatalf("[chunkpack] %v", err)
	}
	defer fMeta.Close()

	fOut, err := os.Create(outFile)
	if err != nil {
		log.Fatalf("[chunkpack] %v", err)
	}

	if err := MakeContainer(filepath.Dir(inMeta), fMeta, fOut); err != nil {
		fOut.Close()
		log.Fatalf("[chunkpack] %v", err)
	}
	if err := fOut.Close(); err != nil {
		log.Fatalf("[chunkpack] %v", err)
	}
}
