package main

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/config"
	"github.com/tommy-xr/shock2quest-sub001/mission"
	"github.com/tommy-xr/shock2quest-sub001/snapshot"
	"github.com/tommy-xr/shock2quest-sub001/song"
	"github.com/tommy-xr/shock2quest-sub001/vfs"
	"github.com/tommy-xr/shock2quest-sub001/web"
	"github.com/tommy-xr/shock2quest-sub001/weighted"
)

const SONG_EXT = ".snc"

func readSong(f vfs.File) (*song.Song, error) {
	r, err := vfs.OpenFileAndGetReader(f)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := song.Read(r)
	if err != nil {
		return nil, errors.Wrapf(err, "song %q", f.Name())
	}
	return s, nil
}

// loadSongs reads song files; a directory contributes all its .snc files.
func loadSongs(paths []string) ([]*song.Song, error) {
	songs := make([]*song.Song, 0, len(paths))
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrapf(err, "song %q", p)
		}
		var files []vfs.File
		if st.IsDir() {
			if files, err = vfs.Glob(vfs.NewDirectoryDriver(p), SONG_EXT); err != nil {
				return nil, err
			}
		} else {
			f, err := vfs.NewDirectoryDriverFile(p)
			if err != nil {
				return nil, errors.Wrapf(err, "song %q", p)
			}
			files = append(files, f)
		}
		for _, f := range files {
			s, err := readSong(f)
			if err != nil {
				return nil, err
			}
			songs = append(songs, s)
		}
	}
	return songs, nil
}

func main() {
	var cfgPath, addr, mis, gam, songs, encoding, snap, webPath string
	var seed int64
	var strict bool
	flag.StringVar(&cfgPath, "config", "", "Path to yaml config")
	flag.StringVar(&addr, "i", "", "Address of server (default "+config.DefaultListen+")")
	flag.StringVar(&mis, "mis", "", "Path to mission file")
	flag.StringVar(&gam, "gam", "", "Path to gamesys, overrides the mission reference")
	flag.StringVar(&songs, "songs", "", "Comma separated song files or directories")
	flag.StringVar(&encoding, "encoding", "", "Text encoding of strings: "+strings.Join(config.ListEncodings(), ", "))
	flag.StringVar(&snap, "snapshot", "", "Store the resolved world in this snapshot file")
	flag.StringVar(&webPath, "web", "", "Directory with static web files")
	flag.Int64Var(&seed, "seed", 0, "Seed of sound and music selection, 0 uses the clock")
	flag.BoolVar(&strict, "strict", false, "Fail on malformed property records")
	flag.Parse()

	cfg := &config.Config{Listen: config.DefaultListen}
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			log.Fatal(err)
		}
	}
	if addr != "" {
		cfg.Listen = addr
	}
	if mis != "" {
		cfg.Mission = mis
	}
	if gam != "" {
		cfg.Gamesys = gam
	}
	if songs != "" {
		cfg.Songs = strings.Split(songs, ",")
	}
	if encoding != "" {
		cfg.Encoding = encoding
	}
	if snap != "" {
		cfg.Snapshot = snap
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if strict {
		cfg.StrictProperties = true
	}

	if err := cfg.Validate(); err != nil {
		flag.PrintDefaults()
		log.Fatal(err)
	}
	if err := cfg.Apply(); err != nil {
		log.Fatal(err)
	}

	m, err := mission.Load(cfg.Mission, mission.Options{Gamesys: cfg.Gamesys, Strict: cfg.StrictProperties})
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	if cfg.Snapshot != "" {
		if err := snapshot.Save(cfg.Snapshot, m.Name, m.World); err != nil {
			log.Fatal(err)
		}
		log.Printf("[main] Snapshot of %d templates saved to %s", m.World.Len(), cfg.Snapshot)
	}

	sngs, err := loadSongs(cfg.Songs)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	s := web.NewServer(m, sngs, weighted.NewLockedSource(cfg.Seed))
	if err := s.Start(cfg.Listen, webPath); err != nil {
		log.Fatal(err)
	}
}
