// Package mission composes a world build: the mission container, the
// gamesys it names and the domain databases both carry.
package mission

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/chunk"
	"github.com/tommy-xr/shock2quest-sub001/entity"
	"github.com/tommy-xr/shock2quest-sub001/envsound"
	"github.com/tommy-xr/shock2quest-sub001/sound"
	"github.com/tommy-xr/shock2quest-sub001/speech"
	"github.com/tommy-xr/shock2quest-sub001/status"
	"github.com/tommy-xr/shock2quest-sub001/stream"
	"github.com/tommy-xr/shock2quest-sub001/vfs"
)

const (
	GAMESYS_CHUNK = "GAM_FILE"
	ROOM_CHUNK    = "ROOM_DB"
)

type Options struct {
	// Gamesys overrides the GAM_FILE reference of the mission.
	Gamesys string
	Strict  bool
}

// Mission is one loaded world. Optional databases are nil when their chunk
// is absent.
type Mission struct {
	Name            string
	GamesysName     string
	File            *chunk.File
	Gamesys         *chunk.File
	Database        *entity.Database
	World           *entity.World
	Schemas         *sound.Database
	Speech          *speech.Database
	EnvSound        *envsound.Database
	HasRoomDatabase bool
}

// Load opens missionPath and the gamesys it references. With an empty
// missionPath only opts.Gamesys is loaded.
func Load(missionPath string, opts Options) (*Mission, error) {
	m, err := load(missionPath, opts)
	if err != nil {
		status.Error("failed to load mission: %v", err)
		return nil, errors.Wrap(err, "failed to load mission")
	}
	return m, nil
}

func load(missionPath string, opts Options) (*Mission, error) {
	var mis *chunk.File
	gamesysPath := opts.Gamesys
	if missionPath != "" {
		status.Progress(0, "opening %s", filepath.Base(missionPath))
		f, err := chunk.OpenPath(missionPath)
		if err != nil {
			return nil, err
		}
		mis = f
		if gamesysPath == "" && mis.Has(GAMESYS_CHUNK) {
			name, err := GamesysReference(mis)
			if err != nil {
				mis.Close()
				return nil, err
			}
			f, err := vfs.FindFile(vfs.NewDirectoryDriver(filepath.Dir(missionPath)), name)
			if err != nil {
				mis.Close()
				return nil, errors.Wrapf(err, "gamesys")
			}
			gamesysPath = f.(*vfs.DirectoryDriverFile).Path()
		}
	} else if gamesysPath == "" {
		return nil, errors.New("no mission or gamesys given")
	}

	var gam *chunk.File
	if gamesysPath != "" {
		status.Progress(0.2, "opening %s", filepath.Base(gamesysPath))
		f, err := chunk.OpenPath(gamesysPath)
		if err != nil {
			if mis != nil {
				mis.Close()
			}
			return nil, err
		}
		gam = f
	}

	m, err := Build(mis, gam, opts)
	if err != nil {
		if mis != nil {
			mis.Close()
		}
		if gam != nil {
			gam.Close()
		}
		return nil, err
	}
	return m, nil
}

// GamesysReference returns the gamesys file name stored in GAM_FILE.
func GamesysReference(f *chunk.File) (string, error) {
	data, err := f.ReadAll(GAMESYS_CHUNK)
	if err != nil {
		return "", err
	}
	if i := strings.IndexByte(string(data), 0); i >= 0 {
		data = data[:i]
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return "", errors.Errorf("%s: empty %s", f.Name(), GAMESYS_CHUNK)
	}
	return name, nil
}

// Build composes a mission from opened containers. Either may be nil, not
// both.
func Build(mis, gam *chunk.File, opts Options) (*Mission, error) {
	if mis == nil && gam == nil {
		return nil, errors.New("no containers")
	}
	m := &Mission{File: mis, Gamesys: gam}
	if mis != nil {
		m.Name = mis.Name()
		m.HasRoomDatabase = mis.Has(ROOM_CHUNK)
	}
	if gam != nil {
		m.GamesysName = gam.Name()
	}

	dbOpts := entity.Options{Strict: opts.Strict}
	var gamDB, misDB *entity.Database
	var err error
	if gam != nil {
		status.Progress(0.3, "reading archetypes of %s", gam.Name())
		if gamDB, err = entity.Read(gam, dbOpts); err != nil {
			return nil, err
		}
	}
	if mis != nil {
		status.Progress(0.5, "reading objects of %s", mis.Name())
		if misDB, err = entity.Read(mis, dbOpts); err != nil {
			return nil, err
		}
	}
	m.Database = entity.Merge(gamDB, misDB)

	status.Progress(0.7, "resolving %d templates", len(m.Database.Templates()))
	if m.World, err = m.Database.ResolveAll(); err != nil {
		return nil, err
	}

	status.Progress(0.9, "reading sound databases")
	if r, f := m.reader(sound.CHUNK_NAME); r != nil {
		if m.Schemas, err = sound.ReadSchemas(r, m.World); err != nil {
			return nil, errors.Wrapf(err, "%s: %s", f.Name(), sound.CHUNK_NAME)
		}
	}
	if r, f := m.reader(speech.CHUNK_NAME); r != nil {
		if m.Speech, err = speech.Read(r); err != nil {
			return nil, errors.Wrapf(err, "%s: %s", f.Name(), speech.CHUNK_NAME)
		}
	}
	if r, f := m.reader(envsound.CHUNK_NAME); r != nil {
		if m.EnvSound, err = envsound.Read(r); err != nil {
			return nil, errors.Wrapf(err, "%s: %s", f.Name(), envsound.CHUNK_NAME)
		}
	}
	if !m.HasRoomDatabase {
		log.Printf("[mission] %s has no room database", m.Name)
	}
	if len(m.Database.Skipped) != 0 {
		log.Printf("[mission] %s: %d property records skipped", m.Name, len(m.Database.Skipped))
	}
	status.Info("loaded %s: %d templates", m.Name, m.World.Len())
	return m, nil
}

// reader finds a chunk in the mission first, then in the gamesys.
func (m *Mission) reader(name string) (*stream.Reader, *chunk.File) {
	for _, f := range []*chunk.File{m.File, m.Gamesys} {
		if f == nil {
			continue
		}
		if r, ok := f.Reader(name); ok {
			return r, f
		}
	}
	return nil, nil
}

// Chunks lists chunk names per container.
func (m *Mission) Chunks() map[string][]string {
	res := make(map[string][]string)
	for _, f := range []*chunk.File{m.File, m.Gamesys} {
		if f != nil {
			res[f.Name()] = f.Names()
		}
	}
	return res
}

// Container returns the opened container by file name.
func (m *Mission) Container(name string) (*chunk.File, bool) {
	for _, f := range []*chunk.File{m.File, m.Gamesys} {
		if f != nil && strings.EqualFold(f.Name(), name) {
			return f, true
		}
	}
	return nil, false
}

func (m *Mission) Close() error {
	var first error
	for _, f := range []*chunk.File{m.File, m.Gamesys} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
