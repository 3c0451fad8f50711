package mission_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/chunk"
	"github.com/tommy-xr/shock2quest-sub001/entity"
	"github.com/tommy-xr/shock2quest-sub001/envsound"
	"github.com/tommy-xr/shock2quest-sub001/link"
	"github.com/tommy-xr/shock2quest-sub001/mission"
	"github.com/tommy-xr/shock2quest-sub001/property"
	"github.com/tommy-xr/shock2quest-sub001/sound"
	"github.com/tommy-xr/shock2quest-sub001/stream"
	"github.com/tommy-xr/shock2quest-sub001/tagdb"
)

func records(t *testing.T, recs ...property.Record) []byte {
	t.Helper()
	data, err := property.EncodeChunk(recs)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func addMetaProps(t *testing.T, b *chunk.Builder, metas ...link.Link) {
	t.Helper()
	rels := link.Relations{"", link.RelationMetaProp}
	relData, err := rels.Encode()
	if err != nil {
		t.Fatal(err)
	}
	for i := range metas {
		metas[i].Flavor = 1
	}
	data, err := link.EncodeData(4, metas)
	if err != nil {
		t.Fatal(err)
	}
	b.Add(link.RELATIONS_CHUNK, relData).
		Add(link.ChunkName(link.RelationMetaProp), link.EncodeLinks(metas)).
		Add(link.DataChunkName(link.RelationMetaProp), data)
}

func writeContainer(t *testing.T, path string, b *chunk.Builder) {
	t.Helper()
	data, err := b.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func gamesys(t *testing.T, cyclic bool) *chunk.Builder {
	b := chunk.NewBuilder().
		Add(property.KindSymName.ChunkName(), records(t,
			property.Record{Template: -1, Value: property.SymName("Door")},
			property.Record{Template: -2, Value: property.SymName("door_open")})).
		Add(property.KindHitPoints.ChunkName(), records(t,
			property.Record{Template: -1, Value: property.HitPoints(25)})).
		Add(property.KindClassTags.ChunkName(), records(t,
			property.Record{Template: -1, Value: property.ClassTags("DeviceType Door")}))

	w := stream.NewWriter()
	sound.Encode(w, []sound.Schema{{ID: -2, Samples: []sound.Sample{{Name: "dooropen", Frequency: 1}}}})
	b.Add(sound.CHUNK_NAME, w.Bytes())

	w = stream.NewWriter()
	envsound.Encode(w, []string{"", "Event", "DeviceType"}, []string{"", "Activate", "Door"}, &tagdb.Tree{
		Branches: []tagdb.TreeBranch{{Key: tagdb.EnumKey(1, 1), Tree: &tagdb.Tree{
			Branches: []tagdb.TreeBranch{{Key: tagdb.EnumKey(2, 2), Tree: &tagdb.Tree{
				Leaves: []tagdb.Leaf{{Data: -2, Weight: 1}},
			}}},
		}}},
	})
	b.Add(envsound.CHUNK_NAME, w.Bytes())

	if cyclic {
		addMetaProps(t, b,
			link.Link{ID: 1, Source: -1, Dest: -2, Data: link.MetaProp{}},
			link.Link{ID: 2, Source: -2, Dest: -1, Data: link.MetaProp{}})
	}
	return b
}

func missionFile(t *testing.T, gamName string, room bool) *chunk.Builder {
	b := chunk.NewBuilder().
		Add(mission.GAMESYS_CHUNK, append([]byte(gamName), 0, 0, 0)).
		Add(property.KindPosition.ChunkName(), records(t,
			property.Record{Template: 1, Value: property.Position{Cell: 3}}))
	if room {
		b.Add(mission.ROOM_CHUNK, []byte{0, 0, 0, 0})
	}
	addMetaProps(t, b, link.Link{ID: 1, Source: 1, Dest: -1, Data: link.MetaProp{}})
	return b
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeContainer(t, filepath.Join(dir, "shock2.gam"), gamesys(t, false))
	writeContainer(t, filepath.Join(dir, "medsci1.mis"), missionFile(t, "SHOCK2.GAM", true))

	m, err := mission.Load(filepath.Join(dir, "medsci1.mis"), mission.Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if m.GamesysName != "shock2.gam" || !m.HasRoomDatabase {
		t.Errorf("gamesys %q, room db %v", m.GamesysName, m.HasRoomDatabase)
	}
	e, ok := m.World.Get(1)
	if !ok {
		t.Fatal("object 1 missing")
	}
	if v, _ := e.Property(property.KindHitPoints); v != property.HitPoints(25) {
		t.Errorf("inherited hit points %v", v)
	}
	if p, ok := e.Position(); !ok || p.Cell != 3 {
		t.Errorf("position %+v", p)
	}
	if m.Schemas == nil {
		t.Fatal("schemas not loaded")
	}
	if s, ok := m.Schemas.ByName("door_open"); !ok || s.Samples[0].Name != "dooropen" {
		t.Errorf("schema %+v", s)
	}
	if m.Speech != nil {
		t.Errorf("speech database must be absent")
	}
	if got := m.EnvSound.ForEntity(e, []tagdb.Pair{{Tag: "Event", Value: "Activate"}}); len(got) != 1 || got[0] != -2 {
		t.Errorf("env sound %v", got)
	}
	if chunks := m.Chunks(); len(chunks) != 2 || len(chunks["medsci1.mis"]) == 0 {
		t.Errorf("chunks %v", chunks)
	}
}

func TestLoadWithoutRoomDatabase(t *testing.T) {
	dir := t.TempDir()
	writeContainer(t, filepath.Join(dir, "shock2.gam"), gamesys(t, false))
	writeContainer(t, filepath.Join(dir, "earth.mis"), missionFile(t, "shock2.gam", false))
	m, err := mission.Load(filepath.Join(dir, "earth.mis"), mission.Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()
	if m.HasRoomDatabase {
		t.Errorf("unexpected room database")
	}
}

func TestLoadGamesysOverride(t *testing.T) {
	dir := t.TempDir()
	writeContainer(t, filepath.Join(dir, "other.gam"), gamesys(t, false))
	writeContainer(t, filepath.Join(dir, "earth.mis"), missionFile(t, "missing.gam", false))
	m, err := mission.Load(filepath.Join(dir, "earth.mis"), mission.Options{Gamesys: filepath.Join(dir, "other.gam")})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()
	if _, ok := m.World.ByName("door"); !ok {
		t.Errorf("archetypes of the override not loaded")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	writeContainer(t, filepath.Join(dir, "cyclic.gam"), gamesys(t, true))
	writeContainer(t, filepath.Join(dir, "cyclic.mis"), missionFile(t, "cyclic.gam", false))
	writeContainer(t, filepath.Join(dir, "orphan.mis"), missionFile(t, "nowhere.gam", false))
	if err := os.WriteFile(filepath.Join(dir, "corrupt.mis"), make([]byte, 300), 0644); err != nil {
		t.Fatal(err)
	}
	huge, err := chunk.NewBuilder().Bytes()
	if err != nil {
		t.Fatal(err)
	}
	binary.LittleEndian.PutUint32(huge[binary.LittleEndian.Uint32(huge):], 0x7fffffff)
	if err := os.WriteFile(filepath.Join(dir, "huge.mis"), huge, 0644); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"cyclic.mis", "orphan.mis", "corrupt.mis", "huge.mis", "absent.mis"} {
		_, err := mission.Load(filepath.Join(dir, name), mission.Options{})
		if err == nil {
			t.Errorf("%s: expected error", name)
			continue
		}
		if !strings.HasPrefix(err.Error(), "failed to load mission: ") {
			t.Errorf("%s: %v", name, err)
		}
	}

	_, err = mission.Load(filepath.Join(dir, "cyclic.mis"), mission.Options{})
	var ce *entity.CycleError
	if !errors.As(err, &ce) {
		t.Errorf("expected cycle error, got %v", err)
	}
	if errors.Cause(func() error {
		_, err := mission.Load(filepath.Join(dir, "corrupt.mis"), mission.Options{})
		return err
	}()) != chunk.ErrBadMagic {
		t.Errorf("expected bad magic")
	}
}

func TestBuildGamesysOnly(t *testing.T) {
	data, err := gamesys(t, false).Bytes()
	if err != nil {
		t.Fatal(err)
	}
	f, err := chunk.Open("shock2.gam", strings.NewReader(string(data)), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	m, err := mission.Build(nil, f, mission.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if m.World.Len() != 2 || m.HasRoomDatabase {
		t.Errorf("world %d, room %v", m.World.Len(), m.HasRoomDatabase)
	}
}
