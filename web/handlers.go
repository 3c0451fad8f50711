package web

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/entity"
	"github.com/tommy-xr/shock2quest-sub001/envsound"
	"github.com/tommy-xr/shock2quest-sub001/song"
	"github.com/tommy-xr/shock2quest-sub001/sound"
	"github.com/tommy-xr/shock2quest-sub001/tagdb"
	"github.com/tommy-xr/shock2quest-sub001/webutils"
)

type entitySummary struct {
	ID        entity.TemplateID
	Name      string `json:",omitempty"`
	Label     string `json:",omitempty"`
	Archetype bool
}

func (s *Server) summary(id entity.TemplateID) entitySummary {
	es := entitySummary{ID: id, Archetype: id.IsArchetype()}
	if name, ok := s.Mission.World.NameOf(id); ok {
		es.Name = name
	} else {
		es.Label = s.labels.Label(int32(id))
	}
	return es
}

// HandlerEntities lists templates, only concrete objects with ?concrete=1.
func (s *Server) HandlerEntities(w http.ResponseWriter, r *http.Request) {
	ids := s.Mission.World.IDs()
	if r.URL.Query().Get("concrete") != "" {
		ids = s.Mission.World.Concrete()
	}
	res := make([]entitySummary, len(ids))
	for i, id := range ids {
		res[i] = s.summary(id)
	}
	webutils.WriteJson(w, res)
}

func (s *Server) HandlerEntity(w http.ResponseWriter, r *http.Request) {
	id, err := webutils.IntVar(r, "id")
	if err != nil {
		webutils.WriteError(w, http.StatusBadRequest, err)
		return
	}
	e, ok := s.Mission.World.Get(entity.TemplateID(id))
	if !ok {
		webutils.WriteError(w, http.StatusNotFound, errors.Errorf("template %d not found", id))
		return
	}
	ancestors := make([]entitySummary, len(e.Ancestors))
	for i, a := range e.Ancestors {
		ancestors[i] = s.summary(a)
	}
	webutils.WriteJson(w, &struct {
		entitySummary
		Ancestors []entitySummary
		Entity    *entity.Entity
	}{s.summary(e.ID), ancestors, e})
}

func (s *Server) HandlerChunks(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, s.Mission.Chunks())
}

func (s *Server) HandlerDumpChunk(w http.ResponseWriter, r *http.Request) {
	file, name := mux.Vars(r)["file"], mux.Vars(r)["chunk"]
	f, ok := s.Mission.Container(file)
	if !ok {
		webutils.WriteError(w, http.StatusNotFound, errors.Errorf("container %q not loaded", file))
		return
	}
	sr, ok := f.Section(name)
	if !ok {
		webutils.WriteError(w, http.StatusNotFound, errors.Errorf("chunk %q not found in %q", name, file))
		return
	}
	webutils.WriteFile(w, sr, name+".bin")
}

// schema finds a schema by name or numeric template id.
func (s *Server) schema(w http.ResponseWriter, r *http.Request) (*sound.Schema, bool) {
	if s.Mission.Schemas == nil {
		webutils.WriteError(w, http.StatusNotFound, errors.New("no sound schemas loaded"))
		return nil, false
	}
	name := mux.Vars(r)["name"]
	sch, ok := s.Mission.Schemas.ByName(name)
	if !ok {
		if id, err := strconv.Atoi(name); err == nil {
			sch, ok = s.Mission.Schemas.ByID(entity.TemplateID(id))
		}
	}
	if !ok {
		webutils.WriteError(w, http.StatusNotFound, errors.Wrapf(sound.ErrUnknownSchema, "%q", name))
		return nil, false
	}
	return sch, true
}

func (s *Server) HandlerSchema(w http.ResponseWriter, r *http.Request) {
	if sch, ok := s.schema(w, r); ok {
		webutils.WriteJson(w, sch)
	}
}

func (s *Server) HandlerSchemaRandom(w http.ResponseWriter, r *http.Request) {
	sch, ok := s.schema(w, r)
	if !ok {
		return
	}
	sample, err := sch.RandomSample(s.src)
	if err != nil {
		webutils.WriteError(w, http.StatusUnprocessableEntity, err)
		return
	}
	webutils.WriteJson(w, map[string]interface{}{"Schema": sch.ID, "Sample": sample})
}

// queryPairs reads repeated tag=Tag:Value and opt=Tag:Value parameters.
func queryPairs(r *http.Request) []tagdb.Pair {
	q := r.URL.Query()
	pairs := make([]tagdb.Pair, 0)
	for _, param := range []string{"tag", "opt"} {
		for _, v := range q[param] {
			p := tagdb.Pair{Optional: param == "opt"}
			if i := strings.IndexByte(v, ':'); i >= 0 {
				p.Tag, p.Value = v[:i], v[i+1:]
			} else {
				p.Tag = v
			}
			pairs = append(pairs, p)
		}
	}
	return pairs
}

type matchResult struct {
	Matches []entitySummary
	Chosen  *entitySummary `json:",omitempty"`
}

func (s *Server) matches(ids []int32, choose func() (int32, error)) matchResult {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	res := matchResult{Matches: make([]entitySummary, len(ids))}
	for i, id := range ids {
		res.Matches[i] = s.summary(entity.TemplateID(id))
	}
	if len(ids) != 0 {
		if id, err := choose(); err == nil {
			sum := s.summary(entity.TemplateID(id))
			res.Chosen = &sum
		}
	}
	return res
}

// HandlerEnvSound queries the environment sound trie, with the tags of
// template ?entity= added when given.
func (s *Server) HandlerEnvSound(w http.ResponseWriter, r *http.Request) {
	if s.Mission.EnvSound == nil {
		webutils.WriteError(w, http.StatusNotFound, errors.New("no environment sound database loaded"))
		return
	}
	pairs := queryPairs(r)
	if v := r.URL.Query().Get("entity"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			webutils.WriteError(w, http.StatusBadRequest, errors.Errorf("entity %q is not integer", v))
			return
		}
		e, ok := s.Mission.World.Get(entity.TemplateID(id))
		if !ok {
			webutils.WriteError(w, http.StatusNotFound, errors.Errorf("template %d not found", id))
			return
		}
		pairs = envsound.EntityPairs(e, pairs)
	}
	db := s.Mission.EnvSound
	webutils.WriteJson(w, s.matches(db.Query(pairs), func() (int32, error) {
		return db.Choose(s.src, pairs)
	}))
}

func (s *Server) HandlerSpeech(w http.ResponseWriter, r *http.Request) {
	if s.Mission.Speech == nil {
		webutils.WriteError(w, http.StatusNotFound, errors.New("no speech database loaded"))
		return
	}
	voice, err := webutils.IntVar(r, "voice")
	if err != nil {
		webutils.WriteError(w, http.StatusBadRequest, err)
		return
	}
	concept := mux.Vars(r)["concept"]
	pairs := queryPairs(r)
	db := s.Mission.Speech
	ids, err := db.Query(voice, concept, pairs)
	if err != nil {
		webutils.WriteError(w, http.StatusNotFound, err)
		return
	}
	webutils.WriteJson(w, s.matches(ids, func() (int32, error) {
		return db.Choose(s.src, voice, concept, pairs)
	}))
}

// HandlerSongNext advances the player of song {index} with ?cue=.
func (s *Server) HandlerSongNext(w http.ResponseWriter, r *http.Request) {
	index, err := webutils.IntVar(r, "index")
	if err != nil {
		webutils.WriteError(w, http.StatusBadRequest, err)
		return
	}
	if index < 0 || index >= len(s.Songs) {
		webutils.WriteError(w, http.StatusNotFound, errors.Errorf("song %d not loaded", index))
		return
	}

	s.playersLock.Lock()
	defer s.playersLock.Unlock()
	p, ok := s.players[index]
	if !ok {
		if p, err = song.NewPlayer(s.Songs[index]); err != nil {
			webutils.WriteError(w, http.StatusUnprocessableEntity, err)
			return
		}
		s.players[index] = p
	}
	from := p.Current()
	next, err := p.Advance(s.src, r.URL.Query().Get("cue"))
	if err != nil {
		webutils.WriteError(w, http.StatusUnprocessableEntity, err)
		return
	}
	sec := p.Section()
	webutils.WriteJson(w, map[string]interface{}{
		"From":    from,
		"Section": next,
		"Name":    sec.Name,
		"Wav":     sec.Wav,
	})
}
