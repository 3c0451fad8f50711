package web

import (
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/tommy-xr/shock2quest-sub001/mission"
	"github.com/tommy-xr/shock2quest-sub001/song"
	"github.com/tommy-xr/shock2quest-sub001/status"
	"github.com/tommy-xr/shock2quest-sub001/utils"
	"github.com/tommy-xr/shock2quest-sub001/weighted"
)

// Server exposes one loaded mission as JSON.
type Server struct {
	Mission *mission.Mission
	Songs   []*song.Song
	Hub     *status.Hub

	src    weighted.Source
	labels utils.Labels

	playersLock sync.Mutex
	players     map[int]*song.Player
}

func NewServer(m *mission.Mission, songs []*song.Song, src weighted.Source) *Server {
	return &Server{
		Mission: m,
		Songs:   songs,
		Hub:     status.Default,
		src:     src,
		players: make(map[int]*song.Player),
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/entities", s.HandlerEntities)
	r.HandleFunc("/json/entity/{id}", s.HandlerEntity)
	r.HandleFunc("/json/chunks", s.HandlerChunks)
	r.HandleFunc("/dump/chunk/{file}/{chunk}", s.HandlerDumpChunk)
	r.HandleFunc("/json/schema/{name}", s.HandlerSchema)
	r.HandleFunc("/json/schema/{name}/random", s.HandlerSchemaRandom)
	r.HandleFunc("/json/envsound", s.HandlerEnvSound)
	r.HandleFunc("/json/speech/{voice}/{concept}", s.HandlerSpeech)
	r.HandleFunc("/json/song/{index}/next", s.HandlerSongNext)
	r.Handle("/ws/status", s.Hub)
	return r
}

func (s *Server) Start(addr string, webPath string) error {
	r := s.Router()
	if webPath != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(webPath)))
	}

	h := handlers.LoggingHandler(os.Stdout, handlers.RecoveryHandler()(r))

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
