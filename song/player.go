package song

import (
	"log"

	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/weighted"
)

// Player walks the sections of a song. It starts at section 0 and never
// terminates.
type Player struct {
	song    *Song
	current int
}

func NewPlayer(s *Song) (*Player, error) {
	if len(s.Sections) == 0 {
		return nil, errors.Errorf("song %q has no sections", s.Name)
	}
	return &Player{song: s}, nil
}

func (p *Player) Current() int { return p.current }

func (p *Player) Section() *Section { return &p.song.Sections[p.current] }

// Advance moves to the next section for cue and returns its index. A
// section without options repeats itself.
func (p *Player) Advance(src weighted.Source, cue string) (int, error) {
	next, err := p.Section().NextOption(src, cue)
	if err == ErrNoOptions {
		return p.current, nil
	} else if err != nil {
		return p.current, err
	}
	if next < 0 || next >= len(p.song.Sections) {
		log.Printf("[song] %q: section %d points at missing section %d", p.song.Name, p.current, next)
		return p.current, errors.Errorf("section %d: next section %d out of range", p.current, next)
	}
	p.current = next
	return next, nil
}

func (p *Player) Reset() { p.current = 0 }
