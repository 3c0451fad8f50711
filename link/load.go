package link

import (
	"log"
	"sort"

	"github.com/pkg/errors"

	"github.com/tommy-xr/shock2quest-sub001/chunk"
)

// Load reads every link of the file. Files without a Relations chunk
// have no links.
func Load(f *chunk.File) (Relations, []Link, error) {
	r, ok := f.Reader(RELATIONS_CHUNK)
	if !ok {
		return Relations{""}, nil, nil
	}
	rels, err := ReadRelations(r)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "%s: %s", f.Name(), RELATIONS_CHUNK)
	}

	all := make([]Link, 0)
	for flavor, rel := range rels {
		if rel == "" {
			continue
		}
		lr, ok := f.Reader(ChunkName(rel))
		if !ok {
			continue
		}
		links, err := ReadLinks(rel, lr)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "%s: %s", f.Name(), ChunkName(rel))
		}
		if dr, ok := f.Reader(DataChunkName(rel)); ok {
			data, err := ReadData(rel, dr)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "%s: %s", f.Name(), DataChunkName(rel))
			}
			for i := range links {
				links[i].Data = data[links[i].ID]
			}
		}
		for i := range links {
			if links[i].Flavor != uint16(flavor) {
				log.Printf("[link] %s: link 0x%x of %s has flavor %d, expected %d",
					f.Name(), links[i].ID, rel, links[i].Flavor, flavor)
				links[i].Flavor = uint16(flavor)
			}
		}
		all = append(all, links...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return rels, all, nil
}
