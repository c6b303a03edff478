package cmd

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/arl/navgo/meshbuild"
	"github.com/arl/navgo/navmesh"
)

// sceneVertex is one polygon corner as it appears in a scene file:
// integer XY plus its source height.
type sceneVertex struct {
	X int32   `json:"x"`
	Y int32   `json:"y"`
	Z float64 `json:"z"`
}

// scenePolygon is one raw (pre-triangulation) polygon.
type scenePolygon struct {
	Verts []sceneVertex `json:"verts"`
}

// sceneTile is one tile record: its footprint and the raw polygons
// reported for it.
type sceneTile struct {
	MinX  int32          `json:"min_x"`
	MinY  int32          `json:"min_y"`
	MaxX  int32          `json:"max_x"`
	MaxY  int32          `json:"max_y"`
	MinZ  float64        `json:"min_z"`
	MaxZ  float64        `json:"max_z"`
	Polys []scenePolygon `json:"polys"`
}

// scene is the on-disk shape navctl reads: a flat list of tiles, the
// offline equivalent of what an asset pipeline would report per map.
type scene struct {
	Tiles []sceneTile `json:"tiles"`
}

func loadScene(path string) ([]meshbuild.TileRecord, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	var s scene
	if err := json.Unmarshal(buf, &s); err != nil {
		return nil, fmt.Errorf("parsing scene file: %w", err)
	}
	if len(s.Tiles) == 0 {
		return nil, fmt.Errorf("scene file %q declares no tiles", path)
	}

	records := make([]meshbuild.TileRecord, 0, len(s.Tiles))
	for _, t := range s.Tiles {
		rec := meshbuild.TileRecord{
			Bounds: navmesh.Bounds{
				MinX: t.MinX, MinY: t.MinY, MaxX: t.MaxX, MaxY: t.MaxY,
				MinZ: t.MinZ, MaxZ: t.MaxZ,
			},
		}
		for _, p := range t.Polys {
			raw := meshbuild.RawPolygon{Verts: make([]meshbuild.RawVertex, len(p.Verts))}
			for i, v := range p.Verts {
				raw.Verts[i] = meshbuild.RawVertex{X: v.X, Y: v.Y, Z: v.Z}
			}
			rec.Polys = append(rec.Polys, raw)
		}
		records = append(records, rec)
	}
	return records, nil
}
