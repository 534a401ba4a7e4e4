// Package level turns parsed UDMF blocks into a cross referenced map.
// Entities refer to each other by index into the Level arrays.
package level

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gorustyt/udmfnav/common"
	"github.com/gorustyt/udmfnav/udmf"
)

type Level struct {
	Vertices []Vertex
	Sectors  []Sector
	Sidedefs []SideDef
	Linedefs []LineDef
	Things   []Thing

	ModelLines   []int
	ModelSectors []int

	Tags *TagRegistry
	Doc  *udmf.Document
}

func (l *Level) Vertex(i int) *Vertex   { return &l.Vertices[i] }
func (l *Level) Sector(i int) *Sector   { return &l.Sectors[i] }
func (l *Level) SideDef(i int) *SideDef { return &l.Sidedefs[i] }
func (l *Level) LineDef(i int) *LineDef { return &l.Linedefs[i] }
func (l *Level) Thing(i int) *Thing     { return &l.Things[i] }

// SectorOrNil returns nil for -1.
func (l *Level) SectorOrNil(i int) *Sector {
	if i < 0 || i >= len(l.Sectors) {
		return nil
	}
	return &l.Sectors[i]
}

// TaggedSectors returns the sectors carrying tag.
func (l *Level) TaggedSectors(tag int) []int {
	return l.Tags.Lookup(udmf.KindSector, tag)
}

// TaggedThings returns the things carrying tag.
func (l *Level) TaggedThings(tag int) []int {
	return l.Tags.Lookup(udmf.KindThing, tag)
}

// builder is the ingestion context. Its tag builder is frozen into Level.Tags at the end.
type builder struct {
	lvl  *Level
	tags *TagBuilder
	log  *zap.Logger
}

// New builds a level in the fixed order vertices, sectors, sidedefs, linedefs, things.
func New(doc *udmf.Document, log *zap.Logger) (*Level, error) {
	b := &builder{
		lvl:  &Level{Doc: doc},
		tags: NewTagBuilder(),
		log:  common.OrNop(log),
	}
	for i, blk := range doc.Vertices {
		b.addVertex(blk.Fields(), i)
	}
	for i, blk := range doc.Sectors {
		b.addSector(blk.Fields(), i)
	}
	for i, blk := range doc.Sidedefs {
		if err := b.addSideDef(blk.Fields(), i); err != nil {
			return nil, err
		}
	}
	for i, blk := range doc.Linedefs {
		if err := b.addLineDef(blk.Fields(), i); err != nil {
			return nil, err
		}
	}
	for i, blk := range doc.Things {
		b.addThing(blk.Fields(), i)
	}
	lvl := b.lvl
	for i := range lvl.Sectors {
		b.finishSector(&lvl.Sectors[i])
	}
	lvl.Tags = b.tags.Build()

	b.log.Info("level built",
		zap.Int("vertices", len(lvl.Vertices)),
		zap.Int("sectors", len(lvl.Sectors)),
		zap.Int("linedefs", len(lvl.Linedefs)),
		zap.Int("things", len(lvl.Things)),
		zap.Int("models", len(lvl.ModelSectors)))
	return lvl, nil
}

func (b *builder) registerTags(kind udmf.BlockKind, tags []int, index int) {
	for _, t := range tags {
		b.tags.Register(kind, t, index)
	}
}

func (b *builder) addVertex(f udmf.Fields, index int) {
	b.lvl.Vertices = append(b.lvl.Vertices, Vertex{
		Index:    index,
		X:        f.Float("x", 0),
		Y:        f.Float("y", 0),
		ZFloor:   f.OptFloat("zfloor"),
		ZCeiling: f.OptFloat("zceiling"),
		Fields:   f,
	})
}

func (b *builder) addSector(f udmf.Fields, index int) {
	s := Sector{
		Index:         index,
		HeightFloor:   f.Float("heightfloor", 0),
		HeightCeiling: f.Float("heightceiling", 0),
		FloorPlane: Plane{
			A: f.Float("floorplane_a", 0), B: f.Float("floorplane_b", 0),
			C: f.Float("floorplane_c", 0), D: f.Float("floorplane_d", 0),
		},
		CeilingPlane: Plane{
			A: f.Float("ceilingplane_a", 0), B: f.Float("ceilingplane_b", 0),
			C: f.Float("ceilingplane_c", 0), D: f.Float("ceilingplane_d", 0),
		},
		NoCast: f.Bool("user_nocast"),
		Tags:   tagsOf(f),
		Bounds: common.NewBox2(),
		SlopedFloor: f.Has("floorplane_a") || f.Has("floorplane_b") ||
			f.Has("floorplane_c") || f.Has("floorplane_d"),
		SlopedCeiling: f.Has("ceilingplane_a") || f.Has("ceilingplane_b") ||
			f.Has("ceilingplane_c") || f.Has("ceilingplane_d"),
		Fields: f,
	}
	b.registerTags(udmf.KindSector, s.Tags, index)
	b.lvl.Sectors = append(b.lvl.Sectors, s)
}

func (b *builder) addSideDef(f udmf.Fields, index int) error {
	sec := f.Int("sector", -1)
	if sec < 0 || sec >= len(b.lvl.Sectors) {
		return fmt.Errorf("%w: sidedef %d references sector %d", ErrIndexOutOfRange, index, sec)
	}
	b.lvl.Sidedefs = append(b.lvl.Sidedefs, SideDef{Index: index, Sector: sec, Fields: f})
	s := &b.lvl.Sectors[sec]
	s.Sidedefs = common.AppendUnique(s.Sidedefs, index)
	return nil
}

func (b *builder) side(f udmf.Fields, key string, line int) (Side, error) {
	sd := f.Int(key, -1)
	if sd < 0 {
		return Side{Sidedef: -1, Sector: -1}, nil
	}
	if sd >= len(b.lvl.Sidedefs) {
		return Side{}, fmt.Errorf("%w: linedef %d %s references sidedef %d", ErrIndexOutOfRange, line, key, sd)
	}
	return Side{Sidedef: sd, Sector: b.lvl.Sidedefs[sd].Sector}, nil
}

func (b *builder) addLineDef(f udmf.Fields, index int) error {
	lvl := b.lvl
	v1, v2 := f.Int("v1", -1), f.Int("v2", -1)
	for _, v := range [2]int{v1, v2} {
		if v < 0 || v >= len(lvl.Vertices) {
			return fmt.Errorf("%w: linedef %d references vertex %d", ErrIndexOutOfRange, index, v)
		}
	}
	front, err := b.side(f, "sidefront", index)
	if err != nil {
		return err
	}
	back, err := b.side(f, "sideback", index)
	if err != nil {
		return err
	}
	line := LineDef{
		Index:    index,
		V1:       v1,
		V2:       v2,
		Front:    front,
		Back:     back,
		Special:  f.Int("special", 0),
		Args:     argsOf(f),
		Tags:     tagsOf(f),
		Length:   lvl.Vertices[v1].DistanceTo(&lvl.Vertices[v2]),
		TwoSided: f.Bool("twosided"),
		NoCast:   f.Bool("user_nocast"),
		Fields:   f,
	}
	for _, side := range [2]Side{front, back} {
		if side.Sector < 0 {
			continue
		}
		s := &lvl.Sectors[side.Sector]
		s.Linedefs = common.AppendUnique(s.Linedefs, index)
		b.addSectorVertex(s, v1)
		b.addSectorVertex(s, v2)
	}
	line.IsFree = front.Sector >= 0 && back.Sector >= 0 && front.Sector == back.Sector
	b.registerTags(udmf.KindLinedef, line.Tags, index)

	if front.Sector >= 0 && line.Special == Special160 && line.Args[0] > 0 {
		tag := line.Args[0]
		if !b.tags.Has(udmf.KindSector, tag) {
			return fmt.Errorf("%w: 3D floor linedef %d references sector tag %d", ErrUnknownTag, index, tag)
		}
		line.IsModel = true
	}
	lvl.Linedefs = append(lvl.Linedefs, line)

	if line.IsModel {
		lvl.ModelLines = append(lvl.ModelLines, index)
		model := front.Sector
		if common.IndexOf(lvl.ModelSectors, model) < 0 {
			lvl.Sectors[model].IsModel = true
			lvl.ModelSectors = append(lvl.ModelSectors, model)
		}
		for _, t := range b.tags.Lookup(udmf.KindSector, line.Args[0]) {
			s := &lvl.Sectors[t]
			s.HasFloors3D = true
			s.addModel(index, model)
		}
	}
	return nil
}

func (b *builder) addSectorVertex(s *Sector, v int) {
	if s.HasVertex(v) {
		return
	}
	s.Vertices = append(s.Vertices, v)
	s.Bounds.ExpandByPoint(b.lvl.Vertices[v].V())
}

func (b *builder) addThing(f udmf.Fields, index int) {
	t := Thing{
		Index:  index,
		X:      f.Float("x", 0),
		Y:      f.Float("y", 0),
		Height: f.Float("height", 0),
		Angle:  f.Int("angle", 0),
		Type:   f.Int("type", 0),
		Args:   argsOf(f),
		Tags:   tagsOf(f),
		Fields: f,
	}
	b.registerTags(udmf.KindThing, t.Tags, index)
	b.lvl.Things = append(b.lvl.Things, t)
}

// finishSector collects neighbours and the terrain flags once every linedef is known.
func (b *builder) finishSector(s *Sector) {
	for _, li := range s.Linedefs {
		other := b.lvl.Linedefs[li].OtherSector(s.Index)
		if other < 0 || other == s.Index {
			continue
		}
		s.Neighbors = common.AppendUnique(s.Neighbors, other)
	}
	s.IsFree = len(s.Neighbors) == 0

	if len(s.Vertices) == 3 {
		for _, vi := range s.Vertices {
			v := &b.lvl.Vertices[vi]
			if v.ZFloor != nil {
				s.TerrainFloor = true
			}
			if v.ZCeiling != nil {
				s.TerrainCeiling = true
			}
		}
	}
}

// LeftmostVertex returns the endpoint of line with the smaller x; v1 on a tie.
func (l *Level) LeftmostVertex(line int) int {
	ld := &l.Linedefs[line]
	if l.Vertices[ld.V2].X < l.Vertices[ld.V1].X {
		return ld.V2
	}
	return ld.V1
}

// RightmostVertex returns the endpoint of line with the larger x; v2 on a tie.
func (l *Level) RightmostVertex(line int) int {
	ld := &l.Linedefs[line]
	if l.Vertices[ld.V2].X < l.Vertices[ld.V1].X {
		return ld.V1
	}
	return ld.V2
}
