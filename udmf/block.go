package udmf

import "fmt"

type BlockKind uint8

const (
	KindVertex BlockKind = iota
	KindSector
	KindSidedef
	KindLinedef
	KindThing
)

var blockNames = [...]string{
	KindVertex:  "vertex",
	KindSector:  "sector",
	KindSidedef: "sidedef",
	KindLinedef: "linedef",
	KindThing:   "thing",
}

func (k BlockKind) String() string {
	if int(k) < len(blockNames) {
		return blockNames[k]
	}
	return fmt.Sprintf("BlockKind(%d)", k)
}

func kindFromName(name string) (BlockKind, bool) {
	for i, n := range blockNames {
		if n == name {
			return BlockKind(i), true
		}
	}
	return 0, false
}

// Block is one of VertexBlock, SectorBlock, SidedefBlock, LinedefBlock or ThingBlock.
type Block interface {
	Kind() BlockKind
	Fields() Fields
	block()
}

type (
	VertexBlock  Fields
	SectorBlock  Fields
	SidedefBlock Fields
	LinedefBlock Fields
	ThingBlock   Fields
)

func (b VertexBlock) Kind() BlockKind  { return KindVertex }
func (b SectorBlock) Kind() BlockKind  { return KindSector }
func (b SidedefBlock) Kind() BlockKind { return KindSidedef }
func (b LinedefBlock) Kind() BlockKind { return KindLinedef }
func (b ThingBlock) Kind() BlockKind   { return KindThing }

func (b VertexBlock) Fields() Fields  { return Fields(b) }
func (b SectorBlock) Fields() Fields  { return Fields(b) }
func (b SidedefBlock) Fields() Fields { return Fields(b) }
func (b LinedefBlock) Fields() Fields { return Fields(b) }
func (b ThingBlock) Fields() Fields   { return Fields(b) }

func (VertexBlock) block()  {}
func (SectorBlock) block()  {}
func (SidedefBlock) block() {}
func (LinedefBlock) block() {}
func (ThingBlock) block()   {}

func newBlock(kind BlockKind, f Fields) Block {
	switch kind {
	case KindVertex:
		return VertexBlock(f)
	case KindSector:
		return SectorBlock(f)
	case KindSidedef:
		return SidedefBlock(f)
	case KindLinedef:
		return LinedefBlock(f)
	case KindThing:
		return ThingBlock(f)
	}
	panic(fmt.Sprintf("udmf: unknown block kind %d", kind))
}

// Document holds the parsed blocks of a TEXTMAP grouped by kind, in source order.
type Document struct {
	Globals  Fields
	Vertices []VertexBlock
	Sectors  []SectorBlock
	Sidedefs []SidedefBlock
	Linedefs []LinedefBlock
	Things   []ThingBlock
}

func NewDocument() *Document {
	return &Document{Globals: Fields{}}
}

func (d *Document) Add(b Block) {
	if b == nil {
		return
	}
	switch b := b.(type) {
	case VertexBlock:
		d.Vertices = append(d.Vertices, b)
	case SectorBlock:
		d.Sectors = append(d.Sectors, b)
	case SidedefBlock:
		d.Sidedefs = append(d.Sidedefs, b)
	case LinedefBlock:
		d.Linedefs = append(d.Linedefs, b)
	case ThingBlock:
		d.Things = append(d.Things, b)
	}
}

func (d *Document) Count(kind BlockKind) int {
	switch kind {
	case KindVertex:
		return len(d.Vertices)
	case KindSector:
		return len(d.Sectors)
	case KindSidedef:
		return len(d.Sidedefs)
	case KindLinedef:
		return len(d.Linedefs)
	case KindThing:
		return len(d.Things)
	}
	return 0
}
