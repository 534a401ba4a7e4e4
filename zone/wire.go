package zone

import (
	"encoding/json"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/gorustyt/udmfnav/common/message"
	"github.com/gorustyt/udmfnav/navmesh"
)

// Field numbers of the binary zone. Every integer is a zigzag varint and every
// list is packed.
const (
	fieldVertices protowire.Number = iota + 1
	fieldNodes
	fieldGroups
	fieldLength
	fieldSizeX
	fieldSizeY
	fieldOriginX
	fieldOriginY
	fieldRes
)

const (
	nodeCentroid protowire.Number = iota + 1
	nodePortals
	nodeVertices
	nodeNeighbors
	nodeMaster
	nodeGroup
	nodeCells
	nodeFlags
	nodeHelper
)

// Encode writes the zone in protobuf wire format.
func Encode(z *Zone) []byte {
	var b []byte
	b = message.AppendInts(b, fieldVertices, z.Vertices)
	for i := range z.Nodes {
		b = message.AppendBytes(b, fieldNodes, encodeNode(&z.Nodes[i]))
	}
	b = message.AppendInt(b, fieldGroups, z.Groups)
	b = message.AppendInt(b, fieldLength, z.Length)
	b = message.AppendInt(b, fieldSizeX, z.SizeX)
	b = message.AppendInt(b, fieldSizeY, z.SizeY)
	b = message.AppendInt(b, fieldOriginX, z.OriginX)
	b = message.AppendInt(b, fieldOriginY, z.OriginY)
	b = message.AppendInt(b, fieldRes, z.Res)
	return b
}

func encodeNode(n *Node) []byte {
	portals := make([]int, 0, len(n.P)*2)
	for _, p := range n.P {
		portals = append(portals, p[0], p[1])
	}
	var b []byte
	b = message.AppendInts(b, nodeCentroid, n.C[:])
	b = message.AppendInts(b, nodePortals, portals)
	b = message.AppendInts(b, nodeVertices, n.V)
	b = message.AppendInts(b, nodeNeighbors, n.N)
	b = message.AppendInt(b, nodeMaster, n.M)
	b = message.AppendInt(b, nodeGroup, n.G)
	b = message.AppendInts(b, nodeCells, n.B)
	b = message.AppendInt(b, nodeFlags, int(n.F))
	b = message.AppendInt(b, nodeHelper, n.H)
	return b
}

// Decode reads a zone written by Encode.
func Decode(data []byte) (*Zone, error) {
	fields, err := message.Fields(data)
	if err != nil {
		return nil, err
	}
	z := &Zone{Vertices: []int{}, Nodes: []Node{}}
	for _, f := range fields {
		switch f.Num {
		case fieldVertices:
			if z.Vertices, err = ints(f); err != nil {
				return nil, err
			}
		case fieldNodes:
			n, err := decodeNode(f.Bytes)
			if err != nil {
				return nil, fmt.Errorf("node %d: %w", len(z.Nodes), err)
			}
			z.Nodes = append(z.Nodes, n)
		case fieldGroups:
			z.Groups = f.Int()
		case fieldLength:
			z.Length = f.Int()
		case fieldSizeX:
			z.SizeX = f.Int()
		case fieldSizeY:
			z.SizeY = f.Int()
		case fieldOriginX:
			z.OriginX = f.Int()
		case fieldOriginY:
			z.OriginY = f.Int()
		case fieldRes:
			z.Res = f.Int()
		}
	}
	return z, nil
}

func decodeNode(data []byte) (Node, error) {
	n := Node{P: [][2]int{}, V: []int{}, N: []int{}, B: []int{}}
	fields, err := message.Fields(data)
	if err != nil {
		return n, err
	}
	for _, f := range fields {
		switch f.Num {
		case nodeCentroid:
			c, err := ints(f)
			if err != nil {
				return n, err
			}
			if len(c) != 3 {
				return n, fmt.Errorf("%w: centroid has %d values", message.ErrBadWire, len(c))
			}
			copy(n.C[:], c)
		case nodePortals:
			p, err := ints(f)
			if err != nil {
				return n, err
			}
			if len(p)%2 != 0 {
				return n, fmt.Errorf("%w: odd portal list", message.ErrBadWire)
			}
			for i := 0; i < len(p); i += 2 {
				n.P = append(n.P, [2]int{p[i], p[i+1]})
			}
		case nodeVertices:
			n.V, err = ints(f)
		case nodeNeighbors:
			n.N, err = ints(f)
		case nodeCells:
			n.B, err = ints(f)
		case nodeMaster:
			n.M = f.Int()
		case nodeGroup:
			n.G = f.Int()
		case nodeFlags:
			n.F = navmesh.Flag(f.Int())
		case nodeHelper:
			n.H = f.Int()
		}
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// ints decodes a packed list, returning an empty rather than nil slice.
func ints(f message.Field) ([]int, error) {
	v, err := f.Ints()
	if v == nil && err == nil {
		v = []int{}
	}
	return v, err
}

// WriteJSON writes the zone as the engine reads it.
func WriteJSON(w io.Writer, z *Zone) error {
	return json.NewEncoder(w).Encode(z)
}

func ReadJSON(r io.Reader) (*Zone, error) {
	var z Zone
	if err := json.NewDecoder(r).Decode(&z); err != nil {
		return nil, err
	}
	return &z, nil
}
