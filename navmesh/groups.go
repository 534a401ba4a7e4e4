package navmesh

import (
	"fmt"

	"github.com/gorustyt/udmfnav/common"
)

// group flood fills the connection graph into groups. Every node lands in
// exactly one group; neighbours are then translated to group positions.
func (b *Builder) group(m *Mesh) error {
	n := len(m.Nodes)
	grouped := make([]bool, n)
	inOpen := make([]bool, n)
	open := common.NewStack[*Node]()
	open.Push(m.Nodes[0])
	inOpen[0] = true

	var cur []*Node
	closed := 0
	for steps := 0; closed != n; steps++ {
		if steps > maxFloodSteps {
			return fmt.Errorf("%w: %d of %d nodes grouped", ErrRunaway, closed, n)
		}
		node := open.Pop()
		inOpen[node.Index] = false
		if !grouped[node.Index] {
			grouped[node.Index] = true
			cur = append(cur, node)
			closed++
			for _, c := range node.Connections {
				if !grouped[c] && !inOpen[c] {
					open.Push(m.Nodes[c])
					inOpen[c] = true
				}
			}
		}
		if !open.Empty() {
			continue
		}
		m.Groups = append(m.Groups, cur)
		cur = nil
		for i, g := range grouped {
			if !g {
				open.Push(m.Nodes[i])
				inOpen[i] = true
				break
			}
		}
		if open.Empty() {
			break
		}
	}
	if len(cur) > 0 {
		m.Groups = append(m.Groups, cur)
	}

	for gi, grp := range m.Groups {
		for id, node := range grp {
			node.Group = gi
			node.ID = id
		}
	}
	for _, node := range m.Nodes {
		node.LocalNeighbors = make([]int, len(node.Neighbors))
		for i, nb := range node.Neighbors {
			node.LocalNeighbors[i] = m.Nodes[nb].ID
		}
	}
	return nil
}
