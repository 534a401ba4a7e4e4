package scene

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteOBJ writes every mesh of the scene in world space as Wavefront OBJ.
// Each mesh becomes one object; face indices are global and 1 based.
func WriteOBJ(w io.Writer, s *Scene) error {
	bw := bufio.NewWriter(w)
	offset := 1
	n := 0
	s.Root.Walk(func(o *Object, world Transform) {
		m := o.Mesh
		if m == nil || m.Empty() {
			return
		}
		name := o.Name
		if name == "" {
			name = m.Name
		}
		if name == "" {
			name = "mesh_" + strconv.Itoa(n)
		}
		n++
		fmt.Fprintf(bw, "o %s\n", name)
		for _, p := range m.Positions {
			q := world.Apply(p)
			fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(q[0]), formatFloat(q[1]), formatFloat(q[2]))
		}
		for i := 0; i+2 < len(m.Indices); i += 3 {
			fmt.Fprintf(bw, "f %d %d %d\n",
				m.Indices[i]+offset, m.Indices[i+1]+offset, m.Indices[i+2]+offset)
		}
		offset += len(m.Positions)
	})
	return bw.Flush()
}
