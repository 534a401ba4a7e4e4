// Package scene assembles floor geometry into named scene graphs: one fed to
// the voxelizer as OBJ and one for the preview UI as JSON.
package scene

import (
	"encoding/json"
	"io"

	"github.com/gorustyt/udmfnav/common"
	"github.com/gorustyt/udmfnav/level"
)

// Object names the preview UI looks up.
const (
	NameFloors       = "floors"
	NameSectors3D    = "sectors3D"
	NameWallsPreview = "walls.preview"
	NameWallsSolid   = "walls.solid"
	NameNavNodes     = "nav.nodes"
	NameNavNode      = "navnode"
	NameNavmesh      = "navmesh"
	NameOffNodeVis   = "offnode.vis"
)

// Object is a scene graph node. Scale zero means 1.
type Object struct {
	Name     string       `json:"name,omitempty"`
	Position common.Vec3  `json:"position"`
	Scale    float64      `json:"scale,omitempty"`
	Mesh     *Mesh        `json:"mesh,omitempty"`
	Thing    *level.Thing `json:"thing,omitempty"`
	UserData any          `json:"userData,omitempty"`
	Children []*Object    `json:"children,omitempty"`
}

func NewObject(name string) *Object {
	return &Object{Name: name}
}

func (o *Object) Add(children ...*Object) *Object {
	o.Children = append(o.Children, children...)
	return o
}

func (o *Object) scale() float64 {
	if o.Scale == 0 {
		return 1
	}
	return o.Scale
}

// Find returns the first object named name, depth first, including o itself.
func (o *Object) Find(name string) *Object {
	if o.Name == name {
		return o
	}
	for _, c := range o.Children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// FindAll returns every object named name, depth first.
func (o *Object) FindAll(name string) []*Object {
	var out []*Object
	o.Walk(func(obj *Object, _ Transform) {
		if obj.Name == name {
			out = append(out, obj)
		}
	})
	return out
}

// Clone copies the object tree. Meshes and things are shared.
func (o *Object) Clone() *Object {
	c := *o
	c.Children = make([]*Object, len(o.Children))
	for i, ch := range o.Children {
		c.Children[i] = ch.Clone()
	}
	return &c
}

// Transform maps local positions to world positions.
type Transform struct {
	Offset common.Vec3
	Scale  float64
}

func (t Transform) Apply(p common.Vec3) common.Vec3 {
	return t.Offset.Add(p.Mul(t.Scale))
}

func (t Transform) child(o *Object) Transform {
	return Transform{Offset: t.Apply(o.Position), Scale: t.Scale * o.scale()}
}

// Walk visits o and its descendants with their world transforms.
func (o *Object) Walk(fn func(o *Object, world Transform)) {
	o.walk(Transform{Scale: 1}, fn)
}

func (o *Object) walk(parent Transform, fn func(*Object, Transform)) {
	w := parent.child(o)
	fn(o, w)
	for _, c := range o.Children {
		c.walk(w, fn)
	}
}

// WorldPositions returns the world position of every object named name.
func (o *Object) WorldPositions(name string) []common.Vec3 {
	var out []common.Vec3
	o.walk(Transform{Scale: 1}, func(obj *Object, w Transform) {
		if obj.Name == name {
			out = append(out, w.Offset)
		}
	})
	return out
}

type Scene struct {
	Root *Object `json:"object"`
}

func New(root *Object) *Scene {
	return &Scene{Root: root}
}

func (s *Scene) Find(name string) *Object {
	return s.Root.Find(name)
}

// WriteJSON serializes the scene for the preview UI.
func (s *Scene) WriteJSON(w io.Writer) error {
	return json.NewEncoder(w).Encode(s)
}

// ReadJSON loads a scene written by WriteJSON.
func ReadJSON(r io.Reader) (*Scene, error) {
	s := &Scene{}
	if err := json.NewDecoder(r).Decode(s); err != nil {
		return nil, err
	}
	return s, nil
}
