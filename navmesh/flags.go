package navmesh

// Flag marks special navmesh nodes.
type Flag uint8

const (
	FlagTarget Flag = 1 << iota
	FlagLeap
	FlagArc
	FlagLand
	FlagAction
	FlagObstacle
	FlagAvoid
	FlagEnabled
)

func (f Flag) Has(o Flag) bool {
	return f&o != 0
}
