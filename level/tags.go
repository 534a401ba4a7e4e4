package level

import (
	"strconv"
	"strings"

	"github.com/gorustyt/udmfnav/common"
	"github.com/gorustyt/udmfnav/udmf"
)

type TagKey struct {
	Kind udmf.BlockKind
	Tag  int
}

// TagBuilder collects (kind, tag) -> entity index lists while a level is ingested.
type TagBuilder struct {
	lists map[TagKey][]int
}

func NewTagBuilder() *TagBuilder {
	return &TagBuilder{lists: make(map[TagKey][]int)}
}

// Register adds index to the list for (kind, tag) once.
func (b *TagBuilder) Register(kind udmf.BlockKind, tag, index int) {
	k := TagKey{kind, tag}
	b.lists[k] = common.AppendUnique(b.lists[k], index)
}

func (b *TagBuilder) Has(kind udmf.BlockKind, tag int) bool {
	_, ok := b.lists[TagKey{kind, tag}]
	return ok
}

func (b *TagBuilder) Lookup(kind udmf.BlockKind, tag int) []int {
	return b.lists[TagKey{kind, tag}]
}

// Build freezes the builder. The builder must not be used afterwards.
func (b *TagBuilder) Build() *TagRegistry {
	r := &TagRegistry{lists: b.lists}
	b.lists = nil
	return r
}

// TagRegistry is the read-only tag lookup of a built level.
type TagRegistry struct {
	lists map[TagKey][]int
}

func (r *TagRegistry) Has(kind udmf.BlockKind, tag int) bool {
	_, ok := r.lists[TagKey{kind, tag}]
	return ok
}

// Lookup returns a copy of the indices of kind entities carrying tag.
func (r *TagRegistry) Lookup(kind udmf.BlockKind, tag int) []int {
	return append([]int(nil), r.lists[TagKey{kind, tag}]...)
}

func (r *TagRegistry) Len() int {
	return len(r.lists)
}

// tagsOf builds the tag list from "id" and "moreids". Nil means the entity carries neither.
func tagsOf(f udmf.Fields) []int {
	if !f.Has("id") && !f.Has("moreids") {
		return nil
	}
	tags := []int{}
	if id := f.Int("id", 0); id != 0 {
		tags = append(tags, id)
	}
	for _, s := range moreIDs(f) {
		tags = common.AppendUnique(tags, s)
	}
	return tags
}

func moreIDs(f udmf.Fields) []int {
	v, ok := f["moreids"]
	if !ok {
		return nil
	}
	if v.Kind == udmf.NumberValue {
		return []int{v.Int()}
	}
	var ids []int
	for _, s := range strings.Fields(v.Raw) {
		n, err := strconv.Atoi(s)
		if err != nil {
			continue
		}
		ids = append(ids, n)
	}
	return ids
}

func argsOf(f udmf.Fields) [5]int {
	var args [5]int
	for i := range args {
		args[i] = f.Int("arg"+strconv.Itoa(i), 0)
	}
	return args
}
