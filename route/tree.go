package route

import (
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Tree is the arena of the last run, for offline debugging
type Tree struct {
	Points     []Point `msgpack:"points"`
	Frontier   []int   `msgpack:"frontier"`
	Iterations int     `msgpack:"iterations"`
	Explored   int     `msgpack:"explored"`
	ClosestNm  float64 `msgpack:"closestNm"`
	Cells      int     `msgpack:"cells"`
}

// Tree returns the search tree of the last run, nil before any run
func (e *Engine) Tree() *Tree {
	if e.state == nil {
		return nil
	}
	return &Tree{
		Points:     e.points,
		Frontier:   e.state.frontier,
		Iterations: e.state.iterations,
		Explored:   e.state.explored,
		ClosestNm:  e.state.closest,
		Cells:      len(e.state.cells),
	}
}

func (t *Tree) Encode() ([]byte, error) {
	b, err := msgpack.Marshal(t)
	return b, errors.Wrap(err, "encode search tree")
}

func DecodeTree(b []byte) (*Tree, error) {
	t := &Tree{}
	if err := msgpack.Unmarshal(b, t); err != nil {
		return nil, errors.Wrap(err, "decode search tree")
	}
	return t, nil
}
