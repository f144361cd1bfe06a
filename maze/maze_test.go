package maze

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("rejects empty grids", func(t *testing.T) {
		for _, dims := range [][2]int{{0, 5}, {5, 0}, {-1, 3}, {0, 0}} {
			_, err := New(dims[0], dims[1], 1)
			assert.ErrorIs(t, err, ErrEmptyGrid, "dims %v", dims)
		}
	})

	t.Run("rejects grids whose area overflows", func(t *testing.T) {
		_, err := New(math.MaxInt32, 2, 1)
		assert.ErrorIs(t, err, ErrGridTooLarge)
		assert.NotErrorIs(t, err, ErrEmptyGrid)
	})

	t.Run("every node starts unused in column-major order", func(t *testing.T) {
		m, err := New(3, 2, 1)
		require.NoError(t, err)

		assert.Equal(t, Counts{Unused: 6}, m.Counts())
		assert.Equal(t, Initializing, m.State())

		var order []Coord
		m.UnusedList().Each(func(id NodeID) bool {
			order = append(order, m.Position(id))
			return true
		})
		assert.Equal(t, []Coord{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 0}, {2, 1}}, order)
		require.NoError(t, m.Validate())
	})
}

func TestLookup(t *testing.T) {
	m, err := New(4, 5, 1)
	require.NoError(t, err)

	id, err := m.Lookup(Coord{X: 3, Y: 4})
	require.NoError(t, err)
	assert.Equal(t, Coord{X: 3, Y: 4}, m.Position(id))

	for _, c := range []Coord{{-1, 0}, {0, -1}, {4, 0}, {0, 5}} {
		_, err := m.Lookup(c)
		assert.ErrorIs(t, err, ErrOutOfBounds, "coord %v", c)
	}
}

func TestNeighbors(t *testing.T) {
	m, err := New(3, 3, 1)
	require.NoError(t, err)

	tests := []struct {
		at   Coord
		want []Coord
	}{
		{at: Coord{1, 1}, want: []Coord{{1, 0}, {1, 2}, {2, 1}, {0, 1}}},
		{at: Coord{0, 0}, want: []Coord{{0, 1}, {1, 0}}},
		{at: Coord{2, 2}, want: []Coord{{2, 1}, {1, 2}}},
		{at: Coord{2, 0}, want: []Coord{{2, 1}, {1, 0}}},
	}
	for _, tt := range tests {
		got, err := m.Neighbors(tt.at)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "neighbors of %v", tt.at)
	}

	_, err = m.Neighbors(Coord{3, 3})
	assert.ErrorIs(t, err, ErrOutOfBounds)

	single, err := New(1, 1, 1)
	require.NoError(t, err)
	got, err := single.Neighbors(Coord{0, 0})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDirectionsIsACopy(t *testing.T) {
	dirs := Directions()
	require.Len(t, dirs, 4)
	assert.Equal(t, []string{"North", "South", "East", "West"},
		[]string{dirs[0].Name, dirs[1].Name, dirs[2].Name, dirs[3].Name})

	dirs[0], dirs[3] = dirs[3], dirs[0]
	dirs[1].Delta = Coord{X: 5, Y: 5}

	assert.Equal(t, "North", Directions()[0].Name)
	assert.Equal(t, Coord{X: 0, Y: 1}, Directions()[1].Delta)

	m, err := New(3, 3, 1)
	require.NoError(t, err)
	got, err := m.Neighbors(Coord{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []Coord{{1, 0}, {1, 2}, {2, 1}, {0, 1}}, got)
}

func TestRunToCompletionCoversGrid(t *testing.T) {
	for w := 1; w <= 7; w++ {
		for h := 1; h <= 7; h++ {
			for _, seed := range []int64{1, 2, 42} {
				t.Run(fmt.Sprintf("%dx%d/seed=%d", w, h, seed), func(t *testing.T) {
					m, err := New(w, h, seed)
					require.NoError(t, err)

					_, err = m.RunToCompletion()
					require.NoError(t, err)

					assert.Equal(t, Complete, m.State())
					assert.Equal(t, Counts{Tree: w * h}, m.Counts())
					assert.Len(t, m.Edges(), w*h-1)
					require.NoError(t, m.Validate())

					root, ok := m.Tree().Root()
					require.True(t, ok)
					for i := 0; i < w*h; i++ {
						depth, ok := m.Tree().Depth(NodeID(i))
						require.True(t, ok)
						assert.LessOrEqual(t, depth, w*h-1)
						if NodeID(i) == root {
							assert.Zero(t, depth)
						}
					}
				})
			}
		}
	}
}

func TestInvariantsHoldAfterEveryStep(t *testing.T) {
	m, err := New(6, 5, 7)
	require.NoError(t, err)

	for {
		res, err := m.Step()
		require.NoError(t, err)

		c := m.Counts()
		assert.Equal(t, 30, c.Tree+c.Unused+c.RandomWalk)
		require.NoError(t, m.Validate())

		walk := m.WalkPath()
		seen := make(map[Coord]struct{}, len(walk))
		for _, pos := range walk {
			_, dup := seen[pos]
			require.False(t, dup, "walk visits %v twice", pos)
			seen[pos] = struct{}{}
		}

		if res == Completed {
			break
		}
	}
	assert.Empty(t, m.WalkPath())
}

func snapshotRun(t *testing.T, w, h int, seed int64) []string {
	t.Helper()
	m, err := New(w, h, seed)
	require.NoError(t, err)

	var snapshots []string
	for {
		res, err := m.Step()
		require.NoError(t, err)
		tags := make([]byte, 0, w*h)
		m.ForEachNode(func(v NodeView) {
			tags = append(tags, byte('0'+v.Affiliation))
		})
		snapshots = append(snapshots, string(tags))
		if res == Completed {
			return snapshots
		}
	}
}

func TestDeterminism(t *testing.T) {
	a := snapshotRun(t, 8, 6, 99)
	b := snapshotRun(t, 8, 6, 99)
	assert.Equal(t, a, b)

	m1, err := New(8, 6, 99)
	require.NoError(t, err)
	_, err = m1.RunToCompletion()
	require.NoError(t, err)
	m2, err := New(8, 6, 99)
	require.NoError(t, err)
	_, err = m2.RunToCompletion()
	require.NoError(t, err)
	assert.Equal(t, m1.String(), m2.String())
	assert.Equal(t, m1.Stats(), m2.Stats())
}

func TestConcreteScenarios(t *testing.T) {
	t.Run("1x1 completes without walking", func(t *testing.T) {
		m, err := New(1, 1, 3)
		require.NoError(t, err)

		res, err := m.Step()
		require.NoError(t, err)
		assert.Equal(t, Completed, res)
		assert.Zero(t, m.Stats().Walks)
		assert.Equal(t, Counts{Tree: 1}, m.Counts())
		assert.Empty(t, m.Edges())
	})

	t.Run("2x2 spans 4 nodes with 3 edges", func(t *testing.T) {
		m, err := New(2, 2, 3)
		require.NoError(t, err)
		_, err = m.RunToCompletion()
		require.NoError(t, err)
		assert.Equal(t, 4, m.Tree().Len())
		assert.Len(t, m.Edges(), 3)
	})

	t.Run("4x5 has 19 edges", func(t *testing.T) {
		m, err := New(4, 5, 1)
		require.NoError(t, err)
		_, err = m.RunToCompletion()
		require.NoError(t, err)
		assert.Len(t, m.Edges(), 19)
		assert.Zero(t, m.UnusedList().Len())
		assert.Zero(t, m.WalkList().Len())
	})
}

func TestStepAfterCompletion(t *testing.T) {
	m, err := New(3, 3, 5)
	require.NoError(t, err)
	steps, err := m.RunToCompletion()
	require.NoError(t, err)
	assert.Equal(t, m.Stats().Steps, steps)

	res, err := m.Step()
	require.NoError(t, err)
	assert.Equal(t, Completed, res)
	assert.Equal(t, steps, m.Stats().Steps)

	again, err := m.RunToCompletion()
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestFailFast(t *testing.T) {
	m, err := New(2, 1, 5)
	require.NoError(t, err)
	m.fail(ErrDeadEnd)

	_, err = m.Step()
	assert.ErrorIs(t, err, ErrDeadEnd)
	_, err = m.RunToCompletion()
	assert.ErrorIs(t, err, ErrDeadEnd)
	assert.Equal(t, Failed, m.State())
}

func TestWalkDeadEnd(t *testing.T) {
	m, err := New(1, 1, 1)
	require.NoError(t, err)

	// Put the only node on a walk so the next step has nowhere to go.
	require.NoError(t, m.unused.remove(0))
	m.randomWalk.pushBack(0)
	m.current = 0
	m.state = Walking

	res, err := m.Step()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeadEnd)
	assert.Contains(t, err.Error(), "walking from (0, 0)")
	assert.Equal(t, StillGenerating, res)
	assert.Equal(t, Failed, m.State())
	assert.Zero(t, m.Stats().Steps)

	_, again := m.Step()
	assert.Equal(t, err, again)
	assert.Equal(t, Failed, m.State())
	assert.ErrorIs(t, m.Err(), ErrDeadEnd)
}

func TestCellsAndString(t *testing.T) {
	m, err := New(4, 3, 11)
	require.NoError(t, err)
	_, err = m.RunToCompletion()
	require.NoError(t, err)

	cells := m.Cells()
	require.Len(t, cells, 3)
	require.Len(t, cells[0], 4)

	open := 0
	for y, row := range cells {
		for x, cell := range row {
			assert.Equal(t, Tree, cell.Affiliation)
			if y == 0 {
				assert.True(t, cell.NorthWall)
			}
			if x == 0 {
				assert.True(t, cell.WestWall)
			}
			if !cell.EastWall {
				open++
				assert.False(t, cells[y][x+1].WestWall)
			}
			if !cell.SouthWall {
				open++
				assert.False(t, cells[y+1][x].NorthWall)
			}
		}
	}
	assert.Equal(t, 11, open)

	out := m.String()
	assert.Contains(t, out, "+---+---+---+---+\n")
	assert.NotContains(t, out, "*")
	assert.NotContains(t, out, ".")
}

func TestForEachNodeParents(t *testing.T) {
	m, err := New(5, 4, 8)
	require.NoError(t, err)
	_, err = m.RunToCompletion()
	require.NoError(t, err)

	roots := 0
	m.ForEachNode(func(v NodeView) {
		assert.Equal(t, Tree, v.Affiliation)
		if !v.HasParent {
			roots++
			return
		}
		assert.True(t, adjacent(v.Pos, v.Parent), "%v -> %v", v.Pos, v.Parent)
	})
	assert.Equal(t, 1, roots)
}

func TestAffiliationText(t *testing.T) {
	for _, a := range []Affiliation{Tree, Unused, RandomWalk} {
		text, err := a.MarshalText()
		require.NoError(t, err)
		var back Affiliation
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, a, back)
	}

	var a Affiliation
	assert.Error(t, a.UnmarshalText([]byte("orphan")))
}
