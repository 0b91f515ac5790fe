package world

import "math/rand"

// Cell is a grid coordinate. The origin is the top-left corner.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Grid holds the static obstacle set and the food layer. A cell holds food
// or an obstacle or neither, never both. Agents are not tracked here.
type Grid struct {
	W, H int

	obstacles map[Cell]bool
	food      map[Cell]int
}

func NewGrid(w, h int) *Grid {
	return &Grid{
		W:         w,
		H:         h,
		obstacles: map[Cell]bool{},
		food:      map[Cell]int{},
	}
}

func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.W && c.Y >= 0 && c.Y < g.H
}

func (g *Grid) Obstacle(c Cell) bool { return g.obstacles[c] }
func (g *Grid) FoodAt(c Cell) int    { return g.food[c] }
func (g *Grid) FoodCells() int       { return len(g.food) }

func (g *Grid) placeObstacle(c Cell) {
	if g.food[c] > 0 {
		panic("grid: obstacle on food cell")
	}
	g.obstacles[c] = true
}

// SpawnFood places one food unit on a uniformly random free cell.
// A no-op when the grid has no free cell left.
func (g *Grid) SpawnFood(rng *rand.Rand) {
	g.spawnFood(rng, Cell{-1, -1})
}

// SpawnFoodExcluding is SpawnFood with one cell ruled out. Used for
// replacement spawns so the replacement never lands on the cell that was
// just collected.
func (g *Grid) SpawnFoodExcluding(rng *rand.Rand, exclude Cell) {
	g.spawnFood(rng, exclude)
}

func (g *Grid) spawnFood(rng *rand.Rand, exclude Cell) {
	free := g.freeCells(exclude)
	if len(free) == 0 {
		return
	}
	c := free[rng.Intn(len(free))]
	g.food[c]++
}

// CollectFoodAt removes the food at c and returns the collected amount,
// 0 when the cell holds none.
func (g *Grid) CollectFoodAt(c Cell) int {
	n := g.food[c]
	if n == 0 {
		return 0
	}
	delete(g.food, c)
	return n
}

// freeCells enumerates cells holding neither an obstacle nor food, in
// row-major order so spawn position depends only on the rng stream.
func (g *Grid) freeCells(exclude Cell) []Cell {
	free := make([]Cell, 0, g.W*g.H-len(g.obstacles)-len(g.food))
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			c := Cell{X: x, Y: y}
			if c == exclude || g.obstacles[c] || g.food[c] > 0 {
				continue
			}
			free = append(free, c)
		}
	}
	return free
}

// ObstacleCells returns the obstacle set in row-major order.
func (g *Grid) ObstacleCells() []Cell {
	return g.sortedCells(g.obstacles)
}

// FoodCellList returns the food cells in row-major order.
func (g *Grid) FoodCellList() []Cell {
	cells := make(map[Cell]bool, len(g.food))
	for c := range g.food {
		cells[c] = true
	}
	return g.sortedCells(cells)
}

func (g *Grid) sortedCells(set map[Cell]bool) []Cell {
	out := make([]Cell, 0, len(set))
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if set[Cell{X: x, Y: y}] {
				out = append(out, Cell{X: x, Y: y})
			}
		}
	}
	return out
}
