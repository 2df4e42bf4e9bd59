package dungeon

// neighbors4 are the four orthogonal steps, in the order paths explore them.
var neighbors4 = [4]Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

// Path returns a shortest walk over floor tiles from one point to another
// using orthogonal steps. The result starts after from and ends at to; it is
// empty when from == to and nil when either end is not floor or no walk exists.
func (l *Layout) Path(from, to Point) []Point {
	if !l.IsFloor(from) || !l.IsFloor(to) {
		return nil
	}
	if from == to {
		return []Point{}
	}

	prev := map[Point]Point{from: from}
	queue := []Point{from}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if p == to {
			break
		}
		for _, d := range neighbors4 {
			n := p.Add(d.X, d.Y)
			if _, seen := prev[n]; seen || !l.IsFloor(n) {
				continue
			}
			prev[n] = p
			queue = append(queue, n)
		}
	}

	if _, ok := prev[to]; !ok {
		return nil
	}

	var path []Point
	for p := to; p != from; p = prev[p] {
		path = append(path, p)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Adjacent reports whether a and b are one orthogonal step apart.
func Adjacent(a, b Point) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx+dy*dy == 1
}
