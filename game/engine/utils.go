package engine

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	return abs(from.X-to.X) + abs(from.Y-to.Y)
}

// AnalyzeWorld reports layout heuristics for a world: unreachable obstacles,
// obstacles that can be entered by wrapping, and whether the start is boxed in.
func AnalyzeWorld(config *WorldConfig) WorldReport {
	radar := NewRadar(config.Boundary, config.Start, config.Facing, config.Obstacles...)
	side := 2*config.Boundary + 1

	report := WorldReport{
		Name:     config.Name,
		Boundary: config.Boundary,
		Cells:    side * side,
	}

	inside := 0
	for _, o := range radar.Obstacles() {
		if !radar.InBounds(o) {
			report.OutOfBounds = append(report.OutOfBounds, o)
			continue
		}
		inside++
		if onEdge(o, config.Boundary) {
			report.EdgeObstacles = append(report.EdgeObstacles, o)
		}
	}
	report.ObstacleCount = inside
	if report.Cells > 0 {
		report.Density = float64(inside) / float64(report.Cells)
	}

	blocked := 0
	for _, d := range AllDirections() {
		n := config.Start.Stepped(d)
		if radar.IsObstacle(n) {
			report.BlockedNeighbours = append(report.BlockedNeighbours, n)
			blocked++
		}
	}
	report.StartBoxedIn = blocked == len(AllDirections())

	report.OpenCells = report.Cells - inside
	if report.Cells <= MaxFloodCells && radar.InBounds(config.Start) {
		for _, p := range reachable(radar) {
			if radar.IsObstacle(p) {
				report.ReachableObstacles = append(report.ReachableObstacles, p)
			} else {
				report.ReachableCells++
			}
		}
	} else {
		report.ReachabilitySkipped = true
	}

	return report
}

// ReachableCells counts the open cells the rover can reach from its current
// position, following the same obstacle and wrap rules as real moves.
// Obstacle cells entered by wrapping are not counted. The radar is left
// where it started.
func ReachableCells(radar *Radar) int {
	count := 0
	for _, p := range reachable(radar) {
		if !radar.IsObstacle(p) {
			count++
		}
	}
	return count
}

// reachable flood-fills every cell the rover can stand on, sorted
func reachable(radar *Radar) []Position {
	start, facing := radar.position, radar.direction
	defer func() {
		radar.position, radar.direction = start, facing
	}()

	seen := map[Position]struct{}{start: {}}
	queue := []Position{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, d := range AllDirections() {
			radar.position = current
			if radar.move(d) != nil {
				continue
			}
			next := radar.position
			if _, ok := seen[next]; ok {
				continue
			}
			seen[next] = struct{}{}
			queue = append(queue, next)
		}
	}

	cells := make([]Position, 0, len(seen))
	for p := range seen {
		cells = append(cells, p)
	}
	sortPositions(cells)
	return cells
}

func onEdge(p Position, boundary int) bool {
	return abs(p.X) == boundary || abs(p.Y) == boundary
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
