package graph

import "github.com/omtsf/omtsf-go"

// DefaultMaxDepth is the default bound on AllPaths when the caller does
// not specify one.
const DefaultMaxDepth = 20

// ReachableFrom returns the set of nodes reachable from start, excluding
// start itself, using breadth-first search with a FIFO queue so the
// visitation order is deterministic.
func ReachableFrom(g *Graph, start omtsf.NodeID, dir Direction, filter EdgeFilter) ([]omtsf.NodeID, error) {
	startIdx, ok := g.IndexOf(start)
	if !ok {
		return nil, &QueryError{Kind: NodeNotFound, NodeID: string(start)}
	}

	visited := make([]bool, g.NumNodes())
	visited[startIdx] = true
	queue := []int{startIdx}
	var result []omtsf.NodeID

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, ref := range g.neighbors(cur, dir, filter) {
			if visited[ref.NodeIndex] {
				continue
			}
			visited[ref.NodeIndex] = true
			queue = append(queue, ref.NodeIndex)
			result = append(result, g.NodeAt(ref.NodeIndex).ID)
		}
	}
	return result, nil
}

// ShortestPath returns the first breadth-first path found from from to to,
// as a sequence of node IDs including both endpoints. Ties are broken by
// the order edges were declared in the file. Returns (nil, false, nil)
// when no path exists.
func ShortestPath(g *Graph, from, to omtsf.NodeID, dir Direction, filter EdgeFilter) ([]omtsf.NodeID, bool, error) {
	fromIdx, ok := g.IndexOf(from)
	if !ok {
		return nil, false, &QueryError{Kind: NodeNotFound, NodeID: string(from)}
	}
	toIdx, ok := g.IndexOf(to)
	if !ok {
		return nil, false, &QueryError{Kind: NodeNotFound, NodeID: string(to)}
	}
	if fromIdx == toIdx {
		return []omtsf.NodeID{from}, true, nil
	}

	pred := make([]int, g.NumNodes())
	for i := range pred {
		pred[i] = -1
	}
	visited := make([]bool, g.NumNodes())
	visited[fromIdx] = true
	queue := []int{fromIdx}

	found := false
	for len(queue) > 0 && !found {
		cur := queue[0]
		queue = queue[1:]
		for _, ref := range g.neighbors(cur, dir, filter) {
			if visited[ref.NodeIndex] {
				continue
			}
			visited[ref.NodeIndex] = true
			pred[ref.NodeIndex] = cur
			if ref.NodeIndex == toIdx {
				found = true
				break
			}
			queue = append(queue, ref.NodeIndex)
		}
	}
	if !found {
		return nil, false, nil
	}

	var rev []int
	for at := toIdx; at != -1; at = pred[at] {
		rev = append(rev, at)
		if at == fromIdx {
			break
		}
	}
	path := make([]omtsf.NodeID, len(rev))
	for i, idx := range rev {
		path[len(rev)-1-i] = g.NodeAt(idx).ID
	}
	return path, true, nil
}

// AllPaths returns every simple path from from to to with at most
// maxDepth edges, found via backtracking depth-first search over a shared
// mutable path buffer and an on-path bitset, so no per-recursion
// allocation occurs.
func AllPaths(g *Graph, from, to omtsf.NodeID, maxDepth int, dir Direction, filter EdgeFilter) ([][]omtsf.NodeID, error) {
	fromIdx, ok := g.IndexOf(from)
	if !ok {
		return nil, &QueryError{Kind: NodeNotFound, NodeID: string(from)}
	}
	toIdx, ok := g.IndexOf(to)
	if !ok {
		return nil, &QueryError{Kind: NodeNotFound, NodeID: string(to)}
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	onPath := make([]bool, g.NumNodes())
	path := make([]int, 0, maxDepth+1)
	var results [][]omtsf.NodeID

	var walk func(cur int)
	walk = func(cur int) {
		path = append(path, cur)
		onPath[cur] = true

		if cur == toIdx && len(path) > 1 {
			results = append(results, snapshotPath(g, path))
		} else if len(path)-1 < maxDepth {
			for _, ref := range g.neighbors(cur, dir, filter) {
				if onPath[ref.NodeIndex] {
					continue
				}
				walk(ref.NodeIndex)
			}
		}

		onPath[cur] = false
		path = path[:len(path)-1]
	}
	walk(fromIdx)

	return results, nil
}

func snapshotPath(g *Graph, idxPath []int) []omtsf.NodeID {
	out := make([]omtsf.NodeID, len(idxPath))
	for i, idx := range idxPath {
		out[i] = g.NodeAt(idx).ID
	}
	return out
}
