package detection

// unionFind is a disjoint-set forest over the indices [0, n).
//
// Union links the root of the first argument under the root of the second;
// there is no rank or size heuristic. Find compresses paths, which keeps the
// trees shallow enough for the grid sizes detection works with.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent}
}

// find returns the root of i, pointing every node on the way directly at it.
func (u *unionFind) find(i int) int {
	root := i
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[i] != root {
		next := u.parent[i]
		u.parent[i] = root
		i = next
	}
	return root
}

func (u *unionFind) union(i, j int) {
	ri, rj := u.find(i), u.find(j)
	if ri != rj {
		u.parent[ri] = rj
	}
}
