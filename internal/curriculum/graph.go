// Package curriculum models skill nodes, their prerequisites and the lessons
// that teach them, and derives a learner's status on each node.
package curriculum

import (
	"fmt"
	"slices"
	"sort"
)

// Node is a skill in the curriculum graph.
type Node struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Prerequisites []string `json:"prerequisites,omitempty"`
	Lessons       []string `json:"lessons"`
}

// Graph is a validated skill DAG with precomputed indices.
type Graph struct {
	nodes      []Node
	byID       map[string]*Node
	byLesson   map[string]string
	dependents map[string][]string
	topoOrder  []Node
}

// New validates nodes and builds the graph.
func New(nodes []Node) (*Graph, error) {
	if err := validateNodes(nodes); err != nil {
		return nil, err
	}

	gr := &Graph{
		nodes:      slices.Clone(nodes),
		byID:       make(map[string]*Node, len(nodes)),
		byLesson:   make(map[string]string),
		dependents: make(map[string][]string),
	}
	for i := range gr.nodes {
		n := &gr.nodes[i]
		gr.byID[n.ID] = n
		for _, lessonID := range n.Lessons {
			gr.byLesson[lessonID] = n.ID
		}
		for _, prereqID := range n.Prerequisites {
			gr.dependents[prereqID] = append(gr.dependents[prereqID], n.ID)
		}
	}

	// Kahn's algorithm with sorted queues for a deterministic order.
	inDegree := make(map[string]int, len(gr.nodes))
	var queue []string
	for _, n := range gr.nodes {
		inDegree[n.ID] = len(n.Prerequisites)
		if len(n.Prerequisites) == 0 {
			queue = append(queue, n.ID)
		}
	}
	sort.Strings(queue)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		gr.topoOrder = append(gr.topoOrder, *gr.byID[id])

		deps := slices.Clone(gr.dependents[id])
		sort.Strings(deps)
		for _, depID := range deps {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	return gr, nil
}

// Node returns a node by ID, or error if not found.
func (g *Graph) Node(id string) (Node, error) {
	n, ok := g.byID[id]
	if !ok {
		return Node{}, fmt.Errorf("skill node not found: %q", id)
	}
	return *n, nil
}

// NodeForLesson returns the ID of the node that owns lessonID.
func (g *Graph) NodeForLesson(lessonID string) (string, bool) {
	id, ok := g.byLesson[lessonID]
	return id, ok
}

// Nodes returns all nodes in topological order.
func (g *Graph) Nodes() []Node {
	return slices.Clone(g.topoOrder)
}

// Roots returns the nodes with no prerequisites.
func (g *Graph) Roots() []Node {
	var roots []Node
	for _, n := range g.topoOrder {
		if len(n.Prerequisites) == 0 {
			roots = append(roots, n)
		}
	}
	return roots
}

// Dependents returns the IDs of nodes that directly depend on id.
func (g *Graph) Dependents(id string) []string {
	return slices.Clone(g.dependents[id])
}
