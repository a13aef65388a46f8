package curriculum

import (
	"fmt"
	"strings"
)

// validateNodes performs all structural checks on the given node set.
// Returns a combined error describing all problems found, or nil if valid.
func validateNodes(nodes []Node) error {
	var errs []string

	if len(nodes) == 0 {
		return fmt.Errorf("curriculum validation failed: no skill nodes")
	}

	idSet := make(map[string]bool, len(nodes))
	lessonOwner := make(map[string]string)
	for _, n := range nodes {
		if n.ID == "" {
			errs = append(errs, "skill node with empty ID")
		}
		if idSet[n.ID] {
			errs = append(errs, fmt.Sprintf("duplicate skill node ID: %q", n.ID))
		}
		idSet[n.ID] = true

		if len(n.Lessons) == 0 {
			errs = append(errs, fmt.Sprintf("skill node %q has no lessons", n.ID))
		}
		for _, lessonID := range n.Lessons {
			if owner, ok := lessonOwner[lessonID]; ok {
				errs = append(errs, fmt.Sprintf("lesson %q belongs to both %q and %q", lessonID, owner, n.ID))
				continue
			}
			lessonOwner[lessonID] = n.ID
		}
	}

	for _, n := range nodes {
		for _, prereqID := range n.Prerequisites {
			if !idSet[prereqID] {
				errs = append(errs, fmt.Sprintf("skill node %q references nonexistent prerequisite %q", n.ID, prereqID))
			}
		}
	}

	// Cycle check (Kahn's algorithm)
	inDegree := make(map[string]int, len(nodes))
	adjList := make(map[string][]string)
	var queue []string
	for _, n := range nodes {
		inDegree[n.ID] = len(n.Prerequisites)
		for _, prereqID := range n.Prerequisites {
			adjList[prereqID] = append(adjList[prereqID], n.ID)
		}
		if len(n.Prerequisites) == 0 {
			queue = append(queue, n.ID)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, depID := range adjList[id] {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}
	if visited < len(nodes) {
		var cycleNodes []string
		for _, n := range nodes {
			if inDegree[n.ID] > 0 {
				cycleNodes = append(cycleNodes, n.ID)
			}
		}
		errs = append(errs, fmt.Sprintf("cycle detected involving skill nodes: %s", strings.Join(cycleNodes, ", ")))
	}

	if len(errs) > 0 {
		return fmt.Errorf("curriculum validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
