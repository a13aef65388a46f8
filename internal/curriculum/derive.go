package curriculum

// Derive computes status upgrades for every node given the set of completed
// lessons and the learner's current statuses. Only nodes whose status moves
// forward are returned; a status is never lowered.
//
// A node is mastered once all of its lessons are complete. It is in progress
// once any of its lessons is complete and all of its prerequisites are
// mastered. Nodes are visited in topological order so that a node mastered in
// this pass counts as a mastered prerequisite for its dependents.
func (g *Graph) Derive(completed map[string]bool, current map[string]Status) map[string]Status {
	effective := make(map[string]Status, len(g.topoOrder))
	upgrades := make(map[string]Status)

	for _, n := range g.topoOrder {
		have := current[n.ID]
		if have == "" {
			have = StatusLocked
		}

		done := 0
		for _, lessonID := range n.Lessons {
			if completed[lessonID] {
				done++
			}
		}

		target := StatusLocked
		switch {
		case done == len(n.Lessons):
			target = StatusMastered
		case done > 0 && g.prereqsMastered(n, effective):
			target = StatusInProgress
		}

		if have.Before(target) {
			upgrades[n.ID] = target
			have = target
		}
		effective[n.ID] = have
	}
	return upgrades
}

func (g *Graph) prereqsMastered(n Node, effective map[string]Status) bool {
	for _, prereqID := range n.Prerequisites {
		if effective[prereqID] != StatusMastered {
			return false
		}
	}
	return true
}
