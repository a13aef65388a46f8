package curriculum

// DefaultNodes is the built-in beginner Spanish curriculum.
func DefaultNodes() []Node {
	return []Node{
		{
			ID:      "greetings",
			Name:    "Greetings",
			Lessons: []string{"greetings-1", "greetings-2"},
		},
		{
			ID:      "numbers",
			Name:    "Numbers",
			Lessons: []string{"numbers-1", "numbers-2"},
		},
		{
			ID:            "introductions",
			Name:          "Introductions",
			Description:   "Saying who you are and where you are from",
			Prerequisites: []string{"greetings"},
			Lessons:       []string{"introductions-1", "introductions-2"},
		},
		{
			ID:            "food",
			Name:          "Food & Drink",
			Prerequisites: []string{"numbers", "introductions"},
			Lessons:       []string{"food-1", "food-2", "food-3"},
		},
		{
			ID:            "travel",
			Name:          "Travel",
			Prerequisites: []string{"food"},
			Lessons:       []string{"travel-1", "travel-2"},
		},
	}
}

// Default returns the built-in curriculum graph.
func Default() *Graph {
	g, err := New(DefaultNodes())
	if err != nil {
		panic("curriculum: invalid default graph: " + err.Error())
	}
	return g
}
