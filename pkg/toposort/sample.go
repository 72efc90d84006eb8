package toposort

// Sample returns the ten relations of the bundled sample graph. Sorting
// them yields 1 9 3 2 7 5 4 8 6.
func Sample() []Relation {
	return []Relation{
		{9, 2}, {3, 7}, {7, 5}, {5, 8}, {8, 6},
		{4, 6}, {1, 3}, {7, 4}, {9, 5}, {2, 8},
	}
}
