package megatec

// The service embeds tabular results in ADO.NET diffgram envelopes, and uses
// NewDataSet and DocumentElement interchangeably as the dataset root
// depending on the endpoint. Records hides both that and the single-vs-array
// ambiguity from callers.
//
// Lookup order:
//  1. the node itself, or its NewDataSet child, holds the target tag;
//  2. any descendant carrying a diffgram key, then its NewDataSet or
//     DocumentElement subtree, checked the same way.
//
// An absent tag yields an empty slice: zero rows is an answer, not an error.
// New wrapper variants belong here, not in callers.
func Records(node any, tag string) []map[string]any {
	root, ok := ChildMap(node)
	if !ok {
		return []map[string]any{}
	}

	if rows, found := recordsIn(root, tag); found {
		return rows
	}

	if diffgram := findDiffgram(root); diffgram != nil {
		for _, wrapper := range []string{"NewDataSet", "DocumentElement"} {
			dataset, ok := ChildMap(diffgram[wrapper])
			if !ok {
				continue
			}
			if rows, found := recordsIn(dataset, tag); found {
				return rows
			}
		}
	}

	return []map[string]any{}
}

// recordsIn checks one dataset-like node for the target tag, directly or
// under a NewDataSet child.
func recordsIn(node map[string]any, tag string) ([]map[string]any, bool) {
	if value, found := node[tag]; found {
		return asRows(value), true
	}

	if dataset, ok := ChildMap(node["NewDataSet"]); ok {
		if value, found := dataset[tag]; found {
			return asRows(value), true
		}
	}

	return nil, false
}

// findDiffgram walks the subtree for the first node holding a diffgram key.
// Key order is never relied on, only names.
func findDiffgram(node map[string]any) map[string]any {
	if diffgram, ok := ChildMap(node["diffgram"]); ok {
		return diffgram
	}

	for _, value := range node {
		for _, item := range AsList(value) {
			child, ok := ChildMap(item)
			if !ok {
				continue
			}
			if found := findDiffgram(child); found != nil {
				return found
			}
		}
	}

	return nil
}

func asRows(value any) []map[string]any {
	items := AsList(value)
	rows := make([]map[string]any, 0, len(items))

	for _, item := range items {
		switch v := item.(type) {
		case map[string]any:
			rows = append(rows, v)
		case string:
			// a row with no children normalizes to its text
			rows = append(rows, map[string]any{TextKey: v})
		}
	}

	return rows
}
