package formula

import "sort"

// References collects the set of field names an AST reads from the
// snapshot. The walk is pure: literals contribute nothing, a FieldRef
// contributes its own name, operators recurse into their operands, and
// a Call recurses into every argument (the function name itself is not
// a field).
//
// Duplicates are collapsed; the result is sorted ascending so callers
// building dependency edges get deterministic output.
func References(root Node) []string {
	seen := make(map[string]struct{})
	collectRefs(root, seen)
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectRefs(n Node, seen map[string]struct{}) {
	switch node := n.(type) {
	case *Literal:
		// no references
	case *FieldRef:
		seen[node.Name] = struct{}{}
	case *Unary:
		collectRefs(node.Operand, seen)
	case *Binary:
		collectRefs(node.Left, seen)
		collectRefs(node.Right, seen)
	case *Call:
		for _, arg := range node.Args {
			collectRefs(arg, seen)
		}
	}
}
