package node

// CloneTable is a pending-clone-overrides table: "from" node identities map
// to the "to" node that should replace them once propagated. A nil table
// means "already materialised" (the no-op case described in spec §4.3).
//
// The source design calls for weakly-keyed maps so that nodes reachable only
// through a stale override entry can still be reclaimed. A plain Go map
// suffices here instead: every table is consumed and cleared by
// PropagateClone the moment its owner is next inspected (§4.3 "just in
// time"), and mergeOverrides below collapses redundant a->b->c chains on
// every union, so no table ever outlives more than one generation of clones
// or grows past the number of currently-live clones. That keeps the
// reachable memory bounded without needing true GC weakness, which is all
// §5 asks for ("reclamation of unreachable subtrees... is a
// correctness-relevant goal" — not a GC-tuning goal, which is a Non-goal).
type CloneTable map[Node]Node

// mergeOverrides unions tables left-to-right (a later table's entry for a
// key wins, matching Python's dict `|` operator that the lazy-clone
// protocol is specified in terms of), then collapses redundant chains.
func mergeOverrides(tables ...CloneTable) CloneTable {
	merged := make(CloneTable)
	for _, t := range tables {
		for k, v := range t {
			merged[k] = v
		}
	}
	return collapseChains(merged)
}

// collapseChains repeatedly rewrites a->b, b->c into a->c (dropping b->c) so
// that override tables never grow with the number of override generations,
// only with the number of still-live clones.
func collapseChains(overrides CloneTable) CloneTable {
	if len(overrides) == 0 {
		return overrides
	}
	for {
		result := make(CloneTable, len(overrides))
		remove := make(map[Node]bool)
		for k, v := range overrides {
			if remove[k] {
				continue
			}
			if x, ok := overrides[v]; ok {
				remove[v] = true
				result[k] = x
			} else {
				result[k] = v
			}
		}
		for k := range remove {
			delete(result, k)
		}
		if len(result) == len(overrides) {
			return result
		}
		overrides = result
	}
}
