// Package insnmap defines a binary trie that maps fixed-width instruction words to
// decoded instruction payloads.
//
// Every instruction kind is registered as a pattern: a bit width, a code and a mask.
// A mask bit set to 1 means the code bit must match the word exactly, a mask bit set to 0
// is a don't-care and the corresponding code bit is 0.
//
// Lifecycle:
// ---------
//
//   - build:  New -> Register (repeated) -> Freeze
//   - decode: Lookup / Decode, any number of concurrent readers
//
// Freeze is irreversible. After it the map is never written again, so it can be shared
// between goroutines without locks as long as it is published to them after Freeze
// returns (start the readers afterwards, send the map over a channel, etc).
//
// Node layout:
// -----------
//
// Nodes live in a single arena slice and reference their children by index. Index 0 is
// the root, so a zero child reference means "no child".
//
//	[ child[0] ] [ child[1] ] [ level ] [ slot ]
//	  bit == 0     bit == 1     0..W     leaf entry index + 1 (only when level == W)
//
// A code is inserted by walking bit 0, bit 1, ... bit W-1 of the code (least significant
// first) and storing the entry in the leaf at level W. Two entries with identical codes
// land in the same leaf, which is reported as a conflict.
//
// Freeze compresses single-child chains: every child reference is replaced with the
// deepest node reachable through nodes that have exactly one child. Levels are kept in
// the nodes, so a lookup simply tests whatever bit the current node is keyed on.
//
// Example trie (W = 4, entries X=0000/1111, Y=0001/1111, Z=01?0 as 0100/1101):
//
//	[root lvl 0] --L-- [lvl 1] --L-- [lvl 2] --+-- L:[lvl 3] --L-- [leaf X]
//	              |                            |
//	              |                            `-- R:[lvl 3] --L-- [leaf Z]
//	              |
//	              `-R- [lvl 1] --L-- [lvl 2] --L-- [lvl 3] --L-- [leaf Y]
//
// After Freeze the root's left reference points straight at the branching lvl 2 node,
// its right reference at leaf Y, and the lvl 2 node points at leaves X and Z.
//
// Lookup order:
// ------------
//
// A don't-care bit is stored as 0, so its entry sits under the 0 branch even when the
// word has a 1 there. Lookup therefore tries the branch selected by the word bit first and
// falls back to the other branch. The first leaf whose mask test succeeds wins; that is
// not necessarily the most specific pattern, and callers registering an overlapping
// general/special pair rely on this order.
package insnmap
