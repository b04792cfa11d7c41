package merklelog

import (
	"fmt"

	"github.com/ironclad-robotics/attestcore/xcrypto"
)

// Proof is an inclusion proof for one leaf against a specific root. Siblings
// is bottom-up: Siblings[0] is the leaf's sibling, Siblings[1] is that
// pair's sibling one level up, and so on.
type Proof struct {
	Leaf      xcrypto.Hash256
	LeafIndex int
	Siblings  []xcrypto.Hash256
	Root      xcrypto.Hash256
}

// Proof generates an inclusion proof for the entry at id against the log's
// current contents.
func (l *Log) Proof(id EntryID) (Proof, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.sorted()
	idx := -1
	for i, e := range entries {
		if e.ID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Proof{}, fmt.Errorf("%w: %+v", ErrEntryNotFound, id)
	}

	leaves := make([]xcrypto.Hash256, len(entries))
	for i, e := range entries {
		leaves[i] = HashLeaf(e)
	}

	leaf := leaves[idx]
	root, siblings := proofPath(leaves, idx)

	return Proof{Leaf: leaf, LeafIndex: idx, Siblings: siblings, Root: root}, nil
}

// proofPath walks leaves bottom-up from position idx, collecting the
// sibling at each level, and returns the resulting root alongside them.
func proofPath(leaves []xcrypto.Hash256, idx int) (root xcrypto.Hash256, siblings []xcrypto.Hash256) {
	level := leaves
	for len(level) > 1 {
		var sibling xcrypto.Hash256
		if idx%2 == 0 {
			if idx+1 < len(level) {
				sibling = level[idx+1]
			} else {
				// Lone odd node at this level: paired with itself.
				sibling = level[idx]
			}
		} else {
			sibling = level[idx-1]
		}
		siblings = append(siblings, sibling)
		level = buildLevel(level)
		idx /= 2
	}
	return level[0], siblings
}

// VerifyProof recomputes the path from p.Leaf upward using p.LeafIndex and
// p.Siblings, and accepts iff the recomputed root equals expectedRoot AND
// p.Root (the root the proof itself carries) also equals expectedRoot.
func VerifyProof(p Proof, expectedRoot xcrypto.Hash256) bool {
	if p.Root != expectedRoot {
		return false
	}

	node := p.Leaf
	idx := p.LeafIndex
	for _, sibling := range p.Siblings {
		bit := idx & 1
		if bit == 0 {
			node = HashNode(node, sibling)
		} else {
			node = HashNode(sibling, node)
		}
		idx >>= 1
	}
	return node == expectedRoot
}
