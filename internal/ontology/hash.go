package ontology

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strconv"
)

// computeHash derives the ontology identity from node content.
//
// Nodes are visited in id order and every field is length-prefixed, so the
// hash is invariant to node declaration order and unambiguous across field
// boundaries. Lists inside a node are hashed in declared order: dimension
// order shapes explanation text and dependency order decides which dependent
// a trace names as the cause. The version tag is not part of the hash.
func (o *Ontology) computeHash() string {
	h := sha256.New()

	writeField := func(data []byte) {
		var length [8]byte
		binary.BigEndian.PutUint64(length[:], uint64(len(data)))
		h.Write(length[:])
		h.Write(data)
	}
	writeList := func(list []string) {
		writeField([]byte(strconv.Itoa(len(list))))
		for _, s := range list {
			writeField([]byte(s))
		}
	}

	writeField([]byte(strconv.Itoa(len(o.ids))))
	for _, id := range o.ids {
		n := o.nodes[id]
		writeField([]byte(n.ID))
		writeField([]byte(n.Description))
		writeList(n.Dimensions)
		writeList(n.Dependencies)
		writeField([]byte(strconv.FormatBool(n.Mandatory)))
		writeField([]byte(strconv.FormatFloat(n.RiskWeight, 'g', -1, 64)))
		writeField([]byte(strconv.Itoa(n.MinValidators)))
		writeField([]byte(strconv.Itoa(n.EstimatedMinutes)))
		writeList(n.RequiredSkills)
	}

	return hex.EncodeToString(h.Sum(nil))
}
