package ecs

import (
	"encoding/binary"
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

// mask is a set of up to 256 component IDs. Archetypes are identified by their mask.
type mask [4]uint64

func (m *mask) set(id ComponentID) {
	m[id>>6] |= 1 << (id & 63)
}

func (m *mask) unset(id ComponentID) {
	m[id>>6] &^= 1 << (id & 63)
}

func (m mask) has(id ComponentID) bool {
	return m[id>>6]&(1<<(id&63)) != 0
}

// containsAll reports whether every bit of sub is set in m.
func (m mask) containsAll(sub mask) bool {
	return m[0]&sub[0] == sub[0] &&
		m[1]&sub[1] == sub[1] &&
		m[2]&sub[2] == sub[2] &&
		m[3]&sub[3] == sub[3]
}

func (m mask) intersects(other mask) bool {
	return m[0]&other[0] != 0 ||
		m[1]&other[1] != 0 ||
		m[2]&other[2] != 0 ||
		m[3]&other[3] != 0
}

func (m mask) count() int {
	return bits.OnesCount64(m[0]) + bits.OnesCount64(m[1]) +
		bits.OnesCount64(m[2]) + bits.OnesCount64(m[3])
}

// ids lists the set component IDs in ascending order.
func (m mask) ids() []ComponentID {
	out := make([]ComponentID, 0, m.count())
	for word := range m {
		w := m[word]
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			out = append(out, ComponentID(word*64+bit))
			w &= w - 1
		}
	}
	return out
}

// hash returns the xxhash of the mask words, used as the archetype id.
func (m mask) hash() uint64 {
	var buf [32]byte
	for i, w := range m {
		binary.LittleEndian.PutUint64(buf[i*8:], w)
	}
	return xxhash.Sum64(buf[:])
}
