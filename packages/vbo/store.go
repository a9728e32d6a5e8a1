package vbo

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// vertex is one slot of the store, unpacked.
type vertex struct {
	pos  mgl32.Vec4
	col  mgl32.Vec4
	nrm  mgl32.Vec3
	tex  mgl32.Vec4
	bary mgl32.Vec3
	attr [MaxAttributes]mgl32.Vec4
}

var nan3 = mgl32.Vec3{float32(math.NaN()), float32(math.NaN()), float32(math.NaN())}

// attribStore keeps the channels of a buffer as parallel float arrays that
// always share one capacity.
type attribStore struct {
	size     int
	capacity int
	initial  int
	limit    int

	data     [NumChannels][]float32
	attrUsed [MaxAttributes]bool

	min, max mgl32.Vec3
	modified bool
}

func newAttribStore(initial, limit int) *attribStore {
	return &attribStore{initial: initial, limit: limit, min: nan3, max: nan3}
}

func (s *attribStore) allocated(ch Channel) bool {
	if ch < ChannelAttribute0 {
		return true
	}
	return s.attrUsed[ch-ChannelAttribute0]
}

// ensure makes room for n more vertices, doubling the capacity as needed.
// On failure nothing is changed.
func (s *attribStore) ensure(n int) error {
	need := s.size + n
	if need <= s.capacity {
		return nil
	}
	c := s.capacity
	if c == 0 {
		c = s.initial
	}
	for c < need {
		c *= 2
	}
	if s.limit > 0 && c > s.limit {
		if need > s.limit {
			return ErrOutOfMemory
		}
		c = s.limit
	}
	s.realloc(c)
	return nil
}

func (s *attribStore) realloc(c int) {
	for ch := Channel(0); int(ch) < NumChannels; ch++ {
		if !s.allocated(ch) {
			continue
		}
		if c == 0 {
			s.data[ch] = nil
			continue
		}
		comp := ch.Components()
		buf := make([]float32, c*comp)
		copy(buf, s.data[ch][:min(len(s.data[ch]), s.size*comp)])
		s.data[ch] = buf
	}
	s.capacity = c
}

// shrinkToFit reallocates every channel to exactly size vertices, or frees
// them all when the store is empty.
func (s *attribStore) shrinkToFit() {
	if s.capacity == s.size {
		return
	}
	s.realloc(s.size)
}

// useAttribute allocates the generic attribute slot k at the current
// capacity.
func (s *attribStore) useAttribute(k int) {
	if s.attrUsed[k] {
		return
	}
	s.attrUsed[k] = true
	ch := ChannelAttribute0 + Channel(k)
	if s.capacity > 0 {
		s.data[ch] = make([]float32, s.capacity*ch.Components())
	}
}

func (s *attribStore) append(v *vertex) {
	i := s.size
	s.size++
	s.set(i, v)
	p := v.pos.Vec3()
	if i == 0 || !s.boxValid() {
		s.min, s.max = p, p
		return
	}
	for k := 0; k < 3; k++ {
		s.min[k] = min(s.min[k], p[k])
		s.max[k] = max(s.max[k], p[k])
	}
}

func (s *attribStore) set(i int, v *vertex) {
	copy(s.data[ChannelPosition][i*4:], v.pos[:])
	copy(s.data[ChannelColor][i*4:], v.col[:])
	copy(s.data[ChannelNormal][i*3:], v.nrm[:])
	copy(s.data[ChannelTexCoord][i*4:], v.tex[:])
	copy(s.data[ChannelBarycentric][i*3:], v.bary[:])
	for k := range MaxAttributes {
		if s.attrUsed[k] {
			copy(s.data[ChannelAttribute0+Channel(k)][i*4:], v.attr[k][:])
		}
	}
	s.modified = true
}

func (s *attribStore) at(i int) (v vertex) {
	copy(v.pos[:], s.data[ChannelPosition][i*4:])
	copy(v.col[:], s.data[ChannelColor][i*4:])
	copy(v.nrm[:], s.data[ChannelNormal][i*3:])
	copy(v.tex[:], s.data[ChannelTexCoord][i*4:])
	copy(v.bary[:], s.data[ChannelBarycentric][i*3:])
	for k := range MaxAttributes {
		if s.attrUsed[k] {
			copy(v.attr[k][:], s.data[ChannelAttribute0+Channel(k)][i*4:])
		}
	}
	return
}

// truncate drops every vertex from n on and recomputes the box.
func (s *attribStore) truncate(n int) {
	if n >= s.size {
		return
	}
	s.size = n
	s.modified = true
	s.min, s.max = nan3, nan3
	pos := s.data[ChannelPosition]
	for i := 0; i < n; i++ {
		p := mgl32.Vec3{pos[i*4], pos[i*4+1], pos[i*4+2]}
		if i == 0 {
			s.min, s.max = p, p
			continue
		}
		for k := 0; k < 3; k++ {
			s.min[k] = min(s.min[k], p[k])
			s.max[k] = max(s.max[k], p[k])
		}
	}
}

func (s *attribStore) reset() {
	s.size = 0
	s.min, s.max = nan3, nan3
	s.modified = true
}

// release frees all storage, keeping the attribute slots in use.
func (s *attribStore) release() {
	s.reset()
	s.realloc(0)
}

func (s *attribStore) boxValid() bool {
	return s.min[0] <= s.max[0] && s.min[1] <= s.max[1] && s.min[2] <= s.max[2]
}

// channel returns the live float slice of ch trimmed to size.
func (s *attribStore) channel(ch Channel) []float32 {
	if !s.allocated(ch) || s.data[ch] == nil {
		return nil
	}
	return s.data[ch][:s.size*ch.Components()]
}
