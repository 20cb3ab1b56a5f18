// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"math/bits"
)

// QueueGroupID identifies a render queue group. Groups render in ascending
// order; geometry in lower groups is drawn first.
type QueueGroupID uint8

// Render queue groups.
const (
	QueueBackground     QueueGroupID = 0
	QueueSkiesEarly     QueueGroupID = 5
	Queue1              QueueGroupID = 10
	Queue2              QueueGroupID = 15
	QueueWorldGeometry1 QueueGroupID = 25
	Queue3              QueueGroupID = 30
	Queue4              QueueGroupID = 35
	QueueMain           QueueGroupID = 50
	Queue6              QueueGroupID = 60
	Queue7              QueueGroupID = 70
	QueueWorldGeometry2 QueueGroupID = 75
	Queue8              QueueGroupID = 80
	Queue9              QueueGroupID = 90
	QueueSkiesLate      QueueGroupID = 95
	QueueOverlay        QueueGroupID = 100
	QueueMax            QueueGroupID = 105
)

// QueueGroupCount is the number of distinct queue group values.
const QueueGroupCount = int(QueueMax) + 1

var queueNames = map[QueueGroupID]string{
	QueueBackground:     "Background",
	QueueSkiesEarly:     "SkiesEarly",
	Queue1:              "Queue1",
	Queue2:              "Queue2",
	QueueWorldGeometry1: "WorldGeometry1",
	Queue3:              "Queue3",
	Queue4:              "Queue4",
	QueueMain:           "Main",
	Queue6:              "Queue6",
	Queue7:              "Queue7",
	QueueWorldGeometry2: "WorldGeometry2",
	Queue8:              "Queue8",
	Queue9:              "Queue9",
	QueueSkiesLate:      "SkiesLate",
	QueueOverlay:        "Overlay",
	QueueMax:            "Max",
}

// String returns the group name, or its number for unnamed groups.
func (id QueueGroupID) String() string {
	if name, ok := queueNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Queue(%d)", uint8(id))
}

// QueueSet is a bit set with one bit per queue group value.
// The zero value is an empty set.
type QueueSet struct {
	words [(QueueGroupCount + 63) / 64]uint64
}

// Add includes id in the set.
func (s *QueueSet) Add(id QueueGroupID) {
	if int(id) >= QueueGroupCount {
		return
	}
	s.words[id/64] |= 1 << (id % 64)
}

// AddRange includes every group in the half-open range [first, last).
func (s *QueueSet) AddRange(first, last QueueGroupID) {
	for id := int(first); id < int(last) && id < QueueGroupCount; id++ {
		s.words[id/64] |= 1 << (uint(id) % 64)
	}
}

// Contains reports whether id is in the set.
func (s *QueueSet) Contains(id QueueGroupID) bool {
	if int(id) >= QueueGroupCount {
		return false
	}
	return s.words[id/64]&(1<<(id%64)) != 0
}

// Len returns the number of groups in the set.
func (s *QueueSet) Len() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Clear empties the set.
func (s *QueueSet) Clear() {
	*s = QueueSet{}
}

// FrameBufferType selects the buffers a clear affects.
type FrameBufferType uint8

// Frame buffer bits.
const (
	FrameBufferColor   FrameBufferType = 1 << 0
	FrameBufferDepth   FrameBufferType = 1 << 1
	FrameBufferStencil FrameBufferType = 1 << 2
)

// FrameBufferAll selects every buffer.
const FrameBufferAll = FrameBufferColor | FrameBufferDepth | FrameBufferStencil

// Has reports whether every bit in b is set.
func (t FrameBufferType) Has(b FrameBufferType) bool {
	return t&b == b
}
