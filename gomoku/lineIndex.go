package gomoku

// LineRecord is one tracked line of two or more same-colored stones.
type LineRecord struct {
	From      StoneID
	To        StoneID
	Length    int
	Direction Direction
}

// LineIndex tracks contiguous lines incrementally. Each line terminal links to
// the opposite terminal per direction, so a new stone only inspects its direct
// neighbours instead of rescanning the board.
type LineIndex struct {
	board   *Board
	records []LineRecord
}

// NewLineIndex returns an index over b. Stones must be handed to Incorporate in
// placement order.
func NewLineIndex(b *Board) *LineIndex {
	return &LineIndex{board: b}
}

// Incorporate links the freshly placed stone into the lines of all four directions.
func (ix *LineIndex) Incorporate(id StoneID) {
	for _, dir := range Directions {
		ix.trace(id, dir)
	}
}

func (ix *LineIndex) trace(mid StoneID, dir Direction) {
	s := ix.board.stone(mid)
	dx, dy := dir.offset()

	one := ix.joinable(s.Pos.X-dx, s.Pos.Y-dy, s.Color)
	two := ix.joinable(s.Pos.X+dx, s.Pos.Y+dy, s.Color)

	switch {
	case one != noStone && two != noStone:
		ix.doubleConnection(one, two, dir)
	case one != noStone:
		ix.singleConnection(mid, one, dir)
	case two != noStone:
		ix.singleConnection(mid, two, dir)
	}
}

func (ix *LineIndex) joinable(x, y int, color Color) StoneID {
	id := ix.board.neighbour(x, y)
	if id == noStone || ix.board.stone(id).Color != color {
		return noStone
	}
	return id
}

// singleConnection appends mid to the line ending in other.
func (ix *LineIndex) singleConnection(mid, other StoneID, dir Direction) {
	m := &ix.board.stone(mid).ends[dir]
	o := &ix.board.stone(other).ends[dir]

	far := other
	if o.link != noStone {
		// other stops being a terminal, mid takes its place
		far = o.link
		o.link = noStone
	}
	f := &ix.board.stone(far).ends[dir]

	m.link = far
	f.link = mid
	total := m.length + f.length
	m.length = total
	f.length = total

	ix.updateRecord(far, mid, total, dir)
}

// doubleConnection joins the lines ending in one and two through the stone
// placed between them.
func (ix *LineIndex) doubleConnection(one, two StoneID, dir Direction) {
	a := &ix.board.stone(one).ends[dir]
	b := &ix.board.stone(two).ends[dir]

	left := one
	if a.link != noStone {
		left = a.link
	}
	right := two
	if b.link != noStone {
		right = b.link
	}
	a.link = noStone
	b.link = noStone

	l := &ix.board.stone(left).ends[dir]
	r := &ix.board.stone(right).ends[dir]
	total := l.length + r.length + 1
	l.link, l.length = right, total
	r.link, r.length = left, total

	ix.mergeRecords(left, right, total, dir)
}

// updateRecord rewrites the record that ends in from so it ends in to instead.
// A line without a record yet is appended.
func (ix *LineIndex) updateRecord(from, to StoneID, length int, dir Direction) {
	for i := range ix.records {
		rec := &ix.records[i]
		if rec.Direction != dir {
			continue
		}
		switch from {
		case rec.From:
			rec.To = to
			rec.Length = length
			return
		case rec.To:
			rec.From = to
			rec.Length = length
			return
		}
	}
	ix.records = append(ix.records, LineRecord{From: from, To: to, Length: length, Direction: dir})
}

// mergeRecords replaces the records of both joined lines by a single one.
func (ix *LineIndex) mergeRecords(left, right StoneID, length int, dir Direction) {
	kept := ix.records[:0]
	for _, rec := range ix.records {
		if rec.Direction == dir && (rec.touches(left) || rec.touches(right)) {
			continue
		}
		kept = append(kept, rec)
	}
	ix.records = append(kept, LineRecord{From: left, To: right, Length: length, Direction: dir})
}

func (r LineRecord) touches(id StoneID) bool {
	return r.From == id || r.To == id
}

func (ix *LineIndex) color(r LineRecord) Color {
	return ix.board.stone(r.From).Color
}

// Win reports whether a line of exactly WinLength stones of color exists.
// Overlines do not count.
func (ix *LineIndex) Win(color Color) bool {
	for _, rec := range ix.records {
		if rec.Length == WinLength && ix.color(rec) == color {
			return true
		}
	}
	return false
}

// Longest returns the longest tracked line of color, 0 if there is none.
// Lone stones are not tracked and never count.
func (ix *LineIndex) Longest(color Color) int {
	longest := 0
	for _, rec := range ix.records {
		if rec.Length > longest && ix.color(rec) == color {
			longest = rec.Length
		}
	}
	return longest
}

// Records returns a copy of the tracked lines.
func (ix *LineIndex) Records() []LineRecord {
	out := make([]LineRecord, len(ix.records))
	copy(out, ix.records)
	return out
}
