package room

// History keeps the most recent timeline events of a room. The caller passes
// the limit on every push so a changed limit only takes effect on the next
// ingestion.
type History struct {
	records []Record
}

func NewHistory(limit int) *History {
	if limit < 0 {
		limit = 0
	}

	return &History{
		records: make([]Record, 0, limit),
	}
}

// Push appends rec and drops records from the head until at most limit
// remain. The dropped records are returned oldest first.
func (h *History) Push(rec Record, limit int) []Record {
	if limit < 0 {
		limit = 0
	}

	h.records = append(h.records, rec)

	var evicted []Record

	for len(h.records) > limit {
		evicted = append(evicted, h.records[0])
		h.records[0] = Record{}
		h.records = h.records[1:]
	}

	return evicted
}

func (h *History) Len() int {
	return len(h.records)
}

func (h *History) Events() []Record {
	return append([]Record(nil), h.records...)
}
