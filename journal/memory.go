package journal

// MemoryJournal keeps everything in slices. Used by tests and as the
// fallback when no persistent journal is configured.
type MemoryJournal struct {
	Fills []Fill
	Pnl   []PnlRecord
}

func NewMemory() *MemoryJournal {
	return &MemoryJournal{}
}

func (j *MemoryJournal) RecordFill(f Fill) error {
	j.Fills = append(j.Fills, f)
	return nil
}

func (j *MemoryJournal) RecordPnl(r PnlRecord) error {
	j.Pnl = append(j.Pnl, r)
	return nil
}

func (j *MemoryJournal) Close() error { return nil }
