package pipeline

// RunStats tracks aggregate counters and byte totals across a batch run.
type RunStats struct {
	Collections      int
	Archives         int
	ArtifactsRemoved int
	FilesCompressed  int
	TotalInputBytes  int64 // Data files before compression.
	TotalOutputBytes int64 // The same files after compression.
}

// SpaceSaved returns the aggregate byte difference between inputs and outputs.
// Positive means outputs are smaller; negative means they grew.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}
