package stepper

// ExpandFunc concatenates the successor batches emitted by each input row
// into the next queue. The strategy is injected at stepper construction;
// both provided implementations produce identical ordering, so swapping
// them never changes observable outputs.
type ExpandFunc func(batches [][]Row) []Row

// ExpandConcat builds the next queue by successive sequence concatenation,
// producing a fresh sequence per batch.
func ExpandConcat(batches [][]Row) []Row {
	res := []Row{}
	for _, batch := range batches {
		// Full-slice expression forces a copy per concatenation step.
		res = append(res[:len(res):len(res)], batch...)
	}
	return res
}

// ExpandAccumulate sizes the next queue up front, fills it, and returns the
// frozen result. This is the default strategy.
func ExpandAccumulate(batches [][]Row) []Row {
	total := 0
	for _, batch := range batches {
		total += len(batch)
	}
	res := make([]Row, 0, total)
	for _, batch := range batches {
		res = append(res, batch...)
	}
	return res
}
