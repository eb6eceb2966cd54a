package parallel

// Rows splits the half-open row range [y0, y1) into bands of at least
// minBand rows, one per worker at most, and runs fn on each band through
// the pool. A nil pool or a range shorter than two bands runs fn once on
// the calling goroutine.
func Rows(p *WorkerPool, y0, y1, minBand int, fn func(y0, y1 int)) {
	n := y1 - y0
	if n <= 0 {
		return
	}
	minBand = max(minBand, 1)
	if p == nil || n < 2*minBand {
		fn(y0, y1)
		return
	}
	bands := min(p.Workers(), n/minBand)
	step := (n + bands - 1) / bands
	work := make([]func(), 0, bands)
	for lo := y0; lo < y1; lo += step {
		hi := min(lo+step, y1)
		work = append(work, func() { fn(lo, hi) })
	}
	p.ExecuteAll(work)
}
