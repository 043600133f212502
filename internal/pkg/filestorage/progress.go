package filestorage

import (
	"io"
	"sync"
)

// ProgressFunc receives percent-complete values.
type ProgressFunc func(percent int)

// ProgressReader reports how much of a stream of known size has been read.
// Values are non-decreasing, start at 0 and stop at 99 until Done reports
// 100, so callers see 100 only once the whole operation has finished.
type ProgressReader struct {
	r     io.Reader
	total int64
	read  int64
	fn    ProgressFunc

	mu   sync.Mutex
	last int
}

// NewProgressReader wraps r and reports 0 immediately.
func NewProgressReader(r io.Reader, total int64, fn ProgressFunc) *ProgressReader {
	p := &ProgressReader{r: r, total: total, fn: fn, last: -1}
	p.report(0)
	return p
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		if p.total > 0 {
			pct := int(p.read * 100 / p.total)
			if pct > 99 {
				pct = 99
			}
			p.report(pct)
		}
	}
	return n, err
}

// Done reports 100.
func (p *ProgressReader) Done() {
	p.report(100)
}

// BytesRead is the number of bytes consumed so far.
func (p *ProgressReader) BytesRead() int64 {
	return p.read
}

func (p *ProgressReader) report(pct int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pct <= p.last {
		return
	}
	p.last = pct
	if p.fn != nil {
		p.fn(pct)
	}
}
