// Package proxy cycles through a fixed list of proxies.
package proxy

import "sync"

// Rotator hands out proxies round robin, serving each one repeat times in a row.
type Rotator struct {
	mu      sync.Mutex
	proxies []string
	repeat  int
	served  int
	index   int
}

// NewRotator creates a rotator. A repeat below 1 is treated as 1.
func NewRotator(proxies []string, repeat int) *Rotator {
	if repeat < 1 {
		repeat = 1
	}
	list := make([]string, 0, len(proxies))
	for _, p := range proxies {
		if p != "" {
			list = append(list, p)
		}
	}
	return &Rotator{
		proxies: list,
		repeat:  repeat,
	}
}

// Next returns the proxy for the next request, or "" when the list is empty.
func (r *Rotator) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.proxies) == 0 {
		return ""
	}

	if r.served >= r.repeat {
		r.served = 0
		r.index = (r.index + 1) % len(r.proxies)
	}
	r.served++

	return r.proxies[r.index]
}

// Len returns the number of proxies in rotation.
func (r *Rotator) Len() int {
	return len(r.proxies)
}
