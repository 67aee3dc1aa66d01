package render

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultPoolCapacity bounds each item-type bucket of the recycle pool.
const DefaultPoolCapacity = 32

// Pool holds surplus visual elements not currently bound to an index,
// bucketed by item type.
//
// Each bucket is capped: putting an element into a full bucket destroys
// the element instead of keeping it, so pooled memory stays bounded and
// nothing leaks silently. An element is either bound to exactly one index
// or sits unbound in exactly one bucket, never both; the recycler enforces
// the bound side of that invariant.
type Pool struct {
	mu       sync.Mutex
	capacity int
	buckets  map[string]*lru.Cache[uint64, Element]
	seq      uint64
}

// NewPool returns a pool whose buckets hold at most capacity elements.
func NewPool(capacity int) *Pool {
	if capacity <= 0 {
		capacity = DefaultPoolCapacity
	}
	return &Pool{
		capacity: capacity,
		buckets:  make(map[string]*lru.Cache[uint64, Element]),
	}
}

// Get removes and returns an element from the bucket, if any.
func (p *Pool) Get(itemType string) (Element, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	bucket, ok := p.buckets[itemType]
	if !ok {
		return nil, false
	}
	_, el, ok := bucket.RemoveOldest()
	return el, ok
}

// Put returns an element to the bucket. Elements beyond the bucket's
// capacity are destroyed.
func (p *Pool) Put(itemType string, el Element) {
	if el == nil {
		return
	}
	p.mu.Lock()
	bucket, ok := p.buckets[itemType]
	if !ok {
		// Capacity is validated in NewPool, the constructor cannot fail.
		bucket, _ = lru.New[uint64, Element](p.capacity)
		p.buckets[itemType] = bucket
	}
	if bucket.Len() >= p.capacity {
		p.mu.Unlock()
		el.Destroy()
		return
	}
	p.seq++
	bucket.Add(p.seq, el)
	p.mu.Unlock()
}

// Size returns the number of pooled elements across all buckets.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := 0
	for _, bucket := range p.buckets {
		total += bucket.Len()
	}
	return total
}

// Drain destroys every pooled element.
func (p *Pool) Drain() {
	p.mu.Lock()
	buckets := p.buckets
	p.buckets = make(map[string]*lru.Cache[uint64, Element])
	p.mu.Unlock()
	for _, bucket := range buckets {
		for {
			_, el, ok := bucket.RemoveOldest()
			if !ok {
				break
			}
			el.Destroy()
		}
	}
}
