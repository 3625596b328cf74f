package routing

import (
	"container/heap"
	"time"
)

type frontierItem struct {
	node     int
	cost     time.Duration
	priority time.Duration
	seq      uint64
}

// frontier is a min-heap on (priority, seq). seq grows with every push, so
// among equal priorities the earliest discovered entry is popped first.
type frontier struct {
	items []frontierItem
	next  uint64
}

func (f *frontier) Len() int { return len(f.items) }

func (f *frontier) Less(i, j int) bool {
	if f.items[i].priority != f.items[j].priority {
		return f.items[i].priority < f.items[j].priority
	}
	return f.items[i].seq < f.items[j].seq
}

func (f *frontier) Swap(i, j int) { f.items[i], f.items[j] = f.items[j], f.items[i] }

func (f *frontier) Push(x any) { f.items = append(f.items, x.(frontierItem)) }

func (f *frontier) Pop() any {
	old := f.items
	n := len(old)
	item := old[n-1]
	f.items = old[:n-1]
	return item
}

func (f *frontier) push(node int, cost, priority time.Duration) {
	heap.Push(f, frontierItem{node: node, cost: cost, priority: priority, seq: f.next})
	f.next++
}

func (f *frontier) pop() frontierItem {
	return heap.Pop(f).(frontierItem)
}
