// Package metrics 会话操作的计数与延迟统计
package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Operation 定义指标操作类型
type Operation string

const (
	OpStart    Operation = "start"
	OpDraw     Operation = "draw"
	OpComplete Operation = "complete"
	OpDelete   Operation = "delete"
	OpReload   Operation = "reload"
)

// LatencyStats 延迟统计
type LatencyStats struct {
	mu    sync.Mutex
	count int64
	total time.Duration
	min   time.Duration
	max   time.Duration
}

// record 记录延迟数据
func (s *LatencyStats) record(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++
	s.total += d

	// 更新最小值
	if s.min == 0 || d < s.min {
		s.min = d
	}

	// 更新最大值
	if d > s.max {
		s.max = d
	}
}

func (s *LatencyStats) snapshot() LatencySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := LatencySnapshot{
		Count: s.count,
		MinMS: s.min.Milliseconds(),
		MaxMS: s.max.Milliseconds(),
	}
	if s.count > 0 {
		snap.AvgMS = (s.total / time.Duration(s.count)).Milliseconds()
	}
	return snap
}

// counters 单个操作的统计
type counters struct {
	success atomic.Int64
	failure atomic.Int64
	latency LatencyStats
}

// OperationMetrics 性能指标收集器，nil 接收者上的调用为空操作
type OperationMetrics struct {
	ops sync.Map // map[Operation]*counters
}

// NewOperationMetrics 创建新的指标收集器
func NewOperationMetrics() *OperationMetrics {
	return &OperationMetrics{}
}

func (m *OperationMetrics) get(op Operation) *counters {
	if c, ok := m.ops.Load(op); ok {
		return c.(*counters)
	}
	c, _ := m.ops.LoadOrStore(op, &counters{})
	return c.(*counters)
}

// Observe 记录一次操作的结果和耗时
func (m *OperationMetrics) Observe(op Operation, d time.Duration, err error) {
	if m == nil {
		return
	}
	c := m.get(op)
	if err != nil {
		c.failure.Add(1)
	} else {
		c.success.Add(1)
	}
	c.latency.record(d)
}

// LatencySnapshot 延迟快照，单位毫秒
type LatencySnapshot struct {
	Count int64 `json:"count"`
	AvgMS int64 `json:"avg_ms"`
	MinMS int64 `json:"min_ms"`
	MaxMS int64 `json:"max_ms"`
}

// Snapshot 单个操作的统计快照
type Snapshot struct {
	Operation Operation       `json:"operation"`
	Success   int64           `json:"success"`
	Failure   int64           `json:"failure"`
	Latency   LatencySnapshot `json:"latency"`
}

// Snapshot 返回按操作名排序的统计快照
func (m *OperationMetrics) Snapshot() []Snapshot {
	if m == nil {
		return nil
	}
	var out []Snapshot
	m.ops.Range(func(key, value interface{}) bool {
		c := value.(*counters)
		out = append(out, Snapshot{
			Operation: key.(Operation),
			Success:   c.success.Load(),
			Failure:   c.failure.Load(),
			Latency:   c.latency.snapshot(),
		})
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Operation < out[j].Operation })
	return out
}
