// Package draw 从卡牌目录中随机抽取一张牌
package draw

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"tarot-trader/app/models/card"
)

// DefaultReversalProbability 默认逆位概率
const DefaultReversalProbability = 0.30

// ErrEmptyCatalog 没有可抽的牌
var ErrEmptyCatalog = errors.New("draw: empty catalog")

// Result 一次抽牌的结果
type Result struct {
	Card     card.Card
	Reversed bool
}

// Engine 抽牌引擎。随机源可注入，给定种子时结果确定
type Engine struct {
	rng                 *rand.Rand
	reversalProbability float64
	mu                  sync.Mutex // *rand.Rand 不是并发安全的
}

// NewEngine 创建抽牌引擎。rng 为 nil 时使用以当前时间为种子的随机源；
// reversalProbability 会被截断到 [0, 1]
func NewEngine(rng *rand.Rand, reversalProbability float64) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	switch {
	case reversalProbability < 0:
		reversalProbability = 0
	case reversalProbability > 1:
		reversalProbability = 1
	}
	return &Engine{
		rng:                 rng,
		reversalProbability: reversalProbability,
	}
}

// ReversalProbability 返回当前逆位概率
func (e *Engine) ReversalProbability() float64 {
	return e.reversalProbability
}

// DrawOne 均匀随机选一张牌，并独立地按逆位概率决定正逆位
func (e *Engine) DrawOne(cards []card.Card) (Result, error) {
	if len(cards) == 0 {
		return Result{}, ErrEmptyCatalog
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	picked := cards[e.rng.Intn(len(cards))]
	reversed := e.rng.Float64() < e.reversalProbability

	return Result{Card: picked, Reversed: reversed}, nil
}
