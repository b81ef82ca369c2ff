// Package tarot 塔罗牌阅读会话：抽牌、完成、删除与从存储重新加载
package tarot

import (
	"errors"
	"fmt"

	"tarot-trader/app/repositories"
)

var (
	// ErrStoreUnavailable 无法读取存储，本地状态保持不变
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrPersistence 写入失败，本地状态保持不变
	ErrPersistence = errors.New("persistence failed")
	// ErrNoActiveReading 没有进行中的阅读
	ErrNoActiveReading = errors.New("no active reading")
	// ErrNoCardsAvailable 目录中已没有可抽的牌
	ErrNoCardsAvailable = errors.New("no cards available")
	// ErrNotFound 记录不存在或不属于当前用户
	ErrNotFound = errors.New("reading not found")
	// ErrMalformedRecord 单条记录的 cards_drawn 无法解析
	ErrMalformedRecord = errors.New("malformed reading record")
	// ErrTimeout 存储调用超时
	ErrTimeout = errors.New("store call timed out")
	// ErrPositionOccupied 位置上已经有牌
	ErrPositionOccupied = errors.New("position already drawn")
	// ErrInvalidPosition 位置不在牌阵中
	ErrInvalidPosition = errors.New("invalid position")
	// ErrSpreadFull 牌阵已满
	ErrSpreadFull = errors.New("spread is full")
	// ErrSessionClosed 会话已关闭，结果被丢弃
	ErrSessionClosed = errors.New("session closed")
)

// writeError 将写操作的存储错误归类
func writeError(op string, err error) error {
	switch {
	case errors.Is(err, ErrTimeout):
		return err
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, op, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
	}
}

// readError 将读操作的存储错误归类
func readError(op string, err error) error {
	if errors.Is(err, ErrTimeout) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
