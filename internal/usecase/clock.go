package usecase

import "time"

// 現在時刻（テストで固定できるように注入）
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
