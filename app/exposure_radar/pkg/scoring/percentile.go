package scoring

import (
	"math/rand"
	"sync"
	"time"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/model"
)

// PercentileEstimator 生成合成的风险百分位
//
// 结果是演示用的近似值，不是基于真实人群分布计算的百分位。
type PercentileEstimator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewPercentileEstimator 使用给定随机源，rnd 为 nil 时按当前时间播种
func NewPercentileEstimator(rnd *rand.Rand) *PercentileEstimator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &PercentileEstimator{rnd: rnd}
}

// PercentileRange 评分对应的抽样区间 (闭区间)
func PercentileRange(score int) (lo, hi int) {
	switch {
	case score > 70:
		return 70, 99
	case score < 30:
		return 10, 60
	default:
		return 50, 95
	}
}

// Percentile 在区间内均匀抽样
func (p *PercentileEstimator) Percentile(score int) int {
	lo, hi := PercentileRange(score)
	p.mu.Lock()
	defer p.mu.Unlock()
	return lo + p.rnd.Intn(hi-lo+1)
}

// Trend 合成两个更早的数据点，仅用于展示连续性
func Trend(score int) model.TrendSnapshot {
	return model.TrendSnapshot{
		ThirtyDaysAgo:   max(score-20, 0),
		FourteenDaysAgo: max(score-10, 0),
		Current:         score,
	}
}
