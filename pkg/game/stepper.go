package game

import (
	"fmt"
	"log"
	"math"
)

// FixedStepper 固定时间步累加器
//
// 每个显示帧把真实经过的时间累加进 lag，然后以固定步长执行零次或多次逻辑，
// 剩余不足一步的时间留到下一帧。显示刷新率的快慢不会改变模拟速度，
// 逻辑函数收到的 dt 永远等于配置的步长。
type FixedStepper struct {
	step     float64
	maxSteps int
	lag      float64

	// 统计信息
	totalSteps   int
	droppedTime  float64
	lastFrameRun int
}

// NewFixedStepper 创建累加器
//
// 参数:
//   - step: 逻辑步长（秒），必须为正
//   - maxSteps: 单帧最多执行的步数，超出后丢弃多余的累积时间，防止卡顿后追帧雪崩
func NewFixedStepper(step float64, maxSteps int) (*FixedStepper, error) {
	if step <= 0 {
		return nil, fmt.Errorf("fixed step must be positive, got %v", step)
	}
	if maxSteps < 1 {
		return nil, fmt.Errorf("max steps per frame must be at least 1, got %d", maxSteps)
	}
	return &FixedStepper{step: step, maxSteps: maxSteps}, nil
}

// Step 返回固定步长
func (s *FixedStepper) Step() float64 {
	return s.step
}

// Advance 累加一帧的真实时间并执行到期的逻辑步
//
// 返回本帧执行的步数；logic 返回错误时立即停止并返回该错误，
// 已执行步消耗的时间仍然从累加器中扣除。
func (s *FixedStepper) Advance(frameDelta float64, logic func(dt float64) error) (int, error) {
	if frameDelta > 0 {
		s.lag += frameDelta
	}

	steps := 0
	for s.lag >= s.step {
		if steps == s.maxSteps {
			// 只保留不足一步的余量
			remainder := math.Mod(s.lag, s.step)
			dropped := s.lag - remainder
			s.droppedTime += dropped
			s.lag = remainder
			log.Printf("[FixedStepper] 单帧逻辑步数达到上限 %d，丢弃 %.4fs 累积时间", s.maxSteps, dropped)
			break
		}

		s.lag -= s.step
		steps++
		s.totalSteps++
		if err := logic(s.step); err != nil {
			s.lastFrameRun = steps
			return steps, err
		}
	}

	s.lastFrameRun = steps
	return steps, nil
}

// Lag 返回累加器中尚未消耗的时间（秒）
func (s *FixedStepper) Lag() float64 {
	return s.lag
}

// Alpha 返回剩余时间占一步的比例，可用于渲染插值
func (s *FixedStepper) Alpha() float64 {
	return s.lag / s.step
}

// TotalSteps 返回累计执行的逻辑步数
func (s *FixedStepper) TotalSteps() int {
	return s.totalSteps
}

// DroppedTime 返回因单帧步数上限而丢弃的累计时间
func (s *FixedStepper) DroppedTime() float64 {
	return s.droppedTime
}

// LastFrameSteps 返回最近一帧执行的步数
func (s *FixedStepper) LastFrameSteps() int {
	return s.lastFrameRun
}
