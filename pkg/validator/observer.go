package validator

import (
	"time"

	"tpm-common-validation/pkg/validator/schema"
)

// Observer 校验结果观察者，用于指标采集等旁路处理
// Observe 在每次校验完成后同步调用，实现需要并发安全且不应阻塞
type Observer interface {
	Observe(entity string, result schema.Result, elapsed time.Duration)
}

// ObserverFunc 函数形式的 Observer
type ObserverFunc func(entity string, result schema.Result, elapsed time.Duration)

// Observe 实现 Observer 接口
func (f ObserverFunc) Observe(entity string, result schema.Result, elapsed time.Duration) {
	f(entity, result, elapsed)
}

// NopObserver 不做任何处理的 Observer
type NopObserver struct{}

// Observe 实现 Observer 接口
func (NopObserver) Observe(string, schema.Result, time.Duration) {}

// multiObserver 依次通知多个 Observer
type multiObserver []Observer

func (m multiObserver) Observe(entity string, result schema.Result, elapsed time.Duration) {
	for _, o := range m {
		o.Observe(entity, result, elapsed)
	}
}
