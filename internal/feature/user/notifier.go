package user

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"user-service/internal/core/logger"
	"user-service/internal/core/metrics"
	"user-service/internal/core/notify"
	"user-service/internal/domain"
)

// TopicNotifier 序列化同步完成，投递在后台执行；投递失败只记日志，不回传调用方
type TopicNotifier struct {
	pub     notify.Publisher
	log     *zap.Logger
	timeout time.Duration
	sem     *semaphore.Weighted
	wg      sync.WaitGroup
	marshal func(any) ([]byte, error)
}

func NewTopicNotifier(pub notify.Publisher, l *zap.Logger, timeout time.Duration, maxInFlight int64) *TopicNotifier {
	if maxInFlight <= 0 {
		maxInFlight = 1
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &TopicNotifier{
		pub:     pub,
		log:     l,
		timeout: timeout,
		sem:     semaphore.NewWeighted(maxInFlight),
		marshal: json.Marshal,
	}
}

func (n *TopicNotifier) Publish(ctx context.Context, v domain.UserView) error {
	v.Password = ""
	body, err := n.marshal(v)
	if err != nil {
		return domain.Serialization(err)
	}

	l := logger.FromContext(ctx, n.log).With(zap.String("nickname", v.Nickname))
	l.Info("user was updated, notifying topic")

	if !n.sem.TryAcquire(1) {
		metrics.NotifyEvents.WithLabelValues("dropped").Inc()
		l.Warn("notify queue full, event dropped")
		return nil
	}
	n.wg.Add(1)
	// 脱离请求的取消，但保留请求级 logger 等值
	bg := context.WithoutCancel(ctx)
	go func() {
		defer n.wg.Done()
		defer n.sem.Release(1)

		pctx, cancel := context.WithTimeout(bg, n.timeout)
		defer cancel()
		if err := n.pub.Publish(pctx, body); err != nil {
			metrics.NotifyEvents.WithLabelValues("failed").Inc()
			l.Error("notify publish failed", zap.Error(err))
			return
		}
		metrics.NotifyEvents.WithLabelValues("published").Inc()
	}()
	return nil
}

// Close 等待在途投递完成或 ctx 结束
func (n *TopicNotifier) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
