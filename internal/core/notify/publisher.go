// Package notify 把已序列化的消息投递到预先配置好的下游 topic。
package notify

import "context"

// Publisher 投递到固定 topic；topic 在构造时确定
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
	Close() error
}

// Discard 丢弃所有消息（notify.driver=none）
type Discard struct{}

func (Discard) Publish(context.Context, []byte) error { return nil }
func (Discard) Close() error                          { return nil }
