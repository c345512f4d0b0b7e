// Package notify は画面上部に1件だけ表示される通知バナーのチャネルを提供する。
package notify

import (
	"sync"
	"time"
)

// Level は通知の重要度。
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Message は表示中の通知。
type Message struct {
	Text  string
	Level Level
	At    time.Time
}

// Notifier は通知を表示する側のインターフェース。ミューテーションから利用する。
type Notifier interface {
	Show(text string, level Level)
}

// Channel は最新の1件だけを保持する通知チャネル。
// 新しい通知は前の通知を上書きする。
type Channel struct {
	mu          sync.Mutex
	current     *Message
	subscribers map[int]chan Message
	nextID      int
	now         func() time.Time
}

// NewChannel は空の通知チャネルを生成する。
func NewChannel() *Channel {
	return &Channel{
		subscribers: make(map[int]chan Message),
		now:         time.Now,
	}
}

// Show は通知を表示する。表示中の通知は置き換えられる。
func (c *Channel) Show(text string, level Level) {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg := Message{Text: text, Level: level, At: c.now()}
	c.current = &msg
	for _, ch := range c.subscribers {
		// 受信側が追いついていなければ古い通知を捨てて最新だけを残す
		select {
		case <-ch:
		default:
		}
		ch <- msg
	}
}

// Clear は表示中の通知を消す。
func (c *Channel) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
}

// Current は表示中の通知を返す。
func (c *Channel) Current() (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Message{}, false
	}
	return *c.current, true
}

// Subscribe は通知を受け取るチャネルと購読解除関数を返す。
// チャネルのバッファは1件で、未受信の通知は最新のもので上書きされる。
func (c *Channel) Subscribe() (<-chan Message, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	ch := make(chan Message, 1)
	c.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subscribers, id)
			close(ch)
		})
	}
}
