package dashboard

import (
	"sync"
	"time"
)

// NoticeKind styles a transient notice.
type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeSuccess NoticeKind = "success"
	NoticeWarning NoticeKind = "warning"
	NoticeAlert   NoticeKind = "alert"
)

// Notice is a short-lived message shown on the page.
type Notice struct {
	Kind NoticeKind
	Text string
	At   time.Time
}

// noticeBoard keeps the most recent notices in a fixed ring.
type noticeBoard struct {
	mu    sync.Mutex
	items []Notice
	size  int
}

func newNoticeBoard(size int) *noticeBoard {
	return &noticeBoard{size: size}
}

func (b *noticeBoard) post(n Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, n)
	if len(b.items) > b.size {
		b.items = b.items[len(b.items)-b.size:]
	}
}

func (b *noticeBoard) since(cutoff time.Time) []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Notice
	for i := len(b.items) - 1; i >= 0; i-- {
		if b.items[i].At.Before(cutoff) {
			break
		}
		out = append(out, b.items[i])
	}
	return out
}
