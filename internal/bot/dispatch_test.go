package bot

import (
	"sync"
	"testing"
)

// Events for one chat must run in submission order even though chats are
// drained by independent goroutines.
func TestDispatcherPerChatOrdering(t *testing.T) {
	d := newDispatcher()

	const perChat = 200
	chats := []int64{1, 2, 3, 4, 5}

	var mu sync.Mutex
	got := map[int64][]int{}

	for i := 0; i < perChat; i++ {
		i := i
		for _, chat := range chats {
			chat := chat
			d.submit(chat, func() {
				mu.Lock()
				got[chat] = append(got[chat], i)
				mu.Unlock()
			})
		}
	}
	d.wait()

	for _, chat := range chats {
		seq := got[chat]
		if len(seq) != perChat {
			t.Fatalf("chat %d: ran %d of %d handlers", chat, len(seq), perChat)
		}
		for i, v := range seq {
			if v != i {
				t.Fatalf("chat %d: position %d ran event %d", chat, i, v)
			}
		}
	}
}

func TestDispatcherConcurrentSubmitters(t *testing.T) {
	d := newDispatcher()

	var mu sync.Mutex
	count := map[int64]int{}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		chat := int64(g)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				d.submit(chat, func() {
					mu.Lock()
					count[chat]++
					mu.Unlock()
				})
			}
		}()
	}
	wg.Wait()
	d.wait()

	for chat, n := range count {
		if n != 100 {
			t.Fatalf("chat %d: %d handlers ran, want 100", chat, n)
		}
	}
	if len(count) != 8 {
		t.Fatalf("%d chats ran, want 8", len(count))
	}
}
