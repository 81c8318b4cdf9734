package service

import (
	"sync"
	"time"
)

// Debouncer откладывает вызов по ключу: повторный Do до истечения delay
// заменяет функцию и перезапускает таймер, выполняется только последняя.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*pendingCall
	stopped bool
	running sync.WaitGroup
}

type pendingCall struct {
	timer *time.Timer
	fn    func()
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		pending: make(map[string]*pendingCall),
	}
}

func (d *Debouncer) Do(key string, fn func()) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		fn()
		return
	}

	if prev, ok := d.pending[key]; ok {
		prev.timer.Stop()
	}
	call := &pendingCall{fn: fn}
	call.timer = time.AfterFunc(d.delay, func() { d.fire(key, call) })
	d.pending[key] = call
	d.mu.Unlock()
}

func (d *Debouncer) fire(key string, call *pendingCall) {
	d.mu.Lock()
	if d.pending[key] != call {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	call.fn()
}

// Pending - количество ключей с отложенным вызовом
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Stop выполняет все отложенные вызовы сразу и ждет уже начатые.
// После Stop вызовы Do выполняются синхронно.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	pending := d.pending
	d.pending = make(map[string]*pendingCall)
	d.mu.Unlock()

	for _, call := range pending {
		call.timer.Stop()
		call.fn()
	}
	d.running.Wait()
}
