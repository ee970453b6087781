package store

import (
	"context"
	"sync"

	"supplyflow/domain"
	"supplyflow/logging"
)

// Listener 动作监听器
//
// 在归约之后被调用，收到动作与归约后的新状态快照。监听器在派发
// 协程内串行执行，可以再派发动作，但不得长时间阻塞。
type Listener[T domain.IObject[int64]] func(action Action[T], state State[T])

// Config 存储配置
type Config struct {
	// QueueSize 动作队列长度，<=0 时使用默认 256
	QueueSize int

	Logger logging.Logger
}

// Store 动作队列与状态容器
//
// 动作经由有界队列进入单一派发协程：先归约（唯一写者），再按注册
// 顺序通知监听器。归约严格按派发顺序（FIFO）串行执行，状态转换
// 之间不存在竞争。
type Store[T domain.IObject[int64]] struct {
	logger logging.Logger
	queue  chan Action[T]
	done   chan struct{}

	mu        sync.RWMutex
	state     State[T]
	listeners []Listener[T]

	// 队列饱和时的溢出缓冲：后续动作排在缓冲尾部，由单一协程按序
	// 回灌队列，派发顺序（FIFO）在饱和时同样成立
	overflowMu sync.Mutex
	overflow   []Action[T]
	draining   bool

	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
}

// NewStore 创建存储
func NewStore[T domain.IObject[int64]](cfg Config) *Store[T] {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "store"))
	}

	return &Store[T]{
		logger: cfg.Logger,
		queue:  make(chan Action[T], cfg.QueueSize),
		done:   make(chan struct{}),
		state:  NewState[T](),
	}
}

// Start 启动派发协程
func (s *Store[T]) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.dispatchLoop(ctx)
	})
}

// Close 停止派发；队列中未处理的动作被丢弃
func (s *Store[T]) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	s.wg.Wait()
	return nil
}

// Dispatch 投递一个动作
//
// 队列未满时立即返回；队列饱和时动作进入溢出缓冲，由单一协程按
// 投递顺序回灌，FIFO 不因饱和而破坏。不阻塞调用方，监听器可以在
// 派发协程内安全地继续派发。存储关闭后的动作被静默丢弃。
func (s *Store[T]) Dispatch(action Action[T]) {
	select {
	case <-s.done:
		return
	default:
	}

	s.overflowMu.Lock()
	if s.draining || len(s.overflow) > 0 {
		// 缓冲尚未排空，新动作必须排在它后面
		s.overflow = append(s.overflow, action)
		s.overflowMu.Unlock()
		return
	}
	s.overflowMu.Unlock()

	select {
	case s.queue <- action:
	default:
		s.logger.Warn(context.Background(), "action queue saturated",
			logging.String("type", string(action.Type)))
		s.overflowMu.Lock()
		s.overflow = append(s.overflow, action)
		if !s.draining {
			s.draining = true
			go s.drainOverflow()
		}
		s.overflowMu.Unlock()
	}
}

// drainOverflow 按序把溢出缓冲回灌到队列
//
// 头部动作在成功入队前不出缓冲，保证直投路径观察到"缓冲非空"
// 而排到后面。
func (s *Store[T]) drainOverflow() {
	for {
		s.overflowMu.Lock()
		if len(s.overflow) == 0 {
			s.draining = false
			s.overflowMu.Unlock()
			return
		}
		action := s.overflow[0]
		s.overflowMu.Unlock()

		select {
		case <-s.done:
			s.overflowMu.Lock()
			s.draining = false
			s.overflow = nil
			s.overflowMu.Unlock()
			return
		case s.queue <- action:
		}

		s.overflowMu.Lock()
		s.overflow = s.overflow[1:]
		s.overflowMu.Unlock()
	}
}

// Subscribe 注册监听器
//
// 监听器按注册顺序收到每个已归约的动作。
func (s *Store[T]) Subscribe(listener Listener[T]) {
	s.mu.Lock()
	s.listeners = append(s.listeners, listener)
	s.mu.Unlock()
}

// State 返回当前状态快照
func (s *Store[T]) State() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store[T]) dispatchLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			return
		case action := <-s.queue:
			s.apply(ctx, action)
		}
	}
}

func (s *Store[T]) apply(ctx context.Context, action Action[T]) {
	s.mu.Lock()
	next := Reduce(s.state, action)
	s.state = next
	listeners := make([]Listener[T], len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	s.logger.Debug(ctx, "action applied",
		logging.String("type", string(action.Type)),
		logging.Uint64("version", next.Version))

	for _, listener := range listeners {
		s.notify(ctx, listener, action, next)
	}
}

func (s *Store[T]) notify(ctx context.Context, listener Listener[T], action Action[T], state State[T]) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "store listener panicked",
				logging.String("type", string(action.Type)),
				logging.Any("panic", r))
		}
	}()
	listener(action, state)
}
