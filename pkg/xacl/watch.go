package xacl

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchCallback 策略文件变更回调函数。
// 重载成功时 acl 为新编译的 ACL；重载失败时 acl 为 nil，err 说明原因，
// 调用方应继续使用手里的旧 ACL（编译后的 ACL 不可变，天然支持这种交接）。
type WatchCallback func(acl *ACL, err error)

// Watcher 策略文件监视器：监控策略文件变更并自动重新编译。
type Watcher struct {
	path     string
	opts     []Option
	watcher  *fsnotify.Watcher
	callback WatchCallback
	debounce time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	running  bool
	timer    *time.Timer    // debounce 定时器，Stop() 时需要取消
	reloads  sync.WaitGroup // 在途重载，Stop() 返回前等待其完成
}

// WatchOption 监视器配置选项。
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce time.Duration
}

func defaultWatchOptions() *watchOptions {
	return &watchOptions{
		debounce: 100 * time.Millisecond,
	}
}

// WithDebounce 设置防抖时间。
// 指定时间内的多次变更只触发一次重载，默认 100ms。
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		o.debounce = d
	}
}

// Watch 创建策略文件监视器。
// 文件变更时经防抖后重新 [Load] 并调用 callback 交付新 ACL。
// opts 是重载时传给 Load 的编译选项（与首次加载保持一致）。
// 返回的 Watcher 需调用 Start()/StartAsync() 开始监视，Stop() 停止。
func Watch(path string, callback WatchCallback, opts []Option, wopts ...WatchOption) (*Watcher, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if _, err := detectFormat(path); err != nil {
		return nil, err
	}

	wo := defaultWatchOptions()
	for _, opt := range wopts {
		opt(wo)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xacl: failed to create watcher: %w", err)
	}

	// 监视策略文件所在目录而非文件本身：
	// 编辑器保存时可能先删除再创建，直接监视文件会丢失事件。
	dir := filepath.Dir(path)
	if err := fsWatcher.Add(dir); err != nil {
		closeErr := fsWatcher.Close()
		return nil, errors.Join(
			fmt.Errorf("xacl: failed to watch directory %s: %w", dir, err),
			closeErr,
		)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		path:     path,
		opts:     opts,
		watcher:  fsWatcher,
		callback: callback,
		debounce: wo.debounce,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start 启动监视。此方法会阻塞，通常应在 goroutine 中调用。
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.run()
}

// StartAsync 异步启动监视，在后台 goroutine 中运行，立即返回。
// 先设置 running 标志再启动 goroutine，避免与 Stop() 的竞态。
func (w *Watcher) StartAsync() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.run()
}

// Stop 停止监视，是回调的硬屏障：返回后不会再有回调被调用。
// 因此不能在 WatchCallback 内部调用 Stop，否则会死锁。
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}

	// 先取消 context 再停定时器：已触发但尚未通过取消检查的
	// 重载会在锁内看到取消信号并放弃。
	w.cancel()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.running = false
	err := w.watcher.Close()
	w.mu.Unlock()

	// 等待在途重载完成
	w.reloads.Wait()
	return err
}

// run 运行监视循环。
func (w *Watcher) run() {
	filename := filepath.Base(w.path)

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event, filename)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.handleError(err)
		}
	}
}

// handleEvent 处理文件系统事件。
func (w *Watcher) handleEvent(event fsnotify.Event, filename string) {
	// 只处理目标策略文件的事件
	if filepath.Base(event.Name) != filename {
		return
	}

	// 处理可能表示策略更新的事件：
	// - Write: 直接修改
	// - Create: 新建文件（部分编辑器）
	// - Rename: 原子写入模式（vim/emacs 写临时文件后 rename）
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	// 防抖处理：重置计时器
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		// 取消检查与 Stop 用同一把锁排序：Stop 一旦持有锁完成取消，
		// 之后进入此处的回调必然看到取消信号，不会再开始新的重载；
		// 已通过检查的重载被登记进 reloads，由 Stop 等待收尾。
		w.mu.Lock()
		select {
		case <-w.ctx.Done():
			w.mu.Unlock()
			return
		default:
		}
		w.reloads.Add(1)
		w.mu.Unlock()
		defer w.reloads.Done()

		acl, err := Load(w.path, w.opts...)
		if w.callback != nil {
			w.callback(acl, err)
		}
	})
}

// handleError 处理 watcher 错误。
func (w *Watcher) handleError(err error) {
	if w.callback != nil {
		w.callback(nil, fmt.Errorf("xacl: watch error: %w", err))
	}
}
