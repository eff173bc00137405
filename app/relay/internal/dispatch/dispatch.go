// Package dispatch 将消息并发投递到 apiKey 中的各个目标
package dispatch

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/alertrelay/app/relay/internal/apikey"
	"github.com/lk2023060901/alertrelay/pkg/config"
	"github.com/lk2023060901/alertrelay/pkg/logger"
	"github.com/lk2023060901/alertrelay/pkg/notify"
	"github.com/lk2023060901/alertrelay/pkg/otel"
	"github.com/lk2023060901/alertrelay/pkg/sentry"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/trace"
)

// ErrUnsupportedDestination 目标没有对应的通知器
var ErrUnsupportedDestination = errors.New("dispatch: unsupported destination")

// Recorder 转发指标记录
type Recorder interface {
	RecordDispatch(destination string, success bool, duration time.Duration)
}

// Dispatcher 转发器
// 每个目标在协程池中独立发送，结果按 apiKey 顺序返回，单个失败不影响其他目标
type Dispatcher struct {
	config   *Config
	pool     *ants.Pool
	chatbot  notify.Notifier
	recorder Recorder
	reporter *sentry.Client
	logger   logger.Logger
	tracer   trace.Tracer
}

// Option 转发器选项
type Option func(*Dispatcher)

// WithRecorder 记录转发指标
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) { d.recorder = r }
}

// WithReporter 发送失败时上报 Sentry
func WithReporter(c *sentry.Client) Option {
	return func(d *Dispatcher) { d.reporter = c }
}

// New 创建转发器，chatbot 为 DestinationChatBot 的通知器
func New(cfg *Config, chatbot notify.Notifier, l logger.Logger, opts ...Option) (*Dispatcher, error) {
	newCfg, err := config.MergeConfig(DefaultConfig(), cfg)
	if err != nil {
		return nil, err
	}
	if err := newCfg.Validate(); err != nil {
		return nil, err
	}
	if l == nil {
		l = logger.NewNoop()
	}

	d := &Dispatcher{
		config:  newCfg,
		chatbot: chatbot,
		logger:  l.Named("relay.dispatch"),
		tracer:  otel.Tracer("alertrelay/dispatch"),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.pool, err = ants.NewPool(newCfg.PoolSize,
		ants.WithExpiryDuration(newCfg.ExpiryDuration),
		ants.WithLogger(poolLogger{d.logger}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create dispatch pool")
	}

	return d, nil
}

// notifierFor 目标到通知器的映射，新增目标时在此增加分支
func (d *Dispatcher) notifierFor(dest apikey.Destination) notify.Notifier {
	switch dest {
	case apikey.DestinationChatBot:
		return d.chatbot
	default:
		return nil
	}
}

// Dispatch 向所有目标投递消息，len(结果) == len(keys)
func (d *Dispatcher) Dispatch(ctx context.Context, keys []apikey.Key, msg *notify.Message) []Result {
	results := make([]Result, len(keys))

	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					d.reporter.RecoverWithContext(ctx, r)
					d.logger.ErrorContext(ctx, "dispatch panic", "destination", key.Name(), "index", i, "panic", r)
					results[i] = newResult(key.Name(), nil, errors.Newf("panic: %v", r))
				}
			}()
			results[i] = d.send(ctx, i, key, msg)
		}

		if err := d.pool.Submit(task); err != nil {
			wg.Done()
			results[i] = newResult(key.Name(), nil, errors.Wrap(err, "submit dispatch task"))
		}
	}
	wg.Wait()

	if failed := countFailed(results); failed > 0 && failed == len(results) {
		d.reporter.CaptureMessage(fmt.Sprintf("alert not delivered: all %d destinations failed", failed), sentry.LevelError)
	}

	return results
}

func countFailed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Succeeded {
			n++
		}
	}
	return n
}

// send 发送到单个目标，超时独立计算
func (d *Dispatcher) send(ctx context.Context, index int, key apikey.Key, msg *notify.Message) Result {
	name := key.Name()

	ctx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	ctx, span := d.tracer.Start(ctx, "relay.dispatch "+name,
		otel.WithSpanKind(otel.SpanKindClient),
		otel.WithAttributes(
			otel.String(otel.RelayDestinationKey, name),
			otel.Int(otel.RelayDestinationIndexKey, index),
		),
	)
	defer span.End()

	start := time.Now()

	var (
		receipt *notify.Receipt
		err     error
	)
	if n := d.notifierFor(key.Destination); n != nil {
		receipt, err = n.Send(ctx, key.Secret, msg)
	} else {
		err = errors.Wrapf(ErrUnsupportedDestination, "%s", name)
	}

	elapsed := time.Since(start)
	if d.recorder != nil {
		d.recorder.RecordDispatch(name, err == nil, elapsed)
	}

	if err != nil {
		otel.RecordError(span, err)
		d.reporter.CaptureExceptionWithTags(err, map[string]string{
			sentry.TagDestination: name,
			sentry.TagIndex:       strconv.Itoa(index),
		})
		d.logger.WarnContext(ctx, "dispatch failed",
			"destination", name,
			"index", index,
			"duration", elapsed,
			"error", err,
		)
	} else {
		span.SetStatus(otel.CodeOk, "")
		d.logger.DebugContext(ctx, "dispatch succeeded", "destination", name, "index", index, "duration", elapsed)
	}

	return newResult(name, receipt, err)
}

// Running 当前执行中的发送数
func (d *Dispatcher) Running() int {
	return d.pool.Running()
}

// Close 等待进行中的发送结束后释放协程池
func (d *Dispatcher) Close() error {
	return d.pool.ReleaseTimeout(d.config.Timeout + time.Second)
}

// poolLogger 将 ants 的日志接入 logger
type poolLogger struct {
	l logger.Logger
}

func (p poolLogger) Printf(format string, args ...any) {
	p.l.Warn(fmt.Sprintf(format, args...))
}
