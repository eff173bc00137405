// Package system 周期采样本进程与主机的资源占用
package system

import (
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats 一次采样结果，百分比取值 0-100
type Stats struct {
	CPUPercent          float64   `json:"cpu_percent"`
	MemoryPercent       float64   `json:"memory_percent"`
	MemoryBytes         uint64    `json:"memory_bytes"`
	SystemCPUPercent    float64   `json:"system_cpu_percent"`
	SystemMemoryPercent float64   `json:"system_memory_percent"`
	Goroutines          int       `json:"goroutines"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Collector 按固定间隔采样，Stats 返回最近一次结果
type Collector struct {
	proc     *process.Process
	interval time.Duration

	last atomic.Pointer[Stats]

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	wg        sync.WaitGroup
}

// New interval 不大于 0 时按 5s 采样
func New(interval time.Duration) (*Collector, error) {
	pid := int32(os.Getpid())
	proc, err := process.NewProcess(pid)
	if err != nil {
		return nil, errors.Wrapf(err, "open process %d", pid)
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}

	c := &Collector{
		proc:     proc,
		interval: interval,
		stop:     make(chan struct{}),
	}
	c.last.Store(&Stats{})
	return c, nil
}

// Start 先同步采样一次再转入后台，重复调用无效
func (c *Collector) Start() {
	c.startOnce.Do(func() {
		c.last.Store(c.sample())

		c.wg.Add(1)
		go c.loop()
	})
}

func (c *Collector) loop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.last.Store(c.sample())
		case <-c.stop:
			return
		}
	}
}

// 单项失败时该项保持零值
func (c *Collector) sample() *Stats {
	s := &Stats{
		Goroutines: runtime.NumGoroutine(),
		UpdatedAt:  time.Now(),
	}

	if v, err := c.proc.CPUPercent(); err == nil {
		s.CPUPercent = v
	}
	if p, err := cpu.Percent(0, false); err == nil && len(p) > 0 {
		s.SystemCPUPercent = p[0]
	}

	vm, vmErr := mem.VirtualMemory()
	if vmErr == nil {
		s.SystemMemoryPercent = vm.UsedPercent
	}
	if info, err := c.proc.MemoryInfo(); err == nil {
		s.MemoryBytes = info.RSS
		if vmErr == nil && vm.Total > 0 {
			s.MemoryPercent = float64(info.RSS) / float64(vm.Total) * 100
		}
	}
	return s
}

func (c *Collector) Stats() Stats {
	return *c.last.Load()
}

// Close 停止后台采样并等待退出，可重复调用
func (c *Collector) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	c.wg.Wait()
	return nil
}
