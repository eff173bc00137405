// Package bytebuff 基于 valyala/bytebufferpool 的缓冲池
// 用于渲染卡片正文、标题等短生命周期字符串
package bytebuff

import (
	"sync/atomic"

	"github.com/valyala/bytebufferpool"
)

// ByteBuffer 池化的字节缓冲
type ByteBuffer = bytebufferpool.ByteBuffer

// Pool 带统计的缓冲池
type Pool struct {
	pool bytebufferpool.Pool

	gets atomic.Uint64
	puts atomic.Uint64
}

// defaultPool 默认全局池
var defaultPool = NewPool()

// NewPool 创建缓冲池
func NewPool() *Pool {
	return &Pool{}
}

// Get 从池中获取一个已清空的 ByteBuffer
func (p *Pool) Get() *ByteBuffer {
	p.gets.Add(1)
	return p.pool.Get()
}

// Put 归还 ByteBuffer，归还后不可再使用
func (p *Pool) Put(buf *ByteBuffer) {
	if buf == nil {
		return
	}
	p.puts.Add(1)
	p.pool.Put(buf)
}

// Render 借用一个缓冲执行 fn，返回写入内容的字符串拷贝
func (p *Pool) Render(fn func(buf *ByteBuffer)) string {
	buf := p.Get()
	defer p.Put(buf)

	fn(buf)
	return buf.String()
}

// Stats 返回 Get/Put 次数
func (p *Pool) Stats() (gets, puts uint64) {
	return p.gets.Load(), p.puts.Load()
}

// Get 从默认池获取
func Get() *ByteBuffer {
	return defaultPool.Get()
}

// Put 归还到默认池
func Put(buf *ByteBuffer) {
	defaultPool.Put(buf)
}

// Render 使用默认池渲染字符串
func Render(fn func(buf *ByteBuffer)) string {
	return defaultPool.Render(fn)
}
