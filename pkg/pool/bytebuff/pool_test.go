package bytebuff

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolGetPut(t *testing.T) {
	p := NewPool()

	buf := p.Get()
	assert.Zero(t, buf.Len())
	_, _ = buf.WriteString("hello")
	assert.Equal(t, "hello", buf.String())
	p.Put(buf)
	p.Put(nil)

	gets, puts := p.Stats()
	assert.EqualValues(t, 1, gets)
	assert.EqualValues(t, 1, puts)

	// 复用的缓冲已被重置
	again := p.Get()
	assert.Zero(t, again.Len())
	p.Put(again)
}

func TestRender(t *testing.T) {
	out := Render(func(buf *ByteBuffer) {
		_, _ = buf.WriteString("- Metric: cpu")
		_ = buf.WriteByte('\n')
		_, _ = buf.WriteString("- Value: 90")
	})
	assert.Equal(t, "- Metric: cpu\n- Value: 90", out)

	// 返回值与缓冲解耦，后续复用不影响已返回的字符串
	_ = Render(func(buf *ByteBuffer) { _, _ = buf.WriteString("overwrite") })
	assert.Equal(t, "- Metric: cpu\n- Value: 90", out)
}

func TestPoolConcurrent(t *testing.T) {
	p := NewPool()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "x", p.Render(func(buf *ByteBuffer) { _ = buf.WriteByte('x') }))
		}()
	}
	wg.Wait()

	gets, puts := p.Stats()
	assert.EqualValues(t, 50, gets)
	assert.EqualValues(t, 50, puts)
}

func BenchmarkRender(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Render(func(buf *ByteBuffer) { _, _ = buf.WriteString("benchmark line") })
	}
}
