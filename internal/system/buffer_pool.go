package system

import (
	"image"
	"sync"
	"sync/atomic"
)

// ImagePool переиспользует кадровые буферы *image.RGBA одного размера,
// чтобы параллельный рендер не нагружал GC.
type ImagePool struct {
	pools sync.Map // image.Rectangle -> *sync.Pool

	gets   atomic.Int64
	puts   atomic.Int64
	allocs atomic.Int64
}

// PoolStats counts buffer requests, returns and fresh allocations.
type PoolStats struct {
	Gets   int64
	Puts   int64
	Allocs int64
}

var globalPool = &ImagePool{}

// GetImage возвращает буфер из пула или создает новый.
// Содержимое буфера не очищается.
func GetImage(rect image.Rectangle) *image.RGBA {
	return globalPool.Get(rect)
}

// PutImage возвращает буфер в пул.
func PutImage(img *image.RGBA) {
	globalPool.Put(img)
}

// Stats reports usage of the shared pool.
func Stats() PoolStats {
	return globalPool.Stats()
}

func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	p.gets.Add(1)
	v, _ := p.pools.LoadOrStore(rect, &sync.Pool{
		New: func() any {
			p.allocs.Add(1)
			return image.NewRGBA(rect)
		},
	})
	return v.(*sync.Pool).Get().(*image.RGBA)
}

func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	if v, ok := p.pools.Load(img.Rect); ok {
		p.puts.Add(1)
		v.(*sync.Pool).Put(img)
	}
}

func (p *ImagePool) Stats() PoolStats {
	return PoolStats{Gets: p.gets.Load(), Puts: p.puts.Load(), Allocs: p.allocs.Load()}
}
