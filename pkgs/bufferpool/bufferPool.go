package bufferpool

import (
	"bytes"
	"sync"
)

var pool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

func Get() *bytes.Buffer {
	return pool.Get().(*bytes.Buffer)
}

func Put(buffers ...*bytes.Buffer) {
	for _, buf := range buffers {
		buf.Reset()
		pool.Put(buf)
	}
}
