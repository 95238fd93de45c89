package progressbar

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	bar := render(5, 10, 10, 3*time.Second+500*time.Millisecond)

	assert.True(t, strings.HasPrefix(bar, "|█████     |"), bar)
	assert.Contains(t, bar, "50.00%")
	assert.Contains(t, bar, "elapsed: 3s")
}

func TestIncrementIsCappedAndConcurrent(t *testing.T) {
	p := NewProgressBar(&bytes.Buffer{}, 10, 50, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Increment()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, p.Progress())
}

func TestCloseDrawsFinalBar(t *testing.T) {
	var out bytes.Buffer
	p := NewProgressBar(&out, 4, 2, time.Hour)
	p.Display()
	p.Increment()
	p.Increment()
	p.Close()
	p.Close()

	assert.Contains(t, out.String(), "|████|")
	assert.Contains(t, out.String(), "100.00%")
}
