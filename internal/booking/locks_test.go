package booking

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassLocksSerialisePerClass(t *testing.T) {
	locks := newClassLocks()

	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock(7)
			defer unlock()
			v := counter
			v++
			counter = v
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, locks.size())
}

func TestClassLocksIndependentClasses(t *testing.T) {
	locks := newClassLocks()

	unlockA := locks.lock(1)
	done := make(chan struct{})
	go func() {
		unlockB := locks.lock(2)
		unlockB()
		close(done)
	}()
	<-done

	assert.Equal(t, 1, locks.size())
	unlockA()
	assert.Equal(t, 0, locks.size())
}
