package test

import (
	"sync"
	"time"
)

// StepClock advances by Step on every read so consecutive writes get
// distinct, increasing timestamps.
type StepClock struct {
	mutex   sync.Mutex
	Current time.Time
	Step    time.Duration
}

func NewStepClock() *StepClock {
	return &StepClock{
		Current: time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC),
		Step:    time.Second,
	}
}

func (c *StepClock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.Current = c.Current.Add(c.Step)
	return c.Current
}
