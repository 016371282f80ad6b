package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectsRunInTimeOrder(t *testing.T) {
	s := NewEffectScheduler()
	var ran []string
	s.Schedule(1, EffectBurn, 2, func(*Game) { ran = append(ran, "late") })
	s.Schedule(2, EffectBurn, 1, func(*Game) { ran = append(ran, "early") })
	s.Schedule(3, EffectBurn, 1, func(*Game) { ran = append(ran, "early-second") })

	s.RunDue(nil, 0.5)
	assert.Empty(t, ran)

	s.RunDue(nil, 1)
	assert.Equal(t, []string{"early", "early-second"}, ran)
	assert.Equal(t, 1, s.Len())

	s.RunDue(nil, 5)
	assert.Equal(t, []string{"early", "early-second", "late"}, ran)
	assert.Equal(t, 0, s.Len())
}

func TestRescheduleReplacesPending(t *testing.T) {
	s := NewEffectScheduler()
	calls := 0
	s.Schedule(1, EffectSlowEnd, 1, func(*Game) { calls += 10 })
	s.Schedule(1, EffectSlowEnd, 3, func(*Game) { calls++ })

	s.RunDue(nil, 2)
	assert.Equal(t, 0, calls, "the first reversal was replaced")
	assert.True(t, s.Pending(1, EffectSlowEnd))

	s.RunDue(nil, 3)
	assert.Equal(t, 1, calls)
	assert.False(t, s.Pending(1, EffectSlowEnd))
}

func TestDifferentKindsDoNotReplace(t *testing.T) {
	s := NewEffectScheduler()
	calls := 0
	s.Schedule(1, EffectBurn, 1, func(*Game) { calls++ })
	s.Schedule(1, EffectPoison, 1, func(*Game) { calls++ })
	s.RunDue(nil, 1)
	assert.Equal(t, 2, calls)
}

func TestCancel(t *testing.T) {
	s := NewEffectScheduler()
	calls := 0
	s.Schedule(1, EffectShieldEnd, 1, func(*Game) { calls++ })
	s.Schedule(1, EffectBurn, 1, func(*Game) { calls++ })
	s.Schedule(2, EffectBurn, 1, func(*Game) { calls++ })

	s.Cancel(1, EffectShieldEnd)
	assert.False(t, s.Pending(1, EffectShieldEnd))
	s.CancelEntity(2)
	assert.Equal(t, 1, s.Len())

	s.RunDue(nil, 10)
	assert.Equal(t, 1, calls)
}

func TestEffectsScheduledWhileRunning(t *testing.T) {
	s := NewEffectScheduler()
	var ran []float64
	var tick func(at float64) func(*Game)
	tick = func(at float64) func(*Game) {
		return func(*Game) {
			ran = append(ran, at)
			if at < 3 {
				s.Schedule(1, EffectBleed, at+1, tick(at+1))
			}
		}
	}
	s.Schedule(1, EffectBleed, 1, tick(1))

	s.RunDue(nil, 2)
	assert.Equal(t, []float64{1, 2}, ran, "a follow-up that is already due runs in the same call")

	s.RunDue(nil, 10)
	assert.Equal(t, []float64{1, 2, 3}, ran)
	assert.Equal(t, 0, s.Len())
}
