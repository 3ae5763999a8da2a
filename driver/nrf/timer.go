//go:build tinygo || baremetal

package nrf

import (
	"device/nrf"
	"runtime/interrupt"

	proto "github.com/ystepanoff/nrfsniff/protocol"
)

const (
	compareReload  = 0 // CC[0]: reload threshold, clears the counter
	compareCapture = 1 // CC[1]: latched by the capture route
)

// overflowHandler is called from the TIMER1 interrupt.
var overflowHandler func()

// Timer drives TIMER1 as a free-running 1 MHz counter that clears at the
// reload threshold.
type Timer struct {
	irq interrupt.Interrupt
}

func NewTimer() *Timer { return &Timer{} }

func (t *Timer) Configure(reload uint32, onOverflow func()) error {
	if reload == 0 {
		return proto.ErrInvalidInterval
	}
	StartHFCLK()

	nrf.TIMER1.TASKS_STOP.Set(1)
	nrf.TIMER1.MODE.Set(nrf.TIMER_MODE_MODE_Timer)
	nrf.TIMER1.PRESCALER.Set(proto.TimerPrescaler)
	nrf.TIMER1.BITMODE.Set(nrf.TIMER_BITMODE_BITMODE_32Bit)
	nrf.TIMER1.CC[compareReload].Set(reload)
	nrf.TIMER1.SHORTS.Set(nrf.TIMER_SHORTS_COMPARE0_CLEAR_Msk)
	nrf.TIMER1.EVENTS_COMPARE[compareReload].Set(0)
	nrf.TIMER1.INTENSET.Set(nrf.TIMER_INTENSET_COMPARE0_Msk)

	overflowHandler = onOverflow
	t.irq = interrupt.New(nrf.IRQ_TIMER1, func(interrupt.Interrupt) {
		if nrf.TIMER1.EVENTS_COMPARE[compareReload].Get() != 0 {
			nrf.TIMER1.EVENTS_COMPARE[compareReload].Set(0)
			if overflowHandler != nil {
				overflowHandler()
			}
		}
	})
	t.irq.SetPriority(nvicPriority(proto.TimerIRQPriority))
	t.irq.Enable()
	return nil
}

func (t *Timer) Stop()  { nrf.TIMER1.TASKS_STOP.Set(1) }
func (t *Timer) Clear() { nrf.TIMER1.TASKS_CLEAR.Set(1) }
func (t *Timer) Start() { nrf.TIMER1.TASKS_START.Set(1) }

// Captured returns the value latched into CC[1] by the last address match.
func (t *Timer) Captured() uint32 {
	return nrf.TIMER1.CC[compareCapture].Get()
}
