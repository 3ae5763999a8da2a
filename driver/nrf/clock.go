//go:build tinygo || baremetal

// Package nrf implements the sniffer's peripherals on nRF52 hardware:
// TIMER1 as the timestamp timer, a PPI channel as the capture route and a
// minimal receive-only ESB radio driver.
package nrf

import (
	"device/nrf"
	"runtime/interrupt"
)

// StartHFCLK starts the high-frequency crystal clock required by the radio
// and for an accurate timer tick.
func StartHFCLK() {
	if nrf.CLOCK.HFCLKSTAT.Get()&nrf.CLOCK_HFCLKSTAT_STATE_Msk != 0 {
		return
	}
	nrf.CLOCK.EVENTS_HFCLKSTARTED.Set(0)
	nrf.CLOCK.TASKS_HFCLKSTART.Set(1)
	for nrf.CLOCK.EVENTS_HFCLKSTARTED.Get() == 0 {
	}
}

// nvicPriority maps a 0-7 priority onto the three implemented NVIC bits.
func nvicPriority(p uint8) uint8 {
	return p << 5
}

// disableInterrupts guards state shared with interrupt handlers.
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
