// Package simulate runs the day-by-day charging simulation for one agent:
// battery state tracking, en-route look-ahead, loop closure, and the
// resulting per-agent record.
package simulate

import (
	"evchargesim/internal/config"
)

const (
	hoursToSeconds = 3600.0
	kmToMetres     = 3.6
)

// BatteryState tracks one agent's battery through a simulation run. All
// quantities are held in kWs (kilowatt-seconds) and metres, converted once
// at construction from the caller-facing kWh/km units.
type BatteryState struct {
	State           float64
	Capacity        float64
	Initial         float64
	Trigger         float64
	ConsumptionRate float64
}

// NewBatteryState converts batterySpec/triggerSpec from kWh/km units into
// the kWs/m units the simulation operates in.
func NewBatteryState(batterySpec config.BatterySpec, triggerSpec config.TriggerSpec) BatteryState {
	capacity := batterySpec.Capacity * hoursToSeconds
	return BatteryState{
		State:           batterySpec.Initial * hoursToSeconds,
		Capacity:        capacity,
		Initial:         batterySpec.Initial * hoursToSeconds,
		Trigger:         triggerSpec.Trigger * capacity,
		ConsumptionRate: batterySpec.ConsumptionRate * kmToMetres,
	}
}

// ApplyDistance reduces State by distance (metres) at ConsumptionRate. State
// may go negative; that's a diagnostic signal that charging failed to keep
// up, not a clamped floor.
func (b *BatteryState) ApplyDistance(distance float64) {
	b.State -= distance * b.ConsumptionRate
}

// Deficit is the gap between Capacity and State.
func (b *BatteryState) Deficit() float64 {
	return b.Capacity - b.State
}

// MustCharge reports whether State has fallen to or below Trigger.
func (b *BatteryState) MustCharge() bool {
	return b.State <= b.Trigger
}

// ChargeToFull charges at chargeRate until Capacity is reached, returning
// the amount charged and the duration (seconds, truncated toward zero).
func (b *BatteryState) ChargeToFull(chargeRate float64) (amount float64, duration int) {
	desired := b.Deficit()
	duration = int(desired / chargeRate)
	b.State = b.Capacity
	return desired, duration
}

// ChargeForDuration attempts to charge for dur seconds at chargeRate. If
// that would exceed Deficit, it charges to full instead and returns the
// truncated duration actually needed.
func (b *BatteryState) ChargeForDuration(dur int, chargeRate float64) (amount float64, duration int) {
	charge := float64(dur) * chargeRate
	if charge > b.Deficit() {
		charge = b.Deficit()
		actualDuration := int(charge / chargeRate)
		b.ChargeToFull(chargeRate)
		return charge, actualDuration
	}
	b.State += charge
	return charge, dur
}

// ChargeToDesired attempts to apply desiredCharge at chargeRate. If that
// would exceed Deficit, it charges to full instead.
func (b *BatteryState) ChargeToDesired(desiredCharge float64, chargeRate float64) (amount float64, duration int) {
	if desiredCharge > b.Deficit() {
		charge := b.Deficit()
		actualDuration := int(charge / chargeRate)
		b.ChargeToFull(chargeRate)
		return charge, actualDuration
	}
	b.State += desiredCharge
	return desiredCharge, int(desiredCharge / chargeRate)
}
