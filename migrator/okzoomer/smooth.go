package okzoomer

import "math"

const (
	// tickSeconds is the game's fixed tick length (20 ticks per second).
	tickSeconds = 0.05

	smoothEpsilon = 1e-6

	// maxSmoothTicks bounds the simulation to one minute of game time.
	maxSmoothTicks = 1200

	// maxTransitionSeconds is used when the simulation does not settle.
	maxTransitionSeconds = 5.0
)

// smoothTicks replays Ok Zoomer's smooth transition, which moves the FOV
// multiplier a fixed fraction of the remaining distance each tick, and
// counts the ticks until it is within smoothEpsilon of 1/initialZoom.
// converged is false when maxSmoothTicks pass first, which happens for
// multipliers outside (0, 2).
func smoothTicks(initialZoom int, smoothMultiplier float64) (ticks int, converged bool) {
	target := 1.0
	if initialZoom >= 1 {
		target = 1 / float64(initialZoom)
	}

	multiplier := 1.0
	for ticks = 0; ticks < maxSmoothTicks; ticks++ {
		if math.Abs(target-multiplier) <= smoothEpsilon {
			return ticks, true
		}
		multiplier += (target - multiplier) * smoothMultiplier
	}
	return ticks, math.Abs(target-multiplier) <= smoothEpsilon
}

// ticksToSeconds converts ticks to seconds rounded to the nearest tenth.
func ticksToSeconds(ticks int) float64 {
	tenths := math.Round(float64(ticks) * tickSeconds * 10)
	return tenths / 10
}

// smoothTransitionSeconds returns the zoom time matching Ok Zoomer's smooth
// transition, or maxTransitionSeconds and false if the simulation did not
// settle.
func smoothTransitionSeconds(initialZoom int, smoothMultiplier float64) (float64, bool) {
	ticks, ok := smoothTicks(initialZoom, smoothMultiplier)
	if !ok {
		return maxTransitionSeconds, false
	}
	return ticksToSeconds(ticks), true
}
