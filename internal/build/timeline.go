package build

import "github.com/ethanhanderson/church-presenter-sub001/internal/models"

// TimedStep is a build step with its resolved start offset, in milliseconds
// from the moment its trigger fires.
type TimedStep struct {
	Step    models.BuildStep
	StartMS int
	EndMS   int
}

// Timeline expands ordered build steps into timed steps. onEnter and
// onAdvance steps start a new timing group at their own delay; withPrevious
// steps start together with the previous step (plus their delay);
// afterPrevious steps start when the previous step ends (plus their delay).
// The expansion affects presentation timing only, never visibility
// membership.
func Timeline(steps []models.BuildStep) []TimedStep {
	out := make([]TimedStep, 0, len(steps))
	prevStart, prevEnd := 0, 0

	for _, step := range steps {
		var start int
		switch step.Trigger {
		case models.TriggerWithPrevious:
			start = prevStart + step.DelayMS
		case models.TriggerAfterPrevious:
			start = prevEnd + step.DelayMS
		default:
			start = step.DelayMS
		}
		end := start + step.DurationMS

		out = append(out, TimedStep{Step: step, StartMS: start, EndMS: end})
		prevStart, prevEnd = start, end
	}
	return out
}
