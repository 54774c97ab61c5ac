package schedule

// ShapeClass tells the renderer how to round a day bubble so contiguous
// completed days inside one week bucket merge into a single streak shape.
type ShapeClass int

const (
	IsolatedUncompleted ShapeClass = iota
	IsolatedCompleted
	RunStart
	MiddleOfRun
	RunEnd
)

func (c ShapeClass) String() string {
	switch c {
	case IsolatedCompleted:
		return "isolated_completed"
	case RunStart:
		return "run_start"
	case MiddleOfRun:
		return "middle_of_run"
	case RunEnd:
		return "run_end"
	default:
		return "isolated_uncompleted"
	}
}

// Classify is a pure function of the completion state of week[i] and its
// neighbors within the same bucket. Neighbors outside the bucket count
// as not completed.
func Classify(i int, week []PlanDay, completed CompletionSet) ShapeClass {
	if i < 0 || i >= len(week) || !completed.Has(week[i].Key) {
		return IsolatedUncompleted
	}
	prev := i > 0 && completed.Has(week[i-1].Key)
	next := i < len(week)-1 && completed.Has(week[i+1].Key)
	switch {
	case prev && next:
		return MiddleOfRun
	case prev:
		return RunEnd
	case next:
		return RunStart
	default:
		return IsolatedCompleted
	}
}
