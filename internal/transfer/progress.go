package transfer

// Phase names one stage of an import.
type Phase string

const (
	PhaseValidation Phase = "validation"
	PhaseStore      Phase = "store"
	PhaseDrugs      Phase = "drugs"
	PhaseSales      Phase = "sales"
	PhaseSuppliers  Phase = "suppliers"
	PhaseOrderLists Phase = "orderLists"
	PhaseHistory    Phase = "history"
	PhaseComplete   Phase = "complete"
)

// TotalSteps is the fixed step count reported with every progress update.
const TotalSteps = 6

// phaseSteps maps phases onto the 1..TotalSteps counter. Store creation is part
// of setup and shares the validation step.
var phaseSteps = map[Phase]int{
	PhaseValidation: 1,
	PhaseStore:      1,
	PhaseDrugs:      2,
	PhaseSales:      3,
	PhaseSuppliers:  4,
	PhaseOrderLists: 5,
	PhaseHistory:    6,
	PhaseComplete:   TotalSteps,
}

// Progress is one progress update. It is informational only.
type Progress struct {
	Phase   Phase  `json:"phase"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

type ProgressFunc func(Progress)

func (f ProgressFunc) report(phase Phase, message string) {
	if f == nil {
		return
	}
	f(Progress{Phase: phase, Current: phaseSteps[phase], Total: TotalSteps, Message: message})
}
