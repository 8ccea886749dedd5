package autofill

import "github.com/jonathan/form-autofill/internal/types"

// Plan splits scanned fields between the two fill passes.
type Plan struct {
	// Immediate fields are filled from the profile in the first pass.
	Immediate []types.FieldInfo
	// Deferred fields are open questions answered in the second pass.
	Deferred []types.FieldInfo
	// Skipped counts unclassified fields and extra radios of an already planned group.
	Skipped int
}

// NewPlan splits fields in document order. A radio group is planned once,
// through its first radio, since filling one radio selects within the whole group.
func NewPlan(fields []types.FieldInfo) Plan {
	var plan Plan
	radioGroups := make(map[string]bool)

	for _, f := range fields {
		switch {
		case f.SemanticType == nil:
			plan.Skipped++
		case f.TypeIs(types.CustomQuestion):
			plan.Deferred = append(plan.Deferred, f)
		case f.Kind == types.KindRadio && f.Name != "":
			if radioGroups[f.Name] {
				plan.Skipped++
				continue
			}
			radioGroups[f.Name] = true
			plan.Immediate = append(plan.Immediate, f)
		default:
			plan.Immediate = append(plan.Immediate, f)
		}
	}
	return plan
}
