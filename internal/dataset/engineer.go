package dataset

// Feature table columns referenced by the diagnostic views.
const (
	ColumnUnitsWithoutEvalSem1 = "units_without_eval_sem1"
	ColumnTuitionUpToDate      = "Tuition fees up to date"
	ColumnGradeSem1            = "Curricular units 1st sem (grade)"
	ColumnGradeSem2            = "Curricular units 2nd sem (grade)"

	rawUnitsWithoutEvalSem1 = "Curricular units 1st sem (without evaluations)"
)

// Engineer turns a raw dataset into the feature-engineered table the
// diagnostic views read. The training pipeline owns the real transform;
// this interface lets callers plug it in.
type Engineer interface {
	Transform(t *Table) (*Table, error)
}

// EngineerFunc adapts a plain function to Engineer.
type EngineerFunc func(t *Table) (*Table, error)

func (f EngineerFunc) Transform(t *Table) (*Table, error) { return f(t) }

// Identity returns the table unchanged. Use it when the input CSV has
// already been engineered upstream.
var Identity Engineer = EngineerFunc(func(t *Table) (*Table, error) { return t, nil })

// DefaultEngineer derives the engineered columns the views need from the
// raw UCI column names when they are not already present.
type DefaultEngineer struct{}

func (DefaultEngineer) Transform(t *Table) (*Table, error) {
	if t.Has(ColumnUnitsWithoutEvalSem1) || !t.IsNumeric(rawUnitsWithoutEvalSem1) {
		return t, nil
	}
	values, err := t.Numeric(rawUnitsWithoutEvalSem1)
	if err != nil {
		return nil, err
	}
	derived := make([]float64, len(values))
	copy(derived, values)
	return t.WithColumn(ColumnUnitsWithoutEvalSem1, derived)
}
