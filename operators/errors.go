package operators

import "fmt"

// ConfigError reports an operator request a factory cannot honor, such as
// an unsupported operator name or a grid of the wrong type.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

// ShapeError reports a field array whose shape does not match an operator,
// or an Apply call whose input and output share backing storage.
type ShapeError struct {
	Ctx       string
	Want, Got []int
}

func (e *ShapeError) Error() string {
	if e.Want == nil && e.Got == nil {
		return e.Ctx
	}
	return fmt.Sprintf("%s: want shape %v, got %v", e.Ctx, e.Want, e.Got)
}
