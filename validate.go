package pint

// SelfValidator is implemented by request types that validate themselves
// after binding. Schema-level validation belongs in an Expectation; this
// hook covers cross-field checks that JSON Schema cannot express.
type SelfValidator interface {
	Validate() error
}
