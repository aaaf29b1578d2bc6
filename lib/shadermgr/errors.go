package shadermgr

import "errors"

var (
	ErrUnknownShader    = errors.New("can't find shader")
	ErrDuplicateShader  = errors.New("shader already registered")
	ErrInvalidProgram   = errors.New("invalid program")
	ErrUnknownUniform   = errors.New("can't find uniform variable")
	ErrUnknownAttribute = errors.New("can't find attribute")
	ErrInNamedBlock     = errors.New("uniform lives in a named block")
	ErrNotInNamedBlock  = errors.New("uniform is not in a named block")
	ErrUnknownBlock     = errors.New("can't find named block")
	ErrInvalidBinding   = errors.New("invalid binding point")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrNotAnArray       = errors.New("uniform is not an array")
	ErrArrayBounds      = errors.New("array bound exceeded")
	ErrOutOfStorage     = errors.New("write outside uniform buffer storage")
	ErrNoValues         = errors.New("no values given")
)

var reasons = []struct {
	err    error
	reason string
}{
	{ErrUnknownShader, "unknown_shader"},
	{ErrDuplicateShader, "duplicate_shader"},
	{ErrInvalidProgram, "invalid_program"},
	{ErrUnknownUniform, "unknown_uniform"},
	{ErrUnknownAttribute, "unknown_attribute"},
	{ErrInNamedBlock, "in_named_block"},
	{ErrNotInNamedBlock, "not_in_named_block"},
	{ErrUnknownBlock, "unknown_block"},
	{ErrInvalidBinding, "invalid_binding"},
	{ErrTypeMismatch, "type_mismatch"},
	{ErrNotAnArray, "not_an_array"},
	{ErrArrayBounds, "array_bounds"},
	{ErrOutOfStorage, "out_of_storage"},
	{ErrNoValues, "no_values"},
}

// reasonOf gives the metrics label for a failure.
func reasonOf(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return "other"
}
