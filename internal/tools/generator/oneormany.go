package generator

// oneOrManyDefinition is emitted once per generated file, and only when at
// least one field uses the one-or-many idiom. It lives in the generated
// source rather than in a shared package so that generated files stay
// self-contained.
const oneOrManyDefinition = `// OneOrMany decodes a JSON value that may be either a single item or a
// list of items. A single item marshals back as a bare value.
type OneOrMany[T any] []T

func (o *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	var one T
	if err := json.Unmarshal(data, &one); err == nil {
		*o = OneOrMany[T]{one}
		return nil
	}
	var many []T
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*o = many
	return nil
}

func (o OneOrMany[T]) MarshalJSON() ([]byte, error) {
	if len(o) == 1 {
		return json.Marshal(o[0])
	}
	return json.Marshal([]T(o))
}
`
