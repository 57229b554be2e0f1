package common

// ConstError is an error type for immutable error constants. Unlike errors
// created through errors.New, values of this type can be declared as consts
// and matched against with errors.Is after arbitrary wrapping.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}
