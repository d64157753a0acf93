// Package abi models the narrow slice of ABI-transaction structure the
// prolongation stage needs: a function-descriptor list and a
// transaction-length toggle, without depending on a full ABI codec.
package abi

// FunctionDescriptor names one exported function slot of a contract
// ABI. Prolongation drops descriptors with an empty Name before it
// doubles the list.
type FunctionDescriptor struct {
	Name string
}

// Descriptors exposes the function-descriptor list and transaction
// length of a contract under test, the two fields the prolongation
// stage duplicates or toggles.
type Descriptors interface {
	FuncDescriptors() []FunctionDescriptor
	SetFuncDescriptors([]FunctionDescriptor)
	TransactionLength() int
	SetTransactionLength(int)
}

// Static is a fixed in-memory Descriptors implementation, the form a
// test or a single-contract CLI run binds against.
type Static struct {
	Funcs  []FunctionDescriptor
	TxLen  int
}

func (s *Static) FuncDescriptors() []FunctionDescriptor { return s.Funcs }

func (s *Static) SetFuncDescriptors(fds []FunctionDescriptor) { s.Funcs = fds }

func (s *Static) TransactionLength() int { return s.TxLen }

func (s *Static) SetTransactionLength(n int) { s.TxLen = n }
