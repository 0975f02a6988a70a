package abi

import "encoding/json"

// Contract is the JSON interface descriptor emitted alongside a
// compiled application, enumerating its callable methods.
type Contract struct {
	Name    string           `json:"name"`
	Methods []ContractMethod `json:"methods"`
}

type ContractMethod struct {
	Name    string         `json:"name"`
	Args    []ContractArg  `json:"args"`
	Returns ContractReturn `json:"returns"`
}

type ContractArg struct {
	Type string `json:"type"`
}

type ContractReturn struct {
	Type string `json:"type"`
}

// Describe renders m as a descriptor entry.
func Describe(m Method) ContractMethod {
	cm := ContractMethod{
		Name: m.Name,
		Args: []ContractArg{},
		Returns: ContractReturn{Type: "void"},
	}
	for _, a := range m.Args {
		cm.Args = append(cm.Args, ContractArg{Type: a.String()})
	}
	if m.Returns != nil {
		cm.Returns.Type = m.Returns.String()
	}
	return cm
}

// MarshalText renders the descriptor as indented JSON.
func (c Contract) MarshalText() ([]byte, error) {
	// Marshal through an alias type so encoding/json does not re-enter
	// MarshalText on the same value.
	type plain Contract
	return json.MarshalIndent(plain(c), "", "  ")
}
