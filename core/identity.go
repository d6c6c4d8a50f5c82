package core

import "fmt"

// Identity identifies who a session acts on behalf of.
type Identity struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

func (identity Identity) String() string {
	if identity.Email == "" {
		return identity.Name
	}
	return fmt.Sprintf("%s <%s>", identity.Name, identity.Email)
}
