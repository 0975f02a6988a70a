// Package env converts environment variables into Go data. It is
// similar in design to package flag: declare variables up front,
// then call Parse once at startup.
package env

import (
	"log"
	"os"
	"strconv"
)

var funcs []func() bool

// Int returns a pointer that Parse fills from the named environment
// variable, or the default when the variable is unset.
func Int(name string, value int) *int {
	p := new(int)
	IntVar(p, name, value)
	return p
}

// IntVar is like Int but stores the value through p.
func IntVar(p *int, name string, value int) {
	*p = value
	funcs = append(funcs, func() bool {
		if s := os.Getenv(name); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				log.Println(name, err)
				return false
			}
			*p = v
		}
		return true
	})
}

// Bool returns a pointer that Parse fills from the named environment
// variable, using strconv.ParseBool.
func Bool(name string, value bool) *bool {
	p := new(bool)
	BoolVar(p, name, value)
	return p
}

// BoolVar is like Bool but stores the value through p.
func BoolVar(p *bool, name string, value bool) {
	*p = value
	funcs = append(funcs, func() bool {
		if s := os.Getenv(name); s != "" {
			v, err := strconv.ParseBool(s)
			if err != nil {
				log.Println(name, err)
				return false
			}
			*p = v
		}
		return true
	})
}

// String returns a pointer that Parse fills from the named
// environment variable.
func String(name, value string) *string {
	p := new(string)
	StringVar(p, name, value)
	return p
}

// StringVar is like String but stores the value through p.
func StringVar(p *string, name, value string) {
	*p = value
	funcs = append(funcs, func() bool {
		if s := os.Getenv(name); s != "" {
			*p = s
		}
		return true
	})
}

// Parse fills every declared variable from the environment. It
// exits the process if any variable fails to parse.
func Parse() {
	ok := true
	for _, f := range funcs {
		ok = f() && ok
	}
	if !ok {
		os.Exit(1)
	}
}
