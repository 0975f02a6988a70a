// Command avmasm converts VM programs between their textual and
// compiled forms.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arclight-vm/arclight/env"
	"github.com/arclight-vm/arclight/protocol/vm"
)

const help = `
Command avmasm reads a program from stdin and writes the converted
form to stdout.

	echo 'TXN OnCompletion 0 NUMEQUAL VERIFY 1 RETURN'|avmasm
	echo c101009c6951ce|avmasm -d

Set AVMASM_VERSION to reject ops newer than a target VM version
when assembling.
`

var (
	disassemble = flag.Bool("d", false, "disassemble hex bytecode instead of assembling")
	version     = env.Int("AVMASM_VERSION", vm.MaxVersion)
)

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, help)
	}
	flag.Parse()
	env.Parse()

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fatalf("%v\n", err)
	}

	if *disassemble {
		prog, err := hex.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			fatalf("err decoding hex: %s\n", err)
		}
		s, err := vm.Disassemble(prog)
		if err != nil {
			fatalf("error disassembling: %s\n", err)
		}
		fmt.Println(s)
		return
	}

	prog, err := vm.Assemble(string(data))
	if err != nil {
		fatalf("error assembling: %s\n", err)
	}
	if err := checkVersion(prog, uint32(*version)); err != nil {
		fatalf("%s\n", err)
	}
	fmt.Println(hex.EncodeToString(prog))
}

// checkVersion rejects programs using ops newer than the target VM
// version.
func checkVersion(prog []byte, target uint32) error {
	insts, err := vm.ParseProgram(prog)
	if err != nil {
		return err
	}
	for _, inst := range insts {
		if v := vm.OpVersion(inst.Op); v > target {
			return fmt.Errorf("%s needs version %d, target is %d", inst.Op, v, target)
		}
	}
	return nil
}
