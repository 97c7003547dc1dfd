package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/nv2avsh/core"
	"github.com/sarchlab/nv2avsh/program"
	"github.com/sarchlab/nv2avsh/verify"
)

//go:embed transform.yaml
var transformProgram []byte

func transform() {
	p, err := program.ParseYAML(transformProgram, "transform")
	if err != nil {
		panic(err)
	}

	fs := verify.NewFunctionalSimulator(p)

	// Identity modelview-projection rows, a grey tint and its divisor.
	must(fs.SetConstant(96, verify.Vec4{1, 0, 0, 0}))
	must(fs.SetConstant(97, verify.Vec4{0, 1, 0, 0}))
	must(fs.SetConstant(98, verify.Vec4{0, 0, 1, 0}))
	must(fs.SetConstant(99, verify.Vec4{0, 0, 0, 1}))
	must(fs.SetConstant(100, verify.Vec4{1, 1, 1, 4}))
	must(fs.SetInput(0, verify.Vec4{1, 2, 3, 1}))
	must(fs.SetInput(3, verify.Splat(1)))
	fs.SetViewport(verify.Splat(1), verify.Splat(0))

	fs.TraceWritePost = func(slot int, w core.Write, result verify.Vec4) {
		fmt.Printf("slot %d: %-40s -> %s\n", slot, w.Opcode+" "+w.Dest.String(), result)
	}

	must(fs.Run())

	out := fs.Outputs()
	fmt.Println("position:", out.Position)
	fmt.Println("color:   ", out.FrontColor)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	transform()

	atexit.Exit(0)
}
