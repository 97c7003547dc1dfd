package main

import (
	_ "embed"
	"fmt"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/nv2avsh/api"
	"github.com/sarchlab/nv2avsh/core"
	"github.com/sarchlab/nv2avsh/program"
)

//go:embed passthrough.yaml
var passThroughProgram []byte

func passThrough(driver api.Driver) {
	p, err := program.ParseYAML(passThroughProgram, "passthrough")
	if err != nil {
		panic(err)
	}

	src, err := driver.TranslateProgram(p)
	if err != nil {
		panic(err)
	}

	fmt.Print(src)
}

func main() {
	driver := api.DriverBuilder{}.
		WithTranslator(core.NewBuilder().Build()).
		WithCache(api.NewMemoryCache()).
		Build("Driver")

	passThrough(driver)

	atexit.Exit(0)
}
